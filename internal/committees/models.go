package committees

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Roles a member can hold on a committee.
const (
	RoleChairman     = "Chairman"
	RoleViceChairman = "Vice Chairman"
	RoleFirstMember  = "First Member"
	RoleSecondMember = "Second Member"
	RoleThirdMember  = "Third Member"
)

type Committee struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string                      `gorm:"not null;index" json:"name"`
	Description      string                      `json:"description"`
	Jurisdiction     string                      `json:"jurisdiction"`
	Responsibilities datatypes.JSONSlice[string] `json:"responsibilities"`
	RecentActivities datatypes.JSONSlice[string] `json:"recent_activities"`
	Achievements     datatypes.JSONSlice[string] `json:"achievements"`
	UpcomingMeetings datatypes.JSONSlice[string] `json:"upcoming_meetings"`
	CommitteeMembers []CommitteeMember           `gorm:"foreignKey:CommitteeID;constraint:OnDelete:CASCADE" json:"committee_members"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

func (Committee) TableName() string { return "committees" }

func (c Committee) Key() string { return c.ID.String() }

func (c *Committee) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CommitteeMember is a seat on a committee.
type CommitteeMember struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CommitteeID uuid.UUID      `gorm:"type:uuid;not null;index" json:"committee_id"`
	MemberID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"member_id"`
	Role        string         `gorm:"not null" json:"role"`
	Member      *MemberSummary `gorm:"foreignKey:MemberID" json:"member"`
}

func (CommitteeMember) TableName() string { return "committee_members" }

func (cm *CommitteeMember) BeforeCreate(*gorm.DB) error {
	if cm.ID == uuid.Nil {
		cm.ID = uuid.New()
	}
	return nil
}

// MemberSummary is the slice of a member shown on committee cards.
type MemberSummary struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `json:"name"`
	Title    string    `json:"title"`
	Position string    `json:"position"`
	ImageURL string    `json:"image_url"`
}

func (MemberSummary) TableName() string { return "members" }

// SearchColumns are matched by free-text search and highlighted.
var SearchColumns = []string{"name", "description", "jurisdiction"}
