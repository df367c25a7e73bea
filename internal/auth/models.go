package auth

import "time"

type Session struct {
	SessionID string    `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"not null;unique" json:"-"`
	ExpiresAt time.Time `gorm:"not null"`
}

type User struct {
	UserID         string  `gorm:"primaryKey" json:"user_id"`
	Username       string  `gorm:"uniqueIndex;not null" json:"username"`
	Password       string  `json:"password,omitempty" gorm:"-"`
	HashedPassword string  `json:"-"`
	Role           string  `gorm:"default:'user'" json:"role"`
	Session        Session `gorm:"foreignKey:UserID" json:"-"`
}

func (Session) TableName() string { return "sessions" }
func (User) TableName() string    { return "users" }

// DefaultRole is reported for users without an explicit role.
const DefaultRole = "user"

type MeResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type RoleResponse struct {
	Role string `json:"role"`
}

type AdminResponse struct {
	IsAdmin bool `json:"is_admin"`
}
