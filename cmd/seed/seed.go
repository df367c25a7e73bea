package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// File is the seed file contract. Dates are YYYY-MM-DD.
type File struct {
	Users       []UserSeed       `yaml:"users"`
	Members     []MemberSeed     `yaml:"members"`
	Committees  []CommitteeSeed  `yaml:"committees"`
	News        []NewsSeed       `yaml:"news"`
	Resolutions []ResolutionSeed `yaml:"resolutions"`
	Slides      []SlideSeed      `yaml:"slides"`
}

type UserSeed struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type MemberSeed struct {
	Name         string   `yaml:"name"`
	Title        string   `yaml:"title"`
	Position     string   `yaml:"position"`
	ImageURL     string   `yaml:"image_url"`
	Biography    string   `yaml:"biography"`
	TermStart    string   `yaml:"term_start"`
	TermEnd      string   `yaml:"term_end"`
	IsLeadership bool     `yaml:"is_leadership"`
	Achievements []string `yaml:"achievements"`
	Education    []string `yaml:"education"`
	Experience   []string `yaml:"experience"`
}

type CommitteeSeed struct {
	Name             string            `yaml:"name"`
	Description      string            `yaml:"description"`
	Jurisdiction     string            `yaml:"jurisdiction"`
	Responsibilities []string          `yaml:"responsibilities"`
	RecentActivities []string          `yaml:"recent_activities"`
	Achievements     []string          `yaml:"achievements"`
	UpcomingMeetings []string          `yaml:"upcoming_meetings"`
	Members          []CommitteeMember `yaml:"members"`
}

// CommitteeMember refers to a member of the same file by name.
type CommitteeMember struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

type NewsSeed struct {
	Title      string `yaml:"title"`
	Date       string `yaml:"date"`
	Content    string `yaml:"content"`
	IsFeatured bool   `yaml:"is_featured"`
	IsPriority *bool  `yaml:"is_priority"`
	OrderIndex int    `yaml:"order_index"`
}

type ResolutionSeed struct {
	ResolutionNumber string `yaml:"resolution_number"`
	OrdinanceNumber  string `yaml:"ordinance_number"`
	Title            string `yaml:"title"`
	Description      string `yaml:"description"`
	DateApproved     string `yaml:"date_approved"`
	EffectiveDate    string `yaml:"effective_date"`
	Category         string `yaml:"category"`
	IsActive         *bool  `yaml:"is_active"`
	IsFeatured       bool   `yaml:"is_featured"`
	FileURL          string `yaml:"file_url"`
}

type SlideSeed struct {
	ImageURL   string `yaml:"image_url"`
	Thrust     string `yaml:"thrust"`
	Quote      string `yaml:"quote"`
	Author     string `yaml:"author"`
	Position   string `yaml:"position"`
	OrderIndex int    `yaml:"order_index"`
	IsActive   *bool  `yaml:"is_active"`
}

type Counts struct {
	Users, Members, Committees, CommitteeMembers, News, Resolutions, Slides int
}

func (c Counts) String() string {
	return fmt.Sprintf("users=%d members=%d committees=%d committee_members=%d news=%d resolutions=%d slides=%d",
		c.Users, c.Members, c.Committees, c.CommitteeMembers, c.News, c.Resolutions, c.Slides)
}

func loadFile(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.UnmarshalWithOptions(b, &f, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

// Validate checks required fields, dates and committee member references.
func (f *File) Validate() error {
	var errs []error
	bad := func(format string, args ...any) { errs = append(errs, fmt.Errorf(format, args...)) }

	for i, u := range f.Users {
		if u.Username == "" || u.Password == "" {
			bad("users[%d]: username and password are required", i)
		}
	}
	names := make(map[string]bool, len(f.Members))
	for i, m := range f.Members {
		if m.Name == "" {
			bad("members[%d]: name is required", i)
		}
		if names[m.Name] {
			bad("members[%d]: duplicate name %q", i, m.Name)
		}
		names[m.Name] = true
		checkDate(bad, fmt.Sprintf("members[%d].term_start", i), m.TermStart, false)
		checkDate(bad, fmt.Sprintf("members[%d].term_end", i), m.TermEnd, false)
	}
	for i, c := range f.Committees {
		if c.Name == "" {
			bad("committees[%d]: name is required", i)
		}
		for j, cm := range c.Members {
			if !names[cm.Name] {
				bad("committees[%d].members[%d]: unknown member %q", i, j, cm.Name)
			}
			if cm.Role == "" {
				bad("committees[%d].members[%d]: role is required", i, j)
			}
		}
	}
	for i, n := range f.News {
		if n.Title == "" || strings.TrimSpace(n.Content) == "" {
			bad("news[%d]: title and content are required", i)
		}
		checkDate(bad, fmt.Sprintf("news[%d].date", i), n.Date, true)
	}
	for i, r := range f.Resolutions {
		if r.ResolutionNumber == "" || r.Title == "" {
			bad("resolutions[%d]: resolution_number and title are required", i)
		}
		checkDate(bad, fmt.Sprintf("resolutions[%d].date_approved", i), r.DateApproved, true)
		checkDate(bad, fmt.Sprintf("resolutions[%d].effective_date", i), r.EffectiveDate, false)
	}
	return errors.Join(errs...)
}

func checkDate(bad func(string, ...any), field, v string, required bool) {
	if v == "" {
		if required {
			bad("%s is required", field)
		}
		return
	}
	if _, err := time.Parse(time.DateOnly, v); err != nil {
		bad("%s: %q is not YYYY-MM-DD", field, v)
	}
}

func date(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil
	}
	return &t
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func jsonList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}

func orTrue(b *bool) bool { return b == nil || *b }

// wipe clears the site content tables. Users and sessions are kept.
func wipe(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"committee_members", "committees", "members", "news_items", "resolutions", "slides"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// apply inserts everything in f. Users are upserted by username.
func apply(ctx context.Context, tx *sql.Tx, f *File, now time.Time) (Counts, error) {
	var c Counts

	for _, u := range f.Users {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return c, fmt.Errorf("hash password for %s: %w", u.Username, err)
		}
		role := u.Role
		if role == "" {
			role = "user"
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO users (user_id, username, hashed_password, role)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (username) DO UPDATE SET hashed_password = EXCLUDED.hashed_password, role = EXCLUDED.role`,
			uuid.NewString(), u.Username, string(hashed), role); err != nil {
			return c, fmt.Errorf("user %s: %w", u.Username, err)
		}
		c.Users++
	}

	memberIDs := make(map[string]uuid.UUID, len(f.Members))
	for _, m := range f.Members {
		lists := make([]string, 3)
		for i, v := range [][]string{m.Achievements, m.Education, m.Experience} {
			s, err := jsonList(v)
			if err != nil {
				return c, err
			}
			lists[i] = s
		}
		id := uuid.New()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO members (id, name, title, position, image_url, biography, term_start, term_end,
				is_leadership, achievements, education, experience, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::json, $11::json, $12::json, $13, $13)`,
			id, m.Name, m.Title, m.Position, m.ImageURL, m.Biography, date(m.TermStart), date(m.TermEnd),
			m.IsLeadership, lists[0], lists[1], lists[2], now); err != nil {
			return c, fmt.Errorf("member %s: %w", m.Name, err)
		}
		memberIDs[m.Name] = id
		c.Members++
	}

	for _, cm := range f.Committees {
		lists := make([]string, 4)
		for i, v := range [][]string{cm.Responsibilities, cm.RecentActivities, cm.Achievements, cm.UpcomingMeetings} {
			s, err := jsonList(v)
			if err != nil {
				return c, err
			}
			lists[i] = s
		}
		id := uuid.New()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO committees (id, name, description, jurisdiction, responsibilities, recent_activities,
				achievements, upcoming_meetings, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5::json, $6::json, $7::json, $8::json, $9, $9)`,
			id, cm.Name, cm.Description, cm.Jurisdiction, lists[0], lists[1], lists[2], lists[3], now); err != nil {
			return c, fmt.Errorf("committee %s: %w", cm.Name, err)
		}
		c.Committees++
		for _, m := range cm.Members {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO committee_members (id, committee_id, member_id, role) VALUES ($1, $2, $3, $4)`,
				uuid.New(), id, memberIDs[m.Name], m.Role); err != nil {
				return c, fmt.Errorf("committee %s member %s: %w", cm.Name, m.Name, err)
			}
			c.CommitteeMembers++
		}
	}

	for _, n := range f.News {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO news_items (id, title, date, content, is_featured, is_priority, order_index, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
			uuid.New(), n.Title, date(n.Date), strings.TrimSpace(n.Content), n.IsFeatured, orTrue(n.IsPriority),
			n.OrderIndex, now); err != nil {
			return c, fmt.Errorf("news %q: %w", n.Title, err)
		}
		c.News++
	}

	for _, r := range f.Resolutions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO resolutions (id, resolution_number, ordinance_number, title, description, date_approved,
				effective_date, category, is_active, with_ordinance, is_featured, file_url, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)`,
			uuid.New(), r.ResolutionNumber, nullString(r.OrdinanceNumber), r.Title, r.Description,
			date(r.DateApproved), date(r.EffectiveDate), nullString(r.Category), orTrue(r.IsActive),
			r.OrdinanceNumber != "", r.IsFeatured, nullString(r.FileURL), now); err != nil {
			return c, fmt.Errorf("resolution %s: %w", r.ResolutionNumber, err)
		}
		c.Resolutions++
	}

	for _, s := range f.Slides {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO slides (id, image_url, thrust, quote, author, position, order_index, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
			uuid.New(), s.ImageURL, s.Thrust, s.Quote, s.Author, s.Position, s.OrderIndex, orTrue(s.IsActive), now); err != nil {
			return c, fmt.Errorf("slide %q: %w", s.Thrust, err)
		}
		c.Slides++
	}
	return c, nil
}
