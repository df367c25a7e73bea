package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/EmpoweredVote/SB-Backend/internal/middleware"
	"github.com/EmpoweredVote/SB-Backend/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
)

// Store is the identity and session service backed by the users and
// sessions tables. It satisfies both middleware fetcher interfaces.
type Store struct {
	db *gorm.DB
}

var (
	_ middleware.SessionFetcher = (*Store)(nil)
	_ middleware.RoleFetcher    = (*Store)(nil)
)

func NewStore(d *gorm.DB) *Store {
	return &Store{db: d}
}

func (s *Store) FindSessionByID(id string) (utils.SessionData, error) {
	var session Session
	if err := s.db.First(&session, "session_id = ?", id).Error; err != nil {
		return utils.SessionData{}, notFound(err)
	}
	return utils.SessionData{
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// FindRole answers "what is this user's role", defaulting to DefaultRole.
func (s *Store) FindRole(userID string) (string, error) {
	user, err := s.User(userID)
	if err != nil {
		return "", err
	}
	return roleOf(user), nil
}

// IsAdmin answers "is this user an admin".
func (s *Store) IsAdmin(userID string) (bool, error) {
	role, err := s.FindRole(userID)
	if err != nil {
		return false, err
	}
	return role == middleware.RoleAdmin, nil
}

func (s *Store) User(userID string) (User, error) {
	var user User
	if err := s.db.First(&user, "user_id = ?", userID).Error; err != nil {
		return User{}, notFound(err)
	}
	return user, nil
}

// CreateUser hashes password and stores a new user.
func (s *Store) CreateUser(username, password, role string) (User, error) {
	if username == "" || password == "" {
		return User{}, errors.New("username and password are required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	if role == "" {
		role = DefaultRole
	}
	user := User{
		UserID:         uuid.NewString(),
		Username:       username,
		HashedPassword: string(hashed),
		Role:           role,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate checks the password and opens a session for ttl. A user has at
// most one session; logging in again replaces it.
func (s *Store) Authenticate(username, password string, ttl time.Duration) (Session, error) {
	var user User
	if err := s.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	session := Session{
		SessionID: uuid.NewString(),
		UserID:    user.UserID,
		ExpiresAt: time.Now().Add(ttl),
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.UserID).Delete(&Session{}).Error; err != nil {
			return err
		}
		return tx.Create(&session).Error
	})
	if err != nil {
		return Session{}, fmt.Errorf("open session: %w", err)
	}
	return session, nil
}

// EndSession deletes the session with id.
func (s *Store) EndSession(id string) error {
	res := s.db.Where("session_id = ?", id).Delete(&Session{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
