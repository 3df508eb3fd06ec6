// Package services contains the server-side business logic. UserService
// covers signup, login, the auth guard's existence check and the profile.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/secondbrain/internal/common"
	"github.com/dmitrijs2005/secondbrain/internal/server/auth"
	"github.com/dmitrijs2005/secondbrain/internal/server/config"
	"github.com/dmitrijs2005/secondbrain/internal/server/models"
	"github.com/dmitrijs2005/secondbrain/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/secondbrain/internal/server/repositories/users"
)

const minPasswordLength = 6

// Session is what a successful signup or login hands back to the caller.
type Session struct {
	Token    string
	UserID   string
	UserName string
}

// Profile is a user plus per-type content counts.
type Profile struct {
	User  *models.User       `json:"user"`
	Stats []models.TypeCount `json:"stats"`
}

// ProfileChanges lists the requested profile edits. Nil means unchanged.
type ProfileChanges struct {
	UserName        *string
	Email           *string
	CurrentPassword *string
	NewPassword     *string
}

type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Signup registers a new account and signs the caller in.
func (s *UserService) Signup(ctx context.Context, userName, email, password string) (*Session, error) {
	userName = strings.TrimSpace(userName)
	email = strings.TrimSpace(email)

	if userName == "" || email == "" || password == "" {
		return nil, common.NewValidationError("All fields are required")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	exists, err := repo.ExistsByUserNameOrEmail(ctx, userName, email)
	if err != nil {
		return nil, fmt.Errorf("error checking user: %w", err)
	}
	if exists {
		return nil, common.ErrorConflict
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user, err := repo.Create(ctx, &models.User{UserName: userName, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.newSession(user)
}

// Login verifies email and password. Any mismatch is common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, common.NewValidationError("Email and password are required")
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil || !ok {
		return nil, common.ErrorUnauthorized
	}

	return s.newSession(user)
}

// Exists reports whether userID still names an account.
func (s *UserService) Exists(ctx context.Context, userID string) (bool, error) {
	return s.repomanager.Users(s.db).Exists(ctx, userID)
}

// Profile returns the caller's account and content statistics.
func (s *UserService) Profile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats, err := s.repomanager.Contents(s.db).CountByType(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting contents: %w", err)
	}

	return &Profile{User: user, Stats: stats}, nil
}

// UpdateProfile applies ch to the caller's account. Changing the password
// requires the current one.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, ch ProfileChanges) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var upd users.ProfileUpdate

	if ch.UserName != nil {
		name := strings.TrimSpace(*ch.UserName)
		if name == "" {
			return nil, common.NewValidationError("Username cannot be empty")
		}
		upd.UserName = &name
	}

	if ch.Email != nil {
		email := strings.TrimSpace(*ch.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		upd.Email = &email
	}

	if ch.NewPassword != nil {
		if ch.CurrentPassword == nil || *ch.CurrentPassword == "" {
			return nil, common.NewValidationError("Current password is required to set new password")
		}
		ok, err := auth.CheckPassword(user.PasswordHash, *ch.CurrentPassword)
		if err != nil || !ok {
			return nil, common.ErrorUnauthorized
		}
		if err := validatePassword(*ch.NewPassword); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*ch.NewPassword)
		if err != nil {
			return nil, common.ErrorInternal
		}
		upd.PasswordHash = &hash
	}

	updated, err := repo.Update(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) || errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return updated, nil
}

func (s *UserService) newSession(user *models.User) (*Session, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &Session{Token: token, UserID: user.ID, UserName: user.UserName}, nil
}

func validateEmail(email string) error {
	if !strings.Contains(email, "@") {
		return common.NewValidationError("Invalid email address")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return common.NewValidationError(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	return nil
}
