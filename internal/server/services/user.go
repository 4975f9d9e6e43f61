// Package services contains server-side business logic. This file implements
// UserService: login, session verification, password changes, and the
// admin-facing user management operations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reviewflow/reviewflow/internal/common"
	"github.com/reviewflow/reviewflow/internal/dbx"
	"github.com/reviewflow/reviewflow/internal/server/auth"
	"github.com/reviewflow/reviewflow/internal/server/config"
	"github.com/reviewflow/reviewflow/internal/server/models"
	"github.com/reviewflow/reviewflow/internal/server/repositories/repomanager"
)

// UserUpdate carries the optional fields of an admin user update. Nil means
// "leave unchanged".
type UserUpdate struct {
	Email    *string
	Role     *models.Role
	Password *string
}

// UserService provides authentication and user management:
//   - Login: verify credentials and mint a session token
//   - VerifySession: decode a token and re-fetch its user
//   - ChangePassword: verify the current password and store a new hash
//   - Create/List/Update/Delete: admin user management
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	passwordMinLength     int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		passwordMinLength:     cfg.PasswordMinLength,
	}
}

// NormalizeEmail lower-cases and trims an email address. Exactly one stored
// row may exist per normalized email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TokenValidity returns the configured session token lifetime, which the
// HTTP layer mirrors into cookie max-age.
func (s *UserService) TokenValidity() time.Duration {
	return s.tokenValidityDuration
}

// PasswordMinLength returns the configured minimum new-password length.
func (s *UserService) PasswordMinLength() int {
	return s.passwordMinLength
}

// Login verifies the email/password pair and, on success, returns the user
// and a signed session token. Unknown email and wrong password both yield
// common.ErrorInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorInvalidCredentials
		}
		return nil, "", common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", common.ErrorInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// VerifySession decodes tokenString and re-fetches the user it names.
// The stored row, not the embedded claims, is what callers should display;
// a token for a deleted user yields common.ErrorNotFound.
func (s *UserService) VerifySession(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := auth.ParseToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// ParseClaims verifies the signature and expiry of tokenString without a
// database round-trip. Authorization decisions (the admin gate) work off
// these claims directly.
func (s *UserService) ParseClaims(tokenString string) (*auth.Claims, error) {
	return auth.ParseToken(tokenString, s.jwtSecret)
}

// ChangePassword verifies currentPassword for the user and persists a hash
// of newPassword. A short newPassword yields common.ErrorValidation, a
// wrong currentPassword common.ErrorInvalidCredentials. Previously issued
// tokens stay valid; there is no server-side session state to invalidate.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if len(newPassword) < s.passwordMinLength {
		return common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if !auth.CheckPassword(currentPassword, user.PasswordHash) {
		return common.ErrorInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	if err := repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	return nil
}

// CreateUser registers a new user. The duplicate check and insert run in one
// transaction so two concurrent creates for the same email cannot both pass
// the check.
func (s *UserService) CreateUser(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	if len(password) < s.passwordMinLength {
		return nil, common.ErrorValidation
	}
	if !role.Valid() {
		return nil, common.ErrorValidation
	}

	normalized := NormalizeEmail(email)

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		taken, err := repo.EmailTaken(ctx, normalized, 0)
		if err != nil {
			return err
		}
		if taken {
			return common.ErrorAlreadyExists
		}

		created, err = repo.Create(ctx, &models.User{
			Email:        normalized,
			PasswordHash: hash,
			Role:         role,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %v", err)
	}

	return created, nil
}

// ListUsers returns all users, newest first, without password hashes.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	repo := s.repomanager.Users(s.db)
	users, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %v", err)
	}
	return users, nil
}

// UpdateUser applies a partial update to the user with the given id.
func (s *UserService) UpdateUser(ctx context.Context, id int64, update UserUpdate) (*models.User, error) {
	if update.Role != nil && !update.Role.Valid() {
		return nil, common.ErrorValidation
	}
	if update.Password != nil && len(*update.Password) < s.passwordMinLength {
		return nil, common.ErrorValidation
	}

	var updated *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		next := *current
		if update.Email != nil {
			normalized := NormalizeEmail(*update.Email)
			if normalized != current.Email {
				taken, err := repo.EmailTaken(ctx, normalized, id)
				if err != nil {
					return err
				}
				if taken {
					return common.ErrorAlreadyExists
				}
			}
			next.Email = normalized
		}
		if update.Role != nil {
			next.Role = *update.Role
		}
		if update.Password != nil {
			hash, err := auth.HashPassword(*update.Password)
			if err != nil {
				return err
			}
			next.PasswordHash = hash
		}

		updated, err = repo.Update(ctx, &next)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating user: %v", err)
	}

	return updated, nil
}

// DeleteUser removes the user with the given id. Deleting the calling
// admin's own account is rejected with common.ErrorValidation.
func (s *UserService) DeleteUser(ctx context.Context, id, callerID int64) error {
	if id == callerID {
		return common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting user: %v", err)
	}

	return nil
}
