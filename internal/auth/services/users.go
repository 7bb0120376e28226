// Package services contains the auth service business logic: registration,
// login and token verification.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/dmitrijs2005/shopkeeper/internal/auth/models"
	"github.com/dmitrijs2005/shopkeeper/internal/auth/repositories/users"
	"github.com/dmitrijs2005/shopkeeper/internal/auth/token"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/google/uuid"
)

const (
	DefaultMinPasswordLength = 8
	maxPasswordBytes         = 72
	maxFullNameLength        = 255
)

// errInvalidCredentials is the single login failure, whatever the cause.
var errInvalidCredentials = fmt.Errorf("invalid credentials: %w", common.ErrUnauthorized)

// Verification failure reasons, logged but never returned to clients.
const (
	ReasonInvalidToken = "invalid_token"
	ReasonUserNotFound = "user_not_found"
)

// UserService registers users, logs them in and verifies their tokens.
type UserService struct {
	users     users.Repository
	codec     *token.Codec
	hasher    PasswordHasher
	minPwdLen int
	logger    logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(repo users.Repository, codec *token.Codec, hasher PasswordHasher, minPasswordLength int, logger logging.Logger) *UserService {
	if minPasswordLength <= 0 {
		minPasswordLength = DefaultMinPasswordLength
	}
	return &UserService{
		users:     repo,
		codec:     codec,
		hasher:    hasher,
		minPwdLen: minPasswordLength,
		logger:    logger.With("module", "user_service"),
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) validate(email, password string, fullName *string) error {
	if email == "" {
		return common.NewValidationError("email", "email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return common.NewValidationError("email", "invalid email address")
	}
	if len([]rune(password)) < s.minPwdLen {
		return common.NewValidationError("password", fmt.Sprintf("password must be at least %d characters", s.minPwdLen))
	}
	if len(password) > maxPasswordBytes {
		return common.NewValidationError("password", ErrPasswordTooLong.Error())
	}
	if fullName != nil && len([]rune(*fullName)) > maxFullNameLength {
		return common.NewValidationError("full_name", "full name is too long")
	}
	return nil
}

// Register creates a user with role "user" and returns a fresh token.
func (s *UserService) Register(ctx context.Context, email, password string, fullName *string) (*models.AuthResponse, error) {
	email = NormalizeEmail(email)
	if fullName != nil {
		trimmed := strings.TrimSpace(*fullName)
		fullName = &trimmed
		if trimmed == "" {
			fullName = nil
		}
	}

	if err := s.validate(email, password, fullName); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         common.RoleUser,
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			s.logger.Info(ctx, "register rejected", "reason", "email_taken")
			return nil, fmt.Errorf("email already registered: %w", common.ErrConflict)
		}
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return s.respond(user)
}

// Login returns the same error for an unknown email and a wrong password.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	email = NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		// equalize timing with the wrong-password path
		s.hasher.Compare(s.dummy(), password)
		s.logger.Info(ctx, "login failed", "reason", "unknown_email")
		return nil, errInvalidCredentials
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		s.logger.Info(ctx, "login failed", "reason", "wrong_password", "user_id", user.ID)
		return nil, errInvalidCredentials
	}

	return s.respond(user)
}

// VerifyHeader verifies the value of an Authorization header.
func (s *UserService) VerifyHeader(ctx context.Context, header string) (*models.AuthClaims, error) {
	raw, reason := common.ParseBearer(header)
	if reason != "" {
		s.logger.Info(ctx, "verify failed", "reason", reason)
		return nil, common.ErrUnauthorized
	}
	return s.Verify(ctx, raw)
}

// Verify decodes the token and loads its user. Every failure is reported as
// common.ErrUnauthorized; the cause only goes to the log.
func (s *UserService) Verify(ctx context.Context, raw string) (*models.AuthClaims, error) {
	claims, err := s.codec.Decode(raw)
	if err != nil {
		s.logger.Info(ctx, "verify failed", "reason", ReasonInvalidToken, "detail", string(token.ReasonOf(err)))
		return nil, common.ErrUnauthorized
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		s.logger.Info(ctx, "verify failed", "reason", ReasonUserNotFound, "detail", "subject is not a uuid")
		return nil, common.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "verify failed", "reason", ReasonUserNotFound, "user_id", claims.Subject)
			return nil, common.ErrUnauthorized
		}
		return nil, err
	}

	c := user.Claims()
	return &c, nil
}

func (s *UserService) respond(user *models.User) (*models.AuthResponse, error) {
	access, _, err := s.codec.Mint(user.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &models.AuthResponse{
		User: user.View(),
		Token: models.TokenView{
			AccessToken: access,
			TokenType:   common.TokenType,
			ExpiresIn:   int64(s.codec.TTL().Seconds()),
		},
	}, nil
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(uuid.NewString())
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
