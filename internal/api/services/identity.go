package services

import (
	"context"
	"errors"
	"strings"

	"github.com/daybook/daybook/internal/apperr"
	"github.com/daybook/daybook/internal/models"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the persistence the identity service needs.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Exists(ctx context.Context, username string) (bool, error)
}

// Credentials is the register/login input.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate enforces the registration policy. Password length is in bytes
// because bcrypt only looks at the first 72.
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Username, validation.Required, validation.RuneLength(3, 64)),
		validation.Field(&c.Password, validation.Required, validation.Length(6, 72)),
	)
}

type IdentityService struct {
	users UserStore
	cost  int
	// dummyHash is compared against when there is no stored hash to check,
	// so every login failure costs one bcrypt comparison.
	dummyHash []byte
	compare   func(hash, password []byte) error
}

func NewIdentityService(users UserStore, cost int) *IdentityService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("daybook-dummy-password"), cost)
	return &IdentityService{
		users:     users,
		cost:      cost,
		dummyHash: dummy,
		compare:   bcrypt.CompareHashAndPassword,
	}
}

// Register creates a user with a bcrypt-hashed password.
func (s *IdentityService) Register(ctx context.Context, in Credentials) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := in.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err.Error(), err)
	}

	exists, err := s.users.Exists(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.ErrDuplicateUsername
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperr.Internal("Failed to hash password", err)
	}

	user := &models.User{
		Username: in.Username,
		Password: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login returns apperr.ErrInvalidCredentials for both an unknown username
// and a wrong password.
func (s *IdentityService) Login(ctx context.Context, in Credentials) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		_ = s.compare(s.dummyHash, []byte(in.Password))
		return nil, apperr.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
	case errors.Is(err, apperr.ErrNotFound):
		_ = s.compare(s.dummyHash, []byte(in.Password))
		return nil, apperr.ErrInvalidCredentials
	default:
		return nil, err
	}

	if err := s.compare([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}
	return user, nil
}

// CheckUsernameAvailable is a pure lookup.
func (s *IdentityService) CheckUsernameAvailable(ctx context.Context, username string) (bool, error) {
	exists, err := s.users.Exists(ctx, strings.TrimSpace(username))
	if err != nil {
		return false, err
	}
	return !exists, nil
}
