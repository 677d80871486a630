package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/intellibazar/intellibazar/internal/auth"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// RegisterInput carries the fields accepted by the sign-up endpoints.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in RegisterInput) validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "name is required"
	}
	if !strings.Contains(in.Email, "@") {
		errs["email"] = "a valid email is required"
	}
	if len(in.Password) < minPasswordLen {
		errs["password"] = "password must be at least 6 characters"
	}
	return errs
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

// Register creates a shopper account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	return s.create(ctx, in, auth.RoleCustomer)
}

// RegisterSeller creates an account allowed into the admin panel.
func (s *Service) RegisterSeller(ctx context.Context, in RegisterInput) (User, error) {
	return s.create(ctx, in, auth.RoleSeller)
}

func (s *Service) create(ctx context.Context, in RegisterInput, role string) (User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	now := s.now().UTC()
	return s.repo.Create(ctx, User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     email,
		Password:  string(hashed),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// AuthenticateSeller is Authenticate restricted to seller and admin roles.
func (s *Service) AuthenticateSeller(ctx context.Context, email, password string) (User, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return User{}, err
	}
	if u.Role != auth.RoleSeller && u.Role != auth.RoleAdmin {
		return User{}, ErrNotSeller
	}
	return u, nil
}
