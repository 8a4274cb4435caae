package service

import (
	"context"
	"errors"
	"strings"

	"marketplace-server/internal/common"
	"marketplace-server/internal/models"
	"marketplace-server/internal/repository"

	"gorm.io/gorm"
)

// TokenIssuer signs an access token for an authenticated identity.
type TokenIssuer func(identity models.Identity) (string, error)

// RegisterUserInput holds the fields needed to register a user.
type RegisterUserInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	PhoneNumber string
}

// RegisterProInput holds the fields needed to register a pro.
type RegisterProInput struct {
	Name         string
	BusinessName string
	Email        string
	Password     string
	PhoneNumber  string
}

// AuthResult is returned by registration and login.
type AuthResult struct {
	Token   string                  `json:"token"`
	Profile models.ProfileSanitized `json:"profile"`
}

// AuthService registers and authenticates users and pros.
type AuthService struct {
	identities *repository.IdentityRepository
	issue      TokenIssuer
}

// NewAuthService creates a new AuthService
func NewAuthService(identities *repository.IdentityRepository, issue TokenIssuer) *AuthService {
	return &AuthService{identities: identities, issue: issue}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) result(identity models.Identity, profile models.ProfileSanitized) (*AuthResult, error) {
	token, err := s.issue(identity)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Profile: profile}, nil
}

// RegisterUser creates a user account.
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterUserInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.identities.FindUserByEmail(ctx, email); err == nil {
		return nil, common.Conflict("Email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &models.User{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       email,
		PhoneNumber: in.PhoneNumber,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, err
	}
	if err := s.identities.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return s.result(user, user.Sanitize())
}

// RegisterPro creates a pro account.
func (s *AuthService) RegisterPro(ctx context.Context, in RegisterProInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.identities.FindProByEmail(ctx, email); err == nil {
		return nil, common.Conflict("Email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pro := &models.Pro{
		ProName:      in.Name,
		BusinessName: in.BusinessName,
		Email:        email,
		PhoneNumber:  in.PhoneNumber,
	}
	if err := pro.SetPassword(in.Password); err != nil {
		return nil, err
	}
	if err := s.identities.CreatePro(ctx, pro); err != nil {
		return nil, err
	}
	return s.result(pro, pro.Sanitize())
}

// Login authenticates a participant of the given kind by email and password.
func (s *AuthService) Login(ctx context.Context, kind models.ParticipantKind, email, password string) (*AuthResult, error) {
	invalid := common.Unauthenticated("Invalid email or password")
	email = normalizeEmail(email)

	switch kind {
	case models.KindUser:
		user, err := s.identities.FindUserByEmail(ctx, email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid
		}
		if err != nil {
			return nil, err
		}
		if !user.CheckPassword(password) {
			return nil, invalid
		}
		return s.result(user, user.Sanitize())
	case models.KindPro:
		pro, err := s.identities.FindProByEmail(ctx, email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid
		}
		if err != nil {
			return nil, err
		}
		if !pro.CheckPassword(password) {
			return nil, invalid
		}
		return s.result(pro, pro.Sanitize())
	}
	return nil, common.Validation("UserType must be 'User' or 'Pro'")
}

// Profile returns the sanitized record of p.
func (s *AuthService) Profile(ctx context.Context, p models.Participant) (models.ProfileSanitized, error) {
	switch p.Kind {
	case models.KindUser:
		user, err := s.identities.FindUserByID(ctx, p.ID)
		if err != nil {
			return models.ProfileSanitized{}, notFoundOr(err, "User not found")
		}
		return user.Sanitize(), nil
	case models.KindPro:
		pro, err := s.identities.FindProByID(ctx, p.ID)
		if err != nil {
			return models.ProfileSanitized{}, notFoundOr(err, "Pro not found")
		}
		return pro.Sanitize(), nil
	}
	return models.ProfileSanitized{}, common.Validation("UserType must be 'User' or 'Pro'")
}
