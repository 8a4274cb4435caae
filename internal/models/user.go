package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a job poster.
type User struct {
	BaseModel
	FirstName       string `gorm:"size:100;not null" json:"firstName"`
	LastName        string `gorm:"size:100;not null" json:"lastName"`
	Email           string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash    string `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	PhoneNumber     string `gorm:"size:30" json:"phoneNumber,omitempty"`
	IsEmailVerified bool   `gorm:"default:false" json:"isEmailVerified"`
	IsPhoneVerified bool   `gorm:"default:false" json:"isPhoneVerified"`
}

// Pro is a service provider.
type Pro struct {
	BaseModel
	ProName         string `gorm:"size:100;not null" json:"proName"`
	BusinessName    string `gorm:"size:150" json:"businessName"`
	Email           string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash    string `gorm:"size:255;not null" json:"-"`
	PhoneNumber     string `gorm:"size:30" json:"phoneNumber,omitempty"`
	IsEmailVerified bool   `gorm:"default:false" json:"isEmailVerified"`
	IsPhoneVerified bool   `gorm:"default:false" json:"isPhoneVerified"`
}

// Placeholder names used when a participant record cannot be found.
const (
	PlaceholderUserName = "User"
	PlaceholderProName  = "Professional"
)

func (u *User) Participant() Participant { return Participant{ID: u.ID, Kind: KindUser} }
func (u *User) GetEmail() string         { return u.Email }

func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return PlaceholderUserName
	}
	return name
}

func (p *Pro) Participant() Participant { return Participant{ID: p.ID, Kind: KindPro} }
func (p *Pro) GetEmail() string         { return p.Email }

func (p *Pro) DisplayName() string {
	if p.BusinessName != "" {
		return p.BusinessName
	}
	if p.ProName != "" {
		return p.ProName
	}
	return PlaceholderProName
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	return checkPassword(u.PasswordHash, password)
}

func (p *Pro) SetPassword(password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	p.PasswordHash = hash
	return nil
}

func (p *Pro) CheckPassword(password string) bool {
	return checkPassword(p.PasswordHash, password)
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ProfileSanitized represents the participant data that is safe to send in API responses.
type ProfileSanitized struct {
	ID          uint            `json:"id"`
	Kind        ParticipantKind `json:"kind"`
	Email       string          `json:"email"`
	DisplayName string          `json:"displayName"`
	PhoneNumber string          `json:"phoneNumber,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Sanitize creates a ProfileSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() ProfileSanitized {
	return ProfileSanitized{
		ID:          u.ID,
		Kind:        KindUser,
		Email:       u.Email,
		DisplayName: u.DisplayName(),
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt,
	}
}

func (p *Pro) Sanitize() ProfileSanitized {
	return ProfileSanitized{
		ID:          p.ID,
		Kind:        KindPro,
		Email:       p.Email,
		DisplayName: p.DisplayName(),
		PhoneNumber: p.PhoneNumber,
		CreatedAt:   p.CreatedAt,
	}
}
