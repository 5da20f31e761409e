package model

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleSuperAdmin UserRole = "super_admin"
	RoleAdmin      UserRole = "admin"
	RoleManager    UserRole = "manager"
	RoleCashier    UserRole = "cashier"
	RoleDelivery   UserRole = "delivery"
	RoleCustomer   UserRole = "customer"
)

// AllRoles is the closed set of assignable roles
var AllRoles = []UserRole{
	RoleSuperAdmin,
	RoleAdmin,
	RoleManager,
	RoleCashier,
	RoleDelivery,
	RoleCustomer,
}

// ValidRole reports whether the value belongs to the closed role set
func ValidRole(role UserRole) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// phone numbers in international format, e.g. +8801712345678
var phoneRegex = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// ValidPhone reports whether the phone number is in international format
func ValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"uniqueIndex;not null" json:"phone"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         UserRole  `gorm:"type:varchar(20);default:'customer';index" json:"role"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Profile *UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// OwnerID makes User satisfy the ownership contract used by the permission
// evaluator: a user owns itself.
func (u *User) OwnerID() uuid.UUID {
	return u.ID
}

// FullName returns the display name, falling back to the email local part
func (u *User) FullName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Email
}

// UserProfile holds extended, user-owned profile data
type UserProfile struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	AvatarURL   string     `json:"avatar_url"`
	Address     string     `gorm:"type:text" json:"address"`
	City        string     `json:"city"`
	PostalCode  string     `json:"postal_code"`
	Country     string     `json:"country"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// OwnerID resolves the owning user for object-level permission checks
func (p *UserProfile) OwnerID() uuid.UUID {
	return p.UserID
}
