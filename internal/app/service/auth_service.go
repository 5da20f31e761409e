package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/supermart/supermart-backend/internal/app/model"
	"github.com/supermart/supermart-backend/internal/app/repository"
	"github.com/supermart/supermart-backend/pkg/logger"
	"github.com/supermart/supermart-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrPhoneAlreadyExists = errors.New("phone number already exists")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidPhone       = errors.New("invalid phone number format")
	ErrUserNotFound       = errors.New("user not found")
)

type RegisterInput struct {
	Email           string
	Phone           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
}

type ProfileInput struct {
	FirstName   string
	LastName    string
	AvatarURL   string
	Address     string
	City        string
	PostalCode  string
	Country     string
	DateOfBirth *string
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, error)
	Login(email, password string) (*model.User, error)
	ChangePassword(userID uuid.UUID, currentPassword, newPassword, confirmPassword string) error
	GetUserByID(id uuid.UUID) (*model.User, error)
	GetUserWithProfile(id uuid.UUID) (*model.User, error)
	UpdateProfile(userID uuid.UUID, input ProfileInput) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	hasher   util.PasswordHasher
}

func NewAuthService(userRepo repository.UserRepository, hasher util.PasswordHasher) AuthService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

func (s *authService) Register(input RegisterInput) (*model.User, error) {
	logger.Info("User registration attempt", map[string]interface{}{
		"email": input.Email,
	})

	if input.Password != input.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}
	if len(input.Password) < 8 {
		return nil, ErrPasswordTooShort
	}
	if !model.ValidPhone(input.Phone) {
		return nil, ErrInvalidPhone
	}

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByPhone(input.Phone); err == nil {
		return nil, ErrPhoneAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return nil, err
	}

	user := &model.User{
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         model.RoleCustomer,
		IsActive:     true,
	}

	// The unique indexes on email and phone are the backstop for
	// registrations racing past the checks above.
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, nil
}

// Login authenticates by email and password. When the email is unknown a
// dummy hash is still verified so the failure path costs the same as a real
// password check and response timing does not reveal which emails exist.
func (s *authService) Login(email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.hasher.Verify(util.DummyHash, password)
			logger.Warn("Login attempt for unknown email", map[string]interface{}{
				"email": email,
			})
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		logger.Warn("Login attempt with wrong password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		logger.Warn("Login attempt on disabled account", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, ErrAccountDisabled
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, nil
}

func (s *authService) ChangePassword(userID uuid.UUID, currentPassword, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !s.hasher.Verify(user.PasswordHash, currentPassword) {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err)
		return err
	}

	user.PasswordHash = hash
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	logger.Info("Password changed", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

func (s *authService) GetUserByID(id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) GetUserWithProfile(id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByIDWithProfile(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uuid.UUID, input ProfileInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	profile := &model.UserProfile{
		UserID:     user.ID,
		AvatarURL:  input.AvatarURL,
		Address:    input.Address,
		City:       input.City,
		PostalCode: input.PostalCode,
		Country:    input.Country,
	}
	if input.DateOfBirth != nil {
		dob, err := util.ParseDate(*input.DateOfBirth)
		if err != nil {
			return nil, err
		}
		profile.DateOfBirth = &dob
	}
	if err := s.userRepo.UpdateProfile(profile); err != nil {
		return nil, err
	}

	return s.userRepo.FindByIDWithProfile(user.ID)
}
