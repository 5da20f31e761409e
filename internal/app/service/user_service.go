package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/supermart/supermart-backend/internal/app/authz"
	"github.com/supermart/supermart-backend/internal/app/model"
	"github.com/supermart/supermart-backend/internal/app/repository"
	"github.com/supermart/supermart-backend/pkg/logger"
	"github.com/supermart/supermart-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidRole    = errors.New("invalid role")
	ErrRoleNotAllowed = errors.New("not allowed to manage accounts with this role")
)

type CreateUserInput struct {
	Email     string
	Phone     string
	Password  string
	FirstName string
	LastName  string
	Role      model.UserRole
}

type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Role      *model.UserRole
}

// UserService covers staff administration of accounts. Self-service flows
// live in AuthService.
type UserService interface {
	List(actor *model.User, filter repository.UserFilter) ([]model.User, int64, error)
	Get(actor *model.User, id uuid.UUID) (*model.User, error)
	Create(actor *model.User, input CreateUserInput) (*model.User, error)
	Update(actor *model.User, id uuid.UUID, input UpdateUserInput) (*model.User, error)
	SetActive(actor *model.User, id uuid.UUID, active bool) (*model.User, error)
}

type userService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	hasher    util.PasswordHasher
}

func NewUserService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, hasher util.PasswordHasher) UserService {
	return &userService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		hasher:    hasher,
	}
}

func (s *userService) List(actor *model.User, filter repository.UserFilter) ([]model.User, int64, error) {
	if !authz.Allowed(actor, authz.ActionUserList, nil) {
		return nil, 0, ErrForbidden
	}
	return s.userRepo.FindWithFilter(filter)
}

func (s *userService) Get(actor *model.User, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByIDWithProfile(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !authz.Allowed(actor, authz.ActionUserView, user) {
		return nil, ErrForbidden
	}
	return user, nil
}

func (s *userService) Create(actor *model.User, input CreateUserInput) (*model.User, error) {
	if !authz.Allowed(actor, authz.ActionUserManage, nil) {
		return nil, ErrForbidden
	}
	if !model.ValidRole(input.Role) {
		return nil, ErrInvalidRole
	}
	if !authz.CanManageRole(actor, input.Role) {
		return nil, ErrRoleNotAllowed
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
		return nil, err
	}

	user := &model.User{
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Info("Staff account created", map[string]interface{}{
		"user_id":    user.ID,
		"role":       user.Role,
		"created_by": actor.ID,
	})
	return user, nil
}

func (s *userService) Update(actor *model.User, id uuid.UUID, input UpdateUserInput) (*model.User, error) {
	if !authz.Allowed(actor, authz.ActionUserManage, nil) {
		return nil, ErrForbidden
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !authz.CanManageRole(actor, user.Role) {
		return nil, ErrRoleNotAllowed
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Role != nil {
		if !model.ValidRole(*input.Role) {
			return nil, ErrInvalidRole
		}
		if !authz.CanManageRole(actor, *input.Role) {
			return nil, ErrRoleNotAllowed
		}
		user.Role = *input.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) SetActive(actor *model.User, id uuid.UUID, active bool) (*model.User, error) {
	if !authz.Allowed(actor, authz.ActionUserManage, nil) {
		return nil, ErrForbidden
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !authz.CanManageRole(actor, user.Role) {
		return nil, ErrRoleNotAllowed
	}

	user.IsActive = active
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	// A deactivated account keeps no live sessions.
	if !active {
		if _, err := s.tokenRepo.RevokeAllForUser(user.ID); err != nil {
			logger.Error("Failed to revoke sessions for deactivated user", err, map[string]interface{}{
				"user_id": user.ID,
			})
		}
	}

	logger.Info("User active state changed", map[string]interface{}{
		"user_id":    user.ID,
		"is_active":  active,
		"changed_by": actor.ID,
	})
	return user, nil
}
