package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/supermart/supermart-backend/internal/app/model"
	"github.com/supermart/supermart-backend/internal/app/repository"
	"github.com/supermart/supermart-backend/internal/app/service"
	apperrors "github.com/supermart/supermart-backend/internal/errors"
	"github.com/supermart/supermart-backend/internal/middleware"
)

// UserController exposes staff administration of accounts.
type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

type CreateUserRequest struct {
	Email     string         `json:"email" binding:"required,email"`
	Phone     string         `json:"phone" binding:"required"`
	Password  string         `json:"password" binding:"required,min=8"`
	FirstName string         `json:"first_name" binding:"required"`
	LastName  string         `json:"last_name" binding:"required"`
	Role      model.UserRole `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	FirstName *string         `json:"first_name"`
	LastName  *string         `json:"last_name"`
	Role      *model.UserRole `json:"role"`
}

func (ctrl *UserController) actor(c *gin.Context) (*model.User, bool) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apperrors.Unauthorized(c, "")
	}
	return user, ok
}

func (ctrl *UserController) respondServiceError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrRoleNotAllowed):
		apperrors.Forbidden(c, "")
	case errors.Is(err, service.ErrUserNotFound):
		apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "Email address is already in use")
	case errors.Is(err, service.ErrPhoneAlreadyExists):
		apperrors.Conflict(c, apperrors.AuthPhoneAlreadyExists, "Phone number is already in use")
	case errors.Is(err, service.ErrInvalidRole):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRole, "Invalid role")
	case errors.Is(err, service.ErrInvalidPhone):
		apperrors.BadRequest(c, apperrors.ValidationInvalidPhone, "Phone number must be in international format")
	case errors.Is(err, service.ErrPasswordTooShort):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Password must be at least 8 characters")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// List returns a paginated user listing
// GET /api/v1/users
func (ctrl *UserController) List(c *gin.Context) {
	actor, ok := ctrl.actor(c)
	if !ok {
		return
	}

	p := ParsePagination(c)
	filter := repository.UserFilter{
		Search: c.Query("search"),
		Limit:  p.Limit(),
		Offset: p.Offset(),
	}
	if role := c.Query("role"); role != "" {
		r := model.UserRole(role)
		filter.Role = &r
	}
	if active := c.Query("is_active"); active != "" {
		v := active == "true"
		filter.IsActive = &v
	}

	users, total, err := ctrl.userService.List(actor, filter)
	if err != nil {
		ctrl.respondServiceError(c, err, "list users")
		return
	}

	results := make([]gin.H, 0, len(users))
	for i := range users {
		results = append(results, userPayload(&users[i]))
	}
	RespondWithCollection(c, p, total, results)
}

// Get returns a single user
// GET /api/v1/users/:id
func (ctrl *UserController) Get(c *gin.Context) {
	actor, ok := ctrl.actor(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid user ID")
		return
	}

	user, err := ctrl.userService.Get(actor, id)
	if err != nil {
		ctrl.respondServiceError(c, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    userPayload(user),
	})
}

// Create provisions a staff or customer account with an explicit role
// POST /api/v1/users
func (ctrl *UserController) Create(c *gin.Context) {
	actor, ok := ctrl.actor(c)
	if !ok {
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid user data")
		return
	}

	user, err := ctrl.userService.Create(actor, service.CreateUserInput{
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		ctrl.respondServiceError(c, err, "create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"user":    userPayload(user),
	})
}

// Update edits a user's name or role
// PUT /api/v1/users/:id
func (ctrl *UserController) Update(c *gin.Context) {
	actor, ok := ctrl.actor(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid user ID")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid user data")
		return
	}

	user, err := ctrl.userService.Update(actor, id, service.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		ctrl.respondServiceError(c, err, "update user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User updated successfully",
		"user":    userPayload(user),
	})
}

// Activate re-enables a deactivated account
// POST /api/v1/users/:id/activate
func (ctrl *UserController) Activate(c *gin.Context) {
	ctrl.setActive(c, true, "User activated")
}

// Deactivate disables an account and revokes its sessions
// POST /api/v1/users/:id/deactivate
func (ctrl *UserController) Deactivate(c *gin.Context) {
	ctrl.setActive(c, false, "User deactivated")
}

func (ctrl *UserController) setActive(c *gin.Context, active bool, message string) {
	actor, ok := ctrl.actor(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid user ID")
		return
	}

	user, err := ctrl.userService.SetActive(actor, id, active)
	if err != nil {
		ctrl.respondServiceError(c, err, "update user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"user":    userPayload(user),
	})
}
