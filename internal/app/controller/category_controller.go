package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/supermart/supermart-backend/internal/app/service"
	apperrors "github.com/supermart/supermart-backend/internal/errors"
	"github.com/supermart/supermart-backend/internal/middleware"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

type CategoryRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	ParentID     *uint  `json:"parent_id"`
	ClearParent  bool   `json:"clear_parent"`
	ImageURL     string `json:"image_url"`
	DisplayOrder int    `json:"display_order"`
	IsActive     *bool  `json:"is_active"`
}

func (ctrl *CategoryController) respondServiceError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.NotFound(c, apperrors.CatalogCategoryNotFound, "Category not found")
	case errors.Is(err, service.ErrParentNotFound):
		apperrors.BadRequest(c, apperrors.CatalogCategoryNotFound, "Parent category not found")
	case errors.Is(err, service.ErrCategoryCycle):
		apperrors.BadRequest(c, apperrors.CatalogCategoryCycle, "Category cannot be moved under its own subtree")
	case errors.Is(err, service.ErrCategoryInUse):
		apperrors.Conflict(c, apperrors.CatalogCategoryInUse, "Category subtree still has products and cannot be deleted")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// List returns all categories, flat
// GET /api/v1/categories
func (ctrl *CategoryController) List(c *gin.Context) {
	activeOnly := c.DefaultQuery("include_inactive", "false") != "true"

	categories, err := ctrl.categoryService.List(activeOnly)
	if err != nil {
		ctrl.respondServiceError(c, err, "list categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": categories,
	})
}

// Roots returns top-level categories with their direct children
// GET /api/v1/categories/roots
func (ctrl *CategoryController) Roots(c *gin.Context) {
	activeOnly := c.DefaultQuery("include_inactive", "false") != "true"

	categories, err := ctrl.categoryService.ListRoots(activeOnly)
	if err != nil {
		ctrl.respondServiceError(c, err, "list root categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": categories,
	})
}

// Get returns a single category by ID
// GET /api/v1/categories/:id
func (ctrl *CategoryController) Get(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
		return
	}

	category, err := ctrl.categoryService.GetByID(id)
	if err != nil {
		ctrl.respondServiceError(c, err, "get category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"category": category,
	})
}

// GetBySlug returns a single category by slug
// GET /api/v1/categories/slug/:slug
func (ctrl *CategoryController) GetBySlug(c *gin.Context) {
	category, err := ctrl.categoryService.GetBySlug(c.Param("slug"))
	if err != nil {
		ctrl.respondServiceError(c, err, "get category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"category": category,
	})
}

// Children returns the direct children of a category
// GET /api/v1/categories/:id/children
func (ctrl *CategoryController) Children(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
		return
	}
	activeOnly := c.DefaultQuery("include_inactive", "false") != "true"

	children, err := ctrl.categoryService.ListChildren(id, activeOnly)
	if err != nil {
		ctrl.respondServiceError(c, err, "list child categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": children,
	})
}

// Create adds a category
// POST /api/v1/categories
func (ctrl *CategoryController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category data")
		return
	}

	category, err := ctrl.categoryService.Create(service.CategoryInput{
		Name:         req.Name,
		Description:  req.Description,
		ParentID:     req.ParentID,
		ImageURL:     req.ImageURL,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive,
	})
	if err != nil {
		log.Warn("Category creation failed", map[string]interface{}{
			"name":  req.Name,
			"error": err.Error(),
		})
		ctrl.respondServiceError(c, err, "create category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Category created successfully",
		"category": category,
	})
}

// Update edits a category, including moving it in the tree
// PUT /api/v1/categories/:id
func (ctrl *CategoryController) Update(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category data")
		return
	}

	category, err := ctrl.categoryService.Update(id, service.CategoryInput{
		Name:         req.Name,
		Description:  req.Description,
		ParentID:     req.ParentID,
		ClearParent:  req.ClearParent,
		ImageURL:     req.ImageURL,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive,
	})
	if err != nil {
		ctrl.respondServiceError(c, err, "update category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Category updated successfully",
		"category": category,
	})
}

// Delete removes a category and its subtree
// DELETE /api/v1/categories/:id
func (ctrl *CategoryController) Delete(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
		return
	}

	if err := ctrl.categoryService.Delete(id); err != nil {
		ctrl.respondServiceError(c, err, "delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Category deleted successfully",
	})
}
