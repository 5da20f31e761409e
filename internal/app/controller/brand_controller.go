package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/supermart/supermart-backend/internal/app/service"
	apperrors "github.com/supermart/supermart-backend/internal/errors"
)

type BrandController struct {
	brandService service.BrandService
}

func NewBrandController(brandService service.BrandService) *BrandController {
	return &BrandController{brandService: brandService}
}

type BrandRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
	Website     string `json:"website"`
	IsActive    *bool  `json:"is_active"`
}

func (ctrl *BrandController) respondServiceError(c *gin.Context, err error, context string) {
	if errors.Is(err, service.ErrBrandNotFound) {
		apperrors.NotFound(c, apperrors.CatalogBrandNotFound, "Brand not found")
		return
	}
	apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
}

// List returns all brands
// GET /api/v1/brands
func (ctrl *BrandController) List(c *gin.Context) {
	activeOnly := c.DefaultQuery("include_inactive", "false") != "true"

	brands, err := ctrl.brandService.List(activeOnly)
	if err != nil {
		ctrl.respondServiceError(c, err, "list brands")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"brands":  brands,
	})
}

// Get returns a brand by ID
// GET /api/v1/brands/:id
func (ctrl *BrandController) Get(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid brand ID")
		return
	}

	brand, err := ctrl.brandService.GetByID(id)
	if err != nil {
		ctrl.respondServiceError(c, err, "get brand")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"brand":   brand,
	})
}

// GetBySlug returns a brand by slug
// GET /api/v1/brands/slug/:slug
func (ctrl *BrandController) GetBySlug(c *gin.Context) {
	brand, err := ctrl.brandService.GetBySlug(c.Param("slug"))
	if err != nil {
		ctrl.respondServiceError(c, err, "get brand")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"brand":   brand,
	})
}

// Create adds a brand
// POST /api/v1/brands
func (ctrl *BrandController) Create(c *gin.Context) {
	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid brand data")
		return
	}

	brand, err := ctrl.brandService.Create(service.BrandInput{
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		Website:     req.Website,
		IsActive:    req.IsActive,
	})
	if err != nil {
		ctrl.respondServiceError(c, err, "create brand")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Brand created successfully",
		"brand":   brand,
	})
}

// Update edits a brand
// PUT /api/v1/brands/:id
func (ctrl *BrandController) Update(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid brand ID")
		return
	}

	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid brand data")
		return
	}

	brand, err := ctrl.brandService.Update(id, service.BrandInput{
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		Website:     req.Website,
		IsActive:    req.IsActive,
	})
	if err != nil {
		ctrl.respondServiceError(c, err, "update brand")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Brand updated successfully",
		"brand":   brand,
	})
}

// Delete removes a brand; its products keep selling without a brand
// DELETE /api/v1/brands/:id
func (ctrl *BrandController) Delete(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid brand ID")
		return
	}

	if err := ctrl.brandService.Delete(id); err != nil {
		ctrl.respondServiceError(c, err, "delete brand")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Brand deleted successfully",
	})
}
