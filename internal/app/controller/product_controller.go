package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/supermart/supermart-backend/internal/app/model"
	"github.com/supermart/supermart-backend/internal/app/repository"
	"github.com/supermart/supermart-backend/internal/app/service"
	apperrors "github.com/supermart/supermart-backend/internal/errors"
	"github.com/supermart/supermart-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
	exportService  service.ExportService
}

func NewProductController(productService service.ProductService, exportService service.ExportService) *ProductController {
	return &ProductController{
		productService: productService,
		exportService:  exportService,
	}
}

type ProductRequest struct {
	Name              string   `json:"name" binding:"required"`
	SKU               string   `json:"sku" binding:"required"`
	Barcode           string   `json:"barcode"`
	CategoryID        uint     `json:"category_id" binding:"required"`
	BrandID           *uint    `json:"brand_id"`
	Description       string   `json:"description"`
	ShortDescription  string   `json:"short_description"`
	CostPrice         float64  `json:"cost_price" binding:"min=0"`
	SellingPrice      float64  `json:"selling_price" binding:"required,min=0"`
	DiscountPrice     *float64 `json:"discount_price"`
	StockQuantity     int      `json:"stock_quantity"`
	LowStockThreshold *int     `json:"low_stock_threshold"`
	TrackInventory    *bool    `json:"track_inventory"`
	Weight            *float64 `json:"weight"`
	Dimensions        string   `json:"dimensions"`
	IsActive          *bool    `json:"is_active"`
	IsFeatured        *bool    `json:"is_featured"`
	IsNew             *bool    `json:"is_new"`
	MetaTitle         string   `json:"meta_title"`
	MetaDescription   string   `json:"meta_description"`
	MetaKeywords      string   `json:"meta_keywords"`
}

type UpdateProductRequest struct {
	Name              string   `json:"name"`
	SKU               string   `json:"sku"`
	Barcode           string   `json:"barcode"`
	CategoryID        uint     `json:"category_id"`
	BrandID           *uint    `json:"brand_id"`
	Description       string   `json:"description"`
	ShortDescription  string   `json:"short_description"`
	CostPrice         float64  `json:"cost_price"`
	SellingPrice      float64  `json:"selling_price"`
	DiscountPrice     *float64 `json:"discount_price"`
	ClearDiscount     bool     `json:"clear_discount"`
	LowStockThreshold *int     `json:"low_stock_threshold"`
	TrackInventory    *bool    `json:"track_inventory"`
	Weight            *float64 `json:"weight"`
	Dimensions        string   `json:"dimensions"`
	IsActive          *bool    `json:"is_active"`
	IsFeatured        *bool    `json:"is_featured"`
	IsNew             *bool    `json:"is_new"`
	MetaTitle         string   `json:"meta_title"`
	MetaDescription   string   `json:"meta_description"`
	MetaKeywords      string   `json:"meta_keywords"`
}

type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type VariantRequest struct {
	Name            string   `json:"name" binding:"required"`
	SKU             string   `json:"sku" binding:"required"`
	PriceAdjustment *float64 `json:"price_adjustment"`
	StockQuantity   *int     `json:"stock_quantity"`
	IsActive        *bool    `json:"is_active"`
	IsDefault       *bool    `json:"is_default"`
}

type UpdateVariantRequest struct {
	Name            string   `json:"name"`
	SKU             string   `json:"sku"`
	PriceAdjustment *float64 `json:"price_adjustment"`
	StockQuantity   *int     `json:"stock_quantity"`
	IsActive        *bool    `json:"is_active"`
	IsDefault       *bool    `json:"is_default"`
}

type ImageRequest struct {
	ImageURL     string `json:"image_url" binding:"required,url"`
	AltText      string `json:"alt_text"`
	DisplayOrder int    `json:"display_order"`
	IsPrimary    bool   `json:"is_primary"`
}

// productPayload augments the stored fields with the derived pricing and
// stock figures clients render directly.
func productPayload(p *model.Product) gin.H {
	return gin.H{
		"product":             p,
		"final_price":         p.FinalPrice(),
		"discount_percentage": p.DiscountPercentage(),
		"is_in_stock":         p.IsInStock(),
		"is_low_stock":        p.IsLowStock(),
	}
}

func productListPayload(products []model.Product) []gin.H {
	results := make([]gin.H, 0, len(products))
	for i := range products {
		results = append(results, productPayload(&products[i]))
	}
	return results
}

func (ctrl *ProductController) respondServiceError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.CatalogProductNotFound, "Product not found")
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.BadRequest(c, apperrors.CatalogCategoryNotFound, "Category not found")
	case errors.Is(err, service.ErrBrandNotFound):
		apperrors.BadRequest(c, apperrors.CatalogBrandNotFound, "Brand not found")
	case errors.Is(err, service.ErrVariantNotFound):
		apperrors.NotFound(c, apperrors.CatalogVariantNotFound, "Product variant not found")
	case errors.Is(err, service.ErrImageNotFound):
		apperrors.NotFound(c, apperrors.CatalogImageNotFound, "Product image not found")
	case errors.Is(err, service.ErrSKUExists):
		apperrors.Conflict(c, apperrors.ResourceAlreadyExists, "SKU is already in use")
	case errors.Is(err, service.ErrInvalidPrice):
		apperrors.BadRequest(c, apperrors.ValidationInvalidPrice, "Prices must not be negative")
	case errors.Is(err, service.ErrDiscountTooHigh):
		apperrors.BadRequest(c, apperrors.CatalogDiscountTooHigh, "Discount price must be below the selling price")
	case errors.Is(err, service.ErrInsufficientStock):
		apperrors.Conflict(c, apperrors.CatalogInsufficientStock, "Stock cannot go below zero")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

func (ctrl *ProductController) parseFilter(c *gin.Context, p Pagination) repository.ProductFilter {
	filter := repository.ProductFilter{
		Search: c.Query("search"),
		Limit:  p.Limit(),
		Offset: p.Offset(),
	}

	if brandID := c.Query("brand_id"); brandID != "" {
		if id, err := strconv.ParseUint(brandID, 10, 32); err == nil {
			v := uint(id)
			filter.BrandID = &v
		}
	}
	if featured := c.Query("is_featured"); featured != "" {
		v := featured == "true"
		filter.IsFeatured = &v
	}
	if isNew := c.Query("is_new"); isNew != "" {
		v := isNew == "true"
		filter.IsNew = &v
	}
	if active := c.Query("is_active"); active != "" {
		v := active == "true"
		filter.IsActive = &v
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			filter.MinPrice = &v
		}
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			filter.MaxPrice = &v
		}
	}

	filter.SortBy = repository.ProductSort(c.DefaultQuery("sort_by", "created_at"))
	filter.SortAscending = c.DefaultQuery("order", "desc") == "asc"
	return filter
}

// List returns the catalog with filters and pagination
// GET /api/v1/products
func (ctrl *ProductController) List(c *gin.Context) {
	p := ParsePagination(c)
	filter := ctrl.parseFilter(c, p)

	products, total, err := ctrl.productService.List(filter)
	if err != nil {
		ctrl.respondServiceError(c, err, "list products")
		return
	}
	RespondWithCollection(c, p, total, productListPayload(products))
}

// ByCategory lists products in a category and its whole subtree
// GET /api/v1/products/category/:id
func (ctrl *ProductController) ByCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
		return
	}

	p := ParsePagination(c)
	filter := ctrl.parseFilter(c, p)

	products, total, err := ctrl.productService.ListByCategory(id, filter)
	if err != nil {
		ctrl.respondServiceError(c, err, "list products by category")
		return
	}
	RespondWithCollection(c, p, total, productListPayload(products))
}

// Featured lists featured products
// GET /api/v1/products/featured
func (ctrl *ProductController) Featured(c *gin.Context) {
	ctrl.listFlagged(c, func(filter *repository.ProductFilter) {
		v := true
		filter.IsFeatured = &v
	})
}

// NewArrivals lists products flagged as new
// GET /api/v1/products/new-arrivals
func (ctrl *ProductController) NewArrivals(c *gin.Context) {
	ctrl.listFlagged(c, func(filter *repository.ProductFilter) {
		v := true
		filter.IsNew = &v
	})
}

// LowStock lists tracked products at or below their threshold
// GET /api/v1/products/low-stock
func (ctrl *ProductController) LowStock(c *gin.Context) {
	ctrl.listFlagged(c, func(filter *repository.ProductFilter) {
		filter.LowStock = true
	})
}

// OutOfStock lists tracked products with no stock
// GET /api/v1/products/out-of-stock
func (ctrl *ProductController) OutOfStock(c *gin.Context) {
	ctrl.listFlagged(c, func(filter *repository.ProductFilter) {
		filter.OutOfStock = true
	})
}

func (ctrl *ProductController) listFlagged(c *gin.Context, adjust func(*repository.ProductFilter)) {
	p := ParsePagination(c)
	filter := ctrl.parseFilter(c, p)
	adjust(&filter)

	products, total, err := ctrl.productService.List(filter)
	if err != nil {
		ctrl.respondServiceError(c, err, "list products")
		return
	}
	RespondWithCollection(c, p, total, productListPayload(products))
}

// Get returns a single product by ID
// GET /api/v1/products/:id
func (ctrl *ProductController) Get(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	product, err := ctrl.productService.GetByID(id)
	if err != nil {
		ctrl.respondServiceError(c, err, "get product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": productPayload(product)})
}

// GetBySlug returns a single product by slug
// GET /api/v1/products/slug/:slug
func (ctrl *ProductController) GetBySlug(c *gin.Context) {
	product, err := ctrl.productService.GetBySlug(c.Param("slug"))
	if err != nil {
		ctrl.respondServiceError(c, err, "get product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": productPayload(product)})
}

// Create adds a product
// POST /api/v1/products
func (ctrl *ProductController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product data")
		return
	}

	product, err := ctrl.productService.Create(service.ProductInput{
		Name:              req.Name,
		SKU:               req.SKU,
		Barcode:           req.Barcode,
		CategoryID:        req.CategoryID,
		BrandID:           req.BrandID,
		Description:       req.Description,
		ShortDescription:  req.ShortDescription,
		CostPrice:         req.CostPrice,
		SellingPrice:      req.SellingPrice,
		DiscountPrice:     req.DiscountPrice,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold,
		TrackInventory:    req.TrackInventory,
		Weight:            req.Weight,
		Dimensions:        req.Dimensions,
		IsActive:          req.IsActive,
		IsFeatured:        req.IsFeatured,
		IsNew:             req.IsNew,
		MetaTitle:         req.MetaTitle,
		MetaDescription:   req.MetaDescription,
		MetaKeywords:      req.MetaKeywords,
	})
	if err != nil {
		log.Warn("Product creation failed", map[string]interface{}{
			"sku":   req.SKU,
			"error": err.Error(),
		})
		ctrl.respondServiceError(c, err, "create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Product created successfully",
		"data":    productPayload(product),
	})
}

// Update edits a product
// PUT /api/v1/products/:id
func (ctrl *ProductController) Update(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product data")
		return
	}

	product, err := ctrl.productService.Update(id, service.ProductInput{
		Name:              req.Name,
		SKU:               req.SKU,
		Barcode:           req.Barcode,
		CategoryID:        req.CategoryID,
		BrandID:           req.BrandID,
		Description:       req.Description,
		ShortDescription:  req.ShortDescription,
		CostPrice:         req.CostPrice,
		SellingPrice:      req.SellingPrice,
		DiscountPrice:     req.DiscountPrice,
		ClearDiscount:     req.ClearDiscount,
		LowStockThreshold: req.LowStockThreshold,
		TrackInventory:    req.TrackInventory,
		Weight:            req.Weight,
		Dimensions:        req.Dimensions,
		IsActive:          req.IsActive,
		IsFeatured:        req.IsFeatured,
		IsNew:             req.IsNew,
		MetaTitle:         req.MetaTitle,
		MetaDescription:   req.MetaDescription,
		MetaKeywords:      req.MetaKeywords,
	})
	if err != nil {
		ctrl.respondServiceError(c, err, "update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product updated successfully",
		"data":    productPayload(product),
	})
}

// Delete soft-deletes a product; repeating the call is a no-op
// DELETE /api/v1/products/:id
func (ctrl *ProductController) Delete(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.productService.SoftDelete(id); err != nil {
		ctrl.respondServiceError(c, err, "delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted successfully",
	})
}

// AdjustStock applies a signed stock delta
// POST /api/v1/products/:id/adjust-stock
func (ctrl *ProductController) AdjustStock(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A non-zero delta is required")
		return
	}

	product, err := ctrl.productService.AdjustStock(id, req.Delta)
	if err != nil {
		ctrl.respondServiceError(c, err, "adjust stock")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Stock adjusted successfully",
		"data":    productPayload(product),
	})
}

// ListVariants lists a product's variants
// GET /api/v1/products/:id/variants
func (ctrl *ProductController) ListVariants(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	variants, err := ctrl.productService.ListVariants(id)
	if err != nil {
		ctrl.respondServiceError(c, err, "list variants")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "variants": variants})
}

// AddVariant adds a variant to a product
// POST /api/v1/products/:id/variants
func (ctrl *ProductController) AddVariant(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid variant data")
		return
	}

	variant, err := ctrl.productService.AddVariant(id, service.VariantInput{
		Name:            req.Name,
		SKU:             req.SKU,
		PriceAdjustment: req.PriceAdjustment,
		StockQuantity:   req.StockQuantity,
		IsActive:        req.IsActive,
		IsDefault:       req.IsDefault,
	})
	if err != nil {
		ctrl.respondServiceError(c, err, "add variant")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Variant added successfully",
		"variant": variant,
	})
}

// UpdateVariant edits a variant
// PUT /api/v1/products/:id/variants/:variantId
func (ctrl *ProductController) UpdateVariant(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}
	variantID, err := parseUintParam(c, "variantId")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid variant ID")
		return
	}

	var req UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid variant data")
		return
	}

	variant, err := ctrl.productService.UpdateVariant(id, variantID, service.VariantInput{
		Name:            req.Name,
		SKU:             req.SKU,
		PriceAdjustment: req.PriceAdjustment,
		StockQuantity:   req.StockQuantity,
		IsActive:        req.IsActive,
		IsDefault:       req.IsDefault,
	})
	if err != nil {
		ctrl.respondServiceError(c, err, "update variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Variant updated successfully",
		"variant": variant,
	})
}

// DeleteVariant removes a variant
// DELETE /api/v1/products/:id/variants/:variantId
func (ctrl *ProductController) DeleteVariant(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}
	variantID, err := parseUintParam(c, "variantId")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid variant ID")
		return
	}

	if err := ctrl.productService.DeleteVariant(id, variantID); err != nil {
		ctrl.respondServiceError(c, err, "delete variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Variant deleted successfully",
	})
}

// ListImages lists a product's images, primary first
// GET /api/v1/products/:id/images
func (ctrl *ProductController) ListImages(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	images, err := ctrl.productService.ListImages(id)
	if err != nil {
		ctrl.respondServiceError(c, err, "list images")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "images": images})
}

// AddImage attaches an image to a product
// POST /api/v1/products/:id/images
func (ctrl *ProductController) AddImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid image data")
		return
	}

	image, err := ctrl.productService.AddImage(id, service.ImageInput{
		ImageURL:     req.ImageURL,
		AltText:      req.AltText,
		DisplayOrder: req.DisplayOrder,
		IsPrimary:    req.IsPrimary,
	})
	if err != nil {
		ctrl.respondServiceError(c, err, "add image")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Image added successfully",
		"image":   image,
	})
}

// SetPrimaryImage makes one image the product's primary
// POST /api/v1/products/:id/images/:imageId/set-primary
func (ctrl *ProductController) SetPrimaryImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}
	imageID, err := parseUintParam(c, "imageId")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid image ID")
		return
	}

	image, err := ctrl.productService.SetPrimaryImage(id, imageID)
	if err != nil {
		ctrl.respondServiceError(c, err, "set primary image")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Primary image updated",
		"image":   image,
	})
}

// DeleteImage removes an image; the next one is promoted if the primary goes
// DELETE /api/v1/products/:id/images/:imageId
func (ctrl *ProductController) DeleteImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}
	imageID, err := parseUintParam(c, "imageId")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid image ID")
		return
	}

	if err := ctrl.productService.DeleteImage(id, imageID); err != nil {
		ctrl.respondServiceError(c, err, "delete image")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Image deleted successfully",
	})
}

// Export streams the filtered catalog as an XLSX workbook
// GET /api/v1/products/export
func (ctrl *ProductController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := ctrl.parseFilter(c, Pagination{Page: 1, PageSize: defaultPageSize})
	buf, filename, err := ctrl.exportService.ExportProducts(filter)
	if err != nil {
		log.Error("Product export failed", err)
		apperrors.InternalError(c, "Failed to generate export")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
