package service

import (
	"errors"

	"github.com/supermart/supermart-backend/internal/app/model"
	"github.com/supermart/supermart-backend/internal/app/repository"
	"github.com/supermart/supermart-backend/pkg/logger"
	"github.com/supermart/supermart-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("product variant not found")
	ErrImageNotFound   = errors.New("product image not found")
	ErrSKUExists       = errors.New("sku already exists")
	ErrInvalidPrice    = errors.New("price must not be negative")
	// ErrDiscountTooHigh rejects discounts at or above the selling price.
	ErrDiscountTooHigh = errors.New("discount price must be below the selling price")
	// ErrInsufficientStock rejects adjustments that would drive stock
	// negative.
	ErrInsufficientStock = errors.New("insufficient stock for adjustment")
)

type ProductInput struct {
	Name              string
	SKU               string
	Barcode           string
	CategoryID        uint
	BrandID           *uint
	Description       string
	ShortDescription  string
	CostPrice         float64
	SellingPrice      float64
	DiscountPrice     *float64
	// ClearDiscount removes a stored discount on update; a nil
	// DiscountPrice alone means "leave the discount as is".
	ClearDiscount     bool
	StockQuantity     int
	LowStockThreshold *int
	TrackInventory    *bool
	Weight            *float64
	Dimensions        string
	IsActive          *bool
	IsFeatured        *bool
	IsNew             *bool
	MetaTitle         string
	MetaDescription   string
	MetaKeywords      string
}

type VariantInput struct {
	Name            string
	SKU             string
	PriceAdjustment *float64
	StockQuantity   *int
	IsActive        *bool
	IsDefault       *bool
}

type ImageInput struct {
	ImageURL     string
	AltText      string
	DisplayOrder int
	IsPrimary    bool
}

type ProductService interface {
	Create(input ProductInput) (*model.Product, error)
	GetByID(id uint) (*model.Product, error)
	GetBySlug(slug string) (*model.Product, error)
	List(filter repository.ProductFilter) ([]model.Product, int64, error)
	// ListByCategory includes the whole category subtree, not just direct
	// members.
	ListByCategory(categoryID uint, filter repository.ProductFilter) ([]model.Product, int64, error)
	Update(id uint, input ProductInput) (*model.Product, error)
	// SoftDelete marks the product deleted. Deleting an already-deleted
	// product is a no-op.
	SoftDelete(id uint) error
	// AdjustStock applies a signed delta and returns the updated product.
	AdjustStock(id uint, delta int) (*model.Product, error)

	AddVariant(productID uint, input VariantInput) (*model.ProductVariant, error)
	ListVariants(productID uint) ([]model.ProductVariant, error)
	UpdateVariant(productID, variantID uint, input VariantInput) (*model.ProductVariant, error)
	DeleteVariant(productID, variantID uint) error

	AddImage(productID uint, input ImageInput) (*model.ProductImage, error)
	ListImages(productID uint) ([]model.ProductImage, error)
	SetPrimaryImage(productID, imageID uint) (*model.ProductImage, error)
	DeleteImage(productID, imageID uint) error
}

type productService struct {
	productRepo  repository.ProductRepository
	variantRepo  repository.ProductVariantRepository
	imageRepo    repository.ProductImageRepository
	categoryRepo repository.CategoryRepository
	brandRepo    repository.BrandRepository
	categories   CategoryService
}

func NewProductService(
	productRepo repository.ProductRepository,
	variantRepo repository.ProductVariantRepository,
	imageRepo repository.ProductImageRepository,
	categoryRepo repository.CategoryRepository,
	brandRepo repository.BrandRepository,
	categories CategoryService,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		imageRepo:    imageRepo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
		categories:   categories,
	}
}

func (s *productService) validatePricing(costPrice, sellingPrice float64, discountPrice *float64, name string) error {
	if costPrice < 0 || sellingPrice < 0 {
		return ErrInvalidPrice
	}
	if discountPrice != nil {
		if *discountPrice < 0 {
			return ErrInvalidPrice
		}
		if *discountPrice >= sellingPrice {
			return ErrDiscountTooHigh
		}
	}
	// Selling below cost is legal (clearance, loss leaders) but worth a
	// trace in the logs.
	if costPrice > sellingPrice {
		logger.Warn("Product priced below cost", map[string]interface{}{
			"name":          name,
			"cost_price":    costPrice,
			"selling_price": sellingPrice,
		})
	}
	return nil
}

func (s *productService) uniqueSlug(name string) (string, error) {
	for i := 0; i < slugAttempts; i++ {
		candidate := util.SlugifyWithSuffix(name, i)
		exists, err := s.productRepo.SlugExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", errors.New("could not derive a unique slug")
}

func (s *productService) Create(input ProductInput) (*model.Product, error) {
	if err := s.validatePricing(input.CostPrice, input.SellingPrice, input.DiscountPrice, input.Name); err != nil {
		return nil, err
	}
	if input.StockQuantity < 0 {
		return nil, ErrInsufficientStock
	}

	if _, err := s.categoryRepo.FindByID(input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if input.BrandID != nil {
		if _, err := s.brandRepo.FindByID(*input.BrandID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBrandNotFound
			}
			return nil, err
		}
	}

	if _, err := s.productRepo.FindBySKU(input.SKU); err == nil {
		return nil, ErrSKUExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	slug, err := s.uniqueSlug(input.Name)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:              input.Name,
		Slug:              slug,
		SKU:               input.SKU,
		Barcode:           input.Barcode,
		CategoryID:        input.CategoryID,
		BrandID:           input.BrandID,
		Description:       input.Description,
		ShortDescription:  input.ShortDescription,
		CostPrice:         input.CostPrice,
		SellingPrice:      input.SellingPrice,
		DiscountPrice:     input.DiscountPrice,
		StockQuantity:     input.StockQuantity,
		LowStockThreshold: 10,
		TrackInventory:    true,
		Dimensions:        input.Dimensions,
		Weight:            input.Weight,
		IsActive:          true,
		MetaTitle:         input.MetaTitle,
		MetaDescription:   input.MetaDescription,
		MetaKeywords:      input.MetaKeywords,
	}
	if input.LowStockThreshold != nil {
		product.LowStockThreshold = *input.LowStockThreshold
	}
	if input.TrackInventory != nil {
		product.TrackInventory = *input.TrackInventory
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.IsNew != nil {
		product.IsNew = *input.IsNew
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
		"slug":       product.Slug,
	})
	return product, nil
}

func (s *productService) GetByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) GetBySlug(slug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) List(filter repository.ProductFilter) ([]model.Product, int64, error) {
	return s.productRepo.FindWithFilter(filter)
}

func (s *productService) ListByCategory(categoryID uint, filter repository.ProductFilter) ([]model.Product, int64, error) {
	ids, err := s.categories.Descendants(categoryID)
	if err != nil {
		return nil, 0, err
	}
	filter.CategoryIDs = ids
	return s.productRepo.FindWithFilter(filter)
}

func (s *productService) Update(id uint, input ProductInput) (*model.Product, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	sellingPrice := product.SellingPrice
	if input.SellingPrice > 0 {
		sellingPrice = input.SellingPrice
	}
	costPrice := product.CostPrice
	if input.CostPrice > 0 {
		costPrice = input.CostPrice
	}
	discountPrice := product.DiscountPrice
	if input.ClearDiscount {
		discountPrice = nil
	} else if input.DiscountPrice != nil {
		discountPrice = input.DiscountPrice
	}
	if err := s.validatePricing(costPrice, sellingPrice, discountPrice, product.Name); err != nil {
		return nil, err
	}

	if input.CategoryID != 0 && input.CategoryID != product.CategoryID {
		if _, err := s.categoryRepo.FindByID(input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		product.CategoryID = input.CategoryID
	}
	if input.BrandID != nil {
		if _, err := s.brandRepo.FindByID(*input.BrandID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBrandNotFound
			}
			return nil, err
		}
		product.BrandID = input.BrandID
	}
	if input.SKU != "" && input.SKU != product.SKU {
		if _, err := s.productRepo.FindBySKU(input.SKU); err == nil {
			return nil, ErrSKUExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		product.SKU = input.SKU
	}
	if input.Name != "" && input.Name != product.Name {
		slug, err := s.uniqueSlug(input.Name)
		if err != nil {
			return nil, err
		}
		product.Name = input.Name
		product.Slug = slug
	}

	product.CostPrice = costPrice
	product.SellingPrice = sellingPrice
	product.DiscountPrice = discountPrice
	if input.Barcode != "" {
		product.Barcode = input.Barcode
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.ShortDescription != "" {
		product.ShortDescription = input.ShortDescription
	}
	if input.Dimensions != "" {
		product.Dimensions = input.Dimensions
	}
	if input.Weight != nil {
		product.Weight = input.Weight
	}
	if input.LowStockThreshold != nil {
		product.LowStockThreshold = *input.LowStockThreshold
	}
	if input.TrackInventory != nil {
		product.TrackInventory = *input.TrackInventory
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.IsNew != nil {
		product.IsNew = *input.IsNew
	}
	if input.MetaTitle != "" {
		product.MetaTitle = input.MetaTitle
	}
	if input.MetaDescription != "" {
		product.MetaDescription = input.MetaDescription
	}
	if input.MetaKeywords != "" {
		product.MetaKeywords = input.MetaKeywords
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) SoftDelete(id uint) error {
	affected, err := s.productRepo.SoftDelete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either unknown or already deleted; only the former is an error.
		if _, err := s.productRepo.FindByIDIncludingDeleted(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		return nil
	}

	logger.Info("Product soft deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func (s *productService) AdjustStock(id uint, delta int) (*model.Product, error) {
	affected, err := s.productRepo.AdjustStock(id, delta)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// The guarded UPDATE matched nothing: either the product is gone
		// or the delta would have gone negative.
		if _, err := s.GetByID(id); err != nil {
			return nil, err
		}
		return nil, ErrInsufficientStock
	}
	return s.GetByID(id)
}

func (s *productService) AddVariant(productID uint, input VariantInput) (*model.ProductVariant, error) {
	if _, err := s.GetByID(productID); err != nil {
		return nil, err
	}
	variant := &model.ProductVariant{
		ProductID: productID,
		Name:      input.Name,
		SKU:       input.SKU,
		IsActive:  true,
	}
	if input.PriceAdjustment != nil {
		variant.PriceAdjustment = *input.PriceAdjustment
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, ErrInsufficientStock
		}
		variant.StockQuantity = *input.StockQuantity
	}
	if input.IsActive != nil {
		variant.IsActive = *input.IsActive
	}
	if input.IsDefault != nil {
		variant.IsDefault = *input.IsDefault
	}

	if err := s.variantRepo.Create(variant); err != nil {
		return nil, err
	}
	return variant, nil
}

func (s *productService) ListVariants(productID uint) ([]model.ProductVariant, error) {
	if _, err := s.GetByID(productID); err != nil {
		return nil, err
	}
	return s.variantRepo.FindByProduct(productID)
}

func (s *productService) findVariant(productID, variantID uint) (*model.ProductVariant, error) {
	variant, err := s.variantRepo.FindByID(variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	if variant.ProductID != productID {
		return nil, ErrVariantNotFound
	}
	return variant, nil
}

func (s *productService) UpdateVariant(productID, variantID uint, input VariantInput) (*model.ProductVariant, error) {
	variant, err := s.findVariant(productID, variantID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		variant.Name = input.Name
	}
	if input.SKU != "" {
		variant.SKU = input.SKU
	}
	if input.PriceAdjustment != nil {
		variant.PriceAdjustment = *input.PriceAdjustment
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, ErrInsufficientStock
		}
		variant.StockQuantity = *input.StockQuantity
	}
	if input.IsActive != nil {
		variant.IsActive = *input.IsActive
	}
	if input.IsDefault != nil {
		variant.IsDefault = *input.IsDefault
	}

	if err := s.variantRepo.Update(variant); err != nil {
		return nil, err
	}
	return variant, nil
}

func (s *productService) DeleteVariant(productID, variantID uint) error {
	if _, err := s.findVariant(productID, variantID); err != nil {
		return err
	}
	return s.variantRepo.Delete(variantID)
}

func (s *productService) AddImage(productID uint, input ImageInput) (*model.ProductImage, error) {
	if _, err := s.GetByID(productID); err != nil {
		return nil, err
	}

	images, err := s.imageRepo.FindByProduct(productID)
	if err != nil {
		return nil, err
	}

	image := &model.ProductImage{
		ProductID:    productID,
		ImageURL:     input.ImageURL,
		AltText:      input.AltText,
		DisplayOrder: input.DisplayOrder,
		// The first image of a product is always primary.
		IsPrimary: input.IsPrimary || len(images) == 0,
	}

	if err := s.imageRepo.Create(image); err != nil {
		return nil, err
	}
	return image, nil
}

func (s *productService) ListImages(productID uint) ([]model.ProductImage, error) {
	if _, err := s.GetByID(productID); err != nil {
		return nil, err
	}
	return s.imageRepo.FindByProduct(productID)
}

func (s *productService) SetPrimaryImage(productID, imageID uint) (*model.ProductImage, error) {
	if _, err := s.GetByID(productID); err != nil {
		return nil, err
	}

	if err := s.imageRepo.SetPrimary(productID, imageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return s.imageRepo.FindByID(imageID)
}

func (s *productService) DeleteImage(productID, imageID uint) error {
	image, err := s.imageRepo.FindByID(imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return err
	}
	if image.ProductID != productID {
		return ErrImageNotFound
	}

	if err := s.imageRepo.Delete(imageID); err != nil {
		return err
	}

	// Deleting the primary promotes the next image so the product never
	// silently loses its display image while others remain.
	if image.IsPrimary {
		remaining, err := s.imageRepo.FindByProduct(productID)
		if err != nil {
			return err
		}
		if len(remaining) > 0 {
			return s.imageRepo.SetPrimary(productID, remaining[0].ID)
		}
	}
	return nil
}
