package service

import (
	"errors"

	"github.com/supermart/supermart-backend/internal/app/model"
	"github.com/supermart/supermart-backend/internal/app/repository"
	"github.com/supermart/supermart-backend/pkg/logger"
	"github.com/supermart/supermart-backend/pkg/util"
	"gorm.io/gorm"
)

var ErrBrandNotFound = errors.New("brand not found")

type BrandInput struct {
	Name        string
	Description string
	LogoURL     string
	Website     string
	IsActive    *bool
}

type BrandService interface {
	Create(input BrandInput) (*model.Brand, error)
	GetByID(id uint) (*model.Brand, error)
	GetBySlug(slug string) (*model.Brand, error)
	List(activeOnly bool) ([]model.Brand, error)
	Update(id uint, input BrandInput) (*model.Brand, error)
	// Delete removes the brand; its products survive with the brand
	// reference cleared.
	Delete(id uint) error
}

type brandService struct {
	brandRepo repository.BrandRepository
}

func NewBrandService(brandRepo repository.BrandRepository) BrandService {
	return &brandService{brandRepo: brandRepo}
}

func (s *brandService) uniqueSlug(name string) (string, error) {
	for i := 0; i < slugAttempts; i++ {
		candidate := util.SlugifyWithSuffix(name, i)
		exists, err := s.brandRepo.SlugExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", errors.New("could not derive a unique slug")
}

func (s *brandService) Create(input BrandInput) (*model.Brand, error) {
	slug, err := s.uniqueSlug(input.Name)
	if err != nil {
		return nil, err
	}

	brand := &model.Brand{
		Name:        input.Name,
		Slug:        slug,
		Description: input.Description,
		LogoURL:     input.LogoURL,
		Website:     input.Website,
		IsActive:    true,
	}
	if input.IsActive != nil {
		brand.IsActive = *input.IsActive
	}

	if err := s.brandRepo.Create(brand); err != nil {
		return nil, err
	}

	logger.Info("Brand created", map[string]interface{}{
		"brand_id": brand.ID,
		"slug":     brand.Slug,
	})
	return brand, nil
}

func (s *brandService) GetByID(id uint) (*model.Brand, error) {
	brand, err := s.brandRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, err
	}
	return brand, nil
}

func (s *brandService) GetBySlug(slug string) (*model.Brand, error) {
	brand, err := s.brandRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, err
	}
	return brand, nil
}

func (s *brandService) List(activeOnly bool) ([]model.Brand, error) {
	return s.brandRepo.FindAll(activeOnly)
}

func (s *brandService) Update(id uint, input BrandInput) (*model.Brand, error) {
	brand, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" && input.Name != brand.Name {
		slug, err := s.uniqueSlug(input.Name)
		if err != nil {
			return nil, err
		}
		brand.Name = input.Name
		brand.Slug = slug
	}
	if input.Description != "" {
		brand.Description = input.Description
	}
	if input.LogoURL != "" {
		brand.LogoURL = input.LogoURL
	}
	if input.Website != "" {
		brand.Website = input.Website
	}
	if input.IsActive != nil {
		brand.IsActive = *input.IsActive
	}

	if err := s.brandRepo.Update(brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *brandService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	if err := s.brandRepo.DeleteDetachingProducts(id); err != nil {
		return err
	}

	logger.Info("Brand deleted", map[string]interface{}{
		"brand_id": id,
	})
	return nil
}
