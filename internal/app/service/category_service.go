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
	ErrCategoryNotFound = errors.New("category not found")
	ErrParentNotFound   = errors.New("parent category not found")
	// ErrCategoryCycle is returned when a move would make a category its own
	// ancestor.
	ErrCategoryCycle = errors.New("category cannot be its own ancestor")
	// ErrCategoryInUse blocks deletion while products still reference the
	// category or any of its descendants.
	ErrCategoryInUse = errors.New("category subtree still has products")
)

// slugAttempts bounds the suffix search for a free slug.
const slugAttempts = 50

type CategoryInput struct {
	Name         string
	Description  string
	ParentID     *uint
	// ClearParent moves the category to the root on update; a nil ParentID
	// alone means "leave the parent as is".
	ClearParent  bool
	ImageURL     string
	DisplayOrder int
	IsActive     *bool
}

type CategoryService interface {
	Create(input CategoryInput) (*model.Category, error)
	GetByID(id uint) (*model.Category, error)
	GetBySlug(slug string) (*model.Category, error)
	List(activeOnly bool) ([]model.Category, error)
	ListRoots(activeOnly bool) ([]model.Category, error)
	ListChildren(parentID uint, activeOnly bool) ([]model.Category, error)
	Update(id uint, input CategoryInput) (*model.Category, error)
	// Delete removes the category and its whole subtree. It refuses while
	// any product references a category in the subtree.
	Delete(id uint) error
	// Descendants returns the IDs of the subtree rooted at id, the root
	// included.
	Descendants(id uint) ([]uint, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

// uniqueSlug derives a slug from the name, appending "-2", "-3", ... until it
// finds one not taken. Deterministic so retries land on the same value.
func (s *categoryService) uniqueSlug(name string) (string, error) {
	for i := 0; i < slugAttempts; i++ {
		candidate := util.SlugifyWithSuffix(name, i)
		exists, err := s.categoryRepo.SlugExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", errors.New("could not derive a unique slug")
}

func (s *categoryService) Create(input CategoryInput) (*model.Category, error) {
	if input.ParentID != nil {
		if _, err := s.categoryRepo.FindByID(*input.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
	}

	slug, err := s.uniqueSlug(input.Name)
	if err != nil {
		return nil, err
	}

	category := &model.Category{
		Name:         input.Name,
		Slug:         slug,
		Description:  input.Description,
		ParentID:     input.ParentID,
		ImageURL:     input.ImageURL,
		DisplayOrder: input.DisplayOrder,
		IsActive:     true,
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"slug":        category.Slug,
		"parent_id":   category.ParentID,
	})
	return category, nil
}

func (s *categoryService) GetByID(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) GetBySlug(slug string) (*model.Category, error) {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) List(activeOnly bool) ([]model.Category, error) {
	return s.categoryRepo.FindAll(activeOnly)
}

func (s *categoryService) ListRoots(activeOnly bool) ([]model.Category, error) {
	return s.categoryRepo.FindRoots(activeOnly)
}

func (s *categoryService) ListChildren(parentID uint, activeOnly bool) ([]model.Category, error) {
	if _, err := s.GetByID(parentID); err != nil {
		return nil, err
	}
	return s.categoryRepo.FindChildren(parentID, activeOnly)
}

func (s *categoryService) Update(id uint, input CategoryInput) (*model.Category, error) {
	category, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.ClearParent {
		category.ParentID = nil
	} else if input.ParentID != nil {
		if err := s.checkNoCycle(id, *input.ParentID); err != nil {
			return nil, err
		}
		category.ParentID = input.ParentID
	}

	if input.Name != "" && input.Name != category.Name {
		slug, err := s.uniqueSlug(input.Name)
		if err != nil {
			return nil, err
		}
		category.Name = input.Name
		category.Slug = slug
	}
	if input.Description != "" {
		category.Description = input.Description
	}
	if input.ImageURL != "" {
		category.ImageURL = input.ImageURL
	}
	if input.DisplayOrder != 0 {
		category.DisplayOrder = input.DisplayOrder
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// checkNoCycle walks up from the proposed parent; finding the moved category
// among the ancestors means the move would close a loop.
func (s *categoryService) checkNoCycle(categoryID, newParentID uint) error {
	if categoryID == newParentID {
		return ErrCategoryCycle
	}

	currentID := newParentID
	for {
		parent, err := s.categoryRepo.FindByID(currentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParentNotFound
			}
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		if *parent.ParentID == categoryID {
			return ErrCategoryCycle
		}
		currentID = *parent.ParentID
	}
}

func (s *categoryService) Descendants(id uint) ([]uint, error) {
	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}

	// Breadth-first walk over the children relation.
	ids := []uint{id}
	frontier := []uint{id}
	for len(frontier) > 0 {
		next := make([]uint, 0)
		for _, parentID := range frontier {
			children, err := s.categoryRepo.FindChildren(parentID, false)
			if err != nil {
				return nil, err
			}
			for _, child := range children {
				ids = append(ids, child.ID)
				next = append(next, child.ID)
			}
		}
		frontier = next
	}
	return ids, nil
}

func (s *categoryService) Delete(id uint) error {
	ids, err := s.Descendants(id)
	if err != nil {
		return err
	}

	count, err := s.categoryRepo.CountProductsInCategories(ids)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	if err := s.categoryRepo.DeleteByIDs(ids); err != nil {
		return err
	}

	logger.Info("Category subtree deleted", map[string]interface{}{
		"category_id": id,
		"removed":     len(ids),
	})
	return nil
}
