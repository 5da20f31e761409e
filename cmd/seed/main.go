package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/supermart/supermart-backend/config"
	"github.com/supermart/supermart-backend/internal/app/model"
	"github.com/supermart/supermart-backend/internal/app/repository"
	"github.com/supermart/supermart-backend/internal/app/service"
	"github.com/supermart/supermart-backend/internal/db"
	"github.com/supermart/supermart-backend/pkg/logger"
	"github.com/supermart/supermart-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// Seeds the database with the initial super admin account and, when an XLSX
// file is given, imports a product catalog from it.
//
// Usage: go run cmd/seed/main.go [products.xlsx]
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Initialize(logger.Config{
		Level:       "info",
		Format:      "console",
		EnableColor: true,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	if err := seedSuperAdmin(userRepo); err != nil {
		log.Fatalf("Failed to seed super admin: %v", err)
	}

	if len(os.Args) > 1 {
		if err := importProducts(os.Args[1]); err != nil {
			log.Fatalf("Failed to import products: %v", err)
		}
	}

	fmt.Println("Seeding completed successfully!")
}

func seedSuperAdmin(userRepo repository.UserRepository) error {
	email := getenv("SEED_ADMIN_EMAIL", "admin@supermart.local")
	password := getenv("SEED_ADMIN_PASSWORD", "changeme-now")
	phone := getenv("SEED_ADMIN_PHONE", "+8801700000000")

	if _, err := userRepo.FindByEmail(email); err == nil {
		fmt.Printf("Super admin %s already exists, skipping\n", email)
		return nil
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		FirstName:    "Super",
		LastName:     "Admin",
		Role:         model.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := userRepo.Create(admin); err != nil {
		return err
	}

	fmt.Printf("Super admin created: %s\n", email)
	return nil
}

// importProducts reads a product catalog from an XLSX workbook.
// Expected columns: Name | SKU | Category | Brand | Cost Price | Selling
// Price | Stock. The first row is a header. Categories and brands are
// created on first sight.
func importProducts(filePath string) error {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return fmt.Errorf("no data rows found in XLSX file")
	}

	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	brandRepo := repository.NewBrandRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	variantRepo := repository.NewProductVariantRepository(db.GetDB())
	imageRepo := repository.NewProductImageRepository(db.GetDB())

	categoryService := service.NewCategoryService(categoryRepo)
	brandService := service.NewBrandService(brandRepo)
	productService := service.NewProductService(
		productRepo, variantRepo, imageRepo, categoryRepo, brandRepo, categoryService,
	)

	categoryIDs := map[string]uint{}
	brandIDs := map[string]uint{}
	imported := 0

	for i, row := range rows[1:] {
		if len(row) < 7 {
			fmt.Printf("Skipping row %d: expected 7 columns, got %d\n", i+2, len(row))
			continue
		}

		name := strings.TrimSpace(row[0])
		sku := strings.TrimSpace(row[1])
		categoryName := strings.TrimSpace(row[2])
		brandName := strings.TrimSpace(row[3])
		if name == "" || sku == "" || categoryName == "" {
			fmt.Printf("Skipping row %d: missing required fields\n", i+2)
			continue
		}

		costPrice, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
		if err != nil {
			fmt.Printf("Skipping row %d: invalid cost price %q\n", i+2, row[4])
			continue
		}
		sellingPrice, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
		if err != nil {
			fmt.Printf("Skipping row %d: invalid selling price %q\n", i+2, row[5])
			continue
		}
		stock, err := strconv.Atoi(strings.TrimSpace(row[6]))
		if err != nil {
			fmt.Printf("Skipping row %d: invalid stock %q\n", i+2, row[6])
			continue
		}

		categoryID, ok := categoryIDs[categoryName]
		if !ok {
			category, err := findOrCreateCategory(categoryService, categoryName)
			if err != nil {
				return err
			}
			categoryID = category.ID
			categoryIDs[categoryName] = categoryID
		}

		input := service.ProductInput{
			Name:          name,
			SKU:           sku,
			CategoryID:    categoryID,
			CostPrice:     costPrice,
			SellingPrice:  sellingPrice,
			StockQuantity: stock,
		}

		if brandName != "" {
			brandID, ok := brandIDs[brandName]
			if !ok {
				brand, err := findOrCreateBrand(brandService, brandName)
				if err != nil {
					return err
				}
				brandID = brand.ID
				brandIDs[brandName] = brandID
			}
			input.BrandID = &brandID
		}

		if _, err := productService.Create(input); err != nil {
			fmt.Printf("Skipping row %d (%s): %v\n", i+2, sku, err)
			continue
		}
		imported++
	}

	fmt.Printf("Imported %d products\n", imported)
	return nil
}

func findOrCreateCategory(categories service.CategoryService, name string) (*model.Category, error) {
	if category, err := categories.GetBySlug(util.Slugify(name)); err == nil {
		return category, nil
	}
	return categories.Create(service.CategoryInput{Name: name})
}

func findOrCreateBrand(brands service.BrandService, name string) (*model.Brand, error) {
	if brand, err := brands.GetBySlug(util.Slugify(name)); err == nil {
		return brand, nil
	}
	return brands.Create(service.BrandInput{Name: name})
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
