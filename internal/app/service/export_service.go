package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/supermart/supermart-backend/internal/app/repository"
	"github.com/supermart/supermart-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// ExportService renders catalog data as XLSX workbooks for back-office use.
type ExportService interface {
	// ExportProducts writes the filtered product list to a workbook and
	// returns the buffer plus a suggested filename.
	ExportProducts(filter repository.ProductFilter) (*bytes.Buffer, string, error)
}

type exportService struct {
	productRepo repository.ProductRepository
}

func NewExportService(productRepo repository.ProductRepository) ExportService {
	return &exportService{productRepo: productRepo}
}

var productExportHeaders = []string{
	"ID", "SKU", "Name", "Category", "Brand",
	"Cost Price", "Selling Price", "Discount Price", "Final Price", "Discount %",
	"Stock", "Low Stock Threshold", "In Stock", "Active", "Featured", "Created At",
}

func (s *exportService) ExportProducts(filter repository.ProductFilter) (*bytes.Buffer, string, error) {
	// Export is unpaginated by design; the filter's paging fields are
	// ignored.
	filter.Limit = 0
	filter.Offset = 0

	products, total, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Products"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range productExportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", err
		}
	}

	for i, p := range products {
		categoryName := ""
		if p.Category != nil {
			categoryName = p.Category.Name
		}
		brandName := ""
		if p.Brand != nil {
			brandName = p.Brand.Name
		}
		discountPrice := ""
		if p.DiscountPrice != nil {
			discountPrice = fmt.Sprintf("%.2f", *p.DiscountPrice)
		}

		row := []interface{}{
			p.ID, p.SKU, p.Name, categoryName, brandName,
			p.CostPrice, p.SellingPrice, discountPrice, p.FinalPrice(), p.DiscountPercentage(),
			p.StockQuantity, p.LowStockThreshold, p.IsInStock(), p.IsActive, p.IsFeatured,
			p.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to render product export", err)
		return nil, "", err
	}

	filename := fmt.Sprintf("products-%s.xlsx", time.Now().Format("20060102-150405"))
	logger.Info("Product export generated", map[string]interface{}{
		"rows":     total,
		"filename": filename,
	})
	return buf, filename, nil
}
