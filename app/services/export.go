package services

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

// ExportHeaders are the column titles of the catalog workbook.
var ExportHeaders = []string{
	"Serial Number", "Color", "Size", "Quantity", "Price", "Line Value",
	"Composition", "Image URL", "Created By", "Created At",
}

// Export writes every product matching q as an xlsx workbook, one row per
// variant. Pagination fields of q are ignored.
func (s *CatalogService) Export(ctx context.Context, q ProductQuery, w io.Writer) error {
	products, err := s.store.Products.All(ctx, q.filter())
	if err != nil {
		return storageErr("Failed to load products", err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return storageErr("Failed to create sheet", err)
	}

	header := sheet.AddRow()
	for _, h := range ExportHeaders {
		header.AddCell().SetValue(h)
	}

	for i := range products {
		p := &products[i]
		s.decorate(p)
		price, _ := p.Price.Float64()

		for _, v := range p.Variants {
			value, _ := p.Price.Mul(decimal.NewFromInt(v.Quantity)).Round(2).Float64()

			row := sheet.AddRow()
			row.AddCell().SetValue(p.SerialNumber)
			row.AddCell().SetValue(v.Color)
			row.AddCell().SetValue(v.Size)
			row.AddCell().SetValue(v.Quantity)
			row.AddCell().SetValue(price)
			row.AddCell().SetValue(value)
			row.AddCell().SetValue(p.Composition)
			row.AddCell().SetValue(p.ImageURL)
			row.AddCell().SetValue(p.CreatedByUsername)
			row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		}
	}

	if err := file.Write(w); err != nil {
		return storageErr("Failed to write workbook", fmt.Errorf("xlsx: %w", err))
	}
	return nil
}
