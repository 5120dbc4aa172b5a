package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"library-api/internal/domains/book/model"
	"library-api/internal/shared/pagination"
	"library-api/internal/shared/utils"
)

const (
	exportSheet    = "Books"
	exportPageSize = 100

	// MaxExportRows caps a single workbook
	MaxExportRows = 10000
)

var exportHeaders = []any{
	"ID",
	"Title",
	"ISBN",
	"Published Date",
	"Genre",
	"Author ID",
	"Author",
	"Created At",
	"Updated At",
}

func (s *bookService) Export(ctx context.Context, filter model.BookFilter) (*excelize.File, error) {
	var books []model.BookWithAuthor

	for page := 1; len(books) < MaxExportRows; page++ {
		filter.Page = pagination.Calculate(page, exportPageSize)

		batch, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list books for export: %w", err)
		}
		books = append(books, batch...)

		if len(batch) < exportPageSize || int64(len(books)) >= total {
			break
		}
	}

	if len(books) > MaxExportRows {
		books = books[:MaxExportRows]
	}

	f, err := buildBooksWorkbook(books)
	if err != nil {
		return nil, fmt.Errorf("failed to build export workbook: %w", err)
	}
	return f, nil
}

// buildBooksWorkbook writes a header row followed by one row per book
func buildBooksWorkbook(books []model.BookWithAuthor) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	for i, b := range books {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}

		row := []any{
			b.ID.String(),
			b.Title,
			b.ISBN,
			formatDate(b.PublishedDate),
			deref(b.Genre),
			b.Author.ID.String(),
			b.Author.FullName(),
			b.CreatedAt.UTC().Format(time.RFC3339),
			b.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(utils.DateLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
