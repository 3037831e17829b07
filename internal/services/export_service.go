package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"travel-agency/internal/auth"
	"travel-agency/internal/repository"
	"travel-agency/internal/status"
	"travel-agency/models"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Sheet1"

var bookingColumns = []any{
	"Created", "Name", "Email", "Phone", "Travel Date", "Persons",
	"Package", "Package Price", "Total Amount", "Status", "Message",
}

// Export renders the admin booking list as an xlsx workbook.
func (a *BookingAdmin) Export(ctx context.Context, session auth.Session) (*bytes.Buffer, error) {
	views, err := a.List(ctx, session)
	if err != nil {
		return nil, err
	}
	return BookingsWorkbook(views)
}

func BookingsWorkbook(views []models.BookingView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(exportSheet, "A1", &bookingColumns); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, v := range views {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			v.Created.Format("2006-01-02 15:04"),
			v.Name,
			v.Email,
			v.Phone,
			v.Date,
			v.Persons,
			v.PackageName,
			v.PackagePrice.InexactFloat64(),
			v.TotalAmount.InexactFloat64(),
			string(v.Status),
			v.Message,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf, nil
}

type ImportReport struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// PlaceImporter upserts places from a spreadsheet, matching rows to
// existing places by slug.
type PlaceImporter struct {
	places repository.Store[models.Place]
	logger *slog.Logger
}

func NewPlaceImporter(places repository.Store[models.Place], logger *slog.Logger) *PlaceImporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaceImporter{places: places, logger: logger}
}

func (p *PlaceImporter) Import(ctx context.Context, r io.Reader) (ImportReport, error) {
	var report ImportReport

	f, err := excelize.OpenReader(r)
	if err != nil {
		return report, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return report, fmt.Errorf("%w: workbook has no sheets", status.ErrValidation)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return report, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return report, nil
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := header["name"]; !ok {
		return report, fmt.Errorf("%w: missing name column", status.ErrValidation)
	}

	for n, row := range rows[1:] {
		cell := func(col string) string {
			if i, ok := header[col]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}

		place := models.Place{
			Name:        cell("name"),
			Region:      cell("region"),
			Description: cell("description"),
			ImageURL:    cell("image_url"),
			Status:      models.RecordStatus(strings.ToLower(cell("status"))),
		}
		if ordering := cell("ordering"); ordering != "" {
			place.Ordering, err = strconv.Atoi(ordering)
			if err != nil {
				p.logger.Warn("Skipping place row", "row", n+2, "error", "ordering is not a number")
				report.Skipped++
				continue
			}
		}
		place = place.Normalize()
		if err := place.Validate(); err != nil {
			p.logger.Warn("Skipping place row", "row", n+2, "error", err)
			report.Skipped++
			continue
		}

		existing, err := p.places.FindByFold(ctx, "slug", place.Slug)
		switch {
		case err == nil:
			if _, err := p.places.Update(ctx, place.WithID(existing.ID)); err != nil {
				return report, fmt.Errorf("update place %s: %w", place.Slug, err)
			}
			report.Updated++
		case errors.Is(err, status.ErrNotFound):
			if _, err := p.places.Create(ctx, place); err != nil {
				return report, fmt.Errorf("create place %s: %w", place.Slug, err)
			}
			report.Created++
		default:
			return report, err
		}
	}
	return report, nil
}
