package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/62String/devicerent-sub000/internal/models"
	"github.com/62String/devicerent-sub000/internal/repositories"
	"github.com/62String/devicerent-sub000/internal/validator"
)

type historyService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewHistoryService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) HistoryService {
	return &historyService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *historyService) List(ctx context.Context, filters repositories.HistoryFilters) (*models.RentalHistoryListResponse, error) {
	records, total, err := s.repo.RentalHistory().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list rental history: %w", err)
	}
	return &models.RentalHistoryListResponse{Records: records, Total: total}, nil
}

var exportHeader = []interface{}{
	"Serial Number", "Action", "User ID", "Name", "Affiliation",
	"Model", "OS", "OS Version", "Remark", "Timestamp",
}

// Export renders the selected window as an XLSX workbook. Rows are grouped
// into one sheet per calendar month of their timestamp.
func (s *historyService) Export(ctx context.Context, req *HistoryExportRequest) ([]byte, string, error) {
	if errs := s.validator.GetBusinessValidator().ValidateExportWindow(req); len(errs) > 0 {
		return nil, "", fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	from, to, err := resolveExportWindow(req, time.Now().UTC())
	if err != nil {
		return nil, "", err
	}

	records, _, err := s.repo.RentalHistory().List(ctx, repositories.HistoryFilters{From: &from, To: &to})
	if err != nil {
		return nil, "", fmt.Errorf("list rental history: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	// Group by calendar month, oldest sheet first.
	byMonth := make(map[string][]*models.RentalHistory)
	for _, rec := range records {
		key := rec.Timestamp.Format("2006-01")
		byMonth[key] = append(byMonth[key], rec)
	}
	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	for _, month := range months {
		if _, err := f.NewSheet(month); err != nil {
			return nil, "", fmt.Errorf("create sheet %s: %w", month, err)
		}
		if err := f.SetSheetRow(month, "A1", &exportHeader); err != nil {
			return nil, "", fmt.Errorf("write header: %w", err)
		}

		for i, rec := range byMonth[month] {
			user := rec.UserDetails.Data()
			device := rec.DeviceInfo.Data()
			row := []interface{}{
				rec.SerialNumber,
				string(rec.Action),
				rec.UserID,
				user.Name,
				user.Affiliation,
				device.ModelName,
				device.OSName,
				device.OSVersion,
				rec.Remark,
				rec.Timestamp.Format(time.RFC3339),
			}
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return nil, "", fmt.Errorf("row coordinates: %w", err)
			}
			if err := f.SetSheetRow(month, cell, &row); err != nil {
				return nil, "", fmt.Errorf("write row: %w", err)
			}
		}
	}

	// Drop the default sheet once real sheets exist.
	if len(months) > 0 {
		if err := f.DeleteSheet(f.GetSheetName(0)); err == nil {
			if idx, err := f.GetSheetIndex(months[0]); err == nil {
				f.SetActiveSheet(idx)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("render workbook: %w", err)
	}

	filename := fmt.Sprintf("rental_history_%s_%s.xlsx",
		from.Format("20060102"), to.Format("20060102"))

	s.logger.Info("history exported",
		"from", from.Format("2006-01-02"),
		"to", to.Format("2006-01-02"),
		"records", len(records),
		"sheets", len(months),
	)
	return buf.Bytes(), filename, nil
}

// resolveExportWindow turns a named period or explicit dates into [from, to).
// Explicit dates win over the named period.
func resolveExportWindow(req *HistoryExportRequest, now time.Time) (time.Time, time.Time, error) {
	if req.StartDate != "" || req.EndDate != "" {
		from := now.AddDate(-1, 0, 0)
		to := now
		if req.StartDate != "" {
			parsed, err := time.Parse("2006-01-02", req.StartDate)
			if err != nil {
				return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start_date", ErrValidationFailed)
			}
			from = parsed
		}
		if req.EndDate != "" {
			parsed, err := time.Parse("2006-01-02", req.EndDate)
			if err != nil {
				return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end_date", ErrValidationFailed)
			}
			// End date is inclusive.
			to = parsed.AddDate(0, 0, 1)
		}
		return from, to, nil
	}

	switch req.Period {
	case "week":
		return now.AddDate(0, 0, -7), now, nil
	case "month":
		return now.AddDate(0, -1, 0), now, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown export period", ErrValidationFailed)
	}
}
