package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/62String/devicerent-sub000/internal/models"
	"github.com/62String/devicerent-sub000/internal/repositories"
)

type RentalHistoryPostgreSQL struct {
	db *gorm.DB
}

func NewRentalHistoryPostgreSQL(db *gorm.DB) repositories.RentalHistoryRepository {
	return &RentalHistoryPostgreSQL{db: db}
}

// Append inserts a ledger entry. There is deliberately no update or delete.
func (r *RentalHistoryPostgreSQL) Append(ctx context.Context, entry *models.RentalHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *RentalHistoryPostgreSQL) List(ctx context.Context, filters repositories.HistoryFilters) ([]*models.RentalHistory, int64, error) {
	var records []*models.RentalHistory
	var total int64

	query := r.db.WithContext(ctx).Model(&models.RentalHistory{})
	query = applyHistoryFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	if err := query.Order("timestamp DESC").Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func applyHistoryFilters(query *gorm.DB, filters repositories.HistoryFilters) *gorm.DB {
	if filters.SerialNumber != "" {
		query = query.Where("serial_number = ?", filters.SerialNumber)
	}
	if filters.UserID != "" {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.From != nil {
		query = query.Where("timestamp >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("timestamp < ?", *filters.To)
	}
	return query
}
