package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/62String/devicerent-sub000/internal/models"
	"github.com/62String/devicerent-sub000/internal/repositories"
)

type DeletedUserPostgreSQL struct {
	db *gorm.DB
}

func NewDeletedUserPostgreSQL(db *gorm.DB) repositories.DeletedUserRepository {
	return &DeletedUserPostgreSQL{db: db}
}

func (d *DeletedUserPostgreSQL) Create(ctx context.Context, tombstone *models.DeletedUser) error {
	return d.db.WithContext(ctx).Create(tombstone).Error
}

// PurgeOlderThan removes tombstones past the retention window. PostgreSQL has
// no document TTL, so the jobs package calls this on a ticker.
func (d *DeletedUserPostgreSQL) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := d.db.WithContext(ctx).
		Where("deleted_at < ?", cutoff).
		Delete(&models.DeletedUser{})
	return result.RowsAffected, result.Error
}
