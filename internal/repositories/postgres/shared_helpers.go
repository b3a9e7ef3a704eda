package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/62String/devicerent-sub000/internal/repositories"
)

// mapNotFound translates gorm's sentinel into the repository-level one so
// services never import gorm.
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrNotFound
	}
	return err
}
