package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/conlit/backend/internal/domain"
)

// solvedCacheRepository implements domain.SolvedCacheRepository using GORM
type solvedCacheRepository struct {
	db *gorm.DB
}

// NewSolvedCacheRepository creates a new solved cache repository
func NewSolvedCacheRepository(db *gorm.DB) domain.SolvedCacheRepository {
	return &solvedCacheRepository{db: db}
}

// Get returns the cached entry for username, or nil when there is none
func (r *solvedCacheRepository) Get(ctx context.Context, username string) (*domain.SolvedCacheEntry, error) {
	var entry domain.SolvedCacheEntry
	result := r.db.WithContext(ctx).Where("username = ?", username).First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &entry, nil
}

// Put upserts the entry. Concurrent writers for the same user race and the last one wins.
func (r *solvedCacheRepository) Put(ctx context.Context, entry *domain.SolvedCacheEntry) error {
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.AssignmentColumns([]string{"submission_count", "solved_slugs", "updated_at"}),
		}).
		Create(entry).Error
}
