package store

import (
	"context"

	"github.com/gencidev/storefront/internal/domain"
	"github.com/gencidev/storefront/internal/freshness"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryStore is the cache surface for catalog categories.
type CategoryStore interface {
	All(ctx context.Context) ([]domain.Category, error)
	BySlug(ctx context.Context, slug string) (*domain.Category, error)
	ReplaceAll(ctx context.Context, categories []domain.Category) error
	Snapshot(ctx context.Context) (freshness.Snapshot, error)
	PurgeOlderThan(ctx context.Context, cutoff int64) error
	DeleteAll(ctx context.Context) error
}

type GormCategoryStore struct {
	db *gorm.DB
}

var _ CategoryStore = (*GormCategoryStore)(nil)

func NewGormCategoryStore(db *gorm.DB) *GormCategoryStore {
	return &GormCategoryStore{db: db}
}

func (s *GormCategoryStore) All(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (s *GormCategoryStore) BySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var c domain.Category
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *GormCategoryStore) ReplaceAll(ctx context.Context, categories []domain.Category) error {
	now := nowMillis()
	for i := range categories {
		categories[i].LastUpdated = now
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&domain.Category{}).Error; err != nil {
			return err
		}
		if len(categories) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&categories).Error
	})
}

func (s *GormCategoryStore) Snapshot(ctx context.Context) (freshness.Snapshot, error) {
	return snapshot(func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&domain.Category{})
	})
}

func (s *GormCategoryStore) PurgeOlderThan(ctx context.Context, cutoff int64) error {
	return s.db.WithContext(ctx).
		Where("last_updated < ?", cutoff).
		Delete(&domain.Category{}).Error
}

func (s *GormCategoryStore) DeleteAll(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.Category{}).Error
}
