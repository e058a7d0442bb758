// Package store implements the local cache store: one keyed,
// timestamped table per entity kind, shared by all repositories.
// Collection writes are wholesale replacements executed inside a
// transaction so concurrent readers never observe a gap.
package store

import (
	"context"
	"time"

	"github.com/gencidev/storefront/internal/domain"
	"github.com/gencidev/storefront/internal/freshness"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductStore is the cache surface for catalog products.
type ProductStore interface {
	// All returns every cached product ordered by id.
	All(ctx context.Context) ([]domain.Product, error)

	// ByID returns the cached product or nil when absent.
	ByID(ctx context.Context, id int) (*domain.Product, error)

	// ByCategory returns cached products for one category.
	ByCategory(ctx context.Context, category string) ([]domain.Product, error)

	// Search matches the query as a substring against title,
	// description, category and brand.
	Search(ctx context.Context, query string) ([]domain.Product, error)

	// Upsert inserts or overwrites a single product by id.
	Upsert(ctx context.Context, p *domain.Product) error

	// UpsertAll inserts or overwrites a batch by id.
	UpsertAll(ctx context.Context, products []domain.Product) error

	// ReplaceAll drops every cached product and inserts the new set as
	// one transaction.
	ReplaceAll(ctx context.Context, products []domain.Product) error

	// Snapshot returns the count and max write timestamp for the
	// freshness policy.
	Snapshot(ctx context.Context) (freshness.Snapshot, error)

	// PurgeOlderThan deletes records written before the cutoff.
	PurgeOlderThan(ctx context.Context, cutoff int64) error

	DeleteAll(ctx context.Context) error
}

// GormProductStore is the gorm implementation of ProductStore.
type GormProductStore struct {
	db *gorm.DB
}

var _ ProductStore = (*GormProductStore)(nil)

func NewGormProductStore(db *gorm.DB) *GormProductStore {
	return &GormProductStore{db: db}
}

func (s *GormProductStore) All(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := s.db.WithContext(ctx).Order("id ASC").Find(&products).Error
	return products, err
}

func (s *GormProductStore) ByID(ctx context.Context, id int) (*domain.Product, error) {
	var p domain.Product
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormProductStore) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var products []domain.Product
	err := s.db.WithContext(ctx).
		Where("category = ?", category).
		Order("id ASC").
		Find(&products).Error
	return products, err
}

func (s *GormProductStore) Search(ctx context.Context, query string) ([]domain.Product, error) {
	var products []domain.Product
	pat := "%" + query + "%"
	err := s.db.WithContext(ctx).
		Where("title LIKE ? OR description LIKE ? OR category LIKE ? OR brand LIKE ?",
			pat, pat, pat, pat).
		Order("id ASC").
		Find(&products).Error
	return products, err
}

func (s *GormProductStore) Upsert(ctx context.Context, p *domain.Product) error {
	p.LastUpdated = nowMillis()
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(p).Error
}

func (s *GormProductStore) UpsertAll(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	stamp(products)
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&products).Error
}

func (s *GormProductStore) ReplaceAll(ctx context.Context, products []domain.Product) error {
	stamp(products)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&domain.Product{}).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		return tx.Create(&products).Error
	})
}

func (s *GormProductStore) Snapshot(ctx context.Context) (freshness.Snapshot, error) {
	return snapshot(func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&domain.Product{})
	})
}

func (s *GormProductStore) PurgeOlderThan(ctx context.Context, cutoff int64) error {
	return s.db.WithContext(ctx).
		Where("last_updated < ?", cutoff).
		Delete(&domain.Product{}).Error
}

func (s *GormProductStore) DeleteAll(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.Product{}).Error
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func stamp(products []domain.Product) {
	now := nowMillis()
	for i := range products {
		products[i].LastUpdated = now
	}
}

// snapshot runs the count and max-timestamp queries shared by all
// entity stores. newQuery must return a fresh query carrying the model
// and any scope conditions.
func snapshot(newQuery func() *gorm.DB) (freshness.Snapshot, error) {
	var snap freshness.Snapshot
	if err := newQuery().Count(&snap.Count).Error; err != nil {
		return snap, err
	}
	if snap.Count == 0 {
		return snap, nil
	}
	err := newQuery().Select("COALESCE(MAX(last_updated), 0)").Scan(&snap.LastUpdate).Error
	return snap, err
}
