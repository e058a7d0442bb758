package store

import (
	"context"

	"github.com/gencidev/storefront/internal/domain"
	"github.com/gencidev/storefront/internal/freshness"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartStore is the cache surface for carts. Carts can be scoped as a
// whole collection or partitioned by owning user.
type CartStore interface {
	All(ctx context.Context) ([]domain.Cart, error)
	ByID(ctx context.Context, id int) (*domain.Cart, error)
	ByUser(ctx context.Context, userID int) ([]domain.Cart, error)
	Upsert(ctx context.Context, cart *domain.Cart) error
	ReplaceAll(ctx context.Context, carts []domain.Cart) error

	// ReplaceByUser swaps only the named user's partition, leaving
	// other users' cached carts untouched.
	ReplaceByUser(ctx context.Context, userID int, carts []domain.Cart) error

	Snapshot(ctx context.Context) (freshness.Snapshot, error)
	SnapshotByUser(ctx context.Context, userID int) (freshness.Snapshot, error)
	PurgeOlderThan(ctx context.Context, cutoff int64) error
	DeleteAll(ctx context.Context) error
}

type GormCartStore struct {
	db *gorm.DB
}

var _ CartStore = (*GormCartStore)(nil)

func NewGormCartStore(db *gorm.DB) *GormCartStore {
	return &GormCartStore{db: db}
}

func (s *GormCartStore) All(ctx context.Context) ([]domain.Cart, error) {
	var carts []domain.Cart
	err := s.db.WithContext(ctx).Order("last_updated DESC").Find(&carts).Error
	return carts, err
}

func (s *GormCartStore) ByID(ctx context.Context, id int) (*domain.Cart, error) {
	var cart domain.Cart
	err := s.db.WithContext(ctx).First(&cart, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *GormCartStore) ByUser(ctx context.Context, userID int) ([]domain.Cart, error) {
	var carts []domain.Cart
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_updated DESC").
		Find(&carts).Error
	return carts, err
}

func (s *GormCartStore) Upsert(ctx context.Context, cart *domain.Cart) error {
	cart.LastUpdated = nowMillis()
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(cart).Error
}

func (s *GormCartStore) ReplaceAll(ctx context.Context, carts []domain.Cart) error {
	stampCarts(carts)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&domain.Cart{}).Error; err != nil {
			return err
		}
		if len(carts) == 0 {
			return nil
		}
		return tx.Create(&carts).Error
	})
}

func (s *GormCartStore) ReplaceByUser(ctx context.Context, userID int, carts []domain.Cart) error {
	stampCarts(carts)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).
			Delete(&domain.Cart{}).Error; err != nil {
			return err
		}
		if len(carts) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&carts).Error
	})
}

func (s *GormCartStore) Snapshot(ctx context.Context) (freshness.Snapshot, error) {
	return snapshot(func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&domain.Cart{})
	})
}

func (s *GormCartStore) SnapshotByUser(ctx context.Context, userID int) (freshness.Snapshot, error) {
	return snapshot(func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&domain.Cart{}).Where("user_id = ?", userID)
	})
}

func (s *GormCartStore) PurgeOlderThan(ctx context.Context, cutoff int64) error {
	return s.db.WithContext(ctx).
		Where("last_updated < ?", cutoff).
		Delete(&domain.Cart{}).Error
}

func (s *GormCartStore) DeleteAll(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.Cart{}).Error
}

func stampCarts(carts []domain.Cart) {
	now := nowMillis()
	for i := range carts {
		carts[i].LastUpdated = now
	}
}
