package store

import (
	"context"

	"github.com/gencidev/storefront/internal/domain"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserStore is the cache surface for user profiles and the
// current-user flag.
type UserStore interface {
	ByID(ctx context.Context, id int) (*domain.User, error)
	ByUsername(ctx context.Context, username string) (*domain.User, error)

	// Current returns the user flagged as current, or nil when nobody
	// is logged in.
	Current(ctx context.Context) (*domain.User, error)

	All(ctx context.Context) ([]domain.User, error)
	Save(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error

	// SaveAsCurrent persists the user and flags it current in one
	// transaction: all current flags are cleared, then the row is
	// upserted with the flag set. A concurrent reader sees either the
	// previous current user or the new one, never both or neither.
	SaveAsCurrent(ctx context.Context, u *domain.User) error

	// SetCurrent flips the current flag to an already cached user,
	// clear-then-set inside one transaction.
	SetCurrent(ctx context.Context, id int) error

	ClearCurrent(ctx context.Context) error
	Delete(ctx context.Context, id int) error
	DeleteAll(ctx context.Context) error
}

type GormUserStore struct {
	db *gorm.DB
}

var _ UserStore = (*GormUserStore)(nil)

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) ByID(ctx context.Context, id int) (*domain.User, error) {
	var u domain.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormUserStore) ByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormUserStore) Current(ctx context.Context) (*domain.User, error) {
	var u domain.User
	err := s.db.WithContext(ctx).Where("is_current_user = ?", true).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormUserStore) All(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := s.db.WithContext(ctx).Order("last_login_time DESC").Find(&users).Error
	return users, err
}

func (s *GormUserStore) Save(ctx context.Context, u *domain.User) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(u).Error
}

func (s *GormUserStore) Update(ctx context.Context, u *domain.User) error {
	res := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"username":   u.Username,
			"email":      u.Email,
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"image":      u.Image,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *GormUserStore) SaveAsCurrent(ctx context.Context, u *domain.User) error {
	u.IsCurrentUser = true
	u.LastLoginTime = nowMillis()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearCurrent(tx); err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(u).Error
	})
}

func (s *GormUserStore) SetCurrent(ctx context.Context, id int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearCurrent(tx); err != nil {
			return err
		}
		res := tx.Model(&domain.User{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"is_current_user": true,
				"last_login_time": nowMillis(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (s *GormUserStore) ClearCurrent(ctx context.Context) error {
	return clearCurrent(s.db.WithContext(ctx))
}

func (s *GormUserStore) Delete(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(&domain.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *GormUserStore) DeleteAll(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.User{}).Error
}

func clearCurrent(tx *gorm.DB) error {
	return tx.Model(&domain.User{}).
		Where("is_current_user = ?", true).
		Update("is_current_user", false).Error
}
