package domain

// Category is a catalog category. The set is small and enumerable,
// keyed by slug.
type Category struct {
	Slug        string `gorm:"primaryKey;size:128" json:"slug"`
	Name        string `gorm:"index" json:"name"`
	URL         string `gorm:"size:1024" json:"url"`
	LastUpdated int64  `gorm:"index" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}
