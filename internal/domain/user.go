package domain

// User is a locally cached profile. At most one row carries
// IsCurrentUser=true at any time; switching the current user is a
// clear-then-set sequence executed inside one transaction.
type User struct {
	ID            int    `gorm:"primaryKey" json:"id"`
	Username      string `gorm:"index;size:128" json:"username"`
	Email         string `gorm:"size:256" json:"email"`
	FirstName     string `gorm:"size:128" json:"firstName"`
	LastName      string `gorm:"size:128" json:"lastName"`
	Image         string `gorm:"size:1024" json:"image"`
	Gender        string `gorm:"size:32" json:"gender,omitempty"`
	IsCurrentUser bool   `gorm:"index" json:"-"`
	LastLoginTime int64  `json:"-"`
}

func (User) TableName() string {
	return "users"
}
