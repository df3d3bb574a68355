package legacy

import "time"

// User is one row of the legacy users table. Read-only to the pipeline.
type User struct {
	ID          int64     `gorm:"column:id"`
	Email       string    `gorm:"column:email"`
	Username    string    `gorm:"column:username"`
	DisplayName string    `gorm:"column:display_name"`
	Password    string    `gorm:"column:password"` // may already be bcrypt-hashed
	AvatarURL   string    `gorm:"column:avatar_url"`
	RoleID      int       `gorm:"column:role_id"`
	Verified    bool      `gorm:"column:email_verified"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

// TableName maps User onto the legacy users table.
func (User) TableName() string { return "users" }

// MetaRow is one key/value row of the legacy usermeta table.
type MetaRow struct {
	UserID int64  `gorm:"column:user_id"`
	Key    string `gorm:"column:meta_key"`
	Value  string `gorm:"column:meta_value"`
}

// TableName maps MetaRow onto the legacy usermeta table.
func (MetaRow) TableName() string { return "usermeta" }

// GalleryImage is one row of the legacy gallery table.
type GalleryImage struct {
	ID           int64  `gorm:"column:id"`
	UserID       int64  `gorm:"column:user_id"`
	URL          string `gorm:"column:image_url"`
	Caption      string `gorm:"column:caption"`
	DisplayOrder int    `gorm:"column:display_order"`
}

// TableName maps GalleryImage onto the legacy gallery table.
func (GalleryImage) TableName() string { return "gallery" }

// Contact is one row of the legacy contacts table. Accepted contacts are
// mutual; one row stands for both directions.
type Contact struct {
	ID        int64     `gorm:"column:id"`
	UserID    int64     `gorm:"column:user_id"`
	ContactID int64     `gorm:"column:contact_id"`
	Accepted  int       `gorm:"column:accepted"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName maps Contact onto the legacy contacts table.
func (Contact) TableName() string { return "contacts" }

// Review is one row of the legacy reviews table. OwnerID is the reviewed
// studio owner, AuthorID the reviewer.
type Review struct {
	ID        int64     `gorm:"column:id"`
	OwnerID   int64     `gorm:"column:owner_id"`
	AuthorID  int64     `gorm:"column:author_id"`
	Rating    int       `gorm:"column:rating"`
	Content   string    `gorm:"column:content"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName maps Review onto the legacy reviews table.
func (Review) TableName() string { return "reviews" }

// Counts holds per-table row counts, reported during preflight validation.
type Counts struct {
	Users    int64
	Metadata int64
	Gallery  int64
	Contacts int64
	Reviews  int64
}
