package datastore

import "time"

// Role is the target-schema account role.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleUser        Role = "USER"
	RoleStudioOwner Role = "STUDIO_OWNER"
)

// UserStatus is the account lifecycle status.
type UserStatus string

const (
	StatusActive  UserStatus = "ACTIVE"
	StatusPending UserStatus = "PENDING"
	StatusExpired UserStatus = "EXPIRED"
	StatusDeleted UserStatus = "DELETED"
)

// StudioKind is the inferred studio type.
type StudioKind string

const (
	StudioHome       StudioKind = "HOME"
	StudioRecording  StudioKind = "RECORDING"
	StudioPodcast    StudioKind = "PODCAST"
	StudioMobile     StudioKind = "MOBILE"
	StudioProduction StudioKind = "PRODUCTION"
)

// ServiceType is a normalized remote-session service tag.
type ServiceType string

const (
	ServiceSourceConnect ServiceType = "SOURCE_CONNECT"
	ServiceCleanfeed     ServiceType = "CLEANFEED"
	ServiceSessionLink   ServiceType = "SESSION_LINK"
	ServiceZoom          ServiceType = "ZOOM"
	ServiceSkype         ServiceType = "SKYPE"
	ServiceTeams         ServiceType = "TEAMS"
)

// StudioStatus is the publish state of a studio profile.
type StudioStatus string

const (
	StudioStatusDraft    StudioStatus = "DRAFT"
	StudioStatusActive   StudioStatus = "ACTIVE"
	StudioStatusInactive StudioStatus = "INACTIVE"
)

// User is a target-schema account.
type User struct {
	ID                string `gorm:"primaryKey"`
	Email             string `gorm:"uniqueIndex;size:255"`
	Username          string `gorm:"uniqueIndex;size:100"`
	DisplayName       string
	Password          string // always a bcrypt hash
	AvatarURL         string
	Role              Role       `gorm:"size:20"`
	Status            UserStatus `gorm:"size:20"`
	EmailVerified     bool
	DeletionRequested bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Studio is a studio profile, 1:1 with its owning user for migrated records.
type Studio struct {
	ID         string `gorm:"primaryKey"`
	OwnerID    string `gorm:"uniqueIndex;size:100"`
	Name       string
	Kind       StudioKind   `gorm:"size:20"`
	Status     StudioStatus `gorm:"size:20"`
	IsVisible  bool
	About      string
	ShortAbout string
	Phone      string
	WebsiteURL string

	Address   string
	City      string
	Country   string
	Latitude  *float64
	Longitude *float64

	FacebookURL   string
	TwitterURL    string // deprecated column, mirrored with XURL
	XURL          string `gorm:"column:x_url"`
	LinkedInURL   string
	InstagramURL  string
	YouTubeURL    string
	VimeoURL      string
	SoundcloudURL string

	RateTier1 string
	RateTier2 string
	RateTier3 string
	Equipment string

	CustomConnection1 string
	CustomConnection2 string

	Featured      bool
	FeaturedUntil *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StudioService links a studio to one service tag. Set semantics: at most
// one row per (studio, service).
type StudioService struct {
	ID       uint        `gorm:"primaryKey"`
	StudioID string      `gorm:"uniqueIndex:idx_studio_service;size:100"`
	Service  ServiceType `gorm:"uniqueIndex:idx_studio_service;size:30"`
}

// StudioImage is one gallery image, ordered by SortOrder within its studio.
type StudioImage struct {
	ID        string `gorm:"primaryKey"`
	StudioID  string `gorm:"index;size:100"`
	URL       string
	AltText   string
	SortOrder int
}

// UserConnection is one directed contact edge. An accepted legacy contact
// produces two rows, one in each direction.
type UserConnection struct {
	ID              uint   `gorm:"primaryKey"`
	UserID          string `gorm:"uniqueIndex:idx_connection_pair;size:100"`
	ConnectedUserID string `gorm:"uniqueIndex:idx_connection_pair;size:100"`
	Accepted        bool
	CreatedAt       time.Time
}

// Review is a studio review referencing reviewer, studio and studio owner.
type Review struct {
	ID         string `gorm:"primaryKey"`
	StudioID   string `gorm:"index;size:100"`
	OwnerID    string `gorm:"size:100"`
	ReviewerID string `gorm:"size:100"`
	Rating     int
	Content    string
	CreatedAt  time.Time
}

// Payment, Subscription, Message and SupportTicket exist here only as far as
// the audit engine needs them: per-user activity counts and the active
// subscription check. The billing integration itself is out of scope.
type Payment struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"index;size:100"`
	Amount    int
	Status    string `gorm:"size:20"`
	CreatedAt time.Time
}

type Subscription struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"index;size:100"`
	Status    string `gorm:"size:20"` // ACTIVE, CANCELLED, EXPIRED
	CreatedAt time.Time
}

type Message struct {
	ID        uint   `gorm:"primaryKey"`
	SenderID  string `gorm:"index;size:100"`
	CreatedAt time.Time
}

type SupportTicket struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"index;size:100"`
	CreatedAt time.Time
}

// AuditFinding is one classification result for one user. Findings are a
// derived view: each audit run replaces them wholesale.
type AuditFinding struct {
	ID                uint   `gorm:"primaryKey"`
	RunID             string `gorm:"index;size:64"`
	UserID            string `gorm:"uniqueIndex;size:100"`
	Email             string
	Username          string
	Classification    string `gorm:"size:20"`
	ReasonsJSON       string
	CompletenessScore int
	RecommendedAction string
	MetadataJSON      string
	CreatedAt         time.Time
}

// EnrichmentSuggestion is one proposed field-level change, append-only,
// awaiting manual review. It never mutates the profile directly.
type EnrichmentSuggestion struct {
	ID            uint   `gorm:"primaryKey"`
	FindingID     uint   `gorm:"index"`
	UserID        string `gorm:"index;size:100"`
	StudioID      string `gorm:"size:100"`
	Field         string `gorm:"size:50"`
	CurrentValue  string
	ProposedValue string
	Confidence    string `gorm:"size:10"`
	EvidenceURL   string
	EvidenceType  string `gorm:"size:30"`
	Status        string `gorm:"size:20"` // PENDING, APPLIED, REJECTED
	CreatedAt     time.Time
}

// ActivityCounts aggregates the per-user activity signals the audit engine
// inspects.
type ActivityCounts struct {
	Payments       int64
	Subscriptions  int64
	Messages       int64
	Reviews        int64
	SupportTickets int64
}

// Total is the sum of all activity signals.
func (a ActivityCounts) Total() int64 {
	return a.Payments + a.Subscriptions + a.Messages + a.Reviews + a.SupportTickets
}
