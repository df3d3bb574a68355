package legacy

import (
	"fmt"
	"strings"
)

// Known metadata keys. The legacy usermeta table is an open vocabulary; this
// is the complete set of keys the pipeline reads, kept in one place so the
// transformation stays auditable. Any key may be absent for any user.
const (
	KeyFirstName     = "first_name"
	KeyLastName      = "last_name"
	KeyAbout         = "about"
	KeyShortAbout    = "shortabout"
	KeyLocation      = "location"
	KeyLoc1          = "loc1"
	KeyLoc2          = "loc2"
	KeyLoc3          = "loc3"
	KeyLoc4          = "loc4"
	KeyPhone         = "phone"
	KeyURL           = "url"
	KeyHomepage1     = "homepage1"
	KeyHomepage2     = "homepage2"
	KeyCategory      = "category"
	KeyFeatured      = "featured"
	KeyHomeStudio    = "homestudio"
	KeyHomeStudio2   = "homestudio2"
	KeySourceConnect = "sc"  // legacy ISDN-adjacent flag
	KeyVON           = "von" // legacy ISDN-adjacent flag
	KeyAvatarImage   = "avatar_image"
	KeyFacebookAvtr  = "facebook_avatar"
	KeyGoogleAvtr    = "google_avatar"
	KeyTwitterAvtr   = "twitter_avatar"
)

// ConnectionSlotCount is the number of numbered connectionN metadata slots.
const ConnectionSlotCount = 15

// ConnectionKey returns the metadata key for the nth connection slot (1-based).
func ConnectionKey(n int) string {
	return fmt.Sprintf("connection%d", n)
}

// Bag is the sparse per-user metadata mapping. Values are raw legacy strings.
type Bag map[string]string

// Get returns the value for key and whether it was present and non-blank.
func (b Bag) Get(key string) (string, bool) {
	v, ok := b[key]
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Value returns the trimmed value for key, or "" when absent.
func (b Bag) Value(key string) string {
	v, _ := b.Get(key)
	return v
}

// Truthy reports whether the key holds one of the legacy true encodings.
// The legacy store wrote "1", "true", "yes" and "on" interchangeably.
func (b Bag) Truthy(key string) bool {
	v, ok := b.Get(key)
	if !ok {
		return false
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// ConnectionValues returns the non-blank values of connection1..connectionN
// in slot order.
func (b Bag) ConnectionValues() []string {
	var values []string
	for i := 1; i <= ConnectionSlotCount; i++ {
		if v, ok := b.Get(ConnectionKey(i)); ok {
			values = append(values, v)
		}
	}
	return values
}
