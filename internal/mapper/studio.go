package mapper

import (
	"fmt"
	"strings"

	"github.com/mattduff36/vostudiofinder-sub004/internal/datastore"
	"github.com/mattduff36/vostudiofinder-sub004/internal/legacy"
)

// categoryKinds are checked in order against the free-text category field;
// first substring match wins. RECORDING is the default.
var categoryKinds = []struct {
	substring string
	kind      datastore.StudioKind
}{
	{"podcast", datastore.StudioPodcast},
	{"mobile", datastore.StudioMobile},
	{"production", datastore.StudioProduction},
}

// StudioID returns the namespaced target id for a legacy user's studio.
func StudioID(idPrefix string, legacyID int64) string {
	return fmt.Sprintf("%sstudio-%d", idPrefix, legacyID)
}

// ImageID returns the namespaced target id for a legacy gallery row.
func ImageID(idPrefix string, legacyID int64) string {
	return fmt.Sprintf("%simage-%d", idPrefix, legacyID)
}

// ReviewID returns the namespaced target id for a legacy review row.
func ReviewID(idPrefix string, legacyID int64) string {
	return fmt.Sprintf("%sreview-%d", idPrefix, legacyID)
}

// StudioKind infers the studio type. The home-studio flags take precedence
// over any category text; otherwise the category substring checks run in
// their fixed order.
func StudioKind(meta legacy.Bag) datastore.StudioKind {
	if meta.Truthy(legacy.KeyHomeStudio) || meta.Truthy(legacy.KeyHomeStudio2) {
		return datastore.StudioHome
	}
	category := strings.ToLower(meta.Value(legacy.KeyCategory))
	for _, c := range categoryKinds {
		if strings.Contains(category, c.substring) {
			return c.kind
		}
	}
	return datastore.StudioRecording
}

// StudioName derives the studio name: "First Last Studio" when both name
// parts are present, else the legacy display name or username, else a
// fallback synthesized from the legacy id.
func StudioName(user *legacy.User, meta legacy.Bag) string {
	first, hasFirst := meta.Get(legacy.KeyFirstName)
	last, hasLast := meta.Get(legacy.KeyLastName)
	if hasFirst && hasLast {
		return first + " " + last + " Studio"
	}
	if name := strings.TrimSpace(user.DisplayName); name != "" {
		return name
	}
	if name := strings.TrimSpace(user.Username); name != "" {
		return name
	}
	return fmt.Sprintf("Studio %d", user.ID)
}

// WebsiteURL picks the studio website: url, then homepage1, then homepage2.
func WebsiteURL(meta legacy.Bag) string {
	for _, key := range []string{legacy.KeyURL, legacy.KeyHomepage1, legacy.KeyHomepage2} {
		if v, ok := meta.Get(key); ok {
			return v
		}
	}
	return ""
}

// MapStudio converts one legacy user's metadata into a studio profile.
func MapStudio(user *legacy.User, meta legacy.Bag, idPrefix string) datastore.Studio {
	return datastore.Studio{
		ID:         StudioID(idPrefix, user.ID),
		OwnerID:    UserID(idPrefix, user.ID),
		Name:       StudioName(user, meta),
		Kind:       StudioKind(meta),
		Status:     datastore.StudioStatusActive,
		IsVisible:  true,
		About:      meta.Value(legacy.KeyAbout),
		ShortAbout: meta.Value(legacy.KeyShortAbout),
		Phone:      meta.Value(legacy.KeyPhone),
		WebsiteURL: WebsiteURL(meta),
		Address:    meta.Value(legacy.KeyLocation),
		City:       meta.Value(legacy.KeyLoc1),
		Country:    meta.Value(legacy.KeyLoc4),
		Featured:   meta.Truthy(legacy.KeyFeatured),
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}
