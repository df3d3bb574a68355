// Package mapper converts legacy records into target-schema entities. Every
// function here is pure: no I/O, no store access. The one stateful rule,
// username collision suffixing, lives in the migration package because it
// needs lookups against the partially populated target store.
package mapper

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mattduff36/vostudiofinder-sub004/internal/datastore"
	"github.com/mattduff36/vostudiofinder-sub004/internal/legacy"
)

const (
	// BcryptCost is the adaptive hash cost for passwords migrated in plaintext.
	BcryptCost = 12

	// trustedMediaHost is the only host from which a legacy avatar_image
	// value is accepted as-is.
	trustedMediaHost = "media.voiceoverstudiofinder.com"

	fallbackDisplayName = "User"
)

// roleTable maps legacy numeric role ids onto target roles. Unmapped ids
// default to STUDIO_OWNER: most legacy accounts were studio owners, and the
// historical importer treated that as the default. Deliberate, do not "fix".
var roleTable = map[int]datastore.Role{
	1: datastore.RoleAdmin,
	3: datastore.RoleUser,
}

// MapRole resolves a legacy role id.
func MapRole(roleID int) datastore.Role {
	if role, ok := roleTable[roleID]; ok {
		return role
	}
	return datastore.RoleStudioOwner
}

// UserID returns the namespaced target id for a legacy user.
func UserID(idPrefix string, legacyID int64) string {
	return fmt.Sprintf("%s%d", idPrefix, legacyID)
}

// UsernameCandidate returns the pre-collision-check username: the explicit
// legacy username when present, otherwise the local part of the email.
func UsernameCandidate(user *legacy.User) string {
	if u := strings.TrimSpace(user.Username); u != "" {
		return u
	}
	if at := strings.Index(user.Email, "@"); at > 0 {
		return user.Email[:at]
	}
	return strings.TrimSpace(user.Email)
}

// IsBcryptHash reports whether a legacy password value is already a bcrypt
// hash: "$2" prefix and exactly 60 characters.
func IsBcryptHash(password string) bool {
	return strings.HasPrefix(password, "$2") && len(password) == 60
}

// Password returns the stored password for a legacy value: already-hashed
// values pass through verbatim (re-running migration never double-hashes),
// anything else is hashed at BcryptCost. Plaintext is never stored.
func Password(legacyValue string) (string, error) {
	if IsBcryptHash(legacyValue) {
		return legacyValue, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(legacyValue), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hashed), nil
}

// DisplayName derives the display name: metadata first+last name, else the
// legacy display name, else the legacy username, else a literal fallback.
func DisplayName(user *legacy.User, meta legacy.Bag) string {
	first, hasFirst := meta.Get(legacy.KeyFirstName)
	last, hasLast := meta.Get(legacy.KeyLastName)
	if hasFirst && hasLast {
		return first + " " + last
	}
	if name := strings.TrimSpace(user.DisplayName); name != "" {
		return name
	}
	if name := strings.TrimSpace(user.Username); name != "" {
		return name
	}
	return fallbackDisplayName
}

// AvatarURL resolves the avatar with fixed priority: the metadata avatar
// image when hosted on the trusted media host, else the facebook, google and
// twitter avatar fields in that order, else the legacy record's own URL.
func AvatarURL(user *legacy.User, meta legacy.Bag) string {
	if v, ok := meta.Get(legacy.KeyAvatarImage); ok && strings.Contains(v, trustedMediaHost) {
		return v
	}
	for _, key := range []string{legacy.KeyFacebookAvtr, legacy.KeyGoogleAvtr, legacy.KeyTwitterAvtr} {
		if v, ok := meta.Get(key); ok {
			return v
		}
	}
	return strings.TrimSpace(user.AvatarURL)
}

// MapUser converts one legacy user plus metadata bag into a target user.
// The username is the raw candidate; the migration applies collision
// suffixing before insert.
func MapUser(user *legacy.User, meta legacy.Bag, idPrefix string) (datastore.User, error) {
	password, err := Password(user.Password)
	if err != nil {
		return datastore.User{}, err
	}

	return datastore.User{
		ID:            UserID(idPrefix, user.ID),
		Email:         strings.ToLower(strings.TrimSpace(user.Email)),
		Username:      UsernameCandidate(user),
		DisplayName:   DisplayName(user, meta),
		Password:      password,
		AvatarURL:     AvatarURL(user, meta),
		Role:          MapRole(user.RoleID),
		Status:        datastore.StatusActive,
		EmailVerified: user.Verified,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}, nil
}
