package mapper

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mattduff36/vostudiofinder-sub004/internal/datastore"
	"github.com/mattduff36/vostudiofinder-sub004/internal/legacy"
)

func TestMapRole(t *testing.T) {
	assert.Equal(t, datastore.RoleAdmin, MapRole(1))
	assert.Equal(t, datastore.RoleUser, MapRole(3))
	// Unmapped ids default to STUDIO_OWNER, including zero.
	assert.Equal(t, datastore.RoleStudioOwner, MapRole(0))
	assert.Equal(t, datastore.RoleStudioOwner, MapRole(2))
	assert.Equal(t, datastore.RoleStudioOwner, MapRole(99))
}

func TestUsernameCandidate(t *testing.T) {
	tests := []struct {
		name string
		user legacy.User
		want string
	}{
		{"explicit username wins", legacy.User{Username: "janedoe", Email: "jane@example.com"}, "janedoe"},
		{"whitespace username falls through", legacy.User{Username: "  ", Email: "jane@example.com"}, "jane"},
		{"email local part", legacy.User{Email: "jane.doe@example.com"}, "jane.doe"},
		{"email without at sign", legacy.User{Email: "janedoe"}, "janedoe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UsernameCandidate(&tt.user))
		})
	}
}

func TestIsBcryptHash(t *testing.T) {
	hash := "$2a$12$" + strings.Repeat("a", 53)
	require.Len(t, hash, 60)

	assert.True(t, IsBcryptHash(hash))
	assert.False(t, IsBcryptHash("plaintext"))
	assert.False(t, IsBcryptHash("$2a$12$short"))
	// Right length, wrong prefix.
	assert.False(t, IsBcryptHash(strings.Repeat("x", 60)))
}

func TestPasswordPassthrough(t *testing.T) {
	hash := "$2b$12$" + strings.Repeat("b", 53)
	got, err := Password(hash)
	require.NoError(t, err)
	assert.Equal(t, hash, got, "existing hash must pass through verbatim")
}

func TestPasswordHashesPlaintext(t *testing.T) {
	got, err := Password("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", got)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got), []byte("hunter2")))

	cost, err := bcrypt.Cost([]byte(got))
	require.NoError(t, err)
	assert.Equal(t, BcryptCost, cost)
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user legacy.User
		meta legacy.Bag
		want string
	}{
		{"first and last from metadata", legacy.User{DisplayName: "ignored"}, legacy.Bag{"first_name": "Jane", "last_name": "Doe"}, "Jane Doe"},
		{"first name alone is not enough", legacy.User{DisplayName: "Jane D"}, legacy.Bag{"first_name": "Jane"}, "Jane D"},
		{"legacy display name", legacy.User{DisplayName: "Jane's Studio"}, legacy.Bag{}, "Jane's Studio"},
		{"username fallback", legacy.User{Username: "janedoe"}, legacy.Bag{}, "janedoe"},
		{"literal fallback", legacy.User{}, legacy.Bag{}, "User"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(&tt.user, tt.meta))
		})
	}
}

func TestAvatarURL(t *testing.T) {
	trusted := "https://media.voiceoverstudiofinder.com/avatars/1.jpg"

	tests := []struct {
		name string
		user legacy.User
		meta legacy.Bag
		want string
	}{
		{"trusted host wins", legacy.User{AvatarURL: "legacy.jpg"}, legacy.Bag{
			"avatar_image":    trusted,
			"facebook_avatar": "fb.jpg",
		}, trusted},
		{"untrusted host skipped", legacy.User{}, legacy.Bag{
			"avatar_image":    "https://elsewhere.example/1.jpg",
			"facebook_avatar": "fb.jpg",
		}, "fb.jpg"},
		{"facebook before google", legacy.User{}, legacy.Bag{
			"facebook_avatar": "fb.jpg",
			"google_avatar":   "g.jpg",
		}, "fb.jpg"},
		{"google before twitter", legacy.User{}, legacy.Bag{
			"google_avatar":  "g.jpg",
			"twitter_avatar": "tw.jpg",
		}, "g.jpg"},
		{"legacy record last", legacy.User{AvatarURL: "legacy.jpg"}, legacy.Bag{}, "legacy.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AvatarURL(&tt.user, tt.meta))
		})
	}
}

func TestMapUser(t *testing.T) {
	created := time.Date(2015, 6, 1, 12, 0, 0, 0, time.UTC)
	user := legacy.User{
		ID:        42,
		Email:     " Jane@Example.COM ",
		Username:  "janedoe",
		Password:  "plaintext",
		RoleID:    7,
		Verified:  true,
		CreatedAt: created,
		UpdatedAt: created,
	}
	meta := legacy.Bag{"first_name": "Jane", "last_name": "Doe"}

	got, err := MapUser(&user, meta, "legacy-")
	require.NoError(t, err)

	assert.Equal(t, "legacy-42", got.ID)
	assert.Equal(t, "jane@example.com", got.Email)
	assert.Equal(t, "janedoe", got.Username)
	assert.Equal(t, "Jane Doe", got.DisplayName)
	assert.Equal(t, datastore.RoleStudioOwner, got.Role)
	assert.Equal(t, datastore.StatusActive, got.Status)
	assert.True(t, got.EmailVerified)
	assert.Equal(t, created, got.CreatedAt)
	assert.True(t, IsBcryptHash(got.Password), "plaintext must be hashed")
}
