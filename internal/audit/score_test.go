package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mattduff36/vostudiofinder-sub004/internal/datastore"
)

func TestCompletenessScoreNoStudio(t *testing.T) {
	tests := []struct {
		name string
		user datastore.User
		want int
	}{
		{"empty account", datastore.User{}, 0},
		{"email and username", datastore.User{Email: "a@b.c", Username: "ab"}, 20},
		{"all five basic fields", datastore.User{
			Email:         "a@b.c",
			Username:      "ab",
			DisplayName:   "A B",
			AvatarURL:     "https://media.example/a.jpg",
			EmailVerified: true,
		}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &Input{User: tt.user}
			assert.Equal(t, tt.want, CompletenessScore(in))
		})
	}
}

func TestCompletenessScoreStudio(t *testing.T) {
	t.Run("complete profile scores 100", func(t *testing.T) {
		in := healthyInput()
		assert.Equal(t, 100, CompletenessScore(in))
	})

	t.Run("essential tier only", func(t *testing.T) {
		in := healthyInput()
		in.User.AvatarURL = ""
		in.ImageCount = 0
		in.ConnectionCount = 0
		s := in.Studio
		s.Phone = ""
		s.WebsiteURL = ""
		s.Equipment = ""
		s.FacebookURL = ""
		s.XURL = ""
		s.RateTier1 = ""

		assert.Equal(t, 60, CompletenessScore(in))
	})

	t.Run("empty studio scores only what the account brings", func(t *testing.T) {
		in := &Input{
			User:   datastore.User{AvatarURL: "https://media.example/a.jpg"},
			Studio: &datastore.Studio{},
		}
		// Avatar is the nice-to-have tier's account field.
		assert.Equal(t, 5, CompletenessScore(in))
	})
}
