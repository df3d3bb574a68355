package audit

import (
	"strings"

	"github.com/mattduff36/vostudiofinder-sub004/internal/datastore"
)

// socialURLs returns the studio's social link fields by name, including the
// deprecated twitter column.
func socialURLs(s *datastore.Studio) map[string]string {
	return map[string]string{
		"facebook":   s.FacebookURL,
		"twitter":    s.TwitterURL,
		"x":          s.XURL,
		"linkedin":   s.LinkedInURL,
		"instagram":  s.InstagramURL,
		"youtube":    s.YouTubeURL,
		"vimeo":      s.VimeoURL,
		"soundcloud": s.SoundcloudURL,
	}
}

func hasAnySocial(s *datastore.Studio) bool {
	for _, url := range socialURLs(s) {
		if strings.TrimSpace(url) != "" {
			return true
		}
	}
	return false
}

// CompletenessScore computes the profile completeness measure. Accounts with
// no studio profile score out of 50 (10 points per basic account field).
// Studio accounts score out of 100 across three weighted tiers: essential
// (6 x 10), important (5 x 5), nice-to-have (3 x 5). The score is the sum of
// satisfied weights, clamped to 100.
func CompletenessScore(in *Input) int {
	if in.Studio == nil {
		return basicScore(&in.User)
	}
	return studioScore(in)
}

func basicScore(u *datastore.User) int {
	score := 0
	if strings.TrimSpace(u.Email) != "" {
		score += 10
	}
	if strings.TrimSpace(u.Username) != "" {
		score += 10
	}
	if strings.TrimSpace(u.DisplayName) != "" {
		score += 10
	}
	if strings.TrimSpace(u.AvatarURL) != "" {
		score += 10
	}
	if u.EmailVerified {
		score += 10
	}
	return score
}

func studioScore(in *Input) int {
	s := in.Studio
	score := 0

	// Essential tier, 10 points each.
	if strings.TrimSpace(s.Name) != "" {
		score += 10
	}
	if strings.TrimSpace(s.City) != "" {
		score += 10
	}
	if s.Latitude != nil && s.Longitude != nil {
		score += 10
	}
	if strings.TrimSpace(s.About) != "" || strings.TrimSpace(s.ShortAbout) != "" {
		score += 10
	}
	if s.Kind != "" {
		score += 10
	}
	if in.ServiceCount > 0 {
		score += 10
	}

	// Important tier, 5 points each.
	if strings.TrimSpace(s.Phone) != "" {
		score += 5
	}
	if strings.TrimSpace(s.WebsiteURL) != "" {
		score += 5
	}
	if in.ImageCount > 0 {
		score += 5
	}
	if strings.TrimSpace(s.Equipment) != "" {
		score += 5
	}
	if hasAnySocial(s) {
		score += 5
	}

	// Nice-to-have tier, 5 points each.
	if strings.TrimSpace(s.RateTier1) != "" || strings.TrimSpace(s.RateTier2) != "" || strings.TrimSpace(s.RateTier3) != "" {
		score += 5
	}
	if in.ConnectionCount > 0 {
		score += 5
	}
	if strings.TrimSpace(in.User.AvatarURL) != "" {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}
