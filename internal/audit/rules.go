package audit

import (
	"fmt"
	"strings"
)

// Recommended actions, last setter wins.
const (
	actionReviewForDeletion = "review account for deletion"
	actionContactSales      = "contact owner about advertising"
	actionRequestUpdate     = "request profile update from owner"
	actionInvestigate       = "manual investigation required"
)

// rules is the complete ordered rule list. Order is load-bearing:
// JUNK heuristics first, then NOT_ADVERTISING, then NEEDS_UPDATE, then the
// EXCEPTION group which is evaluated last and takes precedence over
// everything except an already-assigned JUNK. That JUNK stays terminal even
// against contradictory payment records is preserved behavior pending
// product sign-off.
var rules = []Rule{
	{Name: "junk-no-profile-aged", Evaluate: junkNoProfileAged},
	{Name: "junk-test-markers", Evaluate: junkTestMarkers},
	{Name: "suspicious-name-flag", Evaluate: suspiciousNameFlag},
	{Name: "not-advertising", Evaluate: notAdvertising},
	{Name: "needs-update-missing-fields", Evaluate: needsUpdateMissingFields},
	{Name: "needs-update-stale", Evaluate: needsUpdateStale},
	{Name: "needs-update-bad-urls", Evaluate: needsUpdateBadURLs},
	{Name: "exception-activity-no-profile", Evaluate: exceptionActivityNoProfile},
	{Name: "exception-stuck-deletion", Evaluate: exceptionStuckDeletion},
	{Name: "exception-geodata", Evaluate: exceptionGeodata},
}

// junkNoProfileAged tags dormant never-completed signups. The 30-day branch
// is the stronger signal; an account matching it must not also collect the
// 7-day reason.
func junkNoProfileAged(in *Input, current Classification) *Effect {
	if in.Studio != nil {
		return nil
	}
	if in.User.Status != "PENDING" && in.User.Status != "EXPIRED" {
		return nil
	}
	if in.Activity.Total() != 0 {
		return nil
	}
	age := in.Now.Sub(in.User.CreatedAt)
	switch {
	case age > in.Policy.JunkAgeStrong:
		return &Effect{
			Classification:    Junk,
			Reasons:           []string{"no studio profile, no related activity, account older than 30 days"},
			RecommendedAction: actionReviewForDeletion,
		}
	case age > in.Policy.JunkAgeWeak:
		return &Effect{
			Classification:    Junk,
			Reasons:           []string{"no studio profile, no related activity, account older than 7 days"},
			RecommendedAction: actionReviewForDeletion,
		}
	}
	return nil
}

// junkTestMarkers escalates obvious test accounts, but only from HEALTHY so
// an already-stronger finding is preserved.
func junkTestMarkers(in *Input, current Classification) *Effect {
	if current != Healthy {
		return nil
	}
	haystack := strings.ToLower(in.User.DisplayName + " " + in.User.Username + " " + in.User.Email)
	if !strings.Contains(haystack, "test") {
		return nil
	}
	return &Effect{
		Classification:    Junk,
		Reasons:           []string{"name or email contains a test marker"},
		RecommendedAction: actionReviewForDeletion,
	}
}

// suspiciousNameFlag sets a metadata flag for implausibly short names. It
// never changes the classification.
func suspiciousNameFlag(in *Input, current Classification) *Effect {
	username := strings.TrimSpace(in.User.Username)
	display := strings.TrimSpace(in.User.DisplayName)
	if len(username) >= in.Policy.MinPlausibleName && len(display) >= in.Policy.MinPlausibleName {
		return nil
	}
	return &Effect{Metadata: map[string]string{"suspicious_name": "true"}}
}

// notAdvertising covers accounts that exist but are not paying to be listed.
// Only applies while the classification is still HEALTHY.
func notAdvertising(in *Input, current Classification) *Effect {
	if current != Healthy || in.HasSubscription {
		return nil
	}
	if in.Studio == nil {
		if in.User.Status == "ACTIVE" {
			return &Effect{
				Classification:    NotAdvertising,
				Reasons:           []string{"active account with no studio profile and no subscription"},
				RecommendedAction: actionContactSales,
			}
		}
		return nil
	}
	unpublished := in.Studio.Status == "DRAFT" || in.Studio.Status == "INACTIVE"
	if unpublished && !in.Studio.IsVisible {
		return &Effect{
			Classification:    NotAdvertising,
			Reasons:           []string{"studio profile unpublished and not publicly visible, no subscription"},
			RecommendedAction: actionContactSales,
		}
	}
	return nil
}

// needsUpdateGuard: the three NEEDS_UPDATE sub-rules promote HEALTHY and may
// each fire independently, so a sibling having already set NEEDS_UPDATE does
// not suppress the others.
func needsUpdateApplies(in *Input, current Classification) bool {
	if in.Studio == nil {
		return false
	}
	return current == Healthy || current == NeedsUpdate
}

func needsUpdateMissingFields(in *Input, current Classification) *Effect {
	if !needsUpdateApplies(in, current) {
		return nil
	}
	s := in.Studio
	var missing []string
	if strings.TrimSpace(s.City) == "" {
		missing = append(missing, "city")
	}
	if s.Latitude == nil || s.Longitude == nil {
		missing = append(missing, "coordinates")
	}
	if strings.TrimSpace(s.About) == "" && strings.TrimSpace(s.ShortAbout) == "" {
		missing = append(missing, "about")
	}
	if strings.TrimSpace(s.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(s.WebsiteURL) == "" {
		missing = append(missing, "website")
	}
	if !hasAnySocial(s) {
		missing = append(missing, "social links")
	}
	if s.Kind == "" {
		missing = append(missing, "studio types")
	}
	if in.ServiceCount == 0 {
		missing = append(missing, "services")
	}
	if len(missing) == 0 {
		return nil
	}
	return &Effect{
		Classification:    NeedsUpdate,
		Reasons:           []string{fmt.Sprintf("missing profile fields: %s", strings.Join(missing, ", "))},
		RecommendedAction: actionRequestUpdate,
	}
}

func needsUpdateStale(in *Input, current Classification) *Effect {
	if !needsUpdateApplies(in, current) {
		return nil
	}
	if in.Now.Sub(in.Studio.UpdatedAt) <= in.Policy.StaleProfile {
		return nil
	}
	return &Effect{
		Classification:    NeedsUpdate,
		Reasons:           []string{"profile not updated in over 365 days"},
		RecommendedAction: actionRequestUpdate,
	}
}

func needsUpdateBadURLs(in *Input, current Classification) *Effect {
	if !needsUpdateApplies(in, current) {
		return nil
	}
	var reasons []string
	for name, url := range socialURLs(in.Studio) {
		if url != "" && !strings.Contains(url, "://") {
			reasons = append(reasons, fmt.Sprintf("%s URL missing scheme", name))
		}
	}
	if strings.Contains(in.Studio.TwitterURL, "twitter.com") {
		reasons = append(reasons, "deprecated twitter.com domain still in use")
	}
	if len(reasons) == 0 {
		return nil
	}
	return &Effect{
		Classification:    NeedsUpdate,
		Reasons:           reasons,
		RecommendedAction: actionRequestUpdate,
	}
}

// The EXCEPTION group runs last and overrides anything except JUNK.

func exceptionActivityNoProfile(in *Input, current Classification) *Effect {
	if current == Junk {
		return nil
	}
	if in.Studio != nil {
		return nil
	}
	if in.Activity.Payments == 0 && in.Activity.Subscriptions == 0 {
		return nil
	}
	return &Effect{
		Classification:    Exception,
		Reasons:           []string{"payment or subscription activity but no studio profile"},
		RecommendedAction: actionInvestigate,
	}
}

func exceptionStuckDeletion(in *Input, current Classification) *Effect {
	if current == Junk {
		return nil
	}
	if !in.User.DeletionRequested || in.User.Status != "ACTIVE" {
		return nil
	}
	return &Effect{
		Classification:    Exception,
		Reasons:           []string{"deletion requested but account still shows active"},
		RecommendedAction: actionInvestigate,
	}
}

func exceptionGeodata(in *Input, current Classification) *Effect {
	if current == Junk || in.Studio == nil {
		return nil
	}
	s := in.Studio
	hasCoords := s.Latitude != nil && s.Longitude != nil
	hasPlace := strings.TrimSpace(s.City) != "" || strings.TrimSpace(s.Address) != ""

	switch {
	case hasCoords && strings.TrimSpace(s.City) == "":
		return &Effect{
			Classification:    Exception,
			Reasons:           []string{"studio has coordinates but no city"},
			RecommendedAction: actionInvestigate,
			Metadata:          map[string]string{"geodata_issue": "coords_no_city"},
		}
	case !hasCoords && hasPlace:
		return &Effect{
			Classification:    Exception,
			Reasons:           []string{"studio has city or address but no coordinates"},
			RecommendedAction: actionInvestigate,
			Metadata:          map[string]string{"geodata_issue": "place_no_coords"},
		}
	}
	return nil
}
