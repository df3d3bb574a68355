package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mattduff36/vostudiofinder-sub004/internal/datastore"
)

var auditNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func f64(v float64) *float64 { return &v }

// completeStudio returns a studio that satisfies every rule and every scoring
// tier. Tests degrade it field by field.
func completeStudio() *datastore.Studio {
	return &datastore.Studio{
		ID:          "legacy-studio-1",
		OwnerID:     "legacy-1",
		Name:        "Jane Doe Studio",
		Kind:        datastore.StudioHome,
		Status:      datastore.StudioStatusActive,
		IsVisible:   true,
		About:       "A home studio.",
		Phone:       "+44 20 7946 0000",
		WebsiteURL:  "https://doe.example",
		Address:     "1 High Street",
		City:        "London",
		Country:     "United Kingdom",
		Latitude:    f64(51.5),
		Longitude:   f64(-0.12),
		FacebookURL: "https://facebook.com/janedoe",
		XURL:        "https://x.com/janedoe",
		RateTier1:   "£50/hr",
		Equipment:   "Neumann TLM 103",
		UpdatedAt:   auditNow.Add(-24 * time.Hour),
	}
}

func healthyInput() *Input {
	return &Input{
		User: datastore.User{
			ID:            "legacy-1",
			Email:         "jane@example.com",
			Username:      "janedoe",
			DisplayName:   "Jane Doe",
			AvatarURL:     "https://media.example/1.jpg",
			Status:        datastore.StatusActive,
			EmailVerified: true,
			CreatedAt:     auditNow.Add(-400 * 24 * time.Hour),
		},
		Studio:          completeStudio(),
		HasSubscription: true,
		ServiceCount:    2,
		ImageCount:      3,
		ConnectionCount: 4,
		Now:             auditNow,
	}
}

func TestClassifyHealthy(t *testing.T) {
	result := Classify(healthyInput())

	assert.Equal(t, Healthy, result.Classification)
	assert.Empty(t, result.Reasons)
	assert.Equal(t, 100, result.CompletenessScore)
	assert.Empty(t, result.Metadata)
}

func TestClassifyJunkAgeBranches(t *testing.T) {
	base := func(age time.Duration) *Input {
		return &Input{
			User: datastore.User{
				ID:        "legacy-2",
				Email:     "dormant@example.com",
				Username:  "dormant",
				Status:    datastore.StatusPending,
				CreatedAt: auditNow.Add(-age),
			},
			Now: auditNow,
		}
	}

	t.Run("older than 30 days", func(t *testing.T) {
		result := Classify(base(31 * 24 * time.Hour))
		assert.Equal(t, Junk, result.Classification)
		assert.Equal(t, []string{"no studio profile, no related activity, account older than 30 days"}, result.Reasons)
		assert.Equal(t, actionReviewForDeletion, result.RecommendedAction)
	})

	t.Run("older than 7 days", func(t *testing.T) {
		result := Classify(base(8 * 24 * time.Hour))
		assert.Equal(t, Junk, result.Classification)
		assert.Equal(t, []string{"no studio profile, no related activity, account older than 7 days"}, result.Reasons)
	})

	t.Run("younger than 7 days is not junk", func(t *testing.T) {
		result := Classify(base(3 * 24 * time.Hour))
		assert.NotEqual(t, Junk, result.Classification)
	})

	t.Run("activity suppresses the rule", func(t *testing.T) {
		in := base(31 * 24 * time.Hour)
		in.Activity.Messages = 1
		result := Classify(in)
		assert.NotEqual(t, Junk, result.Classification)
	})
}

func TestClassifyTestMarkers(t *testing.T) {
	in := healthyInput()
	in.User.Email = "test@example.com"

	result := Classify(in)
	assert.Equal(t, Junk, result.Classification)
	assert.Contains(t, result.Reasons, "name or email contains a test marker")
}

func TestClassifyJunkIsTerminal(t *testing.T) {
	// A test-marker junk account that also matches an exception rule stays
	// junk; the exception group never overrides it.
	in := &Input{
		User: datastore.User{
			ID:                "legacy-3",
			Email:             "test@example.com",
			Username:          "testuser",
			Status:            datastore.StatusActive,
			DeletionRequested: true,
			CreatedAt:         auditNow.Add(-24 * time.Hour),
		},
		Now: auditNow,
	}

	result := Classify(in)
	assert.Equal(t, Junk, result.Classification)
}

func TestClassifyNotAdvertising(t *testing.T) {
	t.Run("active account without studio or subscription", func(t *testing.T) {
		in := healthyInput()
		in.Studio = nil
		in.HasSubscription = false

		result := Classify(in)
		assert.Equal(t, NotAdvertising, result.Classification)
		assert.Equal(t, actionContactSales, result.RecommendedAction)
	})

	t.Run("unpublished invisible studio without subscription", func(t *testing.T) {
		in := healthyInput()
		in.HasSubscription = false
		in.Studio.Status = datastore.StudioStatusDraft
		in.Studio.IsVisible = false

		result := Classify(in)
		assert.Equal(t, NotAdvertising, result.Classification)
	})

	t.Run("subscription keeps it healthy", func(t *testing.T) {
		in := healthyInput()
		in.Studio.Status = datastore.StudioStatusDraft
		in.Studio.IsVisible = false

		result := Classify(in)
		assert.Equal(t, Healthy, result.Classification)
	})
}

func TestClassifyNeedsUpdateMissingFields(t *testing.T) {
	in := healthyInput()
	in.Studio.City = ""
	in.Studio.Phone = ""
	in.Studio.Address = "" // keep the geodata exception out of this test
	in.Studio.Latitude = nil
	in.Studio.Longitude = nil

	result := Classify(in)
	assert.Equal(t, NeedsUpdate, result.Classification)
	assert.Equal(t, []string{"missing profile fields: city, coordinates, phone"}, result.Reasons)
	assert.Equal(t, actionRequestUpdate, result.RecommendedAction)
}

func TestClassifyNeedsUpdateStale(t *testing.T) {
	in := healthyInput()
	in.Studio.UpdatedAt = auditNow.Add(-400 * 24 * time.Hour)

	result := Classify(in)
	assert.Equal(t, NeedsUpdate, result.Classification)
	assert.Contains(t, result.Reasons, "profile not updated in over 365 days")
}

func TestClassifyNeedsUpdateBadURLs(t *testing.T) {
	in := healthyInput()
	in.Studio.FacebookURL = "facebook.com/janedoe"
	in.Studio.TwitterURL = "https://twitter.com/janedoe"

	result := Classify(in)
	assert.Equal(t, NeedsUpdate, result.Classification)
	assert.Contains(t, result.Reasons, "facebook URL missing scheme")
	assert.Contains(t, result.Reasons, "deprecated twitter.com domain still in use")
}

func TestClassifyNeedsUpdateRulesAccumulate(t *testing.T) {
	// Sibling NEEDS_UPDATE rules fire independently; an earlier one setting
	// the label does not suppress the later ones.
	in := healthyInput()
	in.Studio.Phone = ""
	in.Studio.UpdatedAt = auditNow.Add(-400 * 24 * time.Hour)

	result := Classify(in)
	assert.Equal(t, NeedsUpdate, result.Classification)
	assert.Len(t, result.Reasons, 2)
}

func TestClassifyExceptionOverridesNeedsUpdate(t *testing.T) {
	in := healthyInput()
	in.Studio.City = ""

	result := Classify(in)
	assert.Equal(t, Exception, result.Classification)
	assert.Contains(t, result.Reasons, "studio has coordinates but no city")
	// Reasons from the overridden NEEDS_UPDATE rule are kept.
	assert.Contains(t, result.Reasons, "missing profile fields: city")
	assert.Equal(t, "coords_no_city", result.Metadata["geodata_issue"])
	assert.Equal(t, actionInvestigate, result.RecommendedAction)
}

func TestClassifyExceptionPlaceWithoutCoords(t *testing.T) {
	in := healthyInput()
	in.Studio.Latitude = nil
	in.Studio.Longitude = nil

	result := Classify(in)
	assert.Equal(t, Exception, result.Classification)
	assert.Equal(t, "place_no_coords", result.Metadata["geodata_issue"])
}

func TestClassifyExceptionActivityWithoutProfile(t *testing.T) {
	in := healthyInput()
	in.Studio = nil
	in.HasSubscription = false
	in.Activity.Payments = 2

	result := Classify(in)
	assert.Equal(t, Exception, result.Classification)
	assert.Contains(t, result.Reasons, "payment or subscription activity but no studio profile")
}

func TestClassifyExceptionStuckDeletion(t *testing.T) {
	in := healthyInput()
	in.User.DeletionRequested = true

	result := Classify(in)
	assert.Equal(t, Exception, result.Classification)
	assert.Contains(t, result.Reasons, "deletion requested but account still shows active")
}

func TestClassifySuspiciousNameFlag(t *testing.T) {
	in := healthyInput()
	in.User.Username = "ab"

	result := Classify(in)
	// Metadata flag only, no classification change.
	assert.Equal(t, Healthy, result.Classification)
	assert.Equal(t, "true", result.Metadata["suspicious_name"])
}
