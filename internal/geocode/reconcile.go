package geocode

import (
	"context"
	"math"
	"strings"

	"github.com/mattduff36/vostudiofinder-sub004/internal/datastore"
)

// coordEpsilon is the float tolerance for deciding whether an incoming
// coordinate pair actually differs from the stored one.
const coordEpsilon = 1e-6

// Update is the address-relevant slice of an incoming partial studio update.
// Nil means the caller did not supply the field.
type Update struct {
	Address   *string
	City      *string
	Country   *string
	Latitude  *float64
	Longitude *float64
}

// Outcome is what Reconcile decided: whether a lookup ran and which columns
// to merge into the persisted update. Latitude and longitude may be present
// with nil values, meaning "clear them".
type Outcome struct {
	Geocoded bool
	Set      map[string]any
}

func coordsDiffer(a, b float64) bool {
	return math.Abs(a-b) > coordEpsilon
}

// manualOverride reports whether the update carries an explicit coordinate
// pair that must suppress geocoding: both values supplied, and either the
// studio had no coordinates yet (first-time counts as an override) or the
// new pair differs from the stored one beyond the epsilon.
func manualOverride(existing *datastore.Studio, update *Update) bool {
	if update.Latitude == nil || update.Longitude == nil {
		return false
	}
	if existing.Latitude == nil || existing.Longitude == nil {
		return true
	}
	return coordsDiffer(*update.Latitude, *existing.Latitude) ||
		coordsDiffer(*update.Longitude, *existing.Longitude)
}

// Reconcile applies the geocoding decision table to one studio update.
// Ordering is load-bearing: address-change detection runs before the
// empty-coordinate backfill check.
//
//   - no address in the update: no-op
//   - address changed + explicit differing/first-time coordinates: manual
//     override, geocoding skipped, values stored as given
//   - address changed otherwise: geocode; on success set coordinates and
//     backfill city/country only where the caller did not set them; on
//     failure clear coordinates so they never point at the old address
//   - address unchanged but coordinates currently empty and none supplied:
//     geocode the existing address with the same handling
//   - otherwise: no-op
func Reconcile(ctx context.Context, existing *datastore.Studio, update *Update, geocoder Geocoder) Outcome {
	if update.Address == nil {
		return Outcome{}
	}

	newAddress := strings.TrimSpace(*update.Address)
	addressChanged := newAddress != strings.TrimSpace(existing.Address)

	if addressChanged {
		if manualOverride(existing, update) {
			logger.Debug("manual coordinate override, skipping geocode", "studio_id", existing.ID)
			return Outcome{}
		}
		return geocodeInto(ctx, existing, update, newAddress, geocoder)
	}

	coordsEmpty := existing.Latitude == nil || existing.Longitude == nil
	explicitCoords := update.Latitude != nil || update.Longitude != nil
	if coordsEmpty && !explicitCoords {
		return geocodeInto(ctx, existing, update, newAddress, geocoder)
	}

	return Outcome{}
}

// geocodeInto performs the lookup and builds the column set. Geocoder
// failure clears the coordinates: stale values pointing at an old address
// are worse than none.
func geocodeInto(ctx context.Context, existing *datastore.Studio, update *Update, address string, geocoder Geocoder) Outcome {
	set := make(map[string]any)

	result, err := geocoder.Geocode(ctx, address)
	if err != nil {
		logger.Warn("geocode failed, clearing coordinates", "studio_id", existing.ID, "error", err)
		set["latitude"] = nil
		set["longitude"] = nil
		return Outcome{Geocoded: true, Set: set}
	}

	set["latitude"] = result.Latitude
	set["longitude"] = result.Longitude
	if update.City == nil && result.City != "" {
		set["city"] = result.City
	}
	if update.Country == nil && result.Country != "" {
		set["country"] = result.Country
	}
	return Outcome{Geocoded: true, Set: set}
}
