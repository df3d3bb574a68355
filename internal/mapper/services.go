package mapper

import (
	"strings"

	"github.com/mattduff36/vostudiofinder-sub004/internal/datastore"
	"github.com/mattduff36/vostudiofinder-sub004/internal/legacy"
)

// serviceVocabulary maps compacted (lowercased, separators stripped)
// substrings to normalized service tags, in match order. "isdn" is a
// historical synonym for Source Connect in the legacy data.
var serviceVocabulary = []struct {
	substring string
	service   datastore.ServiceType
}{
	{"sourceconnect", datastore.ServiceSourceConnect},
	{"cleanfeed", datastore.ServiceCleanfeed},
	{"sessionlink", datastore.ServiceSessionLink},
	{"zoom", datastore.ServiceZoom},
	{"skype", datastore.ServiceSkype},
	{"teams", datastore.ServiceTeams},
	{"isdn", datastore.ServiceSourceConnect},
}

// compact lowercases a free-text connection label and strips the separators
// legacy users typed inconsistently ("Source Connect", "source-connect").
func compact(value string) string {
	value = strings.ToLower(value)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '.':
			return -1
		}
		return r
	}, value)
}

// matchService resolves one connection label to a service tag, if any.
func matchService(value string) (datastore.ServiceType, bool) {
	c := compact(value)
	for _, v := range serviceVocabulary {
		if strings.Contains(c, v.substring) {
			return v.service, true
		}
	}
	return "", false
}

// Services scans the numbered connection slots and the legacy ISDN flags and
// returns the deduplicated service tags for a studio, in first-seen order.
// Either sc or von being set force-adds SOURCE_CONNECT.
func Services(meta legacy.Bag) []datastore.ServiceType {
	var services []datastore.ServiceType
	seen := make(map[datastore.ServiceType]bool)

	add := func(s datastore.ServiceType) {
		if !seen[s] {
			seen[s] = true
			services = append(services, s)
		}
	}

	for _, value := range meta.ConnectionValues() {
		if service, ok := matchService(value); ok {
			add(service)
		}
	}

	if meta.Truthy(legacy.KeySourceConnect) || meta.Truthy(legacy.KeyVON) {
		add(datastore.ServiceSourceConnect)
	}

	return services
}
