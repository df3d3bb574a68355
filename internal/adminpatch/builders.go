// Package adminpatch translates the admin back-office's wide, legacy-flavored
// patch requests into normalized update sets for the account, studio and
// profile aggregates.
package adminpatch

import "strings"

// Patch is the loosely-typed flat request body the admin UI submits. Keys
// use the legacy naming; values may be strings, bools or numbers.
type Patch map[string]any

// MaxCustomConnections caps the custom connection method labels.
const MaxCustomConnections = 2

// TruthyFlag normalizes the legacy true encodings: the string "1", the
// boolean true and the number 1 are true; everything else, including
// absence, is false.
func TruthyFlag(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "1"
	case int:
		return v == 1
	case int64:
		return v == 1
	case float64:
		return v == 1
	}
	return false
}

func (p Patch) stringValue(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func (p Patch) has(key string) bool {
	_, ok := p[key]
	return ok
}

// AccountUpdate builds the users-table update set.
func AccountUpdate(patch Patch) map[string]any {
	updates := make(map[string]any)
	for patchKey, column := range map[string]string{
		"email":        "email",
		"username":     "username",
		"display_name": "display_name",
		"status":       "status",
	} {
		if v, ok := patch.stringValue(patchKey); ok {
			updates[column] = v
		}
	}
	if patch.has("email_verified") {
		updates["email_verified"] = TruthyFlag(patch["email_verified"])
	}
	return updates
}

// StudioUpdate builds the studio core update set: identity, location,
// socials and flags. The renamed twitter field dual-writes: a single
// "twitter" input lands in both the deprecated twitter_url column and its
// x_url successor so the pair can never drift apart.
func StudioUpdate(patch Patch) map[string]any {
	updates := make(map[string]any)

	for patchKey, column := range map[string]string{
		"studio_name": "name",
		"url":         "website_url",
		"location":    "address",
		"loc1":        "city",
		"loc4":        "country",
		"facebook":    "facebook_url",
		"linkedin":    "linked_in_url",
		"instagram":   "instagram_url",
		"youtube":     "you_tube_url",
		"vimeo":       "vimeo_url",
		"soundcloud":  "soundcloud_url",
	} {
		if v, ok := patch.stringValue(patchKey); ok {
			updates[column] = v
		}
	}

	if v, ok := patch.stringValue("twitter"); ok {
		updates["twitter_url"] = v
		updates["x_url"] = v
	}

	if patch.has("featured") {
		featured := TruthyFlag(patch["featured"])
		updates["featured"] = featured
		if !featured {
			// Unsetting featured clears its expiry in the same update.
			updates["featured_until"] = nil
		}
	}

	if labels, ok := patch["custom_connections"]; ok {
		c1, c2 := customConnections(labels)
		updates["custom_connection1"] = c1
		updates["custom_connection2"] = c2
	}

	return updates
}

// ProfileUpdate builds the descriptive profile update set: texts, rates and
// equipment.
func ProfileUpdate(patch Patch) map[string]any {
	updates := make(map[string]any)
	for patchKey, column := range map[string]string{
		"about":      "about",
		"shortabout": "short_about",
		"phone":      "phone",
		"rates1":     "rate_tier1",
		"rates2":     "rate_tier2",
		"rates3":     "rate_tier3",
		"equipment":  "equipment",
	} {
		if v, ok := patch.stringValue(patchKey); ok {
			updates[column] = v
		}
	}
	return updates
}

// customConnections filters blank labels and hard-caps the list.
func customConnections(value any) (string, string) {
	raw, ok := value.([]any)
	if !ok {
		if typed, okTyped := value.([]string); okTyped {
			raw = make([]any, len(typed))
			for i, s := range typed {
				raw[i] = s
			}
		}
	}

	var labels []string
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		labels = append(labels, s)
		if len(labels) == MaxCustomConnections {
			break
		}
	}

	var c1, c2 string
	if len(labels) > 0 {
		c1 = labels[0]
	}
	if len(labels) > 1 {
		c2 = labels[1]
	}
	return c1, c2
}
