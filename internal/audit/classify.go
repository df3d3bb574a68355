// Package audit classifies every account into a small fixed label set with a
// completeness score, persists the findings as a derived view, and exports
// them for operator review.
package audit

import (
	"time"

	"github.com/mattduff36/vostudiofinder-sub004/internal/datastore"
)

// Classification is one of the fixed audit labels.
type Classification string

const (
	Healthy        Classification = "HEALTHY"
	Junk           Classification = "JUNK"
	NotAdvertising Classification = "NOT_ADVERTISING"
	NeedsUpdate    Classification = "NEEDS_UPDATE"
	Exception      Classification = "EXCEPTION"
)

// Policy holds the audit thresholds. The defaults are the historical values;
// audit exports and tests depend on them, so they are lifted into one place
// rather than scattered, but unchanged.
type Policy struct {
	JunkAgeStrong     time.Duration // no-profile accounts older than this are a strong junk signal
	JunkAgeWeak       time.Duration // ... older than this, a weak junk signal
	StaleProfile      time.Duration // profiles untouched longer than this need an update
	MinPlausibleName  int           // names shorter than this set the suspicious_name flag
}

// DefaultPolicy returns the historical thresholds.
func DefaultPolicy() Policy {
	return Policy{
		JunkAgeStrong:    30 * 24 * time.Hour,
		JunkAgeWeak:      7 * 24 * time.Hour,
		StaleProfile:     365 * 24 * time.Hour,
		MinPlausibleName: 3,
	}
}

// Input is the immutable snapshot one classification runs against: the user,
// its studio profile (nil when none), and the related activity signals.
type Input struct {
	User            datastore.User
	Studio          *datastore.Studio
	Activity        datastore.ActivityCounts
	HasSubscription bool
	ServiceCount    int
	ImageCount      int
	ConnectionCount int64
	Now             time.Time
	Policy          Policy
}

// Result is one classification outcome.
type Result struct {
	Classification    Classification
	Reasons           []string
	CompletenessScore int
	RecommendedAction string
	Metadata          map[string]string
}

// Effect is the optional output of one rule: a classification to assume, a
// reason to record, an action to recommend, metadata flags to set. Any field
// may be left zero.
type Effect struct {
	Classification    Classification
	Reasons           []string
	RecommendedAction string
	Metadata          map[string]string
}

// Rule is one ordered classification rule. Evaluate receives the input
// snapshot and the classification accumulated so far; precedence guards
// (for example "only while still HEALTHY") belong to the rule itself.
type Rule struct {
	Name     string
	Evaluate func(in *Input, current Classification) *Effect
}

// Classify folds the rule list left to right over the input. Later rules may
// overwrite the classification of earlier ones; reasons accumulate across
// all triggered rules even when a later rule changes the final label. The
// recommended action is last-setter-wins.
func Classify(in *Input) Result {
	if in.Policy == (Policy{}) {
		in.Policy = DefaultPolicy()
	}

	result := Result{
		Classification: Healthy,
		Metadata:       make(map[string]string),
	}

	for _, rule := range rules {
		effect := rule.Evaluate(in, result.Classification)
		if effect == nil {
			continue
		}
		if effect.Classification != "" {
			result.Classification = effect.Classification
		}
		result.Reasons = append(result.Reasons, effect.Reasons...)
		if effect.RecommendedAction != "" {
			result.RecommendedAction = effect.RecommendedAction
		}
		for k, v := range effect.Metadata {
			result.Metadata[k] = v
		}
	}

	result.CompletenessScore = CompletenessScore(in)
	return result
}
