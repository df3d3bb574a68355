// Package enrich generates field-level change suggestions for incomplete
// studio profiles from the studio's own website and social pages. Suggestions
// are append-only and never mutate the profile; applying one is a separate
// operator action.
package enrich

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattduff36/vostudiofinder-sub004/internal/datastore"
	"github.com/mattduff36/vostudiofinder-sub004/internal/errors"
	"github.com/mattduff36/vostudiofinder-sub004/internal/httpclient"
	"github.com/mattduff36/vostudiofinder-sub004/internal/logging"
)

// Package-level logger specific to the enrichment service.
var (
	logger      *slog.Logger
	closeLogger func() error
)

func init() {
	var err error
	logFilePath := filepath.Join(logging.Dir(), "enrich.log")
	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "enrich", slog.LevelDebug)
	if err != nil {
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
		logger = slog.New(fbHandler).With("service", "enrich")
		closeLogger = func() error { return nil }
	}
}

// Confidence labels attached to suggestions.
const (
	ConfidenceHigh   = "HIGH"
	ConfidenceMedium = "MEDIUM"
	ConfidenceLow    = "LOW"
)

// Evidence type tags.
const (
	EvidenceWebsite       = "website"
	EvidenceNormalization = "normalization"
)

// maxBodyBytes bounds how much of a fetched page is read.
const maxBodyBytes = 2 << 20

// socialFieldSpec binds one studio social column to its platform and
// expected domain.
type socialFieldSpec struct {
	Platform string
	Field    string
	Domain   string
	Get      func(*datastore.Studio) string
}

var socialFieldSpecs = []socialFieldSpec{
	{"facebook", "facebook_url", "facebook.com", func(s *datastore.Studio) string { return s.FacebookURL }},
	{"x", "x_url", "x.com", func(s *datastore.Studio) string { return s.XURL }},
	{"linkedin", "linkedin_url", "linkedin.com", func(s *datastore.Studio) string { return s.LinkedInURL }},
	{"instagram", "instagram_url", "instagram.com", func(s *datastore.Studio) string { return s.InstagramURL }},
	{"youtube", "youtube_url", "youtube.com", func(s *datastore.Studio) string { return s.YouTubeURL }},
	{"vimeo", "vimeo_url", "vimeo.com", func(s *datastore.Studio) string { return s.VimeoURL }},
	{"soundcloud", "soundcloud_url", "soundcloud.com", func(s *datastore.Studio) string { return s.SoundcloudURL }},
}

// Options filter and control one enrichment run.
type Options struct {
	UserID         string
	Classification string // defaults to NEEDS_UPDATE
	DryRun         bool
	Limit          int
	Out            io.Writer
}

// Engine runs the enrichment strategies over classified records.
type Engine struct {
	store   datastore.Interface
	client  *httpclient.Client
	delay   time.Duration
	timeout time.Duration
	sleep   func(time.Duration)
}

// NewEngine creates an engine over an opened store and HTTP client.
func NewEngine(store datastore.Interface, client *httpclient.Client, delay, timeout time.Duration) *Engine {
	return &Engine{
		store:   store,
		client:  client,
		delay:   delay,
		timeout: timeout,
		sleep:   time.Sleep,
	}
}

// Run enriches every finding matching the options. Records are processed
// strictly sequentially with a fixed delay in between; this is politeness
// toward third-party sites, not a bottleneck to optimize away.
func (e *Engine) Run(ctx context.Context, opts Options) error {
	classification := opts.Classification
	if classification == "" {
		classification = "NEEDS_UPDATE"
	}

	findings, err := e.store.ListFindings()
	if err != nil {
		return err
	}

	processed := 0
	total := 0
	for i := range findings {
		finding := &findings[i]
		if opts.UserID != "" && finding.UserID != opts.UserID {
			continue
		}
		if finding.Classification != classification {
			continue
		}
		if opts.Limit > 0 && processed >= opts.Limit {
			break
		}

		if processed > 0 {
			e.sleep(e.delay)
		}
		processed++

		suggestions, err := e.enrichFinding(ctx, finding)
		if err != nil {
			logger.Error("enrichment failed for user", "user_id", finding.UserID, "error", err)
			continue
		}
		total += len(suggestions)

		if opts.Out != nil {
			fmt.Fprintf(opts.Out, "%s: %d suggestions\n", finding.UserID, len(suggestions))
		}
		if opts.DryRun || len(suggestions) == 0 {
			continue
		}
		if err := e.store.AppendSuggestions(suggestions); err != nil {
			logger.Error("failed to persist suggestions", "user_id", finding.UserID, "error", err)
		}
	}

	logger.Info("enrichment run finished", "records", processed, "suggestions", total, "dry_run", opts.DryRun)
	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Enriched %d records, %d suggestions\n", processed, total)
	}
	return nil
}

func (e *Engine) enrichFinding(ctx context.Context, finding *datastore.AuditFinding) ([]datastore.EnrichmentSuggestion, error) {
	user, err := e.store.GetUser(finding.UserID)
	if err != nil {
		return nil, err
	}
	studio, err := e.store.StudioByOwner(user.ID)
	if errors.Is(err, datastore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e.Enrich(ctx, finding, studio), nil
}

// Enrich runs every strategy for one record and concatenates their outputs.
// Strategies are independent; their outputs are deduplicated only against
// existing field values, not against each other. A nil studio yields nothing.
func (e *Engine) Enrich(ctx context.Context, finding *datastore.AuditFinding, studio *datastore.Studio) []datastore.EnrichmentSuggestion {
	if studio == nil {
		return nil
	}

	var suggestions []datastore.EnrichmentSuggestion

	suggestions = append(suggestions, e.websiteStrategy(ctx, finding, studio)...)
	suggestions = append(suggestions, normalizationStrategy(finding, studio)...)
	e.inspectSocials(ctx, studio)
	observeGeocodeGap(studio)

	return suggestions
}

// fetch retrieves one page with the engine's bounded timeout. Any failure
// degrades to "no signals from this source"; the caller logs and continues.
func (e *Engine) fetch(ctx context.Context, url string) (string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.Get(fetchCtx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", errors.Newf("unexpected status %d", resp.StatusCode).
			Category(errors.CategoryHTTP).
			Component("enrich").
			Context("url", url).
			Build()
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// websiteStrategy fetches the studio's own website and suggests values for
// empty fields only. Every suggestion carries HIGH confidence and the
// website as evidence.
func (e *Engine) websiteStrategy(ctx context.Context, finding *datastore.AuditFinding, studio *datastore.Studio) []datastore.EnrichmentSuggestion {
	website := strings.TrimSpace(studio.WebsiteURL)
	if website == "" {
		return nil
	}

	html, err := e.fetch(ctx, website)
	if err != nil {
		logger.Warn("website fetch failed", "studio_id", studio.ID, "url", website, "error", err)
		return nil
	}

	var suggestions []datastore.EnrichmentSuggestion
	suggest := func(field, current, proposed string) {
		suggestions = append(suggestions, datastore.EnrichmentSuggestion{
			FindingID:     finding.ID,
			UserID:        finding.UserID,
			StudioID:      studio.ID,
			Field:         field,
			CurrentValue:  current,
			ProposedValue: proposed,
			Confidence:    ConfidenceHigh,
			EvidenceURL:   website,
			EvidenceType:  EvidenceWebsite,
			Status:        "PENDING",
		})
	}

	info, hasInfo := ExtractJSONLD(html)
	og := ExtractOpenGraph(html)

	phone := ""
	if hasInfo {
		phone = info.Phone
	}
	if phone == "" {
		phone = ExtractPhone(html)
	}
	if phone != "" && strings.TrimSpace(studio.Phone) == "" {
		suggest("phone", studio.Phone, phone)
	}

	city := ""
	if hasInfo {
		city = info.City
	}
	if city == "" {
		city = og["locality"]
	}
	if city != "" && strings.TrimSpace(studio.City) == "" {
		suggest("city", studio.City, city)
	}

	if mailto := ExtractMailto(html); mailto != "" {
		// No matching target field; recorded for operator visibility only.
		logger.Debug("contact email discovered", "studio_id", studio.ID, "email", mailto)
	}

	links := ExtractSocialLinks(html)
	for _, spec := range socialFieldSpecs {
		link, found := links[spec.Platform]
		if !found || strings.TrimSpace(spec.Get(studio)) != "" {
			continue
		}
		suggest(spec.Field, "", link)
	}

	return suggestions
}

// normalizationStrategy is the single exception to the never-overwrite rule:
// it corrects already-populated but malformed URL values. The legacy domain
// rename instead targets the renamed column, and only when that column is
// empty; any conflict is left for manual resolution.
func normalizationStrategy(finding *datastore.AuditFinding, studio *datastore.Studio) []datastore.EnrichmentSuggestion {
	type urlField struct {
		Field string
		Value string
	}
	fields := []urlField{
		{"website_url", studio.WebsiteURL},
		{"facebook_url", studio.FacebookURL},
		{"twitter_url", studio.TwitterURL},
		{"x_url", studio.XURL},
		{"linkedin_url", studio.LinkedInURL},
		{"instagram_url", studio.InstagramURL},
		{"youtube_url", studio.YouTubeURL},
		{"vimeo_url", studio.VimeoURL},
		{"soundcloud_url", studio.SoundcloudURL},
	}

	var suggestions []datastore.EnrichmentSuggestion
	suggest := func(field, current, proposed string) {
		suggestions = append(suggestions, datastore.EnrichmentSuggestion{
			FindingID:     finding.ID,
			UserID:        finding.UserID,
			StudioID:      studio.ID,
			Field:         field,
			CurrentValue:  current,
			ProposedValue: proposed,
			Confidence:    ConfidenceHigh,
			EvidenceType:  EvidenceNormalization,
			Status:        "PENDING",
		})
	}

	for _, f := range fields {
		value := strings.TrimSpace(f.Value)
		if value == "" {
			continue
		}
		normalized, renamed := NormalizeURL(value)
		if renamed {
			if strings.TrimSpace(studio.XURL) == "" {
				suggest("x_url", "", normalized)
			}
			continue
		}
		if normalized != value {
			suggest(f.Field, value, normalized)
		}
	}

	return suggestions
}

// inspectSocials fetches each populated social URL that matches its expected
// domain and logs the page title. Manual-review signal only; this strategy
// deliberately produces no suggestions.
func (e *Engine) inspectSocials(ctx context.Context, studio *datastore.Studio) {
	for _, spec := range socialFieldSpecs {
		value := strings.TrimSpace(spec.Get(studio))
		if value == "" || !strings.Contains(strings.ToLower(value), spec.Domain) {
			continue
		}
		html, err := e.fetch(ctx, value)
		if err != nil {
			logger.Warn("social page fetch failed", "studio_id", studio.ID, "platform", spec.Platform, "error", err)
			continue
		}
		if title := ExtractTitle(html); title != "" {
			logger.Info("social page inspected", "studio_id", studio.ID, "platform", spec.Platform, "title", title)
		}
	}
}

// observeGeocodeGap logs missing-geodata records without creating a
// suggestion: a geocoding placeholder would corrupt real address data, so
// the gap is only surfaced.
func observeGeocodeGap(studio *datastore.Studio) {
	hasPlace := strings.TrimSpace(studio.City) != "" || strings.TrimSpace(studio.Address) != ""
	hasCoords := studio.Latitude != nil && studio.Longitude != nil
	if hasPlace && !hasCoords {
		logger.Info("geocode gap detected, requires geocoding API", "studio_id", studio.ID)
	}
}
