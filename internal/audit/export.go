package audit

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattduff36/vostudiofinder-sub004/internal/datastore"
	"github.com/mattduff36/vostudiofinder-sub004/internal/errors"
)

// exportTimestampLayout keeps export filenames sortable and filesystem-safe.
const exportTimestampLayout = "2006-01-02T15-04-05"

// ExportRecord is the flattened finding shape written to the JSON export.
type ExportRecord struct {
	UserID            string            `json:"userId"`
	Email             string            `json:"email"`
	Username          string            `json:"username"`
	Classification    string            `json:"classification"`
	Reasons           []string          `json:"reasons"`
	CompletenessScore int               `json:"completenessScore"`
	RecommendedAction string            `json:"recommendedAction"`
	Metadata          map[string]string `json:"metadata"`
}

func toExportRecord(f *datastore.AuditFinding) ExportRecord {
	record := ExportRecord{
		UserID:            f.UserID,
		Email:             f.Email,
		Username:          f.Username,
		Classification:    f.Classification,
		CompletenessScore: f.CompletenessScore,
		RecommendedAction: f.RecommendedAction,
	}
	// Stored JSON columns are written by this package; decode failures mean
	// hand-edited rows, exported as empty rather than aborting the file.
	_ = json.Unmarshal([]byte(f.ReasonsJSON), &record.Reasons)
	_ = json.Unmarshal([]byte(f.MetadataJSON), &record.Metadata)
	return record
}

// export writes the timestamped JSON and CSV artifacts. Dry runs never reach
// this point.
func (r *Runner) export(findings []datastore.AuditFinding, opts RunOptions) error {
	if opts.DryRun {
		return nil
	}
	if err := os.MkdirAll(r.exportDir, 0o755); err != nil {
		return errors.New(err).
			Category(errors.CategoryExport).
			Component("audit").
			Context("dir", r.exportDir).
			Build()
	}

	records := make([]ExportRecord, 0, len(findings))
	for i := range findings {
		records = append(records, toExportRecord(&findings[i]))
	}

	stamp := r.now().Format(exportTimestampLayout)
	jsonPath := filepath.Join(r.exportDir, fmt.Sprintf("audit-findings-%s.json", stamp))
	csvPath := filepath.Join(r.exportDir, fmt.Sprintf("audit-findings-%s.csv", stamp))

	if err := writeJSON(jsonPath, records); err != nil {
		return err
	}
	if err := writeCSV(csvPath, records); err != nil {
		return err
	}

	logger.Info("findings exported", "json", jsonPath, "csv", csvPath, "count", len(records))
	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Exported %d findings to %s and %s\n", len(records), jsonPath, csvPath)
	}
	return nil
}

func writeJSON(path string, records []ExportRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return exportErr(err, path)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return exportErr(err, path)
	}
	return nil
}

// writeCSV flattens each record: reasons joined with "; ", metadata
// JSON-stringified.
func writeCSV(path string, records []ExportRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return exportErr(err, path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"user_id", "email", "username", "classification", "completeness_score", "recommended_action", "reasons", "metadata"}
	if err := w.Write(header); err != nil {
		return exportErr(err, path)
	}
	for i := range records {
		rec := &records[i]
		metadata, err := json.Marshal(rec.Metadata)
		if err != nil {
			return exportErr(err, path)
		}
		row := []string{
			rec.UserID,
			rec.Email,
			rec.Username,
			rec.Classification,
			strconv.Itoa(rec.CompletenessScore),
			rec.RecommendedAction,
			strings.Join(rec.Reasons, "; "),
			string(metadata),
		}
		if err := w.Write(row); err != nil {
			return exportErr(err, path)
		}
	}
	w.Flush()
	return w.Error()
}

func exportErr(err error, path string) error {
	return errors.New(err).
		Category(errors.CategoryExport).
		Component("audit").
		Context("path", path).
		Build()
}
