package audit

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattduff36/vostudiofinder-sub004/internal/conf"
	"github.com/mattduff36/vostudiofinder-sub004/internal/datastore"
)

func newRunnerUnderTest(t *testing.T) (*Runner, datastore.Interface, string) {
	t.Helper()
	store, err := datastore.New(&conf.DatabaseSettings{Type: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.Open())
	t.Cleanup(func() { _ = store.Close() })

	exportDir := t.TempDir()
	runner := NewRunner(store, exportDir)
	runner.now = func() time.Time { return auditNow }
	return runner, store, exportDir
}

func seedAccounts(t *testing.T, store datastore.Interface) {
	t.Helper()

	// A complete, subscribed studio owner.
	require.NoError(t, store.CreateUser(&datastore.User{
		ID:            "legacy-1",
		Email:         "jane@example.com",
		Username:      "janedoe",
		DisplayName:   "Jane Doe",
		AvatarURL:     "https://media.example/1.jpg",
		Status:        datastore.StatusActive,
		EmailVerified: true,
		CreatedAt:     auditNow.Add(-400 * 24 * time.Hour),
	}))
	studio := completeStudio()
	require.NoError(t, store.CreateStudio(studio))
	require.NoError(t, store.CreateStudioService(&datastore.StudioService{StudioID: studio.ID, Service: datastore.ServiceZoom}))

	ds := store.(*datastore.SQLiteStore)
	require.NoError(t, ds.DB.Create(&datastore.Subscription{UserID: "legacy-1", Status: "ACTIVE"}).Error)

	// A dormant signup past the strong junk threshold.
	require.NoError(t, store.CreateUser(&datastore.User{
		ID:        "legacy-2",
		Email:     "dormant@example.com",
		Username:  "dormant",
		Status:    datastore.StatusPending,
		CreatedAt: auditNow.Add(-40 * 24 * time.Hour),
	}))
}

func TestRunnerRun(t *testing.T) {
	runner, store, exportDir := newRunnerUnderTest(t)
	seedAccounts(t, store)

	var out bytes.Buffer
	require.NoError(t, runner.Run(RunOptions{Out: &out}))

	findings, err := store.ListFindings()
	require.NoError(t, err)
	require.Len(t, findings, 2)

	byUser := make(map[string]datastore.AuditFinding)
	for _, f := range findings {
		byUser[f.UserID] = f
	}

	jane := byUser["legacy-1"]
	assert.Equal(t, "HEALTHY", jane.Classification)
	assert.NotZero(t, jane.CompletenessScore)

	dormant := byUser["legacy-2"]
	assert.Equal(t, "JUNK", dormant.Classification)
	var reasons []string
	require.NoError(t, json.Unmarshal([]byte(dormant.ReasonsJSON), &reasons))
	assert.Contains(t, reasons, "no studio profile, no related activity, account older than 30 days")

	// Both findings carry the same run id.
	assert.Equal(t, jane.RunID, dormant.RunID)
	assert.NotEmpty(t, jane.RunID)

	assert.Contains(t, out.String(), "Audited 2 accounts")

	// Export artifacts exist and agree with the stored findings.
	jsonPath := filepath.Join(exportDir, "audit-findings-"+auditNow.Format(exportTimestampLayout)+".json")
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var records []ExportRecord
	require.NoError(t, json.Unmarshal(data, &records))
	assert.Len(t, records, 2)

	csvPath := filepath.Join(exportDir, "audit-findings-"+auditNow.Format(exportTimestampLayout)+".csv")
	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per finding")
	assert.Equal(t, "user_id", rows[0][0])
}

func TestRunnerDryRun(t *testing.T) {
	runner, store, exportDir := newRunnerUnderTest(t)
	seedAccounts(t, store)

	var out bytes.Buffer
	require.NoError(t, runner.Run(RunOptions{DryRun: true, Out: &out}))

	findings, err := store.ListFindings()
	require.NoError(t, err)
	assert.Empty(t, findings, "dry run must not persist findings")

	entries, err := os.ReadDir(exportDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "dry run must not write export files")

	assert.Contains(t, out.String(), "Audited 2 accounts")
}

func TestRunnerExportOnly(t *testing.T) {
	runner, store, exportDir := newRunnerUnderTest(t)

	stored := []datastore.AuditFinding{{
		UserID:         "legacy-9",
		Classification: "NEEDS_UPDATE",
		ReasonsJSON:    `["missing profile fields: phone"]`,
		MetadataJSON:   `{}`,
	}}
	require.NoError(t, store.ReplaceFindings("old-run", stored))

	require.NoError(t, runner.Run(RunOptions{ExportOnly: true}))

	jsonPath := filepath.Join(exportDir, "audit-findings-"+auditNow.Format(exportTimestampLayout)+".json")
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var records []ExportRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "legacy-9", records[0].UserID)
	assert.Equal(t, []string{"missing profile fields: phone"}, records[0].Reasons)

	// Export-only must not recompute: the stored finding survives untouched.
	finding, err := store.FindingForUser("legacy-9")
	require.NoError(t, err)
	assert.Equal(t, "old-run", finding.RunID)
}
