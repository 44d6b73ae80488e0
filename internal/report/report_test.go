package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/traxovo/fleetrec/internal/model"
)

func sampleReport() *model.Report {
	r := &model.Report{
		Date:   "2024-05-17",
		Policy: "schedule",
		Drivers: []model.ClassificationRecord{
			{
				Driver:           "jane doe",
				DisplayName:      "Doe, Jane",
				AssetIDs:         []string{"EX-210"},
				JobSite:          "Hillcrest",
				Status:           model.StatusOnTime,
				Reason:           "within scheduled shift window",
				KeyOn:            "06:58",
				KeyOff:           "17:31",
				InDrivingHistory: true,
			},
			{
				Driver:      "john smith",
				DisplayName: "Smith, John",
				AssetIDs:    []string{"PT-125", "PT-126"},
				JobSite:     "Riverside",
				Status:      model.StatusNotOnJob,
				Reason:      "no key-on recorded",
			},
		},
		Matches: []model.MatchRecord{
			{HistoryName: "doe jane", AssetListName: "jane doe", Type: model.MatchFuzzy, Score: 100},
		},
	}
	r.Summary.FuzzyMatches = 1
	r.Tally()
	return r
}

func TestForFormats(t *testing.T) {
	writers, err := ForFormats([]string{"json", "CSV", "xlsx", "pdf"})
	require.NoError(t, err)
	assert.Len(t, writers, 4)

	_, err = ForFormats([]string{"json", "docx"})
	assert.Error(t, err)
}

func TestJSONWriter(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, (&JSONWriter{}).Write(ctx, sampleReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "2024-05-17", decoded["date"])
	assert.Equal(t, "schedule", decoded["policy"])
	assert.Len(t, decoded["drivers"], 2)

	summary, ok := decoded["summary"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 2, summary["total_drivers"], 0)

	// 2-space indent.
	assert.Contains(t, string(data), "\n  \"date\"")
}

func TestCSVWriter(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "report.csv")

	require.NoError(t, (&CSVWriter{}).Write(ctx, sampleReport(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "jane doe", rows[1][0])
	assert.Equal(t, "PT-125;PT-126", rows[2][2])
	assert.Equal(t, string(model.StatusNotOnJob), rows[2][4])
}

func TestXLSXWriter(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, (&XLSXWriter{}).Write(ctx, sampleReport(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	for _, want := range []string{"On Time", "Late", "Early End", "Not On Job", "Definitions"} {
		assert.Contains(t, sheets, want)
	}
	assert.NotContains(t, sheets, "Sheet1")

	onTime, err := f.GetRows("On Time")
	require.NoError(t, err)
	require.Len(t, onTime, 2)
	assert.Equal(t, "jane doe", onTime[1][0])

	notOnJob, err := f.GetRows("Not On Job")
	require.NoError(t, err)
	require.Len(t, notOnJob, 2)
	assert.Equal(t, "john smith", notOnJob[1][0])

	defs, err := f.GetRows("Definitions")
	require.NoError(t, err)
	assert.Equal(t, "Policy: schedule", defs[0][0])
}

func TestPDFWriter(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "report.pdf")

	require.NoError(t, (&PDFWriter{}).Write(ctx, sampleReport(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(500))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestDefinitionsCoverBothPolicies(t *testing.T) {
	assert.NotEmpty(t, definitions("presence"))
	assert.NotEmpty(t, definitions("schedule"))
	assert.NotEmpty(t, definitions("other"))
}
