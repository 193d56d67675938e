package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkravchenko/swotstat/internal/accumulator"
)

func emptyRecord(t *testing.T) *accumulator.Record {
	t.Helper()
	a := accumulator.New(nil)
	return a.Finalize()
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "full", OutcomeFull.String())
	assert.Equal(t, "json-only", OutcomeJSONOnly.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
}

func TestSynthesizer_Document(t *testing.T) {
	rec := emptyRecord(t)
	created := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	doc := NewSynthesizer(nil).Document(rec, Provenance{SourceID: "hromada_report", CreatedAt: created})

	assert.Equal(t, "2024-03-15T10:30:00Z", doc.Metadata.CreatedAt)
	assert.Equal(t, "hromada_report", doc.Metadata.SourceID)
	assert.Len(t, doc.Metadata.RecordCounts, 10)
	assert.Same(t, rec, doc.Statistics)
}

func TestSynthesizer_DocumentZeroTime(t *testing.T) {
	doc := NewSynthesizer(nil).Document(emptyRecord(t), Provenance{SourceID: "x"})
	assert.NotEmpty(t, doc.Metadata.CreatedAt)
}

func TestEncodeJSON_EmptyRecordKeepsAllCategories(t *testing.T) {
	doc := NewSynthesizer(nil).Document(emptyRecord(t), Provenance{SourceID: "s"})

	data, err := NewSynthesizer(nil).EncodeJSON(doc, false)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Contains(t, decoded, "metadata")
	require.Contains(t, decoded, "statistics")

	var stats map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(decoded["statistics"], &stats))
	for _, key := range []string{
		"fop_companies", "kved", "land_plots", "objects", "public_procurements",
		"migration", "cadastr_estate", "status_stats", "open_close", "vehicle",
	} {
		assert.Contains(t, stats, key)
	}

	// Absent substructures serialize as null, empty lists as [].
	assert.JSONEq(t, `null`, string(stats["cadastr_estate"]))
	assert.JSONEq(t,
		`{"kved_list": [], "kved_count": 0, "kved_statistic": []}`,
		string(stats["kved"]),
	)
}

func TestEncodeJSON_PreservesNullAggregates(t *testing.T) {
	doc := NewSynthesizer(nil).Document(emptyRecord(t), Provenance{SourceID: "s"})

	data, err := NewSynthesizer(nil).EncodeJSON(doc, false)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"migrationTotalIn":null`)
	assert.Contains(t, string(data), `"headerVehicleCount":null`)
}

func TestEncodeJSON_Pretty(t *testing.T) {
	s := NewSynthesizer(nil)
	doc := s.Document(emptyRecord(t), Provenance{SourceID: "s"})

	compact, err := s.EncodeJSON(doc, false)
	require.NoError(t, err)
	pretty, err := s.EncodeJSON(doc, true)
	require.NoError(t, err)

	assert.NotContains(t, string(compact), "\n")
	assert.Contains(t, string(pretty), "\n  ")
	assert.JSONEq(t, string(compact), string(pretty))
}

func TestArtifactName(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)
	assert.Equal(t,
		"swot_statistics_hromada_2024-03-15_10-30-45.json",
		ArtifactName("hromada", ts, ".json"),
	)
	assert.Equal(t,
		"swot_statistics_stdin_2024-03-15_10-30-45.xlsx",
		ArtifactName("stdin", ts, ".xlsx"),
	)
}
