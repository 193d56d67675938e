// Package report synthesizes the final artifacts out of a frozen
// statistics record: a structured JSON document and, optionally, a
// multi-sheet Excel workbook.
package report

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dkravchenko/swotstat/internal/accumulator"
	"github.com/dkravchenko/swotstat/internal/errors"
)

// Outcome tags how far a synthesis run got. Every extraction call
// resolves to exactly one of these.
type Outcome int

const (
	// OutcomeFailed means no artifact was produced.
	OutcomeFailed Outcome = iota
	// OutcomeJSONOnly means the JSON artifact was produced but the
	// workbook was skipped or could not be rendered.
	OutcomeJSONOnly
	// OutcomeFull means both artifacts were produced.
	OutcomeFull
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFull:
		return "full"
	case OutcomeJSONOnly:
		return "json-only"
	default:
		return "failed"
	}
}

// Provenance carries the source metadata recorded in the artifacts.
type Provenance struct {
	SourceID  string
	CreatedAt time.Time
}

// Metadata is the provenance block of the JSON artifact.
type Metadata struct {
	CreatedAt    string         `json:"createdAt"`
	SourceID     string         `json:"sourceId"`
	RecordCounts map[string]int `json:"recordCounts"`
}

// Document is the JSON artifact: provenance metadata plus every
// category's final accumulator state. Absent categories are emitted
// empty or null, never omitted.
type Document struct {
	Metadata   Metadata            `json:"metadata"`
	Statistics *accumulator.Record `json:"statistics"`
}

// Synthesizer assembles artifacts from frozen records.
type Synthesizer struct {
	log *zap.Logger
}

// NewSynthesizer creates a synthesizer. A nil logger silences
// diagnostics.
func NewSynthesizer(logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{log: logger}
}

// Document assembles the JSON artifact for a frozen record.
func (s *Synthesizer) Document(rec *accumulator.Record, prov Provenance) *Document {
	created := prov.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return &Document{
		Metadata: Metadata{
			CreatedAt:    created.Format(time.RFC3339),
			SourceID:     prov.SourceID,
			RecordCounts: rec.RecordCounts(),
		},
		Statistics: rec,
	}
}

// EncodeJSON serializes the artifact, indented when pretty is set.
func (s *Synthesizer) EncodeJSON(doc *Document, pretty bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, errors.NewSynthesisError("failed to encode statistics document", err)
	}
	return data, nil
}

// ArtifactName builds the output file name for one artifact:
// swot_statistics_<stem>_<timestamp><ext>.
func ArtifactName(inputStem string, t time.Time, ext string) string {
	return fmt.Sprintf("swot_statistics_%s_%s%s", inputStem, t.Format("2006-01-02_15-04-05"), ext)
}
