package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	factextractor "github.com/turtacn/DocFacts/internal/intelligence/fact_extractor"
)

// FactsSchemaVersion identifies the facts document layout for consumers.
const FactsSchemaVersion = "v1"

// FactsDocument is the machine-readable semantic facts export for one
// document, grouped by category.
type FactsDocument struct {
	SchemaVersion string            `json:"schema_version"`
	DocumentID    string            `json:"document_id,omitempty"`
	ExtractedAt   time.Time         `json:"extracted_at"`
	EntityCount   int               `json:"entity_count"`
	Facts         map[string][]Fact `json:"facts"`
}

// NewFactsDocument builds the export document.  Spans are always included
// here; the facts export exists for downstream systems that need to locate
// each fact in the source text.
func NewFactsDocument(documentID string, entities []factextractor.Entity) *FactsDocument {
	facts := groupFacts(entities, true)
	if facts == nil {
		facts = map[string][]Fact{}
	}
	return &FactsDocument{
		SchemaVersion: FactsSchemaVersion,
		DocumentID:    documentID,
		ExtractedAt:   time.Now().UTC(),
		EntityCount:   len(entities),
		Facts:         facts,
	}
}

// WriteFactsJSON writes the document as indented JSON.
func WriteFactsJSON(w io.Writer, doc *FactsDocument) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode facts document: %w", err)
	}
	return nil
}

// RenderFactsJSON is WriteFactsJSON into a byte slice.
func RenderFactsJSON(doc *FactsDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode facts document: %w", err)
	}
	return data, nil
}
