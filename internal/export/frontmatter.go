// Package export renders extraction results for downstream consumers: a YAML
// frontmatter block for markdown emission, and a machine-readable semantic
// facts document.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	factextractor "github.com/turtacn/DocFacts/internal/intelligence/fact_extractor"
)

const frontmatterDelimiter = "---"

// Fact is the neutral export form of one entity, shared by the frontmatter
// and facts-JSON writers.  Scalar facts carry Value (or Date), range facts
// carry StartValue/EndValue (or StartDate/EndDate).
type Fact struct {
	Kind       string              `json:"kind" yaml:"kind"`
	RawText    string              `json:"raw_text" yaml:"raw_text"`
	Span       *factextractor.Span `json:"span,omitempty" yaml:"span,omitempty"`
	Unit       string              `json:"unit,omitempty" yaml:"unit,omitempty"`
	Value      float64             `json:"value,omitempty" yaml:"value,omitempty"`
	StartValue float64             `json:"start_value,omitempty" yaml:"start_value,omitempty"`
	EndValue   float64             `json:"end_value,omitempty" yaml:"end_value,omitempty"`
	Date       string              `json:"date,omitempty" yaml:"date,omitempty"`
	StartDate  string              `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate    string              `json:"end_date,omitempty" yaml:"end_date,omitempty"`
}

func newFact(e factextractor.Entity, includeSpan bool) Fact {
	f := Fact{
		Kind:       string(e.Kind),
		RawText:    e.RawText,
		Unit:       e.Unit,
		Value:      e.Value,
		StartValue: e.StartValue,
		EndValue:   e.EndValue,
		Date:       e.Date,
		StartDate:  e.StartDate,
		EndDate:    e.EndDate,
	}
	if includeSpan {
		span := e.Span
		f.Span = &span
	}
	return f
}

// groupKey maps an entity category to its frontmatter/facts section name.
func groupKey(c factextractor.Category) string {
	switch c {
	case factextractor.CategoryDate:
		return "dates"
	case factextractor.CategoryTime:
		return "times"
	case factextractor.CategoryMoney:
		return "money"
	case factextractor.CategoryMeasurement:
		return "measurements"
	default:
		return strings.ToLower(string(c))
	}
}

// groupFacts buckets entities by category section, preserving position order
// inside each bucket.
func groupFacts(entities []factextractor.Entity, includeSpans bool) map[string][]Fact {
	if len(entities) == 0 {
		return nil
	}
	groups := make(map[string][]Fact)
	for _, e := range entities {
		key := groupKey(e.Category)
		groups[key] = append(groups[key], newFact(e, includeSpans))
	}
	return groups
}

// FrontmatterOptions controls the rendered block.
type FrontmatterOptions struct {
	// Source labels the originating document; omitted when empty.
	Source string
	// ExtractedAt defaults to the current time.
	ExtractedAt time.Time
	// IncludeSpans keeps codepoint offsets on each fact.
	IncludeSpans bool
}

type frontmatterDoc struct {
	Source      string            `yaml:"source,omitempty"`
	ExtractedAt string            `yaml:"extracted_at"`
	EntityCount int               `yaml:"entity_count"`
	Facts       map[string][]Fact `yaml:"facts,omitempty"`
}

// WriteFrontmatter writes the entities as a delimited YAML frontmatter block.
// Map keys marshal in sorted order, so output is deterministic for a given
// entity list.
func WriteFrontmatter(w io.Writer, entities []factextractor.Entity, opts FrontmatterOptions) error {
	extractedAt := opts.ExtractedAt
	if extractedAt.IsZero() {
		extractedAt = time.Now().UTC()
	}
	doc := frontmatterDoc{
		Source:      opts.Source,
		ExtractedAt: extractedAt.UTC().Format(time.RFC3339),
		EntityCount: len(entities),
		Facts:       groupFacts(entities, opts.IncludeSpans),
	}

	body, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshal frontmatter: %w", err)
	}
	if _, err := fmt.Fprintf(w, "%s\n%s%s\n", frontmatterDelimiter, body, frontmatterDelimiter); err != nil {
		return fmt.Errorf("write frontmatter: %w", err)
	}
	return nil
}

// RenderFrontmatter is WriteFrontmatter into a string.
func RenderFrontmatter(entities []factextractor.Entity, opts FrontmatterOptions) (string, error) {
	var sb strings.Builder
	if err := WriteFrontmatter(&sb, entities, opts); err != nil {
		return "", err
	}
	return sb.String(), nil
}
