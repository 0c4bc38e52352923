package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	factextractor "github.com/turtacn/DocFacts/internal/intelligence/fact_extractor"
)

func writeTempDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp doc: %v", err)
	}
	return path
}

func TestExtractCmd_TableOutput(t *testing.T) {
	path := writeTempDoc(t, "The invoice of $500 is due on March 3, 2024.")

	out, err := runCLI(t, "", "extract", path)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "MONEY") {
		t.Errorf("output missing MONEY row:\n%s", out)
	}
	if !strings.Contains(out, "$500") {
		t.Errorf("output missing raw text:\n%s", out)
	}
	if !strings.Contains(out, "CATEGORY") {
		t.Errorf("output missing table header:\n%s", out)
	}
}

func TestExtractCmd_JSONOutput(t *testing.T) {
	path := writeTempDoc(t, "Shipping weight: 2.5 kg.")

	out, err := runCLI(t, "", "extract", path, "-o", "json")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, `"category": "MEASUREMENT"`) {
		t.Errorf("output missing measurement entity:\n%s", out)
	}
}

func TestExtractCmd_Frontmatter(t *testing.T) {
	path := writeTempDoc(t, "Budget range: $10,000 to $15,000.")

	out, err := runCLI(t, "", "extract", path, "--frontmatter")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.HasPrefix(out, "---\n") {
		t.Errorf("frontmatter missing opening delimiter:\n%s", out)
	}
	if !strings.Contains(out, "money:") {
		t.Errorf("frontmatter missing money group:\n%s", out)
	}
	if !strings.Contains(out, "source: "+path) {
		t.Errorf("frontmatter missing source:\n%s", out)
	}
}

func TestExtractCmd_FactsJSON(t *testing.T) {
	path := writeTempDoc(t, "The meeting is at 3:00 PM.")

	out, err := runCLI(t, "", "extract", path, "--facts-json")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, `"schema_version": "v1"`) {
		t.Errorf("facts document missing schema version:\n%s", out)
	}
	if !strings.Contains(out, `"times"`) {
		t.Errorf("facts document missing times group:\n%s", out)
	}
}

func TestExtractCmd_Stdin(t *testing.T) {
	out, err := runCLI(t, "Pay $42 now.", "extract", "-o", "json")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, `"category": "MONEY"`) {
		t.Errorf("output missing money entity:\n%s", out)
	}
}

func TestExtractCmd_MissingFile(t *testing.T) {
	_, err := runCLI(t, "", "extract", "/nonexistent/doc.txt")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEntityValue(t *testing.T) {
	tests := []struct {
		name   string
		entity factextractor.Entity
		want   string
	}{
		{
			"scalar value",
			factextractor.Entity{Kind: factextractor.KindScalar, Value: 500},
			"500",
		},
		{
			"range values",
			factextractor.Entity{Kind: factextractor.KindRange, StartValue: 10000, EndValue: 15000},
			"10000..15000",
		},
		{
			"scalar date",
			factextractor.Entity{Kind: factextractor.KindScalar, Date: "2024-03-03"},
			"2024-03-03",
		},
		{
			"date range",
			factextractor.Entity{Kind: factextractor.KindRange, StartDate: "2024-03-15", EndDate: "2024-03-18"},
			"2024-03-15..2024-03-18",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entityValue(tt.entity); got != tt.want {
				t.Errorf("entityValue = %q, want %q", got, tt.want)
			}
		})
	}
}
