package bootstrap

import (
	"context"
	"testing"

	"github.com/turtacn/DocFacts/internal/config"
	"github.com/turtacn/DocFacts/internal/infrastructure/monitoring/logging"
)

func TestNewExtractor_Defaults(t *testing.T) {
	ext, err := NewExtractor(config.ExtractorConfig{}, nil, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	entities := ext.Extract("The meeting runs from March 3, 2024 to March 5, 2024.")
	if len(entities) == 0 {
		t.Error("expected at least one entity from the default pattern table")
	}
}

func TestNewExtractor_AppliesMaxTextLength(t *testing.T) {
	ext, err := NewExtractor(config.ExtractorConfig{MaxTextLength: 10}, nil, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	// Input past the cap is truncated: the price survives, the date does not.
	entities := ext.Extract("Pay $500 due on March 3, 2024 for the delivery.")
	for _, e := range entities {
		if e.Category == "DATE" {
			t.Errorf("found DATE entity %q beyond the text cap", e.RawText)
		}
	}
}

func TestAcksName(t *testing.T) {
	tests := []struct {
		acks int
		want string
	}{
		{0, "none"},
		{1, "one"},
		{-1, "all"},
		{5, "all"},
	}
	for _, tt := range tests {
		if got := acksName(tt.acks); got != tt.want {
			t.Errorf("acksName(%d) = %q, want %q", tt.acks, got, tt.want)
		}
	}
}

func TestNewLoggerFromConfig_MapsTextToConsole(t *testing.T) {
	logger, err := NewLoggerFromConfig(config.LogConfig{Level: "debug", Format: "text", Output: "stderr"})
	if err != nil {
		t.Fatalf("NewLoggerFromConfig: %v", err)
	}
	if logger == nil {
		t.Fatal("logger is nil")
	}
}

func TestNewLoggerFromConfig_DefaultsToJSON(t *testing.T) {
	logger, err := NewLoggerFromConfig(config.LogConfig{})
	if err != nil {
		t.Fatalf("NewLoggerFromConfig: %v", err)
	}
	if logger == nil {
		t.Fatal("logger is nil")
	}
}

func TestApp_HealthCheckersEmptyWithoutClients(t *testing.T) {
	app := &App{}
	if checkers := app.healthCheckers(); len(checkers) != 0 {
		t.Errorf("checkers = %d, want 0", len(checkers))
	}
}

func TestApp_ShutdownWithNothingWired(t *testing.T) {
	app := &App{}
	if err := app.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}
