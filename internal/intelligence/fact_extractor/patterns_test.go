package fact_extractor

import "testing"

// =========================================================================
// Tests: pattern library construction
// =========================================================================

func TestNewLibrary_CompilesCleanly(t *testing.T) {
	lib, errs := NewLibrary()
	if len(errs) != 0 {
		t.Fatalf("NewLibrary: %d compile errors: %v", len(errs), errs)
	}
	if lib.Size() != len(defaultPatternSpecs) {
		t.Errorf("Size = %d, want %d", lib.Size(), len(defaultPatternSpecs))
	}

	// Every declared tier bucket matches the declaration table.
	wantPerTier := make(map[int]int)
	for _, ps := range defaultPatternSpecs {
		wantPerTier[ps.tier]++
	}
	for tier := 1; tier <= tierCount; tier++ {
		pats := lib.TierPatterns(tier)
		if len(pats) != wantPerTier[tier] {
			t.Errorf("tier %d: %d patterns, want %d", tier, len(pats), wantPerTier[tier])
		}
		for _, pd := range pats {
			if pd.Tier != tier {
				t.Errorf("pattern %s: Tier = %d, but filed under tier %d", pd.Name, pd.Tier, tier)
			}
			if pd.Matcher() == nil {
				t.Errorf("pattern %s: nil matcher", pd.Name)
			}
			if len(pd.CaptureRoles) == 0 {
				t.Errorf("pattern %s: no capture roles", pd.Name)
			}
		}
	}
}

func TestNewLibrary_DeclarationOrderPreserved(t *testing.T) {
	lib, errs := NewLibrary()
	if len(errs) != 0 {
		t.Fatalf("NewLibrary: %v", errs)
	}

	seen := make(map[string]bool)
	i := 0
	for tier := 1; tier <= tierCount; tier++ {
		for _, pd := range lib.TierPatterns(tier) {
			if seen[pd.Name] {
				t.Errorf("duplicate pattern name %q", pd.Name)
			}
			seen[pd.Name] = true

			// Skip declarations belonging to other tiers; order within a tier
			// must match the table.
			for i < len(defaultPatternSpecs) && defaultPatternSpecs[i].tier != tier {
				i++
			}
			if i >= len(defaultPatternSpecs) || defaultPatternSpecs[i].name != pd.Name {
				t.Errorf("tier %d order: got %s out of declaration sequence", tier, pd.Name)
			}
			i++
		}
		i = 0
	}
}

func TestBuildLibrary_BadPatternExcludedOthersLoad(t *testing.T) {
	specs := []patternSpec{
		{name: "good_one", category: CategoryMoney, tier: 3, expr: `\$(?P<v>\d+)`},
		{name: "broken", category: CategoryMoney, tier: 3, expr: `(?P<v>[`},
		{name: "good_two", category: CategoryMeasurement, tier: 5, expr: `(?P<v>\d+)%`},
	}

	lib, errs := buildLibrary(specs)
	if len(errs) != 1 {
		t.Fatalf("buildLibrary: %d errors, want 1: %v", len(errs), errs)
	}
	if errs[0].Name != "broken" {
		t.Errorf("error name = %q, want %q", errs[0].Name, "broken")
	}
	if errs[0].Error() == "" {
		t.Error("CompileError.Error() is empty")
	}
	if lib.Size() != 2 {
		t.Errorf("Size = %d, want 2", lib.Size())
	}
}

func TestBuildLibrary_RejectsOutOfRangeTier(t *testing.T) {
	specs := []patternSpec{
		{name: "stray", category: CategoryMoney, tier: 9, expr: `\d+`},
	}
	lib, errs := buildLibrary(specs)
	if len(errs) != 1 {
		t.Fatalf("buildLibrary: %d errors, want 1", len(errs))
	}
	if lib.Size() != 0 {
		t.Errorf("Size = %d, want 0", lib.Size())
	}
}

func TestTierPatterns_OutOfRange(t *testing.T) {
	lib, _ := NewLibrary()
	if got := lib.TierPatterns(0); got != nil {
		t.Errorf("TierPatterns(0) = %v, want nil", got)
	}
	if got := lib.TierPatterns(tierCount + 1); got != nil {
		t.Errorf("TierPatterns(%d) = %v, want nil", tierCount+1, got)
	}
}
