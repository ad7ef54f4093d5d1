package features

import (
	"slices"
	"testing"
)

func TestOverrides(t *testing.T) {
	got, err := Overrides([]string{"debug_checks"}, []string{"previews"})
	if err != nil {
		t.Fatalf("Overrides: %v", err)
	}
	want := []string{"engine.debug=true", "ui.show_previews=false"}
	if !slices.Equal(got, want) {
		t.Fatalf("Overrides = %v, want %v", got, want)
	}

	if _, err := Overrides([]string{"warp_drive"}, nil); err == nil {
		t.Fatalf("expected error for unknown feature")
	}
}

func TestSpecLookups(t *testing.T) {
	tests := []struct {
		key     string
		known   bool
		stage   Stage
		enabled bool
	}{
		{key: "previews", known: true, stage: StageStable, enabled: true},
		{key: "debug_checks", known: true, stage: StageExperimental},
		{key: "missing", stage: StageExperimental},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if IsKnown(tt.key) != tt.known || StageFor(tt.key) != tt.stage || DefaultEnabled(tt.key) != tt.enabled {
				t.Fatalf("unexpected spec for %q", tt.key)
			}
		})
	}
}
