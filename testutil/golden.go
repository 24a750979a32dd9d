// Package testutil provides golden-file comparison for the reports this
// checker produces, so test fixtures can assert on a stable rendering
// instead of hand-maintained expected-value literals.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// UpdateGoldens controls whether to (re)write golden files instead of
// comparing against them. Set via UPDATE_GOLDENS=true go test ./...
var UpdateGoldens = os.Getenv("UPDATE_GOLDENS") == "true"

// GoldenPath returns the on-disk path for a named golden fixture under a
// feature subdirectory (e.g. feature="boundcheck", name="s1_out_of_range").
func GoldenPath(feature, name string) string {
	return filepath.Join("testdata", feature, name+".golden.json")
}

// AssertGolden compares got — any JSON-marshalable value, typically
// []*reporter.Report — against the recorded golden fixture, updating it
// instead when UpdateGoldens is set.
func AssertGolden(t *testing.T, feature, name string, got interface{}) {
	t.Helper()

	path := GoldenPath(feature, name)
	gotJSON, err := json.MarshalIndent(got, "", "  ")
	if err != nil {
		t.Fatalf("marshaling actual value: %v", err)
	}

	if UpdateGoldens {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating golden directory: %v", err)
		}
		if err := os.WriteFile(path, gotJSON, 0o644); err != nil {
			t.Fatalf("writing golden file %s: %v", path, err)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	wantJSON, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("golden file %s does not exist; run with UPDATE_GOLDENS=true to create it", path)
		}
		t.Fatalf("reading golden file %s: %v", path, err)
	}

	var want, gotVal interface{}
	if err := json.Unmarshal(wantJSON, &want); err != nil {
		t.Fatalf("parsing golden file %s: %v", path, err)
	}
	if err := json.Unmarshal(gotJSON, &gotVal); err != nil {
		t.Fatalf("parsing actual value: %v", err)
	}

	if diff := cmp.Diff(want, gotVal); diff != "" {
		t.Errorf("golden mismatch for %s/%s (-want +got):\n%s", feature, name, diff)
		t.Logf("to update: UPDATE_GOLDENS=true go test ./...")
	}
}
