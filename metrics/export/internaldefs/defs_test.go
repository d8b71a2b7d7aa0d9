package internaldefs

import "testing"

func TestNormalizeBucketsToleratesShortInput(t *testing.T) {
	out := NormalizeBuckets([]uint64{1, 2})
	if out[0] != 1 || out[1] != 2 || out[7] != 0 {
		t.Fatalf("unexpected normalization: %v", out)
	}

	out = NormalizeBuckets(nil)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("bucket %d not zero: %d", i, v)
		}
	}
}

func TestCumulativeBuckets(t *testing.T) {
	out := CumulativeBuckets([8]uint64{1, 0, 2, 0, 0, 0, 0, 3})
	want := [8]uint64{1, 1, 3, 3, 3, 3, 3, 6}
	if out != want {
		t.Fatalf("cumulative mismatch: got %v want %v", out, want)
	}
}

func TestDefinitionTablesAreAligned(t *testing.T) {
	if len(HistogramBounds) != len(HistogramBoundSuffix) {
		t.Fatalf("bounds tables out of sync: %d vs %d", len(HistogramBounds), len(HistogramBoundSuffix))
	}

	seen := map[string]bool{}
	for _, def := range CounterDefs {
		if def.Name == "" || def.Help == "" {
			t.Fatalf("incomplete counter def %+v", def)
		}
		if seen[def.Name] {
			t.Fatalf("duplicate counter name %q", def.Name)
		}
		seen[def.Name] = true
	}
}
