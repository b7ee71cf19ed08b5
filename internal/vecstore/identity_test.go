package vecstore

import "testing"

// TestPointID_Deterministic verifies the same document id always maps
// to the same point id.
func TestPointID_Deterministic(t *testing.T) {
	id := "68b1c2d3e4f5a6b7c8d9e0f1"
	first := PointID(id)
	for i := 0; i < 100; i++ {
		if got := PointID(id); got != first {
			t.Fatalf("PointID(%q) not deterministic: got %d, want %d", id, got, first)
		}
	}
}

// TestPointID_KnownValues pins the hash against hand-computed values.
// These must never change: stored vectors are keyed by them.
func TestPointID_KnownValues(t *testing.T) {
	cases := []struct {
		docID string
		want  uint64
	}{
		{"", 0},
		{"a", 97},
		{"abc", 96354},
	}
	for _, tc := range cases {
		if got := PointID(tc.docID); got != tc.want {
			t.Errorf("PointID(%q) = %d, want %d", tc.docID, got, tc.want)
		}
	}
}

// TestPointID_Range verifies every result fits in a non-negative
// 31-bit integer, including inputs long enough to overflow the 32-bit
// accumulator into negative territory.
func TestPointID_Range(t *testing.T) {
	ids := []string{
		"68b1c2d3e4f5a6b7c8d9e0f1",
		"ffffffffffffffffffffffff",
		"000000000000000000000000",
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
	}
	for _, id := range ids {
		got := PointID(id)
		if got >= 1<<31 {
			t.Errorf("PointID(%q) = %d, outside [0, 2^31)", id, got)
		}
	}
}

// TestPointID_DistinctIDs is a sanity check that typical ObjectID-style
// ids do not trivially collide.
func TestPointID_DistinctIDs(t *testing.T) {
	a := PointID("68b1c2d3e4f5a6b7c8d9e0f1")
	b := PointID("68b1c2d3e4f5a6b7c8d9e0f2")
	if a == b {
		t.Errorf("adjacent ids collided: both map to %d", a)
	}
}
