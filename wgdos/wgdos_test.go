package wgdos

import "testing"

func TestPackUnpackRoundTrip(t *testing.T) {
	const mdi = float32(-9999.0)
	golden := []struct {
		name  string
		ncols int
		nrows int
		bpacc int32
		data  []float32
	}{
		{
			name:  "simple ramp",
			ncols: 4,
			nrows: 2,
			bpacc: -2,
			data:  []float32{1, 2, 3, 4, 5, 6, 7, 8},
		},
		{
			name:  "with missing data",
			ncols: 4,
			nrows: 2,
			bpacc: -2,
			data:  []float32{1, mdi, 3, 4, mdi, mdi, 7, 8},
		},
		{
			name:  "with zeros",
			ncols: 5,
			nrows: 2,
			bpacc: -2,
			data:  []float32{0, 0, 3, 4, 5, 10, 0, 7, 8, 9},
		},
		{
			name:  "constant row",
			ncols: 3,
			nrows: 2,
			bpacc: -1,
			data:  []float32{5, 5, 5, -2, -2, -2},
		},
		{
			name:  "all missing row",
			ncols: 3,
			nrows: 1,
			bpacc: -1,
			data:  []float32{mdi, mdi, mdi},
		},
		{
			// row[0] > 0 and a wide spread (max-min > max/sqrt(2)) trips
			// the heuristic's skip branch: zeros are quantized as
			// ordinary data rather than bitmapped.
			name:  "wide spread skips zero bitmap",
			ncols: 4,
			nrows: 1,
			bpacc: 0,
			data:  []float32{10, 100, 0, 50},
		},
	}
	for _, g := range golden {
		packed, err := Pack(nil, g.data, g.ncols, g.nrows, mdi, g.bpacc)
		if err != nil {
			t.Errorf("%s: Pack: %v", g.name, err)
			continue
		}
		got, err := Unpack(nil, packed, len(g.data), mdi)
		if err != nil {
			t.Errorf("%s: Unpack: %v", g.name, err)
			continue
		}
		if len(got) != len(g.data) {
			t.Errorf("%s: length mismatch; expected %d, got %d", g.name, len(g.data), len(got))
			continue
		}
		accuracy := pow2(g.bpacc)
		for i, want := range g.data {
			if want == mdi {
				if got[i] != mdi {
					t.Errorf("%s: index %d: expected mdi, got %v", g.name, i, got[i])
				}
				continue
			}
			diff := got[i] - want
			if diff < 0 {
				diff = -diff
			}
			if diff > accuracy {
				t.Errorf("%s: index %d: expected approximately %v, got %v (accuracy %v)", g.name, i, want, got[i], accuracy)
			}
		}
	}
}

func pow2(exp int32) float32 {
	v := float32(1.0)
	if exp >= 0 {
		for i := int32(0); i < exp; i++ {
			v *= 2
		}
		return v
	}
	for i := int32(0); i < -exp; i++ {
		v /= 2
	}
	return v
}

func TestPackRejectsSingleColumn(t *testing.T) {
	if _, err := Pack(nil, []float32{1, 2, 3}, 1, 3, -9999, 0); err != ErrNotTwoDimensional {
		t.Errorf("expected ErrNotTwoDimensional, got %v", err)
	}
}

func TestUnpackRejectsTruncatedHeader(t *testing.T) {
	if _, err := Unpack(nil, []byte{1, 2, 3}, 4, -9999); err != ErrFormatError {
		t.Errorf("expected ErrFormatError, got %v", err)
	}
}

func TestUnpackRejectsDimensionMismatch(t *testing.T) {
	packed, err := Pack(nil, []float32{1, 2, 3, 4}, 2, 2, -9999, 0)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if _, err := Unpack(nil, packed, 5, -9999); err != ErrFormatError {
		t.Errorf("expected ErrFormatError for mismatched expected length, got %v", err)
	}
}

func TestUnpackRejectsTruncatedRow(t *testing.T) {
	packed, err := Pack(nil, []float32{1, 2, 3, 4, 5, 6}, 3, 2, -9999, 0)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	truncated := packed[:len(packed)-4]
	if _, err := Unpack(nil, truncated, 6, -9999); err != ErrFormatError {
		t.Errorf("expected ErrFormatError for truncated row, got %v", err)
	}
}

func TestPackZerosHeuristicKeepsBitmapWhenFirstElementZero(t *testing.T) {
	// row[0] == 0 seeds min/max at 0, so the spread check (min > 0) never
	// fires regardless of the rest of the row: zeros stay bitmapped.
	const mdi = float32(-9999.0)
	data := []float32{0, 100, 0.001, 50}
	packed, err := Pack(nil, data, 4, 1, mdi, -10)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	got, err := Unpack(nil, packed, len(data), mdi)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if got[0] != 0 {
		t.Errorf("expected zero preserved exactly via bitmap, got %v", got[0])
	}
}
