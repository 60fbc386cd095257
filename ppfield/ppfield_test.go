package ppfield

import (
	"testing"

	"github.com/SciTools/libmo-unpack/wgdos"
)

const mdi = float32(-9999.0)

func TestUnpackedRoundTrip(t *testing.T) {
	data := []float32{1, 2, 3, -4.5, 0, mdi}
	packed, err := PackPPField(nil, data, 3, 2, mdi, PackUnpacked, 0)
	if err != nil {
		t.Fatalf("PackPPField: %v", err)
	}
	got, err := UnpackPPField(nil, packed, PackUnpacked, mdi, len(data))
	if err != nil {
		t.Fatalf("UnpackPPField: %v", err)
	}
	for i, want := range data {
		if got[i] != want {
			t.Errorf("index %d: expected %v, got %v", i, want, got[i])
		}
	}
}

func TestWGDOSRoundTrip(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, mdi, 7, 8}
	packed, err := PackPPField(nil, data, 4, 2, mdi, PackWGDOS, -4)
	if err != nil {
		t.Fatalf("PackPPField: %v", err)
	}
	got, err := UnpackPPField(nil, packed, PackWGDOS, mdi, len(data))
	if err != nil {
		t.Fatalf("UnpackPPField: %v", err)
	}
	if len(got) != len(data) {
		t.Fatalf("length mismatch; expected %d, got %d", len(data), len(got))
	}
}

func TestWGDOSFallsBackToUnpackedOnFailure(t *testing.T) {
	// ncols == 1 can never satisfy wgdos.Pack's row requirement, so
	// PackPPField must fall back to an unpacked encoding rather than
	// losing data, but it must still report the failure reason instead
	// of silently swallowing it.
	data := []float32{1, 2, 3}
	packed, err := PackPPField(nil, data, 1, 3, mdi, PackWGDOS, 0)
	if err != wgdos.ErrNotTwoDimensional {
		t.Fatalf("PackPPField: expected ErrNotTwoDimensional, got %v", err)
	}
	got, err := UnpackPPField(nil, packed, PackUnpacked, mdi, len(data))
	if err != nil {
		t.Fatalf("UnpackPPField (unpacked fallback decode): %v", err)
	}
	for i, want := range data {
		if got[i] != want {
			t.Errorf("index %d: expected %v, got %v", i, want, got[i])
		}
	}
}

func TestRLERoundTrip(t *testing.T) {
	data := []float32{1, mdi, mdi, mdi, 2, 3, mdi, mdi}
	packed, err := PackPPField(nil, data, 4, 2, mdi, PackRLE, 0)
	if err != nil {
		t.Fatalf("PackPPField: %v", err)
	}
	got, err := UnpackPPField(nil, packed, PackRLE, mdi, len(data))
	if err != nil {
		t.Fatalf("UnpackPPField: %v", err)
	}
	for i, want := range data {
		if got[i] != want {
			t.Errorf("index %d: expected %v, got %v", i, want, got[i])
		}
	}
}

func TestUnpackUnrecognizedCode(t *testing.T) {
	if _, err := UnpackPPField(nil, []byte{0, 0, 0, 0}, PackCode(99), mdi, 1); err != ErrUnrecognizedPackingCode {
		t.Errorf("expected ErrUnrecognizedPackingCode, got %v", err)
	}
}

func TestPackUnrecognizedCodeFallsBack(t *testing.T) {
	data := []float32{1, 2, 3}
	packed, err := PackPPField(nil, data, 3, 1, mdi, PackCode(99), 0)
	if err != ErrUnrecognizedPackingCode {
		t.Fatalf("PackPPField: expected ErrUnrecognizedPackingCode, got %v", err)
	}
	got, err := UnpackPPField(nil, packed, PackUnpacked, mdi, len(data))
	if err != nil {
		t.Fatalf("UnpackPPField: %v", err)
	}
	for i, want := range data {
		if got[i] != want {
			t.Errorf("index %d: expected %v, got %v", i, want, got[i])
		}
	}
}

func TestUnpackUnpackedMalformedLength(t *testing.T) {
	if _, err := UnpackPPField(nil, []byte{0, 0, 0}, PackUnpacked, mdi, 1); err != ErrFormatError {
		t.Errorf("expected ErrFormatError, got %v", err)
	}
}
