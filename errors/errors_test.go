package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestKindPredicates(t *testing.T) {
	invalid := InvalidArgumentf("bad shape %v", []int64{-1})
	unsupported := Unsupportedf("no path from %s to %s", "cpu", "gpu")

	if !IsInvalidArgument(invalid) {
		t.Error("IsInvalidArgument should match")
	}
	if IsUnsupported(invalid) {
		t.Error("IsUnsupported should not match an invalid_argument error")
	}
	if !IsUnsupported(unsupported) {
		t.Error("IsUnsupported should match")
	}
}

func TestWrappedKindSurvives(t *testing.T) {
	inner := InvalidArgumentf("malformed payload")
	outer := fmt.Errorf("decoding tensor: %w", inner)

	if !IsInvalidArgument(outer) {
		t.Error("kind should be detectable through wrapping")
	}

	var e *Error
	if !stderrors.As(outer, &e) {
		t.Fatal("errors.As should find the structured error")
	}
	if e.Kind != KindInvalidArgument {
		t.Errorf("Kind = %q, want %q", e.Kind, KindInvalidArgument)
	}
}

func TestErrorMessage(t *testing.T) {
	err := Wrap(KindUnsupported, stderrors.New("no adapter"), "gpu bridge init")
	want := "[unsupported] gpu bridge init: no adapter"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
