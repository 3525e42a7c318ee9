package tcerr

import (
	"errors"
	"testing"
)

func TestErrorStringIncludesOpKindAndWrapped(t *testing.T) {
	err := New(BadInput, "csf.Build", "bad permutation")
	want := "csf.Build: BadInput: bad permutation"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorStringOmitsWrappedWhenMessageEmpty(t *testing.T) {
	err := New(NumericalFailure, "dense.LeftSingulars", "")
	want := "dense.LeftSingulars: NumericalFailure"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestUnwrapReturnsUnderlyingError(t *testing.T) {
	inner := errors.New("boom")
	err := Wrap(OutOfMemory, "coo.Alloc", inner)
	if errors.Unwrap(err) != inner {
		t.Fatalf("Unwrap did not return the wrapped error")
	}
}

func TestIsMatchesOnKindOnly(t *testing.T) {
	a := New(BadInput, "planner.Plan", "bad rank")
	b := New(BadInput, "csf.Build", "different message")
	if !errors.Is(a, b) {
		t.Fatalf("errors with the same Kind should satisfy errors.Is")
	}

	c := New(OutOfMemory, "planner.Plan", "bad rank")
	if errors.Is(a, c) {
		t.Fatalf("errors with different Kinds should not satisfy errors.Is")
	}
}

func TestKindOfExtractsKindThroughWrapping(t *testing.T) {
	base := New(NotImplemented, "config.Validate", "tiling unsupported")
	wrapped := Wrap(KindOf(base), "tucker.Decompose", base)

	if KindOf(wrapped) != NotImplemented {
		t.Fatalf("KindOf(wrapped) = %v, want NotImplemented", KindOf(wrapped))
	}
}

func TestKindOfReturnsUnknownForPlainError(t *testing.T) {
	if got := KindOf(errors.New("not a tcerr.Error")); got != Unknown {
		t.Fatalf("KindOf(plain error) = %v, want Unknown", got)
	}
}

func TestKindStringNames(t *testing.T) {
	cases := map[Kind]string{
		BadInput:         "BadInput",
		OutOfMemory:      "OutOfMemory",
		NumericalFailure: "NumericalFailure",
		NotImplemented:   "NotImplemented",
		Unknown:          "Unknown",
	}
	for k, want := range cases {
		if k.String() != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", k, k.String(), want)
		}
	}
}
