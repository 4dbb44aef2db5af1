package common

import "testing"

func TestHasAny(t *testing.T) {
	detail := "Mostly clear, with a low around 54."

	if !HasAny(detail, "with a low", "low around") {
		t.Error("expected a match")
	}
	if HasAny(detail, "with a high", "high near") {
		t.Error("unexpected match")
	}
	if HasAny(detail) {
		t.Error("no substrings should never match")
	}
}
