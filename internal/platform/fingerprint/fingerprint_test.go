package fingerprint

import "testing"

func TestComputeIsStableWithinProcess(t *testing.T) {
	t.Parallel()
	first := Compute()
	if first == "" {
		t.Fatal("fingerprint must never be empty")
	}
	if second := Compute(); second != first {
		t.Fatalf("fingerprint not stable: %s vs %s", first, second)
	}
}

func TestRandomFallbackIsNonEmpty(t *testing.T) {
	t.Parallel()
	if randomFallback() == "" {
		t.Fatal("fallback must never be empty")
	}
}
