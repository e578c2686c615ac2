package localstore

import (
	"context"
	"path/filepath"
	"testing"
)

func TestStoreLifecycle(t *testing.T) {
	t.Parallel()
	store, err := Open(filepath.Join(t.TempDir(), "state", "pmprep.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	if v, err := store.Get(ctx, KeyAuthToken); err != nil || v != "" {
		t.Fatalf("expected empty value for unset key, got %q err %v", v, err)
	}

	if err := store.Set(ctx, KeyAuthToken, "tok-1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, KeyAuthToken, "tok-2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, _ := store.Get(ctx, KeyAuthToken); v != "tok-2" {
		t.Fatalf("expected overwritten value, got %q", v)
	}

	if err := store.Set(ctx, KeyUserEmail, "pat@example.com"); err != nil {
		t.Fatalf("set email: %v", err)
	}
	if err := store.Clear(ctx, KeyAuthToken, KeyUserEmail); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if v, _ := store.Get(ctx, KeyAuthToken); v != "" {
		t.Fatalf("token not cleared: %q", v)
	}
	if v, _ := store.Get(ctx, KeyUserEmail); v != "" {
		t.Fatalf("email not cleared: %q", v)
	}
}
