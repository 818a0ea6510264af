package testsupport

import (
	"context"
	"testing"

	"sdnsurvey/internal/config"
	"sdnsurvey/internal/resultstore"
)

// MustOpenStore opens the results database configured by cfg and registers
// cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *resultstore.Store {
	t.Helper()

	store, err := resultstore.Open(context.Background(), cfg.Export.SQLitePath)
	if err != nil {
		t.Fatalf("resultstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
