package models

import (
	"context"
	"testing"

	"github.com/abakedjoetato/Fbtrial-sub001/internal/database"
)

// newTestDB returns a facade running on the in-memory store. The fallback and
// the real backend share the same update semantics, so the model layer is
// exercised end to end without a MongoDB deployment.
func newTestDB(t *testing.T) *database.Database {
	t.Helper()
	db := database.New("", "test", nil)
	if err := db.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() = %v", err)
	}
	return db
}
