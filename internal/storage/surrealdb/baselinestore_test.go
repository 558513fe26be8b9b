package surrealdb

import (
	"context"
	"testing"

	"github.com/bobmcallan/pricedesk/internal/interfaces"
	"github.com/bobmcallan/pricedesk/internal/storage/storetest"
)

func TestStore_Conformance(t *testing.T) {
	storetest.RunBaselineStore(t, func(t *testing.T) interfaces.BaselineStore {
		store, err := NewStore(context.Background(), testDB(t), testLogger())
		if err != nil {
			t.Fatalf("NewStore: %v", err)
		}
		return store
	})
}
