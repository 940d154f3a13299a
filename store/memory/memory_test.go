package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/akhileshishumaps-prog/mlm-realty-sub000/engine"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/lifecycle"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/network"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/store/memory"
)

func TestMemory_UpsertPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	m := memory.New()

	for _, id := range []string{"a", "b", "c"} {
		if err := m.PutMember(ctx, network.Member{ID: network.MemberID(id)}); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}
	// Updating an existing member must not move it to the end.
	if err := m.PutMember(ctx, network.Member{ID: "a", Status: network.StatusActive}); err != nil {
		t.Fatalf("update a: %v", err)
	}

	snap, err := m.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(snap.Members))
	}
	if snap.Members[0].ID != "a" || snap.Members[0].Status != network.StatusActive {
		t.Errorf("upsert changed order or lost the update: %+v", snap.Members[0])
	}
}

func TestMemory_SnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	m := memory.New()

	sale := lifecycle.Sale{
		ID:       "s1",
		SellerID: "seller",
		SaleDate: engine.NewTimePoint(2024, time.March, 1),
		Status:   lifecycle.SaleActive,
		Payments: []lifecycle.Payment{
			{Amount: engine.NewMoneyFromInt(100), Date: engine.NewTimePoint(2024, time.March, 2)},
		},
	}
	if err := m.PutSale(ctx, sale); err != nil {
		t.Fatalf("put: %v", err)
	}

	snap, _ := m.LoadSnapshot(ctx)
	snap.Sales[0].Payments[0].Amount = engine.NewMoneyFromInt(999)
	snap.Sales[0].Status = lifecycle.SaleCancelled

	again, _ := m.LoadSnapshot(ctx)
	if again.Sales[0].Status != lifecycle.SaleActive {
		t.Errorf("mutating a snapshot leaked into the store")
	}
	if !again.Sales[0].Payments[0].Amount.Value.Equal(engine.NewMoneyFromInt(100).Value) {
		t.Errorf("mutating snapshot payments leaked into the store")
	}
}
