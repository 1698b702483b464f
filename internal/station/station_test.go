package station

import (
	"testing"

	"github.com/jaxsonp/factory-script/internal/fsgrid"
	"github.com/jaxsonp/factory-script/internal/pallet"
)

func TestReadyCountsDeliveriesNotSlots(t *testing.T) {
	s := New(Add, Default(), Data{}, fsgrid.Pos{})
	if s.Ready() {
		t.Fatal("freshly built station should not be ready")
	}
	s.Deliver(0, pallet.NewInt(1))
	if s.Ready() {
		t.Fatal("one delivery should not satisfy arity 2")
	}
	s.Deliver(5, pallet.NewInt(2))
	if !s.Ready() {
		t.Fatal("two distinct-priority deliveries should satisfy arity 2, regardless of priority values")
	}
}

func TestDeliverSamePriorityOverwrites(t *testing.T) {
	s := New(Add, Default(), Data{}, fsgrid.Pos{})
	s.Deliver(0, pallet.NewInt(1))
	s.Deliver(0, pallet.NewInt(99))
	s.Deliver(1, pallet.NewInt(2))
	in := s.TakeInputs()
	if len(in) != 2 {
		t.Fatalf("expected 2 inputs, got %d", len(in))
	}
	if v, _ := in[0].Int(); v != 99 {
		t.Errorf("second delivery at priority 0 should overwrite the first, got %d", v)
	}
}

func TestTakeInputsSortsByPriorityAndClears(t *testing.T) {
	s := New(Add, Default(), Data{}, fsgrid.Pos{})
	s.Deliver(3, pallet.NewInt(30))
	s.Deliver(1, pallet.NewInt(10))
	in := s.TakeInputs()
	if len(in) != 2 {
		t.Fatalf("expected 2 inputs, got %d", len(in))
	}
	if v, _ := in[0].Int(); v != 10 {
		t.Errorf("lower priority should sort first, got %d", v)
	}
	if v, _ := in[1].Int(); v != 30 {
		t.Errorf("higher priority should sort second, got %d", v)
	}
	if s.Ready() {
		t.Error("TakeInputs should clear the bag, leaving the station not ready")
	}
}

func TestCloneStartsWithEmptyBays(t *testing.T) {
	s := New(Add, Default(), Data{}, fsgrid.Pos{})
	s.Deliver(0, pallet.NewInt(1))

	c := s.Clone()
	if c.Ready() {
		t.Error("a clone should start with no pending deliveries")
	}
	c.Deliver(0, pallet.NewInt(5))
	c.Deliver(1, pallet.NewInt(6))
	if !c.Ready() {
		t.Fatal("clone should become ready independently of the station it was cloned from")
	}

	// The original's own bay must be untouched by the clone's deliveries.
	if in := s.TakeInputs(); len(in) != 1 || !in[0].Equal(pallet.NewInt(1)) {
		t.Error("original station's pending delivery should survive cloning unaffected")
	}
}

func TestSetArityOverridesCatalogArity(t *testing.T) {
	s := New(FuncInvoke, Default(), Data{}, fsgrid.Pos{})
	if !s.Ready() {
		t.Fatal("func_invoke with arity 0 (unresolved callee) starts trivially ready")
	}
	s.SetArity(2)
	if s.Ready() {
		t.Fatal("after SetArity(2), station should need 2 deliveries")
	}
	s.Deliver(0, pallet.NewEmpty())
	s.Deliver(1, pallet.NewEmpty())
	if !s.Ready() {
		t.Fatal("station should be ready once SetArity's count is satisfied")
	}
}

func TestLandingPriorityCanExceedArity(t *testing.T) {
	// Priority is a neighbour-order rank, not a slot index: a station can
	// be fed from its 8th-ranked neighbour (priority 7) alone and still only needs
	// Arity total deliveries to fire, whatever their priority numbers are.
	s := New(Println, Default(), Data{}, fsgrid.Pos{})
	s.Deliver(7, pallet.NewString("hi"))
	if !s.Ready() {
		t.Fatal("a single delivery at a high priority index should still satisfy arity 1")
	}
}
