package entity

import (
	"testing"

	"github.com/joseph-ayodele/packlist/constants"
)

func sampleItems() []PackingListItem {
	return []PackingListItem{
		{LotNumber: "A", Pieces: 10, GrossLbs: 1000.4, NetLbs: 990.2, Container: "MSCU1234567"},
		{LotNumber: "B", Pieces: 12, GrossLbs: 1200.3, NetLbs: 1180.1, Container: "MSCU1234567"},
		{LotNumber: "C", Pieces: 8, GrossLbs: 800.6, NetLbs: 790.0, Container: "TGHU7654321"},
	}
}

func TestPackingListRecomputesOnEveryMutation(t *testing.T) {
	p := NewPackingList(constants.SupplierC, "")
	if p.PO != UnknownPO {
		t.Fatalf("PO = %q, want %q", p.PO, UnknownPO)
	}

	p.SetItems(sampleItems())
	if p.TotalGrossLbs != 3001 || p.TotalNetLbs != 2960 {
		t.Fatalf("totals after SetItems = %v/%v, want 3001/2960", p.TotalGrossLbs, p.TotalNetLbs)
	}
	if len(p.Containers) != 2 || p.Containers[0] != "MSCU1234567" {
		t.Fatalf("containers = %v", p.Containers)
	}

	if err := p.UpdateItem(0, func(it *PackingListItem) { it.GrossLbs = 2000.4 }); err != nil {
		t.Fatal(err)
	}
	if p.TotalGrossLbs != 4001 {
		t.Errorf("gross after update = %v, want 4001", p.TotalGrossLbs)
	}

	if err := p.RemoveItem(1); err != nil {
		t.Fatal(err)
	}
	if p.TotalNetLbs != 1780 {
		t.Errorf("net after remove = %v, want 1780", p.TotalNetLbs)
	}
	for i, it := range p.Items {
		if it.LineNumber != i+1 {
			t.Errorf("item %d line number = %d", i, it.LineNumber)
		}
	}

	p.AddItem(PackingListItem{LotNumber: "D", GrossLbs: 10, NetLbs: 9})
	if p.Items[2].LineNumber != 3 || p.TotalGrossLbs != 2811 {
		t.Errorf("after add: line=%d gross=%v", p.Items[2].LineNumber, p.TotalGrossLbs)
	}
}

func TestPackingListMoveItemResequences(t *testing.T) {
	p := NewPackingList(constants.SupplierA, "4512")
	p.SetItems(sampleItems())

	if err := p.MoveItem(2, 0); err != nil {
		t.Fatal(err)
	}
	got := []string{p.Items[0].LotNumber, p.Items[1].LotNumber, p.Items[2].LotNumber}
	want := []string{"C", "A", "B"}
	for i := range want {
		if got[i] != want[i] || p.Items[i].LineNumber != i+1 {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if p.Containers[0] != "TGHU7654321" {
		t.Errorf("containers should follow item order, got %v", p.Containers)
	}
}

func TestPackingListOutOfRange(t *testing.T) {
	p := NewPackingList(constants.SupplierB, "1")
	if err := p.RemoveItem(0); err == nil {
		t.Error("expected error removing from empty list")
	}
	if err := p.UpdateItem(3, func(*PackingListItem) {}); err == nil {
		t.Error("expected error updating missing item")
	}
	if err := p.MoveItem(0, 1); err == nil {
		t.Error("expected error moving in empty list")
	}
}

func TestSetItemsDoesNotAliasCallerSlice(t *testing.T) {
	items := sampleItems()
	p := NewPackingList(constants.SupplierA, "1")
	p.SetItems(items)
	items[0].GrossLbs = 99999
	if p.Items[0].GrossLbs == 99999 {
		t.Error("SetItems must copy the caller's slice")
	}
}
