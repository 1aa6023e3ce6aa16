package crystal

import "testing"

func TestClamp(t *testing.T) {
	p := Properties{Size: 900, Purity: 130, Cut: -4, Fracturation: -10}.WithOverride(7)
	got := p.Clamp(500)
	if got.Size != 500 || got.Purity != 100 || got.Cut != 0 || got.Fracturation != 0 {
		t.Fatalf("unexpected clamp: %+v", got)
	}
	if v, ok := got.Override(); !ok || v != 7 {
		t.Fatalf("override lost: %+v", got)
	}
}

func TestDisplaySize(t *testing.T) {
	p := New(120, 50, 50, 0)
	if p.DisplaySize() != 120 {
		t.Fatalf("display size = %d", p.DisplaySize())
	}
	if p.WithOverride(3).DisplaySize() != 3 {
		t.Fatalf("override not applied")
	}
}

func TestBrokenRepaired(t *testing.T) {
	if !New(1, 1, 1, 100).Broken() {
		t.Fatalf("expected broken")
	}
	if !New(1, 1, 1, 0).Repaired() {
		t.Fatalf("expected repaired")
	}
	if New(1, 1, 1, -1).Valid() {
		t.Fatalf("negative fracturation should be invalid")
	}
}
