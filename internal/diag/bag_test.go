package diag

import (
	"testing"

	"arithlex/internal/source"
)

func spanAt(name string, start, end uint32) source.Span {
	return source.NewSpan(pos(name, start, 0, start), pos(name, end, 0, end))
}

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := uint32(0); i < 3; i++ {
		b.Add(NewError(LexIllegalCharacter, spanAt("f", i, i+1), "x"))
	}
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
	if b.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", b.Dropped())
	}
	if !b.HasErrors() {
		t.Error("HasErrors() = false")
	}
}

func TestBagWarningsAreNotErrors(t *testing.T) {
	b := NewBag(4)
	b.Add(NewWarning(IOCacheError, source.Span{}, "stale"))
	if b.HasErrors() {
		t.Error("a warning must not count as an error")
	}
}

func TestNewBagClamps(t *testing.T) {
	if got := NewBag(0).Cap(); got != 1 {
		t.Errorf("NewBag(0).Cap() = %d, want 1", got)
	}
	if got := NewBag(1 << 20).Cap(); got != 65535 {
		t.Errorf("NewBag(huge).Cap() = %d, want 65535", got)
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(10)
	b.Add(NewError(LexIllegalCharacter, spanAt("b", 0, 1), "b0"))
	b.Add(NewError(LexIllegalCharacter, spanAt("a", 5, 6), "a5"))
	b.Add(NewError(LexIllegalCharacter, spanAt("a", 1, 2), "a1"))
	b.Add(NewError(LexIllegalCharacter, spanAt("a", 1, 2), "a1 again"))
	b.Add(NewWarning(LexInfo, spanAt("a", 1, 2), "info"))

	b.Sort()
	want := []string{"a1", "a1 again", "info", "a5", "b0"}
	for i, d := range b.Items() {
		if d.Message != want[i] {
			t.Fatalf("item %d = %q, want %q", i, d.Message, want[i])
		}
	}

	b.Dedup()
	if b.Len() != 4 {
		t.Fatalf("after Dedup Len() = %d, want 4", b.Len())
	}
}

func TestBagReporter(t *testing.T) {
	b := NewBag(5)
	d := NewError(LexIllegalCharacter, spanAt("f", 0, 1), "bad").
		WithNote(spanAt("f", 0, 0), "here").
		WithRemoval("remove")
	BagReporter{Bag: b}.Report(d)
	BagReporter{}.Report(d)
	Discard.Report(d)

	if b.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", b.Len())
	}
	got := b.Items()[0]
	if len(got.Notes) != 1 || len(got.Fixes) != 1 {
		t.Fatalf("notes/fixes = %d/%d", len(got.Notes), len(got.Fixes))
	}
	edit := got.Fixes[0].Edits[0]
	if edit.Span != got.Primary || edit.NewText != "" {
		t.Errorf("removal edit = %+v", edit)
	}
}

func TestSeverityNames(t *testing.T) {
	cases := []struct {
		sev        Severity
		str, label string
	}{
		{SevError, "ERROR", "error"},
		{SevWarning, "WARNING", "warning"},
		{Severity(0), "UNKNOWN", "unknown"},
	}
	for _, c := range cases {
		if c.sev.String() != c.str || c.sev.Label() != c.label {
			t.Errorf("%d: got %q/%q", c.sev, c.sev.String(), c.sev.Label())
		}
	}
}
