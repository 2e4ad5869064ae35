package nav

import "testing"

func TestEmptyHistory(t *testing.T) {
	h := New()

	if h.CanGoBack() || h.CanGoForward() {
		t.Error("empty history should not allow back or forward")
	}
	if _, ok := h.Back(); ok {
		t.Error("Back() on empty history should report nothing")
	}
	if _, ok := h.Forward(); ok {
		t.Error("Forward() on empty history should report nothing")
	}
	if _, ok := h.Current(); ok {
		t.Error("Current() on empty history should report nothing")
	}
}

func TestBackAndForward(t *testing.T) {
	h := New()
	h.NavigateTo("A")
	h.NavigateTo("B")
	h.NavigateTo("C")

	if path, ok := h.Back(); !ok || path != "B" {
		t.Fatalf("Back() = %q, %v, want B", path, ok)
	}
	if path, ok := h.Back(); !ok || path != "A" {
		t.Fatalf("Back() = %q, %v, want A", path, ok)
	}
	if h.CanGoBack() {
		t.Error("at the oldest entry, CanGoBack should be false")
	}

	if path, ok := h.Forward(); !ok || path != "B" {
		t.Fatalf("Forward() = %q, %v, want B", path, ok)
	}
	if path, ok := h.Forward(); !ok || path != "C" {
		t.Fatalf("Forward() = %q, %v, want C", path, ok)
	}
	if h.CanGoForward() {
		t.Error("at the newest entry, CanGoForward should be false")
	}

	// Back/Forward only move the cursor; nothing was dropped.
	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}
}

func TestNavigateTruncatesForwardEntries(t *testing.T) {
	h := New()
	h.NavigateTo("A")
	h.NavigateTo("B")
	h.NavigateTo("C")

	if _, ok := h.Back(); !ok {
		t.Fatal("Back() failed")
	}
	h.NavigateTo("D")

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (A, B, D)", h.Len())
	}
	if cur, _ := h.Current(); cur != "D" {
		t.Errorf("Current() = %q, want D", cur)
	}
	if h.CanGoForward() {
		t.Error("forward entries must be discarded on a new navigation")
	}
	if _, ok := h.Forward(); ok {
		t.Error("Forward() after truncation should report nothing")
	}

	if path, ok := h.Back(); !ok || path != "B" {
		t.Errorf("Back() = %q, %v, want B", path, ok)
	}
}
