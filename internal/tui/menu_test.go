package tui

import (
	"strings"
	"testing"

	"github.com/syntax-syndicate/modality/internal/tui/testfixtures"
)

func TestMenuMoveClamps(t *testing.T) {
	m := NewMenu()

	if m.Selected().id != "new-note" {
		t.Fatalf("Expected first item selected, got %q", m.Selected().id)
	}

	m.Move(-1)
	if m.Selected().id != "new-note" {
		t.Error("Moving up from the top must clamp")
	}

	m.Move(1)
	m.Move(1)
	m.Move(1)
	if m.Selected().id != "setup" {
		t.Errorf("Moving past the bottom must clamp, got %q", m.Selected().id)
	}
}

func TestMenuAttachmentToggle(t *testing.T) {
	m := NewMenu()
	item := m.Selected()

	if !item.Attached() {
		t.Fatal("Menu items start attached")
	}
	m.SetItemAttached(item.id, false)
	if item.Attached() {
		t.Error("Expected item detached")
	}
}

func TestMenuViewListsItems(t *testing.T) {
	m := NewMenu()
	out := testfixtures.StripANSI(m.View(60))
	for _, want := range []string{"New note", "Delete last note", "Project setup"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected menu to list %q", want)
		}
	}
}
