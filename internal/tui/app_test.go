package tui

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/syntax-syndicate/modality/internal/config"
	"github.com/syntax-syndicate/modality/internal/events"
	"github.com/syntax-syndicate/modality/internal/tui/dialog"
	"github.com/syntax-syndicate/modality/internal/tui/testfixtures"
)

func testConfig() *config.Config {
	return &config.Config{
		Theme:         "catppuccin-mocha",
		LogLevel:      "info",
		ConfirmMode:   "double",
		BackdropClose: true,
		Events:        false,
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	a := NewApp(testConfig(), nil)
	a.Update(tea.WindowSizeMsg{Width: testfixtures.TestTermWidth, Height: testfixtures.TestTermHeight})
	return a
}

func enterKey() tea.KeyPressMsg { return tea.KeyPressMsg{Code: tea.KeyEnter} }
func escKey() tea.KeyPressMsg   { return tea.KeyPressMsg{Code: tea.KeyEscape} }

// drive runs a command and feeds any resulting message back into the app.
func drive(t *testing.T, a *App, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if msg == nil {
		return nil
	}
	_, next := a.Update(msg)
	return next
}

func TestAppOpensNoteFormFromMenu(t *testing.T) {
	a := newTestApp(t)

	_, _ = a.Update(enterKey())
	if !a.noteForm.IsOpen() {
		t.Fatal("Expected note form open after selecting the first menu item")
	}
	if !dialog.BackgroundLock.Locked() {
		t.Error("Expected scroll lock held while the form is open")
	}

	_, _ = a.Update(escKey())
	if a.noteForm.IsOpen() {
		t.Fatal("Expected Escape to close the form")
	}
	if dialog.BackgroundLock.Locked() {
		t.Error("Expected scroll lock released after close")
	}
}

func TestAppNoteSubmitFlow(t *testing.T) {
	a := newTestApp(t)
	_, _ = a.Update(enterKey())

	// Type into the focused title field.
	_, _ = a.Update(tea.KeyPressMsg{Text: "h", Code: 'h'})
	_, _ = a.Update(tea.KeyPressMsg{Text: "i", Code: 'i'})
	if !a.titleInput.Focused() {
		t.Fatal("Expected title input focused on open")
	}
	if a.titleInput.Value() != "hi" {
		t.Fatalf("Expected typed title, got %q", a.titleInput.Value())
	}

	_, cmd := a.Update(enterKey())
	if !a.noteForm.IsSubmitting() {
		t.Fatal("Expected form submitting after Enter")
	}

	drive(t, a, cmd)
	if len(a.notes) != 1 || a.notes[0].Title != "hi" {
		t.Fatalf("Expected one saved note, got %v", a.notes)
	}
	if a.noteForm.IsOpen() {
		t.Error("Expected form closed after save")
	}
}

func TestAppEmptyTitleRejected(t *testing.T) {
	a := newTestApp(t)
	_, _ = a.Update(enterKey())

	_, cmd := a.Update(enterKey())
	drive(t, a, cmd)

	if len(a.notes) != 0 {
		t.Error("Empty title must not save a note")
	}
	if !a.noteForm.IsOpen() {
		t.Error("Form must stay open after rejection")
	}
	if !a.toast.IsVisible() || a.toast.Message() != "Title is required" {
		t.Errorf("Expected rejection toast, got %q", a.toast.Message())
	}

	_, _ = a.Update(escKey())
}

func TestAppFocusRestoredToMenuItem(t *testing.T) {
	a := newTestApp(t)
	item := a.menu.Selected()

	_, _ = a.Update(enterKey())
	if item.Focused() {
		t.Fatal("Menu item should not hold focus while the dialog is open")
	}

	_, _ = a.Update(escKey())
	if !item.Focused() {
		t.Error("Expected focus restored to the triggering menu item")
	}
}

func TestAppDeleteRequiresDoubleConfirm(t *testing.T) {
	a := newTestApp(t)
	a.notes = []Note{{Title: "keep me"}}

	a.menu.Move(1) // "Delete last note"
	_, _ = a.Update(enterKey())
	if !a.deleteConfirm.IsOpen() {
		t.Fatal("Expected delete confirmation open")
	}

	_, _ = a.Update(enterKey())
	if len(a.notes) != 1 {
		t.Fatal("First activation must only arm, not delete")
	}
	if !a.deleteConfirm.Gate().Armed() {
		t.Fatal("Expected gate armed")
	}

	_, cmd := a.Update(enterKey())
	drive(t, a, cmd)
	if len(a.notes) != 0 {
		t.Error("Expected note deleted after second activation")
	}
	if a.deleteConfirm.IsOpen() {
		t.Error("Expected confirmation closed after delete")
	}
}

func TestAppDeleteArmPublishesEvent(t *testing.T) {
	bus, err := events.NewBus()
	if err != nil {
		t.Fatalf("Failed to start bus: %v", err)
	}
	t.Cleanup(func() { _ = bus.Close() })

	armed := make(chan events.Event, 1)
	sub, err := bus.Subscribe(events.KindConfirmArmed, func(evt events.Event) { armed <- evt })
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer sub.Unsubscribe()

	a := NewApp(testConfig(), bus)
	a.Update(tea.WindowSizeMsg{Width: testfixtures.TestTermWidth, Height: testfixtures.TestTermHeight})
	a.notes = []Note{{Title: "keep me"}}

	a.menu.Move(1)
	_, _ = a.Update(enterKey()) // open the confirmation
	_, _ = a.Update(enterKey()) // first activation arms

	evt := waitEvent(t, armed)
	if evt.Kind != events.KindConfirmArmed || evt.Source != "Delete note" {
		t.Errorf("Expected arm event from the delete gate, got %+v", evt)
	}

	_, _ = a.Update(escKey()) // disarm
	_, _ = a.Update(escKey()) // close
}

func TestAppDeleteWithNoNotesToasts(t *testing.T) {
	a := newTestApp(t)

	a.menu.Move(1)
	_, cmd := a.Update(enterKey())
	drive(t, a, cmd)

	if a.deleteConfirm.IsOpen() {
		t.Error("Confirmation must not open with nothing to delete")
	}
	if !a.toast.IsVisible() {
		t.Error("Expected informational toast")
	}
}

func TestAppSingleConfirmMode(t *testing.T) {
	cfg := testConfig()
	cfg.ConfirmMode = "single"
	a := NewApp(cfg, nil)
	a.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	a.notes = []Note{{Title: "gone"}}

	a.menu.Move(1)
	_, _ = a.Update(enterKey())
	_, cmd := a.Update(enterKey())
	drive(t, a, cmd)

	if len(a.notes) != 0 {
		t.Error("Single mode must delete on the first activation")
	}
}

func TestAppWizardRejectionEventShowsToast(t *testing.T) {
	a := newTestApp(t)

	_, _ = a.Update(busEventMsg{evt: events.Event{
		Kind:   events.KindWizardRejected,
		Source: "Project setup",
		Detail: "invalid log level nope",
	}})

	if !a.toast.IsVisible() || !strings.Contains(a.toast.Message(), "invalid log level") {
		t.Errorf("Expected rejection toast, got %q", a.toast.Message())
	}
	if a.status.eventCount != 1 {
		t.Errorf("Expected status bar to record the event, count=%d", a.status.eventCount)
	}
}

func TestAppRendersHomeAndStatus(t *testing.T) {
	a := newTestApp(t)
	a.notes = []Note{{Title: "first note"}}

	frame := testfixtures.StripANSI(testfixtures.RenderToString(a.Draw))
	for _, want := range []string{"modality", "New note", "Project setup", "first note"} {
		if !strings.Contains(frame, want) {
			t.Errorf("Expected frame to contain %q", want)
		}
	}
}

func TestAppDialogDrawsOverHome(t *testing.T) {
	a := newTestApp(t)
	_, _ = a.Update(enterKey())

	frame := testfixtures.StripANSI(testfixtures.RenderToString(a.Draw))
	if !strings.Contains(frame, "Add a note to the in-memory list") {
		t.Error("Expected open dialog rendered in the frame")
	}

	_, _ = a.Update(escKey())
}

func TestAppQuit(t *testing.T) {
	a := newTestApp(t)
	_, cmd := a.Update(tea.KeyPressMsg{Text: "q", Code: 'q'})
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if !a.quitting {
		t.Error("Expected quitting flag set")
	}
}
