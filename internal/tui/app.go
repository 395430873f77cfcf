package tui

import (
	"fmt"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/syntax-syndicate/modality/internal/config"
	"github.com/syntax-syndicate/modality/internal/events"
	"github.com/syntax-syndicate/modality/internal/logger"
	"github.com/syntax-syndicate/modality/internal/tui/dialog"
	"github.com/syntax-syndicate/modality/internal/tui/theme"
)

// Note is one saved demo note.
type Note struct {
	Title     string
	Body      string
	CreatedAt time.Time
}

// busEventMsg delivers one lifecycle event from the bus subscription.
type busEventMsg struct {
	evt events.Event
}

// noteSavedMsg reports the async note save finishing.
type noteSavedMsg struct {
	note Note
}

// noteDeletedMsg reports the async note delete finishing.
type noteDeletedMsg struct{}

// App is the main Bubbletea model: a home menu plus the three dialog flows
// (note form, delete confirmation, setup wizard) layered over it.
type App struct {
	cfg *config.Config
	bus *events.Bus // nil when lifecycle events are disabled

	menu   *Menu
	status *StatusBar
	toast  *Toast

	noteForm   *dialog.Form
	titleInput textinput.Model
	bodyInput  textinput.Model

	deleteConfirm *dialog.Confirm
	setup         *setupWizard

	notes       []Note
	notesScroll int
	eventChan   chan events.Event
	width       int
	height      int
	quitting    bool
}

// NewApp creates the TUI application.
func NewApp(cfg *config.Config, bus *events.Bus) *App {
	a := &App{
		cfg:       cfg,
		bus:       bus,
		menu:      NewMenu(),
		status:    NewStatusBar(dialog.BackgroundLock),
		toast:     NewToast(),
		eventChan: make(chan events.Event, 64),
	}

	a.titleInput = newInput("Note title...", 40)
	a.bodyInput = newInput("Body (optional)...", 40)

	a.noteForm = dialog.NewForm(dialog.FormConfig{
		Title:           "New note",
		Description:     "Add a note to the in-memory list",
		SubmitLabel:     "Save",
		SubmittingLabel: "Saving...",
		CancelLabel:     "Cancel",
		OnSubmit:        a.submitNote,
		OnCancel:        a.cancelNoteForm,
		CloseOnBackdrop: cfg.BackdropClose,
	})
	a.noteForm.SetFields(
		dialog.Target{ID: "title", Control: &inputControl{m: &a.titleInput}, Autofocus: true},
		dialog.Target{ID: "body", Control: &inputControl{m: &a.bodyInput}},
	)
	a.noteForm.SetBody(a.renderNoteFields)

	a.deleteConfirm = dialog.NewConfirm(dialog.ConfirmConfig{
		Title:       "Delete note",
		Description: "Removes the most recent note",
		Gate: dialog.GateConfig{
			Mode:              confirmMode(cfg.ConfirmMode),
			ConfirmLabel:      "Delete",
			ConfirmArmedLabel: "Really delete?",
			ConfirmHint:       "Deletes the most recent note",
			ConfirmArmedHint:  "Press again to delete it for good",
			OnConfirm:         a.deleteNote,
			OnCancel:          a.closeDeleteConfirm,
			OnArm:             a.deleteArmed,
		},
		OnClose:         a.closeDeleteConfirm,
		CloseOnBackdrop: cfg.BackdropClose,
	})

	a.setup = newSetupWizard(cfg, bus, a.closeSetup, a.setupSucceeded)
	return a
}

func confirmMode(mode string) dialog.Mode {
	if mode == "single" {
		return dialog.ModeSingle
	}
	return dialog.ModeDouble
}

// Init starts the event loop when the bus is enabled.
func (a *App) Init() tea.Cmd {
	if a.bus == nil {
		return nil
	}
	if _, err := a.bus.Subscribe(">", func(evt events.Event) {
		select {
		case a.eventChan <- evt:
		default:
			// Slow consumer: dropping beats blocking the bus callback.
		}
	}); err != nil {
		logger.Warn("Event subscription failed: %v", err)
		return nil
	}
	return a.waitForEvent()
}

// waitForEvent blocks on the event channel and feeds the next event back
// into the update loop.
func (a *App) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-a.eventChan
		if !ok {
			return nil
		}
		return busEventMsg{evt: evt}
	}
}

// publish emits a lifecycle event when the bus is enabled.
func (a *App) publish(kind, source, detail string) {
	if a.bus == nil {
		return
	}
	if err := a.bus.Publish(kind, source, detail); err != nil {
		logger.Warn("Failed to publish %s: %v", kind, err)
	}
}

// activeDialog returns the open dialog's update function, or nil.
func (a *App) activeDialog() func(tea.Msg) tea.Cmd {
	switch {
	case a.noteForm.IsOpen():
		return a.noteForm.Update
	case a.deleteConfirm.IsOpen():
		return a.deleteConfirm.Update
	case a.setup.wizard.IsOpen():
		return a.setup.wizard.Update
	}
	return nil
}

// Update handles incoming messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case busEventMsg:
		a.status.RecordEvent(msg.evt)
		var cmd tea.Cmd
		if msg.evt.Kind == events.KindWizardRejected {
			cmd = a.toast.Show(msg.evt.Detail, ToastError)
		}
		return a, tea.Batch(cmd, a.waitForEvent())

	case ShowToastMsg, ToastDismissMsg:
		return a, a.toast.Update(msg)

	case noteSavedMsg:
		a.notes = append(a.notes, msg.note)
		a.noteForm.SetSubmitting(false)
		a.noteForm.Close()
		a.publish(events.KindFormSubmitted, "New note", msg.note.Title)
		a.publish(events.KindDialogClosed, "New note", "")
		return a, a.toast.Show("Note saved", ToastSuccess)

	case noteDeletedMsg:
		if len(a.notes) > 0 {
			a.notes = a.notes[:len(a.notes)-1]
		}
		a.deleteConfirm.SetBusy(false)
		a.deleteConfirm.Close()
		a.publish(events.KindConfirmFired, "Delete note", "")
		a.publish(events.KindDialogClosed, "Delete note", "")
		return a, a.toast.Show("Note deleted", ToastSuccess)

	case dialog.AdvanceResultMsg, dialog.CompletionResultMsg:
		return a, a.setup.wizard.Update(msg)

	case tea.MouseWheelMsg:
		// Background scrolling is suppressed while any dialog holds the lock.
		if dialog.BackgroundLock.Locked() {
			return a, nil
		}
		mouse := msg.Mouse()
		switch mouse.Button {
		case tea.MouseWheelUp:
			a.scrollNotes(-1)
		case tea.MouseWheelDown:
			a.scrollNotes(1)
		}
		return a, nil

	case tea.MouseClickMsg:
		if update := a.activeDialog(); update != nil {
			return a, update(msg)
		}
		return a, nil

	case tea.KeyPressMsg:
		return a.handleKeyPress(msg)
	}

	return a, nil
}

func (a *App) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if update := a.activeDialog(); update != nil {
		if msg.String() == "ctrl+c" {
			a.quitting = true
			return a, tea.Quit
		}
		// Text keys go to the note form's focused input; the dialog layer
		// owns tab/esc/enter.
		if a.noteForm.IsOpen() {
			switch msg.String() {
			case "tab", "shift+tab", "esc", "enter":
			default:
				var cmd tea.Cmd
				switch {
				case a.titleInput.Focused():
					a.titleInput, cmd = a.titleInput.Update(msg)
				case a.bodyInput.Focused():
					a.bodyInput, cmd = a.bodyInput.Update(msg)
				}
				return a, cmd
			}
		}
		return a, update(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		a.quitting = true
		return a, tea.Quit
	case "up", "k":
		a.menu.Move(-1)
		return a, nil
	case "down", "j":
		a.menu.Move(1)
		return a, nil
	case "enter":
		return a, a.openSelected()
	}
	return a, nil
}

// openSelected opens the dialog behind the focused menu item.
func (a *App) openSelected() tea.Cmd {
	item := a.menu.Selected()
	switch item.id {
	case "new-note":
		a.titleInput.SetValue("")
		a.bodyInput.SetValue("")
		a.noteForm.Open(item)
		a.publish(events.KindDialogOpened, "New note", "form")
		return nil
	case "delete-note":
		if len(a.notes) == 0 {
			return a.toast.Show("No notes to delete", ToastInfo)
		}
		a.deleteConfirm.Open(item)
		a.publish(events.KindDialogOpened, "Delete note", "confirm")
		return nil
	case "setup":
		a.setup.wizard.Open(item)
		a.publish(events.KindDialogOpened, "Project setup", "wizard")
		return nil
	}
	return nil
}

// scrollNotes shifts the visible notes window, clamped to the list.
func (a *App) scrollNotes(delta int) {
	a.notesScroll += delta
	max := len(a.notes) - 5
	if max < 0 {
		max = 0
	}
	if a.notesScroll > max {
		a.notesScroll = max
	}
	if a.notesScroll < 0 {
		a.notesScroll = 0
	}
}

func (a *App) renderNoteFields(width int) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		labeledField("Title", a.titleInput.View()),
		"",
		labeledField("Body", a.bodyInput.View()),
	)
}

// submitNote is the note form's primary action. Empty titles are rejected
// with a toast; valid notes save asynchronously.
func (a *App) submitNote() tea.Cmd {
	title := a.titleInput.Value()
	if title == "" {
		return ShowToast("Title is required", ToastError)
	}
	a.noteForm.SetSubmitting(true)
	note := Note{Title: title, Body: a.bodyInput.Value(), CreatedAt: time.Now()}
	return func() tea.Msg {
		return noteSavedMsg{note: note}
	}
}

func (a *App) cancelNoteForm() tea.Cmd {
	a.noteForm.Close()
	a.publish(events.KindDialogClosed, "New note", "cancelled")
	return nil
}

// deleteArmed publishes the gate's idle-to-armed transition.
func (a *App) deleteArmed() tea.Cmd {
	a.publish(events.KindConfirmArmed, "Delete note", "awaiting second confirmation")
	return nil
}

// deleteNote is the confirmation gate's fire effect.
func (a *App) deleteNote() tea.Cmd {
	a.deleteConfirm.SetBusy(true)
	return func() tea.Msg {
		return noteDeletedMsg{}
	}
}

func (a *App) closeDeleteConfirm() tea.Cmd {
	a.deleteConfirm.Close()
	a.publish(events.KindDialogClosed, "Delete note", "")
	return nil
}

func (a *App) closeSetup() tea.Cmd {
	a.setup.wizard.Close()
	a.publish(events.KindDialogClosed, "Project setup", "")
	return nil
}

func (a *App) setupSucceeded() tea.Cmd {
	a.setup.wizard.Close()
	a.publish(events.KindWizardCompleted, "Project setup", "modality.yml written")
	return a.toast.Show("Project config written", ToastSuccess)
}

// renderHome renders the header, notes list, and menu.
func (a *App) renderHome(width int) string {
	t := theme.Current()

	logo := theme.ApplyGradient("modality", t.Primary, t.Secondary)
	tagline := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)).
		Render("dialog engine demo")

	noteStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)).Padding(0, 1)
	notesHeader := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)).
		Render(fmt.Sprintf("Notes (%d)", len(a.notes)))

	rows := []string{logo + "  " + tagline, "", a.menu.View(width), "", notesHeader}
	start := a.notesScroll
	end := start + 5
	if end > len(a.notes) {
		end = len(a.notes)
	}
	for _, n := range a.notes[start:end] {
		rows = append(rows, noteStyle.Render("• "+n.Title))
	}
	if len(a.notes) == 0 {
		rows = append(rows, noteStyle.Render("(none yet)"))
	}

	hints := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)).
		Render("↑/↓ select · enter open · q quit")
	rows = append(rows, "", hints)

	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Draw renders all components to the screen buffer.
func (a *App) Draw(scr uv.Screen, area uv.Rectangle) {
	statusHeight := 1
	mainArea := uv.Rectangle{
		Min: area.Min,
		Max: uv.Position{X: area.Max.X, Y: area.Max.Y - statusHeight},
	}
	statusArea := uv.Rectangle{
		Min: uv.Position{X: area.Min.X, Y: area.Max.Y - statusHeight},
		Max: area.Max,
	}

	uv.NewStyledString(a.renderHome(mainArea.Dx())).Draw(scr, mainArea)
	a.status.Draw(scr, statusArea)

	// Dialogs draw over the home screen.
	a.noteForm.Draw(scr, mainArea)
	a.deleteConfirm.Draw(scr, mainArea)
	a.setup.wizard.Draw(scr, mainArea)

	if a.toast.IsVisible() {
		uv.NewStyledString(a.toast.View(area.Dx(), area.Dy())).Draw(scr, mainArea)
	}
}

// View renders the current frame.
func (a *App) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	if a.quitting {
		view.AltScreen = false
		view.MouseMode = 0
		view.Content = lipgloss.NewLayer("")
		return view
	}

	width, height := a.width, a.height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	canvas := uv.NewScreenBuffer(width, height)
	a.Draw(canvas, canvas.Bounds())
	view.Content = lipgloss.NewLayer(canvas.Render())
	view.BackgroundColor = theme.HexToColor(theme.Current().BgMantle)
	return view
}
