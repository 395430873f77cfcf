package dialog

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/syntax-syndicate/modality/internal/logger"
	"github.com/syntax-syndicate/modality/internal/tui/theme"
)

// CloseFunc is invoked when the user requests dismissal (Escape or backdrop
// click). Whether the request is honored is the caller's policy: a caller
// may treat Escape as "disarm" while a confirmation is armed, for example.
type CloseFunc func() tea.Cmd

// SurfaceOptions configures a dialog surface.
type SurfaceOptions struct {
	Title           string
	Description     string
	OnClose         CloseFunc
	CloseOnBackdrop bool // clicking outside the dialog box requests dismissal
	Width           int  // total box width including border; 0 = default
	Lock            *ScrollLock
}

const defaultSurfaceWidth = 60

// Surface owns one overlay dialog: accessible labelling, the focus trap
// over its registered targets, Escape/backdrop dismissal requests, the
// background scroll lock, and focus restoration on close.
//
// A Surface never owns its open/closed toggle. Callers open and close it
// explicitly; the surface only enforces the open/close contracts.
type Surface struct {
	opts SurfaceOptions

	open      bool
	holdsLock bool
	previous  Focusable // control focused before the dialog opened
	targets   []Target
	focusedID string // "" = the dialog container itself

	area uv.Rectangle // last drawn box, for backdrop hit detection
}

// NewSurface creates a closed surface.
func NewSurface(opts SurfaceOptions) *Surface {
	if opts.Width <= 0 {
		opts.Width = defaultSurfaceWidth
	}
	if opts.Lock == nil {
		opts.Lock = BackgroundLock
	}
	return &Surface{opts: opts}
}

// SetTargets replaces the registered focusable targets. When the surface is
// open the initial-focus rules are re-applied, since the previous focus may
// refer to a control that no longer exists.
func (s *Surface) SetTargets(targets []Target) {
	s.targets = targets
	if s.open {
		s.focusInitial()
	}
}

// Targets returns the registered targets.
func (s *Surface) Targets() []Target { return s.targets }

// Open transitions the surface to open: acquires the scroll lock, captures
// the previously focused control for restoration, and applies initial focus.
// Opening an open surface is a no-op.
func (s *Surface) Open(previous Focusable) {
	if s.open {
		return
	}
	s.open = true
	s.opts.Lock.Acquire()
	s.holdsLock = true
	s.previous = previous
	if previous != nil {
		previous.Blur()
	}
	s.focusInitial()
	logger.Debug("dialog %q opened", s.opts.Title)
}

// Close transitions the surface to closed: releases the scroll lock and
// restores focus to the previously focused control if it is still attached.
// A detached previous control is silently skipped. Closing a closed surface
// is a no-op, so unwind paths may call it unconditionally.
func (s *Surface) Close() {
	if !s.open {
		return
	}
	s.open = false
	if s.holdsLock {
		s.opts.Lock.Release()
		s.holdsLock = false
	}
	s.blurAll()
	s.focusedID = ""
	if s.previous != nil {
		if a, ok := s.previous.(Attachable); !ok || a.Attached() {
			s.previous.Focus()
		}
		s.previous = nil
	}
	logger.Debug("dialog %q closed", s.opts.Title)
}

// IsOpen reports whether the surface is open.
func (s *Surface) IsOpen() bool { return s.open }

// Title returns the accessible title.
func (s *Surface) Title() string { return s.opts.Title }

// FocusedID returns the ID of the focused target, or "" when the container
// itself holds focus.
func (s *Surface) FocusedID() string { return s.focusedID }

// ContentWidth returns the width available to content inside the box
// (padding and border subtracted).
func (s *Surface) ContentWidth() int {
	return s.opts.Width - 6
}

// Update handles keyboard and mouse input while the surface is open.
// Tab/Shift+Tab cycle focus, Escape requests dismissal, and a left click
// outside the drawn box requests dismissal when backdrop close is enabled.
func (s *Surface) Update(msg tea.Msg) tea.Cmd {
	if !s.open {
		return nil
	}

	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "tab":
			s.cycle(1)
			return nil
		case "shift+tab":
			s.cycle(-1)
			return nil
		case "esc":
			if s.opts.OnClose != nil {
				return s.opts.OnClose()
			}
			return nil
		}

	case tea.MouseClickMsg:
		mouse := msg.Mouse()
		if mouse.Button != tea.MouseLeft || !s.opts.CloseOnBackdrop {
			return nil
		}
		if s.hitsBackdrop(mouse.X, mouse.Y) && s.opts.OnClose != nil {
			return s.opts.OnClose()
		}
		return nil
	}
	return nil
}

// hitsBackdrop reports whether a click landed outside the last drawn box.
func (s *Surface) hitsBackdrop(x, y int) bool {
	if s.area.Dx() == 0 && s.area.Dy() == 0 {
		return false
	}
	return x < s.area.Min.X || x >= s.area.Max.X || y < s.area.Min.Y || y >= s.area.Max.Y
}

// cycle moves focus through the Tab-cycle list. The focusable set is
// recomputed live on every call so content changes since open are honored.
func (s *Surface) cycle(dir int) {
	order := ComputeFocusOrder(s.targets)
	cycle := CycleTargets(order)
	if len(cycle) == 0 {
		// Nothing to cycle: keep focus on the container.
		s.blurAll()
		s.focusedID = ""
		return
	}

	idx := -1
	for i, t := range cycle {
		if t.ID == s.focusedID {
			idx = i
			break
		}
	}

	var next int
	switch {
	case idx >= 0:
		next = (idx + dir + len(cycle)) % len(cycle)
	case dir < 0:
		// Entering the cycle backwards (from the container or a dismiss
		// control) starts at the end.
		next = len(cycle) - 1
	default:
		next = 0
	}
	s.setFocus(cycle[next])
}

// focusInitial applies the open-time focus priority: autofocus target,
// first non-dismiss target, first target, then the container itself.
func (s *Surface) focusInitial() {
	order := ComputeFocusOrder(s.targets)

	var pick *Target
	for i := range order {
		if order[i].Autofocus {
			pick = &order[i]
			break
		}
	}
	if pick == nil {
		for i := range order {
			if !order[i].Dismiss {
				pick = &order[i]
				break
			}
		}
	}
	if pick == nil && len(order) > 0 {
		pick = &order[0]
	}

	if pick == nil {
		s.blurAll()
		s.focusedID = ""
		return
	}
	s.setFocus(*pick)
}

func (s *Surface) setFocus(t Target) {
	s.blurAll()
	t.Control.Focus()
	s.focusedID = t.ID
}

func (s *Surface) blurAll() {
	for _, t := range s.targets {
		if t.Control != nil {
			t.Control.Blur()
		}
	}
}

// Render wraps content in the dialog chrome: title, optional description,
// and the bordered box.
func (s *Surface) Render(content string) string {
	t := theme.Current()

	sections := make([]string, 0, 4)
	title := t.S().Title.Width(s.ContentWidth()).Render(s.opts.Title)
	sections = append(sections, title)
	if s.opts.Description != "" {
		sections = append(sections, t.S().Description.Width(s.ContentWidth()).Render(s.opts.Description))
	}
	sections = append(sections, "")
	sections = append(sections, content)

	boxStyle := lipgloss.NewStyle().
		Width(s.opts.Width).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.BorderFocused))

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// Draw renders the framed content centered within area and records the box
// rectangle for backdrop hit detection.
func (s *Surface) Draw(scr uv.Screen, area uv.Rectangle, content string) {
	if !s.open {
		return
	}

	box := s.Render(content)
	boxWidth := lipgloss.Width(box)
	boxHeight := lipgloss.Height(box)

	x := (area.Dx() - boxWidth) / 2
	y := (area.Dy() - boxHeight) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	s.area = uv.Rectangle{
		Min: uv.Position{X: area.Min.X + x, Y: area.Min.Y + y},
		Max: uv.Position{X: area.Min.X + x + boxWidth, Y: area.Min.Y + y + boxHeight},
	}

	uv.NewStyledString(box).Draw(scr, s.area)
}
