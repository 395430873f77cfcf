package tui

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/glamour/v2"
	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/aymanbagabas/go-udiff"
	"gopkg.in/yaml.v3"

	"github.com/syntax-syndicate/modality/internal/config"
	"github.com/syntax-syndicate/modality/internal/events"
	"github.com/syntax-syndicate/modality/internal/logger"
	"github.com/syntax-syndicate/modality/internal/tui/dialog"
	"github.com/syntax-syndicate/modality/internal/tui/theme"
)

const setupIntro = `# Project setup

This wizard writes a project-level ` + "`modality.yml`" + `.

- **Settings** collects the theme and log level
- **Review** shows the resulting config as a diff
- Applying asks for a second confirmation
`

// setupWizard owns the three-step project setup flow: an intro, a settings
// form whose forward-validator rejects bad input, and a diff review gated by
// a double confirmation that writes the project config file.
type setupWizard struct {
	wizard *dialog.Wizard
	cfg    *config.Config
	bus    *events.Bus

	themeInput textinput.Model
	levelInput textinput.Model
}

func newSetupWizard(cfg *config.Config, bus *events.Bus, onClose dialog.CloseFunc, onSuccess func() tea.Cmd) *setupWizard {
	s := &setupWizard{cfg: cfg, bus: bus}
	s.themeInput = newInput(cfg.Theme, 40)
	s.themeInput.SetValue(cfg.Theme)
	s.levelInput = newInput(cfg.LogLevel, 40)
	s.levelInput.SetValue(cfg.LogLevel)

	intro := dialog.NewStep("Welcome")
	intro.Content = s.renderIntro

	settings := dialog.NewStep("Settings")
	settings.Content = s.renderSettings
	settings.Validate = s.validateSettings
	settings.OnBack = s.resetInputs
	settings.Targets = []dialog.Target{
		{ID: "theme", Control: &inputControl{m: &s.themeInput}, Autofocus: true},
		{ID: "level", Control: &inputControl{m: &s.levelInput}},
	}
	settings.Update = s.updateSettings

	review := dialog.NewStep("Review")
	review.Content = s.renderReview

	s.wizard = dialog.NewWizard(dialog.WizardConfig{
		Title:       "Project setup",
		Description: "Configure this project's dialog behavior",
		Steps:       []dialog.Step{intro, settings, review},
		Confirm: dialog.GateConfig{
			Mode:              dialog.ModeDouble,
			ConfirmLabel:      "Apply",
			ConfirmArmedLabel: "Really apply?",
			ConfirmHint:       "Writes modality.yml in this project",
			ConfirmArmedHint:  "Press again to overwrite modality.yml",
			OnArm:             s.confirmArmed,
		},
		OnClose:      onClose,
		OnComplete:   s.apply,
		OnSuccess:    onSuccess,
		OnStepChange: s.stepChanged,
		Width:        72,
	})
	return s
}

func (s *setupWizard) renderIntro(width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return setupIntro
	}
	out, err := r.Render(setupIntro)
	if err != nil {
		return setupIntro
	}
	return strings.TrimRight(out, "\n")
}

func (s *setupWizard) renderSettings(width int) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		labeledField("Theme", s.themeInput.View()),
		"",
		labeledField("Log level (debug, info, warn, error)", s.levelInput.View()),
	)
}

// updateSettings routes keystrokes to whichever input holds focus. Keys the
// dialog layer owns fall through to the surface.
func (s *setupWizard) updateSettings(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "tab", "shift+tab", "esc", "enter":
		return nil
	}

	var cmd tea.Cmd
	switch {
	case s.themeInput.Focused():
		s.themeInput, cmd = s.themeInput.Update(msg)
	case s.levelInput.Focused():
		s.levelInput, cmd = s.levelInput.Update(msg)
	}
	return cmd
}

// validateSettings is the settings step's forward-validator. Failures are
// surfaced through the event bus; the wizard engine only sees the veto.
func (s *setupWizard) validateSettings(ctx context.Context) bool {
	name := strings.TrimSpace(s.themeInput.Value())
	if !theme.Known(name) {
		s.publishRejection("unknown theme " + name)
		return false
	}
	level := strings.TrimSpace(s.levelInput.Value())
	if _, err := logger.ParseLevel(level); err != nil {
		s.publishRejection("invalid log level " + level)
		return false
	}
	return true
}

func (s *setupWizard) publishRejection(detail string) {
	s.publishEvent(events.KindWizardRejected, detail)
}

// confirmArmed publishes the terminal gate's idle-to-armed transition.
func (s *setupWizard) confirmArmed() tea.Cmd {
	s.publishEvent(events.KindConfirmArmed, "apply awaiting second confirmation")
	return nil
}

// stepChanged publishes every active-step move.
func (s *setupWizard) stepChanged(stepID string) {
	s.publishEvent(events.KindWizardStep, stepID)
}

func (s *setupWizard) publishEvent(kind, detail string) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(kind, "Project setup", detail); err != nil {
		logger.Warn("Failed to publish %s event: %v", kind, err)
	}
}

func (s *setupWizard) resetInputs() {
	s.themeInput.SetValue(s.cfg.Theme)
	s.levelInput.SetValue(s.cfg.LogLevel)
}

// draft returns the config as it would be after applying the wizard.
func (s *setupWizard) draft() config.Config {
	next := *s.cfg
	next.Theme = strings.TrimSpace(s.themeInput.Value())
	next.LogLevel = strings.TrimSpace(s.levelInput.Value())
	return next
}

// renderReview shows the project config change as a unified diff followed by
// the resulting YAML with syntax highlighting.
func (s *setupWizard) renderReview(width int) string {
	current, err := yaml.Marshal(s.cfg)
	if err != nil {
		current = nil
	}
	next, err := yaml.Marshal(s.draft())
	if err != nil {
		return "failed to render config"
	}

	t := theme.Current()
	head := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle))

	diff := udiff.Unified("modality.yml", "modality.yml", string(current), string(next))
	if diff == "" {
		diff = "(no changes)"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		head.Render("Changes"),
		renderDiff(diff),
		"",
		head.Render("Resulting modality.yml"),
		highlightYAML(string(next)),
	)
}

// renderDiff colors added and removed lines.
func renderDiff(diff string) string {
	t := theme.Current()
	add := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success))
	del := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error))
	ctx := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted))

	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			lines[i] = add.Render(line)
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			lines[i] = del.Render(line)
		default:
			lines[i] = ctx.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// highlightYAML runs the YAML through chroma for terminal output. Falls back
// to the plain text on any tokenizer error.
func highlightYAML(src string) string {
	lexer := lexers.Get("yaml")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	style := styles.Get("catppuccin-mocha")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}
	var b strings.Builder
	if err := formatter.Format(&b, style, iterator); err != nil {
		return src
	}
	return strings.TrimRight(b.String(), "\n")
}

// apply writes the project config file. Runs off the update loop as the
// wizard's completion callback.
func (s *setupWizard) apply(ctx context.Context) bool {
	next := s.draft()
	if err := config.WriteProject(&next); err != nil {
		logger.Error("Failed to write project config: %v", err)
		s.publishRejection(err.Error())
		return false
	}
	*s.cfg = next
	theme.SetCurrent(theme.ByName(next.Theme))
	return true
}
