package main

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/syntax-syndicate/modality/internal/config"
	"github.com/syntax-syndicate/modality/internal/events"
	"github.com/syntax-syndicate/modality/internal/logger"
	"github.com/syntax-syndicate/modality/internal/tui"
	"github.com/syntax-syndicate/modality/internal/tui/theme"
)

var demoFlags struct {
	theme       string
	confirmMode string
	noEvents    bool
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the full-screen dialog demo",
	RunE:  runDemo,
}

func init() {
	demoCmd.Flags().StringVar(&demoFlags.theme, "theme", "", "Color theme (default: from config)")
	demoCmd.Flags().StringVar(&demoFlags.confirmMode, "confirm-mode", "", "Confirmation mode: double or single")
	demoCmd.Flags().BoolVar(&demoFlags.noEvents, "no-events", false, "Disable the lifecycle event bus")
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Flags win over config and environment.
	if demoFlags.theme != "" {
		cfg.Theme = demoFlags.theme
	}
	if demoFlags.confirmMode != "" {
		cfg.ConfirmMode = demoFlags.confirmMode
	}
	if demoFlags.noEvents {
		cfg.Events = false
	}

	if cfg.ConfirmMode != "double" && cfg.ConfirmMode != "single" {
		return fmt.Errorf("invalid confirm mode %q (want double or single)", cfg.ConfirmMode)
	}
	if !theme.Known(cfg.Theme) {
		return fmt.Errorf("unknown theme %q", cfg.Theme)
	}
	theme.SetCurrent(theme.ByName(cfg.Theme))

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}

	var bus *events.Bus
	if cfg.Events {
		bus, err = events.NewBus()
		if err != nil {
			return fmt.Errorf("starting event bus: %w", err)
		}
		defer func() {
			if err := bus.Close(); err != nil {
				logger.Warn("Event bus close: %v", err)
			}
		}()
	}

	app := tui.NewApp(cfg, bus)
	p := tea.NewProgram(app)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running demo: %w", err)
	}
	return nil
}
