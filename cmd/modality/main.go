package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/syntax-syndicate/modality/internal/logger"
	"github.com/syntax-syndicate/modality/internal/tui/theme"
)

const (
	logoText1 = "█▀▄▀█ █▀█ █▀▄ ▄▀█ █   █ ▀█▀ █▄█"
	logoText2 = "█ ▀ █ █▄█ █▄▀ █▀█ █▄▄ █  █   █ "
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "modality",
	Short: "Modal dialog engine for terminal apps, with a demo TUI",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

modality is a dialog engine for Bubbletea v2 apps: focus-trapping surfaces,
single/double confirmation gates, submission forms, and a multi-step wizard
with async validators. The demo command runs a full-screen TUI exercising
all of them, with lifecycle events on an embedded NATS bus.`

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(configCmd)
}
