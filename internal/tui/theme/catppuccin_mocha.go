package theme

// NewCatppuccinMocha creates the default Catppuccin Mocha theme.
func NewCatppuccinMocha() *Theme {
	return &Theme{
		Name:   "catppuccin-mocha",
		IsDark: true,

		// Semantic colors
		Primary:   "#cba6f7", // Mauve
		Secondary: "#89b4fa", // Blue
		Tertiary:  "#94e2d5", // Teal

		// Background hierarchy
		BgBase:     "#1e1e2e", // Base background
		BgMantle:   "#181825", // Slightly darker than base
		BgSurface0: "#313244", // Surface overlay (light)
		BgSurface1: "#45475a", // Surface overlay (lighter)
		BgOverlay:  "#6c7086", // Overlay accents

		// Foreground hierarchy
		FgMuted:  "#6c7086", // Timestamps, hints
		FgSubtle: "#a6adc8", // Secondary info
		FgBase:   "#cdd6f4", // Main text color
		FgBright: "#b4befe", // Emphasized text (Lavender)

		// Status colors
		Success: "#a6e3a1", // Green
		Warning: "#f9e2af", // Yellow
		Error:   "#f38ba8", // Red
		Info:    "#89dceb", // Sky

		// Borders
		BorderMuted:   "#313244",
		BorderDefault: "#45475a",
		BorderFocused: "#cba6f7",
	}
}
