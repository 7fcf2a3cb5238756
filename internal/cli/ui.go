package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/iconatlas/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

// ANSI 256 colors.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	StyleLink    = lipgloss.NewStyle().Foreground(colorBlue).Underline(true) // server URLs
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)                  // details, spinner text
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)                // paths and values
	StyleNumber  = lipgloss.NewStyle().Foreground(colorCyan)                 // counts
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Status Output
// =============================================================================

// Status line markers.
const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// status prints one marker-prefixed line to stdout.
func status(marker lipgloss.Style, icon, msg string) {
	fmt.Println(marker.Render(icon) + " " + msg)
}

func printSuccess(format string, args ...any) {
	status(styleIconSuccess, iconSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	status(styleIconError, iconError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	status(styleIconWarning, iconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	status(styleIconInfo, iconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints a dimmed, indented line under the previous status.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written output file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a label padded to a fixed column, then value.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep suggests a command to run next.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints build statistics on a single line.
func printStats(s pipeline.Stats) {
	fmt.Println("  " + formatStats(s))
}

// formatStats renders build statistics, e.g.
// "12 icons · 2 failed · 256×256 · 71.3% used".
func formatStats(s pipeline.Stats) string {
	parts := []string{fmt.Sprintf("%d icons", s.Rasterized)}
	if s.Failed > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d failed", s.Failed)))
	}
	if s.SheetSize > 0 {
		parts = append(parts, fmt.Sprintf("%d×%d", s.SheetSize, s.SheetSize))
		parts = append(parts, fmt.Sprintf("%.1f%% used", s.Utilization*100))
	}
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}
