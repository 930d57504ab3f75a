package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	colorModeAutoStringConstant          = "auto"
	colorModeAlwaysStringConstant        = "always"
	colorModeNeverStringConstant         = "never"
	noColorEnvironmentVariableConstant   = "NO_COLOR"
	unsupportedColorModeTemplateConstant = "unsupported color mode: %s"
)

// ColorMode selects when report output carries ANSI color sequences.
type ColorMode string

// Supported color modes.
const (
	ColorModeAuto   ColorMode = ColorMode(colorModeAutoStringConstant)
	ColorModeAlways ColorMode = ColorMode(colorModeAlwaysStringConstant)
	ColorModeNever  ColorMode = ColorMode(colorModeNeverStringConstant)
)

// ParseColorMode normalizes a configured color mode.
func ParseColorMode(value string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(strings.TrimSpace(value))) {
	case ColorModeAuto:
		return ColorModeAuto, nil
	case ColorModeAlways:
		return ColorModeAlways, nil
	case ColorModeNever:
		return ColorModeNever, nil
	default:
		return "", fmt.Errorf(unsupportedColorModeTemplateConstant, value)
	}
}

// ColorEnabled decides whether output written to destination should be colored.
// In auto mode color requires a terminal and an unset NO_COLOR variable.
func ColorEnabled(mode ColorMode, destination io.Writer) bool {
	switch mode {
	case ColorModeAlways:
		return true
	case ColorModeNever:
		return false
	}

	if len(os.Getenv(noColorEnvironmentVariableConstant)) > 0 {
		return false
	}
	destinationFile, isFile := destination.(*os.File)
	if !isFile {
		return false
	}
	return term.IsTerminal(int(destinationFile.Fd()))
}

// NewRenderer returns a lipgloss renderer emitting basic ANSI colors, or plain text when colorEnabled is false.
func NewRenderer(colorEnabled bool) *lipgloss.Renderer {
	renderer := lipgloss.NewRenderer(io.Discard)
	if colorEnabled {
		renderer.SetColorProfile(termenv.ANSI)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return renderer
}
