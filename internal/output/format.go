package output

import (
	"strings"

	"github.com/fatih/color"
)

// Visual separator constants for sectioned output.
const (
	// SeparatorWidth is the width of separator lines.
	SeparatorWidth = 60

	// SeparatorChar is the character used for separator lines.
	SeparatorChar = "─"
)

// Separator returns a separator line of the default width.
func Separator() string {
	return strings.Repeat(SeparatorChar, SeparatorWidth)
}

// ColoredSeparator returns a colored separator line.
func ColoredSeparator(c *color.Color) string {
	return c.Sprint(Separator())
}

// CyanSeparator returns a cyan separator line for section headers.
func CyanSeparator() string {
	return ColoredSeparator(color.New(color.FgCyan))
}
