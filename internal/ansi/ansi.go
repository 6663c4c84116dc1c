// Package ansi provides ANSI escape code constants and helpers for terminal output.
// All colored/styled CLI output references these constants, including the
// truecolor escapes for spectral class colors.
package ansi

import "fmt"

// ANSI SGR (Select Graphic Rendition) codes.
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Blue    = "\033[34m"
	Yellow  = "\033[33m"
	Green   = "\033[32m"
	Red     = "\033[31m"
	Cyan    = "\033[36m"
	Magenta = "\033[35m"
)

// Hex returns a 24-bit foreground escape for a "#rrggbb" color, or "" when
// hex is not in that form.
func Hex(hex string) string {
	var r, g, b uint8
	if len(hex) != 7 || hex[0] != '#' {
		return ""
	}
	if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return ""
	}
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", r, g, b)
}
