package logger

import (
	"github.com/fatih/color"
)

// Style tags a piece of console text with its presentation.
// Only this package turns a Style into terminal escape codes.
type Style int

const (
	// StylePlain prints text unchanged.
	StylePlain Style = iota
	// StyleHeading is used for section headers and the summary line.
	StyleHeading
	// StyleInfo is used for directory and progress notices.
	StyleInfo
	// StyleMatch highlights per-file occurrence counts.
	StyleMatch
	// StyleSuccess marks files that were rewritten.
	StyleSuccess
	// StyleWarning marks dry-run notices and recoverable problems.
	StyleWarning
	// StyleError marks fatal or per-file failures.
	StyleError
	// StyleMuted is used for low-importance detail such as searched files.
	StyleMuted
)

// String returns the lower-case style name.
func (s Style) String() string {
	switch s {
	case StylePlain:
		return "plain"
	case StyleHeading:
		return "heading"
	case StyleInfo:
		return "info"
	case StyleMatch:
		return "match"
	case StyleSuccess:
		return "success"
	case StyleWarning:
		return "warning"
	case StyleError:
		return "error"
	case StyleMuted:
		return "muted"
	default:
		return "unknown"
	}
}

// colorScheme maps each Style to the colour it is printed with.
// Green: directory and success notices
// Red: matches and errors
// Yellow: warnings
type colorScheme struct {
	heading *color.Color
	info    *color.Color
	match   *color.Color
	success *color.Color
	warn    *color.Color
	fail    *color.Color
	muted   *color.Color
}

// newColorScheme creates the standard console color scheme.
func newColorScheme() *colorScheme {
	return &colorScheme{
		heading: color.New(color.Bold),
		info:    color.New(color.FgGreen),
		match:   color.New(color.FgRed),
		success: color.New(color.FgGreen, color.Bold),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed, color.Bold),
		muted:   color.New(color.FgHiBlack),
	}
}

// forStyle returns the colour for style, or nil for plain text.
func (cs *colorScheme) forStyle(style Style) *color.Color {
	switch style {
	case StyleHeading:
		return cs.heading
	case StyleInfo:
		return cs.info
	case StyleMatch:
		return cs.match
	case StyleSuccess:
		return cs.success
	case StyleWarning:
		return cs.warn
	case StyleError:
		return cs.fail
	case StyleMuted:
		return cs.muted
	default:
		return nil
	}
}

// colorize wraps text in the escape codes for style.
// color.Color honours NO_COLOR on its own, so EnableColor is forced here:
// the caller has already decided the writer is a terminal.
func (cs *colorScheme) colorize(text string, style Style) string {
	c := cs.forStyle(style)
	if c == nil || text == "" {
		return text
	}
	styled := *c
	styled.EnableColor()
	return styled.Sprint(text)
}
