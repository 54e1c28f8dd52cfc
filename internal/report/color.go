package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color modes accepted by ResolveColor.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ResolveColor decides whether output to f should be colored. In auto mode
// color requires a terminal and an unset NO_COLOR.
func ResolveColor(mode string, f *os.File) (bool, error) {
	switch strings.ToLower(mode) {
	case ColorAlways:
		return true, nil
	case ColorNever:
		return false, nil
	case ColorAuto, "":
		if os.Getenv("NO_COLOR") != "" || f == nil {
			return false, nil
		}
		// TEST COVERAGE BLOCKED: Requires real TTY; term.IsTerminal cannot be mocked
		return term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("invalid color mode %q (valid: auto, always, never)", mode)
	}
}

type palette struct {
	bold   func(a ...interface{}) string
	red    func(a ...interface{}) string
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		bold:   mk(color.Bold),
		red:    mk(color.FgRed),
		green:  mk(color.FgGreen),
		yellow: mk(color.FgYellow),
	}
}
