package color

import (
	"os"

	"framestack/pkg/arena"

	"github.com/muesli/termenv"
)

var profile = termenv.EnvColorProfile()

func init() {
	if os.Getenv("NO_COLOR") != "" || !isTerminal() {
		profile = termenv.Ascii
	}
}

func isTerminal() bool {
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

// EnableColor switches colored output on or off.
func EnableColor(enable bool) {
	if enable {
		profile = termenv.ANSI256
		return
	}
	profile = termenv.Ascii
}

func IsColorEnabled() bool {
	return profile != termenv.Ascii
}

// Colorize paints text with an ANSI color number ("1".."15") or hex value.
func Colorize(color, text string) string {
	return profile.String(text).Foreground(profile.Color(color)).String()
}

func GreenText(text string) string {
	return Colorize("2", text)
}

func CyanText(text string) string {
	return Colorize("6", text)
}

func GrayText(text string) string {
	return Colorize("8", text)
}

var kindColors = map[arena.DataType]string{
	arena.Int:  "4",
	arena.Ptr:  "5",
	arena.Bool: "2",
}

// Kind renders a data type tag as "[Tag]" in its own color.
func Kind(t arena.DataType) string {
	c, ok := kindColors[t]
	if !ok {
		c = "1"
	}
	return Colorize(c, "["+t.String()+"]")
}
