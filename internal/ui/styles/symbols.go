package styles

import "github.com/charmbracelet/x/ansi"

// Symbols holds the glyphs used in status columns
type Symbols struct {
	Clean   string
	Dirty   string
	Ahead   string
	Behind  string
	Native  string
	Bridged string
}

var defaultSymbols = Symbols{
	Clean:   "✓",
	Dirty:   "●",
	Ahead:   "↑",
	Behind:  "↓",
	Native:  "host",
	Bridged: "wsl",
}

var nerdfontSymbols = Symbols{
	Clean:   "\uf00c", // nf-fa-check
	Dirty:   "\uf111", // nf-fa-circle
	Ahead:   "\uf062", // nf-fa-arrow_up
	Behind:  "\uf063", // nf-fa-arrow_down
	Native:  "\uf17a", // nf-fa-windows
	Bridged: "\uf17c", // nf-fa-linux
}

var (
	useNerdfont    bool
	currentSymbols = defaultSymbols
)

// SetNerdfont enables or disables nerd font symbols
func SetNerdfont(enabled bool) {
	useNerdfont = enabled
	if enabled {
		currentSymbols = nerdfontSymbols
	} else {
		currentSymbols = defaultSymbols
	}
}

// NerdfontEnabled returns whether nerd font symbols are enabled
func NerdfontEnabled() bool {
	return useNerdfont
}

// CurrentSymbols returns the current symbol set
func CurrentSymbols() Symbols {
	return currentSymbols
}

// Link wraps text in an OSC 8 hyperlink to url. Terminals without hyperlink
// support show text unchanged.
func Link(url, text string) string {
	if url == "" {
		return text
	}
	return ansi.SetHyperlink(url) + text + ansi.ResetHyperlink()
}
