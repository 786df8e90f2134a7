// Package lipgloss implements sitefinity.Console with colored prefixes.
package lipgloss

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/sitefinity"
)

// Ensure Console implements sitefinity.Console at compile time.
var _ sitefinity.Console = (*Console)(nil)

// Console writes one line per message, prefixed by a red "error" or a
// green "success". Colors are only emitted when the writer is a terminal.
type Console struct {
	mu       sync.Mutex
	w        io.Writer
	errStyle lipgloss.Style
	okStyle  lipgloss.Style
}

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	return &Console{
		w:        w,
		errStyle: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
		okStyle:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
	}
}

// Error reports a failed run.
func (c *Console) Error(msg string) {
	c.print(c.errStyle.Render("error"), msg)
}

// Success reports a completed run.
func (c *Console) Success(msg string) {
	c.print(c.okStyle.Render("success"), msg)
}

func (c *Console) print(prefix, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s %s\n", prefix, msg)
}
