// Package render writes reconciliation results for people and for tools.
package render

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/mitchellh/colorstring"
	"github.com/ralt/composediff/internal/models"
	"github.com/ralt/composediff/internal/reconcile"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TextOptions controls text rendering
type TextOptions struct {
	// Color wraps each line in ANSI color codes
	Color bool
	// Summary prints only the counts line
	Summary bool
}

// ColorEnabled reports whether w is a terminal that should get colors.
// NO_COLOR in the environment or noColor turn colors off.
func ColorEnabled(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Text writes removed packages in red, added in green and changed in
// yellow, each group sorted by name, followed by a summary line
func Text(w io.Writer, result *reconcile.Result, opts TextOptions) error {
	c := &colorstring.Colorize{
		Colors:  colorstring.DefaultColors,
		Disable: !opts.Color,
		Reset:   false,
	}
	line := func(color, text string) error {
		_, err := fmt.Fprintln(w, c.Color("["+color+"]")+text+c.Color("[reset]"))
		return err
	}

	if !opts.Summary {
		for _, pkg := range result.Removed.Sorted() {
			if err := line("red", fmt.Sprintf("%s REMOVED (%s)", pkg.Name, nevr(pkg))); err != nil {
				return err
			}
		}
		for _, pkg := range result.Added.Sorted() {
			if err := line("green", fmt.Sprintf("%s ADDED (%s)", pkg.Name, nevr(pkg))); err != nil {
				return err
			}
		}
		for _, ch := range result.Changed {
			text := fmt.Sprintf("%s CHANGED (%s -> %s) %s", ch.Name(), ch.Old.EVR(), ch.New.EVR(), ch.Direction)
			if err := line("yellow", text); err != nil {
				return err
			}
		}
	}

	p := message.NewPrinter(language.English)
	_, err := p.Fprintf(w, "%d removed, %d added, %d changed, %d unchanged\n",
		result.Removed.Len(), result.Added.Len(), len(result.Changed), result.Unchanged)
	return err
}

// nevr formats name-epoch:version-release
func nevr(pkg models.Package) string {
	return fmt.Sprintf("%s-%s:%s-%s", pkg.Name, pkg.Epoch, pkg.Version, pkg.Release)
}
