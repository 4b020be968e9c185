package diagnostics

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

const (
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

type ReportOptions struct {
	Format Format
	Color  bool
	// Limit caps the number of records written; 0 writes all of them.
	Limit int
}

// ColorEnabled resolves mode against the output file. Auto mode colors only
// terminals and honors NO_COLOR.
func ColorEnabled(mode ColorMode, f *os.File) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Write renders diags to w in the requested format.
func Write(w io.Writer, diags []Diagnostic, opts ReportOptions) error {
	shown := diags
	if opts.Limit > 0 && len(shown) > opts.Limit {
		shown = shown[:opts.Limit]
	}

	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(shown)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(shown); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		return writeText(w, diags, shown, opts.Color)
	default:
		return fmt.Errorf("unknown diagnostics format %q", opts.Format)
	}
}

func writeText(w io.Writer, all, shown []Diagnostic, color bool) error {
	for _, d := range shown {
		line := d.String()
		if color {
			line = ansiRed + ansiBold + line + ansiReset
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if hidden := len(all) - len(shown); hidden > 0 {
		if _, err := fmt.Fprintf(w, "... %d more error(s) not shown\n", hidden); err != nil {
			return err
		}
	}
	if len(all) > 0 {
		_, err := fmt.Fprintf(w, "%d error(s) found\n", len(all))
		return err
	}
	return nil
}
