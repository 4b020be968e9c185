// Package diagnostics records the errors found while analysing a program.
// Recording never fails and never stops the analysis; the driver decides
// what to do with the accumulated list.
package diagnostics

import "fmt"

type Kind int

const (
	SemantError Kind = iota
)

func (k Kind) String() string {
	switch k {
	case SemantError:
		return "semantic error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type Diagnostic struct {
	Kind    Kind   `json:"kind" yaml:"kind"`
	File    string `json:"file" yaml:"file"`
	Line    int    `json:"line" yaml:"line"`
	Message string `json:"message" yaml:"message"`
}

func (d Diagnostic) String() string {
	file := d.File
	if file == "" {
		file = "<unknown>"
	}
	return fmt.Sprintf("%s:%d: %s: %s", file, d.Line, d.Kind, d.Message)
}

// Sink is the recording contract the analysis passes depend on.
type Sink interface {
	Register(kind Kind, file string, line int, message string)
}

// Collector is a Sink that keeps every record in registration order.
type Collector struct {
	diags []Diagnostic
}

func NewCollector() *Collector {
	return &Collector{diags: []Diagnostic{}}
}

func (c *Collector) Register(kind Kind, file string, line int, message string) {
	c.diags = append(c.diags, Diagnostic{Kind: kind, File: file, Line: line, Message: message})
}

func (c *Collector) Diagnostics() []Diagnostic {
	return c.diags
}

func (c *Collector) Count() int {
	return len(c.diags)
}

func (c *Collector) HasErrors() bool {
	return len(c.diags) > 0
}

func (c *Collector) Clear() {
	c.diags = c.diags[:0]
}
