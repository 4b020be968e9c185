// Package loader reads serialized Bantam Java syntax trees from YAML files
// and resolves the imports between them.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"bantam-compiler/ast"
)

// Ext is appended to import names that carry no extension.
const Ext = ".yaml"

var (
	ErrImportCycle = errors.New("import cycle")
	ErrMalformed   = errors.New("malformed program document")
)

// File is one decoded program document.
type File struct {
	Name    string
	Path    string
	Imports []string
	Classes []*ast.Class
}

// Decode reads a single document. filename is recorded on every class and
// used in error messages.
func Decode(data []byte, filename string) (*File, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", filename, ErrMalformed, err)
	}
	d := &decoder{filename: filename}
	f, err := d.file(&root)
	if err != nil {
		return nil, err
	}
	if f.Name == "" {
		base := filepath.Base(filename)
		f.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	f.Path = filename
	return f, nil
}

type Loader struct {
	processed map[string]*File
	stack     []string // module names being loaded, for cycle detection
	order     []*File
}

func New() *Loader {
	return &Loader{
		processed: make(map[string]*File),
		stack:     make([]string, 0),
	}
}

// Files lists every file loaded so far, each after the files it imports.
func (l *Loader) Files() []*File {
	return l.order
}

// LoadProgram loads path and everything it imports, directly or not. The
// classes of imported files come first, each file exactly once.
func (l *Loader) LoadProgram(path string) (*ast.Program, error) {
	if _, err := l.load(filepath.Clean(path)); err != nil {
		return nil, err
	}

	program := &ast.Program{}
	for _, f := range l.order {
		program.Classes = append(program.Classes, f.Classes...)
	}
	return program, nil
}

func (l *Loader) load(path string) (*File, error) {
	if f, ok := l.processed[path]; ok {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	f, err := Decode(data, path)
	if err != nil {
		return nil, err
	}

	if l.inStack(f.Name) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrImportCycle, strings.Join(l.stack, " -> "), f.Name)
	}

	l.stack = append(l.stack, f.Name)
	dir := filepath.Dir(path)
	for _, imp := range f.Imports {
		if filepath.Ext(imp) == "" {
			imp += Ext
		}
		if _, err := l.load(filepath.Join(dir, imp)); err != nil {
			return nil, err
		}
	}
	l.stack = l.stack[:len(l.stack)-1]

	l.processed[path] = f
	l.order = append(l.order, f)
	return f, nil
}

func (l *Loader) inStack(name string) bool {
	for _, m := range l.stack {
		if m == name {
			return true
		}
	}
	return false
}
