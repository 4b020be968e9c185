// Package symtab implements the block-scoped variable table used during
// semantic analysis. Each frame maps an identifier to its declared type name.
package symtab

type Table struct {
	frames []map[string]string
}

// New returns a table with a single, empty scope.
func New() *Table {
	return &Table{frames: []map[string]string{make(map[string]string)}}
}

// NewChild returns a table that sees every binding of parent through its
// outer frames and starts with a fresh innermost frame. The parent's frames
// are shared, not copied; only the child's own frames are written to.
func NewChild(parent *Table) *Table {
	frames := make([]map[string]string, len(parent.frames), len(parent.frames)+1)
	copy(frames, parent.frames)
	frames = append(frames, make(map[string]string))
	return &Table{frames: frames}
}

func (t *Table) EnterScope() {
	t.frames = append(t.frames, make(map[string]string))
}

// ExitScope discards the innermost frame and all of its bindings.
func (t *Table) ExitScope() {
	if len(t.frames) <= 1 {
		panic("symtab: exit of outermost scope")
	}
	t.frames[len(t.frames)-1] = nil
	t.frames = t.frames[:len(t.frames)-1]
}

// Add binds name in the innermost frame, replacing any binding there.
func (t *Table) Add(name, typ string) {
	t.frames[len(t.frames)-1][name] = typ
}

// Lookup searches the frames from innermost to outermost.
func (t *Table) Lookup(name string) (string, bool) {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if typ, ok := t.frames[i][name]; ok {
			return typ, true
		}
	}
	return "", false
}

// Peek searches the innermost frame only.
func (t *Table) Peek(name string) (string, bool) {
	typ, ok := t.frames[len(t.frames)-1][name]
	return typ, ok
}

// ScopeLevel is the number of frames currently on the stack.
func (t *Table) ScopeLevel() int {
	return len(t.frames)
}

// LookupLevel returns the index of the innermost frame binding name, or -1.
func (t *Table) LookupLevel(name string) int {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if _, ok := t.frames[i][name]; ok {
			return i
		}
	}
	return -1
}
