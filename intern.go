// Completion: 100% - Intern table complete
package cppbe

import "sync"

// internTable is the process-wide, append-only string intern pool described
// in spec.md §5: "Interned string handles are process-wide and immutable
// once interned." It backs every InternedString in the IR.
type internTable struct {
	mu     sync.Mutex
	byText map[string]InternedString
	texts  []string
}

var internPool = &internTable{byText: make(map[string]InternedString)}

// Intern returns the handle for s, allocating a new one on first sight.
func Intern(s string) InternedString {
	return internPool.intern(s)
}

func (t *internTable) intern(s string) InternedString {
	t.mu.Lock()
	defer t.mu.Unlock()
	if h, ok := t.byText[s]; ok {
		return h
	}
	h := InternedString(len(t.texts))
	t.texts = append(t.texts, s)
	t.byText[s] = h
	return h
}

func (t *internTable) lookup(h InternedString) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(h) >= len(t.texts) {
		return ""
	}
	return t.texts[h]
}
