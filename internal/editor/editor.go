// Package editor holds the project name list behind the roster editor UI:
// an append-only ordered list of names plus its two derived views, the
// rendered list items and the comma-joined form field.
package editor

import (
	"html/template"
	"strings"
	"sync"
)

// List is an ordered sequence of project names. Insertion order is
// significant, duplicates are allowed, and entries are never removed.
type List struct {
	mu    sync.RWMutex
	names []string
}

// NewList creates an empty project list.
func NewList() *List {
	return &List{}
}

// NewListFrom creates a list pre-populated with existing names, preserving
// their order. Names are taken as-is; they were trimmed when first added.
func NewListFrom(names []string) *List {
	l := NewList()
	l.names = append(l.names, names...)
	return l
}

// Add trims raw and appends the result to the list. Whitespace-only input is
// a silent no-op, not an error. Returns true if a name was appended.
func (l *List) Add(raw string) bool {
	name := strings.TrimSpace(raw)
	if name == "" {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.names = append(l.names, name)
	return true
}

// Names returns a copy of the list in insertion order.
func (l *List) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Len returns the number of names in the list.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.names)
}

// Serialized joins the list with literal commas for form submission.
// Names containing a comma are not escaped; once serialized, "A,B" is
// indistinguishable from the two entries "A" and "B". That ambiguity is
// inherited from the submission format and must not be papered over here.
func (l *List) Serialized() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return strings.Join(l.names, ",")
}

// RenderItem renders a single list item with name as escaped text content.
// Rendering is split from Add so the view can be tested against a known
// list without a UI harness.
func RenderItem(name string) template.HTML {
	return template.HTML("<li>" + template.HTMLEscapeString(name) + "</li>")
}

// RenderList renders every item in order, one list element per name.
func (l *List) RenderList() template.HTML {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var b strings.Builder
	for _, name := range l.names {
		b.WriteString(string(RenderItem(name)))
	}
	return template.HTML(b.String())
}
