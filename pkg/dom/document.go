// Package dom models the document around the storefront's mount point.
//
// Document records the state a browser page would hold: the #app container's
// HTML, the body's data attributes, the title and the active navigation tab.
// Each mutation is also passed to an optional sink as an Op. The server uses
// the sink to forward mutations to the browser over the websocket.
package dom

import "sync"

// Op kinds, one per Document mutation.
const (
	OpRender = "render"
	OpAttr   = "attr"
	OpTitle  = "title"
	OpNav    = "nav"
)

// Op is a single document mutation.
type Op struct {
	Kind  string
	Name  string
	Value string
}

// Sink receives document mutations in the order they were applied.
type Sink func(op Op)

// Document is an in-memory document. It is safe for concurrent use.
type Document struct {
	mu        sync.Mutex
	html      string
	attrs     map[string]string
	title     string
	activeNav string
	renders   int
	sink      Sink
}

// New creates an empty document. sink may be nil.
func New(sink Sink) *Document {
	return &Document{
		attrs: make(map[string]string),
		sink:  sink,
	}
}

// Render replaces the mount point's content.
func (d *Document) Render(html string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.html = html
	d.renders++
	d.emit(Op{Kind: OpRender, Value: html})
}

// SetBodyAttr sets a body data attribute. An empty value removes it.
func (d *Document) SetBodyAttr(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if value == "" {
		delete(d.attrs, name)
	} else {
		d.attrs[name] = value
	}
	d.emit(Op{Kind: OpAttr, Name: name, Value: value})
}

// SetTitle sets the document title.
func (d *Document) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.title = title
	d.emit(Op{Kind: OpTitle, Value: title})
}

// SetActiveNav marks the navigation tab of route as active.
func (d *Document) SetActiveNav(route string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.activeNav = route
	d.emit(Op{Kind: OpNav, Value: route})
}

// emit must be called with d.mu held so sinks observe mutations in order.
func (d *Document) emit(op Op) {
	if d.sink != nil {
		d.sink(op)
	}
}

// HTML returns the mount point's content.
func (d *Document) HTML() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.html
}

// BodyAttr returns a body data attribute.
func (d *Document) BodyAttr(name string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attrs[name]
}

// Title returns the document title.
func (d *Document) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title
}

// ActiveNav returns the active navigation tab.
func (d *Document) ActiveNav() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.activeNav
}

// Renders returns how many times the mount point was rendered.
func (d *Document) Renders() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.renders
}
