// Package surface is the rendering target for views: named containers that
// hold markup and route user events to registered handlers.
//
// Replacing a container's content drops the handlers registered on it, the
// same way replacing an element's inner markup drops its listeners.
package surface

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"Storefront/internal/render"
)

var ErrNoHandler = errors.New("no handler for event")

type Handler func(ctx context.Context, value string) error

type Container interface {
	SetContent(markup string)
	Content() string
	// On registers h for event (e.g. "click", "change") on target, an
	// identifier carried by the markup that raises the event.
	On(event, target string, h Handler)
}

// Event is a user action posted back from rendered markup.
type Event struct {
	Type   string
	Target string
	Value  string
}

type handlerKey struct {
	event  string
	target string
}

type Element struct {
	mu       sync.Mutex
	content  string
	handlers map[handlerKey]Handler
}

func (e *Element) SetContent(markup string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.content = markup
	e.handlers = nil
}

func (e *Element) Content() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.content
}

func (e *Element) On(event, target string, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handlers == nil {
		e.handlers = map[handlerKey]Handler{}
	}
	e.handlers[handlerKey{event: event, target: target}] = h
}

func (e *Element) handler(k handlerKey) (Handler, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, ok := e.handlers[k]
	return h, ok
}

// Page is one rendered document made of named containers.
type Page struct {
	mu       sync.Mutex
	elements map[string]*Element
}

func NewPage() *Page {
	return &Page{elements: map[string]*Element{}}
}

// Container returns the named container, creating it empty on first use.
func (p *Page) Container(name string) Container {
	return p.element(name)
}

func (p *Page) element(name string) *Element {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.elements[name]
	if !ok {
		e = &Element{}
		p.elements[name] = e
	}
	return e
}

func (p *Page) Content(name string) string {
	return p.element(name).Content()
}

// Dispatch runs the handler registered for ev. It returns ErrNoHandler when
// nothing on the page listens for that event and target.
func (p *Page) Dispatch(ctx context.Context, ev Event) error {
	k := handlerKey{event: ev.Type, target: ev.Target}

	p.mu.Lock()
	elements := make([]*Element, 0, len(p.elements))
	for _, e := range p.elements {
		elements = append(elements, e)
	}
	p.mu.Unlock()

	for _, e := range elements {
		if h, ok := e.handler(k); ok {
			return h(ctx, ev.Value)
		}
	}
	return errors.Wrapf(ErrNoHandler, "%s on %s", ev.Type, ev.Target)
}

// Compose expands layout with every container's content (inserted as trusted
// markup under the container's name) plus the extra values.
func (p *Page) Compose(layout string, extra render.Record) string {
	rec := render.Record{}
	for k, v := range extra {
		rec[k] = v
	}

	p.mu.Lock()
	for name, e := range p.elements {
		rec[name] = render.Raw(e.Content())
	}
	p.mu.Unlock()

	return render.Render(layout, rec)
}
