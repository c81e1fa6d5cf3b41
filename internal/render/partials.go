package render

import (
	"context"
	"io/fs"
	"path"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	HeaderPartial = "header"
	FooterPartial = "footer"
)

// Partials reads named markup fragments from an fs.FS, caching each one after
// the first successful read.
type Partials struct {
	fsys fs.FS
	dir  string

	mu    sync.RWMutex
	cache map[string]string
}

func NewPartials(fsys fs.FS, dir string) *Partials {
	return &Partials{fsys: fsys, dir: dir, cache: map[string]string{}}
}

// Load returns the fragment stored as <dir>/<name>.html.
func (p *Partials) Load(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.RLock()
	s, ok := p.cache[name]
	p.mu.RUnlock()
	if ok {
		return s, nil
	}

	raw, err := fs.ReadFile(p.fsys, path.Join(p.dir, name+".html"))
	if err != nil {
		return "", errors.Wrapf(err, "load partial %s", name)
	}

	p.mu.Lock()
	p.cache[name] = string(raw)
	p.mu.Unlock()
	return string(raw), nil
}

// LoadHeaderFooter fetches both page partials concurrently.
func (p *Partials) LoadHeaderFooter(ctx context.Context) (header, footer string, err error) {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		header, err = p.Load(ctx, HeaderPartial)
		return err
	})
	g.Go(func() error {
		var err error
		footer, err = p.Load(ctx, FooterPartial)
		return err
	})

	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return header, footer, nil
}
