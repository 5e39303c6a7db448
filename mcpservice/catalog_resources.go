package mcpservice

import (
	"context"
	"log/slog"

	"github.com/ggoodman/mcp-stdio-examples/mcp"
	"github.com/ggoodman/mcp-stdio-examples/sessions"
)

// DefaultCatalogPageSize is the number of records returned per list page.
const DefaultCatalogPageSize = 10

// CatalogResourcesOption configures NewCatalogResources.
type CatalogResourcesOption func(*CatalogResources)

// WithCatalogPageSize overrides the page size. Values < 1 are ignored.
func WithCatalogPageSize(n int) CatalogResourcesOption {
	return func(r *CatalogResources) {
		if n >= 1 {
			r.pageSize = n
		}
	}
}

// WithCatalogLogger sets the logger used for read diagnostics.
func WithCatalogLogger(l *slog.Logger) CatalogResourcesOption {
	return func(r *CatalogResources) {
		if l != nil {
			r.log = l
		}
	}
}

// CatalogResources serves a Catalog over resources/list and resources/read.
// It holds no mutable state; every call is independent and safe for
// concurrent use.
type CatalogResources struct {
	catalog  Catalog
	pageSize int
	log      *slog.Logger
}

var _ ResourcesCapability = (*CatalogResources)(nil)

// NewCatalogResources constructs a ResourcesCapability backed by c.
func NewCatalogResources(c Catalog, opts ...CatalogResourcesOption) *CatalogResources {
	r := &CatalogResources{
		catalog:  c,
		pageSize: DefaultCatalogPageSize,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ListResources implements ResourcesCapability. The cursor is decoded to an
// offset; the page covers [offset, offset+pageSize) and carries a next cursor
// only when records remain after it.
func (r *CatalogResources) ListResources(ctx context.Context, _ sessions.Session, cursor *string) (Page[mcp.Resource], error) {
	size := r.catalog.Len()
	start := DecodeCursor(cursor)
	if start >= size {
		return NewPage[mcp.Resource](nil), nil
	}
	end := min(start+r.pageSize, size)
	items := r.catalog.Slice(start, end)
	if end < size {
		return NewPage(items, WithNextCursor[mcp.Resource](EncodeCursor(end))), nil
	}
	return NewPage(items), nil
}

// ReadResource implements ResourcesCapability.
func (r *CatalogResources) ReadResource(ctx context.Context, _ sessions.Session, uri string) ([]mcp.Resource, error) {
	rec, ok := r.catalog.Lookup(uri)
	if !ok {
		r.log.DebugContext(ctx, "resources.read.unknown", slog.String("uri", uri))
		return nil, NewUnknownResourceError(uri)
	}
	r.log.DebugContext(ctx, "resources.read.ok", slog.String("uri", uri), slog.Bool("binary", rec.IsBinary()))
	return []mcp.Resource{rec}, nil
}
