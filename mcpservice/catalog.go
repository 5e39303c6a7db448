package mcpservice

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/ggoodman/mcp-stdio-examples/mcp"
)

const (
	// StaticResourceURIPrefix prefixes every catalog URI; the suffix is the
	// 1-based ordinal.
	StaticResourceURIPrefix = "test://static/resource/"

	// DefaultCatalogSize is the number of records in the demonstration catalog.
	DefaultCatalogSize = 100

	mimeTypeText   = "text/plain"
	mimeTypeBinary = "application/octet-stream"
)

// Catalog is an immutable, ordered set of resource records. Ordinal i
// (1-based) lives at index i-1 and has URI StaticResourceURIPrefix+i. The
// zero value is an empty catalog.
type Catalog struct {
	records []mcp.Resource
}

// NewCatalog builds a catalog from records. The slice is copied so later
// changes by the caller are not observed.
func NewCatalog(records []mcp.Resource) Catalog {
	out := make([]mcp.Resource, len(records))
	copy(out, records)
	return Catalog{records: out}
}

// NewStaticCatalog generates size records. Even ordinals carry plain text,
// odd ordinals carry a base64 blob.
func NewStaticCatalog(size int) Catalog {
	if size < 0 {
		size = 0
	}
	records := make([]mcp.Resource, size)
	for i := range records {
		records[i] = staticRecord(i + 1)
	}
	return Catalog{records: records}
}

// StaticResourceURI returns the catalog URI for a 1-based ordinal.
func StaticResourceURI(ordinal int) string {
	return StaticResourceURIPrefix + strconv.Itoa(ordinal)
}

func staticRecord(ordinal int) mcp.Resource {
	r := mcp.Resource{
		URI:  StaticResourceURI(ordinal),
		Name: fmt.Sprintf("Resource %d", ordinal),
	}
	if ordinal%2 == 0 {
		r.MimeType = mimeTypeText
		r.Text = fmt.Sprintf("Resource %d: This is a plaintext resource", ordinal)
	} else {
		r.MimeType = mimeTypeBinary
		r.Blob = base64.StdEncoding.EncodeToString(fmt.Appendf(nil, "Resource %d: This is a base64 blob", ordinal))
	}
	return r
}

// Len returns the number of records.
func (c Catalog) Len() int { return len(c.records) }

// At returns the record at a zero-based index.
func (c Catalog) At(index int) (mcp.Resource, bool) {
	if index < 0 || index >= len(c.records) {
		return mcp.Resource{}, false
	}
	return c.records[index], true
}

// Slice returns a copy of the records in [start, end), clamped to the catalog
// bounds.
func (c Catalog) Slice(start, end int) []mcp.Resource {
	start = max(0, min(start, len(c.records)))
	end = max(start, min(end, len(c.records)))
	out := make([]mcp.Resource, end-start)
	copy(out, c.records[start:end])
	return out
}

// Lookup resolves a URI to its record. The suffix after the prefix must be
// the canonical decimal ordinal, so "test://static/resource/007" is unknown.
func (c Catalog) Lookup(uri string) (mcp.Resource, bool) {
	suffix, ok := strings.CutPrefix(uri, StaticResourceURIPrefix)
	if !ok {
		return mcp.Resource{}, false
	}
	ordinal, err := strconv.Atoi(suffix)
	if err != nil || strconv.Itoa(ordinal) != suffix {
		return mcp.Resource{}, false
	}
	r, ok := c.At(ordinal - 1)
	if !ok || r.URI != uri {
		return mcp.Resource{}, false
	}
	return r, true
}
