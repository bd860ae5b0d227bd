package icon

import (
	"fmt"
	"strings"
)

// Default locations for local and remote icon sources.
const (
	DefaultBasePath  = "images"
	DefaultRemoteURL = "https://sky.shiiyu.moe/item"
)

// categoryDirs are the conventional local path templates, one per item
// category directory layout.
var categoryDirs = []string{"accessories", "equipment", "other", "tools", "weapons"}

// Icon is the resolved rendering input for one item: the cleaned display
// name, the requested pixel size, and the ordered candidate sources to try.
type Icon struct {
	CleanName  string
	SizePx     int
	ItemID     string // resolved canonical id, empty if none
	Candidates []string
}

// Resolver builds fallback candidate lists for item icons. It holds only
// read-only indices and is safe for concurrent use.
type Resolver struct {
	catalog  *Catalog
	index    *TextureIndex
	basePath string
	remote   string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithTextureIndex attaches a pre-generated texture index.
func WithTextureIndex(idx *TextureIndex) ResolverOption {
	return func(r *Resolver) {
		r.index = idx
	}
}

// WithBasePath overrides the local image directory.
func WithBasePath(path string) ResolverOption {
	return func(r *Resolver) {
		r.basePath = path
	}
}

// WithRemoteURL overrides the remote image service base URL.
func WithRemoteURL(url string) ResolverOption {
	return func(r *Resolver) {
		r.remote = url
	}
}

// NewResolver creates an icon resolver over the given catalog. The catalog
// may be nil, in which case only slug-based local paths and the remote
// service remain.
func NewResolver(catalog *Catalog, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		catalog:  catalog,
		basePath: DefaultBasePath,
		remote:   DefaultRemoteURL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve builds the ordered candidate list for an item. The explicit
// itemID is preferred when given; otherwise the id is recovered from the
// catalog by verbatim name, normalized name, and finally longest-suffix
// match. Deterministic for fixed indices and inputs.
func (r *Resolver) Resolve(itemName string, sizePx int, itemID string) Icon {
	cleanName := StripFormatting(itemName)
	resolvedID := r.resolveID(cleanName, itemID)

	localKey := Slugify(cleanName)
	if resolvedID != "" {
		localKey = strings.ToLower(resolvedID)
	}

	remoteKey := resolvedID
	if remoteKey == "" {
		remoteKey = strings.ToUpper(strings.ReplaceAll(cleanName, " ", "_"))
	}

	candidates := make([]string, 0, len(categoryDirs)+3)
	if indexed, ok := r.index.Path(resolvedID, localKey); ok {
		candidates = append(candidates, indexed)
	}
	if localKey != "" {
		candidates = append(candidates, fmt.Sprintf("%s/%s.png", r.basePath, localKey))
		for _, dir := range categoryDirs {
			candidates = append(candidates, fmt.Sprintf("item/%s/%s/%s.png", dir, localKey, localKey))
		}
	}
	if remoteKey != "" {
		candidates = append(candidates, r.remote+"/"+remoteKey)
	}

	return Icon{
		CleanName:  cleanName,
		SizePx:     sizePx,
		ItemID:     resolvedID,
		Candidates: candidates,
	}
}

// resolveID recovers a canonical item id, or "" when nothing matches.
func (r *Resolver) resolveID(cleanName, providedID string) string {
	if providedID != "" {
		return providedID
	}

	if id, ok := r.catalog.IDForName(cleanName); ok {
		return id
	}

	normalized := NormalizeKey(cleanName)
	if id, ok := r.catalog.IDForNormalized(normalized); ok {
		return id
	}
	if id, ok := r.catalog.IDForSuffix(normalized); ok {
		return id
	}

	return ""
}
