package icon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skytrade/auction-data/internal/api"
)

// ItemsAPI is the subset of the upstream client the catalog loads from.
type ItemsAPI interface {
	Items(ctx context.Context) ([]api.CatalogItem, error)
}

// Catalog holds the read-only item lookup tables: display name → canonical
// id, normalized name → id, and the normalized keys used for suffix
// matching. A nil or empty catalog is valid and simply resolves nothing.
type Catalog struct {
	nameToID map[string]string
	normToID map[string]string
	normKeys []string
}

// NewCatalog builds the lookup tables from catalog items. Entries missing
// a name or id are skipped.
func NewCatalog(items []api.CatalogItem) *Catalog {
	c := &Catalog{
		nameToID: make(map[string]string, len(items)),
		normToID: make(map[string]string, len(items)),
	}

	for _, item := range items {
		if item.Name == "" || item.ID == "" {
			continue
		}
		c.nameToID[item.Name] = item.ID
		if key := NormalizeKey(item.Name); key != "" {
			if _, seen := c.normToID[key]; !seen {
				c.normKeys = append(c.normKeys, key)
			}
			c.normToID[key] = item.ID
		}
	}

	return c
}

// LoadCatalog fetches the item catalog once. The caller decides how to
// degrade on failure; an empty catalog keeps the resolver functional.
func LoadCatalog(ctx context.Context, client ItemsAPI, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	items, err := client.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("load item catalog: %w", err)
	}

	c := NewCatalog(items)
	logger.Info("item catalog loaded", "items", len(items), "indexed", len(c.normToID))
	return c, nil
}

// IDForName looks up a canonical id by verbatim display name.
func (c *Catalog) IDForName(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	id, ok := c.nameToID[name]
	return id, ok
}

// IDForNormalized looks up a canonical id by normalized name key.
func (c *Catalog) IDForNormalized(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	id, ok := c.normToID[key]
	return id, ok
}

// IDForSuffix treats the indexed normalized keys as candidate suffixes of
// the given normalized name and returns the id for the longest key the
// name ends with. This recovers ids for items whose display name embeds a
// canonical name as a trailing substring, such as enchanted or reforged
// variants.
func (c *Catalog) IDForSuffix(normalized string) (string, bool) {
	if c == nil || normalized == "" {
		return "", false
	}

	var best string
	for _, key := range c.normKeys {
		if len(key) <= len(best) {
			continue
		}
		if len(key) <= len(normalized) && normalized[len(normalized)-len(key):] == key {
			best = key
		}
	}
	if best == "" {
		return "", false
	}
	return c.normToID[best], true
}

// Len returns the number of indexed items.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.nameToID)
}
