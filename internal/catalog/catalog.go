// Package catalog holds the once-fetched product list and derives filtered
// views from it.
package catalog

import (
	"context"
	"strings"

	"github.com/furnishop/storefront-go/internal/api"
)

// CategoryAll is the sentinel that disables category filtering.
const CategoryAll = "all"

// Categories lists the storefront's fixed category filter options, starting
// with the "all" sentinel.
var Categories = []string{CategoryAll, "sofa", "chair", "table", "bed", "storage", "lighting"}

// Filter derives the visible product list from two independent predicates:
// a case-insensitive substring match on the name (skipped when query is
// empty) and an exact case-insensitive category match (skipped when
// category is "all"). Pure and deterministic; with an empty query and the
// "all" category the input comes back unchanged.
func Filter(products []api.Product, query, category string) []api.Product {
	if query == "" && category == CategoryAll {
		return products
	}

	q := strings.ToLower(query)
	out := make([]api.Product, 0, len(products))
	for _, p := range products {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		if category != CategoryAll && !strings.EqualFold(p.Category, category) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Catalog caches the full product list for the lifetime of a page view.
// Products are immutable from the client's perspective, so there is no
// invalidation; navigation refetches wholesale.
type Catalog struct {
	products *api.ProductClient
	all      []api.Product
}

func New(products *api.ProductClient) *Catalog {
	return &Catalog{products: products}
}

// Load fetches the full product list, replacing any previous snapshot.
func (c *Catalog) Load(ctx context.Context) error {
	all, err := c.products.All(ctx)
	if err != nil {
		return err
	}
	c.all = all
	return nil
}

// All returns the unfiltered snapshot.
func (c *Catalog) All() []api.Product {
	return c.all
}

// View applies Filter to the snapshot.
func (c *Catalog) View(query, category string) []api.Product {
	return Filter(c.all, query, category)
}
