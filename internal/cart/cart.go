// Package cart reconciles the server's flat per-unit cart list with a
// quantity-grouped view and keeps the two in sync after mutations.
package cart

import "github.com/furnishop/storefront-go/internal/api"

// Row is one grouped cart line: a product plus how many units of it the
// cart holds. Quantity is always >= 1; a row that would reach zero is
// removed instead.
type Row struct {
	api.Product
	Quantity int
}

// GroupLineItems folds the server's flat list (one entry per unit) into
// rows with quantity counts. Single left-to-right pass: the first
// occurrence of a product id creates its row, later occurrences increment
// it, so row order follows first occurrence in the input.
func GroupLineItems(raw []api.Product) []Row {
	rows := make([]Row, 0, len(raw))
	index := make(map[int64]int, len(raw))
	for _, p := range raw {
		if i, ok := index[p.ID]; ok {
			rows[i].Quantity++
			continue
		}
		index[p.ID] = len(rows)
		rows = append(rows, Row{Product: p, Quantity: 1})
	}
	return rows
}

// Subtotal is the client-side display total over grouped rows. The
// authoritative price is the server's PriceSummary; this is only shown
// while no summary has been requested.
func Subtotal(rows []Row) float64 {
	var sum float64
	for _, r := range rows {
		sum += r.Price * float64(r.Quantity)
	}
	return sum
}

// ItemCount is the number of units across all rows, which by construction
// equals the length of the raw list the rows were grouped from.
func ItemCount(rows []Row) int {
	var n int
	for _, r := range rows {
		n += r.Quantity
	}
	return n
}
