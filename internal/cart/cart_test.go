package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furnishop/storefront-go/internal/api"
)

func product(id int64, name string, price float64) api.Product {
	return api.Product{ID: id, Name: name, Price: price}
}

func TestGroupLineItems_GroupsRepeatedUnits(t *testing.T) {
	raw := []api.Product{
		product(1, "Aria Sofa", 899.99),
		product(1, "Aria Sofa", 899.99),
		product(2, "Halo Floor Lamp", 119.00),
	}

	rows := GroupLineItems(raw)

	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].ID)
	assert.Equal(t, 2, rows[0].Quantity)
	assert.Equal(t, int64(2), rows[1].ID)
	assert.Equal(t, 1, rows[1].Quantity)
}

func TestGroupLineItems_QuantitiesSumToInputLength(t *testing.T) {
	inputs := [][]api.Product{
		nil,
		{product(1, "a", 1)},
		{product(1, "a", 1), product(2, "b", 2), product(1, "a", 1), product(3, "c", 3), product(2, "b", 2), product(1, "a", 1)},
	}

	for _, raw := range inputs {
		rows := GroupLineItems(raw)
		total := 0
		for _, r := range rows {
			assert.GreaterOrEqual(t, r.Quantity, 1, "no row may have quantity below 1")
			total += r.Quantity
		}
		assert.Equal(t, len(raw), total)
		assert.Equal(t, len(raw), ItemCount(rows))
	}
}

func TestGroupLineItems_OrderFollowsFirstOccurrence(t *testing.T) {
	raw := []api.Product{
		product(3, "c", 3),
		product(1, "a", 1),
		product(3, "c", 3),
		product(2, "b", 2),
	}

	rows := GroupLineItems(raw)

	require.Len(t, rows, 3)
	assert.Equal(t, int64(3), rows[0].ID)
	assert.Equal(t, int64(1), rows[1].ID)
	assert.Equal(t, int64(2), rows[2].ID)
}

func TestGroupLineItems_EmptyInput(t *testing.T) {
	assert.Empty(t, GroupLineItems(nil))
	assert.Empty(t, GroupLineItems([]api.Product{}))
}

func TestSubtotal(t *testing.T) {
	rows := GroupLineItems([]api.Product{
		product(1, "a", 10.50),
		product(1, "a", 10.50),
		product(2, "b", 5.00),
	})

	assert.InDelta(t, 26.00, Subtotal(rows), 1e-9)
	assert.Zero(t, Subtotal(nil))
}
