package usecase

import (
	"testing"

	"restaurant-api/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceLineItems(t *testing.T) {
	products := []model.Product{
		{ID: 1, Name: "Empanada", Price: 0.1, Available: true},
		{ID: 2, Name: "Jugo", Price: 19.99, Available: true},
	}

	items, total, err := priceLineItems([]LineItemInput{
		{ProductID: 1, Quantity: 3, Notes: "sin ají"},
		{ProductID: 2, Quantity: 3, UnitPrice: f64(0.01)},
	}, products)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, 0.3, items[0].LineSubtotal)
	assert.Equal(t, "sin ají", items[0].Notes)
	assert.Equal(t, 19.99, items[1].UnitPrice)
	assert.Equal(t, 59.97, items[1].LineSubtotal)
	assert.Equal(t, 60.27, total)
}

func TestPriceLineItems_UnavailableProduct(t *testing.T) {
	_, _, err := priceLineItems(
		[]LineItemInput{{ProductID: 1, Quantity: 1}},
		[]model.Product{{ID: 1, Name: "Sopa", Price: 8, Available: false}},
	)
	assertKind(t, err, KindValidation)
	assertErrContains(t, err, "product not available: 1")
}

func TestUniqueProductIDs_KeepsInputOrder(t *testing.T) {
	got := uniqueProductIDs([]LineItemInput{{ProductID: 3}, {ProductID: 1}, {ProductID: 3}, {ProductID: 2}})
	assert.Equal(t, []int64{3, 1, 2}, got)
}

func TestCheckClientTotal(t *testing.T) {
	assert.NoError(t, checkClientTotal(nil, 20))
	assert.NoError(t, checkClientTotal(f64(20), 20))
	assert.NoError(t, checkClientTotal(f64(19.99), 20))

	err := checkClientTotal(f64(19.5), 20)
	assertKind(t, err, KindValidation)
	assertErrContains(t, err, "expected 20.00")
}

func TestNormalizePaging(t *testing.T) {
	page, limit, err := NormalizePaging(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)

	_, _, err = NormalizePaging(-1, 10)
	assertKind(t, err, KindValidation)
	_, _, err = NormalizePaging(1, 101)
	assertKind(t, err, KindValidation)

	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 3, TotalPages(41, 20))
}
