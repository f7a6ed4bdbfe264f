package orders

import (
	"sort"
	"strings"

	"github.com/rafaapcode/waitery-backend-sub000/internal/apperr"
	"github.com/rafaapcode/waitery-backend-sub000/internal/models"
)

// RequestedItem is one (product, quantity) pair of a creation request.
type RequestedItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// snapshot is the frozen result of resolving a creation request against
// the live catalog.
type snapshot struct {
	lines      []models.OrderProduct
	quantity   int
	totalPrice float64
}

// buildSnapshot freezes the resolved products into snapshot lines and
// computes the order totals. Requested items are matched to products by
// id, not by position. Any requested id missing from the resolved set is
// a validation error: the caller must retry with a valid set, not a
// reduced one.
func buildSnapshot(items []RequestedItem, products []models.Product) (*snapshot, error) {
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var missing []string
	for _, item := range items {
		if _, ok := byID[item.ProductID]; !ok {
			missing = append(missing, item.ProductID)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, apperr.Validation("products not found in organization catalog: %s", strings.Join(missing, ", "))
	}

	snap := &snapshot{lines: make([]models.OrderProduct, 0, len(items))}
	for _, item := range items {
		product := byID[item.ProductID]
		unitPrice := product.EffectivePrice()

		snap.lines = append(snap.lines, models.OrderProduct{
			Name:            product.Name,
			ImageURL:        product.ImageURL,
			CategoryLabel:   product.Category.Label(),
			UnitPrice:       unitPrice,
			DiscountApplied: product.DiscountActive,
			Quantity:        item.Quantity,
		})
		snap.quantity += item.Quantity
		snap.totalPrice += unitPrice * float64(item.Quantity)
	}
	return snap, nil
}

// validateItems rejects empty requests and non-positive quantities
// before any catalog lookup happens.
func validateItems(items []RequestedItem) error {
	if len(items) == 0 {
		return apperr.Validation("order must contain at least one product")
	}
	for _, item := range items {
		if item.ProductID == "" {
			return apperr.Validation("product id is required on every order item")
		}
		if item.Quantity <= 0 {
			return apperr.Validation("quantity must be greater than 0 for product %s", item.ProductID)
		}
	}
	return nil
}
