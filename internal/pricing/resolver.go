package pricing

import (
	"errors"

	"github.com/noah-isme/backend-loja/internal/catalog"
	"github.com/noah-isme/backend-loja/internal/money"
)

// ErrVariantRequired is returned when a variant product is priced without a
// selected variant. The caller must prompt for a selection and retry.
var ErrVariantRequired = errors.New("pricing: variant selection required")

// DefaultSizeLabel is used for simple products that carry no size of their own.
const DefaultSizeLabel = "Único"

// Quote is the effective price, size label, and description for one cart line.
type Quote struct {
	UnitPrice   money.Money
	SizeLabel   string
	Description string
}

// Resolve determines the effective unit price, size label, and description for
// a product given an optional selected variant. When a variant is passed it
// must belong to the product; enforcing that is the caller's responsibility.
// Pure: no side effects, same inputs always yield the same quote.
func Resolve(p catalog.Product, v *catalog.Variant) (Quote, error) {
	if v != nil {
		description := v.Description
		if description == "" {
			description = p.Description
		}
		return Quote{
			UnitPrice:   v.Price,
			SizeLabel:   v.Name,
			Description: description,
		}, nil
	}
	if p.HasVariants() {
		return Quote{}, ErrVariantRequired
	}
	size := p.Size
	if size == "" {
		size = DefaultSizeLabel
	}
	return Quote{
		UnitPrice:   p.Price,
		SizeLabel:   size,
		Description: p.Description,
	}, nil
}

// Item describes a line used for total calculation.
type Item struct {
	Qty       int
	UnitPrice money.Money
}

// Total sums unit price times quantity across all lines. Totals are always
// recomputed from the line collection; there is no running accumulator.
func Total(items []Item) money.Money {
	var total money.Money
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		total += money.Money(it.Qty) * it.UnitPrice
	}
	return total
}

// Count sums quantities across all lines.
func Count(items []Item) int {
	var count int
	for _, it := range items {
		if it.Qty > 0 {
			count += it.Qty
		}
	}
	return count
}
