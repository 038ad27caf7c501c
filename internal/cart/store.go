package cart

import (
	"errors"
	"sync"

	"github.com/noah-isme/backend-loja/internal/catalog"
	"github.com/noah-isme/backend-loja/internal/money"
	"github.com/noah-isme/backend-loja/internal/pricing"
)

// ErrVariantRequired is surfaced when a variant product is added without a
// selection. The cart is left unchanged.
var ErrVariantRequired = pricing.ErrVariantRequired

// ErrVariantUnknown is returned when the selected variant does not belong to
// the product being added.
var ErrVariantUnknown = errors.New("cart: variant does not belong to product")

// Key is the composite identity of a cart line: same product and same variant
// (both absent counts as same) merge into one line. An explicit struct avoids
// the separator-collision hazard of string-template keys. Keys are opaque:
// used for equality and lookup only, never for ordering or display.
type Key struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId,omitempty"`
}

// KeyFor builds the identity for a (product, optional variant) pair.
func KeyFor(productID, variantID string) Key {
	return Key{ProductID: productID, VariantID: variantID}
}

// Line is one cart entry: N units of a product at the price and size resolved
// from its selected variant, or from the product itself when simple.
type Line struct {
	Key         Key         `json:"key"`
	ProductName string      `json:"productName"`
	VariantName string      `json:"variantName,omitempty"`
	SizeLabel   string      `json:"sizeLabel,omitempty"`
	Description string      `json:"description,omitempty"`
	UnitPrice   money.Money `json:"unitPrice"`
	Quantity    int         `json:"quantity"`
}

// Subtotal is the line's own contribution to the cart total.
func (l Line) Subtotal() money.Money {
	return l.UnitPrice * money.Money(l.Quantity)
}

// Snapshot is an immutable view of the cart at a single instant. Totals are
// computed from the same line state the snapshot carries.
type Snapshot struct {
	Lines      []Line      `json:"lines"`
	TotalPrice money.Money `json:"totalPrice"`
	TotalItems int         `json:"totalItems"`
}

// Empty reports whether the snapshot holds no lines.
func (s Snapshot) Empty() bool {
	return len(s.Lines) == 0
}

// EventKind classifies advisory cart signals.
type EventKind string

// EventItemAdded fires after an add commits. It is advisory: the UI layer
// decides whether to react (e.g. open the cart panel); the store itself never
// depends on it.
const EventItemAdded EventKind = "item_added"

// Event is delivered to subscribers after a mutation commits.
type Event struct {
	Kind EventKind
	Line Line
}

// Store owns the ordered collection of cart lines for one shopping session.
// All mutations are serialized behind a single mutex so lookup-then-mutate is
// atomic; insertion order is preserved for display. State is in-memory only
// and dies with the session.
type Store struct {
	mu    sync.Mutex
	lines []Line
	index map[Key]int
	subs  []func(Event)
}

// NewStore constructs an empty cart store.
func NewStore() *Store {
	return &Store{index: make(map[Key]int)}
}

// Subscribe registers a callback for advisory cart events. Callbacks run
// outside the store lock, after the mutation has committed.
func (s *Store) Subscribe(fn func(Event)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// AddItem resolves pricing for the selection and merges it into the cart:
// an existing identity gains quantity, a new one appends a line with
// quantity 1. On any error the cart is left unchanged.
func (s *Store) AddItem(p catalog.Product, v *catalog.Variant) (Line, error) {
	if v != nil {
		owned, ok := p.VariantByID(v.ID)
		if !ok {
			return Line{}, ErrVariantUnknown
		}
		v = &owned
	}
	quote, err := pricing.Resolve(p, v)
	if err != nil {
		return Line{}, err
	}

	variantID := ""
	variantName := ""
	// Only a size the product explicitly declares lands on the line; the
	// resolver's implicit default and variant sizes (already named by the
	// variant) stay off it, so order messages can render the size line for
	// exactly the right lines.
	sizeLabel := p.Size
	if v != nil {
		variantID = v.ID
		variantName = v.Name
		sizeLabel = ""
	}
	key := KeyFor(p.ID, variantID)

	s.mu.Lock()
	var line Line
	if idx, ok := s.index[key]; ok {
		s.lines[idx].Quantity++
		line = s.lines[idx]
	} else {
		line = Line{
			Key:         key,
			ProductName: p.Name,
			VariantName: variantName,
			SizeLabel:   sizeLabel,
			Description: quote.Description,
			UnitPrice:   quote.UnitPrice,
			Quantity:    1,
		}
		s.index[key] = len(s.lines)
		s.lines = append(s.lines, line)
	}
	subs := append([](func(Event))(nil), s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(Event{Kind: EventItemAdded, Line: line})
	}
	return line, nil
}

// Remove deletes the line with the given identity. Removing an absent
// identity is a no-op, not an error.
func (s *Store) Remove(key Key) {
	s.mu.Lock()
	s.removeLocked(key)
	s.mu.Unlock()
}

// Adjust changes a line's quantity by delta. An absent identity is a no-op;
// a result below 1 removes the line entirely, so an observable quantity is
// never less than 1.
func (s *Store) Adjust(key Key, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.index[key]
	if !ok {
		return
	}
	next := s.lines[idx].Quantity + delta
	if next < 1 {
		s.removeLocked(key)
		return
	}
	s.lines[idx].Quantity = next
}

// Clear empties the cart unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.index = make(map[Key]int)
	s.mu.Unlock()
}

// Snapshot returns the current lines with freshly computed totals. Lines and
// totals are read under the same lock, so the totals always correspond to the
// returned line state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := append([]Line(nil), s.lines...)
	items := make([]pricing.Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, pricing.Item{Qty: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return Snapshot{
		Lines:      lines,
		TotalPrice: pricing.Total(items),
		TotalItems: pricing.Count(items),
	}
}

func (s *Store) removeLocked(key Key) {
	idx, ok := s.index[key]
	if !ok {
		return
	}
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	delete(s.index, key)
	for i := idx; i < len(s.lines); i++ {
		s.index[s.lines[i].Key] = i
	}
}
