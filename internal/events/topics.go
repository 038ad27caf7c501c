package events

// Topic constants for domain events emitted by the storefront.
const (
	TopicCartItemAdded = "cart.item_added"
	TopicOrderBuilt    = "order.built"
)

// DefaultTopics returns the canonical list of emitted topics.
func DefaultTopics() []string {
	return []string{
		TopicCartItemAdded,
		TopicOrderBuilt,
	}
}
