package models

import (
	"encoding/json"
	"slices"
)

// NoOrderDate is the placeholder used when an extraction carries no order date.
const NoOrderDate = "N/A"

// Item represents a single purchased line of an extracted order.
// Items can be shared among multiple participants.
type Item struct {
	// Name is the product name (e.g., "Fresh Banana, Each").
	Name string `json:"name"`

	// Price is the line amount as reported upstream. It is treated as the
	// line total by the allocation engine; Quantity is informational.
	Price float64 `json:"price"`

	// Quantity is the purchased quantity, always at least 1.
	Quantity int `json:"quantity"`

	// ImageURL is the product image, empty when unknown.
	ImageURL string `json:"imageUrl,omitempty"`

	// Assigned is the ordered set of participant names sharing this item.
	// An empty set means the item is split among everyone.
	Assigned []string `json:"assigned,omitempty"`

	// Raw is the original upstream record, kept unmodified.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// Clone returns a copy of the item whose slices do not alias the original.
func (it Item) Clone() Item {
	it.Assigned = slices.Clone(it.Assigned)
	it.Raw = slices.Clone(it.Raw)
	return it
}

// OrderMeta is the order-level information captured from an extraction.
type OrderMeta struct {
	// OrderDate is the date as displayed by the retailer, or NoOrderDate.
	OrderDate string `json:"orderDate"`

	// TaxAmount is the order tax, never negative.
	TaxAmount float64 `json:"taxAmount"`
}
