package domain

import (
	"fmt"
	"time"
)

// Clock supplies the current instant. Injected so event timestamps stay
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock is the wall-clock implementation.
var SystemClock Clock = systemClock{}

// Order is the aggregate root. All mutations go through its methods;
// each successful mutation buffers a domain event until the caller
// drains it with PullDomainEvents.
type Order struct {
	id        OrderID
	createdAt time.Time
	items     []OrderItem
	events    []DomainEvent
	clock     Clock
}

// NewOrder creates a fresh order and buffers OrderCreated.
func NewOrder(id OrderID, clock Clock) *Order {
	if clock == nil {
		clock = SystemClock
	}

	now := clock.Now()
	o := &Order{
		id:        id,
		createdAt: now,
		clock:     clock,
	}
	o.events = append(o.events, NewOrderCreated(id, now))

	return o
}

// ReconstituteOrder rebuilds an order from storage without emitting events.
func ReconstituteOrder(id OrderID, createdAt time.Time, items []OrderItem, clock Clock) *Order {
	if clock == nil {
		clock = SystemClock
	}

	return &Order{
		id:        id,
		createdAt: createdAt,
		items:     append([]OrderItem(nil), items...),
		clock:     clock,
	}
}

// AddItem adds a product line or merges into an existing one.
//
// Check order matters: zero unit price is rejected first, then currency
// coherence against the first existing line. Merging preserves the
// stored unit price of the existing line.
func (o *Order) AddItem(productID ProductID, quantity Quantity, unitPrice Money) error {
	if unitPrice.IsZero() {
		return fmt.Errorf("unit price cannot be zero for product %s", productID)
	}

	if len(o.items) > 0 {
		expected := o.items[0].UnitPrice().Currency()
		if !unitPrice.Currency().Equals(expected) {
			return fmt.Errorf("currency mismatch: order is priced in %s, got %s",
				expected.Code(), unitPrice.Currency().Code())
		}
	}

	for idx, item := range o.items {
		if !item.ProductID().Equals(productID) {
			continue
		}

		previous := item.Quantity()
		merged := previous.Add(quantity)
		o.items[idx] = item.WithQuantity(merged)
		o.events = append(o.events,
			NewOrderItemQuantityIncreased(o.id, productID, previous, merged, o.clock.Now()))

		return nil
	}

	o.items = append(o.items, NewOrderItem(productID, quantity, unitPrice))
	o.events = append(o.events,
		NewOrderItemAdded(o.id, productID, quantity, unitPrice, o.clock.Now()))

	return nil
}

// TotalsByCurrency sums line subtotals grouped by currency code.
// Lines whose subtotal cannot be computed are skipped.
func (o *Order) TotalsByCurrency() map[string]Money {
	totals := make(map[string]Money)
	for _, item := range o.items {
		subtotal, err := item.Subtotal()
		if err != nil {
			continue
		}

		code := subtotal.Currency().Code()
		if existing, ok := totals[code]; ok {
			summed, addErr := existing.Add(subtotal)
			if addErr != nil {
				continue
			}
			totals[code] = summed
		} else {
			totals[code] = subtotal
		}
	}

	return totals
}

// Total returns the single-currency order total. It fails when the
// order has no items or the totals span more than one currency.
func (o *Order) Total() (Money, error) {
	if len(o.items) == 0 {
		return Money{}, fmt.Errorf("order %s has no items", o.id)
	}

	totals := o.TotalsByCurrency()
	if len(totals) != 1 {
		return Money{}, fmt.Errorf("order %s totals span %d currencies", o.id, len(totals))
	}

	for _, total := range totals {
		return total, nil
	}

	return Money{}, fmt.Errorf("order %s has no computable total", o.id)
}

// PullDomainEvents drains the pending event buffer. A second call on an
// unchanged aggregate returns nil.
func (o *Order) PullDomainEvents() []DomainEvent {
	events := o.events
	o.events = nil
	return events
}

// ID returns the order identifier.
func (o *Order) ID() OrderID {
	return o.id
}

// CreatedAt returns the creation instant.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// Items returns a copy of the lines in insertion order.
func (o *Order) Items() []OrderItem {
	return append([]OrderItem(nil), o.items...)
}

// ItemCount returns the number of distinct product lines.
func (o *Order) ItemCount() int {
	return len(o.items)
}

// TotalQuantity sums line quantities.
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.items {
		total += item.Quantity().Value()
	}
	return total
}

// HasProduct reports whether a line exists for the product.
func (o *Order) HasProduct(productID ProductID) bool {
	for _, item := range o.items {
		if item.ProductID().Equals(productID) {
			return true
		}
	}
	return false
}
