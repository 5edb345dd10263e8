package domain

import "time"

// DomainEvent is a fact recorded by an aggregate mutation. Variants are
// discriminated by explicit tags rather than reflected type names.
type DomainEvent interface {
	// EventName is the variant name stored in the outbox event_type column.
	EventName() string
	// EventType is the stable dotted tag, e.g. "order.created".
	EventType() string
	// AggregateType is the event class name with its trailing verb
	// stripped, e.g. "Order" for OrderCreated, "OrderItem" for
	// OrderItemAdded.
	AggregateType() string
	// AggregateID carries the event type tag, not the order id. The
	// persisted aggregate_id column has always held this value and
	// downstream consumers key on it.
	AggregateID() string
	// OccurredAt is the UTC instant the mutation happened.
	OccurredAt() time.Time
	// Data returns the event payload fields.
	Data() map[string]any
}

// OrderCreated records the creation of a fresh order.
type OrderCreated struct {
	OrderID    string
	occurredAt time.Time
}

// NewOrderCreated builds an OrderCreated event.
func NewOrderCreated(orderID OrderID, at time.Time) OrderCreated {
	return OrderCreated{OrderID: orderID.String(), occurredAt: at.UTC()}
}

func (e OrderCreated) EventName() string     { return "OrderCreated" }
func (e OrderCreated) EventType() string     { return "order.created" }
func (e OrderCreated) AggregateType() string { return "Order" }
func (e OrderCreated) AggregateID() string   { return e.EventType() }
func (e OrderCreated) OccurredAt() time.Time { return e.occurredAt }

func (e OrderCreated) Data() map[string]any {
	return map[string]any{"orderId": e.OrderID}
}

// OrderItemAdded records a new product line on an order.
type OrderItemAdded struct {
	OrderID    string
	ProductID  string
	Quantity   int
	UnitPrice  Money
	occurredAt time.Time
}

// NewOrderItemAdded builds an OrderItemAdded event.
func NewOrderItemAdded(orderID OrderID, productID ProductID, quantity Quantity, unitPrice Money, at time.Time) OrderItemAdded {
	return OrderItemAdded{
		OrderID:    orderID.String(),
		ProductID:  productID.String(),
		Quantity:   quantity.Value(),
		UnitPrice:  unitPrice,
		occurredAt: at.UTC(),
	}
}

func (e OrderItemAdded) EventName() string     { return "OrderItemAdded" }
func (e OrderItemAdded) EventType() string     { return "order.item_added" }
func (e OrderItemAdded) AggregateType() string { return "OrderItem" }
func (e OrderItemAdded) AggregateID() string   { return e.EventType() }
func (e OrderItemAdded) OccurredAt() time.Time { return e.occurredAt }

func (e OrderItemAdded) Data() map[string]any {
	return map[string]any{
		"orderId":   e.OrderID,
		"productId": e.ProductID,
		"quantity":  e.Quantity,
		"unitPrice": map[string]any{
			"amount":   e.UnitPrice.Amount(),
			"currency": e.UnitPrice.Currency().Code(),
		},
	}
}

// OrderItemQuantityIncreased records a merge of an existing product line.
type OrderItemQuantityIncreased struct {
	OrderID          string
	ProductID        string
	PreviousQuantity int
	NewQuantity      int
	occurredAt       time.Time
}

// NewOrderItemQuantityIncreased builds an OrderItemQuantityIncreased event.
func NewOrderItemQuantityIncreased(orderID OrderID, productID ProductID, previous, updated Quantity, at time.Time) OrderItemQuantityIncreased {
	return OrderItemQuantityIncreased{
		OrderID:          orderID.String(),
		ProductID:        productID.String(),
		PreviousQuantity: previous.Value(),
		NewQuantity:      updated.Value(),
		occurredAt:       at.UTC(),
	}
}

func (e OrderItemQuantityIncreased) EventName() string     { return "OrderItemQuantityIncreased" }
func (e OrderItemQuantityIncreased) EventType() string     { return "order.item_quantity_increased" }
func (e OrderItemQuantityIncreased) AggregateType() string { return "OrderItemQuantity" }
func (e OrderItemQuantityIncreased) AggregateID() string   { return e.EventType() }
func (e OrderItemQuantityIncreased) OccurredAt() time.Time { return e.occurredAt }

func (e OrderItemQuantityIncreased) Data() map[string]any {
	return map[string]any{
		"orderId":          e.OrderID,
		"productId":        e.ProductID,
		"previousQuantity": e.PreviousQuantity,
		"newQuantity":      e.NewQuantity,
	}
}
