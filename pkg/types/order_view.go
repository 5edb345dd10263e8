package types

import (
	"time"

	"github.com/orderly-io/orderly/internal/domain"
)

// MoneyView is the wire shape of a monetary amount.
type MoneyView struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// OrderItemView is the wire shape of one order line.
type OrderItemView struct {
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	UnitPrice MoneyView `json:"unitPrice"`
	Subtotal  MoneyView `json:"subtotal"`
}

// OrderView is the wire shape of an order returned by the HTTP surface.
type OrderView struct {
	OrderID   string          `json:"orderId"`
	Items     []OrderItemView `json:"items"`
	Total     MoneyView       `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewOrderView projects an aggregate into its response shape. When the
// total cannot be computed the view carries {amount: 0, currency: USD}.
func NewOrderView(order *domain.Order) OrderView {
	items := make([]OrderItemView, 0, order.ItemCount())
	for _, item := range order.Items() {
		view := OrderItemView{
			ProductID: item.ProductID().String(),
			Quantity:  item.Quantity().Value(),
			UnitPrice: newMoneyView(item.UnitPrice()),
		}
		if subtotal, err := item.Subtotal(); err == nil {
			view.Subtotal = newMoneyView(subtotal)
		}
		items = append(items, view)
	}

	total := MoneyView{Amount: 0, Currency: domain.CurrencyUSD.Code()}
	if computed, err := order.Total(); err == nil {
		total = newMoneyView(computed)
	}

	return OrderView{
		OrderID:   order.ID().String(),
		Items:     items,
		Total:     total,
		CreatedAt: order.CreatedAt(),
	}
}

func newMoneyView(m domain.Money) MoneyView {
	return MoneyView{Amount: m.Amount(), Currency: m.Currency().Code()}
}
