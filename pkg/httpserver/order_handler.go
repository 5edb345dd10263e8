package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/orderly-io/orderly/internal/usecase"
	"github.com/orderly-io/orderly/pkg/types"
)

// OrderHandler serves the order API.
type OrderHandler struct {
	createOrder *usecase.CreateOrder
	addItem     *usecase.AddItemToOrder
	logger      *zap.Logger
}

// NewOrderHandler creates the handler.
func NewOrderHandler(createOrder *usecase.CreateOrder, addItem *usecase.AddItemToOrder, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		createOrder: createOrder,
		addItem:     addItem,
		logger:      logger,
	}
}

type createOrderRequest struct {
	OrderID string `json:"orderId"`
}

type addItemRequest struct {
	ProductID string  `json:"productId"`
	Quantity  float64 `json:"quantity"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// HandleCreateOrder serves POST /orders. An empty body creates an
// order with a generated id.
func (h *OrderHandler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, types.Validation("request body must be valid JSON", ""))
		return
	}

	order, err := h.createOrder.Execute(r.Context(), usecase.CreateOrderInput{OrderID: req.OrderID})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, types.NewOrderView(order))
}

// HandleAddItem serves POST /orders/{id}/items.
func (h *OrderHandler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, types.Validation("request body must be valid JSON", ""))
		return
	}

	order, err := h.addItem.Execute(r.Context(), usecase.AddItemInput{
		OrderID:   chi.URLParam(r, "id"),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, types.NewOrderView(order))
}

// HandleGetOrder serves GET /orders/{id}. Reads are not part of this
// surface yet.
func (h *OrderHandler) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusNotImplemented, errorResponse{
		Error: "order reads are not implemented",
		Kind:  "not_implemented",
	})
}

func (h *OrderHandler) writeError(w http.ResponseWriter, err error) {
	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		h.logger.Error("unexpected-handler-error", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "internal error",
			Kind:  string(types.KindInfra),
		})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case types.KindValidation:
		status = http.StatusBadRequest
	case types.KindNotFound:
		status = http.StatusNotFound
	case types.KindConflict:
		status = http.StatusConflict
	case types.KindInfra:
		// Causes stay in the logs, not in responses.
		h.logger.Error("infrastructure-error", zap.Error(appErr))
	}

	h.writeJSON(w, status, errorResponse{
		Error:  appErr.Message,
		Kind:   string(appErr.Kind),
		Field:  appErr.Field,
		Reason: appErr.Reason,
	})
}

func (h *OrderHandler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("encode-response-failed", zap.Error(err))
	}
}
