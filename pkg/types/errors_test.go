package types

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_Kinds(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		kind     ErrorKind
		contains string
	}{
		{
			name:     "validation-with-field",
			err:      Validation("quantity must be positive", "quantity"),
			kind:     KindValidation,
			contains: "quantity",
		},
		{
			name:     "not-found",
			err:      NotFound("Order", "ORD-404"),
			kind:     KindNotFound,
			contains: "ORD-404",
		},
		{
			name:     "conflict",
			err:      Conflict("order ORD-DUP already exists", ReasonDuplicateOrderID),
			kind:     KindConflict,
			contains: "duplicate_order_id",
		},
		{
			name:     "infra",
			err:      Infra("save order", fmt.Errorf("connection refused")),
			kind:     KindInfra,
			contains: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("expected kind %q, got %q", tt.kind, tt.err.Kind)
			}
			msg := tt.err.Error()
			if msg == "" {
				t.Fatal("expected non-empty message")
			}
			if !strings.Contains(msg, tt.contains) {
				t.Errorf("expected %q to contain %q", msg, tt.contains)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := Infra("save order", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}

	var appErr *AppError
	wrapped := fmt.Errorf("create order: %w", err)
	if !errors.As(wrapped, &appErr) {
		t.Fatal("expected errors.As to find *AppError")
	}
	if appErr.Kind != KindInfra {
		t.Errorf("expected infra kind, got %q", appErr.Kind)
	}
}
