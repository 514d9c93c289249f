package payment

import (
	"context"
	"errors"

	"github.com/avoronin/shopsync/internal/models"
)

var ErrNoHandler = errors.New("no handler registered for order")

// Result is what the gateway's side channel reports back after the hosted
// page finishes.
type Result struct {
	PaymentID string
	PayerID   string
	OrderID   string
}

type Handlers struct {
	OnSuccess func(ctx context.Context, res Result)
	OnFailure func(ctx context.Context, res Result)
}

// Launcher hands an order descriptor to the hosted checkout and routes its
// eventual side-channel callback to the registered handlers. The checkout
// flow never learns how the gateway gets back in touch.
type Launcher interface {
	Open(ctx context.Context, order *models.GatewayOrder, h Handlers) error
}
