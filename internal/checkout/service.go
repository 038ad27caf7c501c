package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-loja/internal/cart"
	"github.com/noah-isme/backend-loja/internal/catalog"
	"github.com/noah-isme/backend-loja/internal/events"
	"github.com/noah-isme/backend-loja/internal/obs"
	"github.com/noah-isme/backend-loja/internal/order"
	"github.com/noah-isme/backend-loja/internal/orderlog"
)

func countCheckout(result string) {
	if obs.CheckoutTotal != nil {
		obs.CheckoutTotal.WithLabelValues(result).Inc()
	}
}

// ErrSettingsFetch wraps a failed store settings read during checkout. It is
// retryable: the cart is left untouched and the shopper can try again.
var ErrSettingsFetch = errors.New("checkout: could not load store settings")

// ErrEmptyCart mirrors the builder's empty-cart failure at the service level.
var ErrEmptyCart = order.ErrEmptyCart

// SettingsProvider is the external catalog read the checkout depends on.
type SettingsProvider interface {
	GetSettings(ctx context.Context) (catalog.Settings, error)
}

// Service turns a cart into a WhatsApp order message. It is read-only with
// respect to the cart: no step here mutates cart state, so any failure leaves
// the cart usable for retry and a success leaves clearing to the UI.
type Service struct {
	Settings SettingsProvider
	Builder  order.Builder
	Events   *events.Bus
	Recorder orderlog.Enqueuer
	Logger   zerolog.Logger
}

// Checkout snapshots the cart, fetches settings, and builds the order
// message. The settings fetch is the only suspending step and happens before
// any message is rendered.
func (s *Service) Checkout(ctx context.Context, store *cart.Store) (order.Message, error) {
	if s == nil || s.Settings == nil {
		return order.Message{}, errors.New("checkout service not configured")
	}
	snapshot := store.Snapshot()
	if snapshot.Empty() {
		countCheckout("empty_cart")
		return order.Message{}, ErrEmptyCart
	}

	settings, err := s.Settings.GetSettings(ctx)
	if err != nil {
		countCheckout("settings_fetch_failed")
		return order.Message{}, fmt.Errorf("%w: %w", ErrSettingsFetch, err)
	}

	msg, err := s.Builder.Build(snapshot, settings)
	if err != nil {
		if errors.Is(err, order.ErrMissingRecipient) {
			countCheckout("missing_recipient")
		} else {
			countCheckout("error")
		}
		return order.Message{}, err
	}
	countCheckout("ok")
	if obs.OrderMessageItems != nil {
		obs.OrderMessageItems.Observe(float64(snapshot.TotalItems))
	}

	if s.Events != nil {
		payload := map[string]any{
			"recipient":  msg.Recipient,
			"totalPrice": snapshot.TotalPrice,
			"totalItems": snapshot.TotalItems,
		}
		if _, err := s.Events.Emit(ctx, events.TopicOrderBuilt, payload); err != nil {
			s.Logger.Warn().Err(err).Msg("order event notifiers")
		}
	}
	if err := s.Recorder.Enqueue(ctx, orderlog.Entry{
		Recipient:  msg.Recipient,
		Text:       msg.Text,
		TotalPrice: snapshot.TotalPrice,
		TotalItems: snapshot.TotalItems,
	}); err != nil {
		// The shopper still gets their message; only the history write is lost.
		s.Logger.Error().Err(err).Msg("enqueue order log")
	}
	return msg, nil
}
