package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-loja/internal/cart"
	"github.com/noah-isme/backend-loja/internal/catalog"
	"github.com/noah-isme/backend-loja/internal/events"
	"github.com/noah-isme/backend-loja/internal/money"
	"github.com/noah-isme/backend-loja/internal/order"
)

type stubSettings struct {
	settings catalog.Settings
	err      error
	calls    int
}

func (s *stubSettings) GetSettings(context.Context) (catalog.Settings, error) {
	s.calls++
	return s.settings, s.err
}

type captureNotifier struct {
	events []events.Event
}

func (c *captureNotifier) Notify(_ context.Context, ev events.Event) error {
	c.events = append(c.events, ev)
	return nil
}

func filledCart(t *testing.T) *cart.Store {
	t.Helper()
	store := cart.NewStore()
	p := catalog.Product{ID: "p1", Name: "Bolo", Price: 2500, Size: "Único"}
	for i := 0; i < 2; i++ {
		_, err := store.AddItem(p, nil)
		require.NoError(t, err)
	}
	return store
}

func newService(settings *stubSettings, notifier events.Notifier) *Service {
	svc := &Service{
		Settings: settings,
		Builder:  order.Builder{Format: money.DefaultBRL()},
	}
	if notifier != nil {
		svc.Events = &events.Bus{Notifiers: []events.Notifier{notifier}}
	}
	return svc
}

func TestCheckoutBuildsMessageAndEmitsEvent(t *testing.T) {
	settings := &stubSettings{settings: catalog.Settings{StoreName: "Loja", WhatsAppNumber: "(11) 99999-9999"}}
	notifier := &captureNotifier{}
	svc := newService(settings, notifier)
	store := filledCart(t)

	msg, err := svc.Checkout(context.Background(), store)
	require.NoError(t, err)
	require.Contains(t, msg.Text, "*2x Bolo*")
	require.Contains(t, msg.URI, "wa.me/11999999999")
	require.Len(t, notifier.events, 1)
	require.Equal(t, events.TopicOrderBuilt, notifier.events[0].Topic)

	// Checkout is read-only with respect to the cart.
	require.Equal(t, 2, store.Snapshot().TotalItems)
}

func TestCheckoutSettingsFetchFailureLeavesCartUsable(t *testing.T) {
	settings := &stubSettings{err: errors.New("connection refused")}
	svc := newService(settings, nil)
	store := filledCart(t)
	before := store.Snapshot()

	_, err := svc.Checkout(context.Background(), store)
	require.ErrorIs(t, err, ErrSettingsFetch)

	after := store.Snapshot()
	require.Equal(t, before, after)

	// Retry after the dependency recovers.
	settings.err = nil
	settings.settings = catalog.Settings{StoreName: "Loja", WhatsAppNumber: "11999999999"}
	_, err = svc.Checkout(context.Background(), store)
	require.NoError(t, err)
	require.Equal(t, 2, settings.calls)
}

func TestCheckoutMissingRecipient(t *testing.T) {
	settings := &stubSettings{settings: catalog.Settings{StoreName: "Loja", WhatsAppNumber: "  "}}
	svc := newService(settings, nil)
	store := filledCart(t)

	msg, err := svc.Checkout(context.Background(), store)
	require.ErrorIs(t, err, order.ErrMissingRecipient)
	require.Empty(t, msg.URI)
	require.Equal(t, 2, store.Snapshot().TotalItems)
}

func TestCheckoutEmptyCart(t *testing.T) {
	settings := &stubSettings{settings: catalog.Settings{WhatsAppNumber: "11999999999"}}
	svc := newService(settings, nil)

	_, err := svc.Checkout(context.Background(), cart.NewStore())
	require.ErrorIs(t, err, ErrEmptyCart)
	// The empty cart short-circuits before the external fetch.
	require.Zero(t, settings.calls)
}
