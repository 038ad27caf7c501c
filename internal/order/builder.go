package order

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/noah-isme/backend-loja/internal/cart"
	"github.com/noah-isme/backend-loja/internal/catalog"
	"github.com/noah-isme/backend-loja/internal/money"
)

// ErrMissingRecipient is returned when the store has no usable WhatsApp
// number. No partial message or URI is ever produced in that case.
var ErrMissingRecipient = errors.New("order: store has no WhatsApp recipient")

// ErrEmptyCart is returned when there is nothing to order.
var ErrEmptyCart = errors.New("order: cart is empty")

const divider = "------------------------------"

// DefaultLinkBase is the WhatsApp click-to-chat endpoint.
const DefaultLinkBase = "https://wa.me/"

// Message is a rendered order: the human-readable text and the channel URI
// that delivers it. Building the message performs no hand-off; dispatching
// the URI is the messaging channel's job.
type Message struct {
	Recipient string `json:"recipient"`
	Text      string `json:"text"`
	URI       string `json:"uri"`
}

// Builder renders cart snapshots into deterministic WhatsApp order messages.
type Builder struct {
	Format   money.Formatter
	LinkBase string
}

// Build renders the order text and channel URI for the snapshot. The same
// snapshot and settings always produce byte-identical output. Every amount
// goes through the same formatter, and amounts are exact minor units, so a
// line's displayed subtotal can never disagree with its contribution to the
// displayed total.
func (b Builder) Build(snapshot cart.Snapshot, settings catalog.Settings) (Message, error) {
	if snapshot.Empty() {
		return Message{}, ErrEmptyCart
	}
	recipient := settings.RecipientDigits()
	if recipient == "" {
		return Message{}, ErrMissingRecipient
	}

	storeName := settings.StoreName
	if storeName == "" {
		storeName = catalog.DefaultSettings().StoreName
	}

	var t strings.Builder
	fmt.Fprintf(&t, "*Novo Pedido - %s*\n\n", storeName)
	t.WriteString(divider + "\n")

	for _, line := range snapshot.Lines {
		name := line.ProductName
		if line.VariantName != "" {
			name = fmt.Sprintf("%s (%s)", line.ProductName, line.VariantName)
		}
		fmt.Fprintf(&t, "*%dx %s*\n", line.Quantity, name)
		if line.VariantName == "" && line.SizeLabel != "" {
			fmt.Fprintf(&t, "   (Tamanho: %s)\n", line.SizeLabel)
		}
		fmt.Fprintf(&t, "   Unitário: %s\n", b.Format.Format(line.UnitPrice))
		fmt.Fprintf(&t, "   Subtotal: %s\n\n", b.Format.Format(line.Subtotal()))
	}

	t.WriteString(divider + "\n")
	fmt.Fprintf(&t, "*Valor Total: %s*\n", b.Format.Format(snapshot.TotalPrice))
	t.WriteString(divider + "\n\n")
	t.WriteString("Taxa de entrega: A calcular\n")
	t.WriteString("Horário de entrega: A combinar\n\n")
	t.WriteString("Aguardo confirmação!")

	text := t.String()
	base := b.LinkBase
	if base == "" {
		base = DefaultLinkBase
	}
	uri := base + recipient + "?text=" + url.QueryEscape(text)
	return Message{Recipient: recipient, Text: text, URI: uri}, nil
}
