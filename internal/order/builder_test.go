package order

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/noah-isme/backend-loja/internal/cart"
	"github.com/noah-isme/backend-loja/internal/catalog"
	"github.com/noah-isme/backend-loja/internal/money"
)

func testBuilder() Builder {
	return Builder{Format: money.DefaultBRL()}
}

func settingsWith(number string) catalog.Settings {
	return catalog.Settings{StoreName: "Loja", WhatsAppNumber: number}
}

func TestBuildSimpleProductWithSize(t *testing.T) {
	snapshot := cart.Snapshot{
		Lines: []cart.Line{{
			Key:         cart.KeyFor("p1", ""),
			ProductName: "Bolo",
			SizeLabel:   "Único",
			UnitPrice:   2500,
			Quantity:    2,
		}},
		TotalPrice: 5000,
		TotalItems: 2,
	}
	msg, err := testBuilder().Build(snapshot, settingsWith("(11) 99999-9999"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, want := range []string{
		"*Novo Pedido - Loja*",
		"*2x Bolo*",
		"(Tamanho: Único)",
		"Unitário: R$ 25,00",
		"Subtotal: R$ 50,00",
		"*Valor Total: R$ 50,00*",
		"Taxa de entrega: A calcular",
		"Aguardo confirmação!",
	} {
		if !strings.Contains(msg.Text, want) {
			t.Fatalf("message missing %q:\n%s", want, msg.Text)
		}
	}
	if msg.Recipient != "11999999999" {
		t.Fatalf("recipient = %q, want digits only", msg.Recipient)
	}
	if !strings.HasPrefix(msg.URI, "https://wa.me/11999999999?text=") {
		t.Fatalf("unexpected URI: %s", msg.URI)
	}
}

func TestBuildVariantLineOmitsSizeLine(t *testing.T) {
	snapshot := cart.Snapshot{
		Lines: []cart.Line{{
			Key:         cart.KeyFor("p2", "v2"),
			ProductName: "Camiseta",
			VariantName: "G",
			UnitPrice:   3000,
			Quantity:    1,
		}},
		TotalPrice: 3000,
		TotalItems: 1,
	}
	msg, err := testBuilder().Build(snapshot, settingsWith("11 98888-7777"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(msg.Text, "*1x Camiseta (G)*") {
		t.Fatalf("variant line not rendered:\n%s", msg.Text)
	}
	if strings.Contains(msg.Text, "(Tamanho:") {
		t.Fatalf("size line must not appear for variant lines:\n%s", msg.Text)
	}
}

func TestBuildMissingRecipient(t *testing.T) {
	snapshot := cart.Snapshot{
		Lines:      []cart.Line{{ProductName: "Bolo", UnitPrice: 2500, Quantity: 1}},
		TotalPrice: 2500,
		TotalItems: 1,
	}
	for _, number := range []string{"", "   ", "abc-def", "()- "} {
		msg, err := testBuilder().Build(snapshot, settingsWith(number))
		if !errors.Is(err, ErrMissingRecipient) {
			t.Fatalf("number %q: err = %v, want ErrMissingRecipient", number, err)
		}
		if msg.URI != "" || msg.Text != "" {
			t.Fatalf("number %q: partial message produced: %+v", number, msg)
		}
	}
}

func TestBuildEmptyCart(t *testing.T) {
	_, err := testBuilder().Build(cart.Snapshot{}, settingsWith("11999999999"))
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
}

func TestBuildDeterministic(t *testing.T) {
	snapshot := cart.Snapshot{
		Lines: []cart.Line{
			{ProductName: "Bolo", SizeLabel: "Único", UnitPrice: 2500, Quantity: 2},
			{ProductName: "Camiseta", VariantName: "G", UnitPrice: 3000, Quantity: 1},
		},
		TotalPrice: 8000,
		TotalItems: 3,
	}
	settings := settingsWith("11999999999")
	b := testBuilder()
	first, err := b.Build(snapshot, settings)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i := 0; i < 5; i++ {
		next, err := b.Build(snapshot, settings)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if next != first {
			t.Fatal("Build is not deterministic")
		}
	}
}

func TestBuildURITextRoundTrips(t *testing.T) {
	snapshot := cart.Snapshot{
		Lines:      []cart.Line{{ProductName: "Açaí & Cia", UnitPrice: 1550, Quantity: 1}},
		TotalPrice: 1550,
		TotalItems: 1,
	}
	msg, err := testBuilder().Build(snapshot, settingsWith("5511999999999"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	parsed, err := url.Parse(msg.URI)
	if err != nil {
		t.Fatalf("parse URI: %v", err)
	}
	if got := parsed.Query().Get("text"); got != msg.Text {
		t.Fatalf("URI text does not round-trip:\ngot  %q\nwant %q", got, msg.Text)
	}
}

func TestBuildLinesRenderInSnapshotOrder(t *testing.T) {
	snapshot := cart.Snapshot{
		Lines: []cart.Line{
			{ProductName: "Primeiro", UnitPrice: 100, Quantity: 1},
			{ProductName: "Segundo", UnitPrice: 200, Quantity: 1},
		},
		TotalPrice: 300,
		TotalItems: 2,
	}
	msg, err := testBuilder().Build(snapshot, settingsWith("11999999999"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Index(msg.Text, "Primeiro") > strings.Index(msg.Text, "Segundo") {
		t.Fatalf("lines out of order:\n%s", msg.Text)
	}
}
