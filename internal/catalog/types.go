package catalog

import (
	"strings"

	"github.com/noah-isme/backend-loja/internal/money"
)

// Variant is a named priced option belonging to a product. Selecting one
// overrides the product's base price and size for that cart line.
type Variant struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Price       money.Money `json:"price"`
	Description string      `json:"description,omitempty"`
}

// Product represents a catalog product. A product with a non-empty Variants
// list is a variant product and cannot be priced without a selection.
type Product struct {
	ID          string      `json:"id"`
	CategoryID  string      `json:"categoryId"`
	Name        string      `json:"name"`
	Price       money.Money `json:"price"`
	Description string      `json:"description"`
	ImageURL    string      `json:"imageUrl"`
	Gallery     []string    `json:"gallery,omitempty"`
	Size        string      `json:"size,omitempty"`
	Variants    []Variant   `json:"variants,omitempty"`
}

// HasVariants reports whether the product requires a variant selection.
func (p Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// VariantByID returns the variant with the given id, if the product owns it.
func (p Product) VariantByID(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// Category groups products for browsing.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Settings is the store's master configuration. Exactly one row exists; reads
// fall back to defaults so the storefront never breaks on an empty database.
type Settings struct {
	StoreName         string `json:"storeName"`
	WhatsAppNumber    string `json:"whatsappNumber"`
	AdminPasswordHash string `json:"-"`
	BannerURL         string `json:"bannerUrl,omitempty"`
	BannerLink        string `json:"bannerLink,omitempty"`
	LogoURL           string `json:"logoUrl,omitempty"`
	PrimaryColor      string `json:"primaryColor"`
	SecondaryColor    string `json:"secondaryColor"`
}

// DefaultSettings mirrors the fallback used when the master row is absent.
func DefaultSettings() Settings {
	return Settings{
		StoreName:      "Minha Loja",
		PrimaryColor:   "#000000",
		SecondaryColor: "#ffffff",
	}
}

// Public strips fields that must never reach the storefront client.
func (s Settings) Public() Settings {
	s.AdminPasswordHash = ""
	return s
}

// RecipientDigits returns the WhatsApp number reduced to digits only.
func (s Settings) RecipientDigits() string {
	var b strings.Builder
	for _, r := range s.WhatsAppNumber {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
