// Package notify builds pre-filled WhatsApp deep links for orders.
package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Skotchmaster/sucrestore/internal/models"
)

// Store identifies the shop in outgoing messages.
type Store struct {
	Name           string
	Currency       string
	WhatsAppNumber string
	Phone          string
}

const dateLayout = "02/01/2006 15:04"

func Link(phone, message string) string {
	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(message)
}

// NewOrderLink is sent by the customer to the shop right after checkout.
func NewOrderLink(o *models.Order, s Store) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*NOUVELLE COMMANDE %s*\n\n", s.Name)
	fmt.Fprintf(&b, "Commande: #%s\n", o.OrderNumber)
	fmt.Fprintf(&b, "Date: %s\n\n", o.CreatedAt.Format(dateLayout))

	b.WriteString("*CLIENT*\n")
	fmt.Fprintf(&b, "Nom: %s\n", o.CustomerName)
	fmt.Fprintf(&b, "Tel: %s\n", o.CustomerPhone)
	fmt.Fprintf(&b, "Adresse: %s\n", o.CustomerAddress)
	if o.CustomerLat.Valid && o.CustomerLon.Valid {
		fmt.Fprintf(&b, "📍 Position GPS: https://www.google.com/maps?q=%s,%s\n", o.CustomerLat.Decimal.String(), o.CustomerLon.Decimal.String())
	}
	b.WriteString("\n*ARTICLES*\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "- %dx %s (%s %s)\n", it.Quantity, it.ProductName, it.TotalPrice.String(), s.Currency)
	}
	fmt.Fprintf(&b, "\n*TOTAL: %s %s*\n\n", o.Total.String(), s.Currency)
	if notes := strings.TrimSpace(o.CustomerNotes); notes != "" {
		fmt.Fprintf(&b, "Notes: %s", notes)
	}

	return Link(DigitsOnly(s.WhatsAppNumber), b.String())
}

// StatusLink is sent by the shop to the customer after a status change.
// phone overrides the number captured at checkout when not blank.
func StatusLink(o *models.Order, phone string, s Store) string {
	if strings.TrimSpace(phone) == "" {
		phone = o.CustomerPhone
	}

	var b strings.Builder
	b.WriteString("Bonjour,\n\n")
	fmt.Fprintf(&b, "Votre commande #%s", o.OrderNumber)
	if o.ConfirmationCode != "" {
		fmt.Fprintf(&b, " (Code: %s)", o.ConfirmationCode)
	}
	fmt.Fprintf(&b, " sur %s est actuellement : *%s*\n\n", s.Name, StatusLabel(o.Status))
	b.WriteString(statusMessage(o.Status))
	fmt.Fprintf(&b, "\n\n%s\n%s", s.Name, s.WhatsAppNumber)

	return Link(FormatPhone(phone), b.String())
}

func StatusLabel(st models.OrderStatus) string {
	switch st {
	case models.StatusPending:
		return "En attente"
	case models.StatusConfirmed:
		return "Confirmée"
	case models.StatusShipped:
		return "En cours de livraison"
	case models.StatusDelivered:
		return "Livrée"
	case models.StatusCancelled:
		return "Annulée"
	}
	return string(st)
}

func statusMessage(st models.OrderStatus) string {
	switch st {
	case models.StatusConfirmed:
		return "Votre commande est en cours de préparation et sera bientôt livrée."
	case models.StatusShipped:
		return "Votre commande est en cours de livraison."
	case models.StatusDelivered:
		return "Votre commande a été livrée avec succès. Merci de votre confiance !"
	case models.StatusCancelled:
		return "Votre commande a été annulée. Pour plus d'informations, contactez-nous."
	}
	return "Nous vous tiendrons informé de l'évolution de votre commande."
}

// FormatPhone keeps digits, drops an international 00 prefix and assumes
// Burkina Faso (226) when no country code is present.
func FormatPhone(phone string) string {
	p := DigitsOnly(phone)
	p = strings.TrimPrefix(p, "00")
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "226") {
		p = "226" + p
	}
	return p
}

func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
