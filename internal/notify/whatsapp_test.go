package notify

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/sucrestore/internal/models"
)

var store = Store{Name: "SUCRE STORE", Currency: "FCFA", WhatsAppNumber: "+226 70 00 00 00"}

func decode(t *testing.T, link string) (string, string) {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	return strings.TrimPrefix(u.Path, "/"), u.Query().Get("text")
}

func TestNewOrderLink(t *testing.T) {
	t.Parallel()

	o := &models.Order{
		OrderNumber:     "ORD-1",
		CustomerName:    "Awa",
		CustomerPhone:   "70112233",
		CustomerAddress: "Ouaga 2000",
		CustomerNotes:   "Appeler avant",
		CustomerLat:     decimal.NewNullDecimal(decimal.RequireFromString("12.3714")),
		CustomerLon:     decimal.NewNullDecimal(decimal.RequireFromString("-1.5197")),
		Total:           decimal.NewFromInt(2000),
		CreatedAt:       time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{ProductName: "Savon", Quantity: 2, TotalPrice: decimal.NewFromInt(2000)},
		},
	}

	phone, text := decode(t, NewOrderLink(o, store))
	assert.Equal(t, "22670000000", phone)
	assert.Contains(t, text, "*NOUVELLE COMMANDE SUCRE STORE*")
	assert.Contains(t, text, "Commande: #ORD-1")
	assert.Contains(t, text, "Date: 05/03/2024 14:07")
	assert.Contains(t, text, "https://www.google.com/maps?q=12.3714,-1.5197")
	assert.Contains(t, text, "- 2x Savon (2000 FCFA)")
	assert.Contains(t, text, "*TOTAL: 2000 FCFA*")
	assert.Contains(t, text, "Notes: Appeler avant")
}

func TestNewOrderLink_NoGPSNoNotes(t *testing.T) {
	t.Parallel()

	o := &models.Order{OrderNumber: "ORD-2", Total: decimal.Zero}
	_, text := decode(t, NewOrderLink(o, store))
	assert.NotContains(t, text, "maps")
	assert.NotContains(t, text, "Notes:")
}

func TestStatusLink(t *testing.T) {
	t.Parallel()

	o := &models.Order{
		OrderNumber:      "ORD-3",
		ConfirmationCode: "CONF-4821",
		CustomerPhone:    "70 11 22 33",
		Status:           models.StatusShipped,
	}

	phone, text := decode(t, StatusLink(o, "", store))
	assert.Equal(t, "22670112233", phone)
	assert.Contains(t, text, "#ORD-3 (Code: CONF-4821)")
	assert.Contains(t, text, "*En cours de livraison*")
	assert.Contains(t, text, "Votre commande est en cours de livraison.")

	phone, _ = decode(t, StatusLink(o, "0022675000000", store))
	assert.Equal(t, "22675000000", phone)
}

func TestFormatPhone(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"70 11 22 33":      "22670112233",
		"+226 70 11 22 33": "22670112233",
		"0022670112233":    "22670112233",
		"":                 "",
		"abc":              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatPhone(in), in)
	}
}

func TestStatusLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "En attente", StatusLabel(models.StatusPending))
	assert.Equal(t, "Confirmée", StatusLabel(models.StatusConfirmed))
	assert.Equal(t, "Livrée", StatusLabel(models.StatusDelivered))
	assert.Equal(t, "Annulée", StatusLabel(models.StatusCancelled))
}
