// Package importer turns spreadsheet-like rows into catalog records.
//
// Column layout (A..H): external id, image URL, name, description,
// volume/weight, category, availability, price. The first row is a header.
package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	DefaultCategory = "Divers"
	InStockDefault  = 100
)

const (
	colExternalID = iota
	colImage
	colName
	colDescription
	colVolumeWeight
	colCategory
	colAvailability
	colPrice
)

var ErrNameRequired = errors.New("name required")

// Row is one raw line of a source. Number is the 1-based line number in the
// source, header included.
type Row struct {
	Number int
	Cells  []string
}

func (r Row) cell(i int) string {
	if i >= len(r.Cells) {
		return ""
	}
	return strings.TrimSpace(r.Cells[i])
}

func (r Row) ExternalID() string {
	return r.cell(colExternalID)
}

type Record struct {
	ExternalID       string
	ImageURL         string
	Name             string
	Description      string
	ShortDescription string
	VolumeWeight     string
	CategoryName     string
	Stock            int
	Price            decimal.Decimal
}

// ParseRow maps a raw row to a Record. skip is true for blank rows.
func ParseRow(r Row) (rec Record, skip bool, err error) {
	rec = Record{
		ExternalID:   r.cell(colExternalID),
		ImageURL:     r.cell(colImage),
		Name:         r.cell(colName),
		Description:  r.cell(colDescription),
		VolumeWeight: r.cell(colVolumeWeight),
		CategoryName: r.cell(colCategory),
	}

	if rec.Name == "" {
		if rec.ExternalID == "" {
			return Record{}, true, nil
		}
		return Record{}, false, ErrNameRequired
	}
	if rec.CategoryName == "" {
		rec.CategoryName = DefaultCategory
	}

	rec.ShortDescription = rec.VolumeWeight
	if rec.ShortDescription == "" {
		rec.ShortDescription = truncate(rec.Description, 100)
	}

	rec.Stock = ParseAvailability(r.cell(colAvailability))

	rec.Price, err = ParsePrice(r.cell(colPrice))
	if err != nil {
		return Record{}, false, err
	}
	return rec, false, nil
}

// ParsePrice reads prices such as "2 500 FCFA", "1.500", "1,500.75" or
// "12,5". A single separator followed by exactly three digits, or a repeated
// separator, is a thousands separator. When both ',' and '.' occur the last
// one is the decimal point.
func ParsePrice(s string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	clean := strings.Trim(b.String(), ".,")
	if clean == "" {
		return decimal.Zero, nil
	}

	lastDot := strings.LastIndex(clean, ".")
	lastComma := strings.LastIndex(clean, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot > lastComma {
			clean = strings.ReplaceAll(clean, ",", "")
		} else {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		}
	case lastDot >= 0:
		clean = resolveSingleSeparator(clean, ".")
	case lastComma >= 0:
		clean = resolveSingleSeparator(clean, ",")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q", s)
	}
	return d, nil
}

func resolveSingleSeparator(s, sep string) string {
	if strings.Count(s, sep) > 1 {
		return strings.ReplaceAll(s, sep, "")
	}
	i := strings.Index(s, sep)
	if len(s)-i-1 == 3 {
		return strings.ReplaceAll(s, sep, "")
	}
	return strings.Replace(s, sep, ".", 1)
}

// ParseAvailability infers a stock quantity from free text. Any digits are
// read as the quantity; otherwise keywords decide between out of stock (0)
// and InStockDefault.
func ParseAvailability(s string) int {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() > 0 {
		n, err := strconv.Atoi(digits.String())
		if err != nil {
			return 0
		}
		return n
	}

	lower := strings.ToLower(s)
	for _, kw := range []string{"indisponible", "rupture", "non"} {
		if strings.Contains(lower, kw) {
			return 0
		}
	}
	for _, kw := range []string{"stock", "disponible", "oui"} {
		if strings.Contains(lower, kw) {
			return InStockDefault
		}
	}
	return 0
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}
