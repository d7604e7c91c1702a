package site

import (
	"math"
	"strconv"
	"strings"

	"flabi/internal/domain"
)

// LedgerForm is the raw input of the pledge and donation forms.
type LedgerForm struct {
	Name    string
	Amount  string
	Country string
}

// StatusForm is the raw input of the admin status editor.
type StatusForm struct {
	Latitude   string
	Longitude  string
	Kilometers string
}

// PostForm is the raw input of the post editor. Keep lists the existing
// image URLs that survive an edit, in display order.
type PostForm struct {
	Title string
	Body  string
	Keep  []string
}

// Upload is one image file attached to a post mutation.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (f LedgerForm) validate(op string) (string, float64, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return "", 0, domain.Invalid(op, "name is required")
	}
	amount, ok := parseNumber(f.Amount)
	if !ok || amount <= 0 {
		return "", 0, domain.Invalid(op, "amount must be a number greater than zero")
	}
	return name, amount, nil
}

func (f StatusForm) validate(op string) (domain.StatusRecord, error) {
	lat, ok := parseNumber(f.Latitude)
	if !ok {
		return domain.StatusRecord{}, domain.Invalid(op, "latitude must be a number")
	}
	lng, ok := parseNumber(f.Longitude)
	if !ok {
		return domain.StatusRecord{}, domain.Invalid(op, "longitude must be a number")
	}
	km, ok := parseNumber(f.Kilometers)
	if !ok || km < 0 {
		return domain.StatusRecord{}, domain.Invalid(op, "kilometers must be a number of at least zero")
	}
	return domain.StatusRecord{ID: domain.StatusID, Latitude: lat, Longitude: lng, KilometersTraveled: km}, nil
}

func (f PostForm) validate(op string) (string, string, error) {
	title := strings.TrimSpace(f.Title)
	body := strings.TrimSpace(f.Body)
	if title == "" || body == "" {
		return "", "", domain.Invalid(op, "title and text are required")
	}
	return title, body, nil
}

// parseNumber accepts a finite decimal. A decimal comma is accepted too.
func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func normalizeCountry(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return ""
	}
	return code
}
