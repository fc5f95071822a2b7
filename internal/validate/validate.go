package validate

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"agritrace/internal/domain"
)

var (
	// Scan box input: batch ids, QR payloads and fragments of either.
	reScan = regexp.MustCompile(`^[A-Za-z0-9 _-]{1,40}$`)
	reID   = regexp.MustCompile(`^[A-Z]{3}-[0-9]{4}-[0-9]{3,}$`)
	// Free text shown back on dashboards; letters in any script.
	reText = regexp.MustCompile(`^[\p{L}\p{N} .,'&()#/:°+-]+$`)
)

// Scan validates a scanned or typed QR/batch code.
func Scan(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, reScan.MatchString(s)
}

// BatchID validates a full batch identifier such as TOM-2024-001.
func BatchID(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, reID.MatchString(s)
}

// ProductName validates a produce name.
func ProductName(s string) (string, bool) {
	return text(s, 60)
}

// Location validates a farm, warehouse or store location.
func Location(s string) (string, bool) {
	return text(s, 80)
}

// ActorName validates the optional name typed next to an update.
func ActorName(s string) (string, bool) {
	return text(s, 40)
}

// Certificate is optional; empty is valid.
func Certificate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return text(s, 80)
}

// Temperature is a free-form reading ("4°C"); empty is valid.
func Temperature(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return s, len(s) <= 16
}

// Notes is optional free text, length-capped only.
func Notes(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= 280
}

// Date parses a YYYY-MM-DD calendar date.
func Date(s string) (time.Time, bool) {
	t, err := time.Parse(domain.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Price parses a non-negative amount with at most two decimals.
func Price(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() || !d.Equal(d.Round(2)) {
		return decimal.Decimal{}, false
	}
	if d.GreaterThan(decimal.NewFromInt(100000)) {
		return decimal.Decimal{}, false
	} // clamp to avoid typos
	return d, true
}

// Status validates a status code or label.
func Status(s string) (domain.Status, bool) {
	return domain.ParseStatus(s)
}

// Role validates a dashboard role.
func Role(s string) (domain.Role, bool) {
	return domain.ParseRole(s)
}

func text(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > max {
		return "", false
	}
	return s, reText.MatchString(s)
}
