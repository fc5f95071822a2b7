package handlers

import (
	"html/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"agritrace/internal/domain"
)

// Funcs are the template helpers every view may use.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"statusLabel": func(s domain.Status) string { return domain.StatusStyle(s).Label },
		"statusBadge": func(s domain.Status) string { return domain.StatusStyle(s).Badge },
		"ago":         humanize.Time,
		"stamp":       func(t time.Time) string { return t.UTC().Format("Jan 2, 2006 15:04") },
		"day":         func(t time.Time) string { return t.Format(domain.DateLayout) },
		"money":       money,
		"moneyPtr": func(d *decimal.Decimal) string {
			if d == nil {
				return ""
			}
			return money(*d)
		},
		"code": func(s domain.Status) string { return s.String() },
	}
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
