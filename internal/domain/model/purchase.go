package model

import (
	"fmt"
	"strings"
	"time"

	"purchase-registry/internal/domain"
)

type SupportStatus string

const (
	SupportStatusValid   SupportStatus = "valid"
	SupportStatusExpired SupportStatus = "expired"
)

// PurchaseRecord is the normalized result of a successful verify-purchase call.
// It is never persisted; only the purchase code is.
type PurchaseRecord struct {
	ItemID         string
	ItemName       string
	Buyer          string
	Licence        string
	CreatedAt      *time.Time
	SupportedUntil time.Time
	Raw            map[string]any // fields exactly as returned by the marketplace
}

// SupportStatus reports whether the support window is still open at now.
// Only calendar dates are compared: a window ending today is still valid.
func (p *PurchaseRecord) SupportStatus(now time.Time) SupportStatus {
	if dateOf(p.SupportedUntil).Before(dateOf(now)) {
		return SupportStatusExpired
	}
	return SupportStatusValid
}

// dateOf truncates t to midnight UTC of its own calendar day, keeping the
// day as written in t's location.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var marketDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseMarketDate parses the date formats the marketplace uses for
// supported_until and created_at.
func ParseMarketDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range marketDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised date %q", domain.ErrInvalidArgument, s)
}

// PurchaseSummary is one row of a purchase listing. Exactly one of Record or
// Err is set.
type PurchaseSummary struct {
	Code   string
	Record *PurchaseRecord
	Status SupportStatus
	Err    error
}
