package domain

import (
	"errors"
	"time"
)

// ProductType classifies products into the availability rule that governs them.
type ProductType string

const (
	ProductTypeNormal    ProductType = "NORMAL"
	ProductTypeSeasonal  ProductType = "SEASONAL"
	ProductTypeExpirable ProductType = "EXPIRABLE"
)

// Day is the unit lead times are expressed in.
const Day = 24 * time.Hour

// maxLeadTimeDays keeps date arithmetic inside time.Time's range. Any restock
// further out than this lands after every representable season end anyway.
const maxLeadTimeDays = 1 << 30

var (
	ErrInvalidProductID    = errors.New("product id must be greater than zero")
	ErrInvalidProductType  = errors.New("product type is invalid")
	ErrNegativeStock       = errors.New("available stock must not be negative")
	ErrNegativeLeadTime    = errors.New("lead time must not be negative")
	ErrMissingSeasonWindow = errors.New("seasonal product requires season start and end dates")
	ErrInvertedSeason      = errors.New("season start must not be after season end")
	ErrMissingExpiryDate   = errors.New("expirable product requires an expiry date")
)

// Product is a catalog item with stock and type-specific availability data.
type Product struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Type            ProductType `json:"type"`
	Available       int         `json:"available"`
	LeadTime        int         `json:"leadTime"`
	ExpiryDate      *time.Time  `json:"expiryDate,omitempty"`
	SeasonStartDate *time.Time  `json:"seasonStartDate,omitempty"`
	SeasonEndDate   *time.Time  `json:"seasonEndDate,omitempty"`
}

// Validate enforces the invariants of a stored product row.
func (p *Product) Validate() error {
	if p.ID <= 0 {
		return ErrInvalidProductID
	}
	if !IsKnownProductType(p.Type) {
		return ErrInvalidProductType
	}
	if p.Available < 0 {
		return ErrNegativeStock
	}
	if p.LeadTime < 0 {
		return ErrNegativeLeadTime
	}
	switch p.Type {
	case ProductTypeSeasonal:
		if p.SeasonStartDate == nil || p.SeasonEndDate == nil {
			return ErrMissingSeasonWindow
		}
		if p.SeasonStartDate.After(*p.SeasonEndDate) {
			return ErrInvertedSeason
		}
	case ProductTypeExpirable:
		if p.ExpiryDate == nil {
			return ErrMissingExpiryDate
		}
	}
	return nil
}

// InStock reports whether at least one unit can be taken.
func (p *Product) InStock() bool {
	return p.Available > 0
}

// TakeOne removes a unit from stock. It never drives stock below zero.
func (p *Product) TakeOne() {
	if p.Available > 0 {
		p.Available--
	}
}

// MarkUnavailable zeroes the stock.
func (p *Product) MarkUnavailable() {
	p.Available = 0
}

// DeliveryDate is when a restock ordered at now would arrive, LeadTime whole
// 24h days later. Days are added in UTC so the step never shifts with DST.
func (p *Product) DeliveryDate(now time.Time) time.Time {
	return now.UTC().AddDate(0, 0, min(p.LeadTime, maxLeadTimeDays)).In(now.Location())
}

// InSeason reports whether now falls inside the inclusive season window.
// A product without a complete window is never in season.
func (p *Product) InSeason(now time.Time) bool {
	if p.SeasonStartDate == nil || p.SeasonEndDate == nil {
		return false
	}
	return !now.Before(*p.SeasonStartDate) && !now.After(*p.SeasonEndDate)
}

// Expired reports whether the product can no longer be sold at now.
// The expiry instant itself already counts as expired.
func (p *Product) Expired(now time.Time) bool {
	if p.ExpiryDate == nil {
		return false
	}
	return !p.ExpiryDate.After(now)
}

// Clone returns a deep copy so callers can mutate without aliasing stored state.
func (p Product) Clone() Product {
	p.ExpiryDate = cloneTime(p.ExpiryDate)
	p.SeasonStartDate = cloneTime(p.SeasonStartDate)
	p.SeasonEndDate = cloneTime(p.SeasonEndDate)
	return p
}

// IsKnownProductType reports whether t is one of the supported product types.
func IsKnownProductType(t ProductType) bool {
	switch t {
	case ProductTypeNormal, ProductTypeSeasonal, ProductTypeExpirable:
		return true
	default:
		return false
	}
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
