package models

// YTDAnchor selects how the year-to-date baseline session is chosen.
type YTDAnchor string

const (
	// AnchorStandard uses the last session strictly before Jan 1.
	AnchorStandard YTDAnchor = "standard"
	// AnchorPreHoliday uses the last session on or before Dec 27 of the prior year.
	AnchorPreHoliday YTDAnchor = "pre_holiday"
)

// ReturnPolicy is the per-symbol calculation policy.
type ReturnPolicy struct {
	UsePriceReturn bool      `json:"use_price_return"`
	YTDAnchor      YTDAnchor `json:"ytd_anchor"`
}
