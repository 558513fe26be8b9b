package models

import "time"

// LiveQuote is a last-trade price from a real-time source.
type LiveQuote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Currency  string    `json:"currency,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source,omitempty"` // "yahoo" or "eodhd"
}
