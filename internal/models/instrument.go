package models

// Instrument is one entry of the user-curated list.
type Instrument struct {
	Symbol   string `json:"symbol" yaml:"symbol"`
	Name     string `json:"name,omitempty" yaml:"name"`
	Region   string `json:"region,omitempty" yaml:"region"`
	Currency string `json:"currency,omitempty" yaml:"currency"`
	Series   string `json:"series,omitempty" yaml:"series"` // "price", "total" or "" for the default
}
