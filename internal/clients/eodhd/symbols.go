package eodhd

import "strings"

// yahooToEODHD maps Yahoo venue suffixes to EODHD exchange codes.
// Suffixes not listed pass through unchanged.
var yahooToEODHD = map[string]string{
	"":   "US",
	"L":  "LSE",
	"IL": "IL",
	"AS": "AS",
	"PA": "PA",
	"BR": "BR",
	"LS": "LS",
	"IR": "IR",
	"MI": "MI",
	"OL": "OL",
	"MC": "MC",
	"SW": "SW",
	"DE": "XETRA",
	"F":  "F",
	"VI": "VI",
	"ST": "ST",
	"CO": "CO",
	"HE": "HE",
	"AX": "AU",
	"NZ": "NZ",
	"TO": "TO",
	"V":  "V",
	"HK": "HK",
	"T":  "TSE",
	"KS": "KO",
	"SI": "SG",
	// EODHD carries no Cboe UK or Aquis feed; both venues trade LSE lines.
	"XC": "LSE",
	"AQ": "LSE",
}

// ToEODHDTicker converts a Yahoo symbol ("VOD.L", "MSFT") to an EODHD ticker
// ("VOD.LSE", "MSFT.US").
func ToEODHDTicker(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	base, suffix := symbol, ""
	if i := strings.LastIndex(symbol, "."); i > 0 {
		base, suffix = symbol[:i], symbol[i+1:]
	}
	exchange, ok := yahooToEODHD[suffix]
	if !ok {
		exchange = suffix
	}
	// Cboe UK lines carry a trailing "L" class letter on Yahoo (FLTRL.XC).
	if suffix == "XC" && strings.HasSuffix(base, "L") && len(base) > 1 {
		base = strings.TrimSuffix(base, "L")
	}
	return base + "." + exchange
}
