package fetch

import (
	"fmt"

	"github.com/bobmcallan/pricedesk/internal/interfaces"
)

// Tier names accepted in the fetch.tiers configuration list.
const (
	TierYahooBatch    = "yahoo_batch"
	TierYahoo         = "yahoo"
	TierYahooLookback = "yahoo_lookback"
	TierEODHD         = "eodhd"
)

// Catalog holds the sources a tier list may refer to.
type Catalog struct {
	Batch  map[string]interfaces.BatchBarSource
	Single map[string]interfaces.BarSource
}

// Chain resolves configured tier names into the batch tier and the ordered
// per-symbol tiers. Only one batch tier is allowed.
func (c Catalog) Chain(names []string) (interfaces.BatchBarSource, []interfaces.BarSource, error) {
	var batch interfaces.BatchBarSource
	var tiers []interfaces.BarSource
	seen := map[string]bool{}

	for _, name := range names {
		if seen[name] {
			return nil, nil, fmt.Errorf("tier %q listed twice", name)
		}
		seen[name] = true

		if b, ok := c.Batch[name]; ok {
			if batch != nil {
				return nil, nil, fmt.Errorf("only one batch tier allowed, got %q and %q", batch.Name(), name)
			}
			batch = b
			continue
		}
		if s, ok := c.Single[name]; ok {
			tiers = append(tiers, s)
			continue
		}
		return nil, nil, fmt.Errorf("unknown fetch tier %q", name)
	}

	if batch == nil && len(tiers) == 0 {
		return nil, nil, fmt.Errorf("no fetch tiers configured")
	}
	return batch, tiers, nil
}
