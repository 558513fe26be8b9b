package common

import "time"

// LiveQuoteTTL is how long a fetched live quote is reused before refetching.
const LiveQuoteTTL = 30 * time.Second

// IsFresh reports whether stamp is set and younger than ttl at now.
func IsFresh(stamp, now time.Time, ttl time.Duration) bool {
	return !stamp.IsZero() && now.Sub(stamp) < ttl
}
