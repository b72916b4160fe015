package aggregate

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
)

// ValueFilter bounds the summed amounts considered for ranking. Both
// bounds are inclusive and either may be nil.
type ValueFilter struct {
	Min *float64
	Max *float64
}

func (f ValueFilter) match(amount float64) bool {
	if f.Min != nil && amount < *f.Min {
		return false
	}
	if f.Max != nil && amount > *f.Max {
		return false
	}
	return true
}

// Window is a 1-indexed inclusive rank range [N, M].
type Window struct {
	N int
	M int
}

// EmptyWindowError reports a rank window starting beyond the last
// available row. The caller should re-prompt for a valid window.
type EmptyWindowError struct {
	N     int
	Total int
}

func (e *EmptyWindowError) Error() string {
	return fmt.Sprintf("rank window starts at %d but only %d rows remain after filtering", e.N, e.Total)
}

// Rank sorts key-grouped rows descending by amount, ties broken by
// ascending canonical key, applies the value filter first, and returns
// the window slice. M is clamped to the post-filter row count; an N past
// the end yields an EmptyWindowError.
func Rank(rows []Row, filter ValueFilter, window Window) ([]Row, error) {
	ranked := make([]Row, 0, len(rows))
	for _, row := range rows {
		if filter.match(row.Amount) {
			ranked = append(ranked, row)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Amount != ranked[j].Amount {
			return ranked[i].Amount > ranked[j].Amount
		}
		return ranked[i].CanonicalKey < ranked[j].CanonicalKey
	})

	if window.N < 1 {
		window.N = 1
	}
	if window.N > len(ranked) {
		return nil, &EmptyWindowError{N: window.N, Total: len(ranked)}
	}
	if window.M > len(ranked) {
		window.M = len(ranked)
	}
	if window.M < window.N {
		window.M = window.N
	}

	log.Debug().
		Int("candidates", len(rows)).
		Int("after_filter", len(ranked)).
		Int("from", window.N).
		Int("to", window.M).
		Msg("Ranked canonical keys")

	return ranked[window.N-1 : window.M], nil
}
