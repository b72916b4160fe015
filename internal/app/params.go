package app

import (
	"time"

	"github.com/BenShieh233/inventory-sales/internal/aggregate"
)

// Params holds the caller-adjusted view parameters for one session. The
// pipeline itself is stateless; anything that should survive between runs
// (last-used rank window, selected platforms) lives here with the caller.
type Params struct {
	SelectedPlatforms []string
	SelectedKey       string

	Start time.Time
	End   time.Time

	// Key-scoped range for the per-SKU trend view, adjustable
	// independently of the overview range above.
	SKUStart time.Time
	SKUEnd   time.Time

	MinAmount *float64
	MaxAmount *float64

	RankStart int
	RankEnd   int
}

// NewParams returns session defaults: no filters and a rank window of
// a single top row.
func NewParams() *Params {
	return &Params{RankStart: 1, RankEnd: 1}
}

// SetRankWindow remembers the last-used window, keeping the invariant
// n >= 1 and m >= n.
func (p *Params) SetRankWindow(n, m int) {
	if n < 1 {
		n = 1
	}
	if m < n {
		m = n
	}
	p.RankStart = n
	p.RankEnd = m
}

// Window returns the remembered rank window.
func (p *Params) Window() aggregate.Window {
	return aggregate.Window{N: p.RankStart, M: p.RankEnd}
}

// KeyRange returns the date range for per-key views, falling back to the
// overview range for whichever bound was not set.
func (p *Params) KeyRange() (time.Time, time.Time) {
	start, end := p.SKUStart, p.SKUEnd
	if start.IsZero() {
		start = p.Start
	}
	if end.IsZero() {
		end = p.End
	}
	return start, end
}

// Filter builds the aggregator filter for the current selections. An
// empty platform selection means no platform restriction.
func (p *Params) Filter() aggregate.Filter {
	f := aggregate.Filter{
		CanonicalKey: p.SelectedKey,
		Start:        p.Start,
		End:          p.End,
	}
	if len(p.SelectedPlatforms) > 0 {
		f.Platforms = make(map[string]bool, len(p.SelectedPlatforms))
		for _, name := range p.SelectedPlatforms {
			f.Platforms[name] = true
		}
	}
	return f
}

// ValueFilter builds the ranking value bounds for the current selections.
func (p *Params) ValueFilter() aggregate.ValueFilter {
	return aggregate.ValueFilter{Min: p.MinAmount, Max: p.MaxAmount}
}
