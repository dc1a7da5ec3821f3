package store

import (
	"context"
	"sync"
	"time"

	"github.com/younsl/pricenexus/internal/models"
)

// ApplyFunc runs a fetch for a filter set
type ApplyFunc func(ctx context.Context, f models.PriceFilter)

// FilterPanel holds the editable price filters. Every edit schedules a debounced
// refetch; Apply fetches immediately.
type FilterPanel struct {
	ctx       context.Context
	apply     ApplyFunc
	debouncer *Debouncer

	mu     sync.Mutex
	filter models.PriceFilter
}

// NewFilterPanel creates a panel whose fetches run under ctx
func NewFilterPanel(ctx context.Context, delay time.Duration, apply ApplyFunc) *FilterPanel {
	return &FilterPanel{
		ctx:       ctx,
		apply:     apply,
		debouncer: NewDebouncer(delay),
	}
}

// Filter returns the current filter set
func (p *FilterPanel) Filter() models.PriceFilter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filter
}

// Set updates one filter field by key and schedules a refetch
func (p *FilterPanel) Set(key, value string) error {
	p.mu.Lock()
	err := p.filter.Set(key, value)
	p.mu.Unlock()
	if err != nil {
		return err
	}

	p.debouncer.Trigger(func() { p.apply(p.ctx, p.Filter()) })
	return nil
}

// Reset clears every field and schedules a refetch
func (p *FilterPanel) Reset() {
	p.mu.Lock()
	p.filter = models.PriceFilter{}
	p.mu.Unlock()

	p.debouncer.Trigger(func() { p.apply(p.ctx, p.Filter()) })
}

// Apply drops any pending refetch and fetches now
func (p *FilterPanel) Apply() {
	p.debouncer.Stop()
	p.apply(p.ctx, p.Filter())
}

// Close drops any pending refetch
func (p *FilterPanel) Close() {
	p.debouncer.Stop()
}
