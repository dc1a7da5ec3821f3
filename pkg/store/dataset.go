package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/younsl/pricenexus/pkg/backend"
	"github.com/younsl/pricenexus/pkg/table"
)

// Fetcher loads the rows of a dataset
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Snapshot is a consistent copy of a dataset's state
type Snapshot[T any] struct {
	Rows    []T
	Loading bool
	Err     string

	// Pager is a copy of the dataset's pager at the time of the snapshot
	Pager table.Pager

	// Superseded is set on the result of a load that a newer load replaced
	Superseded bool
}

// Dataset holds the rows of one query together with its loading flag, error string and pager.
// Only the most recently started load may change it.
type Dataset[T any] struct {
	name  string
	pager *table.Pager

	mu         sync.Mutex
	rows       []T
	loading    bool
	err        string
	generation uint64
	cancel     context.CancelFunc
}

// NewDataset creates an empty dataset. name appears in error strings.
func NewDataset[T any](name string, pageSize int) *Dataset[T] {
	return &Dataset[T]{
		name:  name,
		pager: table.NewPager(pageSize),
		rows:  []T{},
	}
}

// Name returns the dataset name
func (d *Dataset[T]) Name() string {
	return d.name
}

// Load runs fetch and replaces the rows with its result. Starting a load cancels
// the one in flight, and a superseded load leaves the dataset untouched.
// On failure the rows are cleared and the error string is set.
func (d *Dataset[T]) Load(parent context.Context, fetch Fetcher[T]) Snapshot[T] {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	d.generation++
	generation := d.generation
	d.cancel = cancel
	d.loading = true
	d.err = ""
	d.mu.Unlock()

	rows, err := fetch(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	if generation != d.generation {
		return Snapshot[T]{Rows: []T{}, Superseded: true}
	}

	d.cancel = nil
	d.loading = false
	if err != nil {
		d.rows = []T{}
		d.err = fmt.Sprintf("Failed to fetch %s data. %s", d.name, backend.ErrorMessage(err))
	} else {
		if rows == nil {
			rows = []T{}
		}
		d.rows = rows
	}
	d.pager.Reset(len(d.rows))

	return d.snapshotLocked()
}

// Snapshot returns a copy of the current state
func (d *Dataset[T]) Snapshot() Snapshot[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Dataset[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		Rows:    slices.Clone(d.rows),
		Loading: d.loading,
		Err:     d.err,
		Pager:   *d.pager,
	}
}

// Rows returns a copy of the current rows
func (d *Dataset[T]) Rows() []T {
	return d.Snapshot().Rows
}

// NextPage moves the pager forward one page. It returns false on the last page.
func (d *Dataset[T]) NextPage() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pager.Next()
}

// PrevPage moves the pager back one page. It returns false on the first page.
func (d *Dataset[T]) PrevPage() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pager.Prev()
}

// GoToPage jumps to a page. Out-of-range pages are rejected.
func (d *Dataset[T]) GoToPage(page int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pager.GoTo(page)
}
