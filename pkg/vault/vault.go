// Package vault persists the comparison selections between runs.
package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/younsl/pricenexus/internal/models"
)

// Providers lists the vault panels in display order
var Providers = []string{"azure", "aws", "gcp"}

// ErrUnknownEntry is returned when a reference matches no vault entry
var ErrUnknownEntry = errors.New("no such vault entry")

// Vault is the set of selections saved for comparison, backed by one JSON file
type Vault struct {
	fs   afero.Fs
	path string
	now  func() time.Time

	mu      sync.Mutex
	entries []models.SelectionEntry
}

// Open loads the vault file. A missing file yields an empty vault.
func Open(fs afero.Fs, path string) (*Vault, error) {
	v := &Vault{fs: fs, path: path, now: time.Now}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return v, nil
		}
		return nil, fmt.Errorf("error reading vault %s: %w", path, err)
	}
	if len(data) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(data, &v.entries); err != nil {
		return nil, fmt.Errorf("error parsing vault %s: %w", path, err)
	}
	return v, nil
}

// Path returns the backing file
func (v *Vault) Path() string { return v.path }

// Entries returns a copy of the saved selections in insertion order
func (v *Vault) Entries() []models.SelectionEntry {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.entries)
}

// Len returns the number of saved selections
func (v *Vault) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.entries)
}

// Contains reports whether a record with the item key is saved
func (v *Vault) Contains(itemKey string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.indexOf(itemKey) >= 0
}

// Toggle saves the record when absent and removes it when present.
// It reports whether the record is selected afterwards.
func (v *Vault) Toggle(provider string, rec models.PricingRecord) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	key := rec.ItemKey()
	if i := v.indexOf(key); i >= 0 {
		return false, v.commit(slices.Delete(slices.Clone(v.entries), i, i+1))
	}
	next := append(slices.Clone(v.entries), models.NewSelectionEntry(provider, rec, v.now()))
	return true, v.commit(next)
}

// Add saves entries, skipping item keys already present. It returns how many were added.
func (v *Vault) Add(entries ...models.SelectionEntry) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	next := slices.Clone(v.entries)
	seen := make(map[string]bool, len(next))
	for _, e := range next {
		seen[e.ItemKey] = true
	}

	added := 0
	for _, e := range entries {
		if e.ItemKey == "" || seen[e.ItemKey] {
			continue
		}
		if e.SavedAt.IsZero() {
			e.SavedAt = v.now()
		}
		seen[e.ItemKey] = true
		next = append(next, e)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := v.commit(next); err != nil {
		return 0, err
	}
	return added, nil
}

// Remove deletes the referenced entries. A reference is an item key or a 1-based position.
func (v *Vault) Remove(refs ...string) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	idx, err := v.resolve(refs)
	if err != nil {
		return 0, err
	}
	drop := make(map[int]bool, len(idx))
	for _, i := range idx {
		drop[i] = true
	}

	kept := v.entries[:0:0]
	for i, e := range v.entries {
		if !drop[i] {
			kept = append(kept, e)
		}
	}
	if err := v.commit(kept); err != nil {
		return 0, err
	}
	return len(drop), nil
}

// Clear removes every entry
func (v *Vault) Clear() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.commit(nil)
}

// Select resolves references to entries in the order given.
// No references selects everything.
func (v *Vault) Select(refs ...string) ([]models.SelectionEntry, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(refs) == 0 {
		return slices.Clone(v.entries), nil
	}
	idx, err := v.resolve(refs)
	if err != nil {
		return nil, err
	}
	out := make([]models.SelectionEntry, 0, len(idx))
	for _, i := range idx {
		out = append(out, v.entries[i])
	}
	return out, nil
}

// ByProvider groups the entries by provider. Every name in Providers has a key.
func (v *Vault) ByProvider() map[string][]models.SelectionEntry {
	v.mu.Lock()
	defer v.mu.Unlock()

	groups := make(map[string][]models.SelectionEntry, len(Providers))
	for _, p := range Providers {
		groups[p] = []models.SelectionEntry{}
	}
	for _, e := range v.entries {
		groups[e.Provider] = append(groups[e.Provider], e)
	}
	return groups
}

// ProviderNames returns the group names of ByProvider with the fixed panels first
func ProviderNames(groups map[string][]models.SelectionEntry) []string {
	names := slices.Clone(Providers)
	var extra []string
	for name := range groups {
		if !slices.Contains(Providers, name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

func (v *Vault) indexOf(itemKey string) int {
	return slices.IndexFunc(v.entries, func(e models.SelectionEntry) bool {
		return e.ItemKey == itemKey
	})
}

func (v *Vault) resolve(refs []string) ([]int, error) {
	out := make([]int, 0, len(refs))
	seen := make(map[int]bool, len(refs))
	for _, ref := range refs {
		i := v.indexOf(ref)
		if i < 0 {
			if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(v.entries) {
				i = n - 1
			}
		}
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEntry, ref)
		}
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	return out, nil
}

// commit writes next to disk and makes it the vault content. On failure the vault keeps
// its previous entries.
func (v *Vault) commit(next []models.SelectionEntry) error {
	if err := v.fs.MkdirAll(filepath.Dir(v.path), 0o755); err != nil {
		return fmt.Errorf("error creating vault directory: %w", err)
	}

	entries := next
	if entries == nil {
		entries = []models.SelectionEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding vault: %w", err)
	}

	tmp := v.path + ".tmp"
	if err := afero.WriteFile(v.fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("error writing vault %s: %w", v.path, err)
	}
	if err := v.fs.Rename(tmp, v.path); err != nil {
		return fmt.Errorf("error replacing vault %s: %w", v.path, err)
	}
	v.entries = next
	return nil
}
