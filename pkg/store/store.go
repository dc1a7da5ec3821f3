package store

import (
	"sort"
	"sync"

	"github.com/younsl/pricenexus/internal/models"
)

// Dataset names, as shown in error strings
const (
	PricingData    = "pricing"
	VMInfoData     = "vmInfo"
	FamilyInfoData = "familyInfo"
)

// ProviderData is the set of datasets kept for one provider
type ProviderData struct {
	Pricing    *Dataset[models.PricingRecord]
	VMInfo     *Dataset[models.InstanceSpec]
	FamilyInfo *Dataset[models.InstanceSpec]
}

// Store owns the fetched data of every provider
type Store struct {
	pageSize int

	mu        sync.Mutex
	providers map[string]*ProviderData
}

// New creates an empty store
func New(pageSize int) *Store {
	return &Store{
		pageSize:  pageSize,
		providers: make(map[string]*ProviderData),
	}
}

// Provider returns the datasets of a provider, creating them on first use
func (s *Store) Provider(name string) *ProviderData {
	s.mu.Lock()
	defer s.mu.Unlock()

	pd, ok := s.providers[name]
	if !ok {
		pd = &ProviderData{
			Pricing:    NewDataset[models.PricingRecord](PricingData, s.pageSize),
			VMInfo:     NewDataset[models.InstanceSpec](VMInfoData, s.pageSize),
			FamilyInfo: NewDataset[models.InstanceSpec](FamilyInfoData, s.pageSize),
		}
		s.providers[name] = pd
	}
	return pd
}

// Providers lists the providers with datasets, sorted by name
func (s *Store) Providers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
