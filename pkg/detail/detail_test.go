package detail

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/pricenexus/internal/models"
	"github.com/younsl/pricenexus/pkg/backend"
)

type fakeCatalog struct {
	mu          sync.Mutex
	specs       []models.InstanceSpec
	variants    []models.InstanceSpec
	specsErr    error
	variantsErr error

	specQueries    []models.SpecFilter
	variantQueries []models.VariantFilter
}

func (f *fakeCatalog) ListSpecs(_ context.Context, q models.SpecFilter) ([]models.InstanceSpec, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.specQueries = append(f.specQueries, q)
	return f.specs, f.specsErr
}

func (f *fakeCatalog) ListVariants(_ context.Context, q models.VariantFilter) ([]models.InstanceSpec, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.variantQueries = append(f.variantQueries, q)
	return f.variants, f.variantsErr
}

func (f *fakeCatalog) variantCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.variantQueries)
}

func dseries() []models.InstanceSpec {
	return []models.InstanceSpec{
		{Region: "eastus", Name: "Standard_D2s_v3", Size: "D2s_v3", Family: "standardDSv3Family", Tier: "Standard"},
		{Region: "eastus", Name: "Standard_D4s_v3", Size: "D4s_v3", Family: "standardDSv3Family", Tier: "Standard"},
		{Region: "westus", Name: "Standard_D4s_v3", Size: "D4s_v3", Family: "standardDSv3Family", Tier: "Standard"},
		{Region: "westus", Name: "Basic_A1", Size: "A1", Family: "basicAFamily", Tier: "Basic"},
		{Region: "", Name: "Standard_D8s_v3", Size: "", Family: "standardDSv3Family", Tier: "Standard"},
	}
}

func TestLookup(t *testing.T) {
	cat := &fakeCatalog{specs: dseries()[:2]}

	vm, err := Lookup(context.Background(), cat, "eastus", "standard_d4s_v3")
	require.NoError(t, err)
	assert.Equal(t, "Standard_D4s_v3", vm.Name, "names match case-insensitively")
	assert.Equal(t, models.SpecFilter{Region: "eastus", Name: "standard_d4s_v3"}, cat.specQueries[0])
}

func TestLookup_Errors(t *testing.T) {
	_, err := Lookup(context.Background(), &fakeCatalog{}, "eastus", "Standard_D2s_v3")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "No data found for Standard_D2s_v3 in eastus")

	_, err = Lookup(context.Background(), &fakeCatalog{specs: dseries()[:1]}, "eastus", "Standard_E2s_v3")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "VM Standard_E2s_v3 not found in region eastus")

	boom := &backend.APIError{StatusCode: 502, Message: "upstream unavailable"}
	_, err = Lookup(context.Background(), &fakeCatalog{specsErr: boom}, "eastus", "x")
	assert.ErrorIs(t, err, boom)
	assert.EqualError(t, err, "Failed to load VM data: upstream unavailable")
}

func TestExplorer_Init(t *testing.T) {
	cat := &fakeCatalog{specs: dseries()[:1], variants: dseries()}
	e := NewExplorer(cat, "eastus", "Standard_D2s_v3")
	defer e.Close()

	require.NoError(t, e.Init(context.Background()))

	st := e.State()
	require.NotNil(t, st.Selected)
	assert.Equal(t, "Standard_D2s_v3", st.Selected.Name)
	assert.Equal(t, []string{"eastus", "westus"}, st.Selected.AvailableRegions)
	assert.Equal(t, "standardDSv3Family", st.Filter.Family)
	assert.Equal(t, models.VariantFilter{Region: "eastus", Family: "standardDSv3Family"}, cat.variantQueries[0])

	assert.Equal(t, []string{"D2s_v3", "D4s_v3", "A1"}, st.Variants.Sizes, "sizes are distinct and non-empty")
	assert.Equal(t, []string{"eastus", "westus"}, st.Variants.Regions)
	assert.Equal(t, []string{"standardDSv3Family", "basicAFamily"}, st.Variants.Families)
	assert.Equal(t, []string{"Standard", "Basic"}, st.Variants.Tiers)
	assert.Empty(t, st.Err)
}

func TestExplorer_InitExcludesCurrentSize(t *testing.T) {
	cat := &fakeCatalog{
		specs:    []models.InstanceSpec{{Region: "eastus", Name: "D2S_V3", Size: "D2s_v3", Family: "standardDSv3Family"}},
		variants: dseries(),
	}
	e := NewExplorer(cat, "eastus", "d2s_v3")
	defer e.Close()

	require.NoError(t, e.Init(context.Background()))
	assert.Equal(t, []string{"D4s_v3", "A1"}, e.State().Variants.Sizes)
}

func TestExplorer_InitErrors(t *testing.T) {
	t.Run("no variants", func(t *testing.T) {
		e := NewExplorer(&fakeCatalog{specs: dseries()[:1]}, "eastus", "Standard_D2s_v3")
		err := e.Init(context.Background())
		assert.ErrorIs(t, err, ErrEmpty)
		assert.Equal(t, "No variants found for standardDSv3Family in eastus", e.State().Err)
		require.NotNil(t, e.State().Selected, "the VM itself still shows")
	})

	t.Run("transport", func(t *testing.T) {
		e := NewExplorer(&fakeCatalog{specs: dseries()[:1], variantsErr: errors.New("connection refused")}, "eastus", "Standard_D2s_v3")
		err := e.Init(context.Background())
		assert.EqualError(t, err, "Failed to load variants: connection refused")
		assert.Nil(t, e.State().Selected)
	})

	t.Run("lookup transport", func(t *testing.T) {
		e := NewExplorer(&fakeCatalog{specsErr: errors.New("timeout")}, "eastus", "Standard_D2s_v3")
		assert.EqualError(t, e.Init(context.Background()), "Failed to load variants: timeout")
	})

	t.Run("zero rows", func(t *testing.T) {
		e := NewExplorer(&fakeCatalog{}, "eastus", "Standard_D2s_v3")
		err := e.Init(context.Background())
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "No data found for Standard_D2s_v3 in eastus", e.State().Err)
	})
}

func TestExplorer_ApplyWithTierSnapsToFirstRow(t *testing.T) {
	cat := &fakeCatalog{specs: dseries()[:1], variants: dseries()}
	e := NewExplorer(cat, "eastus", "Standard_D2s_v3")
	require.NoError(t, e.Init(context.Background()))

	cat.variants = []models.InstanceSpec{
		{Region: "westus", Name: "Basic_A1", Size: "A1", Family: "basicAFamily", Tier: "Basic"},
		{Region: "westus", Name: "Basic_A2", Size: "A2", Family: "basicAFamily", Tier: "Basic"},
	}
	require.NoError(t, e.Apply(context.Background(), models.VariantFilter{Region: "eastus", Family: "standardDSv3Family", Tier: "Basic"}))

	st := e.State()
	assert.Equal(t, models.VariantFilter{Region: "westus", Family: "basicAFamily", Tier: "Basic"}, st.Filter)
	require.NotNil(t, st.Selected)
	assert.Equal(t, "Basic_A1", st.Selected.Name)
	assert.Equal(t, []string{"westus"}, st.Selected.AvailableRegions)
	assert.Equal(t, []string{"A1", "A2"}, st.Variants.Sizes)
}

func TestExplorer_ApplyWithoutTierKeepsSelection(t *testing.T) {
	cat := &fakeCatalog{specs: dseries()[:1], variants: dseries()}
	e := NewExplorer(cat, "eastus", "Standard_D2s_v3")
	require.NoError(t, e.Init(context.Background()))

	cat.variants = dseries()[2:3]
	require.NoError(t, e.Apply(context.Background(), models.VariantFilter{Region: "westus"}))

	st := e.State()
	assert.Equal(t, "Standard_D2s_v3", st.Selected.Name)
	assert.Equal(t, models.VariantFilter{Region: "westus"}, st.Filter)
	assert.Equal(t, []string{"D4s_v3"}, st.Variants.Sizes)
}

func TestExplorer_ApplyErrors(t *testing.T) {
	cat := &fakeCatalog{}
	e := NewExplorer(cat, "eastus", "Standard_D2s_v3")

	err := e.Apply(context.Background(), models.VariantFilter{Tier: "Basic"})
	assert.ErrorIs(t, err, ErrEmpty)
	assert.Equal(t, "No VMs found for the applied filters", e.State().Err)

	cat.variantsErr = &backend.APIError{StatusCode: 500, Message: "bad filter"}
	err = e.Apply(context.Background(), models.VariantFilter{Tier: "Basic"})
	assert.EqualError(t, err, "Failed to apply filters for Variants: bad filter")
}

func TestExplorer_Select(t *testing.T) {
	cat := &fakeCatalog{specs: dseries()[:1], variants: dseries()}
	e := NewExplorer(cat, "eastus", "Standard_D2s_v3")
	require.NoError(t, e.Init(context.Background()))

	cat.specs = dseries()[1:2]
	require.NoError(t, e.Select(context.Background(), "D4s_v3"))
	assert.Equal(t, models.SpecFilter{Region: "eastus", Name: "D4s_v3"}, cat.specQueries[len(cat.specQueries)-1])

	st := e.State()
	assert.Equal(t, "Standard_D4s_v3", st.Selected.Name)
	assert.Equal(t, []string{"eastus", "westus"}, st.Selected.AvailableRegions)

	cat.specs = nil
	err := e.Select(context.Background(), "D64s_v3")
	assert.EqualError(t, err, "No data found for D64s_v3 in eastus")
	assert.Equal(t, "Standard_D4s_v3", e.State().Selected.Name, "a failed pivot keeps the current VM")
}

func TestExplorer_SetFilterDebounces(t *testing.T) {
	cat := &fakeCatalog{variants: dseries()[:2]}
	e := NewExplorer(cat, "eastus", "Standard_D2s_v3")
	defer e.Close()

	done := make(chan error, 4)
	require.NoError(t, e.SetFilter(context.Background(), "family", "standardDSv3Family", func(err error) { done <- err }))
	require.NoError(t, e.SetFilter(context.Background(), "tier", "Standard", func(err error) { done <- err }))
	assert.Error(t, e.SetFilter(context.Background(), "color", "red", nil))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced apply did not run")
	}
	assert.Equal(t, 1, cat.variantCalls(), "the burst collapses into one query")
	assert.Equal(t, models.VariantFilter{Region: "eastus", Family: "standardDSv3Family", Tier: "Standard"}, cat.variantQueries[0])

	e.ClearFilters()
	assert.True(t, e.State().Filter.IsZero())
}
