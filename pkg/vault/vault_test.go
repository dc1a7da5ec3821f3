package vault

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/pricenexus/internal/models"
)

const path = "/home/test/.config/pricenexus/vault.json"

func record(region, size string) models.PricingRecord {
	return models.PricingRecord{
		RegionName:    region,
		VMSize:        size,
		PriceType:     "Consumption",
		EffectiveDate: "2024-05-01",
		RetailPrice:   decimal.RequireFromString("0.192"),
		PricePerHour:  decimal.NewNullDecimal(decimal.RequireFromString("0.192")),
		Currency:      "USD",
	}
}

func openVault(t *testing.T, fs afero.Fs) *Vault {
	t.Helper()
	v, err := Open(fs, path)
	require.NoError(t, err)
	v.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return v
}

func TestOpen_MissingFileIsEmpty(t *testing.T) {
	v := openVault(t, afero.NewMemMapFs())
	assert.Zero(t, v.Len())
	assert.Empty(t, v.Entries())
}

func TestOpen_CorruptFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, path, []byte("{"), 0o600))
	_, err := Open(fs, path)
	assert.ErrorContains(t, err, "error parsing vault")
}

func TestToggle_PersistsAcrossOpen(t *testing.T) {
	fs := afero.NewMemMapFs()
	v := openVault(t, fs)

	selected, err := v.Toggle("azure", record("eastus", "D2s_v3"))
	require.NoError(t, err)
	assert.True(t, selected)
	_, err = v.Toggle("azure", record("westus", "D2s_v3"))
	require.NoError(t, err)

	reopened := openVault(t, fs)
	entries := reopened.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "eastus-D2s_v3-Consumption-2024-05-01", entries[0].ItemKey)
	assert.Equal(t, "azure", entries[0].Provider)
	assert.True(t, entries[0].RetailPrice.Equal(decimal.RequireFromString("0.192")))
	assert.Equal(t, 2024, entries[0].SavedAt.Year())

	selected, err = reopened.Toggle("azure", record("eastus", "D2s_v3"))
	require.NoError(t, err)
	assert.False(t, selected, "toggling a saved record removes it")
	assert.False(t, reopened.Contains("eastus-D2s_v3-Consumption-2024-05-01"))
	assert.Equal(t, 1, openVault(t, fs).Len())
}

func TestAdd_SkipsDuplicates(t *testing.T) {
	v := openVault(t, afero.NewMemMapFs())
	e := models.NewSelectionEntry("aws", record("us-east-1", "m5.large"), time.Time{})

	n, err := v.Add(e, e)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, v.Entries()[0].SavedAt.IsZero())

	n, err = v.Add(e, models.SelectionEntry{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRemoveAndSelect(t *testing.T) {
	v := openVault(t, afero.NewMemMapFs())
	for _, size := range []string{"A", "B", "C"} {
		_, err := v.Toggle("azure", record("eastus", size))
		require.NoError(t, err)
	}

	picked, err := v.Select("3", "eastus-A-Consumption-2024-05-01")
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "C", picked[0].VMSize)
	assert.Equal(t, "A", picked[1].VMSize)

	all, err := v.Select()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = v.Select("9")
	assert.ErrorIs(t, err, ErrUnknownEntry)

	n, err := v.Remove("2", "eastus-B-Consumption-2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "duplicate references count once")
	assert.Equal(t, []string{"A", "C"}, sizes(v.Entries()))

	_, err = v.Remove("nope")
	assert.ErrorIs(t, err, ErrUnknownEntry)
	assert.Equal(t, 2, v.Len())
}

func TestClear(t *testing.T) {
	fs := afero.NewMemMapFs()
	v := openVault(t, fs)
	_, err := v.Toggle("azure", record("eastus", "A"))
	require.NoError(t, err)

	require.NoError(t, v.Clear())
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
	assert.Zero(t, openVault(t, fs).Len())
}

func TestByProvider(t *testing.T) {
	v := openVault(t, afero.NewMemMapFs())
	_, err := v.Toggle("azure", record("eastus", "A"))
	require.NoError(t, err)
	rec := record("us-east-1", "m5.large")
	rec.Provider = "aws"
	_, err = v.Toggle("azure", rec)
	require.NoError(t, err)
	_, err = v.Add(models.SelectionEntry{ItemKey: "k", Provider: "oracle"})
	require.NoError(t, err)

	groups := v.ByProvider()
	assert.Len(t, groups["azure"], 1)
	assert.Len(t, groups["aws"], 1, "the record's own provider wins")
	assert.NotNil(t, groups["gcp"])
	assert.Empty(t, groups["gcp"])
	assert.Equal(t, []string{"azure", "aws", "gcp", "oracle"}, ProviderNames(groups))
}

func sizes(entries []models.SelectionEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.VMSize)
	}
	return out
}

func TestFailedWriteKeepsEntries(t *testing.T) {
	mem := afero.NewMemMapFs()
	seed := openVault(t, mem)
	_, err := seed.Toggle("azure", record("eastus", "D2s_v3"))
	require.NoError(t, err)
	_, err = seed.Toggle("azure", record("westus", "D4s_v3"))
	require.NoError(t, err)

	v := openVault(t, afero.NewReadOnlyFs(mem))
	before := v.Entries()
	require.Len(t, before, 2)

	_, err = v.Toggle("azure", record("eastus", "D2s_v3"))
	assert.Error(t, err)
	_, err = v.Toggle("aws", record("us-east-1", "m5.large"))
	assert.Error(t, err)
	n, err := v.Add(models.SelectionEntry{ItemKey: "new-key", Provider: "azure"})
	assert.Error(t, err)
	assert.Zero(t, n)
	n, err = v.Remove("1")
	assert.Error(t, err)
	assert.Zero(t, n)
	assert.Error(t, v.Clear())

	assert.Equal(t, before, v.Entries(), "the vault matches the file after failed writes")
	assert.True(t, v.Contains("eastus-D2s_v3-Consumption-2024-05-01"))
	assert.Equal(t, 2, openVault(t, mem).Len())
}
