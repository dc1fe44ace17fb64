package cache

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failTier simulates a broken tier.
type failTier struct{}

func (failTier) Name() string                     { return "broken" }
func (failTier) Get(string) ([]byte, bool, error) { return nil, false, errors.New("tier broken") }
func (failTier) Put(string, []byte) error         { return errors.New("tier broken") }
func (failTier) Remove(string) error              { return errors.New("tier broken") }
func (failTier) Has(string) (bool, error)         { return false, errors.New("tier broken") }

func TestChainPutReadsBackFromFast(t *testing.T) {
	chain := NewChain(NewMemoryTier(), NewMemoryTier(), NewMemoryTier())
	require.NoError(t, chain.Put("k", []byte("v")))

	v, ok, err := chain.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)
}

func TestChainDurableFailureSwallowed(t *testing.T) {
	chain := NewChain(NewMemoryTier(), NewMemoryTier(), failTier{})
	assert.NoError(t, chain.Put("k", []byte("v")), "durable tier failures must not fail the put")

	_, ok, err := chain.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestChainFastFailureIsLoud(t *testing.T) {
	chain := NewChain(failTier{}, NewMemoryTier(), NewMemoryTier())
	assert.Error(t, chain.Put("k", []byte("v")), "the fast tier is the durability floor")
}

func TestChainPromotesFromSlowerTier(t *testing.T) {
	fast := NewMemoryTier()
	durable := NewMemoryTier()
	require.NoError(t, durable.Put("k", []byte("v")))

	chain := NewChain(fast, nil, durable)
	v, ok, err := chain.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)

	// the hit must now live in the fast tier
	v, ok, err = fast.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)
}

func TestChainMissEverywhere(t *testing.T) {
	chain := NewChain(NewMemoryTier(), NewMemoryTier(), NewMemoryTier())
	_, ok, err := chain.Get("absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChainRemove(t *testing.T) {
	chain := NewChain(NewMemoryTier(), NewMemoryTier(), NewMemoryTier())
	require.NoError(t, chain.Put("k", []byte("v")))
	require.NoError(t, chain.Remove("k"))

	ok, err := chain.Has("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileTierRoundTrip(t *testing.T) {
	tier, err := NewFileTier(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, tier.Put("products", []byte(`[{"id":"1"}]`)))
	v, ok, err := tier.Get("products")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`[{"id":"1"}]`), v)

	require.NoError(t, tier.Remove("products"))
	_, ok, err = tier.Get("products")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBoltTierRoundTrip(t *testing.T) {
	tier, err := NewBoltTier(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer tier.Close()

	require.NoError(t, tier.Put("categories", []byte("[]")))
	v, ok, err := tier.Get("categories")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("[]"), v)

	has, err := tier.Has("categories")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, tier.Remove("categories"))
	has, err = tier.Has("categories")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestStoreJSONRoundTrip(t *testing.T) {
	store := NewStore(NewMemoryTier())
	type rec struct {
		ID string `json:"id"`
	}
	require.NoError(t, store.PutJSON(KeyProducts, []rec{{ID: "a"}}))

	var out []rec
	ok, err := store.GetJSON(KeyProducts, &out)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)

	ok, err = store.GetJSON("missing", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}
