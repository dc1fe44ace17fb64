package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDerivedPrices(t *testing.T) {
	p := Product{PiecePrice: 10, BoxQuantity: 12}
	assert.Equal(t, 120.0, p.BoxPrice())
	assert.Equal(t, 60.0, p.PackPrice())
}

func TestValidateRejectsNegatives(t *testing.T) {
	p := Product{Name: "x", PiecePrice: -1}
	assert.Error(t, p.Validate())

	p = Product{Name: "x", BoxQuantity: -1}
	assert.Error(t, p.Validate())

	p = Product{Name: "x", PiecePrice: 0, BoxQuantity: 0}
	assert.NoError(t, p.Validate())
}

func TestValidateRequiresName(t *testing.T) {
	p := Product{Name: "   "}
	assert.Error(t, p.Validate())
}

func TestIsNewWithin(t *testing.T) {
	now := time.Now()
	p := Product{IsNew: true, CreatedAt: now.Add(-5 * 24 * time.Hour)}
	assert.True(t, p.IsNewWithin(14, now))
	assert.False(t, p.IsNewWithin(3, now))

	p.IsNew = false
	assert.False(t, p.IsNewWithin(14, now))
}

func TestNewRecordIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewRecordID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
