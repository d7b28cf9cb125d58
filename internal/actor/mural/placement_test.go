package mural

import (
	"encoding/json"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"sanctuary-mural/internal/core/domain"
	"sanctuary-mural/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultAllocation = AllocationConfig{PixelPriceUSD: 100, ToleranceUSD: 5}

func strPtr(s string) *string { return &s }

func first(int) int { return 0 }

func grid(columns, rows int) *domain.Grid {
	squares := make(map[string]json.RawMessage)
	for c := 0; c < columns; c++ {
		for r := 0; r < rows; r++ {
			squares[domain.SquareKey(c, r)] = json.RawMessage(`"` + domain.SquareKey(c, r) + `"`)
		}
	}
	return &domain.Grid{Columns: columns, Rows: rows, Size: 8, Squares: squares}
}

func donation(id string, cents int64) *domain.Donation {
	return &domain.Donation{
		ID:               uuid.New(),
		Provider:         domain.ProviderTwitch,
		ProviderUniqueID: id,
		AmountCents:      cents,
		ReceivedAt:       time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		DonatedBy:        domain.DonatedBy{Primary: domain.PrimaryUsername, Username: strPtr(id)},
	}
}

func TestAllocationConfig_PixelCount(t *testing.T) {
	tests := []struct {
		cents int64
		want  int
	}{
		{0, 0},
		{-500, 0},
		{9499, 0},
		{9500, 1},
		{10000, 1},
		{19499, 1},
		{19500, 2},
		{100000, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, defaultAllocation.PixelCount(tt.cents), "cents=%d", tt.cents)
	}

	assert.Equal(t, 0, AllocationConfig{}.PixelCount(10000))
	assert.Equal(t, 2, AllocationConfig{PixelPriceUSD: 5}.PixelCount(1000))
}

func TestPlace_ColumnMajorOrder(t *testing.T) {
	g := grid(2, 3)
	occupied := map[domain.Coord]struct{}{}

	var order []domain.Coord
	for {
		c, ok := Place(g, occupied, first)
		if !ok {
			break
		}
		occupied[c] = struct{}{}
		order = append(order, c)
	}

	assert.Equal(t, []domain.Coord{
		{Column: 0, Row: 0}, {Column: 0, Row: 1}, {Column: 0, Row: 2},
		{Column: 1, Row: 0}, {Column: 1, Row: 1}, {Column: 1, Row: 2},
	}, order)
}

func TestPlace_KthFreeCoordinate(t *testing.T) {
	g := grid(2, 2)
	occupied := map[domain.Coord]struct{}{{Column: 0, Row: 1}: {}}

	var drawn int
	c, ok := Place(g, occupied, func(n int) int {
		drawn = n
		return n - 1
	})
	require.True(t, ok)
	assert.Equal(t, 3, drawn)
	assert.Equal(t, domain.Coord{Column: 1, Row: 1}, c)

	c, ok = Place(g, occupied, func(int) int { return 1 })
	require.True(t, ok)
	assert.Equal(t, domain.Coord{Column: 1, Row: 0}, c)
}

func TestPlace_IgnoresCoordinatesOutsideGrid(t *testing.T) {
	g := grid(1, 1)
	occupied := map[domain.Coord]struct{}{{Column: 5, Row: 5}: {}}

	c, ok := Place(g, occupied, first)
	require.True(t, ok)
	assert.Equal(t, domain.Coord{Column: 0, Row: 0}, c)
}

func TestPlace_Full(t *testing.T) {
	g := grid(1, 2)
	occupied := map[domain.Coord]struct{}{{Column: 0, Row: 0}: {}, {Column: 0, Row: 1}: {}}

	_, ok := Place(g, occupied, func(int) int {
		t.Fatal("no draw expected on a full mural")
		return 0
	})
	assert.False(t, ok)
}

func TestAllocate_NoDoubleAllocation(t *testing.T) {
	g := grid(7, 5)
	r := rand.New(rand.NewPCG(1, 2))
	occupied := map[domain.Coord]struct{}{{Column: 3, Row: 3}: {}}

	donations := []*domain.Donation{
		donation("a", 1000000),
		donation("b", 500000),
		donation("c", 2500000),
	}
	awards := Allocate(g, occupied, donations, defaultAllocation, r.IntN)
	require.Len(t, awards, 3)

	seen := map[domain.Coord]bool{{Column: 3, Row: 3}: true}
	placed, skipped := 0, 0
	for _, award := range awards {
		skipped += award.Skipped
		for _, p := range award.Pixels {
			assert.True(t, g.Contains(p.Column, p.Row))
			assert.False(t, seen[p.Coord()], "coordinate %v allocated twice", p.Coord())
			seen[p.Coord()] = true
			placed++
		}
	}

	// 100 + 50 + 250 slots requested, 34 free cells.
	assert.Equal(t, 34, placed)
	assert.Equal(t, 400-34, skipped)
	assert.Len(t, occupied, 35)
}

func TestAllocate_TwoByTwoScenario(t *testing.T) {
	g := grid(2, 2)
	occupied := map[domain.Coord]struct{}{}
	a := donation("a", 30000)
	b := donation("b", 20000)
	b.DonatedBy = domain.DonatedBy{Primary: domain.PrimaryFirstName, FirstName: strPtr("Ola"), Email: strPtr(" Ola@Example.com ")}

	awards := Allocate(g, occupied, []*domain.Donation{a, b}, defaultAllocation, first)
	require.Len(t, awards, 2)

	require.Len(t, awards[0].Pixels, 3)
	assert.Equal(t, 0, awards[0].Skipped)
	for _, p := range awards[0].Pixels {
		assert.Equal(t, "@a", p.Identifier)
		assert.Equal(t, a.ID, p.DonationID)
		assert.Nil(t, p.Email)
		assert.JSONEq(t, `"`+domain.SquareKey(p.Column, p.Row)+`"`, string(p.Data))
	}

	require.Len(t, awards[1].Pixels, 1)
	assert.Equal(t, 1, awards[1].Skipped)
	p := awards[1].Pixels[0]
	assert.Equal(t, domain.Coord{Column: 1, Row: 1}, p.Coord())
	assert.Equal(t, "Ola", p.Identifier)
	require.NotNil(t, p.Email)
	assert.Equal(t, service.PseudonymizeEmail("ola@example.com"), *p.Email)
	assert.NotContains(t, strings.ToLower(*p.Email), "example")
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "@otter", Identifier(domain.DonatedBy{Primary: domain.PrimaryUsername, Username: strPtr("otter")}))
	assert.Equal(t, "Ola", Identifier(domain.DonatedBy{Primary: domain.PrimaryFirstName, FirstName: strPtr("Ola")}))
	assert.Equal(t, domain.AnonymousIdentifier, Identifier(domain.DonatedBy{Primary: domain.PrimaryUsername}))
	assert.Equal(t, domain.AnonymousIdentifier, Identifier(domain.DonatedBy{Primary: domain.PrimaryFirstName, FirstName: strPtr("")}))
}

func TestEmailPseudonym(t *testing.T) {
	assert.Nil(t, EmailPseudonym(nil))
	assert.Nil(t, EmailPseudonym(strPtr("  ")))

	a := EmailPseudonym(strPtr("Donor@Example.org"))
	b := EmailPseudonym(strPtr("  donor@example.org"))
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, *a, *b)
	assert.Len(t, *a, 64)
}
