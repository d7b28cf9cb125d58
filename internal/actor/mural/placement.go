package mural

import (
	"strings"

	"sanctuary-mural/internal/core/domain"
	"sanctuary-mural/internal/service"

	"github.com/google/uuid"
)

// AllocationConfig holds the pixel pricing constants.
type AllocationConfig struct {
	PixelPriceUSD int64
	ToleranceUSD  int64
}

// PixelCount returns floor((amount + tolerance) / price) for an amount in cents.
func (c AllocationConfig) PixelCount(amountCents int64) int {
	if amountCents <= 0 || c.PixelPriceUSD <= 0 {
		return 0
	}
	return int((amountCents + 100*c.ToleranceUSD) / (100 * c.PixelPriceUSD))
}

// Place picks a uniformly random free coordinate: k is drawn from [0, free)
// and the k-th free coordinate in column-major order is returned.
// It returns false when the grid has no free coordinate.
func Place(grid *domain.Grid, occupied map[domain.Coord]struct{}, intn func(n int) int) (domain.Coord, bool) {
	taken := 0
	for c := range occupied {
		if grid.Contains(c.Column, c.Row) {
			taken++
		}
	}
	remaining := grid.Cells() - taken
	if remaining <= 0 {
		return domain.Coord{}, false
	}

	k := intn(remaining)
	for column := 0; column < grid.Columns; column++ {
		for row := 0; row < grid.Rows; row++ {
			coord := domain.Coord{Column: column, Row: row}
			if _, ok := occupied[coord]; ok {
				continue
			}
			if k == 0 {
				return coord, true
			}
			k--
		}
	}
	return domain.Coord{}, false
}

// Award is the set of pixels allocated to one donation.
type Award struct {
	Donation *domain.Donation
	Pixels   []domain.Pixel
	// Skipped counts slots dropped because the mural was full.
	Skipped int
}

// Allocate places every donation's pixels in order. occupied is extended
// with each placement so no two pixels of the batch share a coordinate.
func Allocate(grid *domain.Grid, occupied map[domain.Coord]struct{}, donations []*domain.Donation, cfg AllocationConfig, intn func(n int) int) []Award {
	awards := make([]Award, 0, len(donations))
	for _, d := range donations {
		award := Award{Donation: d}
		identifier := Identifier(d.DonatedBy)
		email := EmailPseudonym(d.DonatedBy.Email)

		for slot := cfg.PixelCount(d.AmountCents); slot > 0; slot-- {
			coord, ok := Place(grid, occupied, intn)
			if !ok {
				award.Skipped++
				continue
			}
			occupied[coord] = struct{}{}
			award.Pixels = append(award.Pixels, domain.Pixel{
				ID:         uuid.New(),
				DonationID: d.ID,
				ReceivedAt: d.ReceivedAt,
				Data:       grid.Tile(coord.Column, coord.Row),
				Identifier: identifier,
				Email:      email,
				Column:     coord.Column,
				Row:        coord.Row,
			})
		}
		awards = append(awards, award)
	}
	return awards
}

// Identifier is the donor's display label: the primary field value, "@"
// prefixed for usernames, or Anonymous.
func Identifier(by domain.DonatedBy) string {
	v := by.PrimaryValue()
	if v == "" {
		return domain.AnonymousIdentifier
	}
	if by.Primary == domain.PrimaryUsername {
		return "@" + v
	}
	return v
}

// EmailPseudonym hashes the normalized address, or returns nil when absent.
func EmailPseudonym(email *string) *string {
	if email == nil {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*email))
	if normalized == "" {
		return nil
	}
	hashed := service.PseudonymizeEmail(normalized)
	return &hashed
}
