package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AnonymousIdentifier is shown for donors without a primary display value.
const AnonymousIdentifier = "Anonymous"

// Pixel is one allocated mural cell attributed to a donation.
type Pixel struct {
	ID         uuid.UUID       `json:"id"`
	DonationID uuid.UUID       `json:"donationId"`
	ReceivedAt time.Time       `json:"receivedAt"`
	Data       json.RawMessage `json:"data"`
	Identifier string          `json:"identifier"`
	Email      *string         `json:"email,omitempty"` // SHA-256 hex pseudonym
	Column     int             `json:"column"`
	Row        int             `json:"row"`
}

// Coord is a (column, row) position on the mural.
type Coord struct {
	Column int
	Row    int
}

// Coord returns the pixel's position.
func (p *Pixel) Coord() Coord {
	return Coord{Column: p.Column, Row: p.Row}
}

// MuralState is the persisted, ordered pixel list of one sanctuary.
type MuralState struct {
	Pixels []Pixel `json:"pixels"`
}

// Occupied returns the set of coordinates held by a pixel.
func (s *MuralState) Occupied() map[Coord]struct{} {
	occupied := make(map[Coord]struct{}, len(s.Pixels))
	for i := range s.Pixels {
		occupied[s.Pixels[i].Coord()] = struct{}{}
	}
	return occupied
}

// Find returns the index of the pixel at (column, row), or -1.
func (s *MuralState) Find(column, row int) int {
	for i := range s.Pixels {
		if s.Pixels[i].Column == column && s.Pixels[i].Row == row {
			return i
		}
	}
	return -1
}

// Grid is the externally provided mural layout.
type Grid struct {
	Columns int                        `json:"columns"`
	Rows    int                        `json:"rows"`
	Size    int                        `json:"size"`
	Squares map[string]json.RawMessage `json:"squares"`
}

// Cells returns columns*rows.
func (g *Grid) Cells() int {
	return g.Columns * g.Rows
}

// Contains reports whether (column, row) lies inside the grid.
func (g *Grid) Contains(column, row int) bool {
	return column >= 0 && column < g.Columns && row >= 0 && row < g.Rows
}

// Tile returns the opaque tile bytes for (column, row), or nil.
func (g *Grid) Tile(column, row int) json.RawMessage {
	return g.Squares[SquareKey(column, row)]
}

// Validate checks the grid shape.
func (g *Grid) Validate() error {
	if g.Columns <= 0 || g.Rows <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", g.Columns, g.Rows)
	}
	if g.Size < 0 {
		return fmt.Errorf("grid size must not be negative, got %d", g.Size)
	}
	for key := range g.Squares {
		c, r, err := ParseSquareKey(key)
		if err != nil {
			return err
		}
		if !g.Contains(c, r) {
			return fmt.Errorf("square %q outside %dx%d grid", key, g.Columns, g.Rows)
		}
	}
	return nil
}

// SquareKey formats a coordinate as "column:row".
func SquareKey(column, row int) string {
	return strconv.Itoa(column) + ":" + strconv.Itoa(row)
}

var errSquareKey = errors.New("square key must be \"column:row\"")

// ParseSquareKey parses a "column:row" key.
func ParseSquareKey(key string) (int, int, error) {
	cs, rs, ok := strings.Cut(key, ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", errSquareKey, key)
	}
	c, err := strconv.Atoi(cs)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", errSquareKey, key)
	}
	r, err := strconv.Atoi(rs)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", errSquareKey, key)
	}
	return c, r, nil
}

// Broadcast message types.
const (
	MessageStart  = "start"
	MessageUpdate = "update"
)

// BroadcastMessage is sent to every mural viewer.
type BroadcastMessage struct {
	Type    string         `json:"type"`
	Payload *UpdatePayload `json:"payload,omitempty"`
}

// UpdatePayload describes the pixels awarded to one donation.
type UpdatePayload struct {
	Amount     int64   `json:"amount"`
	Identifier string  `json:"identifier"`
	Pixels     []Pixel `json:"pixels"`
}

// PixelRecord is the downstream createPixels item.
type PixelRecord struct {
	Pixel
	Sanctuary     string `json:"sanctuary"`
	BroadcasterID string `json:"broadcasterId,omitempty"`
}
