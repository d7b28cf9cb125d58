package integration

import (
	"context"
	"encoding/json"
	"sync"

	"sanctuary-mural/internal/core/domain"
)

// inMemoryMuralRepo implements ports.MuralRepository.
type inMemoryMuralRepo struct {
	mu        sync.Mutex
	pixels    map[string][]domain.Pixel
	allocated map[string]map[string]bool
}

func newInMemoryMuralRepo() *inMemoryMuralRepo {
	return &inMemoryMuralRepo{
		pixels:    make(map[string][]domain.Pixel),
		allocated: make(map[string]map[string]bool),
	}
}

func (r *inMemoryMuralRepo) Load(_ context.Context, sanctuary string) (*domain.MuralState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &domain.MuralState{Pixels: append([]domain.Pixel{}, r.pixels[sanctuary]...)}, nil
}

func (r *inMemoryMuralRepo) Allocated(_ context.Context, sanctuary string, keys []string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]bool)
	for _, k := range keys {
		if r.allocated[sanctuary][k] {
			out[k] = true
		}
	}
	return out, nil
}

func (r *inMemoryMuralRepo) SaveAllocation(_ context.Context, sanctuary string, pixels []domain.Pixel, keys []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pixels[sanctuary] = append(r.pixels[sanctuary], pixels...)
	if r.allocated[sanctuary] == nil {
		r.allocated[sanctuary] = make(map[string]bool)
	}
	for _, k := range keys {
		r.allocated[sanctuary][k] = true
	}
	return nil
}

func (r *inMemoryMuralRepo) UpdateIdentifier(_ context.Context, sanctuary string, column, row int, identifier string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.pixels[sanctuary] {
		p := &r.pixels[sanctuary][i]
		if p.Column == column && p.Row == row {
			p.Identifier = identifier
			return true, nil
		}
	}
	return false, nil
}

func (r *inMemoryMuralRepo) snapshot(sanctuary string) []domain.Pixel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Pixel{}, r.pixels[sanctuary]...)
}

// recordingDownstream implements ports.DownstreamAPI.
type recordingDownstream struct {
	mu        sync.Mutex
	donations []domain.Donation
	pixels    []domain.PixelRecord
}

func (d *recordingDownstream) CreateDonations(_ context.Context, donations []domain.Donation) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.donations = append(d.donations, donations...)
	return nil
}

func (d *recordingDownstream) CreatePixels(_ context.Context, pixels []domain.PixelRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pixels = append(d.pixels, pixels...)
	return nil
}

func (d *recordingDownstream) counts() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.donations), len(d.pixels)
}

// staticGrids implements ports.GridSource with one fixed grid.
type staticGrids struct {
	grid domain.Grid
}

func (s staticGrids) Fetch(context.Context, string) (*domain.Grid, error) {
	g := s.grid
	return &g, nil
}

func grid2x2() domain.Grid {
	tile := json.RawMessage(`{"rgb":"a0c4ff"}`)
	return domain.Grid{
		Columns: 2,
		Rows:    2,
		Size:    16,
		Squares: map[string]json.RawMessage{"0:0": tile, "0:1": tile, "1:0": tile, "1:1": tile},
	}
}

// capturingSubscriber records the webhook secrets handed to Twitch.
type capturingSubscriber struct {
	mu       sync.Mutex
	calls    int
	secret   string
	callback string
}

func (s *capturingSubscriber) Subscribe(_ context.Context, _, callback, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.secret = secret
	s.callback = callback
	return nil
}

func (s *capturingSubscriber) state() (int, string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls, s.secret, s.callback
}
