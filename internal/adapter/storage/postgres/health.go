package postgres

import (
	"context"
	"errors"
)

const schemaCheckSQL = `SELECT to_regclass('mural_pixels') IS NOT NULL AND to_regclass('mural_allocations') IS NOT NULL`

var errSchemaMissing = errors.New("mural schema not migrated")

// HealthCheck implements ports.HealthChecker for PostgreSQL. A reachable
// database without the mural tables is reported unhealthy.
type HealthCheck struct {
	pool Pool
}

// NewHealthCheck creates a PostgreSQL health checker.
func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

// Ping checks connectivity and the presence of the mural tables.
func (h *HealthCheck) Ping(ctx context.Context) error {
	var ok bool
	if err := h.pool.QueryRow(ctx, schemaCheckSQL).Scan(&ok); err != nil {
		return err
	}
	if !ok {
		return errSchemaMissing
	}
	return nil
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "postgresql"
}
