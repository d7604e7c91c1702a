package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"flabi/internal/domain"
	"flabi/internal/infra"
	"flabi/internal/sqlinline"
)

// StatusRepositoryPG reads and writes status row 1.
type StatusRepositoryPG struct {
	db infra.SQLExecutor
}

func NewStatusRepository(db infra.SQLExecutor) *StatusRepositoryPG {
	return &StatusRepositoryPG{db: db}
}

// Get returns domain.ErrNotFound until the row has been provisioned.
func (r *StatusRepositoryPG) Get(ctx context.Context) (*domain.StatusRecord, error) {
	var s domain.StatusRecord
	err := r.db.QueryRow(ctx, sqlinline.QSelectStatus, domain.StatusID).
		Scan(&s.ID, &s.Latitude, &s.Longitude, &s.KilometersTraveled, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Update writes position and distance; UpdatedAt is set by the database.
func (r *StatusRepositoryPG) Update(ctx context.Context, s *domain.StatusRecord) error {
	s.ID = domain.StatusID
	return r.db.QueryRow(ctx, sqlinline.QUpsertStatus, s.ID, s.Latitude, s.Longitude, s.KilometersTraveled).
		Scan(&s.UpdatedAt)
}

var _ domain.StatusRepository = (*StatusRepositoryPG)(nil)
