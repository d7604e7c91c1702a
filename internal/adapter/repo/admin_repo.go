package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"flabi/internal/domain"
	"flabi/internal/infra"
	"flabi/internal/sqlinline"
)

// AdminRepositoryPG implements domain.AdminRepository backed by PostgreSQL.
type AdminRepositoryPG struct {
	db infra.SQLExecutor
}

// NewAdminRepository creates a new AdminRepositoryPG.
func NewAdminRepository(db infra.SQLExecutor) *AdminRepositoryPG {
	return &AdminRepositoryPG{db: db}
}

// GetByEmail matches case-insensitively.
func (r *AdminRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var a domain.Admin
	err := r.db.QueryRow(ctx, sqlinline.QSelectAdminByEmail, email).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts the admin, or resets the password hash when the email exists.
func (r *AdminRepositoryPG) Create(ctx context.Context, a *domain.Admin) error {
	return r.db.QueryRow(ctx, sqlinline.QInsertAdmin, a.Email, a.PasswordHash).
		Scan(&a.ID, &a.CreatedAt)
}

// NewRepositories wires every Postgres repository onto one executor.
func NewRepositories(db infra.SQLExecutor) domain.Repositories {
	return domain.Repositories{
		Posts:     NewPostRepository(db),
		Pledges:   NewPledgeRepository(db),
		Donations: NewDonationRepository(db),
		Status:    NewStatusRepository(db),
		Admins:    NewAdminRepository(db),
	}
}

var _ domain.AdminRepository = (*AdminRepositoryPG)(nil)
