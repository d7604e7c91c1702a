package repo

import (
	"context"

	"flabi/internal/domain"
	"flabi/internal/infra"
	"flabi/internal/sqlinline"
)

// PledgeRepositoryPG implements domain.PledgeRepository using PostgreSQL.
type PledgeRepositoryPG struct {
	db infra.SQLExecutor
}

// NewPledgeRepository creates a new pledge repo.
func NewPledgeRepository(db infra.SQLExecutor) *PledgeRepositoryPG {
	return &PledgeRepositoryPG{db: db}
}

// List returns all per-km pledges, newest first.
func (r *PledgeRepositoryPG) List(ctx context.Context) ([]domain.PerKmPledge, error) {
	rows, err := r.db.Query(ctx, sqlinline.QListPledges)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.PerKmPledge{}
	for rows.Next() {
		var p domain.PerKmPledge
		if err := rows.Scan(&p.ID, &p.Name, &p.AmountPerKm, &p.Country, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Create inserts a pledge record.
func (r *PledgeRepositoryPG) Create(ctx context.Context, p *domain.PerKmPledge) error {
	return r.db.QueryRow(ctx, sqlinline.QInsertPledge, p.Name, p.AmountPerKm, p.Country).
		Scan(&p.ID, &p.CreatedAt)
}

// Delete removes a pledge. Unknown ids are not an error.
func (r *PledgeRepositoryPG) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	_, err := r.db.Exec(ctx, sqlinline.QDeletePledge, id)
	return err
}

// DonationRepositoryPG implements domain.DonationRepository using PostgreSQL.
type DonationRepositoryPG struct {
	db infra.SQLExecutor
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(db infra.SQLExecutor) *DonationRepositoryPG {
	return &DonationRepositoryPG{db: db}
}

// List returns all fixed donations, newest first.
func (r *DonationRepositoryPG) List(ctx context.Context) ([]domain.FixedDonation, error) {
	rows, err := r.db.Query(ctx, sqlinline.QListDonations)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.FixedDonation{}
	for rows.Next() {
		var d domain.FixedDonation
		if err := rows.Scan(&d.ID, &d.Name, &d.Amount, &d.Country, &d.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Create inserts a donation record.
func (r *DonationRepositoryPG) Create(ctx context.Context, d *domain.FixedDonation) error {
	return r.db.QueryRow(ctx, sqlinline.QInsertDonation, d.Name, d.Amount, d.Country).
		Scan(&d.ID, &d.CreatedAt)
}

// Delete removes a donation. Unknown ids are not an error.
func (r *DonationRepositoryPG) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	_, err := r.db.Exec(ctx, sqlinline.QDeleteDonation, id)
	return err
}

var (
	_ domain.PledgeRepository   = (*PledgeRepositoryPG)(nil)
	_ domain.DonationRepository = (*DonationRepositoryPG)(nil)
)
