package domain

import "context"

// PostRepository persists blog posts (collection "posts").
type PostRepository interface {
	List(ctx context.Context) ([]BlogPost, error)
	Get(ctx context.Context, id string) (*BlogPost, error)
	Create(ctx context.Context, post *BlogPost) error
	Update(ctx context.Context, post *BlogPost) error
	Delete(ctx context.Context, id string) error
}

// PledgeRepository persists per-km pledges (collection "pledges_per_km").
type PledgeRepository interface {
	List(ctx context.Context) ([]PerKmPledge, error)
	Create(ctx context.Context, pledge *PerKmPledge) error
	Delete(ctx context.Context, id string) error
}

// DonationRepository persists fixed donations (collection "donations_fixed").
type DonationRepository interface {
	List(ctx context.Context) ([]FixedDonation, error)
	Create(ctx context.Context, donation *FixedDonation) error
	Delete(ctx context.Context, id string) error
}

// StatusRepository reads and updates the singleton status row.
type StatusRepository interface {
	Get(ctx context.Context) (*StatusRecord, error)
	Update(ctx context.Context, status *StatusRecord) error
}

// AdminRepository stores admin accounts for the identity service.
type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	Create(ctx context.Context, admin *Admin) error
}

// Repositories bundles the persistence collaborator.
type Repositories struct {
	Posts     PostRepository
	Pledges   PledgeRepository
	Donations DonationRepository
	Status    StatusRepository
	Admins    AdminRepository
}
