package sqlrepo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"flabi/internal/domain"
)

type postRepo struct{ s *Store }

func (r *postRepo) List(ctx context.Context) ([]domain.BlogPost, error) {
	var rows []postModel
	if err := r.s.db.WithContext(ctx).Order(newestFirst).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.BlogPost, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (r *postRepo) Get(ctx context.Context, id string) (*domain.BlogPost, error) {
	var m postModel
	if err := r.s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	post := m.toDomain()
	return &post, nil
}

func (r *postRepo) Create(ctx context.Context, post *domain.BlogPost) error {
	m := postModel{
		ID:        uuid.NewString(),
		Title:     post.Title,
		Text:      post.Body,
		Images:    encodeImages(post.Images),
		CreatedAt: r.s.now().UTC(),
	}
	if err := r.s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	post.ID, post.CreatedAt = m.ID, m.CreatedAt
	return nil
}

func (r *postRepo) Update(ctx context.Context, post *domain.BlogPost) error {
	res := r.s.db.WithContext(ctx).Model(&postModel{}).Where("id = ?", post.ID).Updates(map[string]any{
		"title":  post.Title,
		"text":   post.Body,
		"images": encodeImages(post.Images),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id string) error {
	return r.s.db.WithContext(ctx).Where("id = ?", id).Delete(&postModel{}).Error
}

type pledgeRepo struct{ s *Store }

func (r *pledgeRepo) List(ctx context.Context) ([]domain.PerKmPledge, error) {
	var rows []pledgeModel
	if err := r.s.db.WithContext(ctx).Order(newestFirst).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.PerKmPledge, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.PerKmPledge{ID: m.ID, Name: m.Name, AmountPerKm: m.AmountPerKm, Country: m.Country, CreatedAt: m.CreatedAt})
	}
	return out, nil
}

func (r *pledgeRepo) Create(ctx context.Context, p *domain.PerKmPledge) error {
	m := pledgeModel{ID: uuid.NewString(), Name: p.Name, AmountPerKm: p.AmountPerKm, Country: p.Country, CreatedAt: r.s.now().UTC()}
	if err := r.s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	p.ID, p.CreatedAt = m.ID, m.CreatedAt
	return nil
}

func (r *pledgeRepo) Delete(ctx context.Context, id string) error {
	return r.s.db.WithContext(ctx).Where("id = ?", id).Delete(&pledgeModel{}).Error
}

type donationRepo struct{ s *Store }

func (r *donationRepo) List(ctx context.Context) ([]domain.FixedDonation, error) {
	var rows []donationModel
	if err := r.s.db.WithContext(ctx).Order(newestFirst).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.FixedDonation, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.FixedDonation{ID: m.ID, Name: m.Name, Amount: m.Amount, Country: m.Country, CreatedAt: m.CreatedAt})
	}
	return out, nil
}

func (r *donationRepo) Create(ctx context.Context, d *domain.FixedDonation) error {
	m := donationModel{ID: uuid.NewString(), Name: d.Name, Amount: d.Amount, Country: d.Country, CreatedAt: r.s.now().UTC()}
	if err := r.s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	d.ID, d.CreatedAt = m.ID, m.CreatedAt
	return nil
}

func (r *donationRepo) Delete(ctx context.Context, id string) error {
	return r.s.db.WithContext(ctx).Where("id = ?", id).Delete(&donationModel{}).Error
}

type statusRepo struct{ s *Store }

func (r *statusRepo) Get(ctx context.Context) (*domain.StatusRecord, error) {
	var m statusModel
	if err := r.s.db.WithContext(ctx).Where("id = ?", domain.StatusID).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return &domain.StatusRecord{ID: m.ID, Latitude: m.Lat, Longitude: m.Lng, KilometersTraveled: m.Km, UpdatedAt: m.UpdatedAt}, nil
}

func (r *statusRepo) Update(ctx context.Context, s *domain.StatusRecord) error {
	m := statusModel{
		ID:        domain.StatusID,
		Lat:       s.Latitude,
		Lng:       s.Longitude,
		Km:        s.KilometersTraveled,
		UpdatedAt: r.s.now().UTC(),
	}
	err := r.s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"lat", "lng", "km", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return err
	}
	s.ID, s.UpdatedAt = m.ID, m.UpdatedAt
	return nil
}

type adminRepo struct{ s *Store }

func (r *adminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var m adminModel
	err := r.s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&m).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &domain.Admin{ID: m.ID, Email: m.Email, PasswordHash: m.PasswordHash, CreatedAt: m.CreatedAt}, nil
}

func (r *adminRepo) Create(ctx context.Context, a *domain.Admin) error {
	m := adminModel{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(a.Email)),
		PasswordHash: a.PasswordHash,
		CreatedAt:    r.s.now().UTC(),
	}
	err := r.s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash"}),
	}).Create(&m).Error
	if err != nil {
		return err
	}
	stored, err := r.GetByEmail(ctx, m.Email)
	if err != nil {
		return err
	}
	a.ID, a.Email, a.CreatedAt = stored.ID, stored.Email, stored.CreatedAt
	return nil
}

var (
	_ domain.PostRepository     = (*postRepo)(nil)
	_ domain.PledgeRepository   = (*pledgeRepo)(nil)
	_ domain.DonationRepository = (*donationRepo)(nil)
	_ domain.StatusRepository   = (*statusRepo)(nil)
	_ domain.AdminRepository    = (*adminRepo)(nil)
)
