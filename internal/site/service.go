// Package site is the application context of the microsite. It validates
// intents, enforces admin-only operations, dispatches them to persistence,
// storage and identity collaborators and reloads the full snapshot after
// every successful mutation.
package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"flabi/internal/domain"
	"flabi/internal/projection"
	"flabi/internal/storage"
)

// DefaultTimeout bounds every collaborator call.
const DefaultTimeout = 10 * time.Second

// Snapshot is the full page state after a reload.
type Snapshot struct {
	Posts     []domain.BlogPost      `json:"posts"`
	Pledges   []domain.PerKmPledge   `json:"pledges"`
	Donations []domain.FixedDonation `json:"donations"`
	Status    domain.StatusRecord    `json:"status"`
	Totals    projection.Display     `json:"totals"`
	MapURL    string                 `json:"map_url"`
	LoadedAt  time.Time              `json:"loaded_at"`
	// FailedUploads names the files of the last post mutation that could
	// not be stored.
	FailedUploads []string `json:"failed_uploads,omitempty"`

	totals projection.Totals
}

// RawTotals returns the decimal totals behind Totals.
func (s *Snapshot) RawTotals() projection.Totals { return s.totals }

// Post finds a post in the snapshot by id.
func (s *Snapshot) Post(id string) (domain.BlogPost, bool) {
	for _, p := range s.Posts {
		if p.ID == id {
			return p, true
		}
	}
	return domain.BlogPost{}, false
}

// NewSnapshot derives the totals and the map URL from the loaded
// collections. Nil lists become empty ones.
func NewSnapshot(posts []domain.BlogPost, pledges []domain.PerKmPledge, donations []domain.FixedDonation, status domain.StatusRecord, loadedAt time.Time) *Snapshot {
	if posts == nil {
		posts = []domain.BlogPost{}
	}
	if pledges == nil {
		pledges = []domain.PerKmPledge{}
	}
	if donations == nil {
		donations = []domain.FixedDonation{}
	}
	snap := &Snapshot{
		Posts:     posts,
		Pledges:   pledges,
		Donations: donations,
		Status:    status,
		MapURL:    MapURL(status.Latitude, status.Longitude),
		LoadedAt:  loadedAt,
	}
	snap.totals = projection.Compute(pledges, donations, status.KilometersTraveled)
	snap.Totals = snap.totals.Display()
	return snap
}

// SavedError is returned when a mutation was committed but the snapshot
// reload afterwards failed. The write must not be repeated.
type SavedError struct {
	Op            string
	FailedUploads []string
	Err           error
}

func (e *SavedError) Error() string {
	return e.Op + ": saved, reload failed: " + e.Err.Error()
}

func (e *SavedError) Unwrap() error { return e.Err }

// AsSaved reports whether err is a *SavedError.
func AsSaved(err error) (*SavedError, bool) {
	var saved *SavedError
	ok := errors.As(err, &saved)
	return saved, ok
}

// UploadResult lists stored URLs and the names of files that failed, each
// in input order.
type UploadResult struct {
	URLs   []string `json:"urls"`
	Failed []string `json:"failed"`
}

// Options tune a Service.
type Options struct {
	Timeout time.Duration
	Now     func() time.Time
}

// Service is built once at startup and shared by all handlers.
type Service struct {
	repos   domain.Repositories
	store   storage.ObjectStore
	logger  zerolog.Logger
	metrics *Metrics
	timeout time.Duration
	now     func() time.Time
}

// NewService wires the collaborators. metrics may be nil.
func NewService(repos domain.Repositories, store storage.ObjectStore, logger zerolog.Logger, metrics *Metrics, opts Options) (*Service, error) {
	if repos.Posts == nil || repos.Pledges == nil || repos.Donations == nil || repos.Status == nil {
		return nil, errors.New("site: all repositories are required")
	}
	if store == nil {
		return nil, errors.New("site: object store is required")
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		repos:   repos,
		store:   store,
		logger:  logger,
		metrics: metrics,
		timeout: opts.Timeout,
		now:     opts.Now,
	}, nil
}

func (s *Service) call(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// Load reads all four collections concurrently. Any failure fails the
// whole load; a missing status row falls back to the defaults.
func (s *Service) Load(ctx context.Context) (*Snapshot, error) {
	const op = "site.Load"
	start := s.now()
	ctx, cancel := s.call(ctx)
	defer cancel()

	var (
		posts     []domain.BlogPost
		pledges   []domain.PerKmPledge
		donations []domain.FixedDonation
		status    *domain.StatusRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = s.repos.Posts.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		pledges, err = s.repos.Pledges.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		donations, err = s.repos.Donations.List(gctx)
		return err
	})
	g.Go(func() error {
		st, err := s.repos.Status.Get(gctx)
		if errors.Is(err, domain.ErrNotFound) {
			def := domain.DefaultStatus()
			st, err = &def, nil
		}
		status = st
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("snapshot reload failed")
		return nil, domain.E(domain.KindCollaborator, op, err)
	}

	snap := NewSnapshot(posts, pledges, donations, *status, s.now())
	s.metrics.reloadSeconds.Observe(snap.LoadedAt.Sub(start).Seconds())
	return snap, nil
}

// AddPledge records a per-km pledge. No session is required.
func (s *Service) AddPledge(ctx context.Context, form LedgerForm) (*Snapshot, error) {
	const op = "site.AddPledge"
	name, amount, err := form.validate(op)
	if err != nil {
		return nil, err
	}
	pledge := &domain.PerKmPledge{Name: name, AmountPerKm: amount, Country: normalizeCountry(form.Country)}
	if err := s.mutate(ctx, op, func(ctx context.Context) error {
		return s.repos.Pledges.Create(ctx, pledge)
	}); err != nil {
		return nil, err
	}
	s.metrics.pledgesAdded.Inc()
	s.logger.Info().Str("pledge_id", pledge.ID).Float64("amount_per_km", amount).Msg("pledge added")
	return s.reload(ctx, op, nil)
}

// AddFixedDonation records a fixed donation. No session is required.
func (s *Service) AddFixedDonation(ctx context.Context, form LedgerForm) (*Snapshot, error) {
	const op = "site.AddFixedDonation"
	name, amount, err := form.validate(op)
	if err != nil {
		return nil, err
	}
	donation := &domain.FixedDonation{Name: name, Amount: amount, Country: normalizeCountry(form.Country)}
	if err := s.mutate(ctx, op, func(ctx context.Context) error {
		return s.repos.Donations.Create(ctx, donation)
	}); err != nil {
		return nil, err
	}
	s.metrics.donationsAdded.Inc()
	s.logger.Info().Str("donation_id", donation.ID).Float64("amount", amount).Msg("donation added")
	return s.reload(ctx, op, nil)
}

// DeletePledge removes a pledge (admin only).
func (s *Service) DeletePledge(ctx context.Context, session *domain.Session, id string) (*Snapshot, error) {
	const op = "site.DeletePledge"
	if err := requireAdmin(op, session); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domain.Invalid(op, "id is required")
	}
	if err := s.mutate(ctx, op, func(ctx context.Context) error {
		return s.repos.Pledges.Delete(ctx, id)
	}); err != nil {
		return nil, err
	}
	s.logger.Info().Str("pledge_id", id).Str("admin", session.Email).Msg("pledge deleted")
	return s.reload(ctx, op, nil)
}

// DeleteFixedDonation removes a donation (admin only).
func (s *Service) DeleteFixedDonation(ctx context.Context, session *domain.Session, id string) (*Snapshot, error) {
	const op = "site.DeleteFixedDonation"
	if err := requireAdmin(op, session); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domain.Invalid(op, "id is required")
	}
	if err := s.mutate(ctx, op, func(ctx context.Context) error {
		return s.repos.Donations.Delete(ctx, id)
	}); err != nil {
		return nil, err
	}
	s.logger.Info().Str("donation_id", id).Str("admin", session.Email).Msg("donation deleted")
	return s.reload(ctx, op, nil)
}

// UpdateStatus overwrites the singleton status row (admin only).
func (s *Service) UpdateStatus(ctx context.Context, session *domain.Session, form StatusForm) (*Snapshot, error) {
	const op = "site.UpdateStatus"
	if err := requireAdmin(op, session); err != nil {
		return nil, err
	}
	status, err := form.validate(op)
	if err != nil {
		return nil, err
	}
	if err := s.mutate(ctx, op, func(ctx context.Context) error {
		return s.repos.Status.Update(ctx, &status)
	}); err != nil {
		return nil, err
	}
	s.logger.Info().
		Float64("lat", status.Latitude).
		Float64("lng", status.Longitude).
		Float64("km", status.KilometersTraveled).
		Msg("status updated")
	return s.reload(ctx, op, nil)
}

// UploadImages stores files one after another under posts/<uuid>.<ext>. A
// failed upload does not stop the others; its file name is reported in
// Failed.
func (s *Service) UploadImages(ctx context.Context, session *domain.Session, files []Upload) (*UploadResult, error) {
	if err := requireAdmin("site.UploadImages", session); err != nil {
		return nil, err
	}
	return s.uploadImages(ctx, files), nil
}

func (s *Service) uploadImages(ctx context.Context, files []Upload) *UploadResult {
	res := &UploadResult{URLs: make([]string, 0, len(files)), Failed: []string{}}
	for i, f := range files {
		if len(f.Data) == 0 {
			continue
		}
		contentType := f.ContentType
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = http.DetectContentType(f.Data)
		}
		key := storage.PostImageKey(f.Filename)
		cctx, cancel := s.call(ctx)
		err := s.store.Upload(cctx, key, f.Data, contentType)
		cancel()
		if err != nil {
			s.metrics.uploadFailures.Inc()
			s.logger.Warn().Err(err).Str("file", f.Filename).Msg("image upload failed, skipping")
			name := f.Filename
			if name == "" {
				name = fmt.Sprintf("Datei %d", i+1)
			}
			res.Failed = append(res.Failed, name)
			continue
		}
		res.URLs = append(res.URLs, s.store.PublicURL(key))
	}
	return res
}

// AddPost uploads the images and creates a post (admin only).
func (s *Service) AddPost(ctx context.Context, session *domain.Session, form PostForm, files []Upload) (*Snapshot, error) {
	const op = "site.AddPost"
	if err := requireAdmin(op, session); err != nil {
		return nil, err
	}
	title, body, err := form.validate(op)
	if err != nil {
		return nil, err
	}
	uploaded := s.uploadImages(ctx, files)
	post := &domain.BlogPost{Title: title, Body: body, Images: uploaded.URLs}
	if err := s.mutate(ctx, op, func(ctx context.Context) error {
		return s.repos.Posts.Create(ctx, post)
	}); err != nil {
		return nil, err
	}
	s.metrics.postMutations.WithLabelValues("create").Inc()
	s.logger.Info().Str("post_id", post.ID).Int("images", len(post.Images)).Msg("post created")
	return s.reload(ctx, op, uploaded.Failed)
}

// EditPost replaces title, text and images of a post (admin only). Kept
// URLs come first, new uploads are appended. Dropped images are removed
// from storage best-effort.
func (s *Service) EditPost(ctx context.Context, session *domain.Session, id string, form PostForm, files []Upload) (*Snapshot, error) {
	const op = "site.EditPost"
	if err := requireAdmin(op, session); err != nil {
		return nil, err
	}
	title, body, err := form.validate(op)
	if err != nil {
		return nil, err
	}
	current, err := s.getPost(ctx, op, id)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(current.Images))
	for _, u := range current.Images {
		existing[u] = true
	}
	images := make([]string, 0, len(form.Keep)+len(files))
	kept := map[string]bool{}
	for _, u := range form.Keep {
		if existing[u] && !kept[u] {
			kept[u] = true
			images = append(images, u)
		}
	}
	uploaded := s.uploadImages(ctx, files)
	images = append(images, uploaded.URLs...)

	post := &domain.BlogPost{ID: id, Title: title, Body: body, Images: images, CreatedAt: current.CreatedAt}
	if err := s.mutate(ctx, op, func(ctx context.Context) error {
		return s.repos.Posts.Update(ctx, post)
	}); err != nil {
		return nil, err
	}

	var dropped []string
	for _, u := range current.Images {
		if !kept[u] {
			dropped = append(dropped, u)
		}
	}
	s.removeAssets(ctx, dropped)
	s.metrics.postMutations.WithLabelValues("update").Inc()
	s.logger.Info().Str("post_id", id).Int("images", len(images)).Int("dropped", len(dropped)).Msg("post updated")
	return s.reload(ctx, op, uploaded.Failed)
}

// DeletePost deletes the record, then removes its images best-effort
// (admin only). Only the record deletion can fail the operation.
func (s *Service) DeletePost(ctx context.Context, session *domain.Session, id string) (*Snapshot, error) {
	const op = "site.DeletePost"
	if err := requireAdmin(op, session); err != nil {
		return nil, err
	}
	current, err := s.getPost(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if err := s.mutate(ctx, op, func(ctx context.Context) error {
		return s.repos.Posts.Delete(ctx, id)
	}); err != nil {
		return nil, err
	}
	s.removeAssets(ctx, current.Images)
	s.metrics.postMutations.WithLabelValues("delete").Inc()
	s.logger.Info().Str("post_id", id).Msg("post deleted")
	return s.reload(ctx, op, nil)
}

// reload fetches the snapshot after a committed write. failed is carried
// over so callers can report the files that were not stored.
func (s *Service) reload(ctx context.Context, op string, failed []string) (*Snapshot, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, &SavedError{Op: op, FailedUploads: failed, Err: err}
	}
	if len(failed) > 0 {
		snap.FailedUploads = failed
	}
	return snap, nil
}

func (s *Service) getPost(ctx context.Context, op, id string) (*domain.BlogPost, error) {
	if id == "" {
		return nil, domain.Invalid(op, "id is required")
	}
	cctx, cancel := s.call(ctx)
	defer cancel()
	post, err := s.repos.Posts.Get(cctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.E(domain.KindNotFound, op, err)
	}
	if err != nil {
		return nil, domain.E(domain.KindCollaborator, op, err)
	}
	return post, nil
}

// removeAssets never fails; URLs this store did not issue are skipped.
func (s *Service) removeAssets(ctx context.Context, urls []string) {
	keys := make([]string, 0, len(urls))
	for _, u := range urls {
		if key, ok := s.store.PathFromURL(u); ok {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return
	}
	cctx, cancel := s.call(ctx)
	defer cancel()
	if err := s.store.Remove(cctx, keys); err != nil {
		s.metrics.removeFailures.Inc()
		s.logger.Warn().Err(err).Strs("keys", keys).Msg("image removal failed, ignoring")
	}
}

// mutate runs fn under the collaborator timeout and classifies its error.
func (s *Service) mutate(ctx context.Context, op string, fn func(context.Context) error) error {
	cctx, cancel := s.call(ctx)
	defer cancel()
	err := fn(cctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return domain.E(domain.KindNotFound, op, err)
	default:
		s.logger.Error().Err(err).Str("op", op).Msg("mutation failed")
		return domain.E(domain.KindCollaborator, op, err)
	}
}

func requireAdmin(op string, session *domain.Session) error {
	if !session.IsAdmin() {
		return domain.E(domain.KindUnauthorized, op, errors.New("admin session required"))
	}
	return nil
}
