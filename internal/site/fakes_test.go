package site

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"flabi/internal/domain"
)

type memRepos struct {
	mu        sync.Mutex
	seq       int
	clock     time.Time
	posts     map[string]domain.BlogPost
	pledges   []domain.PerKmPledge
	donations []domain.FixedDonation
	status    *domain.StatusRecord
	writes    int
	lists     int

	failList   error
	failWrite  error
	failDelete error
	block      bool
}

func newMemRepos() *memRepos {
	return &memRepos{
		clock: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		posts: map[string]domain.BlogPost{},
	}
}

func (m *memRepos) repositories() domain.Repositories {
	return domain.Repositories{
		Posts:     postsFake{m},
		Pledges:   pledgesFake{m},
		Donations: donationsFake{m},
		Status:    statusFake{m},
	}
}

func (m *memRepos) next(prefix string) (string, time.Time) {
	m.seq++
	m.clock = m.clock.Add(time.Minute)
	return fmt.Sprintf("%s-%d", prefix, m.seq), m.clock
}

func (m *memRepos) wait(ctx context.Context) error {
	if !m.block {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *memRepos) beginList(ctx context.Context) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	m.lists++
	m.mu.Unlock()
	return m.failList
}

type postsFake struct{ m *memRepos }

func (f postsFake) List(ctx context.Context) ([]domain.BlogPost, error) {
	if err := f.m.beginList(ctx); err != nil {
		return nil, err
	}
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	out := make([]domain.BlogPost, 0, len(f.m.posts))
	for _, p := range f.m.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f postsFake) Get(_ context.Context, id string) (*domain.BlogPost, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	p, ok := f.m.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Images = append([]string(nil), p.Images...)
	return &p, nil
}

func (f postsFake) Create(_ context.Context, p *domain.BlogPost) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.failWrite != nil {
		return f.m.failWrite
	}
	f.m.writes++
	p.ID, p.CreatedAt = f.m.next("post")
	f.m.posts[p.ID] = *p
	return nil
}

func (f postsFake) Update(_ context.Context, p *domain.BlogPost) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.failWrite != nil {
		return f.m.failWrite
	}
	if _, ok := f.m.posts[p.ID]; !ok {
		return domain.ErrNotFound
	}
	f.m.writes++
	f.m.posts[p.ID] = *p
	return nil
}

func (f postsFake) Delete(_ context.Context, id string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.failDelete != nil {
		return f.m.failDelete
	}
	f.m.writes++
	delete(f.m.posts, id)
	return nil
}

type pledgesFake struct{ m *memRepos }

func (f pledgesFake) List(ctx context.Context) ([]domain.PerKmPledge, error) {
	if err := f.m.beginList(ctx); err != nil {
		return nil, err
	}
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	out := make([]domain.PerKmPledge, len(f.m.pledges))
	for i, p := range f.m.pledges {
		out[len(out)-1-i] = p
	}
	return out, nil
}

func (f pledgesFake) Create(ctx context.Context, p *domain.PerKmPledge) error {
	if err := f.m.wait(ctx); err != nil {
		return err
	}
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.failWrite != nil {
		return f.m.failWrite
	}
	f.m.writes++
	p.ID, p.CreatedAt = f.m.next("pledge")
	f.m.pledges = append(f.m.pledges, *p)
	return nil
}

func (f pledgesFake) Delete(_ context.Context, id string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	f.m.writes++
	for i, p := range f.m.pledges {
		if p.ID == id {
			f.m.pledges = append(f.m.pledges[:i], f.m.pledges[i+1:]...)
			break
		}
	}
	return nil
}

type donationsFake struct{ m *memRepos }

func (f donationsFake) List(ctx context.Context) ([]domain.FixedDonation, error) {
	if err := f.m.beginList(ctx); err != nil {
		return nil, err
	}
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	out := make([]domain.FixedDonation, len(f.m.donations))
	for i, d := range f.m.donations {
		out[len(out)-1-i] = d
	}
	return out, nil
}

func (f donationsFake) Create(_ context.Context, d *domain.FixedDonation) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.failWrite != nil {
		return f.m.failWrite
	}
	f.m.writes++
	d.ID, d.CreatedAt = f.m.next("donation")
	f.m.donations = append(f.m.donations, *d)
	return nil
}

func (f donationsFake) Delete(_ context.Context, id string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	f.m.writes++
	for i, d := range f.m.donations {
		if d.ID == id {
			f.m.donations = append(f.m.donations[:i], f.m.donations[i+1:]...)
			break
		}
	}
	return nil
}

type statusFake struct{ m *memRepos }

func (f statusFake) Get(ctx context.Context) (*domain.StatusRecord, error) {
	if err := f.m.beginList(ctx); err != nil {
		return nil, err
	}
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.status == nil {
		return nil, domain.ErrNotFound
	}
	s := *f.m.status
	return &s, nil
}

func (f statusFake) Update(_ context.Context, s *domain.StatusRecord) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.failWrite != nil {
		return f.m.failWrite
	}
	f.m.writes++
	_, s.UpdatedAt = f.m.next("status")
	cp := *s
	f.m.status = &cp
	return nil
}

// memStore is an ObjectStore that keeps uploads in a map.
type memStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	uploads    []string
	removed    []string
	failUpload map[int]bool
	failRemove error
}

const memBase = "https://cdn.test/flabi"

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, failUpload: map[int]bool{}}
}

func (s *memStore) Upload(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.uploads)
	s.uploads = append(s.uploads, key)
	if s.failUpload[n] {
		return errors.New("upload refused")
	}
	s.objects[key] = data
	return nil
}

func (s *memStore) PublicURL(key string) string { return memBase + "/" + key }

func (s *memStore) PathFromURL(raw string) (string, bool) {
	key, ok := strings.CutPrefix(raw, memBase+"/")
	return key, ok && key != ""
}

func (s *memStore) Remove(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, keys...)
	if s.failRemove != nil {
		return s.failRemove
	}
	for _, k := range keys {
		delete(s.objects, k)
	}
	return nil
}
