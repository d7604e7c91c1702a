package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"flabi/internal/domain"
	"flabi/internal/site"
)

type siteCall struct {
	op      string
	session *domain.Session
	id      string
	ledger  site.LedgerForm
	status  site.StatusForm
	post    site.PostForm
	files   []site.Upload
}

// fakeSite records calls and enforces the admin rule the real service has.
type fakeSite struct {
	snap        *site.Snapshot
	err         error
	calls       []siteCall
	failUploads map[string]bool
}

func newFakeSite() *fakeSite {
	posts := []domain.BlogPost{{ID: "p1", Title: "Tag 1", Body: "Start", Images: []string{"https://cdn.test/a.jpg", "https://cdn.test/b.jpg"}}}
	pledges := []domain.PerKmPledge{{ID: "l1", Name: "Anna", AmountPerKm: 0.5}}
	status := domain.StatusRecord{ID: 1, Latitude: 47.3769, Longitude: 8.5417, KilometersTraveled: 100}
	return &fakeSite{snap: site.NewSnapshot(posts, pledges, nil, status, time.Now())}
}

var errAdmin = domain.E(domain.KindUnauthorized, "fake", errors.New("admin session required"))

func (f *fakeSite) record(c siteCall) (*site.Snapshot, error) {
	f.calls = append(f.calls, c)
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

func (f *fakeSite) admin(c siteCall) (*site.Snapshot, error) {
	if !c.session.IsAdmin() {
		f.calls = append(f.calls, c)
		return nil, errAdmin
	}
	return f.record(c)
}

func (f *fakeSite) last() siteCall {
	if len(f.calls) == 0 {
		return siteCall{}
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakeSite) Load(ctx context.Context) (*site.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

func (f *fakeSite) AddPledge(ctx context.Context, form site.LedgerForm) (*site.Snapshot, error) {
	return f.record(siteCall{op: "AddPledge", ledger: form})
}

func (f *fakeSite) AddFixedDonation(ctx context.Context, form site.LedgerForm) (*site.Snapshot, error) {
	return f.record(siteCall{op: "AddFixedDonation", ledger: form})
}

func (f *fakeSite) DeletePledge(ctx context.Context, s *domain.Session, id string) (*site.Snapshot, error) {
	return f.admin(siteCall{op: "DeletePledge", session: s, id: id})
}

func (f *fakeSite) DeleteFixedDonation(ctx context.Context, s *domain.Session, id string) (*site.Snapshot, error) {
	return f.admin(siteCall{op: "DeleteFixedDonation", session: s, id: id})
}

func (f *fakeSite) UpdateStatus(ctx context.Context, s *domain.Session, form site.StatusForm) (*site.Snapshot, error) {
	return f.admin(siteCall{op: "UpdateStatus", session: s, status: form})
}

func (f *fakeSite) UploadImages(ctx context.Context, s *domain.Session, files []site.Upload) (*site.UploadResult, error) {
	if _, err := f.admin(siteCall{op: "UploadImages", session: s, files: files}); err != nil {
		return nil, err
	}
	res := &site.UploadResult{URLs: []string{}, Failed: []string{}}
	for _, file := range files {
		if f.failUploads[file.Filename] {
			res.Failed = append(res.Failed, file.Filename)
			continue
		}
		res.URLs = append(res.URLs, "https://cdn.test/"+file.Filename)
	}
	return res, nil
}

func (f *fakeSite) AddPost(ctx context.Context, s *domain.Session, form site.PostForm, files []site.Upload) (*site.Snapshot, error) {
	return f.admin(siteCall{op: "AddPost", session: s, post: form, files: files})
}

func (f *fakeSite) EditPost(ctx context.Context, s *domain.Session, id string, form site.PostForm, files []site.Upload) (*site.Snapshot, error) {
	return f.admin(siteCall{op: "EditPost", session: s, id: id, post: form, files: files})
}

func (f *fakeSite) DeletePost(ctx context.Context, s *domain.Session, id string) (*site.Snapshot, error) {
	return f.admin(siteCall{op: "DeletePost", session: s, id: id})
}

type fakeAuth struct {
	signedOut []string
}

const goodToken = "token-1"

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (domain.Session, string, error) {
	if email == "" || password == "" {
		return domain.Session{}, "", domain.Invalid("fake", "email and password are required")
	}
	if email != "admin@flabi.ch" || password != "correct horse" {
		return domain.Session{}, "", domain.E(domain.KindUnauthorized, "fake", errors.New("invalid email or password"))
	}
	return domain.Session{AdminID: "a1", Email: email, ExpiresAt: time.Now().Add(time.Hour)}, goodToken, nil
}

func (f *fakeAuth) SignOut(token string) error {
	f.signedOut = append(f.signedOut, token)
	return nil
}

func (f *fakeAuth) CurrentSession(token string) (*domain.Session, error) {
	if token == goodToken {
		return &domain.Session{AdminID: "a1", Email: "admin@flabi.ch"}, nil
	}
	return nil, nil
}

func newTestApp() (*App, *fakeSite, *fakeAuth) {
	s := newFakeSite()
	auth := &fakeAuth{}
	return NewApp(s, auth, zerolog.Nop()), s, auth
}

var adminSession = &domain.Session{AdminID: "a1", Email: "admin@flabi.ch"}

func withParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
