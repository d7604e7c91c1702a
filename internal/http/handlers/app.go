package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"flabi/internal/domain"
	"flabi/internal/site"
)

// Site is the application context the handlers drive.
type Site interface {
	Load(ctx context.Context) (*site.Snapshot, error)
	AddPledge(ctx context.Context, form site.LedgerForm) (*site.Snapshot, error)
	AddFixedDonation(ctx context.Context, form site.LedgerForm) (*site.Snapshot, error)
	DeletePledge(ctx context.Context, session *domain.Session, id string) (*site.Snapshot, error)
	DeleteFixedDonation(ctx context.Context, session *domain.Session, id string) (*site.Snapshot, error)
	UpdateStatus(ctx context.Context, session *domain.Session, form site.StatusForm) (*site.Snapshot, error)
	UploadImages(ctx context.Context, session *domain.Session, files []site.Upload) (*site.UploadResult, error)
	AddPost(ctx context.Context, session *domain.Session, form site.PostForm, files []site.Upload) (*site.Snapshot, error)
	EditPost(ctx context.Context, session *domain.Session, id string, form site.PostForm, files []site.Upload) (*site.Snapshot, error)
	DeletePost(ctx context.Context, session *domain.Session, id string) (*site.Snapshot, error)
}

// Identity signs admins in and out.
type Identity interface {
	SignIn(ctx context.Context, email, password string) (domain.Session, string, error)
	SignOut(token string) error
	CurrentSession(token string) (*domain.Session, error)
}

// App holds the collaborators shared by every handler.
type App struct {
	Site           Site
	Auth           Identity
	Logger         zerolog.Logger
	MaxUploadBytes int64
	SecureCookies  bool
}

func NewApp(s Site, auth Identity, logger zerolog.Logger) *App {
	return &App{Site: s, Auth: auth, Logger: logger, MaxUploadBytes: 10 << 20}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// fail maps an application error onto the JSON error envelope.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	code := kind.String()
	if kind == 0 {
		code = "internal"
	}
	a.error(w, status, code, publicMessage(err))
}

// mutated writes the outcome of a mutation. A write that was saved but
// whose reload failed answers code without a snapshot so clients do not
// repeat it.
func (a *App) mutated(w http.ResponseWriter, r *http.Request, code int, snap *site.Snapshot, err error) {
	if saved, ok := site.AsSaved(err); ok {
		a.Logger.Warn().Err(err).Str("path", r.URL.Path).Msg("saved, snapshot reload failed")
		body := map[string]any{"saved": true, "snapshot": nil}
		if len(saved.FailedUploads) > 0 {
			body["failed_uploads"] = saved.FailedUploads
		}
		a.json(w, code, body)
		return
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, code, snap)
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusUnprocessableEntity
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindCollaborator:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides collaborator details from clients.
func publicMessage(err error) string {
	var e *domain.Error
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindUnauthorized:
		if errors.As(err, &e) && e.Err != nil {
			return e.Err.Error()
		}
		return "request rejected"
	case domain.KindNotFound:
		return "not found"
	case domain.KindCollaborator:
		return "a backing service is unavailable, please try again"
	default:
		return "internal error"
	}
}
