package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"flabi/internal/middleware"
)

func (a *App) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := a.Site.Load(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, snap)
}

func (a *App) PledgesCreate(w http.ResponseWriter, r *http.Request) {
	var req ledgerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	snap, err := a.Site.AddPledge(r.Context(), req.form(r))
	a.mutated(w, r, http.StatusCreated, snap, err)
}

func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	var req ledgerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	snap, err := a.Site.AddFixedDonation(r.Context(), req.form(r))
	a.mutated(w, r, http.StatusCreated, snap, err)
}

func (a *App) PledgesDelete(w http.ResponseWriter, r *http.Request) {
	snap, err := a.Site.DeletePledge(r.Context(), middleware.SessionFromContext(r.Context()), chi.URLParam(r, "id"))
	a.mutated(w, r, http.StatusOK, snap, err)
}

func (a *App) DonationsDelete(w http.ResponseWriter, r *http.Request) {
	snap, err := a.Site.DeleteFixedDonation(r.Context(), middleware.SessionFromContext(r.Context()), chi.URLParam(r, "id"))
	a.mutated(w, r, http.StatusOK, snap, err)
}

func (a *App) StatusUpdate(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	snap, err := a.Site.UpdateStatus(r.Context(), middleware.SessionFromContext(r.Context()), req.form())
	a.mutated(w, r, http.StatusOK, snap, err)
}

// ImagesUpload stores images without touching any post and returns their
// public URLs along with the names of files that failed. 502 when nothing
// could be stored.
func (a *App) ImagesUpload(w http.ResponseWriter, r *http.Request) {
	_, files, err := a.readPost(w, r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	res, err := a.Site.UploadImages(r.Context(), middleware.SessionFromContext(r.Context()), files)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	code := http.StatusOK
	if len(res.URLs) == 0 && len(res.Failed) > 0 {
		code = http.StatusBadGateway
	}
	a.json(w, code, res)
}

func (a *App) PostsCreate(w http.ResponseWriter, r *http.Request) {
	form, files, err := a.readPost(w, r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	snap, err := a.Site.AddPost(r.Context(), middleware.SessionFromContext(r.Context()), form, files)
	a.mutated(w, r, http.StatusCreated, snap, err)
}

func (a *App) PostsUpdate(w http.ResponseWriter, r *http.Request) {
	form, files, err := a.readPost(w, r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	snap, err := a.Site.EditPost(r.Context(), middleware.SessionFromContext(r.Context()), chi.URLParam(r, "id"), form, files)
	a.mutated(w, r, http.StatusOK, snap, err)
}

func (a *App) PostsDelete(w http.ResponseWriter, r *http.Request) {
	snap, err := a.Site.DeletePost(r.Context(), middleware.SessionFromContext(r.Context()), chi.URLParam(r, "id"))
	a.mutated(w, r, http.StatusOK, snap, err)
}

func (a *App) AuthSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	session, token, err := a.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"token": token, "session": session})
}

func (a *App) AuthSignOut(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFromRequest(r); token != "" {
		if err := a.Auth.SignOut(token); err != nil {
			a.fail(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) AuthSession(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	a.json(w, http.StatusOK, map[string]any{"session": session, "admin": session.IsAdmin()})
}
