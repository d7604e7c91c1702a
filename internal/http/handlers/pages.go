package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	g "github.com/maragudk/gomponents"

	"flabi/internal/domain"
	"flabi/internal/gallery"
	"flabi/internal/http/views"
	"flabi/internal/identity"
	"flabi/internal/middleware"
	"flabi/internal/site"
)

func (a *App) html(w http.ResponseWriter, r *http.Request, code int, node g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := views.Render(w, node); err != nil {
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("render failed")
	}
}

// redirect sends the browser back to the page (post/redirect/get) with a
// notice or an error message in the query. A write that was saved but not
// reloaded counts as success. failed names uploads that were skipped.
func (a *App) redirect(w http.ResponseWriter, r *http.Request, anchor, notice string, err error, failed ...string) {
	q := url.Values{}
	if saved, ok := site.AsSaved(err); ok {
		a.Logger.Warn().Err(err).Str("path", r.URL.Path).Msg("saved, snapshot reload failed")
		notice += " Die Anzeige konnte nicht aktualisiert werden."
		failed = append(failed, saved.FailedUploads...)
		err = nil
	}
	if err != nil {
		if domain.KindOf(err) == domain.KindCollaborator || domain.KindOf(err) == 0 {
			a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("form submission failed")
		}
		q.Set("error", pageMessage(err))
	} else {
		if notice != "" {
			q.Set("notice", notice)
		}
		if len(failed) > 0 {
			q.Set("error", "Upload fehlgeschlagen: "+strings.Join(failed, ", "))
		}
	}
	target := "/"
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	if anchor != "" {
		target += "#" + anchor
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

var errNotAdmin = domain.E(domain.KindUnauthorized, "handlers", errors.New("admin session required"))

// adminOnly turns anonymous admin form posts away before their body is read.
func (a *App) adminOnly(w http.ResponseWriter, r *http.Request, anchor string) (*domain.Session, bool) {
	session := middleware.SessionFromContext(r.Context())
	if !session.IsAdmin() {
		a.redirect(w, r, anchor, "", errNotAdmin)
		return nil, false
	}
	return session, true
}

func failedUploads(snap *site.Snapshot) []string {
	if snap == nil {
		return nil
	}
	return snap.FailedUploads
}

func pageMessage(err error) string {
	var e *domain.Error
	switch domain.KindOf(err) {
	case domain.KindValidation:
		if errors.As(err, &e) && e.Err != nil {
			return "Bitte Eingaben prüfen: " + e.Err.Error()
		}
		return "Bitte Eingaben prüfen."
	case domain.KindUnauthorized:
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return "E-Mail oder Passwort falsch."
		}
		return "Nur für Admins. Bitte einloggen."
	case domain.KindNotFound:
		return "Eintrag nicht gefunden."
	default:
		return "Speichern fehlgeschlagen, bitte später erneut versuchen."
	}
}

func (a *App) Home(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	snap, err := a.Site.Load(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("home: load failed")
		a.html(w, r, http.StatusBadGateway, views.ErrorPage(session, "Daten konnten nicht geladen werden."))
		return
	}
	q := r.URL.Query()
	a.html(w, r, http.StatusOK, views.Home(views.HomeProps{
		Snapshot: snap,
		Session:  session,
		Notice:   q.Get("notice"),
		Error:    q.Get("error"),
		EditID:   q.Get("edit"),
	}))
}

// Gallery shows one image of a post full screen; ?i selects the image and
// wraps around.
func (a *App) Gallery(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	id := chi.URLParam(r, "id")
	snap, err := a.Site.Load(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("gallery: load failed")
		a.html(w, r, http.StatusBadGateway, views.ErrorPage(session, "Daten konnten nicht geladen werden."))
		return
	}
	post, ok := snap.Post(id)
	if !ok {
		a.html(w, r, http.StatusNotFound, views.ErrorPage(session, "Eintrag nicht gefunden."))
		return
	}
	if len(post.Images) == 0 {
		http.Redirect(w, r, "/#post-"+post.ID, http.StatusSeeOther)
		return
	}
	index, _ := strconv.Atoi(r.URL.Query().Get("i"))
	var v gallery.Viewer
	v.Open(post.Images, index)
	a.html(w, r, http.StatusOK, views.Gallery(session, post, &v))
}

func (a *App) PledgeSubmit(w http.ResponseWriter, r *http.Request) {
	_, err := a.Site.AddPledge(r.Context(), ledgerFromForm(r))
	a.redirect(w, r, "donate", "Danke für deine Zusage!", err)
}

func (a *App) DonationSubmit(w http.ResponseWriter, r *http.Request) {
	_, err := a.Site.AddFixedDonation(r.Context(), ledgerFromForm(r))
	a.redirect(w, r, "donate", "Danke für deine Spende!", err)
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	session, token, err := a.Auth.SignIn(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		a.redirect(w, r, "admin", "", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   a.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	a.redirect(w, r, "blog", "Eingeloggt als "+session.Email, nil)
}

func (a *App) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFromRequest(r); token != "" {
		if err := a.Auth.SignOut(token); err != nil {
			a.Logger.Warn().Err(err).Msg("sign out failed")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	a.redirect(w, r, "", "Ausgeloggt.", nil)
}

func (a *App) PostSubmit(w http.ResponseWriter, r *http.Request) {
	session, ok := a.adminOnly(w, r, "blog")
	if !ok {
		return
	}
	form, files, err := a.readPost(w, r)
	var snap *site.Snapshot
	if err == nil {
		snap, err = a.Site.AddPost(r.Context(), session, form, files)
	}
	a.redirect(w, r, "blog", "Eintrag gespeichert.", err, failedUploads(snap)...)
}

func (a *App) PostEditSubmit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session, ok := a.adminOnly(w, r, "post-"+id)
	if !ok {
		return
	}
	form, files, err := a.readPost(w, r)
	var snap *site.Snapshot
	if err == nil {
		snap, err = a.Site.EditPost(r.Context(), session, id, form, files)
	}
	a.redirect(w, r, "post-"+id, "Eintrag aktualisiert.", err, failedUploads(snap)...)
}

func (a *App) PostDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	session, ok := a.adminOnly(w, r, "blog")
	if !ok {
		return
	}
	_, err := a.Site.DeletePost(r.Context(), session, chi.URLParam(r, "id"))
	a.redirect(w, r, "blog", "Eintrag gelöscht.", err)
}

func (a *App) StatusSubmit(w http.ResponseWriter, r *http.Request) {
	session, ok := a.adminOnly(w, r, "map")
	if !ok {
		return
	}
	_, err := a.Site.UpdateStatus(r.Context(), session, statusFromForm(r))
	a.redirect(w, r, "map", "Position aktualisiert.", err)
}

func (a *App) PledgeDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	session, ok := a.adminOnly(w, r, "donate")
	if !ok {
		return
	}
	_, err := a.Site.DeletePledge(r.Context(), session, chi.URLParam(r, "id"))
	a.redirect(w, r, "donate", "Zusage gelöscht.", err)
}

func (a *App) DonationDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	session, ok := a.adminOnly(w, r, "donate")
	if !ok {
		return
	}
	_, err := a.Site.DeleteFixedDonation(r.Context(), session, chi.URLParam(r, "id"))
	a.redirect(w, r, "donate", "Spende gelöscht.", err)
}
