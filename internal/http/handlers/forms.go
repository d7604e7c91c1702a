package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"flabi/internal/domain"
	"flabi/internal/middleware"
	"flabi/internal/site"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temp files.
const multipartMemory = 8 << 20

type ledgerRequest struct {
	Name    string      `json:"name"`
	Amount  json.Number `json:"amount"`
	Country string      `json:"country"`
}

func (req ledgerRequest) form(r *http.Request) site.LedgerForm {
	country := req.Country
	if country == "" {
		country = middleware.CountryFromContext(r.Context())
	}
	return site.LedgerForm{Name: req.Name, Amount: req.Amount.String(), Country: country}
}

type statusRequest struct {
	Lat json.Number `json:"lat"`
	Lng json.Number `json:"lng"`
	Km  json.Number `json:"km"`
}

func (req statusRequest) form() site.StatusForm {
	return site.StatusForm{Latitude: req.Lat.String(), Longitude: req.Lng.String(), Kilometers: req.Km.String()}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func ledgerFromForm(r *http.Request) site.LedgerForm {
	return site.LedgerForm{
		Name:    r.PostFormValue("name"),
		Amount:  r.PostFormValue("amount"),
		Country: middleware.CountryFromContext(r.Context()),
	}
}

func statusFromForm(r *http.Request) site.StatusForm {
	return site.StatusForm{
		Latitude:   r.PostFormValue("lat"),
		Longitude:  r.PostFormValue("lng"),
		Kilometers: r.PostFormValue("km"),
	}
}

// readPost parses a post editor submission: title, text, any number of
// keep fields and image files under "images". Plain urlencoded bodies are
// accepted for edits without uploads.
func (a *App) readPost(w http.ResponseWriter, r *http.Request) (site.PostForm, []site.Upload, error) {
	const op = "handlers.readPost"
	if a.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			return site.PostForm{}, nil, parseError(op, err, a.MaxUploadBytes)
		}
		if err := r.ParseForm(); err != nil {
			return site.PostForm{}, nil, parseError(op, err, a.MaxUploadBytes)
		}
	}

	form := site.PostForm{
		Title: r.FormValue("title"),
		Body:  r.FormValue("text"),
		Keep:  r.Form["keep"],
	}
	if r.MultipartForm == nil {
		return form, nil, nil
	}

	headers := r.MultipartForm.File["images"]
	files := make([]site.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return site.PostForm{}, nil, domain.E(domain.KindValidation, op, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return site.PostForm{}, nil, domain.E(domain.KindValidation, op, err)
		}
		files = append(files, site.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return form, files, nil
}

func parseError(op string, err error, limit int64) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return domain.Invalid(op, fmt.Sprintf("upload exceeds %d MB", limit>>20))
	}
	return domain.Invalid(op, "malformed form")
}
