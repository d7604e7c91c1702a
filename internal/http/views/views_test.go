package views

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"flabi/internal/domain"
	"flabi/internal/gallery"
	"flabi/internal/site"
)

func sampleSnapshot() *site.Snapshot {
	posts := []domain.BlogPost{{
		ID:        "p1",
		Title:     "Tag 1",
		Body:      "Start in Zürich",
		Images:    []string{"https://cdn.test/a.jpg", "https://cdn.test/b.jpg"},
		CreatedAt: time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC),
	}}
	pledges := []domain.PerKmPledge{{ID: "l1", Name: "Anna", AmountPerKm: 0.5}, {ID: "l2", Name: "Ben", AmountPerKm: 1.25}}
	donations := []domain.FixedDonation{{ID: "d1", Name: "Cleo", Amount: 50}}
	status := domain.StatusRecord{ID: 1, Latitude: 47.3769, Longitude: 8.5417, KilometersTraveled: 100}
	return site.NewSnapshot(posts, pledges, donations, status, time.Now())
}

func TestHomeForVisitor(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, Home(HomeProps{Snapshot: sampleSnapshot(), Notice: "Danke!"})); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	for _, want := range []string{
		"<!doctype html>",
		"Tag 1",
		"CHF 1.75",
		"CHF 225.00",
		`action="/pledges"`,
		`action="/donations"`,
		`action="/login"`,
		"https://www.google.com/maps?q=47.3769,8.5417",
		`href="/posts/p1/gallery?i=1"`,
		"Danke!",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("home page missing %q", want)
		}
	}
	for _, hidden := range []string{`action="/admin/posts"`, `action="/admin/pledges/l1/delete"`, `action="/admin/status"`, `action="/logout"`} {
		if strings.Contains(html, hidden) {
			t.Errorf("visitor page must not contain %q", hidden)
		}
	}
}

func TestHomeForAdmin(t *testing.T) {
	var buf bytes.Buffer
	session := &domain.Session{AdminID: "a1", Email: "admin@flabi.ch"}
	if err := Render(&buf, Home(HomeProps{Snapshot: sampleSnapshot(), Session: session, EditID: "p1"})); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	for _, want := range []string{
		`action="/admin/posts"`,
		`action="/admin/posts/p1"`,
		`action="/admin/status"`,
		`action="/logout"`,
		`name="keep" value="https://cdn.test/b.jpg"`,
		`action="/admin/pledges/l1/delete"`,
		`action="/admin/donations/d1/delete"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("admin page missing %q", want)
		}
	}
	if strings.Contains(html, `action="/login"`) {
		t.Error("admin page must not show the login form")
	}
}

func TestHomeEmptyState(t *testing.T) {
	var buf bytes.Buffer
	snap := site.NewSnapshot(nil, nil, nil, domain.DefaultStatus(), time.Now())
	if err := Render(&buf, Home(HomeProps{Snapshot: snap})); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"Noch keine Einträge", "Noch keine Zusagen", "CHF 0.00"} {
		if !strings.Contains(html, want) {
			t.Errorf("empty page missing %q", want)
		}
	}
}

func TestGalleryNavigation(t *testing.T) {
	post := sampleSnapshot().Posts[0]
	var v gallery.Viewer
	v.Open(post.Images, 0)

	var buf bytes.Buffer
	if err := Render(&buf, Gallery(nil, post, &v)); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	for _, want := range []string{`src="https://cdn.test/a.jpg"`, `href="/posts/p1/gallery?i=1"`, "Schließen"} {
		if !strings.Contains(html, want) {
			t.Errorf("gallery missing %q", want)
		}
	}

	v.Open([]string{"https://cdn.test/only.jpg"}, 0)
	buf.Reset()
	if err := Render(&buf, Gallery(nil, post, &v)); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), `class="next"`) {
		t.Error("single image gallery must not offer navigation")
	}
}

func TestErrorPage(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, ErrorPage(nil, "Daten konnten nicht geladen werden")); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Daten konnten nicht geladen werden") {
		t.Fatal("error message missing")
	}
}
