// Package views renders the microsite pages with gomponents.
package views

import (
	"io"

	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"

	"flabi/internal/domain"
)

// LayoutProps are shared by every page.
type LayoutProps struct {
	Title   string
	Session *domain.Session
}

const styles = `
:root { --brand: #d0021b; --ink: #111; --gray: #666; --line: #e5e5e5; --alert: #b00020; }
* { box-sizing: border-box; }
body { margin: 0; font-family: system-ui, sans-serif; color: var(--ink); background: #fafafa; }
.container { max-width: 1080px; margin: 0 auto; padding: 0 16px; }
.nav { display: flex; justify-content: space-between; align-items: center; padding: 12px 0; border-bottom: 1px solid var(--line); }
.nav a { margin-left: 14px; color: var(--ink); text-decoration: none; }
.brand { font-weight: 800; letter-spacing: 1px; }
.brand span { color: var(--brand); }
section { padding: 28px 0; }
.card { border: 1px solid var(--line); background: #fff; padding: 16px; }
.grid2 { display: grid; grid-template-columns: 1fr 1fr; gap: 16px; }
.muted { color: var(--gray); }
.notice { padding: 10px 14px; margin-top: 12px; border: 1px solid var(--line); background: #fff; }
.notice.error { border-color: var(--alert); color: var(--alert); }
input, textarea { width: 100%; padding: 8px; border: 1px solid var(--line); font: inherit; }
button, .btn { background: var(--brand); color: #fff; border: none; padding: 9px 14px; cursor: pointer; font: inherit; text-decoration: none; display: inline-block; }
.btn-ghost { background: #fff; color: var(--ink); border: 1px solid var(--line); }
.btn-alert { background: #fff; color: var(--alert); border: 1px solid var(--line); }
.mainimg { width: 100%; max-height: 420px; object-fit: cover; display: block; }
.thumbs { display: flex; gap: 8px; margin-top: 8px; flex-wrap: wrap; }
.thumbs img { width: 90px; height: 70px; object-fit: cover; }
.mapframe { width: 100%; height: 380px; border: 0; display: block; }
.total { font-size: 36px; font-weight: 800; color: var(--brand); }
.row { display: flex; justify-content: space-between; border: 1px solid var(--line); padding: 10px; margin-top: 8px; }
.lightbox { position: fixed; inset: 0; background: rgba(0,0,0,.85); display: grid; place-items: center; }
.lightbox img { max-width: 90vw; max-height: 85vh; }
.lightbox .close { position: fixed; top: 16px; right: 20px; }
.lightbox .prev, .lightbox .next { position: fixed; top: 50%; width: 44px; height: 44px; text-align: center; line-height: 44px; background: #000; }
.lightbox .prev { left: 20px; }
.lightbox .next { right: 20px; }
@media (max-width: 720px) { .grid2 { grid-template-columns: 1fr; } }
`

func navbar(props LayoutProps) g.Node {
	return Nav(Class("nav"),
		Div(Class("brand"), A(Href("/"), g.Text("FLABI "), Span(g.Text("ON TOUR")))),
		Div(
			A(Href("/#blog"), g.Text("Blog")),
			A(Href("/#map"), g.Text("Karte")),
			A(Href("/#donate"), g.Text("Spenden")),
			g.If(!props.Session.IsAdmin(), A(Href("/#admin"), g.Text("Admin"))),
			g.If(props.Session.IsAdmin(),
				Form(Method("post"), Action("/logout"), Style("display:inline; margin-left:14px"),
					Button(Type("submit"), Class("btn-ghost"), g.Text("Logout")),
				),
			),
		),
	)
}

// Layout wraps a page body.
func Layout(props LayoutProps, children ...g.Node) g.Node {
	return Doctype(
		HTML(
			Lang("de"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(g.Text(props.Title)),
				StyleEl(g.Raw(styles)),
			),
			Body(
				Div(Class("container"),
					navbar(props),
					Main(g.Group(children)),
					Footer(Class("muted"), Style("padding: 24px 0"),
						Small(g.Text("Carbage Run 2025 zugunsten der Paraplegie Schweiz")),
					),
				),
			),
		),
	)
}

// Notice renders the flash message carried over a redirect.
func Notice(message string, isError bool) g.Node {
	if message == "" {
		return nil
	}
	class := "notice"
	if isError {
		class += " error"
	}
	return Div(Class(class), g.Attr("role", "status"), g.Text(message))
}

// ErrorPage is shown when the page state cannot be loaded.
func ErrorPage(session *domain.Session, message string) g.Node {
	return Layout(LayoutProps{Title: "Flabi on tour", Session: session},
		Section(
			H1(g.Text("Gerade nicht verfügbar")),
			Notice(message, true),
			P(A(Class("btn"), Href("/"), g.Text("Neu laden"))),
		),
	)
}

// Render writes node to w as HTML.
func Render(w io.Writer, node g.Node) error {
	return node.Render(w)
}
