package views

import (
	"fmt"

	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"

	"flabi/internal/domain"
	"flabi/internal/gallery"
)

// Gallery renders the full-screen lightbox of one post. Prev and next wrap
// around and are hidden for single-image posts.
func Gallery(session *domain.Session, post domain.BlogPost, v *gallery.Viewer) g.Node {
	href := func(i int) string { return fmt.Sprintf("/posts/%s/gallery?i=%d", post.ID, i) }
	return Layout(LayoutProps{Title: post.Title, Session: session},
		Div(Class("lightbox"),
			Img(Src(v.Current()), Alt(post.Title)),
			A(Class("btn close"), Href("/#post-"+post.ID), g.Text("Schließen")),
			g.If(v.Len() > 1, g.Group([]g.Node{
				A(Class("prev"), Href(href(v.PrevIndex())), g.Attr("aria-label", "previous"), g.Text("‹")),
				A(Class("next"), Href(href(v.NextIndex())), g.Attr("aria-label", "next"), g.Text("›")),
			})),
		),
	)
}
