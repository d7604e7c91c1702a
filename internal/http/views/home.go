package views

import (
	"fmt"
	"strconv"

	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"

	"flabi/internal/domain"
	"flabi/internal/projection"
	"flabi/internal/site"
)

// HomeProps drive the single page.
type HomeProps struct {
	Snapshot *site.Snapshot
	Session  *domain.Session
	Notice   string
	Error    string
	// EditID opens the inline editor of one post.
	EditID string
}

// Home renders hero, blog, map, donation forms and totals. Editors appear
// for admin sessions only.
func Home(p HomeProps) g.Node {
	admin := p.Session.IsAdmin()
	return Layout(LayoutProps{Title: "Flabi on tour", Session: p.Session},
		Notice(p.Notice, false),
		Notice(p.Error, true),
		hero(),
		blog(p.Snapshot.Posts, admin, p.EditID),
		mapSection(p.Snapshot, admin),
		donate(p.Snapshot, admin),
		g.If(!admin, loginForm()),
	)
}

func hero() g.Node {
	return Section(ID("home"),
		Div(Class("card"),
			Small(Class("muted"), g.Text("CARBAGE RUN 2025")),
			H1(Style("color: var(--brand)"), g.Text("Flabi on tour")),
			P(Class("muted"),
				g.Text("Wir sammeln Spenden zugunsten der "), B(g.Text("Paraplegie Schweiz")),
				g.Text(", damit Menschen nach einem Autounfall mit paraplegischen Folgen den Weg zurück in den Alltag finden. "+
					"Verfolge unsere Etappen, Live-Position und unterstütze pro Kilometer oder mit einem festen Beitrag."),
			),
			A(Class("btn"), Href("#donate"), g.Text("Jetzt spenden")), g.Text(" "),
			A(Class("btn btn-ghost"), Href("#map"), g.Text("Karte ansehen")),
		),
	)
}

func blog(posts []domain.BlogPost, admin bool, editID string) g.Node {
	cards := make([]g.Node, 0, len(posts))
	for _, post := range posts {
		cards = append(cards, postCard(post, admin, admin && post.ID == editID))
	}
	return Section(ID("blog"),
		H2(g.Text("Rally Blog")),
		g.If(admin, newPostForm()),
		g.Group(cards),
		g.If(len(posts) == 0, P(Class("muted"), g.Text("Noch keine Einträge. Fangt mit einem Update an!"))),
	)
}

func newPostForm() g.Node {
	return Form(Class("card"), Method("post"), Action("/admin/posts"), g.Attr("enctype", "multipart/form-data"),
		Div(Class("grid2"),
			Label(g.Text("Titel"), Input(Name("title"), Placeholder("Tag 1: Start in …"), g.Attr("required"))),
			Label(g.Text("Bilder"), Input(Type("file"), Name("images"), g.Attr("accept", "image/*"), g.Attr("multiple"))),
		),
		Label(g.Text("Text"), Textarea(Name("text"), g.Attr("rows", "4"), Placeholder("Kurzer Bericht der Etappe…"))),
		Button(Type("submit"), g.Text("＋ Eintrag speichern")),
	)
}

func galleryHref(id string, i int) string {
	return fmt.Sprintf("/posts/%s/gallery?i=%d", id, i)
}

func postCard(post domain.BlogPost, admin, editing bool) g.Node {
	var media g.Node
	if len(post.Images) > 0 {
		thumbs := make([]g.Node, 0, len(post.Images)-1)
		for i, u := range post.Images[1:] {
			thumbs = append(thumbs, A(Href(galleryHref(post.ID, i+1)), Img(Src(u), Alt("img-"+strconv.Itoa(i+1)))))
		}
		media = Div(
			A(Href(galleryHref(post.ID, 0)), Img(Class("mainimg"), Src(post.PrimaryImage()), Alt("main"))),
			g.If(len(thumbs) > 0, Div(Class("thumbs"), g.Group(thumbs))),
		)
	}

	var body g.Node
	if editing {
		body = editPostForm(post)
	} else {
		body = Div(
			H3(g.Text(post.Title)),
			P(Class("muted"), g.Text(post.Body)),
			g.If(!post.CreatedAt.IsZero(), P(Class("muted"), Small(g.Text(post.CreatedAt.Format("02.01.2006 15:04"))))),
			g.If(admin, Div(
				A(Class("btn btn-ghost"), Href("/?edit="+post.ID+"#post-"+post.ID), g.Text("Bearbeiten")), g.Text(" "),
				Form(Method("post"), Action("/admin/posts/"+post.ID+"/delete"), Style("display:inline"),
					Button(Type("submit"), Class("btn-alert"), g.Text("Löschen")),
				),
			)),
		)
	}

	return Div(ID("post-"+post.ID), Class("card"), Style("margin-top:16px"), media, body)
}

func editPostForm(post domain.BlogPost) g.Node {
	keep := make([]g.Node, 0, len(post.Images))
	for _, u := range post.Images {
		keep = append(keep, Label(Style("display:inline-block; width:auto; margin-right:8px"),
			Input(Type("checkbox"), Name("keep"), Value(u), g.Attr("checked"), Style("width:auto")),
			Img(Src(u), Alt("thumb"), Style("width:90px; height:70px; object-fit:cover")),
		))
	}
	return Form(Method("post"), Action("/admin/posts/"+post.ID), g.Attr("enctype", "multipart/form-data"),
		Input(Name("title"), Value(post.Title), g.Attr("required")),
		Textarea(Name("text"), g.Attr("rows", "4"), g.Text(post.Body)),
		g.If(len(keep) > 0, Div(Class("thumbs"), g.Group(keep))),
		Label(g.Text("Weitere Bilder hinzufügen"), Input(Type("file"), Name("images"), g.Attr("accept", "image/*"), g.Attr("multiple"))),
		Button(Type("submit"), g.Text("Speichern")), g.Text(" "),
		A(Class("btn btn-ghost"), Href("/#post-"+post.ID), g.Text("Abbrechen")),
	)
}

func mapSection(snap *site.Snapshot, admin bool) g.Node {
	st := snap.Status
	return Section(ID("map"),
		H2(g.Text("Unsere Route & aktuelle Position")),
		Div(Class("card"), Style("padding:0"),
			g.El("iframe", g.Attr("title", "google-map"), Src(snap.MapURL), Class("mapframe"), g.Attr("loading", "lazy"), g.Attr("allowfullscreen")),
		),
		P(Class("muted"), g.Textf("Gefahrene km: %s", snap.Totals.Kilometers)),
		g.If(admin, Form(Class("card"), Method("post"), Action("/admin/status"),
			Div(Class("grid2"),
				Label(g.Text("Lat"), Input(Name("lat"), Value(strconv.FormatFloat(st.Latitude, 'f', -1, 64)))),
				Label(g.Text("Lng"), Input(Name("lng"), Value(strconv.FormatFloat(st.Longitude, 'f', -1, 64)))),
			),
			Label(g.Text("Gefahrene km"), Input(Type("number"), Name("km"), g.Attr("min", "0"), g.Attr("step", "any"), Value(strconv.FormatFloat(st.KilometersTraveled, 'f', -1, 64)))),
			Button(Type("submit"), g.Text("Update speichern")),
			P(Class("muted"), g.Textf("Aktuell: %.4f° N, %.4f° E", st.Latitude, st.Longitude)),
		)),
	)
}

func ledgerForm(action, title, amountLabel, step, placeholder, submit string) g.Node {
	return Form(Class("card"), Method("post"), Action(action),
		H3(g.Text(title)),
		Div(Class("grid2"),
			Label(g.Text("Name"), Input(Name("name"), Placeholder("Vor- & Nachname"), g.Attr("required"))),
			Label(g.Text(amountLabel), Input(Name("amount"), Type("number"), g.Attr("step", step), g.Attr("min", "0"), Placeholder(placeholder), g.Attr("required"))),
		),
		Button(Type("submit"), g.Text(submit)),
	)
}

func donate(snap *site.Snapshot, admin bool) g.Node {
	totals := snap.RawTotals()
	rows := make([]g.Node, 0, len(snap.Pledges)+len(snap.Donations))
	for _, p := range snap.Pledges {
		rows = append(rows, Div(Class("row"), Span(g.Text(p.Name)), B(g.Textf("%s / km", projection.FormatFloatCHF(p.AmountPerKm))),
			g.If(admin, deleteButton("/admin/pledges/"+p.ID+"/delete"))))
	}
	for _, d := range snap.Donations {
		rows = append(rows, Div(Class("row"), Span(g.Text(d.Name)), B(g.Textf("%s einmalig", projection.FormatFloatCHF(d.Amount))),
			g.If(admin, deleteButton("/admin/donations/"+d.ID+"/delete"))))
	}
	return Section(ID("donate"),
		H2(g.Text("Spenden")),
		P(Class("muted"), g.Text("Unterstütze die Paraplegie Schweiz: wähle zwischen einer Zusage pro Kilometer "+
			"(wir hoffen die ganzen 2500 km zu schaffen) oder einem festen Betrag.")),
		Div(Class("grid2"),
			ledgerForm("/pledges", "Zusage pro Kilometer", "Betrag pro km (CHF)", "0.01", "z. B. 0.50", "Zusage speichern"),
			ledgerForm("/donations", "Fester Betrag", "Betrag (CHF)", "0.01", "z. B. 50", "Spende vormerken"),
		),
		Div(Class("grid2"), Style("margin-top:16px"),
			Div(Class("card"),
				Small(Class("muted"), g.Text("Summe Zusagen pro km")),
				Div(Class("total"), ID("total-per-km"), g.Text(projection.FormatCHF(totals.PerKmRate))),
				Small(Class("muted"), g.Text("Prognose gesamt (km × pro-km + feste Beträge)")),
				Div(Class("total"), ID("projected-total"), Style("font-size:28px; color:var(--ink)"), g.Text(projection.FormatCHF(totals.Projected))),
			),
			Div(Class("card"),
				H3(g.Text("Alle Zusagen")),
				g.Group(rows),
				g.If(len(rows) == 0, P(Class("muted"), g.Text("Noch keine Zusagen, sei die/der Erste!"))),
			),
		),
	)
}

func deleteButton(action string) g.Node {
	return Form(Method("post"), Action(action), Style("display:inline"),
		Button(Type("submit"), Class("btn-alert"), g.Attr("aria-label", "delete"), g.Text("×")),
	)
}

func loginForm() g.Node {
	return Section(ID("admin"),
		Form(Class("card"), Method("post"), Action("/login"), Style("max-width:360px"),
			H3(g.Text("Admin Login")),
			Input(Type("email"), Name("email"), Placeholder("E-Mail"), g.Attr("autocomplete", "username")),
			Input(Type("password"), Name("password"), Placeholder("Passwort"), g.Attr("autocomplete", "current-password"), Style("margin-top:8px")),
			Button(Type("submit"), Style("margin-top:12px"), g.Text("Einloggen")),
		),
	)
}
