package siteui

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"empowerorphansweb/internal/domain"
)

type templates struct {
	home     *template.Template
	about    *template.Template
	chapters *template.Template
	donate   *template.Template
	events   *template.Template
	notFound *template.Template
}

type viewData struct {
	Title string
}

type donationView struct {
	Amount  int
	Goal    int
	Percent int
}

type homeViewData struct {
	Title    string
	Slides   []domain.HeroSlide
	Progress donationView
}

type donateViewData struct {
	Title    string
	Progress donationView
}

type eventView struct {
	Title       string
	Description string
	When        string
	Location    string
	Link        string
	Chapter     string

	date time.Time
}

type eventsViewData struct {
	Title    string
	Upcoming []eventView
	Past     []eventView
}

func parseTemplates() (*templates, error) {
	parse := func(name, content string) (*template.Template, error) {
		t, err := template.New(name).Parse(siteLayout)
		if err != nil {
			return nil, err
		}
		return t.Parse(content)
	}

	home, err := parse("home", homeContent)
	if err != nil {
		return nil, fmt.Errorf("parse home: %w", err)
	}
	about, err := parse("about", aboutContent)
	if err != nil {
		return nil, fmt.Errorf("parse about: %w", err)
	}
	chapters, err := parse("chapters", chaptersContent)
	if err != nil {
		return nil, fmt.Errorf("parse chapters: %w", err)
	}
	donate, err := parse("donate", donateContent)
	if err != nil {
		return nil, fmt.Errorf("parse donate: %w", err)
	}
	events, err := parse("events", eventsContent)
	if err != nil {
		return nil, fmt.Errorf("parse events: %w", err)
	}
	notFound, err := parse("notfound", notFoundContent)
	if err != nil {
		return nil, fmt.Errorf("parse notfound: %w", err)
	}

	return &templates{
		home:     home,
		about:    about,
		chapters: chapters,
		donate:   donate,
		events:   events,
		notFound: notFound,
	}, nil
}

func render(w http.ResponseWriter, status int, t *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = t.Execute(w, data)
}

func (t *templates) renderHome(w http.ResponseWriter, status int, data any) {
	render(w, status, t.home, data)
}

func (t *templates) renderAbout(w http.ResponseWriter, status int, data any) {
	render(w, status, t.about, data)
}

func (t *templates) renderChapters(w http.ResponseWriter, status int, data any) {
	render(w, status, t.chapters, data)
}

func (t *templates) renderDonate(w http.ResponseWriter, status int, data any) {
	render(w, status, t.donate, data)
}

func (t *templates) renderEvents(w http.ResponseWriter, status int, data any) {
	render(w, status, t.events, data)
}

func (t *templates) renderNotFound(w http.ResponseWriter, data any) {
	render(w, http.StatusNotFound, t.notFound, data)
}

const siteLayout = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width,initial-scale=1" />
    <title>{{.Title}}</title>
    <style>
      :root{
        --ink:#1e293b;
        --muted:#64748b;
        --accent:#0d9488;
        --accent-dark:#0f766e;
        --bg:#fafaf9;
        --card:#ffffff;
        --line:#e2e8f0;
      }
      *{box-sizing:border-box}
      body{margin:0;font-family:"Segoe UI",system-ui,-apple-system,sans-serif;color:var(--ink);background:var(--bg)}
      header{display:flex;align-items:center;justify-content:space-between;gap:16px;padding:18px clamp(20px,4vw,64px);border-bottom:1px solid var(--line);background:var(--card)}
      .logo{font-size:20px;font-weight:700;color:var(--accent-dark);text-decoration:none}
      nav{display:flex;gap:20px;flex-wrap:wrap}
      nav a{color:var(--ink);text-decoration:none;font-weight:500}
      nav a:hover{color:var(--accent)}
      main{max-width:960px;margin:0 auto;padding:32px clamp(20px,4vw,64px)}
      h1{font-size:clamp(28px,4vw,40px);margin:0 0 16px}
      h2{margin:32px 0 12px}
      p{line-height:1.6;color:var(--muted)}
      .card{background:var(--card);border:1px solid var(--line);border-radius:12px;padding:20px;margin:16px 0}
      .btn{display:inline-block;background:var(--accent);color:#fff;padding:12px 24px;border-radius:8px;text-decoration:none;font-weight:600}
      .btn:hover{background:var(--accent-dark)}
      .carousel{position:relative;overflow:hidden;border-radius:12px;margin:24px 0}
      .carousel img{width:100%;height:360px;object-fit:cover;display:none}
      .carousel img.active{display:block}
      .progress-track{background:var(--line);border-radius:999px;height:18px;overflow:hidden;margin:12px 0}
      .progress-fill{background:var(--accent);height:100%}
      .event-meta{color:var(--muted);font-size:14px;margin:4px 0}
      footer{border-top:1px solid var(--line);padding:24px clamp(20px,4vw,64px);color:var(--muted);font-size:14px;text-align:center}
    </style>
  </head>
  <body>
    <header>
      <a class="logo" href="/">Empower Orphans</a>
      <nav>
        <a href="/about">About</a>
        <a href="/chapters">Chapters</a>
        <a href="/events">Events</a>
        <a href="/donate">Donate</a>
      </nav>
    </header>
    <main>{{template "content" .}}</main>
    <footer>Empower Orphans is a student-led nonprofit supporting orphaned and vulnerable children.</footer>
    {{block "scripts" .}}{{end}}
  </body>
</html>`

const homeContent = `{{define "content"}}
<h1>Every child deserves a chance.</h1>
<p>We are a student-led nonprofit raising funds and collecting goods for orphaned and vulnerable children in our community and abroad.</p>
{{if .Slides}}
<div class="carousel" id="carousel">
  {{range $i, $s := .Slides}}<img src="{{$s.URL}}" alt="{{$s.Alt}}"{{if eq $i 0}} class="active"{{end}}{{if $s.Position}} style="object-position:center {{$s.Position}}%"{{end}} />
  {{end}}
</div>
{{end}}
<div class="card">
  <h2>Fundraising progress</h2>
  <div class="progress-track"><div class="progress-fill" style="width: {{.Progress.Percent}}%"></div></div>
  <p>${{.Progress.Amount}} raised of our ${{.Progress.Goal}} goal.</p>
  <a class="btn" href="/donate">Donate now</a>
</div>
{{end}}
{{define "scripts"}}
{{if .Slides}}
<script>
  (function () {
    var imgs = document.querySelectorAll("#carousel img");
    if (imgs.length < 2) return;
    var i = 0;
    setInterval(function () {
      imgs[i].classList.remove("active");
      i = (i + 1) % imgs.length;
      imgs[i].classList.add("active");
    }, 5000);
  })();
</script>
{{end}}
{{end}}`

const aboutContent = `{{define "content"}}
<h1>About us</h1>
<p>Empower Orphans began as a group of students who believed that young people could make a real difference for children growing up without parents. What started as a single clothing drive has grown into two university chapters running fundraisers, donation drives, and awareness campaigns year round.</p>
<div class="card">
  <h2>Our mission</h2>
  <p>To improve the lives of orphaned and vulnerable children by raising funds, collecting essential goods, and building a community of students who care.</p>
</div>
<div class="card">
  <h2>What we do</h2>
  <p>We organize fundraising events on campus, partner with local shelters and international charities, and run seasonal drives for clothing, school supplies, and toys. Every dollar raised goes directly to programs supporting children.</p>
</div>
{{end}}`

const chaptersContent = `{{define "content"}}
<h1>Our chapters</h1>
<p>Empower Orphans runs student chapters at two Ottawa universities. Both chapters welcome new members at any point in the school year.</p>
<div class="card">
  <h2>Carleton University</h2>
  <p>Our founding chapter, based at Carleton University. The Carleton team runs our largest annual fundraiser and coordinates donation drives across campus residences.</p>
</div>
<div class="card">
  <h2>University of Ottawa</h2>
  <p>Our uOttawa chapter focuses on community partnerships, working with local shelters and after-school programs to get supplies where they are needed most.</p>
</div>
{{end}}`

const donateContent = `{{define "content"}}
<h1>Donate</h1>
<p>Your donation goes directly to programs supporting orphaned and vulnerable children. Every contribution counts, no matter the size.</p>
<div class="card">
  <h2>Campaign progress</h2>
  <div class="progress-track"><div class="progress-fill" style="width: {{.Progress.Percent}}%"></div></div>
  <p>${{.Progress.Amount}} raised of our ${{.Progress.Goal}} goal.</p>
</div>
<div class="card">
  <h2>How to give</h2>
  <p>Send an e-transfer to <strong>donate@empowerorphans.org</strong>, or give through our online campaign page. For donations of goods, reach out to either chapter and we will arrange a drop-off.</p>
</div>
{{end}}`

const eventsContent = `{{define "content"}}
<h1>Events</h1>
{{if .Upcoming}}
<h2>Upcoming</h2>
{{range .Upcoming}}
<div class="card">
  <h2>{{.Title}}</h2>
  <p class="event-meta">{{.When}}{{if .Location}} &middot; {{.Location}}{{end}} &middot; {{.Chapter}}</p>
  {{if .Description}}<p>{{.Description}}</p>{{end}}
  {{if .Link}}<a class="btn" href="{{.Link}}">Learn more</a>{{end}}
</div>
{{end}}
{{else}}
<p>No upcoming events right now. Check back soon!</p>
{{end}}
{{if .Past}}
<h2>Past events</h2>
{{range .Past}}
<div class="card">
  <h2>{{.Title}}</h2>
  <p class="event-meta">{{.When}}{{if .Location}} &middot; {{.Location}}{{end}} &middot; {{.Chapter}}</p>
  {{if .Description}}<p>{{.Description}}</p>{{end}}
</div>
{{end}}
{{end}}
{{end}}`

const notFoundContent = `{{define "content"}}
<h1>Page not found</h1>
<p>The page you are looking for does not exist or has moved.</p>
<a class="btn" href="/">Back to home</a>
{{end}}`
