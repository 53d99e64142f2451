package adminui

import (
	"fmt"
	"html/template"
	"net/http"

	"empowerorphansweb/internal/domain"
	"empowerorphansweb/internal/service"
)

type templates struct {
	login     *template.Template
	dashboard *template.Template
}

type loginViewData struct {
	Title      string
	Email      string
	RedirectTo string
	Error      string
}

type dashboardViewData struct {
	Title    string
	Slides   []domain.HeroSlide
	Events   []domain.Event
	Progress service.Progress
	Error    string
}

func parseTemplates() (*templates, error) {
	parse := func(name, content string) (*template.Template, error) {
		t, err := template.New(name).Parse(adminLayout)
		if err != nil {
			return nil, err
		}
		return t.Parse(content)
	}

	login, err := parse("login", loginContent)
	if err != nil {
		return nil, fmt.Errorf("parse login: %w", err)
	}
	dashboard, err := parse("dashboard", dashboardContent)
	if err != nil {
		return nil, fmt.Errorf("parse dashboard: %w", err)
	}

	return &templates{login: login, dashboard: dashboard}, nil
}

func (t *templates) renderLogin(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = t.login.Execute(w, data)
}

func (t *templates) renderDashboard(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = t.dashboard.Execute(w, data)
}

const adminLayout = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width,initial-scale=1" />
    <meta name="robots" content="noindex" />
    <title>{{.Title}}</title>
    <style>
      :root{
        --ink:#1e293b;
        --muted:#64748b;
        --accent:#0d9488;
        --danger:#dc2626;
        --bg:#f1f5f9;
        --card:#ffffff;
        --line:#e2e8f0;
      }
      *{box-sizing:border-box}
      body{margin:0;font-family:"Segoe UI",system-ui,-apple-system,sans-serif;color:var(--ink);background:var(--bg)}
      main{max-width:880px;margin:0 auto;padding:32px 20px}
      h1{margin:0 0 20px}
      h2{margin:0 0 12px}
      .card{background:var(--card);border:1px solid var(--line);border-radius:10px;padding:20px;margin:0 0 20px}
      .error{background:#fef2f2;border:1px solid #fecaca;color:var(--danger);border-radius:8px;padding:12px;margin:0 0 16px}
      label{display:block;font-weight:600;margin:12px 0 4px}
      input,textarea,select{width:100%;padding:10px;border:1px solid var(--line);border-radius:8px;font:inherit}
      button{background:var(--accent);color:#fff;border:0;border-radius:8px;padding:10px 20px;font:inherit;font-weight:600;cursor:pointer;margin-top:12px}
      button.danger{background:var(--danger)}
      table{width:100%;border-collapse:collapse}
      th,td{text-align:left;padding:8px;border-bottom:1px solid var(--line);font-size:14px}
      .thumb{width:96px;height:54px;object-fit:cover;border-radius:6px}
      .topbar{display:flex;justify-content:space-between;align-items:center;margin:0 0 20px}
      .topbar form{margin:0}
    </style>
  </head>
  <body>
    <main>{{template "content" .}}</main>
    {{block "scripts" .}}{{end}}
  </body>
</html>`

const loginContent = `{{define "content"}}
<h1>Admin Login</h1>
<div class="card">
  {{if .Error}}<div class="error">{{.Error}}</div>{{end}}
  <form method="post" action="/admin/login">
    <input type="hidden" name="redirectTo" value="{{.RedirectTo}}" />
    <label for="email">Email</label>
    <input id="email" name="email" type="email" value="{{.Email}}" required autofocus />
    <label for="password">Password</label>
    <input id="password" name="password" type="password" required />
    <button type="submit">Sign in</button>
  </form>
</div>
{{end}}`

const dashboardContent = `{{define "content"}}
<div class="topbar">
  <h1>Admin Dashboard</h1>
  <form method="post" action="/admin/logout"><button type="submit">Sign out</button></form>
</div>
{{if .Error}}<div class="error">{{.Error}}</div>{{end}}

<div class="card">
  <h2>Donation progress</h2>
  <p>Currently showing <strong>${{.Progress.Amount}}</strong> of the ${{.Progress.Goal}} goal.</p>
  <label for="amount">New amount</label>
  <input id="amount" type="number" min="0" value="{{.Progress.Amount}}" />
  <button onclick="updateDonation()">Update</button>
</div>

<div class="card">
  <h2>Hero carousel</h2>
  <table>
    <thead><tr><th></th><th>Alt text</th><th>Order</th><th></th></tr></thead>
    <tbody>
      {{range .Slides}}
      <tr>
        <td><img class="thumb" src="{{.URL}}" alt="{{.Alt}}" /></td>
        <td>{{.Alt}}</td>
        <td>{{.Order}}</td>
        <td><button class="danger" onclick="deleteSlide('{{.ID}}')">Delete</button></td>
      </tr>
      {{end}}
    </tbody>
  </table>
  <label for="slide-file">Add image</label>
  <input id="slide-file" type="file" accept="image/*" />
  <label for="slide-alt">Alt text</label>
  <input id="slide-alt" type="text" placeholder="Describe the image" />
  <button onclick="uploadSlide()">Upload</button>
</div>

<div class="card">
  <h2>Events</h2>
  <table>
    <thead><tr><th>Title</th><th>Date</th><th>Chapter</th><th></th></tr></thead>
    <tbody>
      {{range .Events}}
      <tr>
        <td>{{.Title}}</td>
        <td>{{.Date.Format "2006-01-02"}}</td>
        <td>{{.Chapter}}</td>
        <td><button class="danger" onclick="deleteEvent('{{.ID}}')">Delete</button></td>
      </tr>
      {{end}}
    </tbody>
  </table>
  <label for="event-title">Title</label>
  <input id="event-title" type="text" />
  <label for="event-date">Date</label>
  <input id="event-date" type="date" />
  <label for="event-chapter">Chapter</label>
  <select id="event-chapter">
    <option value="both">Both chapters</option>
    <option value="carleton">Carleton</option>
    <option value="uottawa">uOttawa</option>
  </select>
  <label for="event-description">Description</label>
  <textarea id="event-description" rows="3"></textarea>
  <button onclick="createEvent()">Add event</button>
</div>
{{end}}
{{define "scripts"}}
<script>
  async function call(path, opts) {
    const res = await fetch(path, opts);
    const body = await res.json();
    if (!body.success) {
      alert(body.error || "Something went wrong");
      return false;
    }
    return true;
  }

  async function updateDonation() {
    const amount = parseInt(document.getElementById("amount").value, 10);
    if (await call("/admin/api/donations", {
      method: "PUT",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ amount }),
    })) location.reload();
  }

  async function uploadSlide() {
    const input = document.getElementById("slide-file");
    if (!input.files.length) { alert("Choose an image first"); return; }
    const form = new FormData();
    form.append("file", input.files[0]);
    form.append("alt", document.getElementById("slide-alt").value);
    if (await call("/admin/api/carousel", { method: "POST", body: form })) location.reload();
  }

  async function deleteSlide(id) {
    if (!confirm("Delete this slide?")) return;
    if (await call("/admin/api/carousel/" + id, { method: "DELETE" })) location.reload();
  }

  async function createEvent() {
    const body = {
      title: document.getElementById("event-title").value,
      date: document.getElementById("event-date").value,
      chapter: document.getElementById("event-chapter").value,
      description: document.getElementById("event-description").value,
    };
    if (await call("/admin/api/events", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify(body),
    })) location.reload();
  }

  async function deleteEvent(id) {
    if (!confirm("Delete this event?")) return;
    if (await call("/admin/api/events/" + id, { method: "DELETE" })) location.reload();
  }
</script>
{{end}}`
