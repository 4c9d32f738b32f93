package handler

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/evesrp/evesrp/internal/store"
	"github.com/evesrp/evesrp/web"
)

// BasePage carries layout-level data available to every template.
type BasePage struct {
	User  *store.User // nil for unauthenticated pages
	Flash *Flash
	Nav   string // scope or section highlighted in the navigation
}

// Flash represents a one-time notification message shown to the user.
type Flash struct {
	Type    string // "success", "error", "info"
	Message string
}

var printer = message.NewPrinter(language.English)

// isk formats an amount of ISK cents with thousands separators, as in
// "1,250,000.00 ISK".
func isk(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return printer.Sprintf("%s%d.%02d ISK", sign, cents/100, cents%100)
}

// statusClass is the CSS class of a request status badge.
func statusClass(s store.Status) string {
	switch s {
	case store.StatusApproved, store.StatusPaid:
		return "status-good"
	case store.StatusRejected:
		return "status-bad"
	case store.StatusIncomplete:
		return "status-warn"
	}
	return "status-pending"
}

// funcs is sprig's function map plus the SRP helpers.
func funcs() template.FuncMap {
	m := sprig.FuncMap()
	m["isk"] = isk
	m["statusClass"] = statusClass
	return m
}

// pageCache maps a render key (e.g. "requests.html") to a compiled template
// set containing base.html + partials + that one page file. Each page gets
// its own set so {{define "content"}} blocks don't collide.
var pageCache map[string]*template.Template

func init() {
	partials, err := fs.Glob(web.TemplateFS, "templates/partials/*.html")
	if err != nil {
		panic("glob partials: " + err.Error())
	}

	pageCache = make(map[string]*template.Template)
	err = fs.WalkDir(web.TemplateFS, "templates/pages", func(p string, d fs.DirEntry, e error) error {
		if e != nil || d.IsDir() || !strings.HasSuffix(p, ".html") {
			return e
		}

		files := make([]string, 0, 2+len(partials))
		files = append(files, "templates/base.html")
		files = append(files, partials...)
		files = append(files, p)

		t, err := template.New("").Funcs(funcs()).ParseFS(web.TemplateFS, files...)
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		pageCache[filepath.Base(p)] = t
		return nil
	})
	if err != nil {
		panic("build page cache: " + err.Error())
	}
}

// isXHR reports whether the request wants the JSON form of a page: an
// XMLHttpRequest reload or an explicit Accept header.
func isXHR(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest" ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

// render executes a full-page template (base layout + named page).
func render(w http.ResponseWriter, tmpl string, data any) {
	renderStatus(w, http.StatusOK, tmpl, data)
}

// renderStatus is render with an explicit status code.
func renderStatus(w http.ResponseWriter, status int, tmpl string, data any) {
	t, ok := pageCache[tmpl]
	if !ok {
		http.Error(w, "template not found: "+tmpl, http.StatusInternalServerError)
		return
	}
	var buf strings.Builder
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, buf.String())
}

// ErrorPage is the template data of error.html.
type ErrorPage struct {
	BasePage
	Status  int
	Message string
}

// renderError shows the error page with status.
func renderError(w http.ResponseWriter, user *store.User, status int, message string) {
	renderStatus(w, status, "error.html", ErrorPage{
		BasePage: BasePage{User: user},
		Status:   status,
		Message:  message,
	})
}
