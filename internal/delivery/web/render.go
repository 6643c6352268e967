package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// requiredPages are the pages the handlers render.
var requiredPages = []string{
	"home", "error",
	"admin_dashboard", "users", "user_form", "subjects", "subject_form",
	"chapters", "chapter_form", "questions", "question_form", "import_questions",
	"user_progress", "user_details",
	"user_dashboard", "start_quiz", "take_quiz", "quiz_results", "quiz_retry",
	"history", "quiz_details",
}

// pages renders each page inside the shared layout. Every page is parsed
// into its own template set so pages can define the same blocks.
type pages map[string]*template.Template

func loadPages() (pages, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	p := make(pages, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}

		name := strings.TrimSuffix(path.Base(file), ".html")
		t, err := template.New(path.Base(layoutFile)).Funcs(funcs).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		p[name] = t
	}

	for _, name := range requiredPages {
		if _, ok := p[name]; !ok {
			return nil, fmt.Errorf("missing page template %s", name)
		}
	}

	return p, nil
}

// Instance implements render.HTMLRender.
func (p pages) Instance(name string, data any) render.Render {
	t, ok := p[name]
	if !ok {
		return missingPage(name)
	}
	return render.HTML{Template: t, Name: path.Base(layoutFile), Data: data}
}

// missingPage fails the render instead of executing a nil template.
type missingPage string

func (m missingPage) Render(w http.ResponseWriter) error {
	m.WriteContentType(w)
	return fmt.Errorf("unknown page %q", string(m))
}

func (missingPage) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

var funcs = template.FuncMap{
	"percent": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v)
	},
	"seconds": func(d time.Duration) int {
		return int(d / time.Second)
	},
	"date": func(t time.Time) string {
		return t.Local().Format("2006-01-02 15:04")
	},
	"add": func(a, b int) int {
		return a + b
	},
	"url": func(s string) template.URL {
		// Only chart data URIs produced by this application reach here.
		return template.URL(s)
	},
	"join": strings.Join,
	"selected": func(a, b int64) bool {
		return a == b
	},
	"contains": func(ids []int64, id int64) bool {
		for _, v := range ids {
			if v == id {
				return true
			}
		}
		return false
	},
}
