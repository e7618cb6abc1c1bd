package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing templates (required)
	Logger     *slog.Logger // Logger for template errors (optional)
}

// NewTemplateRenderer constructs a renderer by parsing templates from the provided filesystem.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}

	renderer := &TemplateRenderer{logger: cfg.Logger}

	var t *template.Template
	funcs := createTemplateFuncs(&t)
	var err error
	t, err = template.New("root").Funcs(funcs).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"pages/*.tmpl",
	)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Error("template parsing failed",
				slog.Any("error", err),
				slog.String("phase", "initialization"),
			)
		}
		return nil, err
	}
	renderer.t = t
	return renderer, nil
}

// RenderFull renders the full page (layout + page content).
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, "layout", data)
}

// RenderPartial renders only the main content area.
func (r *TemplateRenderer) RenderPartial(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, "content", data)
}

// RenderError renders an error page using the error template.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, "error-layout", data)
}

func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, templateName string, data any) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, templateName, data); err != nil {
		r.logTemplateError(templateName, err)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		r.logTemplateError(templateName, err)
		return err
	}

	return nil
}

func (r *TemplateRenderer) logTemplateError(templateName string, err error) {
	if r.logger == nil || err == nil {
		return
	}
	r.logger.Error("template execution failed",
		slog.String("template", templateName),
		slog.Any("error", err),
	)
}

func createTemplateFuncs(t **template.Template) template.FuncMap {
	funcs := template.FuncMap{
		"sectionTmpl":  ContentTemplateFor,
		"friendlyTime": friendlyTime,
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"contains":     strings.Contains,
		"titleCase":    titleCase,
		"deref": func(p *int64) int64 {
			if p == nil {
				return 0
			}
			return *p
		},
	}

	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if t == nil || *t == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*t).ExecuteTemplate(&buf, ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - The HTML here is rendered by our own trusted templates (html/template),
		// and is embedded back into the same template set. User-provided values were already
		// auto-escaped during ExecuteTemplate above.
		return template.HTML(buf.String()), nil
	}

	return funcs
}

// friendlyTime formats RFC3339 timestamps and time.Time values for display.
func friendlyTime(ts any) string {
	var t0 time.Time
	switch v := ts.(type) {
	case time.Time:
		t0 = v
	case *time.Time:
		if v != nil {
			t0 = *v
		}
	case string:
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return v
		}
		t0 = parsed
	default:
		return ""
	}
	if t0.IsZero() {
		return ""
	}
	return t0.Local().Format("Jan 2, 2006 15:04")
}

// titleCase converts snake_case enum values like "closed_won" to "Closed Won".
func titleCase(s string) string {
	parts := strings.Split(s, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
