package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/DukeRupert/parkiez/internal/csrf"
	"github.com/DukeRupert/parkiez/internal/templ/components/toast"
	"github.com/DukeRupert/parkiez/internal/templ/shared"
)

// TemplateFuncs returns a FuncMap with custom template functions
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"year": func() int {
			return time.Now().Year()
		},

		// String functions
		"lower": func(s string) string {
			return strings.ToLower(s)
		},
		"title": func(v interface{}) string {
			s := fmt.Sprint(v)
			return cases.Title(language.English).String(s)
		},

		// JSON encoding for safe JavaScript embedding
		"json": func(v interface{}) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return template.JS(`""`)
			}
			return template.JS(b)
		},
		// JSON for data-* attributes; html/template escapes the result
		"jsonAttr": func(v interface{}) string {
			b, err := json.Marshal(v)
			if err != nil {
				return "{}"
			}
			return string(b)
		},

		"eq": func(a, b interface{}) bool {
			return a == b
		},
		"dict": func(values ...interface{}) map[string]interface{} {
			if len(values)%2 != 0 {
				return nil
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil
				}
				dict[key] = values[i+1]
			}
			return dict
		},

		// Form helpers
		"csrfField": func(token string) template.HTML {
			return template.HTML(fmt.Sprintf(`<input type="hidden" name="%s" value="%s">`, csrf.FormFieldName, template.HTMLEscapeString(token)))
		},
		"csrfHeaders": func(token string) string {
			b, _ := json.Marshal(map[string]string{csrf.HeaderName: token})
			return string(b)
		},

		// Toast for a flash carried into a full page render
		"toast": renderFlashToast,
	}
}

func renderFlashToast(f *shared.Flash) (template.HTML, error) {
	if f == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := toast.Toast(toast.FromFlash(f)).Render(context.Background(), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
