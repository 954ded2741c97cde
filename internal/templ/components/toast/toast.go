// Package toast renders toast notifications.
//
// Toasts are appended to the #toast-container element of the layouts. A full
// page embeds them directly; htmx responses send them out-of-band with OOB.
// Dismissal is handled by /static/js/app.js through the data-toast attributes.
package toast

import (
	"context"
	"fmt"
	"io"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"

	"github.com/DukeRupert/parkiez/internal/templ/shared"
)

// DefaultAutoDismiss is the number of seconds a toast stays visible.
const DefaultAutoDismiss = 5

const baseClass = "pointer-events-auto flex w-full max-w-sm items-start gap-3 rounded-lg border-l-4 border-gray-400 bg-white p-4 shadow-lg ring-1 ring-black/5"

// Data holds data for rendering a toast notification.
type Data struct {
	Type        string // success, error, warning, info
	Title       string // optional
	Message     string
	AutoDismiss int // seconds, default 5
}

// FromFlash converts a flash message into toast data.
func FromFlash(f *shared.Flash) Data {
	if f == nil {
		return Data{}
	}
	return Data{Type: f.Type, Message: f.Message}
}

func (d Data) withDefaults() Data {
	if d.Type == "" {
		d.Type = shared.FlashInfo
	}
	if d.AutoDismiss <= 0 {
		d.AutoDismiss = DefaultAutoDismiss
	}
	return d
}

// Class returns the container classes for a toast type. The accent border
// overrides the neutral base border.
func Class(kind string) string {
	switch kind {
	case shared.FlashSuccess:
		return twmerge.Merge(baseClass, "border-green-500")
	case shared.FlashError:
		return twmerge.Merge(baseClass, "border-red-500")
	case shared.FlashWarning:
		return twmerge.Merge(baseClass, "border-yellow-500")
	default:
		return twmerge.Merge(baseClass, "border-blue-500")
	}
}

// Toast renders a single toast.
func Toast(d Data) templ.Component {
	d = d.withDefaults()
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		role := "status"
		if d.Type == shared.FlashError {
			role = "alert"
		}
		if _, err := fmt.Fprintf(w, `<div role="%s" data-toast="%s" data-dismiss="%d" class="%s"><div class="flex-1">`,
			role, templ.EscapeString(d.Type), d.AutoDismiss, templ.EscapeString(Class(d.Type))); err != nil {
			return err
		}
		if d.Title != "" {
			if _, err := fmt.Fprintf(w, `<p class="text-sm font-medium text-gray-900">%s</p>`, templ.EscapeString(d.Title)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, `<p class="text-sm text-gray-700">%s</p></div><button type="button" data-toast-close class="text-gray-400 hover:text-gray-600"><span class="sr-only">Close</span><span aria-hidden="true">&times;</span></button></div>`,
			templ.EscapeString(d.Message))
		return err
	})
}

// OOB wraps a toast for an htmx out-of-band swap into #toast-container.
func OOB(d Data) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div hx-swap-oob="beforeend:#toast-container">`); err != nil {
			return err
		}
		if err := Toast(d).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}
