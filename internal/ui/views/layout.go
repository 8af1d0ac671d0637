package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/dashkit/internal/ui/resources"
)

// DatastarScript is the client bundle the pages load.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// Layout wraps body in the page shell with navigation.
func Layout(title, currentPath string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title + " - dashkit")
		h.raw(`</title>`)
		h.raw(`<link rel="stylesheet"`)
		h.attr("href", resources.StaticPath("dashkit.css"))
		h.raw(`><script type="module"`)
		h.attr("src", DatastarScript)
		h.raw(`></script></head><body>`)

		h.raw(`<nav class="nav">`)
		for _, link := range []struct{ href, label string }{
			{"/", "Home"},
			{"/health", "Health"},
			{"/sales", "Sales"},
		} {
			h.raw(`<a`)
			h.attr("href", link.href)
			if link.href == currentPath {
				h.raw(` class="active" aria-current="page"`)
			}
			h.raw(`>`)
			h.text(link.label)
			h.raw(`</a>`)
		}
		h.raw(`</nav><div class="page">`)
		h.render(body)
		h.raw(`</div></body></html>`)
		return h.err
	})
}

// IndexCard describes one dashboard on the index page.
type IndexCard struct {
	Title       string
	Href        string
	Description string
	Path        string
	// Status is the dataset shape, or the reason it cannot be loaded.
	Status string
}

// Index lists the dashboards with the state of their data files.
func Index(cards []IndexCard) templ.Component {
	return Layout("Dashboards", "/", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.raw(`<h1>dashkit</h1><ul class="cards">`)
		for _, c := range cards {
			h.raw(`<li><a`)
			h.attr("href", c.Href)
			h.raw(`>`)
			h.text(c.Title)
			h.raw(`</a><p>`)
			h.text(c.Description)
			h.raw(`</p><p class="muted"><code>`)
			h.text(c.Path)
			h.raw(`</code> `)
			h.text(c.Status)
			h.raw(`</p></li>`)
		}
		h.raw(`</ul>`)
		return h.err
	}))
}

// Refresh holds one element that posts to action as soon as the client
// initializes it. Patching it into a page makes the page re-submit its
// current signals.
func Refresh(action string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.raw(`<div hidden`)
		h.attr("data-init", "@post('"+action+"')")
		h.raw(`></div>`)
		return h.err
	})
}
