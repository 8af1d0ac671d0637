package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/dashkit/internal/dataset"
)

// DataTable renders ds as an HTML table with a row count caption.
func DataTable(id string, ds *dataset.Dataset) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		if ds == nil {
			ds = dataset.Empty()
		}

		h.raw(`<div class="table-wrap"><table`)
		h.attr("id", id)
		h.raw(`><caption>`)
		h.text(strconv.Itoa(ds.Len()) + " rows")
		h.raw(`</caption><thead><tr>`)
		for _, c := range ds.Columns() {
			h.raw(`<th`)
			h.attr("data-type", string(c.Type))
			h.raw(`>`)
			h.text(c.Name)
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, r := range ds.Rows() {
			h.raw(`<tr>`)
			for _, v := range r {
				h.raw(`<td>`)
				h.text(dataset.Format(v))
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table></div>`)
		return h.err
	})
}

// alert renders an error or warning paragraph when msg is set.
func alert(h *htmlWriter, class, msg string) {
	if msg == "" {
		return
	}
	h.raw(`<p`)
	h.attr("class", class)
	h.raw(` role="alert">`)
	h.text(msg)
	h.raw(`</p>`)
}

// rangeInputs renders a slider as two bounded number inputs.
func rangeInputs(h *htmlWriter, legend, name, signal, action string, bounds, window dataset.Window) {
	h.raw(`<fieldset class="range"><legend>`)
	h.text(legend)
	h.raw(`</legend>`)
	for _, end := range []struct {
		suffix, signal string
		value          float64
	}{
		{"_lo", signal + "-lo", window.Lo},
		{"_hi", signal + "-hi", window.Hi},
	} {
		h.raw(`<input type="number" step="1"`)
		h.attr("name", name+end.suffix)
		h.attr("min", num(bounds.Lo))
		h.attr("max", num(bounds.Hi))
		h.attr("value", num(end.value))
		h.raw(` data-bind:` + end.signal)
		h.attr("data-on:change", "@post('"+action+"')")
		h.raw(`>`)
	}
	h.raw(`</fieldset>`)
}

// selectBox renders a select with options, marking selected.
func selectBox(h *htmlWriter, label, name, action string, options []string, selected string) {
	h.raw(`<label>`)
	h.text(label)
	h.raw(`<select`)
	h.attr("name", name)
	h.raw(` data-bind:` + name)
	h.attr("data-on:change", "@post('"+action+"')")
	h.raw(`>`)
	for _, o := range options {
		h.raw(`<option`)
		h.attr("value", o)
		if o == selected {
			h.raw(` selected`)
		}
		h.raw(`>`)
		h.text(o)
		h.raw(`</option>`)
	}
	h.raw(`</select></label>`)
}

// searchInput renders a debounced text input bound to signal name.
func searchInput(h *htmlWriter, label, name, action, value string) {
	h.raw(`<label>`)
	h.text(label)
	h.raw(`<input type="search"`)
	h.attr("name", name)
	h.attr("value", value)
	h.raw(` data-bind:` + name)
	h.attr("data-on:input__debounce.300ms", "@post('"+action+"')")
	h.raw(`></label>`)
}
