package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/leapstack-labs/dashkit/internal/dashboard"
	"github.com/leapstack-labs/dashkit/internal/dataset"
)

func render(t *testing.T, c templ.Component) *html.Node {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := html.Parse(&buf)
	require.NoError(t, err)
	return doc
}

func byID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := byID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func all(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	if n.Type == html.ElementNode && n.Data == tag {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, all(c, tag)...)
	}
	return out
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func healthData() *dataset.Dataset {
	return dataset.New(
		[]dataset.Column{{Name: "name"}, {Name: "age", Type: dataset.TypeNumeric}},
		[]dataset.Row{{"Ann <script>", int64(29)}, {"Bob", int64(30)}, {"Dee", int64(60)}},
	)
}

func TestDataTable(t *testing.T) {
	doc := render(t, DataTable("t", healthData()))

	table := byID(doc, "t")
	require.NotNil(t, table)
	assert.Len(t, all(table, "th"), 2)
	assert.Len(t, all(table, "tr"), 4, "header plus three rows")
	assert.Equal(t, "Ann <script>", text(all(table, "td")[0]), "cell text is escaped, not markup")
	assert.Equal(t, "3 rows", text(all(table, "caption")[0]))
}

func TestHealthPage(t *testing.T) {
	v, err := dashboard.Health(healthData(), dashboard.HealthParams{Search: "bob"}, dashboard.DefaultHealthOptions())
	require.NoError(t, err)

	doc := render(t, HealthPage(v))

	assert.Equal(t, "Stakeholder Dashboard - dashkit", text(all(doc, "title")[0]))
	require.NotNil(t, byID(doc, HealthContentID))
	require.NotNil(t, byID(doc, HealthRefreshID))
	assert.Len(t, all(byID(doc, "search-table"), "tr"), 2)
	assert.Len(t, all(byID(doc, "age-table"), "tr"), 3)

	wrapper := byID(doc, HealthRefreshID).Parent
	assert.Equal(t, "@get('/health/updates')", attr(wrapper, "data-init"))
	assert.JSONEq(t, `{"search":"bob","ageLo":30,"ageHi":60}`, attr(wrapper, "data-signals"))
}

func TestHealthContent_Warning(t *testing.T) {
	v, err := dashboard.Health(dataset.Empty(), dashboard.HealthParams{}, dashboard.DefaultHealthOptions())
	require.NoError(t, err)
	v.Error = dashboard.MsgProcessedMissing

	doc := render(t, HealthContent(v))

	assert.Empty(t, all(doc, "table"))
	body := text(doc)
	assert.Contains(t, body, dashboard.MsgProcessedMissing)
	assert.Contains(t, body, dashboard.MsgNoData)
}

func TestSalesPage(t *testing.T) {
	ds := dataset.New(
		[]dataset.Column{
			{Name: "date", Type: dataset.TypeDate},
			{Name: "region"},
			{Name: "product"},
			{Name: "units_sold", Type: dataset.TypeNumeric},
			{Name: "revenue", Type: dataset.TypeNumeric},
		},
		[]dataset.Row{
			{nil, "West", "Widget", int64(10), int64(5)},
			{nil, "East", "Gadget", int64(20), int64(7)},
		},
	)
	v, err := dashboard.Sales(ds, dashboard.SalesParams{Region: "West"}, dashboard.DefaultSalesOptions())
	require.NoError(t, err)

	doc := render(t, SalesPage(v, `<svg id="chart"></svg>`))

	selects := all(doc, "select")
	require.Len(t, selects, 2)
	var selected []string
	for _, o := range all(selects[0], "option") {
		for _, a := range o.Attr {
			if a.Key == "selected" {
				selected = append(selected, attr(o, "value"))
			}
		}
	}
	assert.Equal(t, []string{"West"}, selected)
	assert.Len(t, all(selects[0], "option"), 3, "All plus two regions")
	assert.Len(t, all(selects[1], "option"), 2, "All plus the products left in West")
	assert.NotNil(t, byID(doc, "chart"))
	assert.Len(t, all(byID(doc, "sales-table"), "tr"), 2)
}

func TestSalesContent_NoChart(t *testing.T) {
	v := &dashboard.SalesView{Title: "Sales", Results: dataset.Empty()}

	doc := render(t, SalesContent(v, ""))

	assert.Contains(t, text(byID(doc, "revenue-chart")), "No revenue to chart.")
}

func TestIndex(t *testing.T) {
	doc := render(t, Index([]IndexCard{
		{Title: "Health", Href: "/health", Path: "data/processed_dataset.csv", Status: "(5, 3)"},
		{Title: "Sales", Href: "/sales", Path: "sales.csv", Status: "not found"},
	}))

	var hrefs []string
	for _, a := range all(doc, "a") {
		hrefs = append(hrefs, attr(a, "href"))
	}
	assert.Contains(t, hrefs, "/health")
	assert.Contains(t, hrefs, "/sales")
	assert.Contains(t, text(doc), "(5, 3)")
}
