// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/leapstack-labs/dashkit/internal/adapter"
	"github.com/leapstack-labs/dashkit/internal/cache"
	"github.com/leapstack-labs/dashkit/internal/dashboard"
	"github.com/leapstack-labs/dashkit/internal/testutil"
	"github.com/leapstack-labs/dashkit/internal/ui/features/common"
	"github.com/leapstack-labs/dashkit/internal/ui/notifier"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Deps  common.Deps
	Cache *cache.Cache
}

// SetupTestFixture writes the health and sales fixtures to disk and wires
// them through an in-memory DuckDB and a fresh cache.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)

	db := adapter.NewDuckDBAdapter(logger)
	require.NoError(t, db.Connect(context.Background(), adapter.Config{Path: ":memory:"}))
	t.Cleanup(func() { _ = db.Close() })

	paths := common.Paths{
		Health: testutil.WriteCSV(t, "processed_dataset.csv", testutil.HealthCSV),
		Sales:  testutil.WriteCSV(t, "sales.csv", testutil.SalesCSV),
	}
	return newFixture(t, db, paths)
}

// SetupMissingFixture points both dashboards at files that do not exist.
func SetupMissingFixture(t *testing.T) *TestFixture {
	t.Helper()

	db := adapter.NewDuckDBAdapter(testutil.NewTestLogger(t))
	require.NoError(t, db.Connect(context.Background(), adapter.Config{}))
	t.Cleanup(func() { _ = db.Close() })

	dir := t.TempDir()
	return newFixture(t, db, common.Paths{
		Health: filepath.Join(dir, "processed_dataset.csv"),
		Sales:  filepath.Join(dir, "sales.csv"),
	})
}

func newFixture(t *testing.T, db *adapter.DuckDBAdapter, paths common.Paths) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	sales := dashboard.DefaultSalesOptions()
	c := cache.New(adapter.Loader(db, map[string]adapter.ReadOptions{
		paths.Sales: {DateColumns: []string{sales.DateColumn}},
	}), logger)

	return &TestFixture{
		Cache: c,
		Deps: common.Deps{
			Source:        c,
			Paths:         paths,
			HealthOptions: dashboard.DefaultHealthOptions(),
			SalesOptions:  sales,
			Sessions:      NewTestSessionStore(),
			Notifier:      notifier.New(),
			Logger:        logger,
		},
	}
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}

// RequestWithTimeout wraps a request with a context timeout.
func RequestWithTimeout(t *testing.T, r *http.Request, timeout time.Duration) *http.Request {
	t.Helper()
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	t.Cleanup(cancel)
	return r.WithContext(ctx)
}

// ParseHTML parses a response body.
func ParseHTML(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

// ByID returns the element with the given id, or nil.
func ByID(n *html.Node, id string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := ByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// TableRows returns the body rows of the table with the given id as text
// cells, or nil when the table is absent.
func TableRows(doc *html.Node, id string) [][]string {
	table := ByID(doc, id)
	if table == nil {
		return nil
	}
	rows := [][]string{}
	for _, tr := range elements(table, "tr") {
		if tr.Parent == nil || tr.Parent.Data != "tbody" {
			continue
		}
		var cells []string
		for _, td := range elements(tr, "td") {
			cells = append(cells, textOf(td))
		}
		rows = append(rows, cells)
	}
	return rows
}

// Column returns cell i of every row.
func Column(rows [][]string, i int) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r[i])
	}
	return out
}

func elements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
		}
		out = append(out, elements(c, tag)...)
	}
	return out
}

func textOf(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		} else {
			b.WriteString(textOf(c))
		}
	}
	return b.String()
}

// SSEElements returns the markup carried by datastar patch-elements events.
func SSEElements(body string) string {
	var b strings.Builder
	for _, line := range strings.Split(body, "\n") {
		if rest, ok := strings.CutPrefix(line, "data: elements "); ok {
			b.WriteString(rest)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
