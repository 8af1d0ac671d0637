package common

import (
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/dashkit/internal/dataset"
)

// SessionName is the cookie holding the last selections.
const SessionName = "dashkit"

// LoadSelection decodes the selection stored under key into v.
// It reports false when there is none.
func LoadSelection(r *http.Request, store sessions.Store, key string, v any) bool {
	if store == nil {
		return false
	}
	s, err := store.Get(r, SessionName)
	if err != nil {
		return false
	}
	raw, ok := s.Values[key].(string)
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), v) == nil
}

// SaveSelection stores v under key. It must run before the response is
// written.
func SaveSelection(w http.ResponseWriter, r *http.Request, store sessions.Store, key string, v any) error {
	if store == nil {
		return nil
	}
	// A cookie that no longer decodes yields a fresh session.
	s, _ := store.Get(r, SessionName)
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.Values[key] = string(b)
	return s.Save(r, w)
}

// HasAny reports whether any of keys is present in q.
func HasAny(q url.Values, keys ...string) bool {
	for _, k := range keys {
		if q.Has(k) {
			return true
		}
	}
	return false
}

// QueryWindow reads prefix_lo and prefix_hi from q. A missing or invalid end
// is left open and gets clamped to the slider bounds later. Nil means
// neither end was given.
func QueryWindow(q url.Values, prefix string) *dataset.Window {
	lo, okLo := parseFloat(q.Get(prefix + "_lo"))
	hi, okHi := parseFloat(q.Get(prefix + "_hi"))
	return window(lo, okLo, hi, okHi)
}

// SignalWindow builds a window from optional signal values.
func SignalWindow(lo, hi *float64) *dataset.Window {
	var l, h float64
	if lo != nil {
		l = *lo
	}
	if hi != nil {
		h = *hi
	}
	return window(l, lo != nil, h, hi != nil)
}

func window(lo float64, okLo bool, hi float64, okHi bool) *dataset.Window {
	if !okLo && !okHi {
		return nil
	}
	if !okLo {
		lo = math.Inf(-1)
	}
	if !okHi {
		hi = math.Inf(1)
	}
	return &dataset.Window{Lo: lo, Hi: hi}
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// SamePath reports whether two paths name the same file location.
func SamePath(a, b string) bool {
	return clean(a) == clean(b)
}

// ChangedPath reports whether any of the changed paths names target.
func ChangedPath(changed []string, target string) bool {
	for _, p := range changed {
		if SamePath(p, target) {
			return true
		}
	}
	return false
}

func clean(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
