package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"

	"github.com/go-viper/mapstructure/v2"

	"github.com/leapstack-labs/dashkit/internal/dataset"
)

var windowPattern = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*[-:,]\s*(-?\d+(?:\.\d+)?)\s*$`)

// ParseWindow parses "LO-HI" (also "LO:HI" or "LO,HI") into a window.
func ParseWindow(s string) (dataset.Window, error) {
	m := windowPattern.FindStringSubmatch(s)
	if m == nil {
		return dataset.Window{}, fmt.Errorf("invalid range %q: want LO-HI", s)
	}
	lo, _ := strconv.ParseFloat(m[1], 64)
	hi, _ := strconv.ParseFloat(m[2], 64)
	if lo > hi {
		return dataset.Window{}, fmt.Errorf("invalid range %q: %s is greater than %s", s, m[1], m[2])
	}
	return dataset.Window{Lo: lo, Hi: hi}, nil
}

// windowHook decodes windows written as "30-60" or [30, 60]. Maps fall
// through to the default struct decoding.
func windowHook() mapstructure.DecodeHookFuncType {
	windowType := reflect.TypeOf(dataset.Window{})
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != windowType {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return ParseWindow(v)
		case []any:
			if len(v) != 2 {
				return nil, fmt.Errorf("invalid range %v: want two values", v)
			}
			lo, err := toFloat(v[0])
			if err != nil {
				return nil, err
			}
			hi, err := toFloat(v[1])
			if err != nil {
				return nil, err
			}
			return ParseWindow(fmt.Sprintf("%s-%s", num(lo), num(hi)))
		default:
			return data, nil
		}
	}
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case float64:
		return x, nil
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		return 0, fmt.Errorf("invalid range bound %v", v)
	}
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
