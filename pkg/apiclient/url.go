package apiclient

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// Query is an insertion-ordered set of query parameters. Values may be
// scalars (set once) or slices/arrays (one occurrence per element). Nil
// values are skipped when the URL is built.
type Query struct {
	keys   []string
	values map[string]any
}

func NewQuery() *Query {
	return &Query{values: make(map[string]any)}
}

// Set stores value under key. Setting an existing key replaces its value
// but keeps its original position.
func (q *Query) Set(key string, value any) *Query {
	if q.values == nil {
		q.values = make(map[string]any)
	}
	if _, ok := q.values[key]; !ok {
		q.keys = append(q.keys, key)
	}
	q.values[key] = value
	return q
}

// Get returns the raw value stored under key.
func (q *Query) Get(key string) (any, bool) {
	if q == nil {
		return nil, false
	}
	v, ok := q.values[key]
	return v, ok
}

// Len returns the number of keys, including ones holding nil.
func (q *Query) Len() int {
	if q == nil {
		return 0
	}
	return len(q.keys)
}

// param is one key=value occurrence. raw holds the original text of an
// occurrence parsed from the path and is written back untouched.
type param struct {
	key, value string
	raw        string
}

// BuildURL joins path onto base and applies q.
//
// A path that already carries a scheme is used verbatim. Otherwise trailing
// slashes are stripped from base and exactly one slash separates it from
// path. Scalar query values replace any existing occurrence of their key;
// slice values append one occurrence per element.
func BuildURL(base, path string, q *Query) string {
	target := path
	if !schemePattern.MatchString(path) {
		target = strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	}
	if q.Len() == 0 {
		return target
	}

	target, fragment, hasFragment := strings.Cut(target, "#")
	target, rawQuery, _ := strings.Cut(target, "?")
	params := parseParams(rawQuery)

	for _, key := range q.keys {
		value := q.values[key]
		if isNil(value) {
			continue
		}
		if items, ok := listValues(value); ok {
			for _, item := range items {
				if isNil(item) {
					continue
				}
				params = append(params, param{key: key, value: formatValue(item)})
			}
			continue
		}
		params = setParam(params, key, formatValue(value))
	}

	if encoded := encodeParams(params); encoded != "" {
		target += "?" + encoded
	}
	if hasFragment {
		target += "#" + fragment
	}
	return target
}

func parseParams(raw string) []param {
	if raw == "" {
		return nil
	}
	var params []param
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		params = append(params, param{key: unescape(k), value: unescape(v), raw: part})
	}
	return params
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

// setParam replaces the first occurrence of key in place and drops the rest,
// or appends when key is absent.
func setParam(params []param, key, value string) []param {
	out := params[:0]
	found := false
	for _, p := range params {
		if p.key != key {
			out = append(out, p)
			continue
		}
		if !found {
			out = append(out, param{key: key, value: value})
			found = true
		}
	}
	if !found {
		out = append(out, param{key: key, value: value})
	}
	return out
}

func encodeParams(params []param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		if p.raw != "" {
			b.WriteString(p.raw)
			continue
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func listValues(v any) ([]any, bool) {
	if _, ok := v.([]byte); ok {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func formatValue(v any) string {
	for {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer {
			break
		}
		if rv.IsNil() {
			return ""
		}
		v = rv.Elem().Interface()
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
