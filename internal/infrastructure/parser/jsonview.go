package parser

import (
	"strconv"

	"github.com/tidwall/gjson"
)

// view is a read-only accessor over a decoded JSON value. Every lookup names
// its default, so absent or mistyped fields never surface as errors.
type view struct {
	r gjson.Result
}

// list returns at most limit elements of the array under key, or nil when
// the field is absent or not an array.
func (v view) list(key string, limit int) []view {
	r := v.r.Get(key)
	if !r.IsArray() {
		return nil
	}

	items := r.Array()
	if len(items) > limit {
		items = items[:limit]
	}

	out := make([]view, len(items))
	for i, item := range items {
		out[i] = view{item}
	}
	return out
}

func (v view) lookupStr(key string) (string, bool) {
	r := v.r.Get(key)
	if r.Type != gjson.String {
		return "", false
	}
	return r.Str, true
}

func (v view) str(key, def string) string {
	if s, ok := v.lookupStr(key); ok {
		return s
	}
	return def
}

// num accepts integral JSON numbers only; fractions and exponents fall back to def.
func (v view) num(key string, def int64) int64 {
	r := v.r.Get(key)
	if r.Type != gjson.Number {
		return def
	}
	n, err := strconv.ParseInt(r.Raw, 10, 64)
	if err != nil {
		return def
	}
	return n
}
