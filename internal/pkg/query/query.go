// Package query builds URL query strings that keep the order parameters were
// added in and skip values that were never provided.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

type pair struct {
	key   string
	value string
}

// Values is an ordered list of query parameters. The zero value is ready to use.
type Values struct {
	pairs []pair
}

// New returns an empty Values.
func New() *Values {
	return &Values{}
}

// Set appends key=value. Empty strings are treated as not provided.
func (v *Values) Set(key, value string) *Values {
	if value == "" {
		return v
	}
	v.pairs = append(v.pairs, pair{key: key, value: value})
	return v
}

// SetInt appends key=value when value is non-nil. A pointer to zero is kept.
func (v *Values) SetInt(key string, value *int) *Values {
	if value == nil {
		return v
	}
	v.pairs = append(v.pairs, pair{key: key, value: strconv.Itoa(*value)})
	return v
}

// SetBool appends key=true|false when value is non-nil.
func (v *Values) SetBool(key string, value *bool) *Values {
	if value == nil {
		return v
	}
	v.pairs = append(v.pairs, pair{key: key, value: strconv.FormatBool(*value)})
	return v
}

// Len reports the number of parameters.
func (v *Values) Len() int {
	if v == nil {
		return 0
	}
	return len(v.pairs)
}

// Get returns the first value stored for key.
func (v *Values) Get(key string) (string, bool) {
	if v == nil {
		return "", false
	}
	for _, p := range v.pairs {
		if p.key == key {
			return p.value, true
		}
	}
	return "", false
}

// Encode renders the parameters in insertion order, escaping keys and values.
func (v *Values) Encode() string {
	if v.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range v.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

// AppendTo returns path with the encoded query attached.
func (v *Values) AppendTo(path string) string {
	qs := v.Encode()
	if qs == "" {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&" + qs
	}
	return path + "?" + qs
}
