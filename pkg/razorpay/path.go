package razorpay

import (
	"encoding/json"
	"strings"
)

// Value is the result of an optional path lookup into decoded JSON. The zero
// Value is absent; JSON null is also reported as absent.
type Value struct {
	v       interface{}
	present bool
}

// Lookup walks object keys from root. Any missing key, null, or non-object
// intermediate yields an absent Value instead of an error.
func Lookup(root interface{}, path ...string) Value {
	cur := root
	for _, key := range path {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return Value{}
		}
		next, ok := obj[key]
		if !ok {
			return Value{}
		}
		cur = next
	}
	if cur == nil {
		return Value{}
	}
	return Value{v: cur, present: true}
}

func (v Value) Present() bool {
	return v.present
}

func (v Value) Object() (map[string]interface{}, bool) {
	obj, ok := v.v.(map[string]interface{})
	return obj, ok
}

// String accepts JSON strings and numbers. Numbers keep their literal text,
// so an id sent as 12345 reads back as "12345". Blank strings are absent.
func (v Value) String() (string, bool) {
	switch x := v.v.(type) {
	case string:
		s := strings.TrimSpace(x)
		return s, s != ""
	case json.Number:
		return x.String(), true
	}
	return "", false
}

// Int64 accepts integral JSON numbers.
func (v Value) Int64() (int64, bool) {
	n, ok := v.v.(json.Number)
	if !ok {
		return 0, false
	}
	i, err := n.Int64()
	return i, err == nil
}
