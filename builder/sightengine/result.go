package sightengine

import (
	"errors"

	"github.com/tidwall/gjson"
)

const StatusSuccess = "success"

type ValueKind int

const (
	KindOther ValueKind = iota
	KindNumber
	KindObject
)

// Value is one node of a classification response: a number, an object of
// further values, or anything else (strings, arrays, booleans, null).
type Value struct {
	res gjson.Result
}

func (v Value) Kind() ValueKind {
	switch {
	case v.res.Type == gjson.Number:
		return KindNumber
	case v.res.IsObject():
		return KindObject
	default:
		return KindOther
	}
}

// Float returns the numeric value, 0 for non numbers.
func (v Value) Float() float64 {
	if v.res.Type != gjson.Number {
		return 0
	}
	return v.res.Num
}

// Get returns the child stored under key. Keys are matched literally,
// dots and wildcards carry no path meaning. A duplicated key resolves to its
// last value, as a decoded JSON map would.
func (v Value) Get(key string) (Value, bool) {
	var (
		found Value
		ok    bool
	)
	if !v.res.IsObject() {
		return found, false
	}
	v.res.ForEach(func(k, child gjson.Result) bool {
		if k.String() == key {
			found, ok = Value{res: child}, true
		}
		return true
	})
	return found, ok
}

// Each calls fn for every member of an object until fn returns false. Members
// come in document order; a duplicated key is visited once, at its first
// position, with its last value.
func (v Value) Each(fn func(key string, child Value) bool) {
	if !v.res.IsObject() {
		return
	}
	var keys []string
	members := make(map[string]gjson.Result)
	v.res.ForEach(func(k, child gjson.Result) bool {
		if _, seen := members[k.String()]; !seen {
			keys = append(keys, k.String())
		}
		members[k.String()] = child
		return true
	})
	for _, k := range keys {
		if !fn(k, Value{res: members[k]}) {
			return
		}
	}
}

func (v Value) Raw() string {
	return v.res.Raw
}

// ClassificationResult is the decoded body of a successful check call, kept verbatim.
type ClassificationResult struct {
	raw  []byte
	root gjson.Result
}

// ParseClassificationResult validates body and wraps it. The body must be a JSON object.
func ParseClassificationResult(body []byte) (*ClassificationResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("invalid json response")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, errors.New("json response is not an object")
	}
	raw := make([]byte, len(body))
	copy(raw, body)
	return &ClassificationResult{raw: raw, root: root}, nil
}

func (r *ClassificationResult) Root() Value {
	return Value{res: r.root}
}

// Get returns the top level entry under key, e.g. "nudity".
func (r *ClassificationResult) Get(key string) (Value, bool) {
	return r.Root().Get(key)
}

func (r *ClassificationResult) Status() string {
	v, ok := r.Get("status")
	if !ok {
		return ""
	}
	return v.res.String()
}

// ErrorMessage returns error.message of a failed call, if present.
func (r *ClassificationResult) ErrorMessage() string {
	errValue, ok := r.Get("error")
	if !ok {
		return ""
	}
	msg, ok := errValue.Get("message")
	if !ok {
		return ""
	}
	return msg.res.String()
}

func (r *ClassificationResult) Raw() []byte {
	return r.raw
}

func (r *ClassificationResult) MarshalJSON() ([]byte, error) {
	return r.raw, nil
}
