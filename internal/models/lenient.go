package models

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"
)

var (
	timeType        = reflect.TypeOf(time.Time{})
	unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
)

// DecodeLenient decodes the JSON object data into the struct pointed to by
// v. Well-formed input decodes exactly as with json.Unmarshal. Otherwise
// the object is decoded key by key: a numeric string fills a number field,
// a millisecond epoch fills a time, and any other value that does not fit
// leaves its field zero. Array items that do not fit are dropped. The only
// error is data that is not a JSON object.
func DecodeLenient(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err == nil {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	rv := reflect.ValueOf(v).Elem()
	rv.SetZero()
	fillStruct(rv, obj)
	return nil
}

func fillStruct(rv reflect.Value, obj map[string]json.RawMessage) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch {
		case name == "-":
			continue
		case f.Anonymous && name == "" && f.Type.Kind() == reflect.Struct:
			fillStruct(rv.Field(i), obj)
			continue
		case !f.IsExported():
			continue
		case name == "":
			name = f.Name
		}
		if raw, ok := lookupKey(obj, name); ok {
			setLenient(rv.Field(i), raw)
		}
	}
}

// lookupKey matches keys the way encoding/json does: exact first, then
// case-insensitively.
func lookupKey(obj map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if raw, ok := obj[name]; ok {
		return raw, true
	}
	for k, raw := range obj {
		if strings.EqualFold(k, name) {
			return raw, true
		}
	}
	return nil, false
}

// setLenient stores raw into dst and reports whether anything usable was
// found. dst is left untouched on false.
func setLenient(dst reflect.Value, raw json.RawMessage) bool {
	p := reflect.New(dst.Type())
	if json.Unmarshal(raw, p.Interface()) == nil {
		dst.Set(p.Elem())
		return true
	}

	t := dst.Type()
	switch {
	case t.Kind() == reflect.Pointer:
		elem := reflect.New(t.Elem())
		if !setLenient(elem.Elem(), raw) {
			return false
		}
		dst.Set(elem)
		return true
	case t == timeType:
		var ms float64
		if json.Unmarshal(raw, &ms) != nil {
			return false
		}
		dst.Set(reflect.ValueOf(time.UnixMilli(int64(ms)).UTC()))
		return true
	case isNumberKind(t.Kind()):
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return false
		}
		s = strings.TrimSpace(s)
		if s == "" || s == "null" {
			return false
		}
		n := reflect.New(t)
		if json.Unmarshal([]byte(s), n.Interface()) != nil {
			return false
		}
		dst.Set(n.Elem())
		return true
	case t.Kind() == reflect.Struct:
		if reflect.PointerTo(t).Implements(unmarshalerType) {
			return false
		}
		var obj map[string]json.RawMessage
		if json.Unmarshal(raw, &obj) != nil || obj == nil {
			return false
		}
		v := reflect.New(t).Elem()
		fillStruct(v, obj)
		dst.Set(v)
		return true
	case t.Kind() == reflect.Slice:
		var items []json.RawMessage
		if json.Unmarshal(raw, &items) != nil {
			return false
		}
		out := reflect.MakeSlice(t, 0, len(items))
		for _, item := range items {
			v := reflect.New(t.Elem()).Elem()
			if setLenient(v, item) {
				out = reflect.Append(out, v)
			}
		}
		dst.Set(out)
		return true
	}
	return false
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
