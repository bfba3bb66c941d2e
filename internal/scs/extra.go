package scs

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"
	"strings"
)

// Extra holds the members of a stored object that its record type does not
// model. They are written back unchanged, after the modelled fields.
type Extra map[string]json.RawMessage

// fieldNames returns the lower-cased JSON member names of struct type v.
func fieldNames(v any) map[string]bool {
	names := make(map[string]bool)
	typ := reflect.TypeOf(v)
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}
		names[strings.ToLower(name)] = true
	}
	return names
}

// unknownMembers collects the members of the object in data whose names are
// not in known. It returns nil when there are none. encoding/json matches
// member names case-insensitively, so known is compared the same way.
func unknownMembers(data []byte, known map[string]bool) (Extra, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}
	var extra Extra
	for name, value := range members {
		if known[strings.ToLower(name)] {
			continue
		}
		if extra == nil {
			extra = make(Extra)
		}
		extra[name] = value
	}
	return extra, nil
}

// marshalWithExtra encodes v, which must encode as a JSON object, and
// appends the members of extra in name order.
func marshalWithExtra(v any, extra Extra) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	buf.Write(data[:len(data)-1])
	for _, name := range names {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(extra[name])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
