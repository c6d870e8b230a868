// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

package schema

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirosfoundation/go-isds/pkg/isdserr"
)

// Wire is a deserialized SOAP element: leaves are strings, nested elements
// are Wire values and repeated elements are []any.
type Wire = map[string]any

// SequenceKey is the key under which the remote API nests anonymous
// sequences (the records of dmRecords/dbResults) and the text of elements
// that also carry attributes.
const SequenceKey = "_value_1"

// wireDecoder is implemented by leaf types with their own wire syntax
// (enumerations, dates).
type wireDecoder interface {
	decodeWire(s string) error
}

// wireEncoder is the encoding counterpart of wireDecoder.
type wireEncoder interface {
	encodeWire() string
}

var decoderType = reflect.TypeOf((*wireDecoder)(nil)).Elem()

type field struct {
	index    int
	name     string
	wire     string
	required bool
	status   bool
}

var fieldCache sync.Map // reflect.Type -> []field

// fieldsOf returns the tagged fields of a struct type in declaration order.
// Tag syntax: `isds:"wireName[,required][,status]"`.
func fieldsOf(t reflect.Type) []field {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]field)
	}

	var fields []field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup("isds")
		if !ok || tag == "-" || !sf.IsExported() {
			continue
		}
		parts := strings.Split(tag, ",")
		f := field{index: i, name: sf.Name, wire: parts[0]}
		for _, opt := range parts[1:] {
			switch opt {
			case "required":
				f.required = true
			case "status":
				f.status = true
			}
		}
		fields = append(fields, f)
	}

	fieldCache.Store(t, fields)
	return fields
}

// Alias pairs a Go field with its wire name.
type Alias struct {
	Field    string
	Wire     string
	Required bool
}

// AliasTable is the bidirectional field/wire name mapping of one record type.
type AliasTable []Alias

// Aliases returns the alias table of a record value or pointer.
func Aliases(v any) AliasTable {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	fields := fieldsOf(t)
	table := make(AliasTable, len(fields))
	for i, f := range fields {
		table[i] = Alias{Field: f.name, Wire: f.wire, Required: f.required}
	}
	return table
}

// Wire returns the wire name of a Go field.
func (t AliasTable) Wire(field string) (string, bool) {
	for _, a := range t {
		if a.Field == field {
			return a.Wire, true
		}
	}
	return "", false
}

// Field returns the Go field name of a wire name.
func (t AliasTable) Field(wire string) (string, bool) {
	for _, a := range t {
		if a.Wire == wire {
			return a.Field, true
		}
	}
	return "", false
}

// Decode validates raw against the schema of out (a pointer to a record)
// and fills it. Errors are *isdserr.SchemaError.
func Decode(raw any, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("schema: Decode requires a non-nil pointer, got %T", out)
	}
	return decodeValue("", raw, rv.Elem())
}

func decodeValue(path string, raw any, v reflect.Value) error {
	if v.CanAddr() && v.Addr().Type().Implements(decoderType) {
		s, err := leafString(path, raw)
		if err != nil {
			return err
		}
		if err := v.Addr().Interface().(wireDecoder).decodeWire(s); err != nil {
			return isdserr.Invalid(path, "%v", err)
		}
		return nil
	}

	switch v.Kind() {
	case reflect.Pointer:
		if isAbsent(raw, v.Type().Elem()) {
			v.SetZero()
			return nil
		}
		elem := reflect.New(v.Type().Elem())
		if err := decodeValue(path, raw, elem.Elem()); err != nil {
			return err
		}
		v.Set(elem)
		return nil

	case reflect.Struct:
		return decodeStruct(path, raw, v)

	case reflect.Slice:
		var items []any
		switch r := raw.(type) {
		case nil:
		case []any:
			items = r
		default:
			// A single occurrence of a repeated element is not wrapped in a list
			items = []any{r}
		}
		s := reflect.MakeSlice(v.Type(), len(items), len(items))
		for i, item := range items {
			if err := decodeValue(fmt.Sprintf("%s[%d]", path, i), item, s.Index(i)); err != nil {
				return err
			}
		}
		v.Set(s)
		return nil

	case reflect.String:
		s, err := leafString(path, raw)
		if err != nil {
			return err
		}
		v.SetString(s)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		s, err := leafString(path, raw)
		if err != nil {
			return err
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil || v.OverflowInt(n) {
			return isdserr.Invalid(path, "invalid integer %q", s)
		}
		v.SetInt(n)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		s, err := leafString(path, raw)
		if err != nil {
			return err
		}
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		if err != nil || v.OverflowUint(n) {
			return isdserr.Invalid(path, "invalid non-negative integer %q", s)
		}
		v.SetUint(n)
		return nil

	case reflect.Bool:
		s, err := leafString(path, raw)
		if err != nil {
			return err
		}
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return isdserr.Invalid(path, "invalid boolean %q", s)
		}
		v.SetBool(b)
		return nil
	}

	return isdserr.Invalid(path, "unsupported field type %s", v.Type())
}

func decodeStruct(path string, raw any, v reflect.Value) error {
	m, ok := raw.(map[string]any)
	if !ok {
		return isdserr.Invalid(path, "expected an element, got %s", describe(raw))
	}

	v.SetZero()
	for _, f := range fieldsOf(v.Type()) {
		fp := joinPath(path, f.wire)
		val, present := m[f.wire]
		ft := v.Field(f.index).Type()
		if !present || isAbsent(val, ft) || (!f.required && isEmptyLeaf(val, ft)) {
			if f.required {
				return isdserr.Missing(fp)
			}
			continue
		}
		if err := decodeValue(fp, val, v.Field(f.index)); err != nil {
			return err
		}
	}
	return nil
}

// isAbsent treats null values, and empty elements standing in for records,
// as missing.
func isAbsent(raw any, t reflect.Type) bool {
	if raw == nil {
		return true
	}
	s, ok := raw.(string)
	if !ok || s != "" {
		return false
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if reflect.PointerTo(t).Implements(decoderType) {
		return false
	}
	return t.Kind() == reflect.Struct || t.Kind() == reflect.Slice
}

// isEmptyLeaf reports an empty element standing in for a typed leaf. Plain
// strings keep the empty value.
func isEmptyLeaf(raw any, t reflect.Type) bool {
	if s, ok := raw.(string); !ok || s != "" {
		return false
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() != reflect.String || reflect.PointerTo(t).Implements(decoderType)
}

func leafString(path string, raw any) (string, error) {
	switch r := raw.(type) {
	case string:
		return r, nil
	case bool:
		return strconv.FormatBool(r), nil
	case int:
		return strconv.Itoa(r), nil
	case int64:
		return strconv.FormatInt(r, 10), nil
	case float64:
		if r == math.Trunc(r) && !math.IsInf(r, 0) {
			return strconv.FormatInt(int64(r), 10), nil
		}
		return strconv.FormatFloat(r, 'f', -1, 64), nil
	case time.Time:
		return r.Format(time.RFC3339Nano), nil
	}
	return "", isdserr.Invalid(path, "expected a value, got %s", describe(raw))
}

func describe(raw any) string {
	switch raw.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an element"
	case []any:
		return "a list"
	case string:
		return "text"
	}
	return fmt.Sprintf("%T", raw)
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// Field is one encoded wire field, in schema declaration order. Value is a
// string, a []Field for nested records, or a []any for repeated elements.
type Field struct {
	Wire  string
	Value any
}

// EncodeFields encodes a record to its ordered wire fields. Absent optional
// fields are omitted.
func EncodeFields(v any) []Field {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	return encodeStruct(rv)
}

// Encode encodes a record back to its wire form. For every value x in
// canonical wire form, Encode(Decode(x)) equals x.
func Encode(v any) Wire {
	fields := EncodeFields(v)
	if fields == nil {
		return nil
	}
	return fieldsToWire(fields)
}

func fieldsToWire(fields []Field) Wire {
	m := make(Wire, len(fields))
	for _, f := range fields {
		m[f.Wire] = toWire(f.Value)
	}
	return m
}

func toWire(v any) any {
	switch val := v.(type) {
	case []Field:
		return fieldsToWire(val)
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = toWire(item)
		}
		return items
	}
	return v
}

func encodeStruct(v reflect.Value) []Field {
	fields := fieldsOf(v.Type())
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		val, ok := encodeValue(v.Field(f.index))
		if !ok {
			continue
		}
		out = append(out, Field{Wire: f.wire, Value: val})
	}
	return out
}

func encodeValue(v reflect.Value) (any, bool) {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return nil, false
		}
		return encodeValue(v.Elem())
	case reflect.Slice:
		if v.IsNil() {
			return nil, false
		}
	}

	if enc, ok := v.Interface().(wireEncoder); ok {
		return enc.encodeWire(), true
	}

	switch v.Kind() {
	case reflect.Struct:
		return encodeStruct(v), true
	case reflect.Slice:
		items := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			item, ok := encodeValue(v.Index(i))
			if !ok {
				item = nil
			}
			items = append(items, item)
		}
		return items, true
	case reflect.String:
		return v.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true
	}
	return nil, false
}
