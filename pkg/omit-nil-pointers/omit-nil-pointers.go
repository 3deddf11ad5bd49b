package omitnilpointers

import (
	"reflect"
	"strings"
)

// OmitNilPointers drops nil values and nil pointers from fields and
// dereferences the remaining pointers.
func OmitNilPointers(fields map[string]any) map[string]any {
	omitted := make(map[string]any, len(fields))
	for key, value := range fields {
		if value == nil {
			continue
		}

		v := reflect.ValueOf(value)
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				continue
			}
			omitted[key] = v.Elem().Interface()
		} else {
			omitted[key] = value
		}
	}

	return omitted
}

// FromStruct flattens the exported fields of a struct into a map keyed by
// their json names and applies OmitNilPointers to the result.
func FromStruct(value any) map[string]any {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return map[string]any{}
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return map[string]any{}
	}

	t := v.Type()
	fields := make(map[string]any, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}

		fields[name] = v.Field(i).Interface()
	}

	return OmitNilPointers(fields)
}
