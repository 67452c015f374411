package logging

import (
	"fmt"
	"reflect"
)

// Maximum recursion depth to prevent runaway dumps.
const maxDumpDepth = 6

// Dump logs the contents of v at Debug level, one line per leaf value.
// Structs list their exported fields, maps and slices their elements.
// It is used to record each applied configuration in full.
func (s *Service) Dump(v interface{}) {
	if s == nil || !s.isConfigured.Load() {
		return
	}
	s.dumpValue(v, "", 0)
}

func (s *Service) dumpValue(v interface{}, prefix string, depth int) {
	if depth > maxDumpDepth {
		s.DebugWith().Msgf("%s: <max depth reached>", prefix)
		return
	}
	if v == nil {
		s.DebugWith().Msgf("%s: <nil>", prefix)
		return
	}

	val := reflect.ValueOf(v)
	for val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface {
		if val.IsNil() {
			s.DebugWith().Msgf("%s: <nil>", prefix)
			return
		}
		val = val.Elem()
	}
	typ := val.Type()

	switch val.Kind() {
	case reflect.Struct:
		if prefix == emptyString {
			s.DebugWith().Msgf("Struct: %s", typ.Name())
		} else {
			s.DebugWith().Msgf("%s: %s", prefix, typ.Name())
		}
		for i := 0; i < val.NumField(); i++ {
			fieldVal := val.Field(i)
			if !fieldVal.CanInterface() {
				continue
			}
			name := typ.Field(i).Name
			if prefix != emptyString {
				name = prefix + "." + name
			}
			s.dumpValue(fieldVal.Interface(), name, depth+1)
		}

	case reflect.Map:
		s.DebugWith().Msgf("%s: %s (len: %d)", prefix, typ.String(), val.Len())
		iter := val.MapRange()
		for iter.Next() {
			key := fmt.Sprintf("%s[%v]", prefix, iter.Key().Interface())
			s.dumpValue(iter.Value().Interface(), key, depth+1)
		}

	case reflect.Slice, reflect.Array:
		s.DebugWith().Msgf("%s: %s (len: %d)", prefix, typ.String(), val.Len())
		const maxElements = 10
		for i := 0; i < val.Len() && i < maxElements; i++ {
			s.dumpValue(val.Index(i).Interface(), fmt.Sprintf("%s[%d]", prefix, i), depth+1)
		}
		if val.Len() > maxElements {
			s.DebugWith().Msgf("%s: ... (%d more elements)", prefix, val.Len()-maxElements)
		}

	default:
		s.DebugWith().Msgf("%s: %v", prefix, v)
	}
}
