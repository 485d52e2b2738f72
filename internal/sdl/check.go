package sdl

import (
	"errors"
	"fmt"
	"strings"
)

// Check reports declarations whose shape downstream stages cannot handle:
// containers without their nested declaration. Unknown types and absent
// constraints are not errors.
func (s *Schema) Check() error {
	if s == nil || s.Fields == nil {
		return errors.New("schema has no fields mapping")
	}
	var problems []string
	s.Fields.Each(func(name string, f *Field) {
		problems = append(problems, checkField(name, f)...)
	})
	if len(problems) > 0 {
		return fmt.Errorf("invalid schema: %s", strings.Join(problems, "; "))
	}
	return nil
}

func checkField(path string, f *Field) []string {
	if f == nil {
		return []string{path + ": missing declaration"}
	}
	var problems []string
	switch f.Type {
	case TypeArray:
		if f.Items == nil {
			return append(problems, path+": array requires items")
		}
		problems = append(problems, checkField(path+"[]", f.Items)...)
	case TypeRecord:
		if f.Values == nil {
			return append(problems, path+": record requires values")
		}
		problems = append(problems, checkField(path+"{}", f.Values)...)
	case TypeObject:
		if f.Properties == nil {
			return append(problems, path+": object requires properties")
		}
		f.Properties.Each(func(name string, p *Field) {
			problems = append(problems, checkField(path+"."+name, p)...)
		})
	case TypeNumber:
		for _, b := range []struct {
			key string
			v   any
		}{{"min", f.Min}, {"max", f.Max}} {
			if b.v == nil {
				continue
			}
			if _, ok := ToFloat(b.v); !ok {
				problems = append(problems, fmt.Sprintf("%s: %s must be a number", path, b.key))
			}
		}
	}
	return problems
}

// ToFloat converts a decoded numeric value to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
