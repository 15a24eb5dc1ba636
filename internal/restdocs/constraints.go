package restdocs

import (
	"fmt"
	"reflect"
	"strings"
)

// ConstraintsFor describes the validate tag rules of the struct field whose
// JSON name (or Go name) is field. It returns nil when v is not a struct or
// has no such field.
func ConstraintsFor(v any, field string) []string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		jsonName, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if jsonName != field && f.Name != field {
			continue
		}
		tag := f.Tag.Get("validate")
		if tag == "" {
			return nil
		}
		var out []string
		for _, rule := range strings.Split(tag, ",") {
			if d := describeRule(rule); d != "" {
				out = append(out, d)
			}
		}
		return out
	}
	return nil
}

func describeRule(rule string) string {
	name, param, _ := strings.Cut(rule, "=")
	switch name {
	case "", "omitempty":
		return ""
	case "required":
		return "Must not be null."
	case "notblank":
		return "Must not be blank."
	case "isbn":
		return "Must be a 10 or 13 digit ISBN."
	case "min":
		return fmt.Sprintf("Size must be at least %s.", param)
	case "max":
		return fmt.Sprintf("Size must be at most %s.", param)
	case "len":
		return fmt.Sprintf("Size must be exactly %s.", param)
	case "email":
		return "Must be a well-formed email address."
	default:
		if param != "" {
			return fmt.Sprintf("Must satisfy `%s=%s`.", name, param)
		}
		return fmt.Sprintf("Must satisfy `%s`.", name)
	}
}
