package restdocs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// FieldDescriptor documents one field of a JSON payload.
//
// Paths use dotted names with [] for array elements: "isbn", "[].title",
// "error.details[].field".
type FieldDescriptor struct {
	Path        string
	Description string
	Type        string
	Constraints []string
	Optional    bool
}

// Field describes the payload field at path. The type is inferred from the
// payload unless set with OfType.
func Field(path, description string) FieldDescriptor {
	return FieldDescriptor{Path: path, Description: description}
}

func (f FieldDescriptor) OfType(t string) FieldDescriptor {
	f.Type = t
	return f
}

func (f FieldDescriptor) WithConstraints(constraints ...string) FieldDescriptor {
	f.Constraints = append(append([]string(nil), f.Constraints...), constraints...)
	return f
}

// AsOptional allows the field to be absent from the payload.
func (f FieldDescriptor) AsOptional() FieldDescriptor {
	f.Optional = true
	return f
}

// RequestFields documents the fields of the JSON request body.
func RequestFields(descriptors ...FieldDescriptor) Snippet {
	return snippetFunc{name: "request-fields", render: func(ex *Exchange) (string, error) {
		return renderFields(ex.RequestBody, descriptors)
	}}
}

// ResponseFields documents the fields of the JSON response body.
func ResponseFields(descriptors ...FieldDescriptor) Snippet {
	return snippetFunc{name: "response-fields", render: func(ex *Exchange) (string, error) {
		return renderFields(ex.ResponseBody, descriptors)
	}}
}

func renderFields(body []byte, descriptors []FieldDescriptor) (string, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", fmt.Errorf("cannot document fields of an empty payload")
	}
	payload, err := oj.Parse(body)
	if err != nil {
		return "", fmt.Errorf("payload is not valid JSON: %w", err)
	}

	resolved := make([]FieldDescriptor, 0, len(descriptors))
	var missing []string
	for _, d := range descriptors {
		expr, err := jp.ParseString(toJSONPath(d.Path))
		if err != nil {
			return "", fmt.Errorf("invalid field path %q: %w", d.Path, err)
		}
		results := expr.Get(payload)
		if len(results) == 0 {
			if !d.Optional {
				missing = append(missing, d.Path)
			}
			if d.Type == "" {
				d.Type = "Varies"
			}
			resolved = append(resolved, d)
			continue
		}
		if d.Type == "" {
			d.Type = fieldType(results)
		}
		resolved = append(resolved, d)
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("fields with the following paths were not found in the payload: %s", strings.Join(missing, ", "))
	}

	var undocumented []string
	for _, leaf := range leafPaths(payload, "") {
		if !covered(leaf, descriptors) {
			undocumented = append(undocumented, leaf)
		}
	}
	if len(undocumented) > 0 {
		return "", fmt.Errorf("the following parts of the payload were not documented: %s", strings.Join(undocumented, ", "))
	}

	withConstraints := false
	for _, d := range resolved {
		if len(d.Constraints) > 0 {
			withConstraints = true
			break
		}
	}

	var b strings.Builder
	if withConstraints {
		b.WriteString("| Path | Type | Description | Constraints |\n|------|------|-------------|-------------|\n")
	} else {
		b.WriteString("| Path | Type | Description |\n|------|------|-------------|\n")
	}
	for _, d := range resolved {
		if withConstraints {
			fmt.Fprintf(&b, "| `%s` | `%s` | %s | %s |\n", d.Path, d.Type, escapeCell(d.Description), escapeCell(strings.Join(d.Constraints, " ")))
			continue
		}
		fmt.Fprintf(&b, "| `%s` | `%s` | %s |\n", d.Path, d.Type, escapeCell(d.Description))
	}
	return b.String(), nil
}

func toJSONPath(path string) string {
	p := strings.ReplaceAll(path, "[]", "[*]")
	if strings.HasPrefix(p, "[") {
		return "$" + p
	}
	return "$." + p
}

func fieldType(values []any) string {
	t := typeName(values[0])
	for _, v := range values[1:] {
		if typeName(v) != t {
			return "Varies"
		}
	}
	return t
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "Null"
	case string:
		return "String"
	case bool:
		return "Boolean"
	case int64, float64, int, float32:
		return "Number"
	case []any:
		return "Array"
	case map[string]any:
		return "Object"
	default:
		return "Varies"
	}
}

// leafPaths lists every scalar position in v, plus empty arrays and objects.
func leafPaths(v any, prefix string) []string {
	switch t := v.(type) {
	case map[string]any:
		if len(t) == 0 {
			return leafOrNone(prefix)
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []string
		for _, k := range keys {
			p := k
			if prefix != "" {
				p = prefix + "." + k
			}
			out = append(out, leafPaths(t[k], p)...)
		}
		return out
	case []any:
		if len(t) == 0 {
			return leafOrNone(prefix)
		}
		seen := make(map[string]bool)
		var out []string
		for _, e := range t {
			for _, p := range leafPaths(e, prefix+"[]") {
				if !seen[p] {
					seen[p] = true
					out = append(out, p)
				}
			}
		}
		return out
	default:
		return leafOrNone(prefix)
	}
}

func leafOrNone(prefix string) []string {
	if prefix == "" {
		return nil
	}
	return []string{prefix}
}

// covered reports whether leaf is documented directly or through an ancestor.
func covered(leaf string, descriptors []FieldDescriptor) bool {
	for _, d := range descriptors {
		if leaf == d.Path || strings.HasPrefix(leaf, d.Path+".") || strings.HasPrefix(leaf, d.Path+"[") {
			return true
		}
	}
	return false
}
