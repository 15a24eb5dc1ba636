package restdocs

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Descriptor documents a header or path parameter.
type Descriptor struct {
	Name        string
	Description string
	Optional    bool
}

// Header describes a request or response header.
func Header(name, description string) Descriptor {
	return Descriptor{Name: name, Description: description}
}

// Param describes a path parameter.
func Param(name, description string) Descriptor {
	return Descriptor{Name: name, Description: description}
}

// AsOptional allows the header or parameter to be absent.
func (d Descriptor) AsOptional() Descriptor {
	d.Optional = true
	return d
}

// RequestHeaders documents headers that must be present on the request.
func RequestHeaders(descriptors ...Descriptor) Snippet {
	return snippetFunc{name: "request-headers", render: func(ex *Exchange) (string, error) {
		return renderHeaders(ex.RequestHeader, descriptors)
	}}
}

// ResponseHeaders documents headers that must be present on the response.
func ResponseHeaders(descriptors ...Descriptor) Snippet {
	return snippetFunc{name: "response-headers", render: func(ex *Exchange) (string, error) {
		return renderHeaders(ex.ResponseHeader, descriptors)
	}}
}

func renderHeaders(h http.Header, descriptors []Descriptor) (string, error) {
	var missing []string
	for _, d := range descriptors {
		if h.Get(d.Name) == "" && !d.Optional {
			missing = append(missing, d.Name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("headers with the following names were not found: %s", strings.Join(missing, ", "))
	}

	var b strings.Builder
	b.WriteString("| Name | Description |\n|------|-------------|\n")
	for _, d := range descriptors {
		fmt.Fprintf(&b, "| `%s` | %s |\n", d.Name, escapeCell(d.Description))
	}
	return b.String(), nil
}

// PathParameters documents the parameters of template, e.g. "/books/{isbn}".
// Every parameter in the template must be described and vice versa.
func PathParameters(template string, descriptors ...Descriptor) Snippet {
	return snippetFunc{name: "path-parameters", render: func(ex *Exchange) (string, error) {
		values, err := matchTemplate(template, ex.Path())
		if err != nil {
			return "", err
		}

		described := make(map[string]bool, len(descriptors))
		var missing []string
		for _, d := range descriptors {
			described[d.Name] = true
			if _, ok := values[d.Name]; !ok && !d.Optional {
				missing = append(missing, d.Name)
			}
		}
		var undocumented []string
		for name := range values {
			if !described[name] {
				undocumented = append(undocumented, name)
			}
		}
		sort.Strings(undocumented)
		if len(missing) > 0 || len(undocumented) > 0 {
			return "", fmt.Errorf("path parameters not documented: [%s], documented but not in template: [%s]",
				strings.Join(undocumented, ", "), strings.Join(missing, ", "))
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Table 1. `%s`\n\n", template)
		b.WriteString("| Parameter | Description |\n|-----------|-------------|\n")
		for _, d := range descriptors {
			fmt.Fprintf(&b, "| `%s` | %s |\n", d.Name, escapeCell(d.Description))
		}
		return b.String(), nil
	}}
}

// matchTemplate extracts the {name} segments of template from path.
func matchTemplate(template, path string) (map[string]string, error) {
	tSegs := strings.Split(strings.Trim(template, "/"), "/")
	pSegs := strings.Split(strings.Trim(path, "/"), "/")
	if len(tSegs) != len(pSegs) {
		return nil, fmt.Errorf("path %q does not match template %q", path, template)
	}

	values := make(map[string]string)
	for i, seg := range tSegs {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			values[strings.TrimSuffix(strings.TrimPrefix(seg, "{"), "}")] = pSegs[i]
			continue
		}
		if seg != pSegs[i] {
			return nil, fmt.Errorf("path %q does not match template %q", path, template)
		}
	}
	return values, nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
