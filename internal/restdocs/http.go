package restdocs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

type snippetFunc struct {
	name   string
	render func(ex *Exchange) (string, error)
}

func (s snippetFunc) Name() string                        { return s.name }
func (s snippetFunc) Render(ex *Exchange) (string, error) { return s.render(ex) }

// CurlRequest renders the request as a curl command.
func CurlRequest() Snippet {
	return snippetFunc{name: "curl-request", render: func(ex *Exchange) (string, error) {
		var b strings.Builder
		b.WriteString("```bash\n")
		fmt.Fprintf(&b, "$ curl 'http://%s%s' -i -X %s", hostOrDefault(ex.Host), ex.RequestURI, ex.Method)
		for _, name := range sortedKeys(ex.RequestHeader) {
			for _, v := range ex.RequestHeader[name] {
				fmt.Fprintf(&b, " \\\n    -H '%s: %s'", name, v)
			}
		}
		if len(ex.RequestBody) > 0 {
			fmt.Fprintf(&b, " \\\n    -d '%s'", strings.ReplaceAll(string(ex.RequestBody), "'", `'\''`))
		}
		b.WriteString("\n```\n")
		return b.String(), nil
	}}
}

// HTTPRequest renders the raw request.
func HTTPRequest() Snippet {
	return snippetFunc{name: "http-request", render: func(ex *Exchange) (string, error) {
		var b strings.Builder
		b.WriteString("```http\n")
		fmt.Fprintf(&b, "%s %s HTTP/1.1\n", ex.Method, ex.RequestURI)
		writeHeaders(&b, ex.RequestHeader)
		fmt.Fprintf(&b, "Host: %s\n", hostOrDefault(ex.Host))
		writeBody(&b, ex.RequestHeader, ex.RequestBody)
		b.WriteString("```\n")
		return b.String(), nil
	}}
}

// HTTPResponse renders the raw response.
func HTTPResponse() Snippet {
	return snippetFunc{name: "http-response", render: func(ex *Exchange) (string, error) {
		var b strings.Builder
		b.WriteString("```http\n")
		fmt.Fprintf(&b, "HTTP/1.1 %d %s\n", ex.StatusCode, http.StatusText(ex.StatusCode))
		writeHeaders(&b, ex.ResponseHeader)
		writeBody(&b, ex.ResponseHeader, ex.ResponseBody)
		b.WriteString("```\n")
		return b.String(), nil
	}}
}

func hostOrDefault(host string) string {
	if host == "" {
		return "localhost"
	}
	return host
}

func writeHeaders(b *strings.Builder, h http.Header) {
	for _, name := range sortedKeys(h) {
		for _, v := range h[name] {
			fmt.Fprintf(b, "%s: %s\n", name, v)
		}
	}
}

func writeBody(b *strings.Builder, h http.Header, body []byte) {
	if len(body) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(prettyPrint(h, body))
	b.WriteString("\n")
}

// prettyPrint indents JSON bodies and leaves anything else untouched.
func prettyPrint(h http.Header, body []byte) string {
	if !strings.Contains(h.Get("Content-Type"), "json") {
		return strings.TrimRight(string(body), "\n")
	}
	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimSpace(body), "", "  "); err != nil {
		return strings.TrimRight(string(body), "\n")
	}
	return out.String()
}

func sortedKeys(h http.Header) []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
