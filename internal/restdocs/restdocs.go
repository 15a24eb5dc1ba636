// Package restdocs generates API documentation snippets from requests
// executed against an http.Handler in tests.
//
// A test captures an exchange, then documents it:
//
//	ex, err := restdocs.Capture(mux, httptest.NewRequest(http.MethodGet, "/books/0345391802", nil))
//	err = docs.Document("book/get", ex,
//	    restdocs.PathParameters("/books/{isbn}", restdocs.Param("isbn", "The isbn of the book.")),
//	    restdocs.ResponseFields(restdocs.Field("isbn", "The isbn of the book.")),
//	)
//
// Every call writes the curl-request, http-request and http-response
// snippets plus the ones passed in, one Markdown file each, under
// <dir>/<name>/. Describing a header, parameter or field the exchange does
// not contain is an error, and so is leaving a payload field undescribed.
package restdocs

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
)

// Exchange is a captured request and its response.
type Exchange struct {
	Method         string
	Host           string
	RequestURI     string
	RequestHeader  http.Header
	RequestBody    []byte
	StatusCode     int
	ResponseHeader http.Header
	ResponseBody   []byte
}

// Path returns the request path without the query string.
func (ex *Exchange) Path() string {
	path, _, _ := strings.Cut(ex.RequestURI, "?")
	return path
}

// Capture serves req with h and records both sides of the exchange.
func Capture(h http.Handler, req *http.Request) (*Exchange, error) {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		_ = req.Body.Close()
		body = b
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	ex := &Exchange{
		Method:        req.Method,
		Host:          req.Host,
		RequestURI:    req.URL.RequestURI(),
		RequestHeader: req.Header.Clone(),
		RequestBody:   body,
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	res := rec.Result()
	defer res.Body.Close()

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	ex.StatusCode = res.StatusCode
	ex.ResponseHeader = res.Header.Clone()
	ex.ResponseBody = respBody
	return ex, nil
}

// Snippet renders one documentation file for an exchange.
type Snippet interface {
	Name() string
	Render(ex *Exchange) (string, error)
}

// Documenter writes snippets below a root directory.
type Documenter struct {
	dir string
}

func New(dir string) *Documenter {
	return &Documenter{dir: dir}
}

// Dir returns the root output directory.
func (d *Documenter) Dir() string { return d.dir }

// Document renders the default snippets and the given ones for ex and writes
// them to <dir>/<name>/<snippet>.md. Nothing is written if any snippet fails.
func (d *Documenter) Document(name string, ex *Exchange, snippets ...Snippet) error {
	if name == "" {
		return fmt.Errorf("restdocs: empty document name")
	}
	if ex == nil {
		return fmt.Errorf("restdocs: %s: nil exchange", name)
	}

	all := append([]Snippet{CurlRequest(), HTTPRequest(), HTTPResponse()}, snippets...)
	rendered := make(map[string]string, len(all))
	for _, s := range all {
		out, err := s.Render(ex)
		if err != nil {
			return fmt.Errorf("restdocs: %s: %s: %w", name, s.Name(), err)
		}
		rendered[s.Name()] = out
	}

	outDir := filepath.Join(d.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("restdocs: create %s: %w", outDir, err)
	}
	for snippetName, content := range rendered {
		p := filepath.Join(outDir, snippetName+".md")
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			return fmt.Errorf("restdocs: write %s: %w", p, err)
		}
	}
	return nil
}
