package restdocs

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widgetInsert struct {
	ID    string `json:"id" validate:"required,min=3"`
	Label string `json:"label" validate:"required,notblank"`
	Note  string `json:"note,omitempty" validate:"omitempty,max=20"`
	Plain string `json:"plain"`
}

func widgetMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /widgets", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":"w-1","label":"first","tags":["a"]},{"id":"w-2","label":"second","tags":[]}]`)
	})
	mux.HandleFunc("GET /widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": r.PathValue("id"), "label": "first", "count": 3, "active": true})
	})
	mux.HandleFunc("POST /widgets", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(body)
	})
	mux.HandleFunc("DELETE /widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func readSnippet(t *testing.T, dir, name, snippet string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, name, snippet+".md"))
	require.NoError(t, err)
	return string(b)
}

func TestCapture(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/widgets", strings.NewReader(`{"id":"w-9","label":"ninth"}`))
	req.Header.Set("Content-Type", "application/json")

	ex, err := Capture(widgetMux(), req)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, ex.Method)
	assert.Equal(t, "/widgets", ex.Path())
	assert.Equal(t, `{"id":"w-9","label":"ninth"}`, string(ex.RequestBody))
	assert.Equal(t, http.StatusCreated, ex.StatusCode)
	assert.Equal(t, "application/json", ex.ResponseHeader.Get("Content-Type"))
	assert.JSONEq(t, `{"id":"w-9","label":"ninth"}`, string(ex.ResponseBody))
}

func TestDocumenter_DefaultSnippets(t *testing.T) {
	dir := t.TempDir()
	docs := New(dir)

	req := httptest.NewRequest(http.MethodPost, "/widgets", strings.NewReader(`{"id":"w-9","label":"it's"}`))
	req.Header.Set("Content-Type", "application/json")
	ex, err := Capture(widgetMux(), req)
	require.NoError(t, err)

	require.NoError(t, docs.Document("widget/insert", ex))

	curl := readSnippet(t, dir, "widget/insert", "curl-request")
	assert.Contains(t, curl, "$ curl 'http://example.com/widgets' -i -X POST")
	assert.Contains(t, curl, "-H 'Content-Type: application/json'")
	assert.Contains(t, curl, `-d '{"id":"w-9","label":"it'\''s"}'`)

	httpReq := readSnippet(t, dir, "widget/insert", "http-request")
	assert.Contains(t, httpReq, "POST /widgets HTTP/1.1\n")
	assert.Contains(t, httpReq, "Host: example.com\n")
	assert.Contains(t, httpReq, "{\n  \"id\": \"w-9\",")

	httpResp := readSnippet(t, dir, "widget/insert", "http-response")
	assert.Contains(t, httpResp, "HTTP/1.1 201 Created\n")
	assert.Contains(t, httpResp, "Content-Type: application/json\n")
}

func TestDocumenter_Validation(t *testing.T) {
	docs := New(t.TempDir())
	ex, err := Capture(widgetMux(), httptest.NewRequest(http.MethodGet, "/widgets", nil))
	require.NoError(t, err)

	assert.Error(t, docs.Document("", ex))
	assert.Error(t, docs.Document("widget/list", nil))
}

func TestDocumenter_FailedSnippetWritesNothing(t *testing.T) {
	dir := t.TempDir()
	docs := New(dir)
	ex, err := Capture(widgetMux(), httptest.NewRequest(http.MethodGet, "/widgets", nil))
	require.NoError(t, err)

	err = docs.Document("widget/list", ex, ResponseFields(Field("[].id", "Identifier.")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "response-fields")

	_, statErr := os.Stat(filepath.Join(dir, "widget", "list"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestResponseFields(t *testing.T) {
	ex, err := Capture(widgetMux(), httptest.NewRequest(http.MethodGet, "/widgets/w-1", nil))
	require.NoError(t, err)

	t.Run("all documented", func(t *testing.T) {
		out, err := ResponseFields(
			Field("id", "Identifier."),
			Field("label", "Display label."),
			Field("count", "Usage count."),
			Field("active", "Whether the widget is active."),
		).Render(ex)
		require.NoError(t, err)

		assert.Contains(t, out, "| `id` | `String` | Identifier. |")
		assert.Contains(t, out, "| `count` | `Number` | Usage count. |")
		assert.Contains(t, out, "| `active` | `Boolean` |")
		assert.NotContains(t, out, "Constraints")
	})

	t.Run("undocumented field", func(t *testing.T) {
		_, err := ResponseFields(Field("id", "Identifier.")).Render(ex)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "label")
	})

	t.Run("missing field", func(t *testing.T) {
		_, err := ResponseFields(
			Field("id", "Identifier."),
			Field("label", "Display label."),
			Field("count", "Usage count."),
			Field("active", "Whether the widget is active."),
			Field("color", "Color."),
		).Render(ex)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "color")
	})

	t.Run("optional missing field", func(t *testing.T) {
		out, err := ResponseFields(
			Field("id", "Identifier."),
			Field("label", "Display label."),
			Field("count", "Usage count."),
			Field("active", "Whether the widget is active."),
			Field("color", "Color.").AsOptional().OfType("String"),
		).Render(ex)
		require.NoError(t, err)
		assert.Contains(t, out, "| `color` | `String` | Color. |")
	})
}

func TestResponseFields_Arrays(t *testing.T) {
	ex, err := Capture(widgetMux(), httptest.NewRequest(http.MethodGet, "/widgets", nil))
	require.NoError(t, err)

	out, err := ResponseFields(
		Field("[].id", "Identifier."),
		Field("[].label", "Display label."),
		Field("[].tags", "Tags."),
	).Render(ex)
	require.NoError(t, err)
	assert.Contains(t, out, "| `[].id` | `String` |")
	assert.Contains(t, out, "| `[].tags` | `Array` |")
}

func TestResponseFields_EmptyPayload(t *testing.T) {
	ex, err := Capture(widgetMux(), httptest.NewRequest(http.MethodDelete, "/widgets/w-1", nil))
	require.NoError(t, err)

	_, err = ResponseFields(Field("id", "Identifier.")).Render(ex)
	assert.Error(t, err)
}

func TestRequestFields_WithConstraints(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/widgets", strings.NewReader(`{"id":"w-9","label":"ninth"}`))
	ex, err := Capture(widgetMux(), req)
	require.NoError(t, err)

	out, err := RequestFields(
		Field("id", "Identifier.").WithConstraints(ConstraintsFor(widgetInsert{}, "id")...),
		Field("label", "Display label.").WithConstraints(ConstraintsFor(widgetInsert{}, "label")...),
	).Render(ex)
	require.NoError(t, err)

	assert.Contains(t, out, "| Path | Type | Description | Constraints |")
	assert.Contains(t, out, "| `id` | `String` | Identifier. | Must not be null. Size must be at least 3. |")
	assert.Contains(t, out, "| `label` | `String` | Display label. | Must not be null. Must not be blank. |")
}

func TestHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/widgets/w-1", nil)
	req.Header.Set("Accept", "application/json")
	ex, err := Capture(widgetMux(), req)
	require.NoError(t, err)

	out, err := RequestHeaders(Header("Accept", "The content type the client is able to understand.")).Render(ex)
	require.NoError(t, err)
	assert.Contains(t, out, "| `Accept` | The content type the client is able to understand. |")

	_, err = ResponseHeaders(Header("Content-Type", "The content type of the content returned.")).Render(ex)
	assert.NoError(t, err)

	_, err = ResponseHeaders(Header("ETag", "Entity tag.")).Render(ex)
	assert.Error(t, err)

	_, err = ResponseHeaders(Header("ETag", "Entity tag.").AsOptional()).Render(ex)
	assert.NoError(t, err)
}

func TestPathParameters(t *testing.T) {
	ex, err := Capture(widgetMux(), httptest.NewRequest(http.MethodDelete, "/widgets/w-1", nil))
	require.NoError(t, err)

	out, err := PathParameters("/widgets/{id}", Param("id", "The widget identifier.")).Render(ex)
	require.NoError(t, err)
	assert.Contains(t, out, "Table 1. `/widgets/{id}`")
	assert.Contains(t, out, "| `id` | The widget identifier. |")

	_, err = PathParameters("/widgets/{id}").Render(ex)
	assert.Error(t, err, "undocumented parameter")

	_, err = PathParameters("/widgets/{id}", Param("id", "x"), Param("rev", "y")).Render(ex)
	assert.Error(t, err, "parameter not in template")

	_, err = PathParameters("/gadgets/{id}", Param("id", "x")).Render(ex)
	assert.Error(t, err, "template mismatch")
}

func TestConstraintsFor(t *testing.T) {
	assert.Equal(t, []string{"Must not be null.", "Size must be at least 3."}, ConstraintsFor(widgetInsert{}, "id"))
	assert.Equal(t, []string{"Must not be null.", "Must not be blank."}, ConstraintsFor(&widgetInsert{}, "Label"))
	assert.Equal(t, []string{"Size must be at most 20."}, ConstraintsFor(widgetInsert{}, "note"))
	assert.Nil(t, ConstraintsFor(widgetInsert{}, "plain"))
	assert.Nil(t, ConstraintsFor(widgetInsert{}, "unknown"))
	assert.Nil(t, ConstraintsFor("not a struct", "id"))
}
