package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWantsJSON(t *testing.T) {
	cases := map[string]bool{
		"":                 false,
		"*/*":              false,
		"application/json": true,
		"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8": false,
		"application/json, text/plain, */*":                               true,
		"text/html;q=0.5, application/json":                               true,
	}
	for accept, want := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if accept != "" {
			r.Header.Set("Accept", accept)
		}
		assert.Equal(t, want, WantsJSON(r), "Accept: %q", accept)
	}
}

func TestWriteError(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	WriteInternalError(w, r, "Something went wrong!")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Something went wrong!", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	r.Header.Set("Accept", "application/json")
	w = httptest.NewRecorder()
	WriteInternalError(w, r, "Something went wrong!")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{Error: "Internal Server Error", Code: 500, Message: "Something went wrong!"}, body)
}
