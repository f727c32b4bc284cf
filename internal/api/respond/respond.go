package respond

import (
	"encoding/json"
	"net/http"

	"github.com/munnerz/goautoneg"
	"github.com/rs/zerolog"
)

const (
	contentTypeHTML = "text/html"
	contentTypeJSON = "application/json"
)

// ErrorResponse is the body of an error sent to a JSON client.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// WantsJSON reports whether the Accept header ranks application/json above
// text/html. A missing header or */* keeps the HTML page.
func WantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return false
	}
	return goautoneg.Negotiate(accept, []string{contentTypeHTML, contentTypeJSON}) == contentTypeJSON
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteText writes a plain text body.
func WriteText(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

// WriteError answers with message as plain text, or as an ErrorResponse
// when the client asked for JSON.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	if WantsJSON(r) {
		WriteJSON(w, r, statusCode, ErrorResponse{
			Error:   http.StatusText(statusCode),
			Code:    statusCode,
			Message: message,
		})
		return
	}
	WriteText(w, statusCode, message)
}

// WriteInternalError writes a 500 with message.
func WriteInternalError(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusInternalServerError, message)
}
