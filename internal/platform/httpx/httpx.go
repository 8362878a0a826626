package httpx

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/georgemunganga/printa-pos/internal/apperr"
)

// Respond writes body as JSON with status.
func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Error writes err using its classification for the status code. Store and
// unclassified failures are logged in full and answered with their public
// message only.
func Error(w http.ResponseWriter, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindPersistence, apperr.KindUnknown:
		zap.L().Error("request failed", zap.String("code", apperr.CodeOf(err)), zap.Error(err))
	}
	body := map[string]string{"error": apperr.PublicMessage(err)}
	if code := apperr.CodeOf(err); code != "" {
		body["code"] = code
	}
	if kind := apperr.KindOf(err); kind != apperr.KindUnknown {
		body["kind"] = string(kind)
	}
	Respond(w, apperr.HTTPStatus(err), body)
}

// BadRequest writes a 400 for an undecodable payload.
func BadRequest(w http.ResponseWriter, err error) {
	Respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

// Decode reads a JSON body into v.
func Decode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
