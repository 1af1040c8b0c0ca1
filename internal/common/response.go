package common

import (
	"encoding/json"
	"net/http"
)

// Every response uses the same envelope: status ("success"/"error"), a code
// mirroring the HTTP status, and either payload fields, a message, or a
// per-field errors map.

func RespondSuccess(w http.ResponseWriter, code int, payload map[string]interface{}) {
	body := map[string]interface{}{
		"status": "success",
		"code":   code,
	}
	for key, value := range payload {
		body[key] = value
	}
	writeJSON(w, code, body)
}

func RespondError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]interface{}{
		"status":  "error",
		"code":    code,
		"message": message,
	})
}

func RespondFieldErrors(w http.ResponseWriter, code int, message string, fields map[string]string) {
	writeJSON(w, code, map[string]interface{}{
		"status":  "error",
		"code":    code,
		"message": message,
		"errors":  fields,
	})
}

// RespondWithServiceError maps a domain error onto the envelope, attaching
// the per-field map when the error carries one.
func RespondWithServiceError(w http.ResponseWriter, err error) {
	code := HTTPStatusFromError(err)
	if fields := FieldErrors(err); fields != nil {
		RespondFieldErrors(w, code, "Validation failed", fields)
		return
	}
	message := err.Error()
	if code == http.StatusInternalServerError {
		// Do not leak store internals to the client.
		message = ErrInternalServer.Error()
	}
	RespondError(w, code, message)
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":"error","code":500,"message":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
