package mock

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Result  interface{} `json:"result,omitempty"`
}

func writeEnvelope(w http.ResponseWriter, status int, message string, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Status: status, Message: message, Result: result})
}

func decodeBody(w http.ResponseWriter, r *http.Request, method string, v interface{}) bool {
	if r.Method != method {
		writeEnvelope(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return false
	}
	if v == nil {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	return true
}
