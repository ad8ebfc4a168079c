package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// JSON writes a JSON response with status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// JSONError writes {"detail": "..."} with a given status.
func JSONError(w http.ResponseWriter, status int, detail string) {
	JSON(w, status, map[string]string{"detail": detail})
}

// MaxBodyBytes caps request bodies at 2.5 MB.
const MaxBodyBytes = 2621440

// DecodeJSON reads the request body as raw JSON. An empty body decodes to
// an empty object; malformed JSON gets a 400 and the error is returned.
func DecodeJSON(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	if r.Body == nil {
		return json.RawMessage("{}"), nil
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			JSONError(w, http.StatusRequestEntityTooLarge, "Request body exceeded the maximum size.")
			return nil, err
		}
		JSONError(w, http.StatusBadRequest, "could not read request body")
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return json.RawMessage("{}"), nil
	}

	if !json.Valid(data) {
		err := parseError(data)
		JSONError(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return nil, err
	}

	return json.RawMessage(data), nil
}

func parseError(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return errors.New("invalid JSON")
}
