package webutil

import (
	"encoding/json"
	"net/http"
)

const (
	HeaderContentType   = "Content-Type"
	ContentTypeJSONUTF8 = "application/json; charset=utf-8"
)

// RespondWithJSON writes payload as the response body with the given status.
func RespondWithJSON(w http.ResponseWriter, status int, payload any) error {
	response, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	w.Header().Set(HeaderContentType, ContentTypeJSONUTF8)
	w.WriteHeader(status)
	_, _ = w.Write(response)
	return nil
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	_ = RespondWithJSON(w, code, map[string]string{"error": message})
}

func hasResponseWriterSentHeader(w http.ResponseWriter) bool {
	return w.Header().Get(HeaderContentType) != ""
}
