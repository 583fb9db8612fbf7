package httpapi

import (
	"encoding/json"
	"log"
	"net/http"

	"golang.org/x/text/language"

	apperrors "github.com/louisbranch/farkle-engine/internal/platform/errors"
	"github.com/louisbranch/farkle-engine/internal/platform/errors/i18n"
)

// maxBodyBytes caps request bodies. Match commands are tiny.
const maxBodyBytes = 1 << 20

type errorView struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidRequest, "decode request body", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

// writeError renders an error as a JSON body with its machine code and a
// message localized for the request. Errors without a domain code map to
// a 500 and are logged.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.CodeOf(err)
	status := code.HTTPStatus()
	if status == http.StatusInternalServerError {
		log.Printf("http %s %s: %v", r.Method, r.URL.Path, err)
	}

	catalog := i18n.GetCatalog(requestLocale(r))
	writeJSON(w, status, errorView{Error: errorBody{
		Code:    string(code),
		Message: catalog.Format(string(code), apperrors.MetadataOf(err)),
	}})
}

// requestLocale picks the strongest Accept-Language tag. Catalog matching
// handles unknown locales.
func requestLocale(r *http.Request) string {
	header := r.Header.Get("Accept-Language")
	if header == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	return tags[0].String()
}
