package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/leslieo2/lanc-compliance/internal/constants"
	"github.com/leslieo2/lanc-compliance/internal/httperr"
)

// JSONBody parses application/json bodies up to maxSize bytes. The decoded
// value is stored in the request context and the raw bytes stay readable
// from r.Body. Oversized bodies fail with 413, malformed ones with 400.
func JSONBody(maxSize int64, onError ErrorHandler) func(http.Handler) http.Handler {
	return bodyParser(maxSize, onError, isJSON, func(raw []byte) (any, error) {
		if len(bytes.TrimSpace(raw)) == 0 {
			return map[string]any{}, nil
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, httperr.Wrap(err, http.StatusBadRequest, "Invalid JSON payload")
		}
		return v, nil
	})
}

// URLEncodedBody parses application/x-www-form-urlencoded bodies the same way.
func URLEncodedBody(maxSize int64, onError ErrorHandler) func(http.Handler) http.Handler {
	return bodyParser(maxSize, onError, isForm, func(raw []byte) (any, error) {
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil, httperr.Wrap(err, http.StatusBadRequest, "Invalid form payload")
		}
		return values, nil
	})
}

func bodyParser(maxSize int64, onError ErrorHandler, match func(string) bool, parse func([]byte) (any, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody || !match(r.Header.Get(constants.HeaderContentType)) {
				next.ServeHTTP(w, r)
				return
			}

			// reject on the declared length without reading anything
			if maxSize > 0 && r.ContentLength > maxSize {
				onError(w, r, tooLarge(maxSize))
				return
			}

			raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSize))
			if err != nil {
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					onError(w, r, tooLarge(maxSize))
					return
				}
				onError(w, r, httperr.Wrap(err, http.StatusBadRequest, "Failed to read request body"))
				return
			}

			parsed, err := parse(raw)
			if err != nil {
				onError(w, r, err)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(raw))
			next.ServeHTTP(w, withBody(r, parsed))
		})
	}
}

func tooLarge(maxSize int64) error {
	return httperr.New(http.StatusRequestEntityTooLarge,
		fmt.Sprintf("Request body too large, max size: %d bytes", maxSize))
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mt
}

func isJSON(contentType string) bool {
	mt := mediaType(contentType)
	return mt == constants.ContentTypeJSON || strings.HasSuffix(mt, "+json")
}

func isForm(contentType string) bool {
	return mediaType(contentType) == constants.ContentTypeFormURLEncoded
}
