package request

import (
	"net/http"

	dErrors "pscfiling/pkg/domain-errors"
	"pscfiling/pkg/platform/httputil"
)

// BodyLimit caps filing request bodies at maxBytes. A declared Content-Length
// over the cap is refused outright; otherwise reads past the cap fail with
// *http.MaxBytesError, which the decoders report as a bad request.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body too large"))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
