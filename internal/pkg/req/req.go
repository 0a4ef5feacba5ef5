/*
Package req provides helper functions for HTTP request parsing and data binding.

It encapsulates JSON body decoding for the operational API, with strict field
checking so malformed requests are rejected before reaching business logic.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strings"

	"mysterynum/internal/pkg/errs"
)

// BindJSON binds the JSON data from the HTTP request body to the destination struct dst.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	return nil
}
