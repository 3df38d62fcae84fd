package common

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	validator "github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeJSON decodes the request body into dst and validates it.
// Decode and validation failures come back as VALIDATION AppErrors.
func DecodeJSON(r *http.Request, dst any) error {
	if r == nil || r.Body == nil {
		return Validation("request body is required", nil)
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return Validation("request body is required", nil)
		}
		return Validation("malformed JSON body", err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, strings.ToLower(fe.Field())+": failed "+fe.Tag())
			}
			return Validation("invalid request body", details)
		}
		return Validation("invalid request body", nil)
	}
	return nil
}

// ParseID converts a URL parameter into a positive numeric id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, Validationf("invalid id %q", raw)
	}
	return id, nil
}
