package controllers

import (
	"encoding/json"
	"net/http"

	"snapgram_server/pkg/apperrors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var errInvalidPayload = apperrors.InvalidArg("Invalid request payload")

// decodeAndValidate decodes the JSON body into v and runs the struct
// validation tags. Any failure maps to a 400.
func decodeAndValidate(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errInvalidPayload
	}
	if err := validate.Struct(v); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "Invalid request payload", err)
	}
	return nil
}
