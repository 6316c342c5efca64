package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rkhn-textiles/pos-backend/pkg/e"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrMissingFields):
		return http.StatusBadRequest, e.ErrMissingFields.Error()
	case errors.Is(err, e.ErrProductNameRequired):
		return http.StatusBadRequest, e.ErrProductNameRequired.Error()
	case errors.Is(err, e.ErrSKURequired):
		return http.StatusBadRequest, e.ErrSKURequired.Error()
	case errors.Is(err, e.ErrCategoryRequired):
		return http.StatusBadRequest, e.ErrCategoryRequired.Error()
	case errors.Is(err, e.ErrCategoryNameRequired):
		return http.StatusBadRequest, e.ErrCategoryNameRequired.Error()
	case errors.Is(err, e.ErrPriceNegative):
		return http.StatusBadRequest, e.ErrPriceNegative.Error()
	case errors.Is(err, e.ErrStockNegative):
		return http.StatusBadRequest, e.ErrStockNegative.Error()
	case errors.Is(err, e.ErrUnknownUnit):
		return http.StatusBadRequest, e.ErrUnknownUnit.Error()
	case errors.Is(err, e.ErrUnitConversion):
		return http.StatusBadRequest, e.ErrUnitConversion.Error()
	case errors.Is(err, e.ErrQuantityNotPositive):
		return http.StatusBadRequest, e.ErrQuantityNotPositive.Error()
	case errors.Is(err, e.ErrCustomPriceNegative):
		return http.StatusBadRequest, e.ErrCustomPriceNegative.Error()
	case errors.Is(err, e.ErrEmptySale):
		return http.StatusBadRequest, e.ErrEmptySale.Error()
	case errors.Is(err, e.ErrItemIndexOutOfRange):
		return http.StatusBadRequest, e.ErrItemIndexOutOfRange.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrCategoryNotFound):
		return http.StatusNotFound, e.ErrCategoryNotFound.Error()
	case errors.Is(err, e.ErrInvalidCredential):
		return http.StatusUnauthorized, e.ErrInvalidCredential.Error()
	case errors.Is(err, e.ErrUserNotFound):
		return http.StatusUnauthorized, e.ErrUserNotFound.Error()
	case errors.Is(err, e.ErrAuthFailed):
		return http.StatusUnauthorized, e.ErrAuthFailed.Error()
	case errors.Is(err, e.ErrForbidden):
		return http.StatusForbidden, e.ErrForbidden.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON разбирает JSON-тело запроса, отклоняя неизвестные поля.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	return nil
}
