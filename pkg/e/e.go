package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound  = fmt.Errorf("transaction not found")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")

	// 400 Bad Request — валидация форм
	ErrProductNameRequired  = fmt.Errorf("product name is required")
	ErrSKURequired          = fmt.Errorf("sku is required")
	ErrCategoryRequired     = fmt.Errorf("category is required")
	ErrCategoryNameRequired = fmt.Errorf("category name cannot be empty")
	ErrPriceNegative        = fmt.Errorf("price must not be negative")
	ErrStockNegative        = fmt.Errorf("stock must not be negative")
	ErrUnknownUnit          = fmt.Errorf("unknown unit of measure")
	ErrUnitConversion       = fmt.Errorf("cannot convert between these units")
	ErrQuantityNotPositive  = fmt.Errorf("quantity must be positive")
	ErrCustomPriceNegative  = fmt.Errorf("custom price must not be negative")
	ErrEmptySale            = fmt.Errorf("sale must contain at least one item")
	ErrItemIndexOutOfRange  = fmt.Errorf("sale item index out of range")
	ErrInvalidPrice         = fmt.Errorf("invalid price format")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrStatusBadRequest     = fmt.Errorf("bad request")

	// 404 Not Found
	ErrProductNotFound  = fmt.Errorf("product not found")
	ErrCategoryNotFound = fmt.Errorf("parent category not found")

	// 401/403 — ошибки внешнего сервиса идентификации
	ErrInvalidCredential = fmt.Errorf("invalid email or password")
	ErrUserNotFound      = fmt.Errorf("no user found with this email")
	ErrAuthFailed        = fmt.Errorf("authentication failed")
	ErrForbidden         = fmt.Errorf("forbidden")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
