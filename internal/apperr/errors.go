package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// 呼び出し側が区別するエラーの種類
type Kind string

const (
	KindValidation        Kind = "VALIDATION_ERROR"
	KindNotFound          Kind = "NOT_FOUND"
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	KindEmptyCart         Kind = "EMPTY_CART"
	KindAuthFailed        Kind = "AUTHENTICATION_FAILED"
	KindRateLimited       Kind = "RATE_LIMITED"
	KindConflict          Kind = "CONFLICT"
	KindForbidden         Kind = "FORBIDDEN"
	KindInternal          Kind = "INTERNAL"
)

// errors.Is で種類だけ比較するための番兵
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock}
	ErrEmptyCart         = &Error{Kind: KindEmptyCart}
	ErrAuthFailed        = &Error{Kind: KindAuthFailed}
	ErrRateLimited       = &Error{Kind: KindRateLimited}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrInternal          = &Error{Kind: KindInternal}
)

// Error は usecase から handler まで運ぶ構造化エラー。
type Error struct {
	Kind    Kind
	Message string
	//どの入力項目か（ValidationError / Conflict）
	Field string
	//在庫不足のときの実在庫
	Available *int64
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is は Kind が同じなら一致とみなす
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// HTTPステータスへの対応
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindInsufficientStock, KindEmptyCart:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthFailed:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func Validation(field, message string) error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// 在庫不足。available は実際に追加・購入できる数
func InsufficientStock(message string, available int64) error {
	return &Error{Kind: KindInsufficientStock, Message: message, Available: &available}
}

func EmptyCart() error {
	return &Error{Kind: KindEmptyCart, Message: "Cart is empty"}
}

func AuthFailed(message string) error {
	return &Error{Kind: KindAuthFailed, Message: message}
}

func RateLimited(message string) error {
	return &Error{Kind: KindRateLimited, Message: message}
}

func Conflict(field, message string) error {
	return &Error{Kind: KindConflict, Field: field, Message: message}
}

func Forbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

// 500。原因は Err に残してログ用にする
func Internal(err error) error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}
