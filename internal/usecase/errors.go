package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// 機械可読なエラー種別（レスポンスのerrorに入る）
type ErrorKind string

const (
	KindValidation          ErrorKind = "VALIDATION_ERROR"
	KindNotFound            ErrorKind = "NOT_FOUND"
	KindInvalidTransition   ErrorKind = "INVALID_TRANSITION"
	KindInvalidState        ErrorKind = "INVALID_STATE"
	KindInvalidSignature    ErrorKind = "INVALID_SIGNATURE"
	KindInvalidPayload      ErrorKind = "INVALID_PAYLOAD"
	KindUnauthorized        ErrorKind = "UNAUTHORIZED"
	KindForbidden           ErrorKind = "FORBIDDEN"
	KindTooManyRequests     ErrorKind = "TOO_MANY_REQUESTS"
	KindConflict            ErrorKind = "CONFLICT"
	KindUpstreamUnavailable ErrorKind = "UPSTREAM_UNAVAILABLE"
	KindInternal            ErrorKind = "INTERNAL"
)

// usecaseが返すエラー。handlerはStatus/Kind/Messageをそのまま返す
type HTTPError struct {
	Status  int
	Kind    ErrorKind
	Message string

	// ログ用の元エラー（レスポンスには出さない）
	Err error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.Err }

// NewHTTPError はステータスコードから種別を決める
func NewHTTPError(status int, msg string) *HTTPError {
	return &HTTPError{Status: status, Kind: kindForStatus(status), Message: msg}
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusBadRequest, http.StatusMethodNotAllowed, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusTooManyRequests:
		return KindTooManyRequests
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return KindUpstreamUnavailable
	default:
		return KindInternal
	}
}

func NewValidationError(msg string) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Kind: KindValidation, Message: msg}
}

func NewNotFoundError(msg string) *HTTPError {
	return &HTTPError{Status: http.StatusNotFound, Kind: KindNotFound, Message: msg}
}

// 現在と要求の両方をメッセージに含める
func NewInvalidTransitionError(from, to string) *HTTPError {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("invalid status transition from %s to %s", from, to),
	}
}

func NewInvalidStateError(msg string) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Kind: KindInvalidState, Message: msg}
}

func NewInvalidSignatureError() *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Kind: KindInvalidSignature, Message: "invalid signature"}
}

func NewInvalidPayloadError(err error) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Kind: KindInvalidPayload, Message: "invalid payload", Err: err}
}

func NewUnauthorizedError(msg string) *HTTPError {
	return &HTTPError{Status: http.StatusUnauthorized, Kind: KindUnauthorized, Message: msg}
}

func NewForbiddenError(msg string) *HTTPError {
	return &HTTPError{Status: http.StatusForbidden, Kind: KindForbidden, Message: msg}
}

func NewTooManyRequestsError(msg string) *HTTPError {
	return &HTTPError{Status: http.StatusTooManyRequests, Kind: KindTooManyRequests, Message: msg}
}

func NewConflictError(msg string) *HTTPError {
	return &HTTPError{Status: http.StatusConflict, Kind: KindConflict, Message: msg}
}

// 再試行可能
func NewUpstreamError(err error) *HTTPError {
	return &HTTPError{Status: http.StatusServiceUnavailable, Kind: KindUpstreamUnavailable, Message: "upstream unavailable", Err: err}
}

// メッセージは固定（中身はログにだけ出す）
func NewInternalError(err error) *HTTPError {
	return &HTTPError{Status: http.StatusInternalServerError, Kind: KindInternal, Message: "internal error", Err: err}
}

// storeError はDB呼び出しの失敗を分類する。タイムアウトはupstream扱い
func storeError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewUpstreamError(err)
	}
	return NewInternalError(err)
}

// AsHTTPError は任意のエラーをHTTPErrorにする（未知はinternal）
func AsHTTPError(err error) *HTTPError {
	return storeError(err)
}
