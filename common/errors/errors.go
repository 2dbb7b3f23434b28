// Package errors defines the application error type shared by all services
// and the sentinel errors the platform's HTTP surfaces map onto.
package errors

import (
	"fmt"
	"net/http"
)

// Error carries an HTTP status alongside a user-facing message. The wrapped
// cause never reaches the response body.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Wrap attaches a cause to a sentinel without mutating the sentinel itself.
func Wrap(sentinel *Error, err error) *Error {
	return &Error{Code: sentinel.Code, Message: sentinel.Message, Err: err}
}

var (
	ErrBadRequest     = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized   = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden      = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound       = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

var (
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid credentials", nil)
	ErrTokenExpired       = New(http.StatusUnauthorized, "Token expired", nil)
	ErrInvalidToken       = New(http.StatusUnauthorized, "Invalid token", nil)
)

// Order lifecycle.
var (
	ErrInsufficientStock = New(http.StatusBadRequest, "Insufficient stock", nil)
	ErrInvalidOrder      = New(http.StatusBadRequest, "Invalid order", nil)
	ErrIllegalTransition = New(http.StatusUnprocessableEntity, "Illegal order status transition", nil)
	ErrTrackingRequired  = New(http.StatusUnprocessableEntity, "Tracking number required before shipping", nil)
)

// Coupon validation outcomes.
var (
	ErrCouponExpired      = New(http.StatusBadRequest, "Coupon has expired", nil)
	ErrCouponLimitReached = New(http.StatusBadRequest, "Coupon usage limit reached", nil)
)

// OTP guard rejections, all surfaced as 429.
var (
	ErrOTPAccountLocked = New(http.StatusTooManyRequests, "Account temporarily locked due to failed verification attempts", nil)
	ErrOTPSpamLocked    = New(http.StatusTooManyRequests, "Too many OTP requests, try again later", nil)
	ErrOTPCooldown      = New(http.StatusTooManyRequests, "Please wait before requesting another OTP", nil)
)
