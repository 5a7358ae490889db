package remote

import (
	"errors"
	"fmt"
)

// CodeSuccess is the visitor service's in-band success code. HTTP 2xx alone
// does not mean the call succeeded.
const CodeSuccess = "00"

// Envelope is the wrapper every visitor service endpoint responds with.
type Envelope[T any] struct {
	ResponseCode    string `json:"responseCode"`
	ResponseMessage string `json:"responseMessage"`
	Data            T      `json:"data"`
}

func (e *Envelope[T]) OK() bool {
	return e != nil && e.ResponseCode == CodeSuccess
}

// Result splits the envelope into its payload or a business error.
func (e *Envelope[T]) Result() (T, *BusinessError) {
	if e.OK() {
		return e.Data, nil
	}
	var zero T
	if e == nil {
		return zero, &BusinessError{}
	}
	return zero, &BusinessError{Code: e.ResponseCode, Message: e.ResponseMessage}
}

// MessageOr returns the service's message, or fallback when it sent none.
func (e *Envelope[T]) MessageOr(fallback string) string {
	if e == nil || e.ResponseMessage == "" {
		return fallback
	}
	return e.ResponseMessage
}

// BusinessError is a well-formed envelope carrying a non-success code.
type BusinessError struct {
	Code    string
	Message string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("visitor service rejected request: code=%s message=%q", e.Code, e.Message)
}

// MessageOr returns the service's message, or fallback when it sent none.
func (e *BusinessError) MessageOr(fallback string) string {
	if e == nil || e.Message == "" {
		return fallback
	}
	return e.Message
}

// ErrTransport matches every *TransportError.
var ErrTransport = errors.New("visitor service transport failure")

// TransportError reports that no usable envelope came back: the request
// could not be sent, the status was not 2xx, or the body was not JSON.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.Path, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s %s: API call failed: %s", e.Method, e.Path, e.Status)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
