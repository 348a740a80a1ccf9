package httperr

import (
	"errors"
	"net/http"
)

// Kind classifies business failures onto HTTP semantics.
type Kind int

const (
	KindValidation Kind = iota // malformed or missing input
	KindNotFound               // referenced entity absent
	KindConflict               // slot no longer available
	KindPolicy                 // booking window, gateway required, telemed unsupported
	KindTransaction            // failure inside the atomic write
)

type BusinessError struct {
	Code string
	Kind Kind
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrValidation(code string) error  { return BusinessError{Code: code, Kind: KindValidation} }
func ErrNotFound(code string) error    { return BusinessError{Code: code, Kind: KindNotFound} }
func ErrConflict(code string) error    { return BusinessError{Code: code, Kind: KindConflict} }
func ErrPolicy(code string) error      { return BusinessError{Code: code, Kind: KindPolicy} }
func ErrTransaction(code string) error { return BusinessError{Code: code, Kind: KindTransaction} }

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// AsBusiness unwraps err into a BusinessError if it is one.
func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}

func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindPolicy:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
