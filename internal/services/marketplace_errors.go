// internal/services/marketplace_errors.go
package services

import "errors"

// Contract error codes. The numeric values are part of the external
// contract and mirror what the transaction-history consumers expect; they
// are not HTTP status codes.
const (
	CodeOutOfStock        = 400
	CodeInsufficientFunds = 401
	CodeNotFound          = 404
	CodeUnauthorized      = 407
	CodeAlreadyRated      = 409
	CodeInvalidInput      = 422
)

// MarketError is the closed set of business failures a marketplace
// transition can surface. Every public operation either succeeds or returns
// exactly one of these; infrastructure failures are wrapped separately and
// never reuse a contract code.
type MarketError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *MarketError) Error() string {
	return e.Message
}

var (
	ErrOutOfStock        = &MarketError{Code: CodeOutOfStock, Message: "product is out of stock"}
	ErrInsufficientFunds = &MarketError{Code: CodeInsufficientFunds, Message: "insufficient funds"}
	ErrNotFound          = &MarketError{Code: CodeNotFound, Message: "product not found"}
	ErrUnauthorized      = &MarketError{Code: CodeUnauthorized, Message: "caller is not authorized"}
	ErrAlreadyRated      = &MarketError{Code: CodeAlreadyRated, Message: "product already rated by this buyer"}
	ErrInvalidInput      = &MarketError{Code: CodeInvalidInput, Message: "invalid input"}
)

// AsMarketError unwraps err to the contract error it carries, if any.
func AsMarketError(err error) (*MarketError, bool) {
	var me *MarketError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}
