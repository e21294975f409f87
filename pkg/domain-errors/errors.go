// Package domainerrors defines the single tagged error type shared by every
// registry component. Each failure carries a Code naming its kind; handlers
// translate codes to transport statuses and tests assert on codes, never on
// message text.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies the kind of a domain error.
type Code string

const (
	// Entity absence
	CodeNotFound        Code = "not_found"
	CodeDomainNotMinted Code = "domain_not_minted"
	CodeRecordNotMinted Code = "record_not_minted"

	// Uniqueness
	CodeMinted Code = "minted"

	// Rights
	CodeUnauthorized    Code = "unauthorized"
	CodeUnauthenticated Code = "unauthenticated"

	// Naming and hierarchy
	CodeInvalidDomain           Code = "invalid_domain"
	CodeInvalidDomainWithParent Code = "invalid_domain_with_parent"
	CodeParentRecord            Code = "parent_record"
	CodeInvalidRecordClass      Code = "invalid_record_class"

	// Time-based gating
	CodeDomainExpired   Code = "domain_expired"
	CodeDomainNotActive Code = "domain_not_active"

	// Capacity
	CodeRecordDataTooLong Code = "record_data_too_long"
	CodeMaxCustomRecords  Code = "max_custom_records"

	// Duration and arithmetic
	CodeInvalidSubscriptionYears Code = "invalid_subscription_years"
	CodeArithmeticOverflow       Code = "arithmetic_overflow"

	// Payment configuration
	CodePaymentInfoNotValid   Code = "payment_info_not_valid"
	CodePaymentTokenNotSet    Code = "payment_token_not_set"
	CodePaymentReceiverNotSet Code = "payment_receiver_not_set"

	// Mint gating
	CodeUserNotWhitelisted    Code = "user_not_whitelisted"
	CodeMintCountLimitReached Code = "mint_count_limit_reached"
	CodeAirdropNotValid       Code = "airdrop_not_valid"
	CodeContractDisabled      Code = "contract_disabled"

	// Generic request/infrastructure failures
	CodeBadRequest   Code = "bad_request"
	CodeValidation   Code = "validation_error"
	CodeInvalidInput Code = "invalid_input"
	CodeInternal     Code = "internal_error"
)

// Error is a domain failure tagged with a Code.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Newf is New with a format string.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags err with code. A nil err yields nil.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the code of the outermost *Error in err's chain, or
// CodeInternal when err carries no code.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether the outermost *Error in err's chain has code.
func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// Is is an alias of HasCode kept for call sites that read better with it.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// Message returns the message of the outermost *Error, or err.Error().
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
