package service

import (
	"errors"
	"fmt"

	"go-inventory-api/pkg/validator"
)

var ErrNotFound = errors.New("not found")

var (
	ErrProductNotFound       = fmt.Errorf("product %w", ErrNotFound)
	ErrSupplierNotFound      = fmt.Errorf("supplier %w", ErrNotFound)
	ErrPurchaseOrderNotFound = fmt.Errorf("purchase order %w", ErrNotFound)
	ErrSalesOrderNotFound    = fmt.Errorf("sales order %w", ErrNotFound)
	ErrTransactionNotFound   = fmt.Errorf("transaction %w", ErrNotFound)
	ErrUserNotFound          = fmt.Errorf("user %w", ErrNotFound)
)

var (
	ErrAlreadyReceived         = errors.New("this order has already been received")
	ErrInvalidStatusTransition = errors.New("invalid purchase order status transition")
	ErrOrderReceived           = errors.New("a received purchase order cannot be deleted")
	ErrInUse                   = errors.New("record is still referenced and cannot be deleted")
	ErrInvalidCredentials      = errors.New("no active account found with the given credentials")
	ErrUserInactive            = errors.New("user account is inactive")
	ErrWrongPassword           = errors.New("current password is incorrect")
	ErrCannotDeleteSelf        = errors.New("you cannot delete your own account")
)

// ValidationError is a rejected input, reported against a request field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// InsufficientStockError aborts a sale when a line asks for more than is on hand
type InsufficientStockError struct {
	ProductName string
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Not enough stock for %s.", e.ProductName)
}

func validate(req interface{}) error {
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	return &ValidationError{
		Field:   first.FailedField,
		Message: fmt.Sprintf("failed on the '%s' rule", first.Tag),
	}
}
