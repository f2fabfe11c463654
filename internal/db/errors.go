package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
)

// Op names for error context. Key-value ops map to Redis command names.
const (
	OpGet = "GET"
	OpSet = "SET"
	OpDel = "DEL"

	OpSearchProducts      = "search products"
	OpCountProducts       = "count products"
	OpCategoryIDs         = "resolve category ids"
	OpProductIDs          = "resolve product ids"
	OpCategorySearch      = "search_products_with_categories"
	OpProbeFunction       = "probe function"
	OpInsertSearchSession = "insert search session"
	OpInsertProductClick  = "insert product click"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
