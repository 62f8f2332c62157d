package custom_error

import (
	"fmt"

	"github.com/lib/pq"
)

type CustomError interface {
	Error() string
}

// UniqueViolationError reports a duplicate value on a unique column. Field
// names which column collided so handlers can produce a field-specific
// conflict message (an asset tag collision is retriable during allocation,
// a serial number collision is not).
type UniqueViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23505")
	field   string
}

type ForeignKeyViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23503")
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

func (e *UniqueViolationError) Field() string {
	return e.field
}

func (f *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", f.message, f.code)
}

// constraintFields maps unique constraint names from the schema to the
// domain field they guard.
var constraintFields = map[string]string{
	"assets_asset_tag_key":              "asset_tag",
	"assets_serial_number_key":          "serial_number",
	"categories_name_key":               "name",
	"categories_code_key":               "code",
	"users_email_key":                   "email",
	"locations_name_building_floor_key": "location",
}

func WrapDBError(message string, pqErr *pq.Error) error {
	switch pqErr.Code {
	case "23505":
		return &UniqueViolationError{
			message: message,
			code:    string(pqErr.Code),
			field:   constraintFields[pqErr.Constraint],
		}
	case "23503":
		return &ForeignKeyViolationError{
			message: "Value is already used by other resources " + message,
			code:    string(pqErr.Code),
		}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", pqErr.Code, message)
	}
}

// NewUniqueViolation builds a violation directly; used where uniqueness is
// checked ahead of the insert.
func NewUniqueViolation(message, field string) *UniqueViolationError {
	return &UniqueViolationError{message: message, code: "23505", field: field}
}
