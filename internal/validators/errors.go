package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyKey      = errors.New("collection key is empty")
	ErrKeyTooLong    = errors.New("collection key is too long")
	ErrInvalidKey    = errors.New("collection key contains invalid characters")
	ErrValueTooLarge = errors.New("collection value is too large")
	ErrNotArray      = errors.New("collection value is not a JSON array")
	ErrNotObject     = errors.New("collection element is not a JSON object")
	ErrMissingID     = errors.New("collection record has no id")
	ErrDuplicateID   = errors.New("collection record id is duplicated")
	ErrBadTimestamp  = errors.New("collection record has an unparsable lastModified")
)
