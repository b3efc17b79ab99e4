package validators

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/MKhiriev/go-salon-sync/models"
)

// Field names accepted by [CollectionValidator.Validate].
const (
	// FieldKey targets the collection key.
	FieldKey = "key"

	// FieldValue targets the serialized collection.
	FieldValue = "value"
)

const (
	// MaxKeyLength bounds collection keys.
	MaxKeyLength = 64

	// MaxValueSize bounds a serialized collection.
	MaxValueSize = 16 << 20
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// CollectionValidator validates collection keys and serialized collections.
// A valid collection is a JSON array of objects, each carrying a non-empty
// string "id" unique within the array and, when present, a parsable
// "lastModified".
type CollectionValidator struct{}

func NewCollectionValidator() Validator {
	return &CollectionValidator{}
}

// Validate accepts models.PutCollectionRequest, models.WatchRequest,
// models.GetCollectionRequest or a bare key string.
func (v *CollectionValidator) Validate(ctx context.Context, data any, fields ...string) error {
	switch value := data.(type) {
	case models.PutCollectionRequest:
		return v.validatePut(ctx, value, fields...)
	case *models.PutCollectionRequest:
		return v.validatePut(ctx, *value, fields...)
	case models.WatchRequest:
		return v.validateKey(value.Key)
	case models.GetCollectionRequest:
		return v.validateKey(value.Key)
	case string:
		return v.validateKey(value)
	default:
		return ErrUnsupportedType
	}
}

func (v *CollectionValidator) validatePut(_ context.Context, request models.PutCollectionRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldKey, FieldValue}
	}

	for _, f := range fields {
		switch f {
		case FieldKey:
			if err := v.validateKey(request.Key); err != nil {
				return err
			}
		case FieldValue:
			if err := v.validateValue(request.Value); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *CollectionValidator) validateKey(key string) error {
	switch {
	case key == "":
		return ErrEmptyKey
	case len(key) > MaxKeyLength:
		return ErrKeyTooLong
	case !keyPattern.MatchString(key):
		return ErrInvalidKey
	}
	return nil
}

// validateValue decodes only the attributes the sync engine relies on; the
// rest of each record stays opaque.
func (v *CollectionValidator) validateValue(value string) error {
	if len(value) > MaxValueSize {
		return ErrValueTooLarge
	}

	trimmed := bytes.TrimSpace([]byte(value))
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return ErrNotArray
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return fmt.Errorf("%w: %w", ErrNotArray, err)
	}

	seen := make(map[string]struct{}, len(elements))
	for i, raw := range elements {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			return fmt.Errorf("element %d: %w", i, ErrNotObject)
		}

		var rec struct {
			ID           *string `json:"id"`
			LastModified *string `json:"lastModified"`
		}
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("element %d: %w: %w", i, ErrMissingID, err)
		}
		if rec.ID == nil || *rec.ID == "" {
			return fmt.Errorf("element %d: %w", i, ErrMissingID)
		}
		if _, dup := seen[*rec.ID]; dup {
			return fmt.Errorf("element %d (id %q): %w", i, *rec.ID, ErrDuplicateID)
		}
		seen[*rec.ID] = struct{}{}

		if rec.LastModified != nil && *rec.LastModified != "" {
			if _, ok := models.ParseTimestamp(*rec.LastModified); !ok {
				return fmt.Errorf("element %d (id %q): %w", i, *rec.ID, ErrBadTimestamp)
			}
		}
	}

	return nil
}
