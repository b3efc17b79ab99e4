// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks writes to the shared collection store before
// they reach storage.
//
// A Validator accepts any value and an optional list of field names. With
// no fields every rule for the value's type runs; naming fields restricts
// validation to those rules, e.g. checking only the key of a request.
package validators

import "context"

// Validator validates arbitrary input, optionally restricted to the named
// fields.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
