// Copyright 2025 ChainCodec Authors

package schema

import (
	"errors"
	"fmt"
)

// Sentinel validation and lookup errors.
var (
	ErrDuplicateFieldName  = errors.New("duplicate field name")
	ErrEmptyFieldList      = errors.New("schema must have at least one field")
	ErrNotPascalCase       = errors.New("schema name must be PascalCase")
	ErrNonPositiveVersion  = errors.New("schema version must be positive")
	ErrLineageConflict     = errors.New("supersedes and superseded_by cannot reference the same version")
	ErrTooManyIndexedEVM   = errors.New("EVM schemas allow at most 3 indexed fields")
	ErrFingerprintLength   = errors.New("fingerprint length inconsistent with chain family")
	ErrFingerprintMismatch = errors.New("provided fingerprint disagrees with computed fingerprint")
	ErrNoChains            = errors.New("schema must apply to at least one chain")

	ErrSchemaNotFound = errors.New("schema not found")
)

// ConflictKind distinguishes the two ways Registry.Add can fail.
type ConflictKind string

const (
	ConflictDuplicateFingerprint   ConflictKind = "duplicate_fingerprint"
	ConflictDuplicateNameVersion   ConflictKind = "duplicate_name_version"
)

// RegistryConflictError reports why an add/upsert was rejected.
type RegistryConflictError struct {
	Kind ConflictKind
	Name string
	Version int
}

func (e *RegistryConflictError) Error() string {
	return fmt.Sprintf("registry conflict (%s) for %s v%d", e.Kind, e.Name, e.Version)
}
