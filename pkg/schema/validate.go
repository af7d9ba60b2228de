// Copyright 2025 ChainCodec Authors
//
// Schema.Validate runs the structural checks a parsed schema must pass
// before it can be registered.
package schema

import (
	"fmt"

	"github.com/chaincodec/chaincodec/pkg/value"
)

// Validate runs the structural checks on a parsed schema. It does not
// check fingerprint agreement; EVM fingerprint computation/verification
// lives in pkg/csdl, since it needs the canonical-signature logic that is
// parse-time, not registry-time.
func (s Schema) Validate() error {
	if len(s.Fields) == 0 {
		return ErrEmptyFieldList
	}
	if !IsPascalCase(s.Name) {
		return fmt.Errorf("%w: %q", ErrNotPascalCase, s.Name)
	}
	if s.Version <= 0 {
		return ErrNonPositiveVersion
	}
	if len(s.Chains) == 0 {
		return ErrNoChains
	}
	if s.Meta.Supersedes > 0 && s.Meta.Supersedes == s.Meta.SupersededBy {
		return ErrLineageConflict
	}

	seen := make(map[string]bool, len(s.Fields))
	indexedCount := 0
	isEVM := false
	for _, c := range s.Chains {
		if id, ok := value.LookupSlug(c); ok && id.Family == value.ChainFamilyEVM {
			isEVM = true
		}
	}
	for _, f := range s.Fields {
		if seen[f.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateFieldName, f.Name)
		}
		seen[f.Name] = true
		if f.Indexed {
			indexedCount++
		}
	}
	if isEVM && indexedCount > 3 {
		return ErrTooManyIndexedEVM
	}

	if len(s.Fingerprint) > 0 {
		if err := s.validateFingerprintLength(); err != nil {
			return err
		}
	}
	return nil
}

func (s Schema) validateFingerprintLength() error {
	b, err := s.Fingerprint.Bytes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFingerprintLength, err)
	}
	for _, c := range s.Chains {
		id, ok := value.LookupSlug(c)
		if !ok {
			continue
		}
		var want int
		switch id.Family {
		case value.ChainFamilyEVM:
			want = 32
		case value.ChainFamilySolana:
			want = 8
		case value.ChainFamilyCosmos:
			want = 16
		default:
			continue
		}
		if len(b) != want {
			return fmt.Errorf("%w: chain %s expects %d bytes, got %d", ErrFingerprintLength, c, want, len(b))
		}
	}
	return nil
}
