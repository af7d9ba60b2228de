// Copyright 2025 ChainCodec Authors

package csdl

import (
	"github.com/chaincodec/chaincodec/pkg/schema"
	"github.com/chaincodec/chaincodec/pkg/value"
)

// convert turns a rawDoc into a validated schema.Schema, resolving
// field types, then computing or verifying the fingerprint, then
// running schema.Schema.Validate, in that order: split, deserialize,
// convert fields, resolve types, validate.
func convert(idx int, raw rawDoc) (schema.Schema, error) {
	fields := make([]schema.FieldDef, 0, len(raw.fields))
	for _, rf := range raw.fields {
		ct, err := ParseType(rf.typeToken)
		if err != nil {
			return schema.Schema{}, parseErrorf(idx, "field %q: %v", rf.name, err)
		}
		fields = append(fields, schema.FieldDef{
			Name:        rf.name,
			Type:        ct,
			Indexed:     rf.indexed,
			Description: rf.description,
		})
	}

	s := schema.Schema{
		Name:    raw.name,
		Version: raw.version,
		Chains:  raw.chains,
		Event:   raw.event,
		Fields:  fields,
		Address: raw.address,
		Meta:    raw.meta,
	}
	s.Meta.Supersedes = raw.supersedes
	s.Meta.SupersededBy = raw.supersededBy
	s.Meta.Deprecated = raw.deprecated

	if err := resolveFingerprint(&s, raw.fingerprint); err != nil {
		return schema.Schema{}, parseErrorf(idx, "%v", err)
	}

	if err := s.Validate(); err != nil {
		return schema.Schema{}, parseErrorf(idx, "%v", err)
	}
	return s, nil
}

// resolveFingerprint implements the fingerprint rule: an EVM schema
// computes its fingerprint from the canonical signature when the CSDL
// document leaves it blank, and a supplied value must agree with that
// computation. Non-EVM schemas and schemas targeting an unknown chain
// family must supply a literal fingerprint.
func resolveFingerprint(s *schema.Schema, literal string) error {
	isEVM := false
	for _, c := range s.Chains {
		if id, ok := value.LookupSlug(c); ok && id.Family == value.ChainFamilyEVM {
			isEVM = true
		}
	}

	if !isEVM {
		if literal == "" {
			return schema.ErrFingerprintLength
		}
		s.Fingerprint = value.EventFingerprint(literal)
		return nil
	}

	computed := value.EVMFingerprint(s.CanonicalSignature())
	if literal == "" {
		s.Fingerprint = computed
		return nil
	}
	if value.EventFingerprint(literal) != computed {
		return schema.ErrFingerprintMismatch
	}
	s.Fingerprint = computed
	return nil
}
