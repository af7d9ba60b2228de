// Copyright 2025 ChainCodec Authors
//
// Schema, FieldDef, and SchemaMeta: the ordered, immutable description
// of one event or message type that every decoder validates against.
package schema

import (
	"regexp"

	"github.com/chaincodec/chaincodec/pkg/value"
)

// TrustLevel tags how much verification a schema's authorship has had.
type TrustLevel string

const (
	TrustUnverified         TrustLevel = "unverified"
	TrustCommunityVerified  TrustLevel = "community_verified"
	TrustMaintainerVerified TrustLevel = "maintainer_verified"
	TrustProtocolVerified   TrustLevel = "protocol_verified"
)

// SchemaMeta carries protocol/category tags and version lineage.
type SchemaMeta struct {
	Protocol    string
	Category    string
	TrustLevel  TrustLevel
	Verified    bool
	Tags        []string
	SourceURL   string
	AuditedBy   []string

	// Supersedes/SupersededBy/Deprecated are lineage fields. Only the
	// registry writes SupersededBy back, see Registry.Add and Registry.Upsert.
	Supersedes    int // 0 means none
	SupersededBy  int // 0 means none
	Deprecated    bool
}

// FieldDef is one positional field of a schema. Order is part of the
// schema's identity.
type FieldDef struct {
	Name        string
	Type        CanonicalType
	Indexed     bool
	Description string
}

// Schema is the immutable, ordered, chain-tagged description of one
// event or message type.
type Schema struct {
	Name        string
	Version     int
	Chains      []string // chain slugs this schema applies to
	Event       string   // source-side event/instruction name
	Fingerprint value.EventFingerprint
	Fields      []FieldDef
	Address     string // optional contract-address lock
	Meta        SchemaMeta
}

// IndexedFields returns the schema's fields in order, indexed only.
func (s Schema) IndexedFields() []FieldDef {
	out := make([]FieldDef, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Indexed {
			out = append(out, f)
		}
	}
	return out
}

// AppliesToChain reports whether slug is in s.Chains.
func (s Schema) AppliesToChain(slug string) bool {
	for _, c := range s.Chains {
		if c == slug {
			return true
		}
	}
	return false
}

var pascalCase = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// IsPascalCase reports whether name is a valid schema name per the CSDL
// grammar.
func IsPascalCase(name string) bool {
	return pascalCase.MatchString(name)
}

// CanonicalSignature builds the "event(T1,T2,...)" string used to
// compute an EVM fingerprint when one isn't supplied.
func (s Schema) CanonicalSignature() string {
	sig := s.Event + "("
	for i, f := range s.Fields {
		if i > 0 {
			sig += ","
		}
		sig += f.Type.EVMTypeName()
	}
	return sig + ")"
}
