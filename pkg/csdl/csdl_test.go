// Copyright 2025 ChainCodec Authors

package csdl

import (
	"strings"
	"testing"

	"github.com/chaincodec/chaincodec/pkg/schema"
)

const erc20CSDL = `
schema ERC20Transfer:
  version: 1
  chains: [ethereum]
  event: Transfer
  fingerprint: ""
  fields:
    from:
      type: address
      indexed: true
    to:
      type: address
      indexed: true
    value:
      type: uint<256>
  meta:
    protocol: erc20
    trust_level: protocol_verified
    verified: true
`

func TestParseERC20TransferSchema(t *testing.T) {
	schemas, errs := Parse(erc20CSDL)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(schemas) != 1 {
		t.Fatalf("expected 1 schema, got %d", len(schemas))
	}
	s := schemas[0]
	if s.Name != "ERC20Transfer" || s.Version != 1 {
		t.Fatalf("unexpected name/version: %+v", s)
	}
	if len(s.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(s.Fields))
	}
	wantOrder := []string{"from", "to", "value"}
	for i, name := range wantOrder {
		if s.Fields[i].Name != name {
			t.Fatalf("field order mismatch at %d: want %q got %q", i, name, s.Fields[i].Name)
		}
	}
	if !s.Fields[0].Indexed || !s.Fields[1].Indexed || s.Fields[2].Indexed {
		t.Fatalf("unexpected indexed flags: %+v", s.Fields)
	}
	if s.Fingerprint == "" {
		t.Fatalf("expected fingerprint to be auto-computed")
	}
}

func TestParseMultiDocument(t *testing.T) {
	src := erc20CSDL + "\n---\n" + strings.Replace(erc20CSDL, "ERC20Transfer", "ERC20TransferV2", 1)
	schemas, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(schemas) != 2 {
		t.Fatalf("expected 2 schemas, got %d", len(schemas))
	}
}

// TestFingerprintDeterminism checks that for an EVM schema whose
// fingerprint is omitted, recomputing it and feeding it back in as a
// literal parses successfully and produces an equivalent schema.
func TestFingerprintDeterminism(t *testing.T) {
	schemas, errs := Parse(erc20CSDL)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	computed := schemas[0].Fingerprint

	withLiteral := strings.Replace(erc20CSDL, `fingerprint: ""`, "fingerprint: \""+string(computed)+"\"", 1)
	schemas2, errs2 := Parse(withLiteral)
	if len(errs2) != 0 {
		t.Fatalf("unexpected errors with literal fingerprint: %v", errs2)
	}
	if schemas2[0].Fingerprint != computed {
		t.Fatalf("fingerprint mismatch: %s vs %s", schemas2[0].Fingerprint, computed)
	}
	if schemas2[0].Name != schemas[0].Name || len(schemas2[0].Fields) != len(schemas[0].Fields) {
		t.Fatalf("schemas are not equivalent: %+v vs %+v", schemas2[0], schemas[0])
	}
}

func TestParseRejectsMismatchedFingerprint(t *testing.T) {
	bad := strings.Replace(erc20CSDL, `fingerprint: ""`, `fingerprint: "0xdeadbeef"`, 1)
	_, errs := Parse(bad)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one parse error, got %d: %v", len(errs), errs)
	}
	var pe *ParseError
	if !asParseError(errs[0], &pe) {
		t.Fatalf("expected a *ParseError, got %T", errs[0])
	}
}

func TestParseRejectsTooManyIndexedFields(t *testing.T) {
	bad := strings.Replace(erc20CSDL, "    value:\n      type: uint<256>\n", "    value:\n      type: uint<256>\n      indexed: true\n    extra:\n      type: bool\n      indexed: true\n", 1)
	_, errs := Parse(bad)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one parse error, got %d: %v", len(errs), errs)
	}
}

func TestParseTupleAndArrayTypes(t *testing.T) {
	src := `
schema BatchSwap:
  version: 1
  chains: [ethereum]
  event: BatchSwap
  fingerprint: ""
  fields:
    amounts:
      type: uint<256>[]
    route:
      type: (address,uint<256>)[3]
`
	schemas, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	s := schemas[0]
	if s.Fields[0].Type.Kind != schema.KindArray || s.Fields[0].Type.ArrayLen != 0 {
		t.Fatalf("expected dynamic array for amounts, got %+v", s.Fields[0].Type)
	}
	if s.Fields[1].Type.Kind != schema.KindArray || s.Fields[1].Type.ArrayLen != 3 {
		t.Fatalf("expected fixed array of len 3 for route, got %+v", s.Fields[1].Type)
	}
	if s.Fields[1].Type.Elem.Kind != schema.KindTuple || len(s.Fields[1].Type.Elem.Fields) != 2 {
		t.Fatalf("expected array element to be a 2-tuple, got %+v", s.Fields[1].Type.Elem)
	}
}

func asParseError(err error, target **ParseError) bool {
	if pe, ok := err.(*ParseError); ok {
		*target = pe
		return true
	}
	return false
}
