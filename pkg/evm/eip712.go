// Copyright 2025 ChainCodec Authors
//
// EIP-712 typed-data parsing and domain-separator/type-hash computation,
// following EIP-712 v4's encodeType/encodeData/hashStruct rules.
package evm

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/chaincodec/chaincodec/pkg/value"
)

// TypedDataField is one member of an EIP-712 struct type definition.
type TypedDataField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ParsedTypedData is the parsed form of an EIP-712 typed-data document:
// the type graph, the primary type, and the original domain/message
// values. It does not compute or verify signatures.
type ParsedTypedData struct {
	Types       map[string][]TypedDataField `json:"types"`
	PrimaryType string                      `json:"primaryType"`
	Domain      map[string]interface{}      `json:"domain"`
	Message     map[string]interface{}      `json:"message"`
}

// ParseTypedData parses raw EIP-712 JSON (per EIP-712 v4) and validates
// that EIP712Domain is declared in types.
func ParseTypedData(raw []byte) (*ParsedTypedData, error) {
	var td ParsedTypedData
	if err := json.Unmarshal(raw, &td); err != nil {
		return nil, fmt.Errorf("evm: parsing EIP-712 document: %w", err)
	}
	if _, ok := td.Types["EIP712Domain"]; !ok {
		return nil, fmt.Errorf("evm: EIP712Domain must be present in types")
	}
	if td.PrimaryType == "" {
		return nil, fmt.Errorf("evm: primaryType is required")
	}
	return &td, nil
}

// DomainSeparator computes keccak256(abi_encode(EIP712Domain type hash,
// domain field hashes)) per EIP-712 §4.
func (td *ParsedTypedData) DomainSeparator() (value.NormalizedValue, error) {
	h, err := hashStruct(td.Types, "EIP712Domain", td.Domain)
	if err != nil {
		return value.NormalizedValue{}, fmt.Errorf("evm: computing domain separator: %w", err)
	}
	return value.Hash256(fmt.Sprintf("0x%x", h)), nil
}

// arrayTypeSuffix matches a trailing "[]" or "[N]" on a field type name.
var arrayTypeSuffix = regexp.MustCompile(`\[\d*\]$`)

func baseTypeName(t string) string {
	return arrayTypeSuffix.ReplaceAllString(t, "")
}

func isArrayType(t string) bool {
	return arrayTypeSuffix.MatchString(t)
}

// findDependencies walks the struct-reference graph reachable from
// primaryType, the way EIP-712's encodeType requires (transitive
// closure, deduplicated).
func findDependencies(types map[string][]TypedDataField, primary string, found map[string]bool) {
	if found[primary] {
		return
	}
	fields, ok := types[primary]
	if !ok {
		return // not a declared struct type (a primitive like uint256, address, ...)
	}
	found[primary] = true
	for _, f := range fields {
		findDependencies(types, baseTypeName(f.Type), found)
	}
}

// encodeType renders "Primary(fieldType fieldName,...)" followed by
// every transitively referenced struct type, sorted alphabetically
// (excluding the primary type itself), per EIP-712 §4.
func encodeType(types map[string][]TypedDataField, primary string) string {
	deps := map[string]bool{}
	findDependencies(types, primary, deps)
	delete(deps, primary)

	sorted := make([]string, 0, len(deps))
	for t := range deps {
		sorted = append(sorted, t)
	}
	sort.Strings(sorted)

	all := append([]string{primary}, sorted...)
	var sb strings.Builder
	for _, t := range all {
		sb.WriteString(t)
		sb.WriteByte('(')
		for i, f := range types[t] {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(f.Type)
			sb.WriteByte(' ')
			sb.WriteString(f.Name)
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

func typeHash(types map[string][]TypedDataField, primary string) []byte {
	return crypto.Keccak256([]byte(encodeType(types, primary)))
}

// hashStruct implements EIP-712's hashStruct: keccak256(typeHash ||
// concat(encodeField(value) for each declared field in order)).
func hashStruct(types map[string][]TypedDataField, primary string, data map[string]interface{}) ([]byte, error) {
	fields, ok := types[primary]
	if !ok {
		return nil, fmt.Errorf("type %q is not declared", primary)
	}
	encoded := append([]byte{}, typeHash(types, primary)...)
	for _, f := range fields {
		enc, err := encodeField(types, f.Type, data[f.Name])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		encoded = append(encoded, enc...)
	}
	return crypto.Keccak256(encoded), nil
}

// encodeField renders one field value to its 32-byte ABI-encoded
// member form per EIP-712 §4's encodeData rules.
func encodeField(types map[string][]TypedDataField, typeName string, v interface{}) ([]byte, error) {
	if isArrayType(typeName) {
		elemType := baseTypeName(typeName)
		items, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("expected array value for type %s", typeName)
		}
		var concat []byte
		for _, item := range items {
			enc, err := encodeField(types, elemType, item)
			if err != nil {
				return nil, err
			}
			concat = append(concat, enc...)
		}
		return crypto.Keccak256(concat), nil
	}

	if _, ok := types[typeName]; ok {
		sub, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("expected object value for struct type %s", typeName)
		}
		return hashStruct(types, typeName, sub)
	}

	switch {
	case typeName == "string":
		s, _ := v.(string)
		return crypto.Keccak256([]byte(s)), nil
	case typeName == "bytes":
		b, _ := v.([]byte)
		if s, ok := v.(string); ok {
			var err error
			if b, err = hex.DecodeString(strings.TrimPrefix(s, "0x")); err != nil {
				return nil, fmt.Errorf("invalid hex for type bytes: %w", err)
			}
		}
		return crypto.Keccak256(b), nil
	case typeName == "bool":
		b, _ := v.(bool)
		out := make([]byte, 32)
		if b {
			out[31] = 1
		}
		return out, nil
	case typeName == "address":
		s, _ := v.(string)
		raw, err := value.ParseAddress(s)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q: %w", s, err)
		}
		out := make([]byte, 32)
		copy(out[12:], raw[:])
		return out, nil
	case strings.HasPrefix(typeName, "uint"), strings.HasPrefix(typeName, "int"):
		n, err := toEIP712Int(v)
		if err != nil {
			return nil, err
		}
		out := make([]byte, 32)
		b := n.Bytes()
		if n.Sign() < 0 {
			mod := new(big.Int).Lsh(big.NewInt(1), 256)
			b = new(big.Int).Add(mod, n).Bytes()
		}
		copy(out[32-len(b):], b)
		return out, nil
	case strings.HasPrefix(typeName, "bytes"):
		b, ok := v.([]byte)
		if !ok {
			if s, ok := v.(string); ok {
				var err error
				if b, err = hex.DecodeString(strings.TrimPrefix(s, "0x")); err != nil {
					return nil, fmt.Errorf("invalid hex for type %s: %w", typeName, err)
				}
			}
		}
		out := make([]byte, 32)
		copy(out, b)
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported EIP-712 field type %q", typeName)
	}
}

func toEIP712Int(v interface{}) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return n, nil
	case string:
		parsed, ok := new(big.Int).SetString(n, 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer string %q", n)
		}
		return parsed, nil
	case float64:
		return big.NewInt(int64(n)), nil
	default:
		return nil, fmt.Errorf("unsupported integer value type %T", v)
	}
}
