// Copyright 2025 ChainCodec Authors
//
// ParseType resolves one CSDL type token (scalars, fixed/dynamic
// arrays, and anonymous tuples) into a schema.CanonicalType.
package csdl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/chaincodec/chaincodec/pkg/schema"
)

var (
	reUint    = regexp.MustCompile(`^uint<(\d+)>$`)
	reInt     = regexp.MustCompile(`^int<(\d+)>$`)
	reBytesN  = regexp.MustCompile(`^bytes<(\d+)>$`)
	reDecimal = regexp.MustCompile(`^decimal\{decimals=(\d+)\}$`)
	reArrSuf  = regexp.MustCompile(`^(.*)\[(\d*)\]$`)
)

// ParseType resolves one CSDL type token per the grammar. It is
// whitespace-insensitive inside brackets: all whitespace is stripped
// before parsing, since the grammar has no token in which whitespace is
// significant.
func ParseType(token string) (schema.CanonicalType, error) {
	t := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, token)
	if t == "" {
		return schema.CanonicalType{}, fmt.Errorf("empty type token")
	}
	return parseType(t)
}

func parseType(t string) (schema.CanonicalType, error) {
	if m := reArrSuf.FindStringSubmatch(t); m != nil {
		elemTok, lenTok := m[1], m[2]
		elem, err := parseType(elemTok)
		if err != nil {
			return schema.CanonicalType{}, err
		}
		arrLen := 0
		if lenTok != "" {
			n, err := strconv.Atoi(lenTok)
			if err != nil {
				return schema.CanonicalType{}, fmt.Errorf("invalid array length in %q: %w", t, err)
			}
			arrLen = n
		}
		return schema.CanonicalType{Kind: schema.KindArray, Elem: &elem, ArrayLen: arrLen}, nil
	}

	if strings.HasPrefix(t, "(") {
		if !strings.HasSuffix(t, ")") {
			return schema.CanonicalType{}, fmt.Errorf("unterminated tuple type %q", t)
		}
		inner := t[1 : len(t)-1]
		return parseTuple(inner)
	}

	switch t {
	case "bool":
		return schema.CanonicalType{Kind: schema.KindBool}, nil
	case "string", "str":
		return schema.CanonicalType{Kind: schema.KindStr}, nil
	case "address":
		return schema.CanonicalType{Kind: schema.KindAddress, AddressFamily: "evm"}, nil
	case "pubkey":
		return schema.CanonicalType{Kind: schema.KindPubkey}, nil
	case "bech32address":
		return schema.CanonicalType{Kind: schema.KindBech32}, nil
	case "hash256":
		return schema.CanonicalType{Kind: schema.KindHash256}, nil
	case "timestamp":
		return schema.CanonicalType{Kind: schema.KindTimestamp}, nil
	case "bytes":
		return schema.CanonicalType{Kind: schema.KindBytes}, nil
	}

	if m := reBytesN.FindStringSubmatch(t); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n < 1 || n > 32 {
			return schema.CanonicalType{}, fmt.Errorf("bytes<%d>: N must be 1..32", n)
		}
		return schema.CanonicalType{Kind: schema.KindBytes, FixedLen: n}, nil
	}
	if m := reUint.FindStringSubmatch(t); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n < 8 || n > 256 || n%8 != 0 {
			return schema.CanonicalType{}, fmt.Errorf("uint<%d>: N must be a multiple of 8 in 8..256", n)
		}
		return schema.CanonicalType{Kind: schema.KindUint, Bits: n}, nil
	}
	if m := reInt.FindStringSubmatch(t); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n < 8 || n > 256 || n%8 != 0 {
			return schema.CanonicalType{}, fmt.Errorf("int<%d>: N must be a multiple of 8 in 8..256", n)
		}
		return schema.CanonicalType{Kind: schema.KindInt, Bits: n}, nil
	}
	if m := reDecimal.FindStringSubmatch(t); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n < 0 || n > 38 {
			return schema.CanonicalType{}, fmt.Errorf("decimal{decimals=%d}: N must be 0..38", n)
		}
		return schema.CanonicalType{Kind: schema.KindDecimal, DecimalScale: n}, nil
	}

	return schema.CanonicalType{}, fmt.Errorf("unrecognized type token %q", t)
}

func parseTuple(inner string) (schema.CanonicalType, error) {
	parts := splitTopLevel(inner)
	fields := make([]schema.FieldDef, 0, len(parts))
	for i, p := range parts {
		ct, err := parseType(p)
		if err != nil {
			return schema.CanonicalType{}, fmt.Errorf("tuple member %d: %w", i, err)
		}
		fields = append(fields, schema.FieldDef{Name: fmt.Sprintf("item%d", i), Type: ct})
	}
	return schema.CanonicalType{Kind: schema.KindTuple, Fields: fields}, nil
}

// splitTopLevel splits s on commas that are not nested inside
// (), [], or {}, needed for nested anonymous tuples like "(uint<256>,(address,bool))".
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
