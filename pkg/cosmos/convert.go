// Copyright 2025 ChainCodec Authors

package cosmos

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/btcsuite/btcutil/bech32"

	"github.com/chaincodec/chaincodec/pkg/schema"
	"github.com/chaincodec/chaincodec/pkg/value"
)

// stripDenomination splits a numeric-with-suffix attribute value like
// "1000000uatom" into its leading digit run. An empty digit run (no
// leading digit at all, e.g. "uosmo") returns ok=false: the caller
// records Null plus a decode_errors entry rather than guessing a zero
// value.
func stripDenomination(raw string) (digits string, ok bool) {
	neg := strings.HasPrefix(raw, "-")
	s := raw
	if neg {
		s = s[1:]
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return "", false
	}
	if neg {
		return "-" + s[:i], true
	}
	return s[:i], true
}

// convertAttribute renders one attribute's string value as a
// NormalizedValue per ct's canonical kind. Bech32 and string fields are
// taken as-is; numeric fields have their denomination suffix stripped
// first.
func convertAttribute(raw string, ct schema.CanonicalType) (value.NormalizedValue, error) {
	switch ct.Kind {
	case schema.KindStr:
		return value.Str(raw), nil
	case schema.KindBech32:
		// Taken as-is in the output. Decoding here only validates the
		// checksum/charset, it never rewrites raw.
		if _, _, err := bech32.Decode(raw); err != nil {
			return value.NormalizedValue{}, fmt.Errorf("invalid bech32 address %q: %w", raw, err)
		}
		return value.Bech32(raw), nil
	case schema.KindUint, schema.KindDecimal:
		digits, ok := stripDenomination(raw)
		if !ok {
			return value.NormalizedValue{}, fmt.Errorf("no leading digit run in %q", raw)
		}
		n, okBig := new(big.Int).SetString(digits, 10)
		if !okBig {
			return value.NormalizedValue{}, fmt.Errorf("invalid integer %q", digits)
		}
		return value.NewUint(n), nil
	case schema.KindInt:
		digits, ok := stripDenomination(raw)
		if !ok {
			return value.NormalizedValue{}, fmt.Errorf("no leading digit run in %q", raw)
		}
		n, okBig := new(big.Int).SetString(digits, 10)
		if !okBig {
			return value.NormalizedValue{}, fmt.Errorf("invalid integer %q", digits)
		}
		return value.NewInt(n), nil
	case schema.KindTimestamp:
		digits, ok := stripDenomination(raw)
		if !ok {
			return value.NormalizedValue{}, fmt.Errorf("no leading digit run in %q", raw)
		}
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return value.NormalizedValue{}, fmt.Errorf("invalid timestamp %q: %w", digits, err)
		}
		return value.Timestamp(n), nil
	case schema.KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return value.NormalizedValue{}, fmt.Errorf("invalid bool %q: %w", raw, err)
		}
		return value.Bool(b), nil
	case schema.KindHash256:
		h := strings.TrimPrefix(raw, "0x")
		if len(h) != 64 {
			return value.NormalizedValue{}, fmt.Errorf("hash256 attribute must be 32 hex bytes, got %q", raw)
		}
		return value.Hash256("0x" + h), nil
	default:
		return value.NormalizedValue{}, fmt.Errorf("canonical kind %q is not representable as a flat ABCI attribute", ct.Kind)
	}
}
