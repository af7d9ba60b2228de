// Copyright 2025 ChainCodec Authors

package value

import (
	"math/big"
	"strings"
	"testing"
)

func TestNewUintBoundary(t *testing.T) {
	fits := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	v := NewUint(fits)
	if v.Kind() != KindUint {
		t.Fatalf("expected Uint for max 128-bit value, got %s", v.Kind())
	}

	tooWide := new(big.Int).Lsh(big.NewInt(1), 128)
	v2 := NewUint(tooWide)
	if v2.Kind() != KindBigUint {
		t.Fatalf("expected BigUint for 2^128, got %s", v2.Kind())
	}
	if strings.HasPrefix(v2.DecimalString(), "0") && v2.DecimalString() != "0" {
		t.Fatalf("BigUint decimal string has a leading zero: %s", v2.DecimalString())
	}
}

func TestNewIntBoundary(t *testing.T) {
	maxFits := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	if NewInt(maxFits).Kind() != KindInt {
		t.Fatalf("expected Int at signed 128-bit max")
	}
	tooWide := new(big.Int).Lsh(big.NewInt(1), 127)
	if NewInt(tooWide).Kind() != KindBigInt {
		t.Fatalf("expected BigInt just above signed 128-bit max")
	}
	negFits := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	if NewInt(negFits).Kind() != KindInt {
		t.Fatalf("expected Int at signed 128-bit min")
	}
}

func TestOrderedFieldsPreservesInsertionOrder(t *testing.T) {
	f := NewOrderedFields(3)
	f.Set("to", Str("b"))
	f.Set("from", Str("a"))
	f.Set("value", Str("c"))

	got := f.Names()
	want := []string{"to", "from", "value"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("field order mismatch: got %v want %v", got, want)
		}
	}

	// Overwriting must not move the field.
	f.Set("from", Str("a2"))
	if f.Names()[1] != "from" {
		t.Fatalf("overwrite moved field position: %v", f.Names())
	}
	v, _ := f.Get("from")
	if v.StrValue() != "a2" {
		t.Fatalf("overwrite did not update value")
	}
}

func TestMarshalJSONWideIntegerIsString(t *testing.T) {
	wide := new(big.Int).Lsh(big.NewInt(1), 200)
	v := NewUint(wide)
	b, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"`+wide.String()+`"`) {
		t.Fatalf("expected wide integer to be quoted in JSON, got %s", b)
	}
}

func TestMarshalJSONSmallIntegerIsNumber(t *testing.T) {
	v := NewUint(big.NewInt(42))
	b, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), `"42"`) {
		t.Fatalf("expected small integer as bare JSON number, got %s", b)
	}
}
