// Copyright 2025 ChainCodec Authors
//
// Positional Borsh decoding primitives: all multi-byte integers are
// little-endian, strings and dynamic byte slices are length-prefixed
// with a u32, and fixed arrays and structs carry no length prefix.
package solana

import (
	"fmt"
	"math/big"

	"github.com/mr-tron/base58"
)

// borshReader positionally consumes a Borsh-encoded byte stream.
type borshReader struct {
	data []byte
	pos  int
}

func newBorshReader(data []byte) *borshReader {
	return &borshReader{data: data}
}

func (r *borshReader) take(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, ErrTruncatedData
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// readUint reads bits/8 little-endian bytes as an unsigned magnitude.
func (r *borshReader) readUint(bits int) (*big.Int, error) {
	b, err := r.take(bits / 8)
	if err != nil {
		return nil, err
	}
	return leBytesToUint(b), nil
}

// readInt reads bits/8 little-endian bytes as a two's-complement signed value.
func (r *borshReader) readInt(bits int) (*big.Int, error) {
	b, err := r.take(bits / 8)
	if err != nil {
		return nil, err
	}
	n := leBytesToUint(b)
	half := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	mod := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	if n.Cmp(half) >= 0 {
		n.Sub(n, mod)
	}
	return n, nil
}

func (r *borshReader) readBool() (bool, error) {
	b, err := r.take(1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// readPubkey reads a 32-byte Solana public key and base58-encodes it.
func (r *borshReader) readPubkey() (string, error) {
	b, err := r.take(32)
	if err != nil {
		return "", err
	}
	return base58.Encode(b), nil
}

func (r *borshReader) readFixedBytes(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// readLen reads a Borsh u32 length prefix (used by Vec<T>, bytes, and string).
func (r *borshReader) readLen() (int, error) {
	n, err := r.readUint(32)
	if err != nil {
		return 0, err
	}
	return int(n.Uint64()), nil
}

func (r *borshReader) readDynamicBytes() ([]byte, error) {
	n, err := r.readLen()
	if err != nil {
		return nil, err
	}
	return r.readFixedBytes(n)
}

func (r *borshReader) readString() (string, error) {
	b, err := r.readDynamicBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// readOptionTag reads Option<T>'s leading tag byte: 0 = None, 1 = Some.
func (r *borshReader) readOptionTag() (bool, error) {
	b, err := r.take(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: got %d", ErrOptionTagRange, b[0])
	}
}

func leBytesToUint(b []byte) *big.Int {
	rev := make([]byte, len(b))
	for i, v := range b {
		rev[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(rev)
}
