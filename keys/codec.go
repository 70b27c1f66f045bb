// Package keys builds the string keys the datastore orders lexically.
//
// Owner scoped collections are keyed "-" + zero padded owner id + entity key, so every entity of
// one owner sorts contiguously and the next owner id bounds the range from above.
package keys

import (
	"math/big"
	"strings"

	serverError "github.com/supakorn-kn/go-sketchpatch/errors"
)

// IDWidth is the number of decimal digits an owner id is padded to. Platform user ids are
// 21 digit numbers, so ids are handled as big.Int rather than uint64.
const IDWidth = 23

const digits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// EncodeID renders id as a decimal string left padded with zeros to exactly width digits.
func EncodeID(id *big.Int, width int) (string, error) {

	if id == nil || id.Sign() < 0 {
		return "", serverError.KeyFormatError.New(id.String(), "identifier must be non-negative")
	}

	if width < 1 {
		return "", serverError.KeyFormatError.New(id.String(), "width must be positive")
	}

	text := id.Text(10)
	if len(text) > width {
		return "", serverError.KeyFormatError.New(text, "more digits than key width")
	}

	return strings.Repeat("0", width-len(text)) + text, nil
}

// DecodeID parses a zero padded decimal produced by EncodeID.
func DecodeID(s string) (*big.Int, error) {

	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return nil, serverError.KeyFormatError.New(s, "not a decimal identifier")
	}

	id, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, serverError.KeyFormatError.New(s, "not a decimal identifier")
	}

	return id, nil
}

// ToBase converts num to its representation in base using the alphabet 0-9A-Za-z,
// most significant digit first.
func ToBase(num *big.Int, base int) (string, error) {

	if base < 2 || base > len(digits) {
		return "", serverError.InvalidBaseError.New(num.String(), base)
	}

	if num == nil || num.Sign() < 0 {
		return "", serverError.InvalidBaseError.New(num.String(), base)
	}

	if num.Sign() == 0 {
		return "0", nil
	}

	var (
		out  []byte
		n    = new(big.Int).Set(num)
		b    = big.NewInt(int64(base))
		rem  = new(big.Int)
		zero = big.NewInt(0)
	)

	for n.Cmp(zero) > 0 {
		n.QuoRem(n, b, rem)
		out = append(out, digits[rem.Int64()])
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return string(out), nil
}

// FromBase parses s written in base with the alphabet 0-9A-Za-z.
func FromBase(s string, base int) (*big.Int, error) {

	if base < 2 || base > len(digits) || s == "" {
		return nil, serverError.InvalidBaseError.New(s, base)
	}

	var (
		sum = new(big.Int)
		b   = big.NewInt(int64(base))
	)

	for i := 0; i < len(s); i++ {

		d := strings.IndexByte(digits, s[i])
		if d < 0 || d >= base {
			return nil, serverError.InvalidBaseError.New(s, base)
		}

		sum.Mul(sum, b)
		sum.Add(sum, big.NewInt(int64(d)))
	}

	return sum, nil
}
