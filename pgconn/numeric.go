package pgconn

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// numeric sign markers, as carried in the wire-format header.
const (
	numericPos = 0x0000
	numericNeg = 0x4000
	numericNaN = 0xC000
)

// encodeNumeric renders d in the NUMERIC binary wire format: a header of
// (ndigits, weight, sign, dscale) followed by ndigits base-10000 groups,
// most significant first.
func encodeNumeric(d decimal.Decimal) ([]byte, error) {
	coeff := d.Coefficient()
	neg := coeff.Sign() < 0
	if neg {
		coeff = new(big.Int).Neg(coeff)
	}
	exp := d.Exponent()

	digits := coeff.String()
	if digits == "0" {
		digits = ""
	}

	var fracDigits int
	if exp < 0 {
		fracDigits = int(-exp)
	}
	dscale := fracDigits

	whole := digits
	if exp > 0 {
		whole += strings.Repeat("0", int(exp))
	}

	intDigits := len(whole) - fracDigits
	if intDigits < 0 {
		whole = strings.Repeat("0", -intDigits) + whole
		intDigits = 0
	}

	leftPad := (4 - intDigits%4) % 4
	rightPad := (4 - fracDigits%4) % 4
	padded := strings.Repeat("0", leftPad) + whole + strings.Repeat("0", rightPad)
	intDigits += leftPad
	fracDigits += rightPad

	ngroups := (intDigits + fracDigits) / 4
	weight := intDigits/4 - 1

	buf := make([]byte, 0, 8+ngroups*2)
	buf = appendUint16(buf, uint16(ngroups))
	buf = appendUint16(buf, uint16(int16(weight)))
	if neg {
		buf = appendUint16(buf, numericNeg)
	} else {
		buf = appendUint16(buf, numericPos)
	}
	buf = appendUint16(buf, uint16(dscale))

	for i := 0; i < ngroups; i++ {
		group, err := strconv.Atoi(padded[i*4 : i*4+4])
		if err != nil {
			return nil, fmt.Errorf("pgconn: encode numeric group %d: %w", i, err)
		}
		buf = appendUint16(buf, uint16(group))
	}

	return buf, nil
}

// decodeNumeric parses the NUMERIC binary wire format back into a
// decimal.Decimal.
func decodeNumeric(src []byte) (decimal.Decimal, error) {
	if len(src) < 8 {
		return decimal.Decimal{}, fmt.Errorf("pgconn: numeric body too short")
	}

	ndigits := int(binary.BigEndian.Uint16(src[0:2]))
	weight := int16(binary.BigEndian.Uint16(src[2:4]))
	sign := binary.BigEndian.Uint16(src[4:6])
	body := src[8:]

	if sign == numericNaN {
		return decimal.Decimal{}, fmt.Errorf("pgconn: NaN numeric value")
	}
	if len(body) < ndigits*2 {
		return decimal.Decimal{}, fmt.Errorf("pgconn: numeric digit groups truncated")
	}

	n := new(big.Int)
	base := big.NewInt(10000)
	for i := 0; i < ndigits; i++ {
		group := binary.BigEndian.Uint16(body[i*2 : i*2+2])
		n.Mul(n, base)
		n.Add(n, big.NewInt(int64(group)))
	}

	if sign == numericNeg {
		n.Neg(n)
	}

	exp := 4 * (int(weight) - ndigits + 1)
	return decimal.NewFromBigInt(n, int32(exp)), nil
}

func appendUint16(dst []byte, v uint16) []byte {
	return append(dst, byte(v>>8), byte(v))
}
