/*
Package coin implements the value type moved around by the ledger and the
vaults. A Coin is a fixed point number of a single currency: whole units
plus a fractional part counted in minor units (FracUnit per whole).
*/
package coin

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
	"github.com/iov-one/pool/errors"
)

// IsCC is the RegExp to ensure valid currency codes
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

const (
	// MaxInt is the largest whole value we accept
	MaxInt int64 = 999999999999999 // 10^15-1
	// MinInt is the lowest whole value we accept
	MinInt = -MaxInt

	// FracUnit is the smallest numbers we divide by
	FracUnit int64 = 1000000000 // fractional units = 10^9
	// MaxFrac is the highest possible fractional value
	MaxFrac = FracUnit - 1
	// MinFrac is the lowest possible fractional value
	MinFrac = -MaxFrac
)

// Coin is an amount of a single currency.
type Coin struct {
	Whole      int64  `json:"whole,omitempty"`
	Fractional int64  `json:"fractional,omitempty"`
	Ticker     string `json:"ticker"`
}

// NewCoin creates a new coin object
func NewCoin(whole int64, fractional int64, ticker string) Coin {
	return Coin{
		Whole:      whole,
		Fractional: fractional,
		Ticker:     ticker,
	}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(whole, fractional int64, ticker string) *Coin {
	c := NewCoin(whole, fractional, ticker)
	return &c
}

// ID returns a coin ticker name.
func (c Coin) ID() string {
	return c.Ticker
}

// Add combines two coins.
// Returns error if they are of different
// currencies, or if the combination would cause
// an overflow
func (c Coin) Add(o Coin) (Coin, error) {
	// A zero value without a ticker has no influence on the result.
	if c.Ticker == "" && c.IsZero() {
		return o, nil
	}
	if o.Ticker == "" && o.IsZero() {
		return c, nil
	}

	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", c.Ticker, o.Ticker)
	}

	c.Whole += o.Whole
	c.Fractional += o.Fractional
	return c.normalize()
}

// Negative returns the opposite coins value
//
//	c.Add(c.Negative()).IsZero() == true
func (c Coin) Negative() Coin {
	return Coin{
		Ticker:     c.Ticker,
		Whole:      -1 * c.Whole,
		Fractional: -1 * c.Fractional,
	}
}

// Subtract given amount.
func (c Coin) Subtract(amount Coin) (Coin, error) {
	return c.Add(amount.Negative())
}

// Compare will check values of two coins, without
// inspecting the currency code. It is up to the caller
// to determine if they want to check this.
// It also assumes they were already normalized.
//
// Returns 1 if c is larger, -1 if o is larger, 0 if equal
func (c Coin) Compare(o Coin) int {
	switch {
	case c.Whole > o.Whole:
		return 1
	case c.Whole < o.Whole:
		return -1
	case c.Fractional > o.Fractional:
		return 1
	case c.Fractional < o.Fractional:
		return -1
	}
	return 0
}

// Equals returns true if all fields are identical
func (c Coin) Equals(o Coin) bool {
	return c.Ticker == o.Ticker &&
		c.Whole == o.Whole &&
		c.Fractional == o.Fractional
}

// IsEmpty returns true on null or zero amount
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

// IsZero returns true amounts are 0
func (c Coin) IsZero() bool {
	return c.Whole == 0 && c.Fractional == 0
}

// IsPositive returns true if the value is greater than 0
func (c Coin) IsPositive() bool {
	return c.Whole > 0 ||
		(c.Whole == 0 && c.Fractional > 0)
}

// IsNonNegative returns true if the value is 0 or higher
func (c Coin) IsNonNegative() bool {
	return c.Whole >= 0 && c.Fractional >= 0
}

// IsGTE returns true if c is same type and at least
// as large as o.
// It assumes they were already normalized.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Compare(o) >= 0
}

// SameType returns true if they have the same currency
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Clone provides an independent copy of a coin pointer
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	cpy := *c
	return &cpy
}

// Validate ensures that the coin is in the valid range
// and valid currency code. It accepts negative values,
// so you may want to make other checks in your business
// logic
func (c Coin) Validate() error {
	var err error
	if !IsCC(c.Ticker) {
		err = errors.Append(err, errors.Wrapf(errors.ErrCurrency, "invalid currency: %s", c.Ticker))
	}
	if c.Whole < MinInt || c.Whole > MaxInt {
		err = errors.Append(err, errors.ErrOverflow)
	}
	if c.Fractional < MinFrac || c.Fractional > MaxFrac {
		err = errors.Append(err, errors.Wrap(errors.ErrOverflow, "fractional"))
	}
	// make sure signs match
	if c.Whole != 0 && c.Fractional != 0 &&
		((c.Whole > 0) != (c.Fractional > 0)) {
		err = errors.Append(err, errors.Wrap(errors.ErrInvalidState, "mismatched sign"))
	}
	return err
}

// normalize will adjust the fractional parts to
// correspond to the range and the integer parts.
//
// If the normalized coin is outside of the range,
// returns an error
func (c Coin) normalize() (Coin, error) {
	// keep fraction in range
	for c.Fractional < MinFrac {
		c.Whole--
		c.Fractional += FracUnit
	}
	for c.Fractional > MaxFrac {
		c.Whole++
		c.Fractional -= FracUnit
	}

	// make sure the signs correspond
	if (c.Whole > 0) && (c.Fractional < 0) {
		c.Whole--
		c.Fractional += FracUnit
	} else if (c.Whole < 0) && (c.Fractional > 0) {
		c.Whole++
		c.Fractional -= FracUnit
	}

	if c.Whole < MinInt || c.Whole > MaxInt {
		return Coin{}, errors.ErrOverflow
	}
	return c, nil
}

// MulRatio returns floor(c * num / den). The computation is done on minor
// units with 256 bit precision, so the intermediate product never
// overflows. Only non negative coins can be scaled.
func (c Coin) MulRatio(num, den uint64) (Coin, error) {
	if den == 0 {
		return Coin{}, errors.Wrap(errors.ErrInvalidInput, "zero denominator")
	}
	if !c.IsNonNegative() {
		return Coin{}, errors.Wrap(errors.ErrInvalidAmount, "negative value")
	}
	v := c.minorUnits()
	v.Mul(v, uint256.NewInt(num))
	v.Div(v, uint256.NewInt(den))
	return fromMinorUnits(v, c.Ticker)
}

// Divide splits the value of a coin into given amount of equal pieces and
// returns a single piece. Any leftover that cannot be split, smaller than
// pieces minor units, is returned as well.
//
//	4 IOV = 1.333333333 IOV x 3 + 0.000000001 IOV
func (c Coin) Divide(pieces int64) (Coin, Coin, error) {
	zero := Coin{Ticker: c.Ticker}
	if pieces <= 0 {
		return zero, zero, errors.Wrap(errors.ErrInvalidInput, "pieces must be greater than zero")
	}
	one, err := c.MulRatio(1, uint64(pieces))
	if err != nil {
		return zero, zero, err
	}
	total, err := one.Multiply(pieces)
	if err != nil {
		return zero, zero, err
	}
	rest, err := c.Subtract(total)
	if err != nil {
		return zero, zero, err
	}
	return one, rest, nil
}

// Multiply returns the result of a coin value multiplication. This method can
// fail if the result would overflow maximum coin value.
func (c Coin) Multiply(times int64) (Coin, error) {
	if times < 0 {
		res, err := c.Negative().Multiply(-times)
		return res, err
	}
	if !c.IsNonNegative() {
		res, err := c.Negative().Multiply(times)
		return res.Negative(), err
	}
	v := c.minorUnits()
	v.Mul(v, uint256.NewInt(uint64(times)))
	return fromMinorUnits(v, c.Ticker)
}

// minorUnits returns the value of a non negative coin counted in
// fractional units.
func (c Coin) minorUnits() *uint256.Int {
	v := uint256.NewInt(uint64(c.Whole))
	v.Mul(v, uint256.NewInt(uint64(FracUnit)))
	return v.Add(v, uint256.NewInt(uint64(c.Fractional)))
}

func fromMinorUnits(v *uint256.Int, ticker string) (Coin, error) {
	whole, frac := new(uint256.Int), new(uint256.Int)
	whole.DivMod(v, uint256.NewInt(uint64(FracUnit)), frac)
	if !whole.IsUint64() || whole.Uint64() > uint64(MaxInt) {
		return Coin{}, errors.ErrOverflow
	}
	return Coin{
		Ticker:     ticker,
		Whole:      int64(whole.Uint64()),
		Fractional: int64(frac.Uint64()),
	}, nil
}

// Sum adds all given coins. All coins must be of the same currency.
func Sum(coins ...Coin) (Coin, error) {
	var total Coin
	for i, c := range coins {
		var err error
		if total, err = total.Add(c); err != nil {
			return Coin{}, errors.Wrapf(err, "coin %d", i)
		}
	}
	return total, nil
}

func (c *Coin) UnmarshalJSON(raw []byte) error {
	// Prioritize human readable format that is a string in format
	// "<whole>[.<fractional>] <ticker>"
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		parsed, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	// Because UnmarshalJSON method is provided, we can no longer use Coin
	// type for the default unmarshaling.
	var coin struct {
		Whole      int64  `json:"whole"`
		Fractional int64  `json:"fractional"`
		Ticker     string `json:"ticker"`
	}
	if err := json.Unmarshal(raw, &coin); err != nil {
		return err
	}
	*c = NewCoin(coin.Whole, coin.Fractional, coin.Ticker)
	return nil
}

// String provides a human readable representation of the coin. For a valid
// coin the result can be parsed back with ParseHumanFormat.
func (c Coin) String() string {
	var b bytes.Buffer

	if n, err := c.normalize(); err == nil {
		c = n
	}

	if c.Whole == 0 && c.Fractional < 0 {
		io.WriteString(&b, "-")
	}
	io.WriteString(&b, strconv.FormatInt(c.Whole, 10))

	if f := c.Fractional; f != 0 {
		if f < 0 {
			f = -f
		}
		s := strconv.FormatInt(f, 10)
		// Add leading zeros to convert it to a floating point number.
		s = "." + strings.Repeat("0", 9-len(s)) + s
		// Remove trailing zeros as they provide no information.
		s = strings.TrimRight(s, "0")
		io.WriteString(&b, s)
	}

	if c.Ticker != "" {
		io.WriteString(&b, " "+c.Ticker)
	}
	return b.String()
}

var humanCoinFormatRx = regexp.MustCompile(`^(\-?)\s*(\d+)(?:\.(\d{1,9}))?\s*([A-Z]{3,4})$`)

// ParseHumanFormat parse a human readable coin representation. Accepted format
// is a string:
//
//	"<whole>[.<fractional>] <ticker>"
func ParseHumanFormat(h string) (Coin, error) {
	results := humanCoinFormatRx.FindStringSubmatch(strings.TrimSpace(h))
	if results == nil {
		return Coin{}, errors.Wrapf(errors.ErrInvalidInput, "invalid coin format %q", h)
	}

	whole, err := strconv.ParseInt(results[2], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrInvalidInput, "invalid whole value: %s", err)
	}

	var fract int64
	if s := results[3]; s != "" {
		// Right pad to the precision, "5" is 500000000 minor units.
		s += strings.Repeat("0", 9-len(s))
		if fract, err = strconv.ParseInt(s, 10, 64); err != nil {
			return Coin{}, errors.Wrapf(errors.ErrInvalidInput, "invalid fractional value: %s", err)
		}
	}

	if results[1] == "-" {
		whole = -whole
		fract = -fract
	}
	return NewCoin(whole, fract, results[4]), nil
}

// Set updates this coin value to what is provided. This method implements
// flag.Value interface.
func (c *Coin) Set(raw string) error {
	val, err := ParseHumanFormat(raw)
	if err != nil {
		return err
	}
	*c = val
	return nil
}
