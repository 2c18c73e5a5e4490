package money

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"unicode/utf8"

	"github.com/govalues/decimal"
)

// Scale is the number of digits after the decimal point of every amount.
// An amount is always a whole number of minor units (1/100 of a unit).
const Scale = 2

var (
	// ErrInvalidOperand is returned when an operation receives a value
	// that is neither an amount nor a number.
	ErrInvalidOperand = errors.New("invalid operand")

	errAmountOverflow = errors.New("amount overflow")
	errDivisionByZero = errors.New("division by zero")
)

var (
	ulp     = decimal.MustNew(1, Scale)   // 0.01
	halfULP = decimal.MustNew(5, Scale+1) // 0.005
)

// Amount type represents a monetary value with exactly two digits after
// the decimal point, stored as an integer number of minor units (cents).
// Its zero value corresponds to 0.00.
//
// All methods except [Amount.SetValue] leave the receiver untouched and
// return new values, so Amount is safe for concurrent use by multiple
// goroutines as long as nobody calls SetValue on a shared variable.
type Amount struct {
	cents int64 // value in minor units
}

// newAmountFromDecimal rounds d to minor units using rounding half away from
// zero and returns the resulting amount.
func newAmountFromDecimal(d decimal.Decimal) (Amount, error) {
	d, err := roundHalfUp(d)
	if err != nil {
		return Amount{}, err
	}
	d = d.Pad(Scale)
	if d.Scale() < Scale {
		return Amount{}, errAmountOverflow
	}
	u := d.Coef()
	if u > math.MaxInt64 {
		return Amount{}, errAmountOverflow
	}
	if d.IsNeg() {
		return Amount{cents: -int64(u)}, nil
	}
	return Amount{cents: int64(u)}, nil
}

// roundHalfUp rounds d to [Scale] digits after the decimal point.
// Ties are rounded away from zero, so 0.005 becomes 0.01 and -0.005 becomes -0.01.
func roundHalfUp(d decimal.Decimal) (decimal.Decimal, error) {
	if d.Scale() <= Scale {
		return d, nil
	}
	t := d.Trunc(Scale)
	r, err := d.Sub(t)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if r.CmpAbs(halfULP) >= 0 {
		t, err = t.Add(ulp.CopySign(d))
		if err != nil {
			return decimal.Decimal{}, err
		}
	}
	return t, nil
}

// toDecimal converts a plain number to a decimal.
// Floats are converted through their shortest textual representation,
// so 13.085 is treated as exactly 13.085.
//
//gocyclo:ignore
func toDecimal(v any) (decimal.Decimal, error) {
	switch v := v.(type) {
	case decimal.Decimal:
		return v, nil
	case float64:
		return floatToDecimal(v, 64)
	case float32:
		return floatToDecimal(float64(v), 32)
	case int:
		return decimal.New(int64(v), 0)
	case int8:
		return decimal.New(int64(v), 0)
	case int16:
		return decimal.New(int64(v), 0)
	case int32:
		return decimal.New(int64(v), 0)
	case int64:
		return decimal.New(v, 0)
	case uint:
		return uintToDecimal(uint64(v))
	case uint8:
		return decimal.New(int64(v), 0)
	case uint16:
		return decimal.New(int64(v), 0)
	case uint32:
		return decimal.New(int64(v), 0)
	case uint64:
		return uintToDecimal(v)
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: type %T is not a number", ErrInvalidOperand, v)
	}
}

func uintToDecimal(u uint64) (decimal.Decimal, error) {
	if u > math.MaxInt64 {
		return decimal.Decimal{}, errAmountOverflow
	}
	return decimal.New(int64(u), 0)
}

func floatToDecimal(f float64, bitSize int) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, fmt.Errorf("%w: special value %v", ErrInvalidOperand, f)
	}
	if bitSize == 32 {
		// Shortest float32 text, e.g. 0.1 instead of 0.10000000149011612.
		f, _ = strconv.ParseFloat(strconv.FormatFloat(f, 'g', -1, 32), 64)
	}
	d, err := decimal.NewFromFloat64(f)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %w", errAmountOverflow, err)
	}
	return d, nil
}

// normalize converts an amount, a number, or nil to an amount.
// A nil value or a nil *Amount is treated as zero.
func normalize(v any) (Amount, error) {
	switch v := v.(type) {
	case nil:
		return Amount{}, nil
	case Amount:
		return v, nil
	case *Amount:
		if v == nil {
			return Amount{}, nil
		}
		return *v, nil
	}
	d, err := toDecimal(v)
	if err != nil {
		return Amount{}, err
	}
	return newAmountFromDecimal(d)
}

// Make converts v to an amount.
// The following values are accepted:
//
//   - an [Amount] or a *Amount, returned unchanged;
//   - nil or a nil *Amount, converted to 0.00;
//   - any Go integer or floating-point type, or a [decimal.Decimal],
//     rounded to 2 digits after the decimal point using rounding half
//     away from zero.
//
// Make returns an error wrapping [ErrInvalidOperand] if v has any other
// type or is a special float value (NaN or Inf), and an overflow error if
// the number of minor units does not fit into an int64.
func Make(v any) (Amount, error) {
	a, err := normalize(v)
	if err != nil {
		return Amount{}, fmt.Errorf("converting %T to amount: %w", v, err)
	}
	return a, nil
}

// MustMake is like [Make] but panics if the amount cannot be constructed.
// It simplifies safe initialization of global variables holding amounts.
func MustMake(v any) Amount {
	a, err := Make(v)
	if err != nil {
		panic(fmt.Sprintf("Make(%v) failed: %v", v, err))
	}
	return a
}

// NewAmountFromMinorUnits returns an amount equal to units / 100.
// See also method [Amount.MinorUnits].
//
// NewAmountFromMinorUnits returns an error if units is [math.MinInt64],
// which has no positive counterpart.
func NewAmountFromMinorUnits(units int64) (Amount, error) {
	if units == math.MinInt64 {
		return Amount{}, fmt.Errorf("converting minor units: %w", errAmountOverflow)
	}
	return Amount{cents: units}, nil
}

// IsAmount reports whether x is an [Amount] or a non-nil *Amount.
// Plain numbers are not amounts.
func IsAmount(x any) bool {
	switch x := x.(type) {
	case Amount:
		return true
	case *Amount:
		return x != nil
	default:
		return false
	}
}

// SetValue converts v in the same way as [Make] and stores the result in
// the receiver. It returns the receiver, which allows chaining.
// SetValue is the only method that modifies an amount in place.
//
// If v cannot be converted, SetValue returns an error and leaves the
// receiver unchanged.
func (a *Amount) SetValue(v any) (*Amount, error) {
	b, err := normalize(v)
	if err != nil {
		return a, fmt.Errorf("setting value from %T: %w", v, err)
	}
	a.cents = b.cents
	return a, nil
}

// MinorUnits returns the amount in minor units (e.g. cents).
// See also constructor [NewAmountFromMinorUnits].
func (a Amount) MinorUnits() int64 {
	return a.cents
}

// Float64 returns the value of the amount, minor units divided by 100.
func (a Amount) Float64() float64 {
	return float64(a.cents) / 100
}

// Decimal returns the exact decimal representation of the amount.
// The scale of the result is always 2.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.MustNew(a.cents, Scale)
}

// Sign returns:
//
//	-1 if a < 0
//	 0 if a = 0
//	+1 if a > 0
func (a Amount) Sign() int {
	switch {
	case a.cents < 0:
		return -1
	case a.cents > 0:
		return 1
	default:
		return 0
	}
}

// IsZero returns true if a = 0.
func (a Amount) IsZero() bool {
	return a.cents == 0
}

// IsNeg returns true if a < 0.
func (a Amount) IsNeg() bool {
	return a.cents < 0
}

// IsPos returns true if a > 0.
func (a Amount) IsPos() bool {
	return a.cents > 0
}

// Abs returns the absolute value of the amount.
func (a Amount) Abs() Amount {
	if a.cents < 0 {
		return Amount{cents: -a.cents}
	}
	return a
}

// Neg returns an amount with the opposite sign.
func (a Amount) Neg() Amount {
	return Amount{cents: -a.cents}
}

// Add returns the sum of amounts a and b.
//
// Add returns an error if the result does not fit into an int64 number
// of minor units.
func (a Amount) Add(b Amount) (Amount, error) {
	c, err := a.add(b)
	if err != nil {
		return Amount{}, fmt.Errorf("computing [%f + %f]: %w", a, b, err)
	}
	return c, nil
}

func (a Amount) add(b Amount) (Amount, error) {
	d, e := a.Decimal(), b.Decimal()
	f, err := d.AddExact(e, Scale)
	if err != nil {
		return Amount{}, err
	}
	return newAmountFromDecimal(f)
}

// Plus is like [Amount.Add] but accepts any value supported by [Make].
func (a Amount) Plus(v any) (Amount, error) {
	b, err := normalize(v)
	if err != nil {
		return Amount{}, fmt.Errorf("computing [%f + %v]: %w", a, v, err)
	}
	return a.Add(b)
}

// Sub returns the difference between amounts a and b.
//
// Sub returns an error if the result does not fit into an int64 number
// of minor units.
func (a Amount) Sub(b Amount) (Amount, error) {
	c, err := a.sub(b)
	if err != nil {
		return Amount{}, fmt.Errorf("computing [%f - %f]: %w", a, b, err)
	}
	return c, nil
}

func (a Amount) sub(b Amount) (Amount, error) {
	d, e := a.Decimal(), b.Decimal()
	f, err := d.SubExact(e, Scale)
	if err != nil {
		return Amount{}, err
	}
	return newAmountFromDecimal(f)
}

// Minus is like [Amount.Sub] but accepts any value supported by [Make].
func (a Amount) Minus(v any) (Amount, error) {
	b, err := normalize(v)
	if err != nil {
		return Amount{}, fmt.Errorf("computing [%f - %v]: %w", a, v, err)
	}
	return a.Sub(b)
}

// Times returns the product of amount a and factor n, rounded once to
// minor units using rounding half away from zero.
// The product is computed exactly, without intermediate rounding, so
// 25.00 * 0.06125 is 1.53125 before rounding to 1.53.
//
// Times returns an error wrapping [ErrInvalidOperand] if n is not a number
// (amounts are not accepted as factors), and an overflow error if the
// result does not fit into an int64 number of minor units.
func (a Amount) Times(n any) (Amount, error) {
	c, err := a.times(n)
	if err != nil {
		return Amount{}, fmt.Errorf("computing [%f * %v]: %w", a, n, err)
	}
	return c, nil
}

func (a Amount) times(n any) (Amount, error) {
	e, err := toDecimal(n)
	if err != nil {
		return Amount{}, err
	}
	// a * e = cents * coef / 10^scale minor units
	num := new(big.Int).Mul(big.NewInt(a.Abs().cents), new(big.Int).SetUint64(e.Coef()))
	den := pow10(e.Scale())
	return roundQuo(a.IsNeg() != e.IsNeg(), num, den)
}

// Quo returns the quotient of amount a and divisor n, rounded once to
// minor units using rounding half away from zero.
// See also methods [Amount.Rat] and [Amount.DividedBy].
//
// Quo returns an error if:
//   - n is not a number (the error wraps [ErrInvalidOperand]);
//   - n is 0;
//   - the result does not fit into an int64 number of minor units.
func (a Amount) Quo(n any) (Amount, error) {
	c, err := a.quo(n)
	if err != nil {
		return Amount{}, fmt.Errorf("computing [%f / %v]: %w", a, n, err)
	}
	return c, nil
}

func (a Amount) quo(n any) (Amount, error) {
	e, err := toDecimal(n)
	if err != nil {
		return Amount{}, err
	}
	if e.IsZero() {
		return Amount{}, errDivisionByZero
	}
	// a / e = cents * 10^scale / coef minor units
	num := new(big.Int).Mul(big.NewInt(a.Abs().cents), pow10(e.Scale()))
	den := new(big.Int).SetUint64(e.Coef())
	return roundQuo(a.IsNeg() != e.IsNeg(), num, den)
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// roundQuo returns num / den minor units, rounded half away from zero,
// with the sign given by neg. Both num and den must be non-negative.
func roundQuo(neg bool, num, den *big.Int) (Amount, error) {
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if r.Lsh(r, 1).Cmp(den) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	if !q.IsInt64() {
		return Amount{}, errAmountOverflow
	}
	if neg {
		return Amount{cents: -q.Int64()}, nil
	}
	return Amount{cents: q.Int64()}, nil
}

// Rat returns the ratio between amounts a and b as a plain number.
// The ratio is not rounded: 21.67 / 5.00 is 4.334.
// See also methods [Amount.Quo] and [Amount.DividedBy].
//
// Rat returns an error if b is 0.
func (a Amount) Rat(b Amount) (float64, error) {
	if b.cents == 0 {
		return 0, fmt.Errorf("computing [%f / %f]: %w", a, b, errDivisionByZero)
	}
	return float64(a.cents) / float64(b.cents), nil
}

// Quotient is the result of [Amount.DividedBy].
// Dividing an amount by a number gives an amount,
// dividing an amount by another amount gives a plain ratio.
type Quotient struct {
	amount  Amount
	ratio   float64
	isRatio bool
}

// Amount returns the quotient as an amount.
// The boolean is false if the divisor was an amount.
func (q Quotient) Amount() (Amount, bool) {
	return q.amount, !q.isRatio
}

// Ratio returns the quotient as a plain number.
// The boolean is false if the divisor was a number.
func (q Quotient) Ratio() (float64, bool) {
	return q.ratio, q.isRatio
}

// IsRatio reports whether the divisor was an amount.
func (q Quotient) IsRatio() bool {
	return q.isRatio
}

// DividedBy divides amount a by v.
// If v is a number, the result holds the amount computed by [Amount.Quo].
// If v is an amount, the result holds the ratio computed by [Amount.Rat].
//
// DividedBy returns an error wrapping [ErrInvalidOperand] if v is neither
// a number nor an amount, and an error if the divisor is 0.
func (a Amount) DividedBy(v any) (Quotient, error) {
	switch v := v.(type) {
	case Amount:
		r, err := a.Rat(v)
		if err != nil {
			return Quotient{}, err
		}
		return Quotient{ratio: r, isRatio: true}, nil
	case *Amount:
		if v == nil {
			return Quotient{}, fmt.Errorf("computing [%f / nil]: %w", a, ErrInvalidOperand)
		}
		return a.DividedBy(*v)
	}
	q, err := a.Quo(v)
	if err != nil {
		return Quotient{}, err
	}
	return Quotient{amount: q}, nil
}

// Sum returns the total of the given values, added in order starting from 0.00.
// Each value may be anything supported by [Make].
// Sum of no values is 0.00. The values themselves are never modified.
func Sum(values ...any) (Amount, error) {
	var total Amount
	for i, v := range values {
		next, err := total.Plus(v)
		if err != nil {
			return Amount{}, fmt.Errorf("summing value #%d: %w", i, err)
		}
		total = next
	}
	return total, nil
}

// Cmp compares amounts and returns:
//
//	-1 if a < b
//	 0 if a = b
//	+1 if a > b
func (a Amount) Cmp(b Amount) int {
	switch {
	case a.cents < b.cents:
		return -1
	case a.cents > b.cents:
		return 1
	default:
		return 0
	}
}

func (a Amount) cmp(v any) (int, error) {
	b, err := normalize(v)
	if err != nil {
		return 0, fmt.Errorf("comparing [%f] and [%v]: %w", a, v, err)
	}
	return a.Cmp(b), nil
}

// IsEqualTo returns true if a = v.
// The value v may be anything supported by [Make]; numbers are rounded to
// minor units before comparing.
func (a Amount) IsEqualTo(v any) (bool, error) {
	c, err := a.cmp(v)
	return c == 0 && err == nil, err
}

// IsGreaterThan returns true if a > v.
// See also method [Amount.IsEqualTo].
func (a Amount) IsGreaterThan(v any) (bool, error) {
	c, err := a.cmp(v)
	return c > 0 && err == nil, err
}

// IsGreaterThanOrEqualTo returns true if a >= v.
// See also method [Amount.IsEqualTo].
func (a Amount) IsGreaterThanOrEqualTo(v any) (bool, error) {
	c, err := a.cmp(v)
	return c >= 0 && err == nil, err
}

// IsLessThan returns true if a < v.
// See also method [Amount.IsEqualTo].
func (a Amount) IsLessThan(v any) (bool, error) {
	c, err := a.cmp(v)
	return c < 0 && err == nil, err
}

// IsLessThanOrEqualTo returns true if a <= v.
// See also method [Amount.IsEqualTo].
func (a Amount) IsLessThanOrEqualTo(v any) (bool, error) {
	c, err := a.cmp(v)
	return c <= 0 && err == nil, err
}

// Min returns the smaller amount.
func (a Amount) Min(b Amount) Amount {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Max returns the larger amount.
func (a Amount) Max(b Amount) Amount {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// parts splits the absolute value of the amount into whole units and
// the two fractional digits.
func (a Amount) parts() (neg bool, whole, frac uint64) {
	u := uint64(a.cents)
	if a.cents < 0 {
		neg = true
		u = -u
	}
	return neg, u / 100, u % 100
}

// plain returns the amount without currency symbol or grouping, e.g. -1234.50.
func (a Amount) plain() string {
	neg, whole, frac := a.parts()
	buf := make([]byte, 0, 24)
	if neg {
		buf = append(buf, '-')
	}
	buf = strconv.AppendUint(buf, whole, 10)
	buf = append(buf, '.', byte(frac/10)+'0', byte(frac%10)+'0')
	return string(buf)
}

// Text returns the amount formatted with the process-wide [Default]
// formatter. Any options override the formatter's format function and
// defaults for this call only.
// See also method [Formatter.Format].
func (a Amount) Text(opts ...FormatOption) string {
	return Default().Format(a, opts...)
}

// String implements the [fmt.Stringer] interface and returns the amount
// formatted with the process-wide defaults, e.g. $1,822,456.34.
// See also method [Amount.Text].
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (a Amount) String() string {
	return a.Text()
}

// Format implements the [fmt.Formatter] interface.
// The following [format verbs] are available:
//
//	| Verb   | Example     | Description                       |
//	| ------ | ----------- | --------------------------------- |
//	| %s, %v | -$1,234.50  | Amount formatted with defaults    |
//	| %q     | "-$1,234.50"| Quoted formatted amount           |
//	| %f     | -1234.50    | Plain amount                      |
//	| %d     | -123450     | Amount in minor units             |
//
// The '-' format flag can be used with all verbs.
// Width is measured in characters, not bytes.
//
// [format verbs]: https://pkg.go.dev/fmt#hdr-Printing
// [fmt.Formatter]: https://pkg.go.dev/fmt#Formatter
func (a Amount) Format(state fmt.State, verb rune) {
	var text string
	switch verb {
	case 's', 'S', 'v', 'V':
		text = a.Text()
	case 'q', 'Q':
		text = strconv.Quote(a.Text())
	case 'f', 'F':
		text = a.plain()
	case 'd', 'D':
		text = strconv.FormatInt(a.cents, 10)
	default:
		text = "%!" + string(verb) + "(money.Amount=" + a.plain() + ")"
	}

	// Padding
	lspaces, tspaces := 0, 0
	if w, ok := state.Width(); ok {
		if n := utf8.RuneCountInString(text); w > n {
			if state.Flag('-') {
				tspaces = w - n
			} else {
				lspaces = w - n
			}
		}
	}

	buf := make([]byte, 0, lspaces+len(text)+tspaces)
	for range lspaces {
		buf = append(buf, ' ')
	}
	buf = append(buf, text...)
	for range tspaces {
		buf = append(buf, ' ')
	}

	//nolint:errcheck
	state.Write(buf)
}
