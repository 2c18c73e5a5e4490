package money

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

var errUnknownFormat = errors.New("unknown format value")

// NegativeStyle determines how negative amounts are rendered.
// The zero value is not a valid style and is ignored wherever a style is accepted.
type NegativeStyle uint8

const (
	MinusSign   NegativeStyle = iota + 1 // -$1,234.50
	Parentheses                          // $(1,234.50)
)

// IsValid reports whether s is [MinusSign] or [Parentheses].
func (s NegativeStyle) IsValid() bool {
	return s == MinusSign || s == Parentheses
}

// String implements the [fmt.Stringer] interface.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (s NegativeStyle) String() string {
	switch s {
	case MinusSign:
		return "MINUS_SIGN"
	case Parentheses:
		return "PARENTHESES"
	default:
		return "NegativeStyle(" + strconv.Itoa(int(s)) + ")"
	}
}

// ParseNegativeStyle converts "MINUS_SIGN" or "PARENTHESES" (in any case)
// to a negative style.
func ParseNegativeStyle(s string) (NegativeStyle, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MINUS_SIGN":
		return MinusSign, nil
	case "PARENTHESES":
		return Parentheses, nil
	default:
		return 0, fmt.Errorf("parsing negative style %q: %w", s, errUnknownFormat)
	}
}

// SymbolPosition determines on which side of the number the currency
// symbol is placed.
// The zero value is not a valid position and is ignored wherever a position is accepted.
type SymbolPosition uint8

const (
	Before SymbolPosition = iota + 1 // $1,234.50
	After                            // 1,234.50$
)

// IsValid reports whether p is [Before] or [After].
func (p SymbolPosition) IsValid() bool {
	return p == Before || p == After
}

// String implements the [fmt.Stringer] interface.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (p SymbolPosition) String() string {
	switch p {
	case Before:
		return "BEFORE"
	case After:
		return "AFTER"
	default:
		return "SymbolPosition(" + strconv.Itoa(int(p)) + ")"
	}
}

// ParseSymbolPosition converts "BEFORE" or "AFTER" (in any case) to a
// symbol position.
func ParseSymbolPosition(s string) (SymbolPosition, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BEFORE":
		return Before, nil
	case "AFTER":
		return After, nil
	default:
		return 0, fmt.Errorf("parsing symbol position %q: %w", s, errUnknownFormat)
	}
}

// FormatOptions holds the five settings used to render an amount as text.
type FormatOptions struct {
	Symbol             string
	NegativeStyle      NegativeStyle
	SymbolPosition     SymbolPosition
	ThousandsSeparator string
	DecimalSeparator   string
}

// StandardFormat returns the built-in defaults: "$", [MinusSign], [Before],
// "," and ".", which render -1234.5 as -$1,234.50.
func StandardFormat() FormatOptions {
	return FormatOptions{
		Symbol:             "$",
		NegativeStyle:      MinusSign,
		SymbolPosition:     Before,
		ThousandsSeparator: ",",
		DecimalSeparator:   ".",
	}
}

// Options returns options that set every field of o.
// Invalid enum fields produce options that do nothing.
func (o FormatOptions) Options() []FormatOption {
	return []FormatOption{
		WithSymbol(o.Symbol),
		WithNegativeStyle(o.NegativeStyle),
		WithSymbolPosition(o.SymbolPosition),
		WithThousandsSeparator(o.ThousandsSeparator),
		WithDecimalSeparator(o.DecimalSeparator),
	}
}

// FormatOption overrides a single format setting.
type FormatOption func(*FormatOptions)

// WithSymbol sets the currency symbol. An empty symbol is allowed.
func WithSymbol(symbol string) FormatOption {
	return func(o *FormatOptions) {
		o.Symbol = symbol
	}
}

// WithNegativeStyle sets the negative style.
// An invalid style leaves the setting unchanged.
func WithNegativeStyle(style NegativeStyle) FormatOption {
	return func(o *FormatOptions) {
		if style.IsValid() {
			o.NegativeStyle = style
		}
	}
}

// WithSymbolPosition sets the symbol position.
// An invalid position leaves the setting unchanged.
func WithSymbolPosition(pos SymbolPosition) FormatOption {
	return func(o *FormatOptions) {
		if pos.IsValid() {
			o.SymbolPosition = pos
		}
	}
}

// WithThousandsSeparator sets the separator placed between groups of three
// digits of the integer part.
func WithThousandsSeparator(sep string) FormatOption {
	return func(o *FormatOptions) {
		o.ThousandsSeparator = sep
	}
}

// WithDecimalSeparator sets the separator placed before the two fractional digits.
func WithDecimalSeparator(sep string) FormatOption {
	return func(o *FormatOptions) {
		o.DecimalSeparator = sep
	}
}

func apply(o *FormatOptions, opts []FormatOption) {
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
}

// FormatFunc supplies contextual format settings, for example those of the
// current user. It is called once per formatted amount and may return any
// subset of the settings. Settings it returns take precedence over the
// formatter's defaults, while options passed to the format call take
// precedence over both.
type FormatFunc func() []FormatOption

// Formatter renders amounts as text.
// It holds default settings and an optional [FormatFunc].
// A Formatter is safe for concurrent use by multiple goroutines.
// The zero value is ready to use and has [StandardFormat] defaults.
//
// Each setting is resolved independently, from the most specific source:
//
//  1. options passed to [Formatter.Format];
//  2. options returned by the format function, if any;
//  3. the formatter's defaults.
type Formatter struct {
	mu       sync.RWMutex
	defaults FormatOptions
	ready    bool // defaults initialized
	fn       FormatFunc
	logger   *slog.Logger
}

// NewFormatter returns a formatter whose defaults are [StandardFormat]
// modified by the given options.
func NewFormatter(opts ...FormatOption) *Formatter {
	f := &Formatter{defaults: StandardFormat(), ready: true}
	apply(&f.defaults, opts)
	return f
}

// initLocked sets the standard defaults of a zero formatter.
// The caller must hold the write lock.
func (f *Formatter) initLocked() {
	if !f.ready {
		f.defaults = StandardFormat()
		f.ready = true
	}
}

// defaultsLocked returns the defaults, standard ones for a zero formatter.
// The caller must hold the read lock.
func (f *Formatter) defaultsLocked() FormatOptions {
	if !f.ready {
		return StandardFormat()
	}
	return f.defaults
}

var std = NewFormatter()

// Default returns the process-wide formatter used by [Amount.Text] and
// [Amount.String].
func Default() *Formatter {
	return std
}

// Reset restores [StandardFormat] defaults and clears the format function.
func (f *Formatter) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.defaults = StandardFormat()
	f.ready = true
	f.fn = nil
}

// SetLogger sets the logger used to report a panicking format function.
// A nil logger selects [slog.Default].
func (f *Formatter) SetLogger(logger *slog.Logger) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logger = logger
}

// SetFormatFunc sets the format function. A nil function clears it.
func (f *Formatter) SetFormatFunc(fn FormatFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fn = fn
}

// Defaults returns a copy of the current default settings.
func (f *Formatter) Defaults() FormatOptions {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.defaultsLocked()
}

// CurrencySymbol returns the default currency symbol.
func (f *Formatter) CurrencySymbol() string {
	return f.Defaults().Symbol
}

// SetCurrencySymbol sets the default currency symbol and returns it.
func (f *Formatter) SetCurrencySymbol(symbol string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initLocked()
	f.defaults.Symbol = symbol
	return f.defaults.Symbol
}

// NegativeFormat returns the default negative style.
func (f *Formatter) NegativeFormat() NegativeStyle {
	return f.Defaults().NegativeStyle
}

// SetNegativeFormat sets the default negative style and returns the
// current default. An invalid style is ignored.
func (f *Formatter) SetNegativeFormat(style NegativeStyle) NegativeStyle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initLocked()
	if style.IsValid() {
		f.defaults.NegativeStyle = style
	}
	return f.defaults.NegativeStyle
}

// SymbolPosition returns the default symbol position.
func (f *Formatter) SymbolPosition() SymbolPosition {
	return f.Defaults().SymbolPosition
}

// SetSymbolPosition sets the default symbol position and returns the
// current default. An invalid position is ignored.
func (f *Formatter) SetSymbolPosition(pos SymbolPosition) SymbolPosition {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initLocked()
	if pos.IsValid() {
		f.defaults.SymbolPosition = pos
	}
	return f.defaults.SymbolPosition
}

// ThousandsSeparator returns the default thousands separator.
func (f *Formatter) ThousandsSeparator() string {
	return f.Defaults().ThousandsSeparator
}

// SetThousandsSeparator sets the default thousands separator and returns it.
func (f *Formatter) SetThousandsSeparator(sep string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initLocked()
	f.defaults.ThousandsSeparator = sep
	return f.defaults.ThousandsSeparator
}

// DecimalSeparator returns the default decimal separator.
func (f *Formatter) DecimalSeparator() string {
	return f.Defaults().DecimalSeparator
}

// SetDecimalSeparator sets the default decimal separator and returns it.
func (f *Formatter) SetDecimalSeparator(sep string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initLocked()
	f.defaults.DecimalSeparator = sep
	return f.defaults.DecimalSeparator
}

// Resolve returns the settings that [Formatter.Format] would use with the
// given options.
func (f *Formatter) Resolve(opts ...FormatOption) FormatOptions {
	f.mu.RLock()
	o, fn, logger := f.defaultsLocked(), f.fn, f.logger
	f.mu.RUnlock()

	if fn != nil {
		o = resolveFunc(o, fn, logger)
	}
	apply(&o, opts)
	return o
}

// resolveFunc applies the options returned by fn on top of o.
// If fn or one of its options panics, o is returned unchanged.
func resolveFunc(o FormatOptions, fn FormatFunc, logger *slog.Logger) (res FormatOptions) {
	defer func() {
		if r := recover(); r != nil {
			if logger == nil {
				logger = slog.Default()
			}
			logger.Warn("money: format function panicked, using defaults", "panic", r)
			res = o
		}
	}()
	res = o
	apply(&res, fn())
	return res
}

// Format returns amount a as text, for example:
//
//	-$1,822,456.34   MinusSign, Before
//	$(1,822,456.34)  Parentheses, Before
//	(2.387,00)%      Parentheses, After, "." and ","
//
// The parts are written in the following order: minus sign, symbol placed
// before, opening parenthesis, integer part grouped by three digits,
// decimal separator, two fractional digits, closing parenthesis, symbol
// placed after.
// Zero is never rendered as negative.
func (f *Formatter) Format(a Amount, opts ...FormatOption) string {
	return render(a, f.Resolve(opts...))
}

func render(a Amount, o FormatOptions) string {
	neg, whole, frac := a.parts()
	parens := neg && o.NegativeStyle == Parentheses

	var b strings.Builder
	b.Grow(len(o.Symbol) + 32)

	// Sign
	if neg && o.NegativeStyle == MinusSign {
		b.WriteByte('-')
	}

	// Leading symbol
	if o.SymbolPosition == Before {
		b.WriteString(o.Symbol)
	}
	if parens {
		b.WriteByte('(')
	}

	// Integer digits
	digits := strconv.FormatUint(whole, 10)
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteString(o.ThousandsSeparator)
		b.WriteString(digits[i : i+3])
	}

	// Fractional digits
	b.WriteString(o.DecimalSeparator)
	b.WriteByte(byte(frac/10) + '0')
	b.WriteByte(byte(frac%10) + '0')

	// Trailing symbol
	if parens {
		b.WriteByte(')')
	}
	if o.SymbolPosition == After {
		b.WriteString(o.Symbol)
	}

	return b.String()
}

// SetFormatFunc sets the format function of the [Default] formatter.
// A nil function clears it.
func SetFormatFunc(fn FormatFunc) {
	std.SetFormatFunc(fn)
}

// DefaultCurrencySymbol returns the currency symbol of the [Default] formatter.
func DefaultCurrencySymbol() string {
	return std.CurrencySymbol()
}

// SetDefaultCurrencySymbol sets the currency symbol of the [Default]
// formatter and returns it.
func SetDefaultCurrencySymbol(symbol string) string {
	return std.SetCurrencySymbol(symbol)
}

// DefaultNegativeFormat returns the negative style of the [Default] formatter.
func DefaultNegativeFormat() NegativeStyle {
	return std.NegativeFormat()
}

// SetDefaultNegativeFormat sets the negative style of the [Default]
// formatter and returns the current style. An invalid style is ignored.
func SetDefaultNegativeFormat(style NegativeStyle) NegativeStyle {
	return std.SetNegativeFormat(style)
}

// DefaultSymbolPosition returns the symbol position of the [Default] formatter.
func DefaultSymbolPosition() SymbolPosition {
	return std.SymbolPosition()
}

// SetDefaultSymbolPosition sets the symbol position of the [Default]
// formatter and returns the current position. An invalid position is ignored.
func SetDefaultSymbolPosition(pos SymbolPosition) SymbolPosition {
	return std.SetSymbolPosition(pos)
}

// DefaultThousandsSeparator returns the thousands separator of the [Default] formatter.
func DefaultThousandsSeparator() string {
	return std.ThousandsSeparator()
}

// SetDefaultThousandsSeparator sets the thousands separator of the
// [Default] formatter and returns it.
func SetDefaultThousandsSeparator(sep string) string {
	return std.SetThousandsSeparator(sep)
}

// DefaultDecimalSeparator returns the decimal separator of the [Default] formatter.
func DefaultDecimalSeparator() string {
	return std.DecimalSeparator()
}

// SetDefaultDecimalSeparator sets the decimal separator of the [Default]
// formatter and returns it.
func SetDefaultDecimalSeparator(sep string) string {
	return std.SetDecimalSeparator(sep)
}
