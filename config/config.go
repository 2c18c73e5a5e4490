// Package config loads money format profiles from configuration files and
// environment variables.
//
// A profile may set any subset of the five format settings. Keys that are
// absent leave the corresponding setting to the formatter, so a profile can
// be used either to replace a [money.Formatter]'s defaults ([Profile.Apply])
// or as its format function ([Profile.FormatFunc]).
//
// Recognized keys and environment variables:
//
//	symbol               MONEY_SYMBOL
//	negative_format      MONEY_NEGATIVE_FORMAT     MINUS_SIGN or PARENTHESES
//	symbol_position      MONEY_SYMBOL_POSITION     BEFORE or AFTER
//	thousands_separator  MONEY_THOUSANDS_SEPARATOR
//	decimal_separator    MONEY_DECIMAL_SEPARATOR
//
// Environment variables take precedence over the file. An empty
// environment variable is treated as unset.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jeffgrann/money"
)

// EnvPrefix is the prefix of the environment variables read by [Load].
const EnvPrefix = "MONEY"

// Profile keys.
const (
	KeySymbol             = "symbol"
	KeyNegativeFormat     = "negative_format"
	KeySymbolPosition     = "symbol_position"
	KeyThousandsSeparator = "thousands_separator"
	KeyDecimalSeparator   = "decimal_separator"
)

var keys = []string{
	KeySymbol,
	KeyNegativeFormat,
	KeySymbolPosition,
	KeyThousandsSeparator,
	KeyDecimalSeparator,
}

// ErrInvalidProfile is returned when a profile fails validation.
var ErrInvalidProfile = errors.New("invalid format profile")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("negative_style", func(fl validator.FieldLevel) bool {
		_, err := money.ParseNegativeStyle(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("symbol_position", func(fl validator.FieldLevel) bool {
		_, err := money.ParseSymbolPosition(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	return v
}

// Profile is a partial set of format settings.
type Profile struct {
	Symbol             string `mapstructure:"symbol" validate:"max=16"`
	NegativeFormat     string `mapstructure:"negative_format" validate:"omitempty,negative_style"`
	SymbolPosition     string `mapstructure:"symbol_position" validate:"omitempty,symbol_position"`
	ThousandsSeparator string `mapstructure:"thousands_separator" validate:"max=16"`
	DecimalSeparator   string `mapstructure:"decimal_separator" validate:"max=16"`

	set map[string]bool
}

// Load reads a profile from the file at path, if path is not empty, and
// from MONEY_* environment variables.
// The file format is derived from its extension (yaml, json, toml, ...).
func Load(path string) (*Profile, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding environment variable for %q: %w", key, err)
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %q: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates a profile from an already configured
// viper instance.
func FromViper(v *viper.Viper) (*Profile, error) {
	var p Profile
	if err := v.Unmarshal(&p); err != nil {
		return nil, fmt.Errorf("decoding format profile: %w", err)
	}
	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	p.set = make(map[string]bool, len(keys))
	for _, key := range keys {
		p.set[key] = v.IsSet(key)
	}
	return &p, nil
}

// IsSet reports whether the profile sets the given key.
func (p *Profile) IsSet(key string) bool {
	return p.set[key]
}

// Options returns format options for the keys set in the profile.
func (p *Profile) Options() []money.FormatOption {
	var opts []money.FormatOption
	if p.IsSet(KeySymbol) {
		opts = append(opts, money.WithSymbol(p.Symbol))
	}
	if style, ok := p.negativeStyle(); ok {
		opts = append(opts, money.WithNegativeStyle(style))
	}
	if pos, ok := p.symbolPosition(); ok {
		opts = append(opts, money.WithSymbolPosition(pos))
	}
	if p.IsSet(KeyThousandsSeparator) {
		opts = append(opts, money.WithThousandsSeparator(p.ThousandsSeparator))
	}
	if p.IsSet(KeyDecimalSeparator) {
		opts = append(opts, money.WithDecimalSeparator(p.DecimalSeparator))
	}
	return opts
}

// Apply writes the keys set in the profile into the defaults of f.
func (p *Profile) Apply(f *money.Formatter) {
	if p.IsSet(KeySymbol) {
		f.SetCurrencySymbol(p.Symbol)
	}
	if style, ok := p.negativeStyle(); ok {
		f.SetNegativeFormat(style)
	}
	if pos, ok := p.symbolPosition(); ok {
		f.SetSymbolPosition(pos)
	}
	if p.IsSet(KeyThousandsSeparator) {
		f.SetThousandsSeparator(p.ThousandsSeparator)
	}
	if p.IsSet(KeyDecimalSeparator) {
		f.SetDecimalSeparator(p.DecimalSeparator)
	}
}

// FormatFunc returns a format function that always supplies the keys set
// in the profile.
func (p *Profile) FormatFunc() money.FormatFunc {
	opts := p.Options()
	return func() []money.FormatOption {
		return opts
	}
}

func (p *Profile) negativeStyle() (money.NegativeStyle, bool) {
	if !p.IsSet(KeyNegativeFormat) {
		return 0, false
	}
	style, err := money.ParseNegativeStyle(p.NegativeFormat)
	return style, err == nil
}

func (p *Profile) symbolPosition() (money.SymbolPosition, bool) {
	if !p.IsSet(KeySymbolPosition) {
		return 0, false
	}
	pos, err := money.ParseSymbolPosition(p.SymbolPosition)
	return pos, err == nil
}
