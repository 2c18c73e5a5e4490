package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffgrann/money"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const euroProfile = `
symbol: "€"
negative_format: PARENTHESES
symbol_position: after
thousands_separator: "."
decimal_separator: ","
`

func TestLoad(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		p, err := Load(writeFile(t, "money.yaml", euroProfile))
		require.NoError(t, err)

		assert.Equal(t, "€", p.Symbol)
		assert.Equal(t, "PARENTHESES", p.NegativeFormat)
		assert.Equal(t, "after", p.SymbolPosition)
		assert.Equal(t, ".", p.ThousandsSeparator)
		assert.Equal(t, ",", p.DecimalSeparator)
		for _, key := range keys {
			assert.True(t, p.IsSet(key), "IsSet(%q)", key)
		}
	})

	t.Run("json", func(t *testing.T) {
		p, err := Load(writeFile(t, "money.json", `{"symbol": "£", "symbol_position": "BEFORE"}`))
		require.NoError(t, err)

		assert.Equal(t, "£", p.Symbol)
		assert.True(t, p.IsSet(KeySymbol))
		assert.True(t, p.IsSet(KeySymbolPosition))
		assert.False(t, p.IsSet(KeyNegativeFormat))
		assert.False(t, p.IsSet(KeyDecimalSeparator))
	})

	t.Run("empty symbol", func(t *testing.T) {
		p, err := Load(writeFile(t, "money.yaml", "symbol: \"\"\n"))
		require.NoError(t, err)

		assert.True(t, p.IsSet(KeySymbol))
		assert.Equal(t, "", p.Symbol)
		assert.Equal(t, "2,387.00", money.NewFormatter(p.Options()...).Format(money.MustMake(2387)))
	})

	t.Run("no file", func(t *testing.T) {
		p, err := Load("")
		require.NoError(t, err)

		assert.Empty(t, p.Options())
		for _, key := range keys {
			assert.False(t, p.IsSet(key), "IsSet(%q)", key)
		}
	})

	t.Run("mixed case", func(t *testing.T) {
		p, err := Load(writeFile(t, "money.yaml", "negative_format: Minus_Sign\nsymbol_position: After\n"))
		require.NoError(t, err)

		f := money.NewFormatter(money.WithNegativeStyle(money.Parentheses))
		p.Apply(f)
		assert.Equal(t, money.MinusSign, f.NegativeFormat())
		assert.Equal(t, money.After, f.SymbolPosition())
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("MONEY_SYMBOL", "CHF ")
		t.Setenv("MONEY_NEGATIVE_FORMAT", "minus_sign")
		t.Setenv("MONEY_DECIMAL_SEPARATOR", "")

		p, err := Load(writeFile(t, "money.yaml", euroProfile))
		require.NoError(t, err)

		assert.Equal(t, "CHF ", p.Symbol)
		assert.Equal(t, "minus_sign", p.NegativeFormat)
		assert.Equal(t, ",", p.DecimalSeparator, "empty variable must not override the file")
	})
}

func TestLoad_Error(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	tests := map[string]string{
		"negative format":  "negative_format: sideways\n",
		"symbol position":  "symbol_position: above\n",
		"long symbol":      "symbol: " + strings.Repeat("x", 17) + "\n",
		"long separator":   "thousands_separator: \"" + strings.Repeat("-", 17) + "\"\n",
		"decimal too long": "decimal_separator: " + strings.Repeat("y", 20) + "\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "money.yaml", content))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidProfile)
		})
	}

	t.Run("invalid environment", func(t *testing.T) {
		t.Setenv("MONEY_SYMBOL_POSITION", "middle")
		_, err := Load("")
		assert.ErrorIs(t, err, ErrInvalidProfile)
	})
}

func TestFromViper(t *testing.T) {
	v := viper.New()
	v.Set(KeyNegativeFormat, "parentheses")
	v.Set(KeyThousandsSeparator, " ")

	p, err := FromViper(v)
	require.NoError(t, err)

	assert.True(t, p.IsSet(KeyNegativeFormat))
	assert.True(t, p.IsSet(KeyThousandsSeparator))
	assert.False(t, p.IsSet(KeySymbol))
	assert.Len(t, p.Options(), 2)
	assert.Equal(t, "$(2 387.00)", money.NewFormatter(p.Options()...).Format(money.MustMake(-2387)))
}

func TestProfile_Apply(t *testing.T) {
	p, err := Load(writeFile(t, "money.yaml", euroProfile))
	require.NoError(t, err)

	f := money.NewFormatter()
	p.Apply(f)

	assert.Equal(t, money.FormatOptions{
		Symbol:             "€",
		NegativeStyle:      money.Parentheses,
		SymbolPosition:     money.After,
		ThousandsSeparator: ".",
		DecimalSeparator:   ",",
	}, f.Defaults())
	assert.Equal(t, "(2.387,00)€", f.Format(money.MustMake(-2387)))
}

func TestProfile_Apply_Partial(t *testing.T) {
	p, err := Load(writeFile(t, "money.yaml", "symbol_position: AFTER\n"))
	require.NoError(t, err)

	f := money.NewFormatter(money.WithSymbol("%"))
	p.Apply(f)

	assert.Equal(t, "%", f.CurrencySymbol())
	assert.Equal(t, money.After, f.SymbolPosition())
	assert.Equal(t, money.MinusSign, f.NegativeFormat())
	assert.Equal(t, "-2,387.00%", f.Format(money.MustMake(-2387)))
}

func TestProfile_FormatFunc(t *testing.T) {
	p, err := Load(writeFile(t, "money.yaml", euroProfile))
	require.NoError(t, err)

	f := money.NewFormatter()
	f.SetFormatFunc(p.FormatFunc())

	assert.Equal(t, "(2.387,00)€", f.Format(money.MustMake(-2387)))
	assert.Equal(t, "-2.387,00€", f.Format(money.MustMake(-2387), money.WithNegativeStyle(money.MinusSign)))
	assert.Equal(t, money.StandardFormat(), f.Defaults(), "format function must not change defaults")
}

func TestProfile_DefaultFormatter(t *testing.T) {
	t.Cleanup(money.Default().Reset)

	p, err := Load(writeFile(t, "money.yaml", euroProfile))
	require.NoError(t, err)

	money.SetFormatFunc(p.FormatFunc())
	assert.Equal(t, "1.822.456,34€", money.MustMake(1822456.34).String())
}
