/*
Package money implements monetary amounts with exactly two digits after the
decimal point.
It leverages the [decimal] package for exact conversion and arithmetic, and
stores every amount as an integer number of minor units (cents).

# Features

  - Immutable amounts, ensuring safe usage across multiple goroutines
  - Exact conversion of Go numbers, including binary floats such as 1.005
  - Arithmetic and comparison operations accepting amounts or plain numbers
  - Rounding half away from zero, applied once per operation
  - Configurable text rendering with currency symbol, negative style,
    symbol position and separators

# Representation

An Amount is a struct holding a single int64, the number of minor units.
Its zero value is 0.00.
Conversion from a float goes through the shortest decimal representation
of the float, so 13.085 is treated as 13.085 and not as
13.0849999999999990763, and is rounded to 13.09.

# Supported Ranges

The number of minor units must fit into an int64, excluding [math.MinInt64]:

	| Minimum                    | Maximum                   |
	| -------------------------- | ------------------------- |
	| -92233720368547758.07      | 92233720368547758.07      |

Operations that produce a value outside this range return an overflow error.

# Operations

Amounts support Plus, Minus, Times, DividedBy and the comparisons
IsEqualTo, IsGreaterThan, IsGreaterThanOrEqualTo, IsLessThan and
IsLessThanOrEqualTo.
The operand of these methods may be an amount or any Go number.
Typed counterparts Add, Sub, Quo, Rat and Cmp are available for callers that
already hold amounts.
Dividing an amount by a number gives an amount, while dividing an amount by
an amount gives a plain ratio, see [Quotient].

# Formatting

Amounts are rendered by a [Formatter].
Each of the five format settings is taken from the options passed to the
format call, then from the formatter's format function, then from the
formatter's defaults.
The process-wide [Default] formatter is used by [Amount.String] and
[Amount.Text]; its defaults render -1234.5 as -$1,234.50.
Subpackage config loads format profiles from files and environment
variables.

# Errors

Operations return an error wrapping [ErrInvalidOperand] when given a value
that is neither an amount nor a number, and an error on division by zero
or overflow.
Constructors prefixed with Must panic instead.
*/
package money
