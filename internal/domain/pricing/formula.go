package pricing

import (
	"fmt"
	"strings"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Operator is the arithmetic a formula applies to a product cost
type Operator string

const (
	OperatorAdd      Operator = "add"
	OperatorMultiply Operator = "multiply"
)

// String returns the string representation of the operator
func (o Operator) String() string {
	return string(o)
}

// IsValid returns true if the operator is supported
func (o Operator) IsValid() bool {
	switch o {
	case OperatorAdd, OperatorMultiply:
		return true
	default:
		return false
	}
}

// ParseOperator parses an operator name, accepting the UI symbols "+" and "x" as aliases
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add", "+", "plus":
		return OperatorAdd, nil
	case "multiply", "x", "*", "times":
		return OperatorMultiply, nil
	default:
		return "", shared.NewDomainError("INVALID_OPERATOR", fmt.Sprintf("Unsupported formula operator %q", s))
	}
}

// Formula derives a price from a product cost: cost + operand or cost * operand
type Formula struct {
	Operator Operator
	Operand  decimal.Decimal
}

// NewFormula creates a validated formula
func NewFormula(operator Operator, operand decimal.Decimal) (Formula, error) {
	f := Formula{Operator: operator, Operand: operand}
	if err := f.Validate(); err != nil {
		return Formula{}, err
	}
	return f, nil
}

// MustFormula is NewFormula for literals known to be valid
func MustFormula(operator Operator, operand decimal.Decimal) Formula {
	f, err := NewFormula(operator, operand)
	if err != nil {
		panic(err)
	}
	return f
}

// Validate checks the operator and that the operand is not negative
func (f Formula) Validate() error {
	if !f.Operator.IsValid() {
		return shared.NewDomainError("INVALID_OPERATOR", fmt.Sprintf("Unsupported formula operator %q", f.Operator))
	}
	if f.Operand.IsNegative() {
		return shared.NewDomainError("INVALID_OPERAND", "Formula operand cannot be negative")
	}
	return nil
}

// Apply computes the derived price for the given cost
func (f Formula) Apply(cost decimal.Decimal) decimal.Decimal {
	if f.Operator == OperatorAdd {
		return cost.Add(f.Operand)
	}
	return cost.Mul(f.Operand)
}

// Equal reports whether two formulas are the same
func (f Formula) Equal(other Formula) bool {
	return f.Operator == other.Operator && f.Operand.Equal(other.Operand)
}

// String renders the formula the way the settings screen shows it, e.g. "x 2.5"
func (f Formula) String() string {
	symbol := "x"
	if f.Operator == OperatorAdd {
		symbol = "+"
	}
	return symbol + " " + f.Operand.String()
}
