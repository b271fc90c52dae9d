package auxdata

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

var ErrInvalidRule = fmt.Errorf("auxdata: invalid field rule")

// Condition is one comparison within a modifier's test set.
//
// It reads the current working value of Field, which may have been
// rewritten by modifiers evaluated earlier.
type Condition struct {
	Field string
	Op    CompareOp

	// Literal is string or float64, depending on what the config wrote.
	Literal any
}

type CompareOp string

const (
	CompareEq CompareOp = "eq"
	CompareNe CompareOp = "ne"
	CompareGt CompareOp = "gt"
	CompareLt CompareOp = "lt"
)

func (c *Condition) UnmarshalYAML(node *yaml.Node) error {
	raw := struct {
		Field string    `yaml:"field"`
		Eq    yaml.Node `yaml:"eq"`
		Ne    yaml.Node `yaml:"ne"`
		Gt    yaml.Node `yaml:"gt"`
		Lt    yaml.Node `yaml:"lt"`
	}{}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.Field == "" {
		return fmt.Errorf("%w: test without field", ErrInvalidRule)
	}

	given := map[CompareOp]*yaml.Node{
		CompareEq: &raw.Eq, CompareNe: &raw.Ne, CompareGt: &raw.Gt, CompareLt: &raw.Lt,
	}
	found := 0
	for op, n := range given {
		if n.IsZero() {
			continue
		}
		found += 1
		literal, err := decodeScalar(n)
		if err != nil {
			return err
		}
		c.Op = op
		c.Literal = literal
	}
	if found != 1 {
		return fmt.Errorf(
			"%w: test on %s needs exactly one of eq/ne/gt/lt, got %d",
			ErrInvalidRule, raw.Field, found,
		)
	}

	c.Field = raw.Field
	return nil
}

// Holds reports whether the condition is satisfied by value.
//
// Comparisons never coerce across types: a string literal matched
// against a numeric value (or vice versa) does not hold.
func (c Condition) Holds(value any) bool {
	switch literal := c.Literal.(type) {
	case string:
		s, ok := value.(string)
		if !ok {
			return false
		}
		switch c.Op {
		case CompareEq:
			return s == literal
		case CompareNe:
			return s != literal
		}
		return false
	case float64:
		v, ok := asFloat(value)
		if !ok {
			return false
		}
		switch c.Op {
		case CompareEq:
			return v == literal
		case CompareNe:
			return v != literal
		case CompareGt:
			return v > literal
		case CompareLt:
			return v < literal
		}
	}
	return false
}

// Operation is one arithmetic step of a modifier, from the closed set
// multiply/add/subtract/divide.
type Operation struct {
	Kind    OperationKind
	Operand float64
}

type OperationKind string

const (
	OpMultiply OperationKind = "multiply"
	OpAdd      OperationKind = "add"
	OpSubtract OperationKind = "subtract"
	OpDivide   OperationKind = "divide"
)

func (o *Operation) UnmarshalYAML(node *yaml.Node) error {
	raw := struct {
		Multiply *float64 `yaml:"multiply"`
		Add      *float64 `yaml:"add"`
		Subtract *float64 `yaml:"subtract"`
		Divide   *float64 `yaml:"divide"`
	}{}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	given := map[OperationKind]*float64{
		OpMultiply: raw.Multiply, OpAdd: raw.Add, OpSubtract: raw.Subtract, OpDivide: raw.Divide,
	}
	found := 0
	for kind, operand := range given {
		if operand == nil {
			continue
		}
		found += 1
		o.Kind = kind
		o.Operand = *operand
	}
	if found != 1 {
		return fmt.Errorf(
			"%w: operation needs exactly one of multiply/add/subtract/divide, got %d",
			ErrInvalidRule, found,
		)
	}
	if o.Kind == OpDivide && o.Operand == 0 {
		return fmt.Errorf("%w: divide by zero", ErrInvalidRule)
	}
	return nil
}

// Apply runs the operation over a running numeric value.
func (o Operation) Apply(value float64) float64 {
	switch o.Kind {
	case OpMultiply:
		return value * o.Operand
	case OpAdd:
		return value + o.Operand
	case OpSubtract:
		return value - o.Operand
	case OpDivide:
		return value / o.Operand
	}
	return value
}

// Modifier is one conditional transform: when every condition of Test
// holds, the operations are applied in order.
type Modifier struct {
	Test      []Condition `yaml:"test"`
	Operation []Operation `yaml:"operation"`
}

// FieldRule declares how one raw field is emitted.
type FieldRule struct {
	// Name of the emitted field. Defaults to the raw field name.
	Name string `yaml:"name"`

	// UOM is the unit-of-measure string attached to the output.
	UOM string `yaml:"uom"`

	// Round is decimal precision of the output, when set.
	Round *int `yaml:"round"`

	// NoOutput suppresses emission. The field stays readable by other
	// fields' modifier tests.
	NoOutput bool `yaml:"no_output"`

	Modify []Modifier `yaml:"modify"`
}

func (r FieldRule) validate(rawField string) error {
	if r.Round != nil && *r.Round < 0 {
		return fmt.Errorf("%w: %s: negative round", ErrInvalidRule, rawField)
	}
	for _, m := range r.Modify {
		if len(m.Test) == 0 {
			return fmt.Errorf("%w: %s: modify without test", ErrInvalidRule, rawField)
		}
		if len(m.Operation) == 0 {
			return fmt.Errorf("%w: %s: modify without operation", ErrInvalidRule, rawField)
		}
	}
	return nil
}

// roundTo rounds half away from zero at the given decimal precision.
func roundTo(value float64, precision int) float64 {
	shift := math.Pow(10, float64(precision))
	return math.Round(value*shift) / shift
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func decodeScalar(node *yaml.Node) (any, error) {
	var f float64
	if err := node.Decode(&f); err == nil {
		return f, nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return nil, err
	}
	return s, nil
}
