package value

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	TrueString  = "true"
	FalseString = "false"
)

// Value is one of Int64Value, StringValue, or BoolValue; no other implementations exist.
type Value interface {
	fmt.Stringer
	Type() DataType
	isValue()
}

type Int64Value int64

func (_ Int64Value) Type() DataType {
	return IntegerType
}

func (i Int64Value) String() string {
	return strconv.FormatInt(int64(i), 10)
}

func (_ Int64Value) isValue() {}

type StringValue string

func (_ StringValue) Type() DataType {
	return TextType
}

func (s StringValue) String() string {
	return fmt.Sprintf("'%s'", string(s))
}

func (_ StringValue) isValue() {}

type BoolValue bool

func (_ BoolValue) Type() DataType {
	return BooleanType
}

func (b BoolValue) String() string {
	if b {
		return TrueString
	}
	return FalseString
}

func (_ BoolValue) isValue() {}

// Equal is exact and type sensitive: Int64Value(28) is not equal to StringValue("28").
func Equal(v1, v2 Value) bool {
	if v1 == nil || v2 == nil {
		return v1 == v2
	}

	switch v1 := v1.(type) {
	case Int64Value:
		i2, ok := v2.(Int64Value)
		return ok && v1 == i2
	case StringValue:
		s2, ok := v2.(StringValue)
		return ok && v1 == s2
	case BoolValue:
		b2, ok := v2.(BoolValue)
		return ok && v1 == b2
	default:
		panic(fmt.Sprintf("unexpected type for value.Value: %T: %v", v1, v1))
	}
}

// Format returns the unquoted text of a value, as shown in result grids and used when
// converting to a string column.
func Format(v Value) string {
	switch v := v.(type) {
	case nil:
		return ""
	case StringValue:
		return string(v)
	default:
		return v.String()
	}
}

// Convert coerces v to the data type dt. It fails closed: a value that can not be
// represented as dt is an error.
func Convert(dt DataType, v Value) (Value, error) {
	switch dt {
	case IntegerType:
		if i, ok := v.(Int64Value); ok {
			return i, nil
		}
		i, err := strconv.ParseInt(strings.TrimSpace(Format(v)), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("expected an integer: %s", Format(v))
		}
		return Int64Value(i), nil
	case TextType:
		if s, ok := v.(StringValue); ok {
			return s, nil
		}
		return StringValue(Format(v)), nil
	case BooleanType:
		if b, ok := v.(BoolValue); ok {
			return b, nil
		}
		switch strings.ToLower(strings.TrimSpace(Format(v))) {
		case TrueString, "1":
			return BoolValue(true), nil
		case FalseString, "0":
			return BoolValue(false), nil
		}
		return nil, fmt.Errorf("expected a boolean: %s", Format(v))
	default:
		panic(fmt.Sprintf("expected a valid data type; got %v", dt))
	}
}
