package value

import (
	"fmt"
)

type DataType int

const (
	IntegerType DataType = iota + 1
	TextType
	BooleanType
)

// String returns the spelling used in column specs and in the schema document.
func (dt DataType) String() string {
	switch dt {
	case IntegerType:
		return "int"
	case TextType:
		return "str"
	case BooleanType:
		return "bool"
	}
	return ""
}

func ParseDataType(s string) (DataType, bool) {
	switch s {
	case "int":
		return IntegerType, true
	case "str":
		return TextType, true
	case "bool":
		return BooleanType, true
	}
	return 0, false
}

func (dt DataType) MarshalText() ([]byte, error) {
	s := dt.String()
	if s == "" {
		return nil, fmt.Errorf("value: invalid data type: %d", int(dt))
	}
	return []byte(s), nil
}

func (dt *DataType) UnmarshalText(b []byte) error {
	t, ok := ParseDataType(string(b))
	if !ok {
		return fmt.Errorf("value: unknown data type: %q", string(b))
	}
	*dt = t
	return nil
}
