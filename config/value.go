package config

import (
	"fmt"
	"strconv"
)

type BoolValue bool

func (b *BoolValue) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*b = BoolValue(v)
	return nil
}

func (b *BoolValue) SetValue(v interface{}) error {
	bv, ok := v.(bool)
	if !ok {
		return fmt.Errorf("parsing %v: expected a boolean", v)
	}
	*b = BoolValue(bv)
	return nil
}

func (b *BoolValue) String() string {
	return strconv.FormatBool(bool(*b))
}
