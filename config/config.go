// Package config sets variables from command line flags, the environment, and an HCL
// config file. A flag given on the command line wins over the environment, which wins
// over the config file, which wins over the default.
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"sort"

	"github.com/hashicorp/hcl"
	"github.com/spf13/pflag"
)

type Value interface {
	Set(string) error
	String() string
}

// A Value which can also be set from a typed value decoded from a config file.
type valueSetter interface {
	SetValue(interface{}) error
}

type setBy int

const (
	byDefault setBy = iota
	byConfig
	byEnv
	byFlag
)

func (by setBy) String() string {
	switch by {
	case byDefault:
		return "default"
	case byConfig:
		return "config"
	case byEnv:
		return "environment"
	case byFlag:
		return "flag"
	}
	return fmt.Sprintf("setBy(%d)", int(by))
}

type Variable struct {
	name     string
	val      Value
	flg      *pflag.Flag
	env      string
	noConfig bool
	by       setBy
}

type Config struct {
	vars map[string]*Variable
}

func NewConfig() *Config {
	return &Config{
		vars: map[string]*Variable{},
	}
}

func (c *Config) add(v *Variable) *Variable {
	if _, ok := c.vars[v.name]; ok {
		panic(fmt.Sprintf("config: variable redefined: %s", v.name))
	}
	c.vars[v.name] = v
	return v
}

// Flag makes the flag name in fs a config variable with the same name.
func (c *Config) Flag(fs *pflag.FlagSet, name string) *Variable {
	flg := fs.Lookup(name)
	if flg == nil {
		panic(fmt.Sprintf("config: no such flag: %s", name))
	}
	return c.add(&Variable{
		name: name,
		val:  flg.Value,
		flg:  flg,
	})
}

// Var makes a config variable which is not a flag.
func (c *Config) Var(val Value, name string) *Variable {
	return c.add(&Variable{
		name: name,
		val:  val,
	})
}

// Env sets the environment variable which may also be used to set v.
func (v *Variable) Env(env string) *Variable {
	v.env = env
	return v
}

// NoConfig keeps v from being set in a config file.
func (v *Variable) NoConfig() *Variable {
	v.noConfig = true
	return v
}

func (v *Variable) Name() string {
	return v.name
}

func (v *Variable) String() string {
	return v.val.String()
}

func (v *Variable) flagged() bool {
	if v.flg != nil && v.flg.Changed {
		v.by = byFlag
	}
	return v.by == byFlag
}

// Env sets every variable not given on the command line from its environment variable,
// if that is set.
func (c *Config) Env() error {
	for _, v := range c.vars {
		if v.env == "" || v.flagged() {
			continue
		}
		s, ok := os.LookupEnv(v.env)
		if !ok {
			continue
		}
		err := v.val.Set(s)
		if err != nil {
			return fmt.Errorf("config: %s: %s", v.env, err)
		}
		v.by = byEnv
	}
	return nil
}

// Load sets variables from an HCL config file. Variables given on the command line or in
// the environment keep their values.
func (c *Config) Load(b []byte) error {
	var cfg map[string]interface{}

	err := hcl.Decode(&cfg, string(b))
	if err != nil {
		return fmt.Errorf("config: %s", err)
	}

	names := make([]string, 0, len(cfg))
	for name := range cfg {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v, ok := c.vars[name]
		if !ok {
			return fmt.Errorf("config: %s is not a config variable", name)
		}
		if v.noConfig {
			return fmt.Errorf("config: %s can't be set in config file", name)
		}
		if v.flagged() || v.by == byEnv {
			continue
		}

		if vs, ok := v.val.(valueSetter); ok {
			err = vs.SetValue(cfg[name])
		} else {
			err = v.val.Set(fmt.Sprintf("%v", cfg[name]))
		}
		if err != nil {
			return fmt.Errorf("config: %s: %s", name, err)
		}
		v.by = byConfig
	}

	return nil
}

func (c *Config) LoadFile(file string) error {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return fmt.Errorf("config: %s", err)
	}
	return c.Load(b)
}

// Visit calls fn with each variable, sorted by name, and where its value came from.
func (c *Config) Visit(fn func(v *Variable, by string)) {
	names := make([]string, 0, len(c.vars))
	for name := range c.vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := c.vars[name]
		v.flagged()
		fn(v, v.by.String())
	}
}
