package flags

import (
	"strings"

	"github.com/leftmike/primdb/config"
)

type Flag int

const (
	ConfirmDestructive Flag = iota
	CacheSelect
	ReportTiming
)

type flagDefault struct {
	flag Flag
	def  bool
}

var (
	defaultFlags = map[string]flagDefault{
		"confirm_destructive": {ConfirmDestructive, true},
		"cache_select":        {CacheSelect, true},
		"report_timing":       {ReportTiming, false},
	}
)

func LookupFlag(nam string) (Flag, bool) {
	fd, ok := defaultFlags[strings.ToLower(nam)]
	return fd.flag, ok
}

func ListFlags(fn func(nam string, f Flag)) {
	for nam, fd := range defaultFlags {
		fn(nam, fd.flag)
	}
}

type Flags []config.BoolValue

func (flgs Flags) GetFlag(f Flag) bool {
	return bool(flgs[f])
}

func (flgs Flags) SetFlag(f Flag, b bool) {
	flgs[f] = config.BoolValue(b)
}

// Config returns the default flags, each of which may be set in the config file.
func Config(cfg *config.Config) Flags {
	flgs := Default()
	for nam, fd := range defaultFlags {
		cfg.Var(&flgs[fd.flag], nam)
	}
	return flgs
}

func Default() Flags {
	flgs := make(Flags, len(defaultFlags))
	for _, fd := range defaultFlags {
		flgs[fd.flag] = config.BoolValue(fd.def)
	}
	return flgs
}
