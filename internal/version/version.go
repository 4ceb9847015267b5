// Package version resolves lz4pack module version from build info.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/hashicorp/go-version"
)

const modulePath = "github.com/go-faster/lz4pack"

// Value is a module version.
type Value struct {
	Major int
	Minor int
	Patch int
	Pre   string // "alpha", "rc.1"
	Raw   string
}

func (v Value) String() string {
	s := fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Pre != "" {
		s += "-" + v.Pre
	}
	return s
}

var dev = Value{Pre: "dev", Raw: "0.0.0-dev"}

// Parse parses raw semantic version, returning dev version on failure.
func Parse(raw string) Value {
	v, err := version.NewSemver(raw)
	if err != nil {
		return dev
	}
	out := Value{Pre: v.Prerelease(), Raw: raw}
	if s := v.Segments(); len(s) > 2 {
		out.Major, out.Minor, out.Patch = s[0], s[1], s[2]
	}
	return out
}

// Extract finds version of this module in build info, either as main
// module or as dependency.
func Extract(info *debug.BuildInfo) Value {
	if strings.HasPrefix(info.Main.Path, modulePath) {
		return Parse(info.Main.Version)
	}
	for _, d := range info.Deps {
		if d.Path == modulePath {
			return Parse(d.Version)
		}
	}
	return dev
}

var once struct {
	sync.Once
	value Value
}

// Get returns current module version.
//
// Replace directives are not handled.
func Get() Value {
	once.Do(func() {
		once.value = dev
		if info, ok := debug.ReadBuildInfo(); ok {
			once.value = Extract(info)
		}
	})
	return once.value
}
