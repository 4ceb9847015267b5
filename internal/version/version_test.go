package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	for _, tc := range []struct {
		Name   string
		Input  debug.BuildInfo
		Output Value
	}{
		{
			Name:   "Empty",
			Output: dev,
		},
		{
			Name: "Main",
			Input: debug.BuildInfo{
				Main: debug.Module{
					Path:    "github.com/go-faster/lz4pack/internal/cmd/lz4-pack",
					Version: "v1.5.10",
				},
			},
			Output: Value{Major: 1, Minor: 5, Patch: 10, Raw: "v1.5.10"},
		},
		{
			Name: "Devel",
			Input: debug.BuildInfo{
				Main: debug.Module{
					Path:    "github.com/go-faster/lz4pack",
					Version: "(devel)",
				},
			},
			Output: dev,
		},
		{
			Name: "Dependency",
			Input: debug.BuildInfo{
				Main: debug.Module{Path: "example.com/app"},
				Deps: []*debug.Module{
					{Path: "github.com/go-faster/lz4packer", Version: "v9.9.9"},
					{Path: "github.com/go-faster/lz4pack", Version: "v0.3.1-rc.2"},
				},
			},
			Output: Value{Minor: 3, Patch: 1, Pre: "rc.2", Raw: "v0.3.1-rc.2"},
		},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			require.Equal(t, tc.Output, Extract(&tc.Input))
		})
	}
}

func TestValue_String(t *testing.T) {
	require.Equal(t, "v1.2.3", Value{Major: 1, Minor: 2, Patch: 3}.String())
	require.Equal(t, "v0.0.0-dev", dev.String())
	require.Equal(t, dev, Get())
}
