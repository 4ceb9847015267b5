// Package gold implements golden files.
package gold

import (
	"flag"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const defaultDir = "_golden"

// Update reports whether golden files update is requested.
//
// Call Init() in TestMain to propagate.
var Update bool

// Init should be called in TestMain.
func Init() {
	flag.BoolVar(&Update, "update", false, "update golden files")
}

// Path returns path to golden file.
func Path(elems ...string) string {
	return filepath.Join(
		append([]string{defaultDir}, elems...)...,
	)
}

// ReadFile reads golden file.
func ReadFile(t testing.TB, elems ...string) []byte {
	t.Helper()

	p := Path(elems...)
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("golden file %s: %+v", path.Join(elems...), err)
	}

	return data
}

func writeFile(t testing.TB, data []byte, elems ...string) {
	t.Helper()

	p := Path(elems...)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o700))
	require.NoError(t, os.WriteFile(p, data, 0o600))
}

// name of golden file for test without explicit one.
func name(t testing.TB, ext string) []string {
	return []string{strings.ReplaceAll(t.Name(), "/", "_") + ext}
}

// Bytes compares data with golden file, updating it if requested.
//
// Default file name is test name with ".raw" extension.
func Bytes(t testing.TB, data []byte, elems ...string) {
	t.Helper()

	if len(elems) == 0 {
		elems = name(t, ".raw")
	}
	if Update {
		writeFile(t, data, elems...)
		return
	}
	require.Equal(t, ReadFile(t, elems...), data, "golden file %s mismatch", path.Join(elems...))
}

// Str compares string with golden file, updating it if requested.
func Str(t testing.TB, s string, elems ...string) {
	t.Helper()

	if len(elems) == 0 {
		elems = name(t, ".txt")
	}
	if Update {
		writeFile(t, []byte(s), elems...)
		return
	}
	require.Equal(t, string(ReadFile(t, elems...)), s, "golden file %s mismatch", path.Join(elems...))
}
