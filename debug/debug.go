package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Decode  bool
	Resolve bool
	Lazy    bool
	LSP     bool
}

var d *debug

func init() {
	d = &debug{}
	d.Decode = boolEnv("DG_DEBUG_DECODE")
	d.Resolve = boolEnv("DG_DEBUG_RESOLVE")
	d.Lazy = boolEnv("DG_DEBUG_LAZY")
	d.LSP = boolEnv("DG_DEBUG_LSP")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Decode() bool {
	return d.Decode
}
func Resolve() bool {
	return d.Resolve
}
func Lazy() bool {
	return d.Lazy
}
func LSP() bool {
	return d.LSP
}

// Logf writes a formatted line to stderr.
func Logf(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f, args...)
	if len(f) == 0 || f[len(f)-1] != '\n' {
		os.Stderr.Write([]byte{'\n'})
	}
}
