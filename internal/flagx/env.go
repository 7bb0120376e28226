package flagx

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvLookup reads environment variables. Loaders take it as a parameter so
// tests can pass a map instead of mutating the process environment.
type EnvLookup func(key string) (string, bool)

// OSEnv is the EnvLookup backed by the process environment.
var OSEnv EnvLookup = os.LookupEnv

// MapEnv adapts a map to EnvLookup.
func MapEnv(m map[string]string) EnvLookup {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// Env overlays configuration values from environment variables. Unset and
// blank variables leave the target untouched. The first parse error is kept
// and reported by Err.
type Env struct {
	lookup EnvLookup
	err    error
}

func NewEnv(lookup EnvLookup) *Env {
	if lookup == nil {
		lookup = OSEnv
	}
	return &Env{lookup: lookup}
}

func (e *Env) get(key string) (string, bool) {
	v, ok := e.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (e *Env) fail(key string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("env %s: %w", key, err)
	}
}

func (e *Env) String(dst *string, key string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *Env) Int(dst *int, key string) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, err)
		return
	}
	*dst = n
}

func (e *Env) Float(dst *float64, key string) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, err)
		return
	}
	*dst = f
}

// Duration accepts Go duration strings ("10s") and bare integers, which are
// read in the given unit.
func (e *Env) Duration(dst *time.Duration, key string, unit time.Duration) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		*dst = time.Duration(n * float64(unit))
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, err)
		return
	}
	*dst = d
}

// List splits a comma separated value, dropping blanks.
func (e *Env) List(dst *[]string, key string) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}

func (e *Env) Err() error { return e.err }

// Overlay copies *v into *dst when v is non-nil. JSON loaders use pointer
// fields so that absent keys keep their defaults.
func Overlay[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
