// Package script builds tone sequences from Lua.
//
// A script calls beep{freq=, length=, reps=, delay=, end_delay=} once per
// request, in playback order. Missing fields take the command line defaults.
// rest(ms) appends a silent request of the given length.
package script

import (
	"context"
	"fmt"
	"os"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/Hawk777/abeep/internal/tone"
)

// Timeout bounds script execution.
const Timeout = 5 * time.Second

var beepFields = map[string]bool{
	"freq":      true,
	"length":    true,
	"reps":      true,
	"delay":     true,
	"end_delay": true,
}

// LoadFile runs the script at path.
func LoadFile(ctx context.Context, path string) (tone.Sequence, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(ctx, path, string(src))
}

// Load runs src and returns the validated sequence it built. name is used in
// error messages.
func Load(ctx context.Context, name, src string) (tone.Sequence, error) {
	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile"} {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetContext(ctx)

	var seq tone.Sequence
	L.SetGlobal("beep", L.NewFunction(func(L *lua.LState) int {
		t := L.OptTable(1, L.NewTable())
		t.ForEach(func(k, _ lua.LValue) {
			if !beepFields[k.String()] {
				L.ArgError(1, fmt.Sprintf("unknown field %q", k.String()))
			}
		})
		req := tone.Default()
		req.Frequency = number(L, t, "freq", req.Frequency)
		req.Length = int(number(L, t, "length", float64(req.Length)))
		req.Reps = int(number(L, t, "reps", float64(req.Reps)))
		req.Delay = int(number(L, t, "delay", float64(req.Delay)))
		if v := t.RawGetString("end_delay"); v != lua.LNil {
			req.EndDelay = lua.LVAsBool(v)
		}
		seq = append(seq, req)
		return 0
	}))
	L.SetGlobal("rest", L.NewFunction(func(L *lua.LState) int {
		seq = append(seq, tone.Request{Length: L.CheckInt(1), Reps: 1})
		return 0
	}))

	if err := L.DoString(src); err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	if err := seq.Validate(); err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	return seq, nil
}

func number(L *lua.LState, t *lua.LTable, key string, def float64) float64 {
	v := t.RawGetString(key)
	if v == lua.LNil {
		return def
	}
	n, ok := v.(lua.LNumber)
	if !ok {
		L.ArgError(1, fmt.Sprintf("%s must be a number, got %s", key, v.Type()))
	}
	return float64(n)
}
