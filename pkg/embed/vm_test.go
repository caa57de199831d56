package skuld_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	skuld "github.com/skuldlang/skuld/pkg/embed"
)

func TestRunReturnsLastValue(t *testing.T) {
	vm := skuld.New()
	result, err := vm.Run("x = 40\nx + 2")
	require.NoError(t, err)
	assert.Equal(t, int64(42), result)
}

func TestRunConvertsValues(t *testing.T) {
	vm := skuld.New()

	result, err := vm.Run("1 / 2")
	require.NoError(t, err)
	assert.Equal(t, 0.5, result)

	result, err = vm.Run(`"hi"`)
	require.NoError(t, err)
	assert.Equal(t, "hi", result)

	result, err = vm.Run("true")
	require.NoError(t, err)
	assert.Equal(t, true, result)

	result, err = vm.Run("nil")
	require.NoError(t, err)
	assert.Nil(t, result)

	result, err = vm.Run(`[1, "two", [3]]`)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(1), "two", []interface{}{int64(3)}}, result)
}

func TestRunParseError(t *testing.T) {
	vm := skuld.New()
	_, err := vm.Run("fun broken( {")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse failed")
}

func TestRunScriptError(t *testing.T) {
	vm := skuld.New()
	_, err := vm.Run("1 / 0")
	var scriptErr *skuld.ScriptError
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, "DivisionByZero", scriptErr.Kind)
	assert.Equal(t, 1, scriptErr.Line)
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.sk")
	require.NoError(t, os.WriteFile(path, []byte("6 * 7\n"), 0o644))

	vm := skuld.New()
	result, err := vm.RunFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), result)

	_, err = vm.RunFile(filepath.Join(dir, "missing.sk"))
	require.Error(t, err)
}

func TestSetAndGet(t *testing.T) {
	vm := skuld.New()
	require.NoError(t, vm.Set("limit", 10))
	require.NoError(t, vm.Set("name", "skuld"))
	require.NoError(t, vm.Set("ratios", []float64{0.5, 1.5}))

	result, err := vm.Run("limit * 2")
	require.NoError(t, err)
	assert.Equal(t, int64(20), result)

	got, err := vm.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "skuld", got)

	got, err = vm.Get("ratios")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{0.5, 1.5}, got)

	_, err = vm.Get("missing")
	require.Error(t, err)
}

func TestSetRejectsUnsupportedType(t *testing.T) {
	vm := skuld.New()
	err := vm.Set("ch", make(chan int))
	require.Error(t, err)
}

func TestCall(t *testing.T) {
	vm := skuld.New()
	_, err := vm.Run(`fun add(a, b) {
    return a + b
}`)
	require.NoError(t, err)

	result, err := vm.Call("add", 40, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(42), result)

	_, err = vm.Call("missing")
	require.Error(t, err)

	_, err = vm.Call("add", 1)
	var scriptErr *skuld.ScriptError
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, "ArityError", scriptErr.Kind)
}

func TestSetOutput(t *testing.T) {
	vm := skuld.New()
	var out bytes.Buffer
	vm.SetOutput(&out)
	_, err := vm.Run(`print("hello")`)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out.String())
}

func TestWrapImplicitReturn(t *testing.T) {
	vm := skuld.New()
	_, err := vm.Run(`fun classify(n) {
    if n < 0 {
        "negative"
    } else {
        "positive"
    }
}`)
	require.NoError(t, err)
	require.NoError(t, vm.Wrap("classify", nil))

	result, err := vm.Call("classify", -4)
	require.NoError(t, err)
	assert.Equal(t, "negative", result)
}

func TestWrapGuardFailureRaises(t *testing.T) {
	vm := skuld.New()
	_, err := vm.Run(`fun half(n) {
    n / 2
}`)
	require.NoError(t, err)

	positive := skuld.Guard{
		Name: "positive",
		Check: func(args []interface{}) (bool, string) {
			n, ok := args[0].(int64)
			if !ok || n <= 0 {
				return false, "n must be positive"
			}
			return true, ""
		},
	}
	require.NoError(t, vm.Wrap("half", []skuld.Guard{positive}))

	result, err := vm.Call("half", 10)
	require.NoError(t, err)
	assert.Equal(t, 5.0, result)

	_, err = vm.Call("half", -10)
	var scriptErr *skuld.ScriptError
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, "GuardFailure", scriptErr.Kind)
	assert.Equal(t, "n must be positive", scriptErr.Message)
}

func TestWrapWithRaise(t *testing.T) {
	vm := skuld.New()
	_, err := vm.Run(`fun id(n) {
    n
}`)
	require.NoError(t, err)

	never := skuld.Guard{Name: "never", Check: func(args []interface{}) (bool, string) {
		return false, "rejected"
	}}
	require.NoError(t, vm.Wrap("id", []skuld.Guard{never}, skuld.WithRaise("BadInput")))

	_, err = vm.Call("id", 1)
	var scriptErr *skuld.ScriptError
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, "BadInput", scriptErr.Kind)
}

func TestWrapWithHandler(t *testing.T) {
	vm := skuld.New()
	_, err := vm.Run(`fun id(n) {
    n
}`)
	require.NoError(t, err)

	never := skuld.Guard{Name: "never", Check: func(args []interface{}) (bool, string) {
		return false, "rejected"
	}}
	var seenArgs []interface{}
	handler := func(message string, args []interface{}) interface{} {
		seenArgs = args
		return "handled: " + message
	}
	require.NoError(t, vm.Wrap("id", []skuld.Guard{never}, skuld.WithHandler(handler)))

	result, err := vm.Call("id", 7)
	require.NoError(t, err)
	assert.Equal(t, "handled: rejected", result)
	assert.Equal(t, []interface{}{int64(7)}, seenArgs)
}

func TestWrapWithSentinel(t *testing.T) {
	vm := skuld.New()
	_, err := vm.Run(`fun id(n) {
    n
}`)
	require.NoError(t, err)

	never := skuld.Guard{Name: "never", Check: func(args []interface{}) (bool, string) {
		return false, ""
	}}
	require.NoError(t, vm.Wrap("id", []skuld.Guard{never}, skuld.WithSentinel(-1)))

	result, err := vm.Call("id", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), result)
}

func TestWrapWithoutImplicitReturn(t *testing.T) {
	vm := skuld.New()
	_, err := vm.Run(`fun id(n) {
    n
}`)
	require.NoError(t, err)
	require.NoError(t, vm.Wrap("id", nil, skuld.WithImplicitReturn(false)))

	// Without the rewrite the tail expression is not returned.
	result, err := vm.Call("id", 7)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestWrapRejectsMissingAndNonFunctions(t *testing.T) {
	vm := skuld.New()
	require.Error(t, vm.Wrap("missing", nil))

	require.NoError(t, vm.Set("x", 5))
	err := vm.Wrap("x", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a script function")
}

func TestWrapReportsTransformError(t *testing.T) {
	vm := skuld.New()
	_, err := vm.Run(`fun bad(n) {
    if n > 0 {
        n
    }
}`)
	require.NoError(t, err)
	err = vm.Wrap("bad", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "else")
}

func TestWrapTwice(t *testing.T) {
	vm := skuld.New()
	_, err := vm.Run(`fun id(n) {
    n
}`)
	require.NoError(t, err)
	require.NoError(t, vm.Wrap("id", nil))
	require.NoError(t, vm.Wrap("id", nil))

	result, err := vm.Call("id", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result)
}

func TestWrapLogging(t *testing.T) {
	vm := skuld.New()
	_, err := vm.Run(`fun id(n) {
    n
}`)
	require.NoError(t, err)

	never := skuld.Guard{Name: "never", Check: func(args []interface{}) (bool, string) {
		return false, "rejected"
	}}
	var log bytes.Buffer
	require.NoError(t, vm.Wrap("id", []skuld.Guard{never}, skuld.WithLog(&log)))

	_, err = vm.Call("id", 1)
	require.Error(t, err)
	assert.Contains(t, log.String(), "guard failure")
	assert.Contains(t, log.String(), "guard=never")
}

func TestScriptErrorFormatting(t *testing.T) {
	err := &skuld.ScriptError{Kind: "TypeError", Message: "boom", Line: 3, Column: 7}
	assert.Equal(t, "TypeError at 3:7: boom", err.Error())

	err = &skuld.ScriptError{Kind: "TypeError", Message: "boom"}
	assert.Equal(t, "TypeError: boom", err.Error())

	var target *skuld.ScriptError
	assert.True(t, errors.As(error(err), &target))
}

func TestRunPipeline(t *testing.T) {
	vm := skuld.New()
	result, err := vm.Run(`fun add(x, y) {
    return x + y
}

fun scale(x, factor) {
    return x * factor
}

5 | pipeable(add)(3) | pipeable(scale)(2)`)
	require.NoError(t, err)
	assert.Equal(t, int64(16), result)
}
