package guard_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skuldlang/skuld/internal/evaluator"
	"github.com/skuldlang/skuld/internal/guard"
)

func intArg(v int64) evaluator.Object     { return &evaluator.Integer{Value: v} }
func strArg(v string) evaluator.Object    { return &evaluator.String{Value: v} }
func floatArg(v float64) evaluator.Object { return &evaluator.Float{Value: v} }

func call(params []string, args ...evaluator.Object) guard.Call {
	return guard.Call{Args: args, Params: params}
}

func TestResult(t *testing.T) {
	assert.True(t, guard.Pass().Passed())
	assert.Empty(t, guard.Pass().Message())

	res := guard.Fail("nope")
	assert.False(t, res.Passed())
	assert.Equal(t, "nope", res.Message())

	assert.Equal(t, guard.DefaultFailMessage, guard.Fail("").Message())

	raised := &evaluator.Error{Kind: evaluator.KindTypeError, Message: "boom"}
	res = guard.Propagate(raised)
	assert.False(t, res.Passed())
	assert.Same(t, evaluator.Object(raised), res.Raised())
}

func TestCallArgByName(t *testing.T) {
	c := call([]string{"a", "b"}, intArg(1), intArg(2))

	arg, ok := c.Arg("b", -1)
	require.True(t, ok)
	assert.Equal(t, int64(2), arg.(*evaluator.Integer).Value)

	// Unknown name falls back to the position.
	arg, ok = c.Arg("missing", 0)
	require.True(t, ok)
	assert.Equal(t, int64(1), arg.(*evaluator.Integer).Value)

	// Negative position requires the name.
	_, ok = c.Arg("missing", -1)
	assert.False(t, ok)

	_, ok = c.Arg("missing", 9)
	assert.False(t, ok)
}

func TestRuntimeFailFast(t *testing.T) {
	e := evaluator.New()
	rt := &guard.Runtime{Eval: e}

	var order []string
	mk := func(name string, pass bool) guard.Guard {
		return guard.Guard{
			Name: name,
			Check: func(c guard.Call) guard.Result {
				order = append(order, name)
				if pass {
					return guard.Pass()
				}
				return guard.Fail(name + " failed")
			},
		}
	}

	body := &evaluator.Builtin{Name: "body", Fn: func(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
		order = append(order, "body")
		return intArg(42)
	}}

	wrapped := rt.Wrap(body, []guard.Guard{mk("g1", true), mk("g2", false), mk("g3", true)}, nil)
	result := wrapped.InvokeFn([]evaluator.Object{intArg(1)})

	err, ok := result.(*evaluator.Error)
	require.True(t, ok, "got %T (%+v)", result, result)
	assert.Equal(t, evaluator.KindGuardFailure, err.Kind)
	assert.Equal(t, "g2 failed", err.Message)
	assert.Equal(t, []string{"g1", "g2"}, order)
}

func TestRuntimeAllPassInvokesInner(t *testing.T) {
	e := evaluator.New()
	rt := &guard.Runtime{Eval: e}

	body := &evaluator.Builtin{Name: "body", Fn: func(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
		return intArg(args[0].(*evaluator.Integer).Value * 2)
	}}

	wrapped := rt.Wrap(body, []guard.Guard{guard.Positive("x", 0)}, nil)
	result := wrapped.InvokeFn([]evaluator.Object{intArg(21)})
	require.IsType(t, &evaluator.Integer{}, result)
	assert.Equal(t, int64(42), result.(*evaluator.Integer).Value)
}

func TestRuntimePropagatedErrorBypassesBehavior(t *testing.T) {
	e := evaluator.New()
	rt := &guard.Runtime{Eval: e}

	raised := &evaluator.Error{Kind: evaluator.KindDivisionByZero, Message: "division by zero"}
	g := guard.Guard{Name: "broken", Check: func(c guard.Call) guard.Result {
		return guard.Propagate(raised)
	}}
	body := &evaluator.Builtin{Name: "body", Fn: func(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
		return intArg(1)
	}}

	wrapped := rt.Wrap(body, []guard.Guard{g}, guard.Sentinel{Value: intArg(-1)})
	result := wrapped.InvokeFn(nil)
	assert.Same(t, evaluator.Object(raised), result)
}

func TestRaiseBehaviorCustomKind(t *testing.T) {
	e := evaluator.New()
	rt := &guard.Runtime{Eval: e}

	g := guard.Guard{Name: "never", Check: func(c guard.Call) guard.Result {
		return guard.Fail("rejected")
	}}
	body := &evaluator.Builtin{Name: "body", Fn: func(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
		return intArg(1)
	}}

	wrapped := rt.Wrap(body, []guard.Guard{g}, guard.Raise{Kind: "BadInput"})
	result := wrapped.InvokeFn(nil)
	err, ok := result.(*evaluator.Error)
	require.True(t, ok)
	assert.Equal(t, "BadInput", err.Kind)
	assert.Equal(t, "rejected", err.Message)
}

func TestHandlerBehaviorSeesMessageAndArgs(t *testing.T) {
	e := evaluator.New()
	rt := &guard.Runtime{Eval: e}

	g := guard.Guard{Name: "never", Check: func(c guard.Call) guard.Result {
		return guard.Fail("rejected")
	}}
	var gotMessage string
	var gotArgs int
	handler := &evaluator.Builtin{Name: "handler", Fn: func(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
		gotMessage = args[0].(*evaluator.String).Value
		gotArgs = len(args) - 1
		return strArg("handled")
	}}
	body := &evaluator.Builtin{Name: "body", Fn: func(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
		return intArg(1)
	}}

	wrapped := rt.Wrap(body, []guard.Guard{g}, guard.Handler{Fn: handler})
	result := wrapped.InvokeFn([]evaluator.Object{intArg(7), intArg(8)})
	require.IsType(t, &evaluator.String{}, result)
	assert.Equal(t, "handled", result.(*evaluator.String).Value)
	assert.Equal(t, "rejected", gotMessage)
	assert.Equal(t, 2, gotArgs)
}

func TestSentinelBehavior(t *testing.T) {
	e := evaluator.New()
	rt := &guard.Runtime{Eval: e}

	g := guard.Guard{Name: "never", Check: func(c guard.Call) guard.Result {
		return guard.Fail("")
	}}
	body := &evaluator.Builtin{Name: "body", Fn: func(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
		return intArg(1)
	}}

	wrapped := rt.Wrap(body, []guard.Guard{g}, guard.Sentinel{Value: strArg("fallback")})
	result := wrapped.InvokeFn(nil)
	assert.Equal(t, "fallback", result.(*evaluator.String).Value)

	wrapped = rt.Wrap(body, []guard.Guard{g}, guard.Sentinel{})
	result = wrapped.InvokeFn(nil)
	assert.IsType(t, &evaluator.Nil{}, result)
}

func TestWrapLogsFailures(t *testing.T) {
	var log bytes.Buffer
	e := evaluator.New()
	rt := &guard.Runtime{Eval: e, Log: &log}

	g := guard.Guard{Name: "never", Check: func(c guard.Call) guard.Result {
		return guard.Fail("rejected")
	}}
	body := &evaluator.Builtin{Name: "body", Fn: func(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
		return intArg(1)
	}}

	wrapped := rt.Wrap(body, []guard.Guard{g}, nil)
	wrapped.InvokeFn(nil)
	wrapped.InvokeFn(nil)

	lines := bytes.Count(log.Bytes(), []byte("\n"))
	assert.Equal(t, 2, lines)
	assert.Contains(t, log.String(), "fn=body")
	assert.Contains(t, log.String(), "guard=never")
	assert.Contains(t, log.String(), `message="rejected"`)
	// Both records carry the same wrap id.
	first := log.String()[:len(log.String())/2]
	assert.Contains(t, first, "wrap=")
}

func TestNotNil(t *testing.T) {
	g := guard.NotNil("x", 0)
	assert.True(t, g.Check(call([]string{"x"}, intArg(1))).Passed())
	assert.False(t, g.Check(call([]string{"x"}, &evaluator.Nil{})).Passed())
	assert.False(t, g.Check(call([]string{"x"})).Passed())
}

func TestNotEmpty(t *testing.T) {
	g := guard.NotEmpty("s", 0)
	assert.True(t, g.Check(call(nil, strArg("hi"))).Passed())
	assert.False(t, g.Check(call(nil, strArg(""))).Passed())
	assert.True(t, g.Check(call(nil, &evaluator.List{Elements: []evaluator.Object{intArg(1)}})).Passed())
	assert.False(t, g.Check(call(nil, &evaluator.List{})).Passed())
	assert.False(t, g.Check(call(nil, intArg(5))).Passed())
}

func TestPositive(t *testing.T) {
	g := guard.Positive("n", 0)
	assert.True(t, g.Check(call(nil, intArg(1))).Passed())
	assert.True(t, g.Check(call(nil, floatArg(0.5))).Passed())
	assert.False(t, g.Check(call(nil, intArg(0))).Passed())
	assert.False(t, g.Check(call(nil, intArg(-3))).Passed())
	assert.False(t, g.Check(call(nil, strArg("5"))).Passed())
}

func TestInRange(t *testing.T) {
	g := guard.InRange("n", 0, 1, 10)
	assert.True(t, g.Check(call(nil, intArg(1))).Passed())
	assert.True(t, g.Check(call(nil, floatArg(10))).Passed())
	assert.False(t, g.Check(call(nil, intArg(0))).Passed())
	assert.False(t, g.Check(call(nil, floatArg(10.5))).Passed())
}

func TestTypeIs(t *testing.T) {
	g := guard.TypeIs("x", 0, evaluator.TypeNameString)
	assert.True(t, g.Check(call(nil, strArg("ok"))).Passed())
	res := g.Check(call(nil, intArg(1)))
	assert.False(t, res.Passed())
	assert.Contains(t, res.Message(), "must be String, got Int")
}

func TestMatchesPattern(t *testing.T) {
	g, err := guard.MatchesPattern("s", 0, `^[a-z]+$`)
	require.NoError(t, err)
	assert.True(t, g.Check(call(nil, strArg("abc"))).Passed())
	assert.False(t, g.Check(call(nil, strArg("ABC"))).Passed())
	assert.False(t, g.Check(call(nil, intArg(1))).Passed())

	_, err = guard.MatchesPattern("s", 0, `([`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

func TestValidPath(t *testing.T) {
	g := guard.ValidPath("p", 0)
	assert.True(t, g.Check(call(nil, strArg(t.TempDir()))).Passed())
	assert.False(t, g.Check(call(nil, strArg("/no/such/path/anywhere"))).Passed())
}

func TestValidURL(t *testing.T) {
	g := guard.ValidURL("u", 0)
	assert.True(t, g.Check(call(nil, strArg("https://example.com/x"))).Passed())
	assert.False(t, g.Check(call(nil, strArg("not a url"))).Passed())
	assert.False(t, g.Check(call(nil, strArg("/relative/only"))).Passed())
}

func TestOneOf(t *testing.T) {
	g := guard.OneOf("mode", 0, strArg("read"), strArg("write"))
	assert.True(t, g.Check(call(nil, strArg("read"))).Passed())
	assert.False(t, g.Check(call(nil, strArg("append"))).Passed())
}

func TestRegistry(t *testing.T) {
	r := guard.NewRegistry()

	require.NoError(t, r.Register("app", "notNil", guard.NotNil))
	err := r.Register("app", "notNil", guard.NotNil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	require.Error(t, r.Register("app", "broken", nil))

	f, ok := r.Get("app", "notNil")
	require.True(t, ok)
	g := f("x", 0)
	assert.Equal(t, "notNil", g.Name)

	assert.True(t, r.Has("app", "notNil"))
	assert.False(t, r.Has("other", "notNil"))

	require.NoError(t, r.Register("app", "positive", guard.Positive))
	assert.Equal(t, []string{"notNil", "positive"}, r.List("app"))
	assert.Empty(t, r.List("other"))

	assert.True(t, r.Unregister("app", "positive"))
	assert.False(t, r.Unregister("app", "positive"))
	assert.Equal(t, []string{"notNil"}, r.List("app"))
}

func TestCommonRegistry(t *testing.T) {
	r := guard.CommonRegistry()
	assert.Equal(t, []string{"notEmpty", "notNil", "positive"}, r.List("common"))
}
