package evaluator_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/skuldlang/skuld/internal/evaluator"
	"github.com/skuldlang/skuld/internal/parser"
)

func testEval(t *testing.T, input string) evaluator.Object {
	t.Helper()
	p := parser.New(input)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse error: %s", errs[0].Error())
	}
	e := evaluator.New()
	e.Out = &bytes.Buffer{}
	return e.Eval(program, evaluator.NewEnvironment())
}

func testIntegerObject(t *testing.T, obj evaluator.Object, expected int64) bool {
	t.Helper()
	result, ok := obj.(*evaluator.Integer)
	if !ok {
		t.Errorf("object is not Integer. got=%T (%+v)", obj, obj)
		return false
	}
	if result.Value != expected {
		t.Errorf("object has wrong value. got=%d, want=%d", result.Value, expected)
		return false
	}
	return true
}

func testFloatObject(t *testing.T, obj evaluator.Object, expected float64) bool {
	t.Helper()
	result, ok := obj.(*evaluator.Float)
	if !ok {
		t.Errorf("object is not Float. got=%T (%+v)", obj, obj)
		return false
	}
	if result.Value != expected {
		t.Errorf("object has wrong value. got=%g, want=%g", result.Value, expected)
		return false
	}
	return true
}

func testBooleanObject(t *testing.T, obj evaluator.Object, expected bool) bool {
	t.Helper()
	result, ok := obj.(*evaluator.Boolean)
	if !ok {
		t.Errorf("object is not Boolean. got=%T (%+v)", obj, obj)
		return false
	}
	if result.Value != expected {
		t.Errorf("object has wrong value. got=%t, want=%t", result.Value, expected)
		return false
	}
	return true
}

func testStringObject(t *testing.T, obj evaluator.Object, expected string) bool {
	t.Helper()
	result, ok := obj.(*evaluator.String)
	if !ok {
		t.Errorf("object is not String. got=%T (%+v)", obj, obj)
		return false
	}
	if result.Value != expected {
		t.Errorf("object has wrong value. got=%q, want=%q", result.Value, expected)
		return false
	}
	return true
}

func testNilObject(t *testing.T, obj evaluator.Object) bool {
	t.Helper()
	if _, ok := obj.(*evaluator.Nil); !ok {
		t.Errorf("object is not Nil. got=%T (%+v)", obj, obj)
		return false
	}
	return true
}

func testErrorObject(t *testing.T, obj evaluator.Object, kind string) *evaluator.Error {
	t.Helper()
	err, ok := obj.(*evaluator.Error)
	if !ok {
		t.Fatalf("object is not Error. got=%T (%+v)", obj, obj)
	}
	if err.Kind != kind {
		t.Errorf("error kind is %q, want %q (message: %s)", err.Kind, kind, err.Message)
	}
	return err
}

func TestIntegerArithmetic(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"5", 5},
		{"-5", -5},
		{"5 + 5 + 5 + 5 - 10", 10},
		{"2 * 2 * 2 * 2", 16},
		{"5 * 2 + 10", 20},
		{"5 + 2 * 10", 25},
		{"(5 + 10) * 2", 30},
		{"17 % 5", 2},
	}
	for _, tt := range tests {
		testIntegerObject(t, testEval(t, tt.input), tt.expected)
	}
}

func TestDivisionAlwaysYieldsFloat(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"10 / 2", 5.0},
		{"7 / 2", 3.5},
		{"1.0 / 4", 0.25},
		{"9 / 3.0", 3.0},
	}
	for _, tt := range tests {
		testFloatObject(t, testEval(t, tt.input), tt.expected)
	}
}

func TestFloatArithmetic(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"1.5 + 2.5", 4.0},
		{"2 * 1.5", 3.0},
		{"-2.5", -2.5},
		{"10.0 - 4", 6.0},
	}
	for _, tt := range tests {
		testFloatObject(t, testEval(t, tt.input), tt.expected)
	}
}

func TestDivisionByZero(t *testing.T) {
	testErrorObject(t, testEval(t, "1 / 0"), evaluator.KindDivisionByZero)
	testErrorObject(t, testEval(t, "1 % 0"), evaluator.KindDivisionByZero)
	testErrorObject(t, testEval(t, "1.0 / 0"), evaluator.KindDivisionByZero)
}

func TestBooleanExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"true", true},
		{"false", false},
		{"1 < 2", true},
		{"1 > 2", false},
		{"1 <= 1", true},
		{"2 >= 3", false},
		{"1 == 1", true},
		{"1 != 1", false},
		{"1 == 1.0", true},
		{`"a" == "a"`, true},
		{`"a" != "b"`, true},
		{"[1, 2] == [1, 2]", true},
		{"[1, 2] == [1, 3]", false},
		{"nil == nil", true},
		{"!true", false},
		{"!nil", true},
		{"!!5", true},
		{"true && false", false},
		{"true || false", true},
		{`"abc" < "abd"`, true},
	}
	for _, tt := range tests {
		testBooleanObject(t, testEval(t, tt.input), tt.expected)
	}
}

func TestShortCircuitSkipsRightSide(t *testing.T) {
	// The right side would raise NameError if evaluated.
	testBooleanObject(t, testEval(t, "false && missing"), false)
	testBooleanObject(t, testEval(t, "true || missing"), true)
}

func TestStringConcatenation(t *testing.T) {
	testStringObject(t, testEval(t, `"Hello" + ", " + "World"`), "Hello, World")
}

func TestTypeMismatchError(t *testing.T) {
	err := testErrorObject(t, testEval(t, `5 + "five"`), evaluator.KindTypeError)
	if !strings.Contains(err.Message, "type mismatch") {
		t.Errorf("unexpected message: %s", err.Message)
	}
	if err.Line != 1 {
		t.Errorf("error line is %d, want 1", err.Line)
	}
}

func TestListLiteralsAndConcat(t *testing.T) {
	result := testEval(t, "[1, 2 * 2] + [3]")
	list, ok := result.(*evaluator.List)
	if !ok {
		t.Fatalf("object is not List. got=%T (%+v)", result, result)
	}
	if len(list.Elements) != 3 {
		t.Fatalf("list has %d elements, want 3", len(list.Elements))
	}
	testIntegerObject(t, list.Elements[0], 1)
	testIntegerObject(t, list.Elements[1], 4)
	testIntegerObject(t, list.Elements[2], 3)
}

func TestIndexExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"[1, 2, 3][0]", int64(1)},
		{"[1, 2, 3][2]", int64(3)},
		{"xs = [10, 20]\nxs[1]", int64(20)},
		{`"héllo"[1]`, "é"},
	}
	for _, tt := range tests {
		result := testEval(t, tt.input)
		switch want := tt.expected.(type) {
		case int64:
			testIntegerObject(t, result, want)
		case string:
			testStringObject(t, result, want)
		}
	}
}

func TestIndexErrors(t *testing.T) {
	testErrorObject(t, testEval(t, "[1, 2][5]"), evaluator.KindIndexError)
	testErrorObject(t, testEval(t, "[1, 2][-1]"), evaluator.KindIndexError)
	testErrorObject(t, testEval(t, `"ab"[9]`), evaluator.KindIndexError)
	testErrorObject(t, testEval(t, `[1][true]`), evaluator.KindTypeError)
	testErrorObject(t, testEval(t, "5[0]"), evaluator.KindTypeError)
}

func TestIfElse(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"if true { 10\n }", int64(10)},
		{"if false { 10\n }", nil},
		{"if 1 < 2 { 10\n } else { 20\n }", int64(10)},
		{"if 1 > 2 { 10\n } else { 20\n }", int64(20)},
		{"if nil { 1\n } else { 2\n }", int64(2)},
		{"x = 3\nif x == 1 { 10\n } else if x == 2 { 20\n } else { 30\n }", int64(30)},
	}
	for _, tt := range tests {
		result := testEval(t, tt.input)
		if want, ok := tt.expected.(int64); ok {
			testIntegerObject(t, result, want)
		} else {
			testNilObject(t, result)
		}
	}
}

func TestBranchAssignmentsReachEnclosingScope(t *testing.T) {
	input := `x = 0
if true {
    x = 7
}
x`
	testIntegerObject(t, testEval(t, input), 7)
}

func TestWhileLoop(t *testing.T) {
	input := `n = 0
total = 0
while n < 5 {
    n = n + 1
    if n == 3 {
        continue
    }
    total = total + n
}
total`
	testIntegerObject(t, testEval(t, input), 12)
}

func TestWhileBreak(t *testing.T) {
	input := `n = 0
while true {
    n = n + 1
    if n == 4 {
        break
    }
}
n`
	testIntegerObject(t, testEval(t, input), 4)
}

func TestForLoop(t *testing.T) {
	input := `total = 0
for x in [1, 2, 3, 4] {
    total = total + x
}
total`
	testIntegerObject(t, testEval(t, input), 10)
}

func TestForOverString(t *testing.T) {
	input := `out = ""
for ch in "abc" {
    out = out + ch + "-"
}
out`
	testStringObject(t, testEval(t, input), "a-b-c-")
}

func TestForOverNonIterable(t *testing.T) {
	testErrorObject(t, testEval(t, "for x in 5 { x\n }"), evaluator.KindTypeError)
}

func TestBreakOutsideLoop(t *testing.T) {
	testErrorObject(t, testEval(t, "break"), evaluator.KindRuntimeError)
}

func TestFunctionCalls(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"fun identity(x) { return x\n }\nidentity(5)", 5},
		{"fun add(x, y) { return x + y\n }\nadd(2, add(3, 4))", 9},
		{"double = fun(x) { return x * 2\n }\ndouble(21)", 42},
	}
	for _, tt := range tests {
		testIntegerObject(t, testEval(t, tt.input), tt.expected)
	}
}

func TestFunctionWithoutReturnYieldsNil(t *testing.T) {
	testNilObject(t, testEval(t, "fun f(x) { x + 1\n }\nf(1)"))
}

func TestFunctionsHoisted(t *testing.T) {
	input := `fun outer() { return helper() + 1
}
fun helper() { return 41
}
outer()`
	testIntegerObject(t, testEval(t, input), 42)
}

func TestClosures(t *testing.T) {
	input := `fun makeAdder(x) {
    return fun(y) { return x + y
    }
}
addTwo = makeAdder(2)
addTwo(40)`
	testIntegerObject(t, testEval(t, input), 42)
}

func TestRecursion(t *testing.T) {
	input := `fun fib(n) {
    if n < 2 {
        return n
    }
    return fib(n - 1) + fib(n - 2)
}
fib(10)`
	testIntegerObject(t, testEval(t, input), 55)
}

func TestArityError(t *testing.T) {
	err := testErrorObject(t, testEval(t, "fun f(x, y) { return x\n }\nf(1)"), evaluator.KindArityError)
	if !strings.Contains(err.Message, "expects 2 arguments, got 1") {
		t.Errorf("unexpected message: %s", err.Message)
	}
}

func TestCallingNonFunction(t *testing.T) {
	testErrorObject(t, testEval(t, "x = 5\nx(1)"), evaluator.KindTypeError)
}

func TestCallDepthLimit(t *testing.T) {
	p := parser.New("fun loop() { return loop()\n }\nloop()")
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse error: %s", p.Errors()[0].Error())
	}
	e := evaluator.New()
	e.Out = &bytes.Buffer{}
	e.MaxDepth = 50
	result := e.Eval(program, evaluator.NewEnvironment())
	err := testErrorObject(t, result, evaluator.KindRuntimeError)
	if !strings.Contains(err.Message, "call depth") {
		t.Errorf("unexpected message: %s", err.Message)
	}
}

func TestUndefinedName(t *testing.T) {
	err := testErrorObject(t, testEval(t, "x = 1\nnope"), evaluator.KindNameError)
	if err.Line != 2 {
		t.Errorf("error line is %d, want 2", err.Line)
	}
}

func TestErrorCarriesStackTrace(t *testing.T) {
	input := `fun inner() { return 1 / 0
}
fun outer() { return inner()
}
outer()`
	err := testErrorObject(t, testEval(t, input), evaluator.KindDivisionByZero)
	if len(err.StackTrace) != 2 {
		t.Fatalf("stack trace has %d frames, want 2", len(err.StackTrace))
	}
	if err.StackTrace[0].Name != "outer" || err.StackTrace[1].Name != "inner" {
		t.Errorf("stack trace names are %q, %q", err.StackTrace[0].Name, err.StackTrace[1].Name)
	}
}

func TestTryCatchByKind(t *testing.T) {
	input := `try {
    1 / 0
} catch DivisionByZero {
    "caught"
}`
	testStringObject(t, testEval(t, input), "caught")
}

func TestTryCatchBindsMessage(t *testing.T) {
	input := `try {
    fail("BadInput", "nope")
} catch BadInput as e {
    e
}`
	testStringObject(t, testEval(t, input), "nope")
}

func TestTryCatchAll(t *testing.T) {
	input := `try {
    missing
} catch {
    "fallback"
}`
	testStringObject(t, testEval(t, input), "fallback")
}

func TestTryUnmatchedKindPropagates(t *testing.T) {
	input := `try {
    1 / 0
} catch TypeError {
    "wrong"
}`
	testErrorObject(t, testEval(t, input), evaluator.KindDivisionByZero)
}

func TestTryHandlerOrder(t *testing.T) {
	input := `try {
    1 / 0
} catch TypeError, DivisionByZero {
    "first"
} catch {
    "second"
}`
	testStringObject(t, testEval(t, input), "first")
}

func TestTryElseRunsOnSuccess(t *testing.T) {
	input := `try {
    1 + 1
} catch {
    "caught"
} else {
    "clean"
}`
	testStringObject(t, testEval(t, input), "clean")
}

func TestTryElseSkippedOnHandledError(t *testing.T) {
	input := `try {
    1 / 0
} catch {
    "caught"
} else {
    "clean"
}`
	testStringObject(t, testEval(t, input), "caught")
}

func TestFinallyRunsForEffectOnly(t *testing.T) {
	input := `log = []
try {
    "value"
} catch {
    "caught"
} finally {
    log = log + ["done"]
}`
	testStringObject(t, testEval(t, input), "value")
}

func TestFinallyErrorOverridesResult(t *testing.T) {
	input := `try {
    "value"
} finally {
    1 / 0
}`
	testErrorObject(t, testEval(t, input), evaluator.KindDivisionByZero)
}

func TestFinallyRunsWhenErrorPropagates(t *testing.T) {
	input := `touched = false
try {
    try {
        1 / 0
    } finally {
        touched = true
    }
} catch DivisionByZero {
    touched
}`
	testBooleanObject(t, testEval(t, input), true)
}

func TestMatchStatementEval(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`match 0 {
    0 -> "zero"
    _ -> "other"
}`, "zero"},
		{`match -3 {
    0 -> "zero"
    n if n < 0 -> "negative"
    _ -> "positive"
}`, "negative"},
		{`match "hi" {
    "bye" -> "no"
    "hi" -> "yes"
}`, "yes"},
		{`match 7 {
    n -> "bound " + str(n)
}`, "bound 7"},
	}
	for _, tt := range tests {
		testStringObject(t, testEval(t, tt.input), tt.expected)
	}
}

func TestMatchGuardFallsThrough(t *testing.T) {
	input := `match 5 {
    n if n > 10 -> "big"
    n -> "small"
}`
	testStringObject(t, testEval(t, input), "small")
}

func TestNonExhaustiveMatch(t *testing.T) {
	err := testErrorObject(t, testEval(t, `match 3 {
    1 -> "one"
    2 -> "two"
}`), evaluator.KindMatchError)
	if !strings.Contains(err.Message, "non-exhaustive") {
		t.Errorf("unexpected message: %s", err.Message)
	}
}

func TestBuiltinLen(t *testing.T) {
	testIntegerObject(t, testEval(t, `len("héllo")`), 5)
	testIntegerObject(t, testEval(t, "len([1, 2, 3])"), 3)
	testErrorObject(t, testEval(t, "len(5)"), evaluator.KindTypeError)
	testErrorObject(t, testEval(t, "len()"), evaluator.KindArityError)
}

func TestBuiltinTypeOf(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"typeOf(1)", "Int"},
		{"typeOf(1.5)", "Float"},
		{`typeOf("s")`, "String"},
		{"typeOf(true)", "Bool"},
		{"typeOf(nil)", "Nil"},
		{"typeOf([1])", "List"},
		{"typeOf(fun(x) { return x\n })", "Function"},
		{"typeOf(len)", "Function"},
	}
	for _, tt := range tests {
		testStringObject(t, testEval(t, tt.input), tt.expected)
	}
}

func TestBuiltinStr(t *testing.T) {
	testStringObject(t, testEval(t, "str(42)"), "42")
	testStringObject(t, testEval(t, "str(1.5)"), "1.5")
	testStringObject(t, testEval(t, `str("s")`), "s")
	testStringObject(t, testEval(t, "str(nil)"), "nil")
}

func TestBuiltinFail(t *testing.T) {
	err := testErrorObject(t, testEval(t, `fail("boom")`), evaluator.KindUserError)
	if err.Message != "boom" {
		t.Errorf("message is %q, want boom", err.Message)
	}
	err = testErrorObject(t, testEval(t, `fail("Custom", "boom")`), "Custom")
	if err.Message != "boom" {
		t.Errorf("message is %q, want boom", err.Message)
	}
}

func TestBuiltinInf(t *testing.T) {
	result := testEval(t, "inf()")
	f, ok := result.(*evaluator.Float)
	if !ok {
		t.Fatalf("object is not Float. got=%T (%+v)", result, result)
	}
	if !math.IsInf(f.Value, 1) {
		t.Errorf("value %g is not positive infinity", f.Value)
	}
}

func TestBuiltinPrintWritesToOut(t *testing.T) {
	p := parser.New(`print("hello", 42)`)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse error: %s", p.Errors()[0].Error())
	}
	var out bytes.Buffer
	e := evaluator.New()
	e.Out = &out
	e.Eval(program, evaluator.NewEnvironment())
	if out.String() != "hello 42\n" {
		t.Errorf("output is %q, want %q", out.String(), "hello 42\n")
	}
}

func TestBuiltinNameCanBeShadowed(t *testing.T) {
	testIntegerObject(t, testEval(t, "len = 3\nlen"), 3)
}

func TestFunctionValueCarriesSource(t *testing.T) {
	p := parser.New("fun inc(n) {\n    n + 1\n}")
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse error: %s", p.Errors()[0].Error())
	}
	e := evaluator.New()
	env := evaluator.NewEnvironment()
	e.Eval(program, env)
	obj, ok := env.Get("inc")
	if !ok {
		t.Fatal("inc is not bound")
	}
	fn, ok := obj.(*evaluator.Function)
	if !ok {
		t.Fatalf("object is not Function. got=%T (%+v)", obj, obj)
	}
	if fn.Source != "fun inc(n) {\n    n + 1\n}" {
		t.Errorf("source is %q", fn.Source)
	}
	if fn.Name != "inc" {
		t.Errorf("name is %q, want inc", fn.Name)
	}
}

func TestPipeOperator(t *testing.T) {
	input := `fun add(x, y) {
    return x + y
}
fun scale(x, factor) {
    return x * factor
}
add = pipeable(add)
scale = pipeable(scale)
5 | add(3) | scale(2)`
	testIntegerObject(t, testEval(t, input), 16)
}

func TestPipeablePartialApplication(t *testing.T) {
	input := `fun add(x, y) {
    return x + y
}
addTen = pipeable(add)(10)
5 | addTen`
	testIntegerObject(t, testEval(t, input), 15)
}

func TestPipeableFullCallInvokes(t *testing.T) {
	input := `fun add(x, y) {
    return x + y
}
pipeable(add)(3, 4)`
	testIntegerObject(t, testEval(t, input), 7)
}

func TestPipeableWithBuiltin(t *testing.T) {
	input := `"hello" | pipeable(len)`
	testIntegerObject(t, testEval(t, input), 5)
}

func TestPipeRequiresPipeableOnRight(t *testing.T) {
	input := `fun inc(n) {
    return n + 1
}
5 | inc`
	err := testErrorObject(t, testEval(t, input), evaluator.KindTypeError)
	if !strings.Contains(err.Message, "pipeable") {
		t.Errorf("message is %q", err.Message)
	}
}

func TestPipelineMustStartWithValue(t *testing.T) {
	input := `fun inc(n) {
    return n + 1
}
pipeable(inc) | pipeable(inc)`
	err := testErrorObject(t, testEval(t, input), evaluator.KindTypeError)
	if !strings.Contains(err.Message, "start with a value") {
		t.Errorf("message is %q", err.Message)
	}
}

func TestPipeableRejectsNonFunction(t *testing.T) {
	testErrorObject(t, testEval(t, "pipeable(42)"), evaluator.KindTypeError)
}

func TestPipeableIsAFunctionValue(t *testing.T) {
	input := `fun inc(n) {
    return n + 1
}
typeOf(pipeable(inc))`
	testStringObject(t, testEval(t, input), "Function")
}

func TestPipeBindsLooserThanArithmetic(t *testing.T) {
	input := `fun double(n) {
    return n * 2
}
2 + 3 | pipeable(double)`
	testIntegerObject(t, testEval(t, input), 10)
}
