package guard

import (
	"fmt"
	"net/url"
	"os"
	"regexp"

	"github.com/skuldlang/skuld/internal/evaluator"
)

// Prebuilt guards over a single parameter. Each takes the parameter name
// and a positional fallback (negative to require the name).

func NotNil(param string, pos int) Guard {
	return Guard{
		Name: "notNil",
		Check: func(c Call) Result {
			arg, ok := c.Arg(param, pos)
			if !ok {
				return Fail(fmt.Sprintf("%s is missing", param))
			}
			if _, isNil := arg.(*evaluator.Nil); isNil {
				return Fail(fmt.Sprintf("%s must not be nil", param))
			}
			return Pass()
		},
	}
}

func NotEmpty(param string, pos int) Guard {
	return Guard{
		Name: "notEmpty",
		Check: func(c Call) Result {
			arg, ok := c.Arg(param, pos)
			if !ok {
				return Fail(fmt.Sprintf("%s is missing", param))
			}
			switch arg := arg.(type) {
			case *evaluator.String:
				if arg.Value != "" {
					return Pass()
				}
			case *evaluator.List:
				if len(arg.Elements) > 0 {
					return Pass()
				}
			default:
				return Fail(fmt.Sprintf("%s must be a String or List, got %s", param, evaluator.TypeName(arg)))
			}
			return Fail(fmt.Sprintf("%s must not be empty", param))
		},
	}
}

func Positive(param string, pos int) Guard {
	return Guard{
		Name: "positive",
		Check: func(c Call) Result {
			arg, ok := c.Arg(param, pos)
			if !ok {
				return Fail(fmt.Sprintf("%s is missing", param))
			}
			switch arg := arg.(type) {
			case *evaluator.Integer:
				if arg.Value > 0 {
					return Pass()
				}
			case *evaluator.Float:
				if arg.Value > 0 {
					return Pass()
				}
			default:
				return Fail(fmt.Sprintf("%s must be numeric, got %s", param, evaluator.TypeName(arg)))
			}
			return Fail(fmt.Sprintf("%s must be positive", param))
		},
	}
}

func InRange(param string, pos int, low, high float64) Guard {
	return Guard{
		Name: "inRange",
		Check: func(c Call) Result {
			arg, ok := c.Arg(param, pos)
			if !ok {
				return Fail(fmt.Sprintf("%s is missing", param))
			}
			var v float64
			switch arg := arg.(type) {
			case *evaluator.Integer:
				v = float64(arg.Value)
			case *evaluator.Float:
				v = arg.Value
			default:
				return Fail(fmt.Sprintf("%s must be numeric, got %s", param, evaluator.TypeName(arg)))
			}
			if v < low || v > high {
				return Fail(fmt.Sprintf("%s must be between %v and %v", param, low, high))
			}
			return Pass()
		},
	}
}

func TypeIs(param string, pos int, typeName string) Guard {
	return Guard{
		Name: "typeIs",
		Check: func(c Call) Result {
			arg, ok := c.Arg(param, pos)
			if !ok {
				return Fail(fmt.Sprintf("%s is missing", param))
			}
			if got := evaluator.TypeName(arg); got != typeName {
				return Fail(fmt.Sprintf("%s must be %s, got %s", param, typeName, got))
			}
			return Pass()
		},
	}
}

// MatchesPattern reports a malformed pattern at construction so a bad
// regex never reaches call time.
func MatchesPattern(param string, pos int, pattern string) (Guard, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Guard{}, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return Guard{
		Name: "matchesPattern",
		Check: func(c Call) Result {
			arg, ok := c.Arg(param, pos)
			if !ok {
				return Fail(fmt.Sprintf("%s is missing", param))
			}
			s, isStr := arg.(*evaluator.String)
			if !isStr {
				return Fail(fmt.Sprintf("%s must be a String, got %s", param, evaluator.TypeName(arg)))
			}
			if !re.MatchString(s.Value) {
				return Fail(fmt.Sprintf("%s does not match %s", param, pattern))
			}
			return Pass()
		},
	}, nil
}

func ValidPath(param string, pos int) Guard {
	return Guard{
		Name: "validPath",
		Check: func(c Call) Result {
			arg, ok := c.Arg(param, pos)
			if !ok {
				return Fail(fmt.Sprintf("%s is missing", param))
			}
			s, isStr := arg.(*evaluator.String)
			if !isStr {
				return Fail(fmt.Sprintf("%s must be a String, got %s", param, evaluator.TypeName(arg)))
			}
			if _, err := os.Stat(s.Value); err != nil {
				return Fail(fmt.Sprintf("%s is not a valid path: %s", param, s.Value))
			}
			return Pass()
		},
	}
}

func ValidURL(param string, pos int) Guard {
	return Guard{
		Name: "validURL",
		Check: func(c Call) Result {
			arg, ok := c.Arg(param, pos)
			if !ok {
				return Fail(fmt.Sprintf("%s is missing", param))
			}
			s, isStr := arg.(*evaluator.String)
			if !isStr {
				return Fail(fmt.Sprintf("%s must be a String, got %s", param, evaluator.TypeName(arg)))
			}
			u, err := url.Parse(s.Value)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return Fail(fmt.Sprintf("%s is not a valid URL: %s", param, s.Value))
			}
			return Pass()
		},
	}
}

func OneOf(param string, pos int, allowed ...evaluator.Object) Guard {
	return Guard{
		Name: "oneOf",
		Check: func(c Call) Result {
			arg, ok := c.Arg(param, pos)
			if !ok {
				return Fail(fmt.Sprintf("%s is missing", param))
			}
			for _, a := range allowed {
				if evaluator.Equals(arg, a) {
					return Pass()
				}
			}
			return Fail(fmt.Sprintf("%s has an unexpected value: %s", param, arg.Inspect()))
		},
	}
}
