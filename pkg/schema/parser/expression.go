package parser

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/CubeSugarZhang/webpack/pkg/schema"
	"github.com/CubeSugarZhang/webpack/pkg/value"
)

// valueToken is replaced by the formatted value in check messages.
const valueToken = "{value}"

var (
	exprEnvOnce sync.Once
	exprEnv     *cel.Env
	exprEnvErr  error
)

// expressionEnv returns the shared CEL environment. Expressions see the
// value being checked as "self".
func expressionEnv() (*cel.Env, error) {
	exprEnvOnce.Do(func() {
		exprEnv, exprEnvErr = cel.NewEnv(
			cel.Variable("self", cel.DynType),
		)
	})
	return exprEnv, exprEnvErr
}

// compileExpression builds a check from a CEL expression that must evaluate
// to true for valid values. Evaluation errors and non-boolean results count
// as failures.
func compileExpression(id, expr, message string) (*schema.Check, error) {
	env, err := expressionEnv()
	if err != nil {
		return nil, fmt.Errorf("create expression environment: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, iss.Err()
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, err
	}

	if id == "" {
		id = "expression"
	}
	if message == "" {
		message = "The provided value " + valueToken + " does not satisfy " + expr
	}

	return &schema.Check{
		ID: id,
		Test: func(v any) bool {
			out, _, err := prg.Eval(map[string]any{"self": value.Plain(v)})
			if err != nil {
				return false
			}
			ok, isBool := out.Value().(bool)
			return isBool && ok
		},
		Message: func(v any) string {
			return expandMessage(message, v)
		},
	}, nil
}

func expandMessage(message string, v any) string {
	return strings.ReplaceAll(message, valueToken, value.Format(v))
}
