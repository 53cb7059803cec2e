package policy

import (
	"fmt"
	"strings"
	"sync"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// jmesCache stores compiled JMESPath expressions keyed by source text.
var jmesCache = &sync.Map{}

// JmesMatchFunction returns the jmesMatch function registered with the
// enforcer. It evaluates a JMESPath expression against the request's
// resource attributes and allows only when the result is boolean true. An
// empty expression means no attribute constraint.
func JmesMatchFunction() func(args ...any) (any, error) {
	return func(args ...any) (any, error) {
		if len(args) != 2 {
			return false, fmt.Errorf("jmesMatch requires 2 arguments: expr, attrs")
		}
		expr, ok := args[0].(string)
		if !ok {
			return false, fmt.Errorf("jmesMatch: first argument must be string (expr)")
		}
		attrs, ok := args[1].(map[string]any)
		if !ok {
			return false, fmt.Errorf("jmesMatch: second argument must be map[string]any (attrs)")
		}
		return evaluateJmes(expr, attrs), nil
	}
}

// evaluateJmes runs a JMESPath expression against attrs. Invalid expressions
// and non-boolean results deny access.
func evaluateJmes(expr string, attrs map[string]any) bool {
	if strings.TrimSpace(expr) == "" {
		return true
	}

	var compiled jmespath.JMESPath
	if cached, ok := jmesCache.Load(expr); ok {
		compiled = cached.(jmespath.JMESPath)
	} else {
		c, err := jmespath.Compile(expr)
		if err != nil {
			return false
		}
		jmesCache.Store(expr, c)
		compiled = c
	}

	result, err := compiled.Search(attrs)
	if err != nil {
		return false
	}
	allowed, ok := result.(bool)
	return ok && allowed
}
