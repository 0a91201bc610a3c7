package filter

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

const dateLayout = "2006-01-02"

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(c.helperFuncs),
		expr.AllowUndefinedVariables(), // record fields differ per resource
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate evaluates the filter against a record. A record the expression
// cannot be run against does not match.
func (f *exprFilter) Evaluate(record Record) bool {
	result, err := expr.Run(f.program, createRuntimeEnvironment(record))
	if err != nil {
		return false
	}
	return result.(bool)
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// createHelperFunctions creates the environment used during compilation
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 32)
	addHelperFunctions(funcs)
	addRecordHelpers(funcs, Record{})
	return funcs
}

// addHelperFunctions adds the record independent helpers
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["monthsAgo"] = func(months int) time.Time {
		return time.Now().AddDate(0, -months, 0)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return time.Now().AddDate(-years, 0, 0)
	}
	env["parseDate"] = parseDate
	// String helpers
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["now"] = time.Now
}

// addRecordHelpers adds the helpers bound to one record
func addRecordHelpers(env map[string]any, record Record) {
	env["Record"] = record
	env["field"] = createFieldFunc(record)
	env["has"] = createHasFunc(record)
	env["asString"] = createAsStringFunc(record)
	env["date"] = createDateFunc(record)
	env["hasDescriptor"] = createHasNamedFunc(record, "deskriptor", "name")
	env["hasSubjectArea"] = createHasStringFunc(record, "sachgebiet")
	env["hasInitiative"] = createHasStringFunc(record, "initiative")
	env["hasOriginator"] = createHasNamedFunc(record, "urheber", "titel")
	env["inPeriod"] = createInPeriodFunc(record)
}

// createRuntimeEnvironment exposes every top level field of the record
// directly, plus the helpers. Helpers win over fields of the same name.
func createRuntimeEnvironment(record Record) map[string]any {
	env := make(map[string]any, len(record)+32)
	maps.Copy(env, record)
	addHelperFunctions(env)
	addRecordHelpers(env, record)
	return env
}

// lookup resolves a dotted path such as "fundstelle.pdf_url"
func lookup(record Record, path string) (any, bool) {
	var current any = map[string]any(record)
	for _, key := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func parseDate(dateStr string) time.Time {
	t, _ := time.Parse(dateLayout, dateStr)
	return t
}

func createFieldFunc(record Record) func(string) any {
	return func(path string) any {
		v, _ := lookup(record, path)
		return v
	}
}

func createHasFunc(record Record) func(string) bool {
	return func(path string) bool {
		v, ok := lookup(record, path)
		return ok && v != nil
	}
}

func createAsStringFunc(record Record) func(string) string {
	return func(path string) string {
		v, _ := lookup(record, path)
		switch val := v.(type) {
		case nil:
			return ""
		case string:
			return val
		case float64:
			return strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(val)
		default:
			return ""
		}
	}
}

// createDateFunc parses the record's "datum" field; a zero time when absent
func createDateFunc(record Record) func() time.Time {
	datum, _ := record["datum"].(string)
	t := parseDate(datum)
	return func() time.Time {
		return t
	}
}

// createHasNamedFunc matches key[].field case-insensitively
func createHasNamedFunc(record Record, key, field string) func(string) bool {
	items, _ := record[key].([]any)
	names := make([]string, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			if name, ok := m[field].(string); ok {
				names = append(names, strings.ToLower(name))
			}
		}
	}
	return func(name string) bool {
		return slices.Contains(names, strings.ToLower(name))
	}
}

// createHasStringFunc matches an element of a string list case-insensitively
func createHasStringFunc(record Record, key string) func(string) bool {
	items, _ := record[key].([]any)
	values := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			values = append(values, strings.ToLower(s))
		}
	}
	return func(value string) bool {
		return slices.Contains(values, strings.ToLower(value))
	}
}

// createInPeriodFunc checks "wahlperiode", a number or a list of numbers
func createInPeriodFunc(record Record) func(int) bool {
	var periods []int
	switch v := record["wahlperiode"].(type) {
	case float64:
		periods = append(periods, int(v))
	case []any:
		for _, item := range v {
			if f, ok := item.(float64); ok {
				periods = append(periods, int(f))
			}
		}
	}
	return func(period int) bool {
		return slices.Contains(periods, period)
	}
}
