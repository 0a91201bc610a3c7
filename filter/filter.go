package filter

import (
	"context"
	"encoding/json"
)

// defaultCompiler backs CompileFilter
var defaultCompiler = NewExprCompiler(WithCache(100))

// CompileFilter compiles an expression with the shared caching compiler
func CompileFilter(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}

// Decode turns a raw record into a Record
func Decode(raw json.RawMessage) (Record, error) {
	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// Apply keeps the raw records that match f, in their original order.
func Apply(ctx context.Context, f Filter, records []json.RawMessage) ([]json.RawMessage, error) {
	matched := make([]json.RawMessage, 0, len(records))
	for i, raw := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := Decode(raw)
		if err != nil {
			return nil, &DecodeError{Index: i, Err: err}
		}
		if f.Evaluate(record) {
			matched = append(matched, raw)
		}
	}
	return matched, nil
}
