package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// ValuePair is one field of an object-literal default value. Order is
// preserved exactly as written in the schema.
type ValuePair struct {
	Name  string
	Value interface{}
}

// evalLiteral parses a GraphQL value literal into a native Go value:
// int64, float64, string, bool, nil, []interface{} for lists, or
// []ValuePair for object literals. Enum names pass through as strings.
// The literal is parsed by wrapping it in a minimal query document, so
// the full value grammar applies without a separate lexer.
func evalLiteral(text string) (interface{}, error) {
	src := &ast.Source{Input: fmt.Sprintf("query { f(v: %s) }", text)}
	doc, err := parser.ParseQuery(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrLiteralParse, text, err)
	}
	if len(doc.Operations) != 1 || len(doc.Operations[0].SelectionSet) != 1 {
		return nil, fmt.Errorf("%w: %q: not a single value", ErrLiteralParse, text)
	}
	field, ok := doc.Operations[0].SelectionSet[0].(*ast.Field)
	if !ok || len(field.Arguments) != 1 {
		return nil, fmt.Errorf("%w: %q: not a single value", ErrLiteralParse, text)
	}
	return evalValue(field.Arguments[0].Value, text)
}

// evalValue reduces an AST value bottom-up. Each node is evaluated from
// its own content only, never from sibling or ancestor context.
func evalValue(v *ast.Value, text string) (interface{}, error) {
	switch v.Kind {
	case ast.IntValue:
		n, err := strconv.ParseInt(v.Raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrLiteralParse, text, err)
		}
		return n, nil
	case ast.FloatValue:
		f, err := strconv.ParseFloat(v.Raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrLiteralParse, text, err)
		}
		return f, nil
	case ast.StringValue, ast.BlockValue:
		return v.Raw, nil
	case ast.BooleanValue:
		return v.Raw == "true", nil
	case ast.NullValue:
		return nil, nil
	case ast.EnumValue:
		return v.Raw, nil
	case ast.ListValue:
		out := make([]interface{}, 0, len(v.Children))
		for _, child := range v.Children {
			cv, err := evalValue(child.Value, text)
			if err != nil {
				return nil, err
			}
			out = append(out, cv)
		}
		return out, nil
	case ast.ObjectValue:
		out := make([]ValuePair, 0, len(v.Children))
		for _, child := range v.Children {
			cv, err := evalValue(child.Value, text)
			if err != nil {
				return nil, err
			}
			out = append(out, ValuePair{Name: child.Name, Value: cv})
		}
		return out, nil
	case ast.Variable:
		return nil, fmt.Errorf("%w: %q: variable references are not value literals", ErrLiteralParse, text)
	default:
		return nil, fmt.Errorf("%w: %q: unhandled value kind %d", ErrLiteralParse, text, v.Kind)
	}
}

// renderValue renders an evaluated literal as Go source. Explicit null
// renders as the runtime's Null sentinel so it stays distinguishable
// from an absent default.
func renderValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "gqlt.Null"
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return strconv.Quote(val)
	case bool:
		return strconv.FormatBool(val)
	case []interface{}:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = renderValue(item)
		}
		return "gqlt.List{" + strings.Join(parts, ", ") + "}"
	case []ValuePair:
		parts := make([]string, len(val))
		for i, p := range val {
			parts[i] = "{" + strconv.Quote(p.Name) + ", " + renderValue(p.Value) + "}"
		}
		return "gqlt.Obj{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%#v", v)
	}
}
