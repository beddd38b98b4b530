package executor

import (
	"fmt"
	"math"
	"strconv"

	language "github.com/hanpama/gqlcompose/internal/language"
	schema "github.com/hanpama/gqlcompose/internal/schema"
)

// coerceVariableValues coerces variable values according to their types
func coerceVariableValues(
	s *schema.Schema,
	operation *language.OperationDefinition,
	variableValues map[string]any,
) (map[string]any, error) {
	if variableValues == nil {
		variableValues = make(map[string]any)
	}
	coerced := make(map[string]any)
	for _, varDef := range operation.VariableDefinitions {
		name := varDef.Variable
		t := varDef.Type
		val, ok := variableValues[name]
		if !ok {
			if varDef.DefaultValue != nil {
				val = valueFromAST(varDef.DefaultValue, nil)
			} else if t.NonNull {
				return nil, fmt.Errorf("variable $%s of required type %s was not provided", name, t.String())
			} else {
				continue
			}
		}
		if val == nil && t.NonNull {
			return nil, fmt.Errorf("variable $%s of type %s cannot be null", name, t.String())
		}
		cv, err := coerceValue(s, val, typeRefFromAST(t))
		if err != nil {
			return nil, fmt.Errorf("variable $%s of type %s cannot be coerced: %v", name, t.String(), err)
		}
		coerced[name] = cv
	}
	return coerced, nil
}

// coerceArgumentValues coerces argument values for a field, applying declared
// defaults for arguments that were not provided.
func coerceArgumentValues(state *executionState, fieldDef *schema.Field, arguments language.ArgumentList) (map[string]any, error) {
	coerced := make(map[string]any, len(fieldDef.Arguments))
	for _, arg := range arguments {
		argDef := fieldDef.Argument(arg.Name)
		if argDef == nil {
			return nil, fmt.Errorf("unknown argument '%s' on field '%s'", arg.Name, fieldDef.Name)
		}
		if arg.Value != nil && arg.Value.Kind == language.Variable {
			if _, provided := state.variableValues[arg.Value.Raw]; !provided {
				// An absent variable leaves the argument unset so its default applies
				continue
			}
		}
		val := valueFromAST(arg.Value, state.variableValues)
		cv, err := coerceValue(state.schema, val, argDef.Type)
		if err != nil {
			return nil, fmt.Errorf("argument '%s' cannot be coerced: %v", arg.Name, err)
		}
		coerced[arg.Name] = cv
	}
	for _, argDef := range fieldDef.Arguments {
		name := argDef.Name
		if _, ok := coerced[name]; ok {
			continue
		}
		if argDef.DefaultValue != nil {
			cv, err := coerceValue(state.schema, argDef.DefaultValue, argDef.Type)
			if err != nil {
				return nil, fmt.Errorf("default value of argument '%s' cannot be coerced: %v", name, err)
			}
			coerced[name] = cv
		} else if schema.IsNonNull(argDef.Type) {
			return nil, fmt.Errorf("argument '%s' of required type %s was not provided", name, argDef.Type)
		}
	}
	return coerced, nil
}

// valueFromAST converts an AST value to a Go value, substituting variables at
// any depth.
func valueFromAST(value *language.Value, variableValues map[string]any) any {
	if value == nil {
		return nil
	}
	switch value.Kind {
	case language.Variable:
		return variableValues[value.Raw]
	case language.IntValue:
		if iv, err := strconv.Atoi(value.Raw); err == nil {
			return iv
		}
		fv, _ := strconv.ParseFloat(value.Raw, 64)
		return fv
	case language.FloatValue:
		fv, _ := strconv.ParseFloat(value.Raw, 64)
		return fv
	case language.StringValue, language.BlockValue:
		return value.Raw
	case language.BooleanValue:
		return value.Raw == "true"
	case language.NullValue:
		return nil
	case language.EnumValue:
		return schema.EnumLiteral(value.Raw)
	case language.ListValue:
		out := make([]any, len(value.Children))
		for i, c := range value.Children {
			out[i] = valueFromAST(c.Value, variableValues)
		}
		return out
	case language.ObjectValue:
		m := make(map[string]any, len(value.Children))
		for _, f := range value.Children {
			if f.Value != nil && f.Value.Kind == language.Variable {
				if _, provided := variableValues[f.Value.Raw]; !provided {
					continue
				}
			}
			m[f.Name] = valueFromAST(f.Value, variableValues)
		}
		return m
	default:
		return nil
	}
}

// coerceValue coerces a value to the specified GraphQL input type
func coerceValue(s *schema.Schema, value any, targetType *schema.TypeRef) (any, error) {
	if schema.IsNonNull(targetType) {
		if value == nil {
			return nil, fmt.Errorf("cannot provide null for non-null type")
		}
		return coerceValue(s, value, schema.Unwrap(targetType))
	}

	if value == nil {
		return nil, nil
	}

	if schema.IsList(targetType) {
		return coerceListValue(s, value, targetType)
	}

	namedType := schema.GetNamedType(targetType)
	switch namedType {
	case "Int":
		return coerceToInt(value)
	case "Float":
		return coerceToFloat(value)
	case "String":
		return coerceToString(value)
	case "Boolean":
		return coerceToBoolean(value)
	case "ID":
		return coerceToID(value)
	}

	typ := s.Types[namedType]
	if typ == nil {
		return nil, fmt.Errorf("unknown input type %s", namedType)
	}
	switch typ.Kind {
	case schema.TypeKindEnum:
		return coerceToEnum(typ, value)
	case schema.TypeKindInputObject:
		return coerceInputObject(s, typ, value)
	case schema.TypeKindScalar:
		// Custom scalars pass through unchanged
		return unwrapEnumLiteral(value), nil
	default:
		return nil, fmt.Errorf("%s is not an input type", namedType)
	}
}

// coerceListValue coerces a value to a list
func coerceListValue(s *schema.Schema, value any, listType *schema.TypeRef) (any, error) {
	innerType := schema.Unwrap(listType)
	if slice, ok := value.([]any); ok {
		coercedSlice := make([]any, len(slice))
		for i, item := range slice {
			coercedItem, err := coerceValue(s, item, innerType)
			if err != nil {
				return nil, fmt.Errorf("index %d: %v", i, err)
			}
			coercedSlice[i] = coercedItem
		}
		return coercedSlice, nil
	}

	// Single value becomes a list of one
	coercedItem, err := coerceValue(s, value, innerType)
	if err != nil {
		return nil, err
	}
	return []any{coercedItem}, nil
}

func coerceInputObject(s *schema.Schema, typ *schema.Type, value any) (any, error) {
	fields, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object for %s, got %T", typ.Name, value)
	}
	for name := range fields {
		if typ.InputFieldByName(name) == nil {
			return nil, fmt.Errorf("field '%s' is not defined by type %s", name, typ.Name)
		}
	}

	if typ.OneOf {
		if len(fields) != 1 {
			return nil, fmt.Errorf("exactly one field must be supplied for oneOf input %s, got %d", typ.Name, len(fields))
		}
		for name, v := range fields {
			if v == nil {
				return nil, fmt.Errorf("field '%s' of oneOf input %s must not be null", name, typ.Name)
			}
		}
	}

	out := make(map[string]any, len(typ.InputFields))
	for _, f := range typ.InputFields {
		raw, present := fields[f.Name]
		if !present {
			if f.DefaultValue != nil {
				cv, err := coerceValue(s, f.DefaultValue, f.Type)
				if err != nil {
					return nil, fmt.Errorf("default of field '%s': %v", f.Name, err)
				}
				out[f.Name] = cv
			} else if schema.IsNonNull(f.Type) {
				return nil, fmt.Errorf("field '%s' of required type %s was not provided", f.Name, f.Type)
			}
			continue
		}
		cv, err := coerceValue(s, raw, f.Type)
		if err != nil {
			return nil, fmt.Errorf("field '%s': %v", f.Name, err)
		}
		out[f.Name] = cv
	}
	return out, nil
}

func coerceToEnum(typ *schema.Type, value any) (any, error) {
	var name string
	switch v := value.(type) {
	case schema.EnumLiteral:
		name = string(v)
	case string:
		name = v
	default:
		return nil, fmt.Errorf("cannot coerce %v (%T) to enum %s", value, value, typ.Name)
	}
	if !typ.HasEnumValue(name) {
		return nil, fmt.Errorf("value %q does not exist in enum %s", name, typ.Name)
	}
	return name, nil
}

func unwrapEnumLiteral(value any) any {
	if lit, ok := value.(schema.EnumLiteral); ok {
		return string(lit)
	}
	return value
}

func coerceToInt(value any) (any, error) {
	var n int64
	switch v := value.(type) {
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("cannot coerce non-integer %v to Int", v)
		}
		n = int64(v)
	case float32:
		if float64(v) != math.Trunc(float64(v)) {
			return nil, fmt.Errorf("cannot coerce non-integer %v to Int", v)
		}
		n = int64(v)
	default:
		return nil, fmt.Errorf("cannot coerce %v (%T) to Int", value, value)
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		return nil, fmt.Errorf("Int cannot represent value %d", n)
	}
	return int(n), nil
}

func coerceToFloat(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to Float", value, value)
}

func coerceToString(value any) (any, error) {
	if v, ok := value.(string); ok {
		return v, nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to String", value, value)
}

func coerceToBoolean(value any) (any, error) {
	if v, ok := value.(bool); ok {
		return v, nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to Boolean", value, value)
}

func coerceToID(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10), nil
		}
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to ID", value, value)
}
