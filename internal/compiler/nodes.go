package compiler

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aidanlsb/folio/internal/sdl"
)

// missingValue marks an object key that is not present at all, as opposed
// to present with a nil value.
type missingValue struct{}

var missing = missingValue{}

// node is one combinator in a compiled validator tree.
type node interface {
	check(v any, path []string) (any, []Issue)
}

type stringNode struct {
	minLength, maxLength *int
	format               string
}

func (n *stringNode) check(v any, path []string) (any, []Issue) {
	s, ok := v.(string)
	if !ok {
		return nil, []Issue{invalidType(path, "string", v)}
	}
	var issues []Issue
	length := len([]rune(s))
	if n.minLength != nil && length < *n.minLength {
		issues = append(issues, issueAt(path, CodeTooSmall,
			"String must contain at least %d character(s)", *n.minLength))
	}
	if n.maxLength != nil && length > *n.maxLength {
		issues = append(issues, issueAt(path, CodeTooBig,
			"String must contain at most %d character(s)", *n.maxLength))
	}
	switch n.format {
	case "email":
		if !isEmail(s) {
			issues = append(issues, issueAt(path, CodeInvalidString, "Invalid email"))
		}
	case "url":
		if !isURL(s) {
			issues = append(issues, issueAt(path, CodeInvalidString, "Invalid url"))
		}
	case "uuid":
		if !isUUID(s) {
			issues = append(issues, issueAt(path, CodeInvalidString, "Invalid uuid"))
		}
	}
	return s, issues
}

type numberNode struct {
	min, max *float64
	integer  bool
	positive bool
}

func (n *numberNode) check(v any, path []string) (any, []Issue) {
	f, ok := sdl.ToFloat(v)
	if !ok {
		return nil, []Issue{invalidType(path, "number", v)}
	}
	if math.IsNaN(f) {
		return nil, []Issue{issueAt(path, CodeInvalidType, "Expected number, received nan")}
	}
	var issues []Issue
	if n.min != nil && f < *n.min {
		issues = append(issues, issueAt(path, CodeTooSmall,
			"Number must be greater than or equal to %s", formatNumber(*n.min)))
	}
	if n.max != nil && f > *n.max {
		issues = append(issues, issueAt(path, CodeTooBig,
			"Number must be less than or equal to %s", formatNumber(*n.max)))
	}
	if n.integer && (math.IsInf(f, 0) || f != math.Trunc(f)) {
		issues = append(issues, issueAt(path, CodeInvalidType, "Expected integer, received float"))
	}
	if n.positive && f <= 0 {
		issues = append(issues, issueAt(path, CodeTooSmall, "Number must be greater than 0"))
	}
	return v, issues
}

type booleanNode struct{}

func (booleanNode) check(v any, path []string) (any, []Issue) {
	b, ok := v.(bool)
	if !ok {
		return nil, []Issue{invalidType(path, "boolean", v)}
	}
	return b, nil
}

type dateNode struct {
	min, max *time.Time
}

func (n *dateNode) check(v any, path []string) (any, []Issue) {
	var t time.Time
	switch d := v.(type) {
	case time.Time:
		t = d
	case *time.Time:
		if d == nil {
			return nil, []Issue{invalidType(path, "date", nil)}
		}
		t = *d
	default:
		return nil, []Issue{invalidType(path, "date", v)}
	}
	if t.IsZero() {
		return nil, []Issue{issueAt(path, CodeInvalidDate, "Invalid date")}
	}
	var issues []Issue
	if n.min != nil && t.Before(*n.min) {
		issues = append(issues, issueAt(path, CodeTooSmall,
			"Date must be greater than or equal to %s", n.min.Format(time.RFC3339)))
	}
	if n.max != nil && t.After(*n.max) {
		issues = append(issues, issueAt(path, CodeTooBig,
			"Date must be smaller than or equal to %s", n.max.Format(time.RFC3339)))
	}
	return t, issues
}

type arrayNode struct {
	item               node
	minItems, maxItems *int
}

func (n *arrayNode) check(v any, path []string) (any, []Issue) {
	items, ok := asSlice(v)
	if !ok {
		return nil, []Issue{invalidType(path, "array", v)}
	}
	var issues []Issue
	if n.minItems != nil && len(items) < *n.minItems {
		issues = append(issues, issueAt(path, CodeTooSmall,
			"Array must contain at least %d element(s)", *n.minItems))
	}
	if n.maxItems != nil && len(items) > *n.maxItems {
		issues = append(issues, issueAt(path, CodeTooBig,
			"Array must contain at most %d element(s)", *n.maxItems))
	}
	out := make([]any, len(items))
	for i, item := range items {
		parsed, itemIssues := n.item.check(item, appendPath(path, strconv.Itoa(i)))
		out[i] = parsed
		issues = append(issues, itemIssues...)
	}
	return out, issues
}

type objectNode struct {
	keys  []string
	props map[string]node
}

func (n *objectNode) check(v any, path []string) (any, []Issue) {
	obj, ok := asObject(v)
	if !ok {
		return nil, []Issue{invalidType(path, "object", v)}
	}
	var issues []Issue
	out := make(map[string]any, len(n.keys))
	for _, k := range n.keys {
		value, present := obj[k]
		if !present {
			value = missing
		}
		parsed, propIssues := n.props[k].check(value, appendPath(path, k))
		issues = append(issues, propIssues...)
		if parsed != missing {
			out[k] = parsed
		}
	}
	return out, issues
}

type enumNode struct {
	options []string
}

func (n *enumNode) check(v any, path []string) (any, []Issue) {
	expected := quoteOptions(n.options)
	s, ok := v.(string)
	if !ok {
		return nil, []Issue{issueAt(path, CodeInvalidType,
			"Expected %s, received %s", expected, typeName(v))}
	}
	for _, opt := range n.options {
		if s == opt {
			return s, nil
		}
	}
	return nil, []Issue{issueAt(path, CodeInvalidEnumValue,
		"Invalid enum value. Expected %s, received '%s'", expected, s)}
}

type recordNode struct {
	value node
}

func (n *recordNode) check(v any, path []string) (any, []Issue) {
	obj, ok := asObject(v)
	if !ok {
		return nil, []Issue{invalidType(path, "object", v)}
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var issues []Issue
	out := make(map[string]any, len(obj))
	for _, k := range keys {
		parsed, valueIssues := n.value.check(obj[k], appendPath(path, k))
		out[k] = parsed
		issues = append(issues, valueIssues...)
	}
	return out, issues
}

// describedNode carries a description; it does not affect checking.
type describedNode struct {
	inner       node
	description string
}

func (n *describedNode) check(v any, path []string) (any, []Issue) {
	return n.inner.check(v, path)
}

// optionalNode accepts a missing value. A nil or empty string value counts
// as missing and is dropped from the output.
type optionalNode struct {
	inner node
}

func (n *optionalNode) check(v any, path []string) (any, []Issue) {
	if v == missing || v == nil || v == "" {
		return missing, nil
	}
	return n.inner.check(v, path)
}

// defaultNode substitutes value for a missing input and then checks it like
// any supplied value.
type defaultNode struct {
	inner node
	value any
}

func (n *defaultNode) check(v any, path []string) (any, []Issue) {
	if v == missing {
		v = n.value
	}
	return n.inner.check(v, path)
}

func invalidType(path []string, expected string, v any) Issue {
	if v == missing {
		return issueAt(path, CodeInvalidType, "Required")
	}
	return issueAt(path, CodeInvalidType, "Expected %s, received %s", expected, typeName(v))
}

func typeName(v any) string {
	switch t := v.(type) {
	case missingValue:
		return "undefined"
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case time.Time, *time.Time:
		return "date"
	case float64:
		if math.IsNaN(t) {
			return "nan"
		}
		return "number"
	}
	if _, ok := sdl.ToFloat(v); ok {
		return "number"
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	}
	return "unknown"
}

func quoteOptions(options []string) string {
	quoted := make([]string, len(options))
	for i, o := range options {
		quoted[i] = "'" + o + "'"
	}
	return strings.Join(quoted, " | ")
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func asSlice(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return nil, false
		}
	case reflect.Array:
	default:
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func asObject(v any) (map[string]any, bool) {
	if obj, ok := v.(map[string]any); ok {
		return obj, obj != nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	obj := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		obj[iter.Key().String()] = iter.Value().Interface()
	}
	return obj, true
}
