package database

import (
	"reflect"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SortField mirrors MongoDB's (field, direction) sort pairs.
type SortField struct {
	Key        string
	Descending bool
}

// applyUpdate applies a MongoDB-style update specification to a document.
// This is the single definition of update semantics shared by every backend
// path that needs emulation. Supported operators: $set, $unset, $inc,
// $addToSet, $pull and, when isInsert is true, $setOnInsert. Unsupported
// operators are ignored. An update with no operator keys is treated as a
// full-document replacement of everything except _id.
func applyUpdate(doc bson.M, update bson.M, isInsert bool) {
	hasOperator := false
	for key := range update {
		if strings.HasPrefix(key, "$") {
			hasOperator = true
			break
		}
	}

	if !hasOperator {
		for key := range doc {
			if key != "_id" {
				delete(doc, key)
			}
		}
		for key, value := range update {
			if key != "_id" {
				doc[key] = value
			}
		}
		return
	}

	if fields, ok := update["$set"].(bson.M); ok {
		for key, value := range fields {
			setPath(doc, key, value)
		}
	}

	if isInsert {
		if fields, ok := update["$setOnInsert"].(bson.M); ok {
			for key, value := range fields {
				setPath(doc, key, value)
			}
		}
	}

	if fields, ok := update["$unset"].(bson.M); ok {
		for key := range fields {
			unsetPath(doc, key)
		}
	}

	if fields, ok := update["$inc"].(bson.M); ok {
		for key, value := range fields {
			current, exists := getPath(doc, key)
			if !exists {
				setPath(doc, key, value)
				continue
			}
			if sum, ok := numericAdd(current, value); ok {
				setPath(doc, key, sum)
			}
		}
	}

	if fields, ok := update["$addToSet"].(bson.M); ok {
		for key, value := range fields {
			list := listAt(doc, key)
			found := false
			for _, item := range list {
				if valuesEqual(item, value) {
					found = true
					break
				}
			}
			if !found {
				setPath(doc, key, append(list, value))
			}
		}
	}

	if fields, ok := update["$pull"].(bson.M); ok {
		for key, value := range fields {
			list := listAt(doc, key)
			kept := make([]interface{}, 0, len(list))
			for _, item := range list {
				if !valuesEqual(item, value) {
					kept = append(kept, item)
				}
			}
			setPath(doc, key, kept)
		}
	}
}

// matchesQuery reports whether a document satisfies a query. Fields match by
// equality unless the query value is an operator document, in which case the
// comparison operators $lt, $lte, $gt, $gte, $ne and $in are honored.
func matchesQuery(doc bson.M, query bson.M) bool {
	for key, expected := range query {
		actual, exists := getPath(doc, key)

		if ops, ok := operatorDoc(expected); ok {
			if !matchesOperators(actual, exists, ops) {
				return false
			}
			continue
		}

		if !exists || !valuesEqual(actual, expected) {
			return false
		}
	}
	return true
}

// operatorDoc reports whether a query value is a document made entirely of
// $-prefixed operator keys.
func operatorDoc(value interface{}) (bson.M, bool) {
	m, ok := value.(bson.M)
	if !ok || len(m) == 0 {
		return nil, false
	}
	for key := range m {
		if !strings.HasPrefix(key, "$") {
			return nil, false
		}
	}
	return m, true
}

func matchesOperators(actual interface{}, exists bool, ops bson.M) bool {
	for op, operand := range ops {
		switch op {
		case "$lt", "$lte", "$gt", "$gte":
			if !exists {
				return false
			}
			cmp, ok := compareValues(actual, operand)
			if !ok {
				return false
			}
			switch op {
			case "$lt":
				if cmp >= 0 {
					return false
				}
			case "$lte":
				if cmp > 0 {
					return false
				}
			case "$gt":
				if cmp <= 0 {
					return false
				}
			case "$gte":
				if cmp < 0 {
					return false
				}
			}
		case "$ne":
			if exists && valuesEqual(actual, operand) {
				return false
			}
		case "$in":
			if !exists {
				return false
			}
			found := false
			for _, candidate := range asList(operand) {
				if valuesEqual(actual, candidate) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			// Unsupported query operator: no document matches it.
			return false
		}
	}
	return true
}

// sortDocuments orders docs by the given sort fields, earlier fields taking
// precedence. Documents missing a field sort before those that have it.
func sortDocuments(docs []bson.M, fields []SortField) {
	if len(fields) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, field := range fields {
			a, aOK := getPath(docs[i], field.Key)
			b, bOK := getPath(docs[j], field.Key)
			if !aOK && !bOK {
				continue
			}
			if !aOK || !bOK {
				less := !aOK
				if field.Descending {
					return !less
				}
				return less
			}
			cmp, ok := compareValues(a, b)
			if !ok || cmp == 0 {
				continue
			}
			if field.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

// getPath resolves a possibly dotted field path ("settings.prefix").
func getPath(doc bson.M, path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	var current interface{} = doc
	for _, part := range parts {
		m, ok := asDoc(current)
		if !ok {
			return nil, false
		}
		value, exists := m[part]
		if !exists {
			return nil, false
		}
		current = value
	}
	return current, true
}

// setPath writes a value at a possibly dotted field path, creating
// intermediate documents as needed.
func setPath(doc bson.M, path string, value interface{}) {
	parts := strings.Split(path, ".")
	current := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := asDoc(current[part])
		if !ok {
			next = bson.M{}
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

func unsetPath(doc bson.M, path string) {
	parts := strings.Split(path, ".")
	current := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := asDoc(current[part])
		if !ok {
			return
		}
		current = next
	}
	delete(current, parts[len(parts)-1])
}

func listAt(doc bson.M, path string) []interface{} {
	value, exists := getPath(doc, path)
	if !exists {
		return nil
	}
	return asList(value)
}

func asDoc(value interface{}) (bson.M, bool) {
	switch v := value.(type) {
	case bson.M:
		return v, true
	case map[string]interface{}:
		return bson.M(v), true
	default:
		return nil, false
	}
}

func asList(value interface{}) []interface{} {
	switch v := value.(type) {
	case []interface{}:
		return v
	case bson.A:
		return []interface{}(v)
	case []string:
		out := make([]interface{}, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	default:
		return nil
	}
}

// valuesEqual compares two values with numeric and timestamp normalization,
// so an int64 equals the int32 the bson decoder produced for the same number.
func valuesEqual(a, b interface{}) bool {
	if cmp, ok := compareValues(a, b); ok {
		return cmp == 0
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two values when they share a comparable kind:
// numbers, strings, or timestamps. The second return is false otherwise.
func compareValues(a, b interface{}) (int, bool) {
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}

	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs), true
		}
		return 0, false
	}

	if at, ok := asTime(a); ok {
		if bt, ok := asTime(b); ok {
			switch {
			case at.Before(bt):
				return -1, true
			case at.After(bt):
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}

	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ab == bb:
				return 0, true
			case bb:
				return -1, true
			default:
				return 1, true
			}
		}
		return 0, false
	}

	return 0, false
}

func asFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func isInteger(value interface{}) bool {
	switch value.(type) {
	case int, int32, int64:
		return true
	default:
		return false
	}
}

func asTime(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case primitive.DateTime:
		return v.Time(), true
	default:
		return time.Time{}, false
	}
}

// numericAdd adds two numeric values, keeping integer arithmetic when both
// sides are integers. Non-numeric operands report false and the document
// field is left untouched.
func numericAdd(current, delta interface{}) (interface{}, bool) {
	cf, ok := asFloat(current)
	if !ok {
		return nil, false
	}
	df, ok := asFloat(delta)
	if !ok {
		return nil, false
	}
	if isInteger(current) && isInteger(delta) {
		return int64(cf) + int64(df), true
	}
	return cf + df, true
}

// cloneDoc deep-copies a document so stored state can never be mutated
// through a returned reference.
func cloneDoc(doc bson.M) bson.M {
	if doc == nil {
		return nil
	}
	out := make(bson.M, len(doc))
	for key, value := range doc {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value interface{}) interface{} {
	switch v := value.(type) {
	case bson.M:
		return cloneDoc(v)
	case map[string]interface{}:
		return cloneDoc(bson.M(v))
	case bson.A:
		out := make(bson.A, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}
