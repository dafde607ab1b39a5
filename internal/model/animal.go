package model

// Record is one animal document. The shape is not fixed; stores keep whatever
// fields the caller provides, plus the identifier they assign under FieldID.
type Record map[string]any

// Query is a filter over record fields. Each entry is either a literal value
// (equality) or an operator document such as {"$in": [...]} or
// {"$gte": 26, "$lte": 156}. Entries are ANDed.
type Query map[string]any

// Field names the rescue filters rely on.
const (
	FieldID         = "_id"
	FieldAnimalType = "animal_type"
	FieldBreed      = "breed"
	FieldSex        = "sex_upon_outcome"
	FieldAgeWeeks   = "age_upon_outcome_in_weeks"
)

// Query operators understood by every store backend.
const (
	OpIn  = "$in"
	OpGte = "$gte"
	OpLte = "$lte"
	OpGt  = "$gt"
	OpLt  = "$lt"
	OpSet = "$set"
)

// Clone returns a deep copy of r. Nested maps and slices are copied so the
// result shares no mutable state with r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies the map and slice shapes a decoded record can hold.
// Other values are returned as is.
func CloneValue(v any) any {
	switch t := v.(type) {
	case Record:
		return t.Clone()
	case Query:
		if t == nil {
			return t
		}
		out := make(Query, len(t))
		for k, e := range t {
			out[k] = CloneValue(e)
		}
		return out
	case map[string]any:
		if t == nil {
			return t
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = CloneValue(e)
		}
		return out
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = CloneValue(e)
		}
		return out
	case []string:
		if t == nil {
			return t
		}
		return append([]string(nil), t...)
	default:
		return v
	}
}
