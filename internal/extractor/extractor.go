// Package extractor locates named substructures anywhere in a decoded
// SWOT document.
package extractor

import (
	"github.com/dkravchenko/swotstat/internal/models"
)

// FindField searches the tree depth-first, pre-order, for the first
// object carrying fieldName as an exact, case-sensitive key and returns
// its value. An object whose own key holds JSON null is a dead end: the
// key counts as absent and that object's children are not searched,
// matching the upstream processor.
func FindField(tree models.Value, fieldName string) (models.Value, bool) {
	switch v := tree.(type) {
	case *models.Object:
		if val, ok := v.Get(fieldName); ok {
			if val != nil {
				return val, true
			}
			return nil, false
		}
		for _, m := range v.Members() {
			if val, ok := FindField(m.Value, fieldName); ok {
				return val, true
			}
		}
	case models.Array:
		for _, el := range v {
			if val, ok := FindField(el, fieldName); ok {
				return val, true
			}
		}
	}
	return nil, false
}

// PayloadRoot locates the statistics payload inside a raw report
// document: "data" at the top level, then "Data" or "data" inside
// "raw_response". Empty values do not count, so a report with
// `"data": null` still falls through to the raw response copy.
func PayloadRoot(doc models.Value) (models.Value, bool) {
	obj, ok := doc.(*models.Object)
	if !ok {
		return nil, false
	}
	if v, ok := obj.Get("data"); ok && !isEmpty(v) {
		return v, true
	}
	raw, ok := obj.Get("raw_response")
	if !ok {
		return nil, false
	}
	rawObj, ok := raw.(*models.Object)
	if !ok {
		return nil, false
	}
	if v, ok := rawObj.Get("Data"); ok && !isEmpty(v) {
		return v, true
	}
	if v, ok := rawObj.Get("data"); ok && !isEmpty(v) {
		return v, true
	}
	return nil, false
}

func isEmpty(v models.Value) bool {
	switch t := v.(type) {
	case nil:
		return true
	case *models.Object:
		return t.Len() == 0
	case models.Array:
		return len(t) == 0
	case string:
		return t == ""
	}
	return false
}
