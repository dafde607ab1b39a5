// Package rescue classifies free-text rescue labels and builds the store
// query for each rescue category. It has no store dependency.
package rescue

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"animalshelter/internal/model"
)

// Type is a search-and-rescue suitability class.
type Type int

const (
	Invalid Type = iota
	WaterRescue
	MountainRescue
	DisasterRescue
	Reset
)

var labels = map[Type]string{
	WaterRescue:    "Water Rescue",
	MountainRescue: "Mountain Rescue",
	DisasterRescue: "Disaster Rescue",
	Reset:          "Reset",
}

// String returns the canonical label, or "Invalid".
func (t Type) String() string {
	if l, ok := labels[t]; ok {
		return l
	}
	return "Invalid"
}

// Normalize trims surrounding whitespace and title-cases every word,
// so " water RESCUE " becomes "Water Rescue".
func Normalize(label string) string {
	// Casers keep state and are not safe for concurrent use.
	return cases.Title(language.Und).String(strings.TrimSpace(label))
}

// Parse maps a free-text label to its Type. Anything that does not match a
// canonical label after normalization is Invalid.
func Parse(label string) Type {
	n := Normalize(label)
	for t, l := range labels {
		if l == n {
			return t
		}
	}
	return Invalid
}

type template struct {
	sex    string
	breeds []string
	minAge int
	maxAge int
}

var templates = map[Type]template{
	WaterRescue: {
		sex: "Intact Female",
		breeds: []string{
			"Labrador Retriever",
			"Labrador Retriever Mix",
			"Labrador Retriever/Chesa Bay Retr",
			"Chesa Bay Retr Mix",
			"Newfoundland",
			"Newfoundland Mix",
			"Newfoundland/Labrador Retriever",
		},
		minAge: 26,
		maxAge: 156,
	},
	MountainRescue: {
		sex: "Intact Male",
		breeds: []string{
			"German Shepherd",
			"German Shepherd Mix",
			"Alaskan Malamute",
			"Alaskan Malamute Mix",
			"Old English Sheepdog",
			"Siberian Husky",
			"Siberian Husky Mix",
			"Rottweiler",
			"Rottweiler Mix",
		},
		minAge: 26,
		maxAge: 156,
	},
	DisasterRescue: {
		sex: "Intact Male",
		breeds: []string{
			"Doberman Pinsch",
			"Doberman Pinsch Mix",
			"German Shepherd",
			"German Shepherd Mix",
			"Golden Retriever",
			"Golden Retriever Mix",
			"Bloodhound",
			"Bloodhound Mix",
			"Rottweiler",
			"Rottweiler Mix",
		},
		minAge: 20,
		maxAge: 300,
	},
}

// Breeds returns the breeds accepted for t, or nil for Reset and Invalid.
func Breeds(t Type) []string {
	tpl, ok := templates[t]
	if !ok {
		return nil
	}
	return append([]string(nil), tpl.breeds...)
}

// QueryFor builds a fresh query for t. Reset and Invalid yield an empty query,
// which matches every record.
func QueryFor(t Type) model.Query {
	tpl, ok := templates[t]
	if !ok {
		return model.Query{}
	}
	return model.Query{
		model.FieldAnimalType: "Dog",
		model.FieldBreed:      map[string]any{model.OpIn: Breeds(t)},
		model.FieldSex:        tpl.sex,
		model.FieldAgeWeeks:   map[string]any{model.OpGte: tpl.minAge, model.OpLte: tpl.maxAge},
	}
}

// QueryForLabel normalizes label and returns its type and query.
func QueryForLabel(label string) (Type, model.Query) {
	t := Parse(label)
	return t, QueryFor(t)
}
