package model

import "strings"

// Location is a (city, department) pair from the static Colombia dataset.
type Location struct {
	City       string `json:"city"`
	Department string `json:"department"`
}

// Label renders the display string used in address suggestions: both parts
// when present, one alone otherwise.
func (l Location) Label() string {
	switch {
	case l.City != "" && l.Department != "":
		return l.City + ", " + l.Department
	case l.City != "":
		return l.City
	default:
		return l.Department
	}
}

// SearchKey is the lowercase haystack for dropdown filtering.
func (l Location) SearchKey() string {
	return strings.ToLower(l.City + " " + l.Department)
}

// DepartmentEntry mirrors one record of the bundled colombia-locations.json
// asset: a department with its list of cities.
type DepartmentEntry struct {
	Department string   `json:"departamento"`
	Cities     []string `json:"ciudades"`
}

// FlattenDepartments expands the dataset into one Location per city.
func FlattenDepartments(entries []DepartmentEntry) []Location {
	var out []Location
	for _, e := range entries {
		for _, city := range e.Cities {
			out = append(out, Location{City: city, Department: e.Department})
		}
	}
	return out
}

// ComposeLocation builds the display-only location string from the structured
// city/department fields stored on a patient.
func ComposeLocation(city, department string) string {
	return Location{City: city, Department: department}.Label()
}
