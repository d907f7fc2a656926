// Package entities registers the built-in entity definitions with the
// catalog. Import it for side effects.
package entities

import "github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/catalog"

// Groups used on the index page.
const (
	GroupPeople     = "People"
	GroupAcademics  = "Academics"
	GroupAssessment = "Assessment"
)

var statuses = []string{"active", "inactive"}

var genders = []string{"male", "female", "other"}

func init() {
	registerDepartments()
	registerSubjects()
	registerCandidates()
	registerFacultyMembers()
	registerQuestions()
}

func statusField() catalog.Field {
	return catalog.Field{
		Key: "status", Label: "Status",
		Type: catalog.FieldEnum, EnumValues: statuses,
		Normalizer: catalog.Lower,
	}
}
