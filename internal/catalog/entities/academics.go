package entities

import (
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/catalog"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/porter"
)

func registerDepartments() {
	catalog.Register(catalog.Definition{
		Info: catalog.Info{
			Key:   "departments",
			Group: GroupAcademics,
			Label: "Departments",
		},
		Fields: []catalog.Field{
			{Key: "name", Label: "Name", Rules: "required,notblank,max=255", Normalizer: catalog.CollapseSpace},
			{Key: "code", Label: "Code", Rules: "required,alphanum,max=20", Normalizer: catalog.Upper},
			{Key: "description", Label: "Description", Rules: "max=1000"},
			statusField(),
		},
		SearchColumns:  []string{"name", "code"},
		OrderBy:        "name",
		ConflictColumn: "code",
	})
}

func registerSubjects() {
	catalog.Register(catalog.Definition{
		Info: catalog.Info{
			Key:   "subjects",
			Group: GroupAcademics,
			Label: "Subjects",
		},
		Fields: []catalog.Field{
			{Key: "name", Label: "Name", Rules: "required,notblank,max=255", Normalizer: catalog.CollapseSpace},
			{Key: "code", Label: "Code", Rules: "required,max=20", Normalizer: catalog.Upper},
			{Key: "department_code", Label: "Department Code", Rules: "omitempty,alphanum,max=20", Normalizer: catalog.Upper},
			{Key: "credit_hours", Label: "Credit Hours", Type: catalog.FieldInt, Rules: "omitempty,numeric"},
			{Key: "description", Label: "Description", Rules: "max=1000"},
			statusField(),
		},
		Export: []porter.Column{
			{Key: "code", Label: "Code"},
			{Key: "name", Label: "Name"},
			{Key: "department_code", Label: "Department Code"},
			{Key: "credit_hours", Label: "Credit Hours"},
			{Key: "status", Label: "Status"},
		},
		SearchColumns:  []string{"name", "code", "department_code"},
		OrderBy:        "code",
		ConflictColumn: "code",
	})
}
