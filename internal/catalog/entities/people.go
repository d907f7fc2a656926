package entities

import (
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/catalog"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/porter"
)

func registerCandidates() {
	catalog.Register(catalog.Definition{
		Info: catalog.Info{
			Key:   "candidates",
			Group: GroupPeople,
			Label: "Candidates",
		},
		Fields: []catalog.Field{
			{Key: "first_name", Label: "First Name", Rules: "required,notblank,max=100", Normalizer: catalog.TitleName},
			{Key: "last_name", Label: "Last Name", Rules: "max=100", Normalizer: catalog.TitleName},
			{Key: "email", Label: "Email", Rules: "required,email,max=255", Normalizer: catalog.Lower},
			{Key: "cnic", Label: "CNIC", Rules: "omitempty,cnic", Normalizer: catalog.NormalizeCNIC},
			{Key: "phone", Label: "Phone", Rules: "omitempty,phone", Normalizer: catalog.NormalizePhone},
			{Key: "gender", Label: "Gender", Type: catalog.FieldEnum, EnumValues: genders, Normalizer: catalog.NormalizeGender},
			{Key: "date_of_birth", Label: "Date of Birth", Type: catalog.FieldDate},
			{Key: "address", Label: "Address", Rules: "max=500", Normalizer: catalog.CollapseSpace},
			statusField(),
		},
		Export: []porter.Column{
			{Key: "first_name", Label: "First Name"},
			{Key: "last_name", Label: "Last Name"},
			{Key: "email", Label: "Email"},
			{Key: "cnic", Label: "CNIC"},
			{Key: "phone", Label: "Phone"},
			{Key: "gender", Label: "Gender"},
			{Key: "date_of_birth", Label: "Date of Birth"},
			{Key: "status", Label: "Status"},
		},
		SearchColumns:  []string{"first_name", "last_name", "email", "cnic"},
		OrderBy:        "last_name",
		ConflictColumn: "email",
	})
}

func registerFacultyMembers() {
	catalog.Register(catalog.Definition{
		Info: catalog.Info{
			Key:   "faculty_members",
			Group: GroupPeople,
			Label: "Faculty Members",
		},
		Fields: []catalog.Field{
			{Key: "name", Label: "Name", Rules: "required,notblank,max=255", Normalizer: catalog.TitleName},
			{Key: "email", Label: "Email", Rules: "required,email,max=255", Normalizer: catalog.Lower},
			{Key: "phone", Label: "Phone", Rules: "omitempty,phone", Normalizer: catalog.NormalizePhone},
			{Key: "department_code", Label: "Department Code", Rules: "omitempty,alphanum,max=20", Normalizer: catalog.Upper},
			{Key: "designation", Label: "Designation", Rules: "max=100", Normalizer: catalog.CollapseSpace},
			{Key: "gender", Label: "Gender", Type: catalog.FieldEnum, EnumValues: genders, Normalizer: catalog.NormalizeGender},
			{Key: "joining_date", Label: "Joining Date", Type: catalog.FieldDate},
			statusField(),
		},
		SearchColumns:  []string{"name", "email", "designation"},
		OrderBy:        "name",
		ConflictColumn: "email",
	})
}
