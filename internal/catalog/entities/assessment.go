package entities

import "github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/catalog"

var (
	questionTypes = []string{"mcq", "true_false", "short_answer", "essay"}
	difficulties  = []string{"easy", "medium", "hard"}
)

func registerQuestions() {
	catalog.Register(catalog.Definition{
		Info: catalog.Info{
			Key:   "questions",
			Group: GroupAssessment,
			Label: "Questions",
		},
		Fields: []catalog.Field{
			{Key: "subject_code", Label: "Subject Code", Rules: "required,max=20", Normalizer: catalog.Upper},
			{Key: "question_text", Label: "Question", Column: "text", Rules: "required,notblank,max=5000"},
			{Key: "type", Label: "Type", Type: catalog.FieldEnum, EnumValues: questionTypes, Rules: "required", Normalizer: catalog.NormalizeQuestionType},
			{Key: "difficulty", Label: "Difficulty", Type: catalog.FieldEnum, EnumValues: difficulties, Normalizer: catalog.NormalizeDifficulty},
			{Key: "marks", Label: "Marks", Type: catalog.FieldNumeric, Rules: "required"},
			{Key: "option_a", Label: "Option A", Rules: "max=1000"},
			{Key: "option_b", Label: "Option B", Rules: "max=1000"},
			{Key: "option_c", Label: "Option C", Rules: "max=1000"},
			{Key: "option_d", Label: "Option D", Rules: "max=1000"},
			{Key: "correct_answer", Label: "Correct Answer", Rules: "max=1000", Normalizer: catalog.CollapseSpace},
		},
		SearchColumns: []string{"text", "subject_code"},
		OrderBy:       "subject_code",
	})
}
