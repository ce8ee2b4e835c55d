package profile

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/grading"
)

var (
	gradeTag  = "grade"
	gradeText = "must be one of A, B+, B, C+, C, D+, D, E, F"

	levelTag  = "level"
	levelText = "must be one of 100, 200, 300, 400"

	semNumTag  = "semnum"
	semNumText = "must be 1 or 2"

	gradedTag  = "graded"
	gradedText = "select a grade for at least one course"
)

// InitValidators registers the profile validations on validate.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(gradeTag, gradeValidation)
	core.RegisterCustomTranslation(validate, translator, gradeTag, gradeText)

	_ = validate.RegisterValidation(levelTag, levelValidation)
	core.RegisterCustomTranslation(validate, translator, levelTag, levelText)

	_ = validate.RegisterValidation(semNumTag, semNumValidation)
	core.RegisterCustomTranslation(validate, translator, semNumTag, semNumText)

	validate.RegisterStructValidation(semesterStructValidation, NewSemester{})
	core.RegisterCustomTranslation(validate, translator, gradedTag, gradedText)
}

// NewValidator returns a validator ready for every profile input.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate, translator := core.NewValidator()
	InitValidators(validate, translator)
	return validate, translator
}

// Custom Validators

// gradeValidation allows scale grades and the empty (ungraded) token.
func gradeValidation(fl validator.FieldLevel) bool {
	g := grading.Grade(fl.Field().String())
	return g == grading.Ungraded || g.Valid()
}

func levelValidation(fl validator.FieldLevel) bool {
	return grading.Level(fl.Field().Int()).Valid()
}

func semNumValidation(fl validator.FieldLevel) bool {
	return grading.Term(fl.Field().Int()).Valid()
}

// semesterStructValidation checks that at least one course of a NewSemester is graded.
func semesterStructValidation(sl validator.StructLevel) {
	ns, ok := sl.Current().Interface().(NewSemester)
	if !ok || len(ns.Courses) == 0 {
		return
	}
	for _, c := range ns.Courses {
		if c.Graded() {
			return
		}
	}
	sl.ReportError(ns.Courses, "courses", "Courses", gradedTag, "")
}
