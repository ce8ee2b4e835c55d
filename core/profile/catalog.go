package profile

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core/grading"
)

// CatalogCourse is a university-wide core course.
type CatalogCourse struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Credits int    `json:"credits"`
}

// Course returns c as an ungraded course row.
func (c CatalogCourse) Course() grading.Course {
	return grading.Course{Code: c.Code, Name: null.StringFrom(c.Name), Credits: c.Credits}
}

var coreCourses = map[grading.Level][]CatalogCourse{
	grading.Level100: {
		{Code: "UGRC110", Name: "Academic Writing I", Credits: 3},
		{Code: "UGRC120", Name: "Numeracy Skills", Credits: 3},
		{Code: "UGRC150", Name: "Critical Thinking and Practical Reasoning", Credits: 3},
		{Code: "UGRC210", Name: "Academic Writing II", Credits: 3},
	},
	grading.Level200: {
		{Code: "UGRC210", Name: "Academic Writing II", Credits: 3},
		{Code: "UGRC220", Name: "Introduction to African Studies", Credits: 3},
		{Code: "UGRC250", Name: "Science and Technology in Our Lives", Credits: 3},
	},
}

// CoreCourses returns the core courses offered at level; levels 300 and 400 have none.
func CoreCourses(level grading.Level) []CatalogCourse {
	return append([]CatalogCourse(nil), coreCourses[level]...)
}
