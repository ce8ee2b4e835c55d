package profile

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core/grading"
)

// Demo profile identity
const (
	DemoName          = "Demo Student"
	DemoStudentNumber = "10123456"
	DemoProgramme     = "BSc Computer Science"
)

func demoCourse(code, name string, grade grading.Grade) grading.Course {
	return grading.Course{Code: code, Name: null.StringFrom(name), Credits: 3, Grade: grade}
}

// demoSemesters are the two level 100 semesters of the demo profile.
func demoSemesters() []NewSemester {
	return []NewSemester{
		{
			Level:  grading.Level100,
			Number: 1,
			Courses: []grading.Course{
				demoCourse("UGRC110", "Academic Writing I", grading.GradeBPlus),
				demoCourse("DCIT101", "Introduction to CS", grading.GradeA),
				demoCourse("DCIT103", "Office Productivity", grading.GradeB),
				demoCourse("MATH121", "Algebra & Trigonometry", grading.GradeBPlus),
				demoCourse("STAT111", "Introduction to Statistics", grading.GradeCPlus),
			},
		},
		{
			Level:  grading.Level100,
			Number: 2,
			Courses: []grading.Course{
				demoCourse("UGRC120", "Academic Writing II", grading.GradeA),
				demoCourse("DCIT102", "Computer Hardware", grading.GradeBPlus),
				demoCourse("DCIT104", "Programming Fundamentals", grading.GradeA),
				demoCourse("MATH122", "Calculus I", grading.GradeB),
				demoCourse("MATH123", "Vectors & Geometry", grading.GradeBPlus),
			},
		},
	}
}
