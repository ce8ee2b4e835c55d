package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core/grading"
)

// courseFlags collects repeated -course CODE:CREDITS:GRADE[:NAME] flags. GRADE may be "-" for ungraded.
type courseFlags []grading.Course

func (f *courseFlags) String() string {
	if f == nil {
		return ""
	}
	rows := make([]string, 0, len(*f))
	for _, c := range *f {
		rows = append(rows, c.Code+":"+strconv.Itoa(c.Credits)+":"+c.Grade.String())
	}
	return strings.Join(rows, ",")
}

func (f *courseFlags) Set(value string) error {
	parts := strings.SplitN(value, ":", 4)
	if len(parts) < 3 {
		return errors.Errorf("course %q must be CODE:CREDITS:GRADE[:NAME]", value)
	}
	credits, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return errors.Errorf("course %q: credits must be a number", value)
	}
	g := strings.TrimSpace(parts[2])
	if g == "-" {
		g = ""
	}
	grade, err := grading.ParseGrade(g)
	if err != nil {
		return errors.Wrapf(err, "course %q", value)
	}

	c := grading.Course{Code: parts[0], Credits: credits, Grade: grade}
	if len(parts) == 4 {
		c.Name = null.StringFrom(parts[3])
	}
	*f = append(*f, c)
	return nil
}

// levelsFlag is a comma separated list of levels, e.g. -na 300,400.
type levelsFlag []grading.Level

func (f *levelsFlag) String() string {
	if f == nil {
		return ""
	}
	levels := make([]string, 0, len(*f))
	for _, l := range *f {
		levels = append(levels, strconv.Itoa(int(l)))
	}
	return strings.Join(levels, ",")
}

func (f *levelsFlag) Set(value string) error {
	for _, field := range strings.Split(value, ",") {
		if field = strings.TrimSpace(field); field == "" {
			continue
		}
		l, err := grading.ParseLevel(field)
		if err != nil {
			return err
		}
		*f = append(*f, l)
	}
	return nil
}

// levelGPAEntry reads a typed-in level GPA of the manual FGPA calculator:
// empty leaves the level out, "na" marks it N/A.
func levelGPAEntry(level grading.Level, value string) (grading.LevelEntry, bool, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "":
		return grading.LevelEntry{}, false, nil
	case "na", "n/a":
		return grading.LevelEntry{Level: level, NA: true}, true, nil
	}
	gpa, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return grading.LevelEntry{}, false, errors.Errorf("%s GPA %q is not a number", level, value)
	}
	return grading.LevelEntry{Level: level, GPA: &gpa}, true, nil
}
