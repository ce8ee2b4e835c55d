package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/grading"
)

var (
	naParam        = "na"
	gradeParam     = "grade"
	overwriteParam = "overwrite"
)

// bindSemesterKey reads the :level and :number path params.
func bindSemesterKey(ctx echo.Context) (grading.Key, error) {
	level, err := grading.ParseLevel(ctx.Param("level"))
	if err != nil {
		return grading.Key{}, errors.Wrap(err, "parsing level")
	}
	number, err := grading.ParseTerm(ctx.Param("number"))
	if err != nil {
		return grading.Key{}, errors.Wrap(err, "parsing semester")
	}
	return grading.Key{Level: level, Number: number}, nil
}

// bindSkippedLevels reads the levels marked N/A, given as ?na=300,400 or ?na=300&na=400.
func bindSkippedLevels(ctx echo.Context) ([]grading.Level, error) {
	var levels []grading.Level
	for _, val := range ctx.QueryParams()[naParam] {
		for _, field := range strings.Split(val, ",") {
			if field = strings.TrimSpace(field); field == "" {
				continue
			}
			l, err := grading.ParseLevel(field)
			if err != nil {
				return nil, errors.Wrap(err, "parsing N/A levels")
			}
			levels = append(levels, l)
		}
	}
	return levels, nil
}

// bindGrade reads ?grade=; a missing grade is Ungraded.
func bindGrade(ctx echo.Context) (grading.Grade, error) {
	g, err := grading.ParseGrade(core.CleanString(ctx.QueryParam(gradeParam)))
	if err != nil {
		return grading.Ungraded, errors.Wrap(err, "parsing grade")
	}
	return g, nil
}

func bindOverwrite(ctx echo.Context) bool {
	ok, _ := strconv.ParseBool(ctx.QueryParam(overwriteParam))
	return ok
}

// bindLimit reads a positive ?limit=, or returns def.
func bindLimit(ctx echo.Context, def int) int {
	if n, err := strconv.Atoi(ctx.QueryParam("limit")); err == nil && n > 0 {
		return n
	}
	return def
}
