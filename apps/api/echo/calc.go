package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/grading"
)

type (
	SemesterRequest struct {
		Courses []grading.Course `json:"courses"`
	}

	SemesterResponse struct {
		grading.Totals
		Classification string `json:"classification"`
	}

	FinalRequest struct {
		Levels []grading.LevelEntry `json:"levels"`
	}

	PredictRequest struct {
		CurrentCGPA    float64 `json:"currentCGPA"`
		CurrentCredits float64 `json:"currentCredits"`
		NextGPA        float64 `json:"nextGPA"`
		NextCredits    float64 `json:"nextCredits"`
	}

	PredictResponse struct {
		grading.Prediction
		Narrative string `json:"narrative"`
	}

	TargetRequest struct {
		CurrentCGPA      float64 `json:"currentCGPA"`
		CurrentCredits   float64 `json:"currentCredits"`
		TargetCGPA       float64 `json:"targetCGPA"`
		RemainingCredits float64 `json:"remainingCredits"`
	}

	// RetakeRequest estimates one retake. TotalWeight defaults to grading.FullWeight
	// and AssumedGrade to grading.DefaultRetakeGrade.
	RetakeRequest struct {
		Course       grading.Course `json:"course"`
		Level        grading.Level  `json:"level"`
		AssumedGrade grading.Grade  `json:"assumedGrade"`
		TotalWeight  float64        `json:"totalWeight"`
	}

	RetakeResponse struct {
		Impact float64 `json:"impact"`
	}
)

func registerCalcAPI(group *echo.Group) {
	group.GET("/grades", queryGrades)
	group.GET("/classifications", queryClassifications)

	calc := group.Group("/calc")
	calc.POST("/semester", calcSemester)
	calc.POST("/fgpa", calcFinal)
	calc.POST("/predict", calcPrediction)
	calc.POST("/target", calcTarget)
	calc.POST("/retake", calcRetake)
}

func queryGrades(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, grading.Scale())
}

func queryClassifications(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, grading.Bands)
}

func calcSemester(ctx echo.Context) error {
	var data SemesterRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SemesterRequest")
	}

	totals, err := grading.AggregateSemester(data.Courses)
	if err != nil {
		return errors.Wrap(err, "aggregating semester")
	}
	resp := SemesterResponse{Totals: totals, Classification: grading.NoClassification}
	if totals.TotalCredits > 0 {
		resp.Classification = grading.Classify(totals.GPA)
	}
	return ctx.JSON(http.StatusOK, resp)
}

func calcFinal(ctx echo.Context) error {
	var data FinalRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to FinalRequest")
	}

	final, err := grading.FinalFromLevels(data.Levels)
	if err != nil {
		return errors.Wrap(err, "computing final GPA")
	}
	return ctx.JSON(http.StatusOK, final)
}

func calcPrediction(ctx echo.Context) error {
	var data PredictRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PredictRequest")
	}

	pred, err := grading.Predict(data.CurrentCGPA, data.CurrentCredits, data.NextGPA, data.NextCredits)
	if err != nil {
		return errors.Wrap(err, "predicting CGPA")
	}
	return ctx.JSON(http.StatusOK, PredictResponse{Prediction: pred, Narrative: pred.Narrative()})
}

func calcTarget(ctx echo.Context) error {
	var data TargetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TargetRequest")
	}

	target, err := grading.SolveTarget(data.CurrentCGPA, data.CurrentCredits, data.TargetCGPA, data.RemainingCredits)
	if err != nil {
		return errors.Wrap(err, "solving target")
	}
	return ctx.JSON(http.StatusOK, target)
}

func calcRetake(ctx echo.Context) error {
	var data RetakeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RetakeRequest")
	}
	if data.AssumedGrade == grading.Ungraded {
		data.AssumedGrade = grading.DefaultRetakeGrade
	}
	if data.TotalWeight == 0 {
		data.TotalWeight = grading.FullWeight
	}

	impact, err := grading.EstimateRetakeImpact(data.Course, data.AssumedGrade, data.Level.Weight(), data.TotalWeight)
	if err != nil {
		return errors.Wrap(err, "estimating retake impact")
	}
	return ctx.JSON(http.StatusOK, RetakeResponse{Impact: impact})
}
