package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/grading"
	"github.com/trezcool/gradebook/core/profile"
)

var (
	errProfileNotFoundInCtx = errors.New("profile not found in context")

	defaultSuggestions = 8
)

type (
	profileApi struct {
		svc *profile.Service
	}

	SaveSemesterRequest struct {
		Courses []grading.Course `json:"courses"`
	}

	ImportResponse struct {
		Imported int `json:"imported"`
	}

	ResetRequest struct {
		Confirm string `json:"confirm"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func registerProfileAPI(group *echo.Group, svc *profile.Service) {
	api := &profileApi{svc: svc}

	group.GET("/export", api.export)
	group.POST("/import", api.importDocument)
	group.POST("/reset", api.reset)
	group.POST("/demo", api.loadDemo)
	group.GET("/suggestions", api.suggest)
	group.GET("/catalog/:level", api.catalog)

	profiles := group.Group("/profiles")
	profiles.GET("", api.query)
	profiles.POST("", api.create)

	withProfile := profileMiddleware(svc)
	profiles.GET("/:id", api.retrieve, withProfile)
	profiles.DELETE("/:id", api.destroy)
	profiles.GET("/:id/transcript.csv", api.transcript, withProfile)
	profiles.GET("/:id/summary", api.summary)
	profiles.GET("/:id/retakes", api.retakes)
	profiles.PUT("/:id/semesters/:level/:number", api.saveSemester)
	profiles.DELETE("/:id/semesters/:level/:number", api.deleteSemester)
	profiles.POST("/:id/scenarios", api.pinScenario)
	profiles.DELETE("/:id/scenarios/:sid", api.removeScenario)
}

// profileMiddleware loads the :id profile into the context as "object".
func profileMiddleware(svc *profile.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			p, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == profile.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding profile by ID")
			}
			ctx.Set("object", p)
			return next(ctx)
		}
	}
}

func (api *profileApi) query(ctx echo.Context) error {
	profiles, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying profiles")
	}
	return ctx.JSON(http.StatusOK, profiles)
}

func (api *profileApi) create(ctx echo.Context) error {
	var data profile.NewProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProfile")
	}

	p, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating profile")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *profileApi) retrieve(ctx echo.Context) error {
	p, ok := ctx.Get("object").(profile.Profile)
	if !ok {
		return errors.Wrap(errProfileNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *profileApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting profile")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *profileApi) summary(ctx echo.Context) error {
	skip, err := bindSkippedLevels(ctx)
	if err != nil {
		return err
	}

	sum, err := api.svc.Summary(ctx.Request().Context(), ctx.Param("id"), skip...)
	if err != nil {
		return errors.Wrap(err, "summarizing profile")
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *profileApi) retakes(ctx echo.Context) error {
	skip, err := bindSkippedLevels(ctx)
	if err != nil {
		return err
	}
	assumed, err := bindGrade(ctx)
	if err != nil {
		return err
	}

	options, err := api.svc.Retakes(ctx.Request().Context(), ctx.Param("id"), assumed, skip...)
	if err != nil {
		return errors.Wrap(err, "planning retakes")
	}
	if options == nil {
		options = []grading.RetakeOption{}
	}
	return ctx.JSON(http.StatusOK, options)
}

func (api *profileApi) saveSemester(ctx echo.Context) error {
	key, err := bindSemesterKey(ctx)
	if err != nil {
		return err
	}
	var data SaveSemesterRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveSemesterRequest")
	}

	ns := profile.NewSemester{Level: key.Level, Number: key.Number, Courses: data.Courses}
	sem, err := api.svc.SaveSemester(ctx.Request().Context(), ctx.Param("id"), ns, bindOverwrite(ctx))
	if err != nil {
		return errors.Wrap(err, "saving semester")
	}
	return ctx.JSON(http.StatusOK, sem)
}

func (api *profileApi) deleteSemester(ctx echo.Context) error {
	key, err := bindSemesterKey(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteSemester(ctx.Request().Context(), ctx.Param("id"), key); err != nil {
		return errors.Wrap(err, "deleting semester")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *profileApi) pinScenario(ctx echo.Context) error {
	var data profile.NewScenario
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewScenario")
	}

	sc, err := api.svc.PinScenario(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "pinning scenario")
	}
	return ctx.JSON(http.StatusCreated, sc)
}

func (api *profileApi) removeScenario(ctx echo.Context) error {
	if err := api.svc.RemoveScenario(ctx.Request().Context(), ctx.Param("id"), ctx.Param("sid")); err != nil {
		return errors.Wrap(err, "removing scenario")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *profileApi) transcript(ctx echo.Context) error {
	p, ok := ctx.Get("object").(profile.Profile)
	if !ok {
		return errors.Wrap(errProfileNotFoundInCtx, "retrieving object from context")
	}

	resp := ctx.Response()
	resp.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	resp.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "transcript-"+p.StudentNumber+".csv"))
	resp.WriteHeader(http.StatusOK)
	return profile.WriteTranscriptCSV(resp, p)
}

func (api *profileApi) export(ctx echo.Context) error {
	doc, err := api.svc.Export(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "exporting profiles")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="gradebook.json"`)
	return ctx.JSON(http.StatusOK, doc)
}

// importDocument reads a document as written by export. ?mode=replace drops the stored profiles first.
func (api *profileApi) importDocument(ctx echo.Context) error {
	mode := profile.ImportMode(ctx.QueryParam("mode"))
	if mode == "" {
		mode = profile.Merge
	}

	doc, err := profile.ReadJSON(ctx.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	n, err := api.svc.Import(ctx.Request().Context(), doc, mode)
	if err != nil {
		return errors.Wrap(err, "importing profiles")
	}
	return ctx.JSON(http.StatusOK, ImportResponse{Imported: n})
}

func (api *profileApi) reset(ctx echo.Context) error {
	var data ResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetRequest")
	}
	if err := api.svc.Reset(ctx.Request().Context(), data.Confirm); err != nil {
		return errors.Wrap(err, "resetting store")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "All profiles have been deleted."})
}

func (api *profileApi) loadDemo(ctx echo.Context) error {
	p, created, err := api.svc.LoadDemo(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "loading demo profile")
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return ctx.JSON(code, p)
}

func (api *profileApi) suggest(ctx echo.Context) error {
	entries, err := api.svc.Suggest(ctx.Request().Context(), ctx.QueryParam("q"), bindLimit(ctx, defaultSuggestions))
	if err != nil {
		return errors.Wrap(err, "suggesting courses")
	}
	if entries == nil {
		entries = []profile.HistoryEntry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *profileApi) catalog(ctx echo.Context) error {
	level, err := grading.ParseLevel(ctx.Param("level"))
	if err != nil {
		return errors.Wrap(err, "parsing level")
	}
	courses := profile.CoreCourses(level)
	if courses == nil {
		courses = []profile.CatalogCourse{}
	}
	return ctx.JSON(http.StatusOK, courses)
}
