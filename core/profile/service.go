package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/grading"
)

// ResetConfirmation must be typed to wipe the store.
const ResetConfirmation = "DELETE ALL"

var (
	// errors
	ErrNotFound          = errors.New("profile not found")
	ErrSemesterNotFound  = errors.New("semester not found")
	ErrSemesterExists    = errors.New("semester already saved")
	ErrScenarioNotFound  = errors.New("scenario not found")
	ErrResetNotConfirmed = errors.New(`type "` + ResetConfirmation + `" to confirm`)

	nowFunc = func() time.Time { return time.Now().UTC() }
)

type (
	// Repository stores the whole Document. Update must apply fn atomically:
	// when fn fails, nothing it did to the document is kept.
	Repository interface {
		Snapshot(ctx context.Context) (Document, error)
		Update(ctx context.Context, fn func(doc *Document) error) error
	}

	Service struct {
		repo            Repository
		log             core.Logger
		validate        *validator.Validate
		retakeGrade     grading.Grade
		creditsRequired int
	}
)

// NewService expects validate to have the profile validations registered (see InitValidators).
func NewService(repo Repository, logger core.Logger, validate *validator.Validate, conf core.GradingConfig) *Service {
	retakeGrade, err := grading.ParseGrade(conf.RetakeGrade)
	if err != nil || retakeGrade == grading.Ungraded {
		logger.Warn("invalid retake grade, using default", conf.RetakeGrade, grading.DefaultRetakeGrade)
		retakeGrade = grading.DefaultRetakeGrade
	}
	required := conf.CreditsRequired
	if required <= 0 {
		required = grading.DefaultCreditsRequired
	}
	return &Service{
		repo:            repo,
		log:             logger,
		validate:        validate,
		retakeGrade:     retakeGrade,
		creditsRequired: required,
	}
}

func (svc *Service) RetakeGrade() grading.Grade { return svc.retakeGrade }

func (svc *Service) CreditsRequired() int { return svc.creditsRequired }

// updateProfile runs fn on the stored profile with the given id.
func (svc *Service) updateProfile(ctx context.Context, id string, fn func(p *Profile) error) (Profile, error) {
	var updated Profile
	err := svc.repo.Update(ctx, func(doc *Document) error {
		idx := doc.Index(id)
		if idx < 0 {
			return ErrNotFound
		}
		p := &doc.Profiles[idx]
		if err := fn(p); err != nil {
			return err
		}
		p.UpdatedAt = null.TimeFrom(nowFunc())
		updated = p.Clone()
		return nil
	})
	return updated, err
}

func (svc *Service) Create(ctx context.Context, np NewProfile) (Profile, error) {
	np.clean()
	if err := svc.validate.Struct(np); err != nil {
		return Profile{}, err
	}

	p := Profile{
		ID:            uuid.New().String(),
		Name:          np.Name,
		StudentNumber: np.StudentNumber,
		Programme:     np.Programme,
		Semesters:     []grading.Semester{},
		CreatedAt:     nowFunc(),
	}
	err := svc.repo.Update(ctx, func(doc *Document) error {
		doc.Profiles = append(doc.Profiles, p)
		return nil
	})
	if err != nil {
		return Profile{}, err
	}
	svc.log.Info("profile created", p)
	return p, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Profile, error) {
	doc, err := svc.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if doc.Profiles == nil {
		return []Profile{}, nil
	}
	return doc.Profiles, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Profile, error) {
	doc, err := svc.repo.Snapshot(ctx)
	if err != nil {
		return Profile{}, err
	}
	idx := doc.Index(id)
	if idx < 0 {
		return Profile{}, ErrNotFound
	}
	return doc.Profiles[idx], nil
}

// Delete removes the profile and every semester it holds.
func (svc *Service) Delete(ctx context.Context, id string) error {
	err := svc.repo.Update(ctx, func(doc *Document) error {
		idx := doc.Index(id)
		if idx < 0 {
			return ErrNotFound
		}
		doc.Profiles = append(doc.Profiles[:idx], doc.Profiles[idx+1:]...)
		return nil
	})
	if err == nil {
		svc.log.Info("profile deleted", id)
	}
	return err
}

// SaveSemester aggregates and stores a semester. A semester with the same level and number
// is only replaced when overwrite is set; otherwise ErrSemesterExists is returned.
func (svc *Service) SaveSemester(ctx context.Context, id string, ns NewSemester, overwrite bool) (grading.Semester, error) {
	ns.clean()
	if err := svc.validate.Struct(ns); err != nil {
		return grading.Semester{}, err
	}
	sem, err := grading.NewSemester(ns.Level, ns.Number, ns.Courses)
	if err != nil {
		return grading.Semester{}, err
	}
	sem.SavedAt = nowFunc()

	_, err = svc.updateProfile(ctx, id, func(p *Profile) error {
		idx := p.Semester(sem.Key())
		switch {
		case idx < 0:
			sem.ID = uuid.New().String()
			p.Semesters = append(p.Semesters, sem)
		case overwrite:
			sem.ID = p.Semesters[idx].ID
			p.Semesters[idx] = sem
		default:
			return errors.Wrapf(ErrSemesterExists, "%s", sem.Key())
		}
		p.SortSemesters()
		return nil
	})
	if err != nil {
		return grading.Semester{}, err
	}
	svc.log.Debug("semester saved", id, sem.Key().String())
	return sem, nil
}

func (svc *Service) DeleteSemester(ctx context.Context, id string, key grading.Key) error {
	_, err := svc.updateProfile(ctx, id, func(p *Profile) error {
		idx := p.Semester(key)
		if idx < 0 {
			return errors.Wrapf(ErrSemesterNotFound, "%s", key)
		}
		p.Semesters = append(p.Semesters[:idx], p.Semesters[idx+1:]...)
		return nil
	})
	return err
}

// Summary computes the dashboard figures of a profile. skip marks levels as N/A for the final GPA.
func (svc *Service) Summary(ctx context.Context, id string, skip ...grading.Level) (Summary, error) {
	p, err := svc.GetByID(ctx, id)
	if err != nil {
		return Summary{}, err
	}

	cum := grading.AggregateCumulative(p.Semesters)
	sum := Summary{
		Profile:         p,
		Cumulative:      cum,
		Final:           grading.AggregateFinal(p.Semesters, skip...),
		Insights:        grading.Insights(p.Courses()),
		CreditsProgress: grading.CreditsProgress(cum.TotalTaken, svc.creditsRequired),
		CreditsRequired: svc.creditsRequired,
	}
	if cum.HasData() {
		sum.Classification = grading.Classify(cum.CGPA)
		if b, ok := grading.BoundaryDistance(cum.CGPA); ok {
			sum.Boundary = &b
		}
		if b, ok := grading.NextBoundary(cum.CGPA); ok {
			sum.NextBoundary = &b
		}
	}
	if sum.Retakes, err = grading.PlanRetakes(p.Semesters, svc.retakeGrade, skip...); err != nil {
		return Summary{}, err
	}
	return sum, nil
}

// Retakes lists the failed courses of a profile with their estimated impact.
// An Ungraded assumed grade falls back to the configured retake grade.
func (svc *Service) Retakes(ctx context.Context, id string, assumed grading.Grade, skip ...grading.Level) ([]grading.RetakeOption, error) {
	p, err := svc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if assumed == grading.Ungraded {
		assumed = svc.retakeGrade
	}
	return grading.PlanRetakes(p.Semesters, assumed, skip...)
}

// PinScenario computes a prediction and keeps it on the profile.
func (svc *Service) PinScenario(ctx context.Context, id string, ns NewScenario) (Scenario, error) {
	ns.Name = core.CleanString(ns.Name)
	if err := svc.validate.Struct(ns); err != nil {
		return Scenario{}, err
	}
	pred, err := grading.Predict(ns.CurrentCGPA, ns.CurrentCredits, ns.NextGPA, ns.NextCredits)
	if err != nil {
		return Scenario{}, err
	}

	sc := Scenario{
		ID:             uuid.New().String(),
		Name:           ns.Name,
		CurrentCGPA:    ns.CurrentCGPA,
		CurrentCredits: ns.CurrentCredits,
		NextGPA:        ns.NextGPA,
		NextCredits:    ns.NextCredits,
		PredictedCGPA:  pred.PredictedCGPA,
		CreatedAt:      nowFunc(),
	}
	_, err = svc.updateProfile(ctx, id, func(p *Profile) error {
		p.Scenarios = append(p.Scenarios, sc)
		return nil
	})
	if err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

func (svc *Service) RemoveScenario(ctx context.Context, id, scenarioID string) error {
	_, err := svc.updateProfile(ctx, id, func(p *Profile) error {
		for i, sc := range p.Scenarios {
			if sc.ID == scenarioID {
				p.Scenarios = append(p.Scenarios[:i], p.Scenarios[i+1:]...)
				return nil
			}
		}
		return ErrScenarioNotFound
	})
	return err
}

// Export returns the whole store.
func (svc *Service) Export(ctx context.Context) (Document, error) {
	doc, err := svc.repo.Snapshot(ctx)
	if err != nil {
		return Document{}, err
	}
	if doc.Profiles == nil {
		doc.Profiles = []Profile{}
	}
	return doc, nil
}

// Import adds the profiles of doc to the store. Merge keeps the existing profiles and skips
// imported ones whose id is already taken; Replace drops the existing profiles first.
// It returns how many profiles were added.
func (svc *Service) Import(ctx context.Context, doc Document, mode ImportMode) (int, error) {
	if mode != Merge && mode != Replace {
		return 0, core.NewValidationError(nil, core.FieldError{Field: "mode", Error: "must be merge or replace"})
	}
	doc = doc.Clone()
	for i := range doc.Profiles {
		if err := svc.checkImported(&doc.Profiles[i]); err != nil {
			return 0, err
		}
	}

	var added int
	err := svc.repo.Update(ctx, func(stored *Document) error {
		if mode == Replace {
			stored.Profiles = nil
		}
		for _, p := range doc.Profiles {
			if stored.Index(p.ID) >= 0 {
				continue
			}
			p = p.Clone()
			p.SortSemesters()
			stored.Profiles = append(stored.Profiles, p)
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	svc.log.Info("profiles imported", string(mode), added)
	return added, nil
}

// checkImported holds the semesters of an imported profile to the rules of SaveSemester:
// valid course rows, at least one graded course and one semester per (level, semester) key.
// Totals are recomputed from the cleaned courses.
func (svc *Service) checkImported(p *Profile) error {
	seen := make(map[grading.Key]bool, len(p.Semesters))
	for j := range p.Semesters {
		s := &p.Semesters[j]
		key := s.Key()
		if seen[key] {
			return core.NewValidationError(nil, core.FieldError{
				Field: "semesters",
				Error: fmt.Sprintf("profile %s: %s appears more than once", p.ID, key),
			})
		}
		seen[key] = true

		ns := NewSemester{Level: s.Level, Number: s.Number, Courses: s.Courses}
		ns.clean()
		if err := svc.validate.Struct(ns); err != nil {
			return errors.Wrapf(err, "profile %s: %s", p.ID, key)
		}
		s.Courses = ns.Courses
		if err := s.Recompute(); err != nil {
			return errors.Wrapf(err, "profile %s: %s", p.ID, key)
		}
	}
	return nil
}

// Reset deletes every profile. confirm must be ResetConfirmation.
func (svc *Service) Reset(ctx context.Context, confirm string) error {
	if confirm != ResetConfirmation {
		return ErrResetNotConfirmed
	}
	err := svc.repo.Update(ctx, func(doc *Document) error {
		doc.Profiles = nil
		return nil
	})
	if err == nil {
		svc.log.Warn("all profiles deleted")
	}
	return err
}

// LoadDemo creates the demo profile unless a profile of that name exists already.
// created is false when the existing one is returned.
func (svc *Service) LoadDemo(ctx context.Context) (p Profile, created bool, err error) {
	profiles, err := svc.QueryAll(ctx)
	if err != nil {
		return Profile{}, false, err
	}
	for _, existing := range profiles {
		if existing.Name == DemoName {
			return existing, false, nil
		}
	}

	p, err = svc.Create(ctx, NewProfile{Name: DemoName, StudentNumber: DemoStudentNumber, Programme: DemoProgramme})
	if err != nil {
		return Profile{}, false, err
	}
	for _, ns := range demoSemesters() {
		if _, err := svc.SaveSemester(ctx, p.ID, ns, false); err != nil {
			return Profile{}, false, err
		}
	}
	p, err = svc.GetByID(ctx, p.ID)
	return p, err == nil, err
}

// Suggest returns the courses already entered that match query, best first.
func (svc *Service) Suggest(ctx context.Context, query string, limit int) ([]HistoryEntry, error) {
	doc, err := svc.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return suggest(courseHistory(doc), query, limit), nil
}
