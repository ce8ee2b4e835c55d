package profile

import (
	"sort"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/grading"
)

// StoreKey is the key the whole Document is persisted under.
const StoreKey = "ugGPAData"

type (
	// Document is everything the store holds.
	Document struct {
		Profiles []Profile `json:"profiles"`
	}

	Profile struct {
		ID            string             `json:"id"`
		Name          string             `json:"name"`
		StudentNumber string             `json:"number"`
		Programme     string             `json:"programme"`
		Semesters     []grading.Semester `json:"semesters"`
		Scenarios     []Scenario         `json:"pinnedScenarios,omitempty"`
		CreatedAt     time.Time          `json:"createdAt"` // UTC
		UpdatedAt     null.Time          `json:"updatedAt"` // UTC
	}

	// Scenario is a what-if prediction kept for comparison. It never changes the profile's grades.
	Scenario struct {
		ID             string    `json:"id"`
		Name           string    `json:"name"`
		CurrentCGPA    float64   `json:"currentCGPA"`
		CurrentCredits float64   `json:"currentCredits"`
		NextGPA        float64   `json:"nextGPA"`
		NextCredits    float64   `json:"nextCredits"`
		PredictedCGPA  float64   `json:"predictedCGPA"`
		CreatedAt      time.Time `json:"createdAt"`
	}

	// Summary is the dashboard view of a profile.
	Summary struct {
		Profile         Profile                `json:"profile"`
		Cumulative      grading.Cumulative     `json:"cumulative"`
		Classification  string                 `json:"classification"`
		Boundary        *grading.Boundary      `json:"boundary,omitempty"`
		NextBoundary    *grading.Boundary      `json:"nextBoundary,omitempty"`
		Final           grading.Final          `json:"final"`
		Insights        grading.Insight        `json:"insights"`
		Retakes         []grading.RetakeOption `json:"retakes"`
		CreditsProgress float64                `json:"creditsProgress"`
		CreditsRequired int                    `json:"creditsRequired"`
	}
)

// Index returns the position of the profile with the given id, or -1.
func (d *Document) Index(id string) int {
	for i := range d.Profiles {
		if d.Profiles[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	if d.Profiles == nil {
		return Document{}
	}
	clone := Document{Profiles: make([]Profile, len(d.Profiles))}
	for i, p := range d.Profiles {
		clone.Profiles[i] = p.Clone()
	}
	return clone
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	if p.Semesters != nil {
		semesters := make([]grading.Semester, len(p.Semesters))
		for i, s := range p.Semesters {
			s.Courses = append([]grading.Course(nil), s.Courses...)
			semesters[i] = s
		}
		p.Semesters = semesters
	}
	if p.Scenarios != nil {
		p.Scenarios = append([]Scenario(nil), p.Scenarios...)
	}
	return p
}

// Semester returns the position of the semester with key k, or -1.
func (p *Profile) Semester(k grading.Key) int {
	for i := range p.Semesters {
		if p.Semesters[i].Key() == k {
			return i
		}
	}
	return -1
}

// SortSemesters orders semesters by level, then semester number.
func (p *Profile) SortSemesters() {
	sort.SliceStable(p.Semesters, func(i, j int) bool {
		return p.Semesters[i].Key().Less(p.Semesters[j].Key())
	})
}

// Courses returns every course of every semester.
func (p Profile) Courses() []grading.Course {
	var courses []grading.Course
	for _, s := range p.Semesters {
		courses = append(courses, s.Courses...)
	}
	return courses
}

// NewProfile contains information needed to create a new Profile.
type NewProfile struct {
	Name          string `json:"name" validate:"required,notblank"`
	StudentNumber string `json:"number" validate:"required,notblank"`
	Programme     string `json:"programme" validate:"required,notblank"`
}

func (np *NewProfile) clean() {
	np.Name = core.CleanString(np.Name)
	np.StudentNumber = core.CleanString(np.StudentNumber)
	np.Programme = core.CleanString(np.Programme)
}

// NewSemester contains the course rows of a semester to save.
type NewSemester struct {
	Level   grading.Level    `json:"level" validate:"level"`
	Number  grading.Term     `json:"semester" validate:"semnum"`
	Courses []grading.Course `json:"courses" validate:"required,min=1,dive"`
}

func (ns *NewSemester) clean() {
	for i := range ns.Courses {
		c := &ns.Courses[i]
		c.Code = core.CleanCode(c.Code)
		if c.Name.Valid {
			c.Name.String = core.CleanString(c.Name.String)
			c.Name.Valid = c.Name.String != ""
		}
	}
}

// NewScenario contains the inputs of a prediction to pin.
type NewScenario struct {
	Name           string  `json:"name" validate:"required,notblank"`
	CurrentCGPA    float64 `json:"currentCGPA" validate:"min=0,max=4"`
	CurrentCredits float64 `json:"currentCredits" validate:"gt=0"`
	NextGPA        float64 `json:"nextGPA" validate:"min=0,max=4"`
	NextCredits    float64 `json:"nextCredits" validate:"gt=0"`
}

// ImportMode says what happens to the existing profiles on import.
type ImportMode string

// Import modes
const (
	Merge   ImportMode = "merge"
	Replace ImportMode = "replace"
)
