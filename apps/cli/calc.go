package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/grading"
	"github.com/trezcool/gradebook/core/profile"
)

var errNoGradedSemester = errors.New("the profile has no graded semester yet")

func formatGPA(gpa float64) string {
	return strconv.FormatFloat(gpa, 'f', 2, 64)
}

// visited returns the names of the flags set on the command line.
func visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// currentStanding fills cgpa and credits from the profile, unless given explicitly.
func (cli *commandLine) currentStanding(fs *flag.FlagSet, id string, cgpa, credits *float64) error {
	if id == "" {
		return nil
	}
	p, err := cli.svc.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	cum := grading.AggregateCumulative(p.Semesters)
	if !cum.HasData() {
		return errNoGradedSemester
	}
	set := visited(fs)
	if !set["cgpa"] {
		*cgpa = cum.CGPA
	}
	if !set["credits"] {
		*credits = float64(cum.TotalTaken)
	}
	return nil
}

func (cli *commandLine) cgpa(args []string) error {
	fs := cli.newFlagSet("cgpa")
	id := fs.String("id", "", "The profile ID.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return usage(fs)
	}

	p, err := cli.svc.GetByID(context.Background(), *id)
	if err != nil {
		return err
	}
	cum := grading.AggregateCumulative(p.Semesters)
	if !cum.HasData() {
		return errNoGradedSemester
	}
	cli.printf("CGPA: %.2f over %d semesters - %s\n", cum.CGPA, cum.Semesters, grading.Classify(cum.CGPA))
	if b, ok := grading.BoundaryDistance(cum.CGPA); ok {
		cli.printf("You are %.2f away from %s!\n", b.Distance, b.Label)
	} else if b, ok := grading.NextBoundary(cum.CGPA); ok {
		cli.printf("Next: %s at %.2f\n", b.Label, b.Floor)
	}
	return nil
}

func (cli *commandLine) fgpa(args []string) error {
	fs := cli.newFlagSet("fgpa")
	id := fs.String("id", "", "The profile ID. Leave out to type the level GPAs in.")
	var skip levelsFlag
	fs.Var(&skip, "na", "Levels to leave out, e.g. 300,400.")
	manual := map[grading.Level]*string{}
	for _, l := range grading.Levels {
		manual[l] = fs.String("l"+strconv.Itoa(int(l)), "", fmt.Sprintf("The %s GPA, or na.", l))
	}
	if err := parse(fs, args); err != nil {
		return err
	}

	var final grading.Final
	if *id != "" {
		p, err := cli.svc.GetByID(context.Background(), *id)
		if err != nil {
			return err
		}
		final = grading.AggregateFinal(p.Semesters, skip...)
		if final.InsufficientData {
			return grading.ErrInsufficientData
		}
	} else {
		var entries []grading.LevelEntry
		for _, l := range grading.Levels {
			e, ok, err := levelGPAEntry(l, *manual[l])
			if err != nil {
				return err
			}
			if ok {
				entries = append(entries, e)
			}
		}
		if len(entries) == 0 {
			return usage(fs)
		}
		var err error
		if final, err = grading.FinalFromLevels(entries); err != nil {
			return err
		}
	}
	cli.printFinal(final)
	return nil
}

func (cli *commandLine) predict(args []string) error {
	fs := cli.newFlagSet("predict")
	id := fs.String("id", "", "Take the current CGPA and credits from this profile.")
	cgpa := fs.Float64("cgpa", 0, "The current CGPA.")
	credits := fs.Float64("credits", 0, "The credits taken so far.")
	gpa := fs.Float64("gpa", 0, "The GPA expected next semester.")
	next := fs.Float64("next", 0, "The credits of next semester.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if len(args) == 0 {
		return usage(fs)
	}
	if err := cli.currentStanding(fs, *id, cgpa, credits); err != nil {
		return err
	}

	pred, err := grading.Predict(*cgpa, *credits, *gpa, *next)
	if err != nil {
		return err
	}
	cli.println(pred.Narrative())
	return nil
}

func (cli *commandLine) target(args []string) error {
	fs := cli.newFlagSet("target")
	id := fs.String("id", "", "Take the current CGPA and credits from this profile.")
	cgpa := fs.Float64("cgpa", 0, "The current CGPA.")
	credits := fs.Float64("credits", 0, "The credits taken so far.")
	target := fs.Float64("target", 0, "The CGPA to reach.")
	remaining := fs.Float64("remaining", 0, "The credits left to take.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if len(args) == 0 {
		return usage(fs)
	}
	if err := cli.currentStanding(fs, *id, cgpa, credits); err != nil {
		return err
	}

	t, err := grading.SolveTarget(*cgpa, *credits, *target, *remaining)
	if err != nil {
		return err
	}
	cli.printf("Required GPA over the remaining %g credits: %.2f\n", t.RemainingCredits, t.RequiredGPA)
	cli.println(t.Advice)
	return nil
}

func (cli *commandLine) retake(args []string) error {
	fs := cli.newFlagSet("retake")
	id := fs.String("id", "", "The profile ID.")
	grade := fs.String("grade", "", "The grade assumed for a retaken course (default: configured retake grade).")
	var skip levelsFlag
	fs.Var(&skip, "na", "Levels to leave out of the final GPA, e.g. 300,400.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return usage(fs)
	}
	assumed, err := grading.ParseGrade(*grade)
	if err != nil {
		return err
	}

	options, err := cli.svc.Retakes(context.Background(), *id, assumed, skip...)
	if err != nil {
		return err
	}
	if len(options) == 0 {
		cli.println("No failed course to retake.")
		return nil
	}
	return cli.printRetakes(options)
}

func (cli *commandLine) pin(args []string) error {
	fs := cli.newFlagSet("pin")
	id := fs.String("id", "", "The profile ID.")
	name := fs.String("name", "", "A name for the scenario.")
	cgpa := fs.Float64("cgpa", 0, "The current CGPA (default: the profile's).")
	credits := fs.Float64("credits", 0, "The credits taken so far (default: the profile's).")
	gpa := fs.Float64("gpa", 0, "The GPA expected next semester.")
	next := fs.Float64("next", 0, "The credits of next semester.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return usage(fs)
	}
	if err := cli.currentStanding(fs, *id, cgpa, credits); err != nil && err != errNoGradedSemester {
		return err
	}

	sc, err := cli.svc.PinScenario(context.Background(), *id, profile.NewScenario{
		Name:           *name,
		CurrentCGPA:    *cgpa,
		CurrentCredits: *credits,
		NextGPA:        *gpa,
		NextCredits:    *next,
	})
	if err != nil {
		return err
	}
	cli.printf("Scenario %q pinned (%s): predicted CGPA %.2f\n", sc.Name, sc.ID, sc.PredictedCGPA)
	return nil
}

func (cli *commandLine) scenarios(args []string) error {
	fs := cli.newFlagSet("scenarios")
	id := fs.String("id", "", "The profile ID.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return usage(fs)
	}

	p, err := cli.svc.GetByID(context.Background(), *id)
	if err != nil {
		return err
	}
	if len(p.Scenarios) == 0 {
		cli.println("No pinned scenario.")
		return nil
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCGPA\tCREDITS\tNEXT GPA\tNEXT CREDITS\tPREDICTED")
	for _, sc := range p.Scenarios {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%g\t%.2f\t%g\t%.2f\n",
			sc.ID, sc.Name, sc.CurrentCGPA, sc.CurrentCredits, sc.NextGPA, sc.NextCredits, sc.PredictedCGPA)
	}
	return w.Flush()
}

func (cli *commandLine) unpin(args []string) error {
	fs := cli.newFlagSet("unpin")
	id := fs.String("id", "", "The profile ID.")
	scenario := fs.String("scenario", "", "The scenario ID.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" || *scenario == "" {
		return usage(fs)
	}

	if err := cli.svc.RemoveScenario(context.Background(), *id, *scenario); err != nil {
		return err
	}
	cli.println("Scenario removed.")
	return nil
}
