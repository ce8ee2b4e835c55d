package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/grading"
	"github.com/trezcool/gradebook/core/profile"
)

func (cli *commandLine) listProfiles() error {
	profiles, err := cli.svc.QueryAll(context.Background())
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		cli.println("No profiles yet. Create one with addprofile, or try demo.")
		return nil
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tNUMBER\tPROGRAMME\tSEMESTERS")
	for _, p := range profiles {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.StudentNumber, p.Programme, len(p.Semesters))
	}
	return w.Flush()
}

func (cli *commandLine) addProfile(args []string) error {
	fs := cli.newFlagSet("addprofile")
	name := fs.String("name", "", "The student's name.")
	number := fs.String("number", "", "The student number.")
	programme := fs.String("programme", "", "The programme of study, e.g. \"BSc Computer Science\".")
	if err := parse(fs, args); err != nil {
		return err
	}

	p, err := cli.svc.Create(context.Background(), profile.NewProfile{Name: *name, StudentNumber: *number, Programme: *programme})
	if err != nil {
		return err
	}
	cli.printf("Profile created: %s\n", p.ID)
	return nil
}

func (cli *commandLine) deleteProfile(args []string) error {
	fs := cli.newFlagSet("delprofile")
	id := fs.String("id", "", "The profile ID.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return usage(fs)
	}

	if err := cli.svc.Delete(context.Background(), *id); err != nil {
		return err
	}
	cli.println("Profile deleted.")
	return nil
}

func (cli *commandLine) show(args []string) error {
	fs := cli.newFlagSet("show")
	id := fs.String("id", "", "The profile ID.")
	var skip levelsFlag
	fs.Var(&skip, "na", "Levels to leave out of the final GPA, e.g. 300,400.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return usage(fs)
	}

	sum, err := cli.svc.Summary(context.Background(), *id, skip...)
	if err != nil {
		return err
	}
	p := sum.Profile
	cli.printf("%s (%s) - %s\n\n", p.Name, p.StudentNumber, p.Programme)

	if len(p.Semesters) == 0 {
		cli.println("No semesters saved yet.")
		return nil
	}
	if err := cli.printSemesters(p.Semesters); err != nil {
		return err
	}
	cli.println()

	cum := sum.Cumulative
	if cum.HasData() {
		cli.printf("CGPA: %.2f - %s\n", cum.CGPA, sum.Classification)
		if sum.Boundary != nil {
			cli.printf("You are %.2f away from %s!\n", sum.Boundary.Distance, sum.Boundary.Label)
		}
	} else {
		cli.println("CGPA: no graded semester yet")
	}
	cli.printf("Credits: %d taken, %d passed, %.0f%% of %d\n",
		cum.TotalTaken, cum.TotalPassed, sum.CreditsProgress, sum.CreditsRequired)
	cli.printFinal(sum.Final)

	cli.printCourses("Top courses", sum.Insights.Top)
	cli.printCourses("At risk", sum.Insights.AtRisk)
	cli.printCourses("Failed", sum.Insights.Failed)
	return cli.printRetakes(sum.Retakes)
}

func (cli *commandLine) printSemesters(semesters []grading.Semester) error {
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tSEMESTER\tCOURSES\tCREDITS\tPASSED\tGPA")
	for _, s := range semesters {
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%.2f\n",
			int(s.Level), int(s.Number), len(s.Courses), s.TotalCredits, s.CreditsPassed, s.GPA)
	}
	return w.Flush()
}

func (cli *commandLine) printFinal(final grading.Final) {
	if final.InsufficientData {
		cli.printf("FGPA: at least %d levels are needed\n", grading.MinFinalLevels)
		return
	}
	levels := make([]string, 0, len(final.Levels))
	for _, l := range final.Levels {
		switch {
		case l.Present:
			levels = append(levels, strings.TrimPrefix(l.Level.String(), "Level ")+": "+formatGPA(l.GPA))
		case l.Skipped:
			levels = append(levels, strings.TrimPrefix(l.Level.String(), "Level ")+": N/A")
		}
	}
	cli.printf("FGPA: %.2f - %s (%s)\n", final.FGPA, final.Classification, strings.Join(levels, ", "))
}

func (cli *commandLine) printCourses(title string, courses []grading.Course) {
	if len(courses) == 0 {
		return
	}
	rows := make([]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, c.Code+" ("+c.Grade.String()+")")
	}
	cli.printf("%s: %s\n", title, strings.Join(rows, ", "))
}

func (cli *commandLine) printRetakes(options []grading.RetakeOption) error {
	if len(options) == 0 {
		return nil
	}
	cli.println()
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RETAKE\tLEVEL\tCREDITS\tGRADE\tIF\tFGPA GAIN")
	for _, o := range options {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%+.2f\n",
			o.Course.Code, int(o.Level), o.Course.Credits, o.Course.Grade, o.Assumed, o.Impact)
	}
	return w.Flush()
}

func (cli *commandLine) saveSemester(args []string) error {
	fs := cli.newFlagSet("semester")
	id := fs.String("id", "", "The profile ID.")
	level := fs.String("level", "", "The level: 100, 200, 300 or 400.")
	number := fs.String("semester", "", "The semester: 1 or 2.")
	force := fs.Bool("force", false, "Overwrite the semester if it is saved already.")
	withCore := fs.Bool("core", false, "Add the UG core courses of the level (ungraded) before the -course rows.")
	var courses courseFlags
	fs.Var(&courses, "course", "A course as CODE:CREDITS:GRADE[:NAME]; repeat for each course. GRADE - is ungraded.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" || *level == "" || *number == "" {
		return usage(fs)
	}

	l, err := grading.ParseLevel(*level)
	if err != nil {
		return err
	}
	n, err := grading.ParseTerm(*number)
	if err != nil {
		return err
	}
	ns := profile.NewSemester{Level: l, Number: n}
	if *withCore {
		for _, c := range profile.CoreCourses(l) {
			ns.Courses = append(ns.Courses, c.Course())
		}
	}
	ns.Courses = append(ns.Courses, courses...)
	if len(ns.Courses) == 0 {
		return usage(fs)
	}

	ctx := context.Background()
	sem, err := cli.svc.SaveSemester(ctx, *id, ns, *force)
	if errors.Cause(err) == profile.ErrSemesterExists {
		ok, cErr := cli.confirm(grading.Key{Level: l, Number: n}.String() + " is already saved. Overwrite it?")
		if cErr != nil {
			return cErr
		}
		if !ok {
			return errors.Wrap(err, "use -force to overwrite")
		}
		sem, err = cli.svc.SaveSemester(ctx, *id, ns, true)
	}
	if err != nil {
		return err
	}
	cli.printf("%s saved: GPA %.2f, %d credits (%d passed)\n", sem.Key(), sem.GPA, sem.TotalCredits, sem.CreditsPassed)
	return nil
}

func (cli *commandLine) deleteSemester(args []string) error {
	fs := cli.newFlagSet("delsemester")
	id := fs.String("id", "", "The profile ID.")
	level := fs.String("level", "", "The level: 100, 200, 300 or 400.")
	number := fs.String("semester", "", "The semester: 1 or 2.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" || *level == "" || *number == "" {
		return usage(fs)
	}

	l, err := grading.ParseLevel(*level)
	if err != nil {
		return err
	}
	n, err := grading.ParseTerm(*number)
	if err != nil {
		return err
	}
	key := grading.Key{Level: l, Number: n}
	if err := cli.svc.DeleteSemester(context.Background(), *id, key); err != nil {
		return err
	}
	cli.printf("%s deleted.\n", key)
	return nil
}

func (cli *commandLine) demo() error {
	p, created, err := cli.svc.LoadDemo(context.Background())
	if err != nil {
		return err
	}
	if created {
		cli.printf("Demo profile created: %s\n", p.ID)
	} else {
		cli.printf("Demo profile already exists: %s\n", p.ID)
	}
	return nil
}

func (cli *commandLine) suggest(args []string) error {
	fs := cli.newFlagSet("suggest")
	query := fs.String("q", "", "A course code or name, or part of it.")
	limit := fs.Int("limit", 8, "How many courses to list.")
	if err := parse(fs, args); err != nil {
		return err
	}

	entries, err := cli.svc.Suggest(context.Background(), *query, *limit)
	if err != nil {
		return err
	}
	for _, e := range entries {
		cli.printf("%s\t%s\n", e.Code, e.Name)
	}
	return nil
}

func (cli *commandLine) catalog(args []string) error {
	fs := cli.newFlagSet("catalog")
	level := fs.String("level", "", "The level: 100, 200, 300 or 400.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *level == "" {
		return usage(fs)
	}
	l, err := grading.ParseLevel(*level)
	if err != nil {
		return err
	}

	courses := profile.CoreCourses(l)
	if len(courses) == 0 {
		cli.printf("No core courses at %s.\n", l)
		return nil
	}
	for _, c := range courses {
		cli.printf("%s\t%s\t%d credits\n", c.Code, c.Name, c.Credits)
	}
	return nil
}
