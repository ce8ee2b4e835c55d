package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/gradebook/core/profile"
)

var (
	isTerminalFunc = func() bool { return term.IsTerminal(int(syscall.Stdin)) } // mockable
	readLineFunc   = readLine                                                     // mockable

	errHelp    = errors.New("help provided")
	errAborted = errors.New("aborted")
)

type commandLine struct {
	svc *profile.Service
	db  *sqlx.DB // nil on the memory engine
	out io.Writer
}

func (cli *commandLine) printUsage() {
	cli.println("Usage: gradebook COMMAND [flags]")
	cli.println()
	cli.println("Profiles:")
	cli.println("  profiles                                   - list profiles")
	cli.println("  addprofile -name NAME -number N -programme P - create a profile")
	cli.println("  delprofile -id ID                          - delete a profile and its semesters")
	cli.println("  show -id ID [-na LEVELS]                   - dashboard: CGPA, FGPA, insights, retakes")
	cli.println("  semester -id ID -level L -semester S -course CODE:CREDITS:GRADE[:NAME]... [-force]")
	cli.println("                                             - save a semester (-force overwrites)")
	cli.println("  delsemester -id ID -level L -semester S    - delete a semester")
	cli.println()
	cli.println("Calculators:")
	cli.println("  cgpa -id ID                                - cumulative GPA and classification")
	cli.println("  fgpa -id ID [-na LEVELS] | -l100 G -l200 G -l300 G -l400 G")
	cli.println("                                             - final GPA from a profile or typed-in level GPAs")
	cli.println("  predict [-id ID | -cgpa X -credits N] -gpa X -next N")
	cli.println("                                             - CGPA after one more semester")
	cli.println("  target [-id ID | -cgpa X -credits N] -target X -remaining N")
	cli.println("                                             - GPA needed to reach a target CGPA")
	cli.println("  retake -id ID [-grade G] [-na LEVELS]      - failed courses and the FGPA gain of retaking them")
	cli.println()
	cli.println("Scenarios:")
	cli.println("  pin -id ID -name NAME -cgpa X -credits N -gpa X -next N - keep a prediction")
	cli.println("  scenarios -id ID                           - list kept predictions")
	cli.println("  unpin -id ID -scenario SID                 - forget a prediction")
	cli.println()
	cli.println("Data:")
	cli.println("  export [-o FILE] [-csv -id ID]             - dump all profiles (JSON) or a transcript (CSV)")
	cli.println("  import -i FILE [-mode merge|replace]       - load profiles from a JSON dump")
	cli.println("  reset                                      - delete everything (asks for confirmation)")
	cli.println("  demo                                       - create the demo profile")
	cli.println("  suggest -q QUERY [-limit N]                - courses entered before")
	cli.println("  catalog -level L                           - UG core courses of a level")
	cli.println("  migrate COMMAND [args]                     - run database migrations (goose commands)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "profiles":
		return cli.listProfiles()
	case "addprofile":
		return cli.addProfile(args[2:])
	case "delprofile":
		return cli.deleteProfile(args[2:])
	case "show":
		return cli.show(args[2:])
	case "semester":
		return cli.saveSemester(args[2:])
	case "delsemester":
		return cli.deleteSemester(args[2:])
	case "cgpa":
		return cli.cgpa(args[2:])
	case "fgpa":
		return cli.fgpa(args[2:])
	case "predict":
		return cli.predict(args[2:])
	case "target":
		return cli.target(args[2:])
	case "retake":
		return cli.retake(args[2:])
	case "pin":
		return cli.pin(args[2:])
	case "scenarios":
		return cli.scenarios(args[2:])
	case "unpin":
		return cli.unpin(args[2:])
	case "export":
		return cli.export(args[2:])
	case "import":
		return cli.importFile(args[2:])
	case "reset":
		return cli.reset(args[2:])
	case "demo":
		return cli.demo()
	case "suggest":
		return cli.suggest(args[2:])
	case "catalog":
		return cli.catalog(args[2:])
	case "migrate":
		if len(args) < 3 {
			cli.println("Usage: gradebook migrate up|up-by-one|up-to V|down|down-to V|redo|reset|status|version|create NAME [sql|go]|fix")
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// parse parses args into fs. -h is errHelp.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

// usage prints the flags of fs and returns errHelp.
func usage(fs *flag.FlagSet) error {
	fs.Usage()
	return errHelp
}

// confirm asks a yes/no question on a terminal. It is false when stdin is not a terminal.
func (cli *commandLine) confirm(question string) (bool, error) {
	if !isTerminalFunc() {
		return false, nil
	}
	answer, err := readLineFunc(question + " [y/N]: ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (cli *commandLine) printf(format string, a ...interface{}) {
	fmt.Fprintf(cli.out, format, a...)
}

func (cli *commandLine) println(a ...interface{}) {
	fmt.Fprintln(cli.out, a...)
}
