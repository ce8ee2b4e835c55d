package main

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/profile"
)

// output returns the file named path, or cli.out for "" and "-".
func (cli *commandLine) output(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cli.out, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "creating output file")
	}
	return f, f.Close, nil
}

func (cli *commandLine) export(args []string) error {
	fs := cli.newFlagSet("export")
	path := fs.String("o", "", "The file to write to (default: stdout).")
	asCSV := fs.Bool("csv", false, "Write the transcript of one profile (-id) as CSV.")
	id := fs.String("id", "", "The profile ID, with -csv.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *asCSV && *id == "" {
		return usage(fs)
	}

	ctx := context.Background()
	var write func(io.Writer) error
	if *asCSV {
		p, err := cli.svc.GetByID(ctx, *id)
		if err != nil {
			return err
		}
		write = func(w io.Writer) error { return profile.WriteTranscriptCSV(w, p) }
	} else {
		doc, err := cli.svc.Export(ctx)
		if err != nil {
			return err
		}
		write = func(w io.Writer) error { return profile.WriteJSON(w, doc) }
	}

	w, closeFn, err := cli.output(*path)
	if err != nil {
		return err
	}
	if err = write(w); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}

func (cli *commandLine) importFile(args []string) error {
	fs := cli.newFlagSet("import")
	path := fs.String("i", "", "The JSON file written by export.")
	mode := fs.String("mode", string(profile.Merge), "merge keeps the existing profiles; replace deletes them first.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *path == "" {
		return usage(fs)
	}

	f, err := os.Open(*path)
	if err != nil {
		return errors.Wrap(err, "opening import file")
	}
	defer f.Close()

	doc, err := profile.ReadJSON(f)
	if err != nil {
		return err
	}
	if profile.ImportMode(*mode) == profile.Replace && isTerminalFunc() {
		ok, err := cli.confirm("Replace every stored profile?")
		if err != nil {
			return err
		}
		if !ok {
			return errAborted
		}
	}
	n, err := cli.svc.Import(context.Background(), doc, profile.ImportMode(*mode))
	if err != nil {
		return err
	}
	cli.printf("%d profile(s) imported.\n", n)
	return nil
}

func (cli *commandLine) reset(args []string) error {
	fs := cli.newFlagSet("reset")
	confirm := fs.String("confirm", "", "Skip the prompt by passing "+profile.ResetConfirmation+".")
	if err := parse(fs, args); err != nil {
		return err
	}

	answer := *confirm
	if answer == "" {
		if !isTerminalFunc() {
			return usage(fs)
		}
		var err error
		cli.println("This deletes every profile, semester and scenario. It cannot be undone.")
		if answer, err = readLineFunc("Type " + profile.ResetConfirmation + " to confirm: "); err != nil {
			return err
		}
	}
	if err := cli.svc.Reset(context.Background(), answer); err != nil {
		return err
	}
	cli.println("All profiles deleted.")
	return nil
}
