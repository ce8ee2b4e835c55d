package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	ut "github.com/go-playground/universal-translator"

	"github.com/trezcool/gradebook/apps/shared"
	"github.com/trezcool/gradebook/core"
	logsvc "github.com/trezcool/gradebook/services/logger"
)

func main() {
	conf := core.NewConfig()

	// stdout belongs to the commands; logs go to stderr when asked for
	logOut := io.Discard
	if os.Getenv("GRADEBOOK_VERBOSE") != "" {
		logOut = os.Stderr
	}
	logger := logsvc.NewRollbarLogger(log.New(logOut, "CLI : ", log.LstdFlags|log.Lmicroseconds), conf)

	store, err := shared.OpenStore(context.Background(), conf.Database)
	if err != nil {
		logger.Error("setting up store", err)
		fmt.Fprintf(os.Stderr, "error: setting up store: %v\n", err)
		os.Exit(1)
	}
	svc, translator := shared.NewProfileService(store, logger, conf)

	// start CLI
	cli := commandLine{
		svc: svc,
		db:  store.DB,
		out: os.Stdout,
	}
	err = cli.run(os.Args)
	if cErr := store.Close(); cErr != nil {
		logger.Error("failed to close store", cErr)
	}
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", describe(err, translator))
		}
		os.Exit(1)
	}
}

// describe formats err for the terminal, one line per invalid field.
func describe(err error, translator ut.Translator) string {
	flds, ok := core.FieldErrors(err, translator)
	if !ok {
		return err.Error()
	}
	lines := make([]string, 0, len(flds))
	for _, f := range flds {
		if f.Field == "" {
			lines = append(lines, f.Error)
			continue
		}
		lines = append(lines, f.Field+": "+f.Error)
	}
	return strings.Join(lines, "\n       ")
}
