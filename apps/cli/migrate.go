package main

import (
	"github.com/pkg/errors"
	"github.com/trezcool/goose"

	appfs "github.com/trezcool/gradebook/fs"
	"github.com/trezcool/gradebook/storage/database"
)

var (
	gooseRunFunc = goose.RunFS // mockable

	errNoMigrations = errors.New("the memory engine has nothing to migrate")
)

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoMigrations
	}
	if err := goose.SetDialect(cli.db.DriverName()); err != nil {
		return errors.Wrap(err, "setting migration dialect")
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], cli.db.DB, appfs.FS, database.MigrationsDir, arguments...)
}
