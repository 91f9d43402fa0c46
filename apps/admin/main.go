package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/lms/core"
)

func main() {
	var code int
	c := newContainer()

	err := c.Invoke(func(conf *core.Config, logger core.Logger, db *sqlx.DB, cli *commandLine) {
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close DB", err)
			}
		}()

		logger.Debug(fmt.Sprintf("admin: version %q, env %s", conf.Build, conf.Env))
		if err := db.Ping(); err != nil {
			logger.Error(fmt.Sprintf("pinging database: %v", err), err)
			code = 1
			return
		}

		// start CLI
		if err := cli.run(os.Args); err != nil {
			if err != errHelp {
				cli.out.failure(err, cli.translator)
			}
			code = 1
		}
	})
	if err != nil {
		log.Fatal(errors.Wrap(err, "starting admin CLI").Error())
	}
	os.Exit(code)
}
