package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/Shriyanshsoni96/ERP/core"
	"github.com/Shriyanshsoni96/ERP/storage/database"
	pgdb "github.com/Shriyanshsoni96/ERP/storage/database/postgres"
)

var build = "dev" // set via ldflags at build time

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig(build)

	// set up DB
	sqlDB, err := database.Open(conf)
	errAndDie(err)
	defer func() { _ = sqlDB.Close() }()
	errAndDie(database.Ping(sqlDB))
	db := sqlx.NewDb(sqlDB, conf.Database.Engine)

	// start CLI
	cli := commandLine{
		db:      sqlDB,
		usrRepo: pgdb.NewUserRepository(db),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
