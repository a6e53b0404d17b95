package main

import (
	"log"
	"os"

	"github.com/paycollect/paycollect/core"
	"github.com/paycollect/paycollect/core/admin"
	"github.com/paycollect/paycollect/storage/jsondb"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	db, err := jsondb.Open(conf.DataDir)
	errAndDie(err)

	validate, _ := core.NewValidator()

	// start CLI
	cli := commandLine{
		adminSvc: admin.NewService(jsondb.NewAdminRepository(db), validate),
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
