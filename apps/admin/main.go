package main

import (
	"log"
	"os"

	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/enrollment"
	"github.com/trezcool/elimu/core/review"
	"github.com/trezcool/elimu/core/user"
	"github.com/trezcool/elimu/storage/database/fixtures"
	inmemdb "github.com/trezcool/elimu/storage/database/inmem"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	db, err := inmemdb.Open()
	errAndDie(err)

	usrSvc := user.NewService(inmemdb.NewUserRepository(db))
	enrRepo := inmemdb.NewEnrollmentRepository(db)
	crsSvc := course.NewService(inmemdb.NewCourseRepository(db), enrRepo)
	enrSvc := enrollment.NewService(enrRepo, crsSvc, usrSvc, nil)
	revSvc := review.NewService(inmemdb.NewReviewRepository(db), enrSvc)

	cli := commandLine{
		usrSvc: usrSvc,
		seed: func() error {
			return fixtures.Load(usrSvc, crsSvc, enrSvc, revSvc)
		},
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
