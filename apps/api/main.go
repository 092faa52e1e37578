package main

import (
	"fmt"
	"log"
	"os"

	echoapi "github.com/trezcool/elimu/apps/api/echo"
	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/analytics"
	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/enrollment"
	"github.com/trezcool/elimu/core/message"
	"github.com/trezcool/elimu/core/payment"
	"github.com/trezcool/elimu/core/review"
	"github.com/trezcool/elimu/core/settings"
	"github.com/trezcool/elimu/core/user"
	emailsvc "github.com/trezcool/elimu/services/email"
	logsvc "github.com/trezcool/elimu/services/logger"
	"github.com/trezcool/elimu/storage/database/fixtures"
	inmemdb "github.com/trezcool/elimu/storage/database/inmem"
)

func main() {
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		core.Conf,
	)
	logger.Enable(!core.Conf.Debug)

	db, err := inmemdb.Open()
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	// repositories
	usrRepo := inmemdb.NewUserRepository(db)
	crsRepo := inmemdb.NewCourseRepository(db)
	enrRepo := inmemdb.NewEnrollmentRepository(db)
	pmtRepo := inmemdb.NewPaymentRepository(db)
	revRepo := inmemdb.NewReviewRepository(db)
	msgRepo := inmemdb.NewMessageRepository(db)
	setRepo := inmemdb.NewSettingsRepository(db)

	// services
	usrSvc := user.NewService(usrRepo)
	crsSvc := course.NewService(crsRepo, enrRepo)
	enrSvc := enrollment.NewService(enrRepo, crsSvc, usrSvc, mailSvc)
	pmtSvc := payment.NewService(pmtRepo, usrSvc, mailSvc)
	revSvc := review.NewService(revRepo, enrSvc)
	msgSvc := message.NewService(msgRepo, usrSvc)
	setSvc := settings.NewService(setRepo)
	anlSvc := analytics.NewService(usrSvc, crsSvc, enrSvc, pmtSvc, revSvc)

	if core.Conf.Debug {
		if err := fixtures.Load(usrSvc, crsSvc, enrSvc, revSvc); err != nil {
			logger.Fatal(fmt.Sprintf("loading fixtures: %v", err), err)
		}
	}

	app := echoapi.NewServer(
		&echoapi.Options{
			Address:      fmt.Sprintf("%s:%d", core.Conf.Server.Host, core.Conf.Server.Port),
			Logger:       logger,
			UserSvc:      usrSvc,
			CourseSvc:    crsSvc,
			EnrollSvc:    enrSvc,
			PaymentSvc:   pmtSvc,
			ReviewSvc:    revSvc,
			MessageSvc:   msgSvc,
			AnalyticsSvc: anlSvc,
			SettingsSvc:  setSvc,
		},
	)
	app.Start()
}
