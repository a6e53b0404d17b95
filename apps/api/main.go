package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	echoapi "github.com/paycollect/paycollect/apps/api/echo"
	"github.com/paycollect/paycollect/core"
	"github.com/paycollect/paycollect/core/admin"
	"github.com/paycollect/paycollect/core/payment"
	"github.com/paycollect/paycollect/core/report"
	"github.com/paycollect/paycollect/core/screenshot"
	"github.com/paycollect/paycollect/core/student"
	emailsvc "github.com/paycollect/paycollect/services/email"
	logsvc "github.com/paycollect/paycollect/services/logger"
	"github.com/paycollect/paycollect/storage/fsstore"
	"github.com/paycollect/paycollect/storage/jsondb"
)

const shutdownTimeout = 20 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	var logger core.Logger
	stdLog := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	if conf.Debug {
		logger = logsvc.NewStdLogger(stdLog)
	} else {
		rollbarLogger := logsvc.NewRollbarLogger(stdLog, conf)
		rollbarLogger.Enable(true)
		logger = rollbarLogger
	}

	db, err := jsondb.Open(conf.DataDir)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening record store: %v", err), err)
	}
	assets, err := fsstore.New(conf.UploadsDir)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening screenshot store: %v", err), err)
	}

	validate, translator := core.NewValidator()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf.AppName)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	adminSvc := admin.NewService(jsondb.NewAdminRepository(db), validate)
	shots := screenshot.NewManager(assets, adminSvc)
	studentRepo := jsondb.NewStudentRepository(db)
	paymentRepo := jsondb.NewPaymentRepository(db)
	studentSvc := student.NewService(studentRepo, paymentRepo, shots, validate)
	paymentSvc := payment.NewService(paymentRepo, studentSvc, validate)
	reportSvc := report.NewService(studentRepo, paymentRepo, jsondb.NewAdminRepository(db), assets)

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			AdminSvc:   adminSvc,
			StudentSvc: studentSvc,
			PaymentSvc: paymentSvc,
			Shots:      shots,
			ReportSvc:  reportSvc,
			EmailSvc:   mailSvc,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
