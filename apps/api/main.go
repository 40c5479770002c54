package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/Shriyanshsoni96/ERP/apps/api/echo"
	"github.com/Shriyanshsoni96/ERP/core"
	"github.com/Shriyanshsoni96/ERP/core/activity"
	"github.com/Shriyanshsoni96/ERP/core/attendance"
	"github.com/Shriyanshsoni96/ERP/core/checkin"
	"github.com/Shriyanshsoni96/ERP/core/medical"
	"github.com/Shriyanshsoni96/ERP/core/performance"
	"github.com/Shriyanshsoni96/ERP/core/report"
	"github.com/Shriyanshsoni96/ERP/core/user"
	emailsvc "github.com/Shriyanshsoni96/ERP/services/email"
	logsvc "github.com/Shriyanshsoni96/ERP/services/logger"
	queuesvc "github.com/Shriyanshsoni96/ERP/services/queue"
	summarysvc "github.com/Shriyanshsoni96/ERP/services/summary"
	"github.com/Shriyanshsoni96/ERP/storage/database"
	pgdb "github.com/Shriyanshsoni96/ERP/storage/database/postgres"
)

var build = "dev" // set via ldflags at build time

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig(build)

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	sqlDB, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer func() { _ = sqlDB.Close() }()
	if err = database.Ping(sqlDB); err != nil {
		logger.Fatal(fmt.Sprintf("pinging database: %v", err), err)
	}
	db := sqlx.NewDb(sqlDB, conf.Database.Engine)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	var summarizer core.Summarizer
	if conf.GeminiAPIKey != "" {
		if summarizer, err = summarysvc.NewGeminiService(context.Background(), conf, logger); err != nil {
			logger.Fatal(fmt.Sprintf("setting up summarizer: %v", err), err)
		}
	} else {
		logger.Warn("no Gemini API key configured; summaries will use fallbacks")
		summarizer = summarysvc.NewDummyService()
	}

	var queue core.Queue
	if conf.Redis.Addr != "" {
		rq := queuesvc.NewRedis(conf.Redis.Addr, conf.Redis.QueueKey)
		defer func() { _ = rq.Close() }()
		queue = rq
	} else {
		queue = queuesvc.NewInMemory()
	}

	usrSvc := user.NewService(pgdb.NewUserRepository(db), mailSvc, conf)
	attSvc := attendance.NewService(pgdb.NewAttendanceRepository(db), usrSvc)
	perfSvc := performance.NewService(pgdb.NewPerformanceRepository(db))
	medSvc := medical.NewService(pgdb.NewMedicalRepository(db))
	checkinSvc := checkin.NewService(pgdb.NewCheckinRepository(db))
	reportSvc := report.NewService(usrSvc, perfSvc, medSvc)
	recorder := activity.NewRecorder(pgdb.NewActivityRepository(db), queue, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	recorderCtx, stopRecorder := context.WithCancel(context.Background())
	defer stopRecorder()
	go func() {
		if err := recorder.Run(recorderCtx); err != nil {
			logger.Error(fmt.Sprintf("activity recorder stopped: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(&echoapi.Options{
		Conf:           conf,
		Logger:         logger,
		UserSvc:        usrSvc,
		AttendanceSvc:  attSvc,
		PerformanceSvc: perfSvc,
		MedicalSvc:     medSvc,
		ReportSvc:      reportSvc,
		CheckinSvc:     checkinSvc,
		Summarizer:     summarizer,
		Matcher:        user.StubFaceMatcher{},
		Activity:       recorder,
		Shutdown:       func() { shutdown <- syscall.SIGTERM },
	})

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API listening on " + conf.ServerAddress())
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-serverErrors:
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
		stopRecorder()

		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Stop(ctx); err != nil {
			logger.Error(fmt.Sprintf("graceful shutdown failed: %v", err), err)
		}
	}
}
