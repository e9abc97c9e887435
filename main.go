package main

import (
	"log"
	"net/http"
	"wagondepot/account"
	"wagondepot/attachment"
	"wagondepot/bizerror"
	"wagondepot/common"
	"wagondepot/domain/costsheet"
	"wagondepot/domain/wagon"
	"wagondepot/event"
	"wagondepot/infra/tracing"
	"wagondepot/notify"
	"wagondepot/persistence"
	"wagondepot/servehttp"
	"wagondepot/session"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("service start")

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		log.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		log.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB().AutoMigrate(
		&account.User{},
		&wagon.WagonRecord{},
		&costsheet.CostSheet{},
		&attachment.FileRecord{},
		&event.EventRecord{},
	).Error
	if err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}

	if closer := tracing.Bootstrap(common.GetServiceName()); closer != nil {
		defer closer.Close()
	}

	attachment.Bootstrap()
	notify.Bootstrap()
	wagon.WagonDeleteCleanupFuncs = append(wagon.WagonDeleteCleanupFuncs, attachment.CleanWagonAttachments)

	engine := gin.Default()
	engine.Use(bizerror.ErrorHandling(), tracing.TracingIngress())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "wagondepot")
	})

	account.RegisterSessionsRestAPI(engine)
	account.RegisterUsersRestAPI(engine, session.SimpleAuthFilter())
	wagon.RegisterWagonRecordsRestAPI(engine, session.SimpleAuthFilter())
	costsheet.RegisterCostSheetsRestAPI(engine, session.SimpleAuthFilter())
	attachment.RegisterAttachmentsRestAPI(engine, session.SimpleAuthFilter())

	servehttp.StartHTTPServer(engine)
}
