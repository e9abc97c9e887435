package persistence

import (
	"context"
	"log"
	"os"

	"github.com/jinzhu/gorm"
	otgorm "github.com/smacker/opentracing-gorm"
)

var ActiveDataSourceManager *DataSourceManager

type DataSourceManager struct {
	gormDB *gorm.DB

	DatabaseConfig *DatabaseConfig
}

func (m *DataSourceManager) Start() error {
	db, err := connect(m.DatabaseConfig)
	if err != nil {
		return err
	}
	m.gormDB = db
	otgorm.AddGormCallbacks(m.gormDB)
	if os.Getenv("GIN_MODE") != "release" {
		m.gormDB.LogMode(true)
	}
	return nil
}

func (m *DataSourceManager) Stop() {
	if m.gormDB != nil {
		if err := m.gormDB.Close(); err != nil {
			log.Printf("failed to close DB: %v", err)
		}
		m.gormDB = nil
	}
}

// GormDB returns a fresh session. A request context may be passed in to
// propagate the active tracing span into gorm callbacks.
func (m *DataSourceManager) GormDB(ctx ...context.Context) *gorm.DB {
	if m.gormDB == nil {
		return nil
	}
	db := m.gormDB.New()
	if len(ctx) > 0 && ctx[0] != nil {
		db = otgorm.SetSpanToGorm(ctx[0], db)
	}
	return db
}

func connect(config *DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(config.DriverType, config.DriverArgs)
	if err != nil {
		return nil, err
	}
	err = db.DB().Ping()
	if err != nil {
		return nil, err
	}
	return db, nil
}
