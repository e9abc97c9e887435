package persistence

import (
	"database/sql"
	"errors"
	"os"
	"strings"
)

type DatabaseConfig struct {
	DriverType string
	DriverArgs string
}

// ParseDatabaseConfigFromEnv reads DATABASE_DRIVER (default "mysql") and
// DATABASE_URL, e.g. "root:root@(127.0.0.1:3306)/wagondepot?charset=utf8mb4&parseTime=True&loc=Local"
func ParseDatabaseConfigFromEnv() (*DatabaseConfig, error) {
	driver := os.Getenv("DATABASE_DRIVER")
	if driver == "" {
		driver = "mysql"
	}
	args := os.ExpandEnv(os.Getenv("DATABASE_URL"))
	if args == "" {
		return nil, errors.New("environment variable DATABASE_URL is not set")
	}
	return &DatabaseConfig{DriverType: driver, DriverArgs: args}, nil
}

// PrepareMysqlDatabase creates the database named in the driver args when it
// does not exist yet, connecting with the database name stripped out.
func PrepareMysqlDatabase(driverArgs string) error {
	idx := strings.Index(driverArgs, "/")
	if idx < 0 {
		return errors.New("invalid mysql driver args: " + driverArgs)
	}
	end := strings.Index(driverArgs[idx:], "?")
	var databaseName string
	if end < 0 {
		databaseName = driverArgs[idx+1:]
	} else {
		databaseName = driverArgs[idx+1 : idx+end]
	}
	if databaseName == "" {
		return errors.New("database name not found in driver args")
	}

	db, err := sql.Open("mysql", driverArgs[:idx+1])
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec("CREATE DATABASE IF NOT EXISTS " + databaseName + " CHARACTER SET utf8mb4")
	return err
}
