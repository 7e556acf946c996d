package database

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/oguzk/propmatch/pkg/config"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

// Init initializes the SQLite database connection
func Init() error {
	var err error

	path := config.AppConfig.Database.Path

	// Open SQLite database (creates if doesn't exist)
	DB, err = sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return err
	}

	// A single synchronous worker owns all writes; the pool stays small
	DB.SetMaxOpenConns(5)
	DB.SetMaxIdleConns(2)
	DB.SetConnMaxLifetime(time.Hour)

	// Test the connection
	if err = DB.Ping(); err != nil {
		return err
	}

	if err = optimizeDatabase(); err != nil {
		return err
	}

	log.Println("Database connected successfully with WAL mode")

	// Run SQL scripts
	if err = RunSQLScripts(); err != nil {
		return err
	}

	return nil
}

// optimizeDatabase configures SQLite pragmas
func optimizeDatabase() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=30000",
	}

	for _, pragma := range pragmas {
		if _, err := DB.Exec(pragma); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// RunSQLScripts reads and executes SQL scripts from the migrations directory
func RunSQLScripts() error {
	sqlDir := "migrations"
	files, err := os.ReadDir(sqlDir)
	if err != nil {
		return err
	}

	for _, file := range files {
		if filepath.Ext(file.Name()) == ".sql" {
			sqlPath := filepath.Join(sqlDir, file.Name())
			sqlContent, err := os.ReadFile(sqlPath)
			if err != nil {
				return err
			}

			// Execute the SQL script
			if _, err = DB.Exec(string(sqlContent)); err != nil {
				return err
			}

			log.Printf("Executed SQL script: %s", file.Name())
		}
	}

	return nil
}
