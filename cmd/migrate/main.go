// Command migrate inspects and changes the database schema.
package main

import (
	"fmt"
	"os"

	"unpolished/internal/config"
	"unpolished/internal/database"

	"gorm.io/gorm"
)

func connect() (*gorm.DB, *config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return db, cfg, nil
}

func main() {
	err := newRootCmd(connect, os.Stdout).Execute()
	_ = database.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
