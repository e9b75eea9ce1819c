// Package main provides maintenance commands for the blog database.
package main

import (
	"fmt"
	"os"

	"unpolished/internal/config"
	"unpolished/internal/database"

	"gorm.io/gorm"
)

func connect() (*gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return database.Connect(cfg)
}

func main() {
	if err := newRootCmd(connect, os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
