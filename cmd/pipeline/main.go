package main

import (
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/hoopsight/prospects/internal/services"
	"github.com/hoopsight/prospects/pkg/config"
	"github.com/hoopsight/prospects/pkg/database"
)

// One-shot batch runner: builds the reconciled dataset from the configured
// source files and writes it out, without serving anything.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: pipeline [build|export]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	var db *database.DB
	if cfg.DatabaseURL != "" {
		db, err = database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
		if err != nil {
			logrus.Warnf("Running without persistence, database unavailable: %v", err)
			db = nil
		} else {
			defer db.Close()
		}
	}

	dataset := services.NewDatasetService(db, nil, logrus.StandardLogger(), cfg)

	command := os.Args[1]

	switch command {
	case "build":
		ds, err := dataset.Build()
		if err != nil {
			logrus.Fatalf("Dataset build failed: %v", err)
		}
		if err := writeOutput(dataset, cfg.OutputFile); err != nil {
			logrus.Fatalf("Failed to write %s: %v", cfg.OutputFile, err)
		}
		logrus.Infof("Build %s: %d players written to %s", ds.BuildID, ds.Table.Len(), cfg.OutputFile)

	case "export":
		// build without persisting, then write the delimited file only
		dataset = services.NewDatasetService(nil, nil, logrus.StandardLogger(), cfg)
		ds, err := dataset.Build()
		if err != nil {
			logrus.Fatalf("Dataset build failed: %v", err)
		}
		if err := writeOutput(dataset, cfg.OutputFile); err != nil {
			logrus.Fatalf("Failed to write %s: %v", cfg.OutputFile, err)
		}
		logrus.Infof("Exported %d players to %s", ds.Table.Len(), cfg.OutputFile)

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func writeOutput(dataset *services.DatasetService, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return dataset.Export(f)
}
