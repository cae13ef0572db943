package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/eliekawerk/twde-datalab/pkg/config"
	"github.com/eliekawerk/twde-datalab/pkg/logging"
	"github.com/eliekawerk/twde-datalab/pkg/pipeline"
)

//
// ---------------------- ENVIRONMENT (all optional) ----------------------
//
// TRAIN_PATH          : train split. Default = splitter/train.csv
// VALIDATION_PATH     : validation split. Default = splitter/validation.csv
// OUTPUT_DIR          : model, score and plot directory. Default = decision_tree
// CATEGORICAL_COLUMNS : comma-separated columns to label encode, or "auto"
// MAX_DEPTH           : tree depth limit. Default = 0 (grow fully)
// PLOT                : write predictions.png. Default = true
// LOG_LEVEL           : debug, info, warn, error. Default = info
// LOG_FORMAT          : console or json. Default = console
//
// A .env file in the working directory is read first.
//
// Example:
//   go run ./cmd/decision_tree
//
// ------------------------------------------------------------------------
//

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync()

	res, err := pipeline.New(cfg, logger).Run()
	if err != nil {
		logger.Fatal("Decision tree pipeline failed", zap.Error(err))
	}

	logger.Info("Decision tree analysis done",
		zap.String("run_id", res.RunID),
		zap.Float64("validation_score", res.Score))
}
