// Package pipeline runs the decision-tree baseline end to end:
// load, encode, train, predict, score and persist.
package pipeline

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/eliekawerk/twde-datalab/pkg/config"
	"github.com/eliekawerk/twde-datalab/pkg/data"
	"github.com/eliekawerk/twde-datalab/pkg/dataprep"
	"github.com/eliekawerk/twde-datalab/pkg/evaluation"
	"github.com/eliekawerk/twde-datalab/pkg/loader"
	"github.com/eliekawerk/twde-datalab/pkg/model"
	"github.com/eliekawerk/twde-datalab/pkg/report"
	"github.com/eliekawerk/twde-datalab/pkg/stats"
)

// Pipeline chains the stages for one run.
type Pipeline struct {
	cfg    *config.Config
	logger *zap.Logger
}

// Result is what a run produced.
type Result struct {
	RunID       string
	Score       float64
	Predictions []float64
	Actuals     []float64
	Columns     []string
	Model       *model.DecisionTreeRegressor
	Encodings   dataprep.Encodings

	// diagnostics on the validation split
	RMSE float64
	MAE  float64
	R2   float64
}

func New(cfg *config.Config, logger *zap.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, logger: logger}
}

// Run executes every stage in order. The first failure aborts the run.
func (p *Pipeline) Run() (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	log := p.logger.With(zap.String("run_id", res.RunID))

	log.Info("Loading data",
		zap.String("train", p.cfg.TrainPath),
		zap.String("validation", p.cfg.ValidationPath))
	train, validate, err := loader.LoadDatasets(p.cfg.TrainPath, p.cfg.ValidationPath)
	if err != nil {
		return nil, errors.Wrap(err, "load data")
	}
	log.Info("Loaded data", zap.Int("train_rows", train.Len()), zap.Int("validation_rows", validate.Len()))

	schema, err := p.schema(train, validate)
	if err != nil {
		return nil, err
	}
	log.Info("Encoding categorical variables", zap.Strings("categorical", schema.Categorical))
	encoded, err := dataprep.Encode(train, validate, schema)
	if err != nil {
		return nil, errors.Wrap(err, "encode")
	}
	res.Encodings = encoded.Encodings
	for name, enc := range encoded.Encodings {
		log.Debug("Encoded column", zap.String("column", name), zap.Int("classes", len(enc.Classes())))
	}

	target, err := encoded.Train.Col(dataprep.ColTarget)
	if err != nil {
		return nil, errors.Wrap(err, "train")
	}
	summary := stats.Describe(target)
	spread := stats.Outliers(target)
	log.Info("Creating decision tree model",
		zap.Int("samples", summary.Count),
		zap.Float64("target_mean", summary.Mean),
		zap.Float64("target_std", summary.Std),
		zap.Float64("target_median", spread.Median),
		zap.Float64("target_max", summary.Max),
		zap.Int("target_outliers", spread.Low+spread.High))
	m, err := model.Train(encoded.Train, dataprep.ColTarget, model.WithMaxDepth(p.cfg.MaxDepth))
	if err != nil {
		return nil, errors.Wrap(err, "fit decision tree")
	}
	res.Model = m
	res.Columns = m.FeatureNames
	log.Info("Fitted decision tree", zap.Int("depth", m.Depth()), zap.Int("leaves", m.NLeaves()))

	log.Info("Making prediction on validation data")
	raw, err := Predict(m, encoded.Validate)
	if err != nil {
		return nil, errors.Wrap(err, "predict")
	}
	preds, err := OverwriteUnseen(raw, train, encoded.Validate)
	if err != nil {
		return nil, errors.Wrap(err, "overwrite unseen")
	}
	log.Info("Zeroed predictions for unseen item/store pairs", zap.Int("rows", countOverridden(raw, preds)))
	res.Predictions = preds

	log.Info("Calculating estimated error")
	actuals, err := encoded.Validate.Col(dataprep.ColTarget)
	if err != nil {
		return nil, errors.Wrap(err, "validation")
	}
	perishable, err := encoded.Validate.Col(dataprep.ColPerishable)
	if err != nil {
		return nil, errors.Wrap(err, "validation")
	}
	res.Actuals = actuals
	res.Score, err = evaluation.NWRMSLE(preds, actuals, perishable)
	if err != nil {
		return nil, errors.Wrap(err, "score")
	}
	res.RMSE = model.RMSE(actuals, preds)
	res.MAE = model.MAE(actuals, preds)
	res.R2 = model.R2(actuals, preds)
	log.Info("Validation diagnostics",
		zap.Float64("nwrmsle", res.Score),
		zap.Float64("rmse", res.RMSE),
		zap.Float64("mae", res.MAE),
		zap.Float64("r2", res.R2))

	if err := p.persist(log, res); err != nil {
		return nil, err
	}
	log.Info("Done deciding with trees")
	return res, nil
}

func (p *Pipeline) schema(train, validate *data.Table) (dataprep.Schema, error) {
	if !p.cfg.InferCategorical {
		return dataprep.Schema{Categorical: p.cfg.CategoricalColumns}, nil
	}
	joined, err := train.Concat(validate)
	if err != nil {
		return dataprep.Schema{}, errors.Wrap(err, "infer schema")
	}
	return dataprep.InferSchema(joined), nil
}

func (p *Pipeline) persist(log *zap.Logger, res *Result) error {
	path := p.cfg.ModelPath()
	log.Info("Writing model", zap.String("path", path))
	if err := report.WriteModel(path, res.Model); err != nil {
		return err
	}

	path = p.cfg.ScorePath()
	log.Info("Writing score", zap.String("path", path))
	if err := report.WriteScore(path, res.Score, res.Columns); err != nil {
		return err
	}

	if p.cfg.Plot {
		path = p.cfg.PlotPath()
		log.Info("Writing prediction plot", zap.String("path", path))
		// the plot is a convenience; the run stands without it
		if err := report.WritePredictionPlot(path, res.Predictions, res.Actuals); err != nil {
			log.Warn("Skipping prediction plot", zap.Error(err))
		}
	}
	return nil
}

func countOverridden(raw, final []float64) int {
	n := 0
	for i := range raw {
		if raw[i] != final[i] {
			n++
		}
	}
	return n
}
