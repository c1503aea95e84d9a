package dashboard

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoggingDiseaseSink accepts submissions locally: it assigns an ID and logs
// the payload without persisting it.
type LoggingDiseaseSink struct {
	logger *zap.Logger
	newID  func() string
}

// NewLoggingDiseaseSink builds a sink writing to logger.
func NewLoggingDiseaseSink(logger *zap.Logger) *LoggingDiseaseSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingDiseaseSink{logger: logger, newID: uuid.NewString}
}

// SubmitDisease logs the disease and returns it with an ID and zeroed counters.
func (s *LoggingDiseaseSink) SubmitDisease(_ context.Context, disease Disease) (Disease, error) {
	if disease.ID == "" {
		disease.ID = s.newID()
	}
	disease.Cases = 0
	disease.SuccessRate = 0
	s.logger.Info("disease submitted",
		zap.String("id", disease.ID),
		zap.String("name", disease.Name),
		zap.String("plant_type", string(disease.PlantType)),
		zap.String("severity", string(disease.Severity)),
		zap.Strings("treatments", disease.Treatments),
		zap.Strings("preventions", disease.Preventions),
	)
	return disease, nil
}
