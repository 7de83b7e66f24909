package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldAnalysisID ties every entry of one resume analysis together.
	FieldAnalysisID = "analysis_id"
	// FieldReviewProvider and FieldReviewModel identify the backend of the optional AI review.
	FieldReviewProvider = "review_provider"
	FieldReviewModel    = "review_model"
)

// StringField is a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields. Keys and values are trimmed and
// pairs with an empty side are dropped.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key, value := strings.TrimSpace(field.Key), strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}
		result = append(result, zap.String(key, value))
	}
	return result
}

// WithFields attaches fields to logger. A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// AnalysisFields identifies a single analysis run.
func AnalysisFields(id string) []zap.Field {
	return StringFields(StringField{Key: FieldAnalysisID, Value: id})
}

// ReviewFields describes the AI review backend.
func ReviewFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldReviewProvider, Value: provider},
		StringField{Key: FieldReviewModel, Value: model},
	)
}

// ForReview returns a logger for one AI review of an analysis.
func ForReview(logger *zap.Logger, analysisID, provider, model string) *zap.Logger {
	return WithFields(logger, append(AnalysisFields(analysisID), ReviewFields(provider, model)...)...)
}
