package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across SIMYX.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRunID       = "run_id"
	FieldReplication = "replication"
	FieldSeed        = "seed"

	// Components
	FieldComponent = "component"
	FieldModule    = "module"
	FieldPartition = "partition"
	FieldStream    = "stream"
	FieldReport    = "report"

	// Simulation state
	FieldSimTime    = "sim_time"
	FieldEntity     = "entity"
	FieldPopulation = "population"
	FieldLabel      = "label"
	FieldBuckets    = "buckets"
	FieldPlans      = "plans"

	// Timing
	FieldDurationMS = "duration_ms"
	FieldStartTime  = "start_time"
	FieldEndTime    = "end_time"

	// Errors
	FieldError     = "error"
	FieldErrorType = "error_type"

	// Counts and sizes
	FieldCount      = "count"
	FieldSize       = "size"
	FieldTotalCount = "total_count"
	FieldWorkers    = "workers"

	// Status
	FieldStatus = "status"
	FieldState  = "state"

	// Files and paths
	FieldFile     = "file"
	FieldScenario = "scenario"
	FieldPath     = "path"

	// SIMYX-specific
	FieldSymbol = "symbol" // subsystem glyph (◷, ⊞, ▶, etc.)
)

// Context keys for propagating logging context
type contextKey string

const (
	runIDKey       contextKey = "logger_run_id"
	replicationKey contextKey = "logger_replication"
	componentKey   contextKey = "logger_component"
)

// WithRunID adds a run ID to the context for logging
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithReplication adds a replication index to the context for logging
func WithReplication(ctx context.Context, replication int) context.Context {
	return context.WithValue(ctx, replicationKey, replication)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if runID, ok := ctx.Value(runIDKey).(string); ok && runID != "" {
		fields = append(fields, FieldRunID, runID)
	}
	if replication, ok := ctx.Value(replicationKey).(int); ok {
		fields = append(fields, FieldReplication, replication)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// LoggerFromContext returns a logger with fields extracted from context.
// Use this to get a logger that automatically includes run_id, replication, etc.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Runner struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewRunner() *Runner {
//	    return &Runner{
//	        logger: logger.ComponentLogger("exp.runner"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
// Use for sub-operations that need extra context fields.
//
// Example:
//
//	repLogger := logger.ChildLogger(baseLogger, "replication", rep.Index)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
