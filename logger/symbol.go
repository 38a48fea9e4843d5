package logger

import (
	"github.com/teranos/SIMYX/sym"
	"go.uber.org/zap"
)

// Symbol-aware logging helpers.
// These functions log with the symbol as a structured field, not in the message.
//
// Usage:
//
//	// Instead of:
//	logger.Infow(sym.Run + " Replication started", "replication", idx)
//
//	// Use:
//	logger.RunInfow("Replication started", "replication", idx)
//
// This makes logs queryable by symbol and keeps messages clean.

// RunInfow logs an info message with the Run symbol (▶)
func RunInfow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.Run}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}

// RunDebugw logs a debug message with the Run symbol (▶)
func RunDebugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.Run}, keysAndValues...)
		Logger.Debugw(msg, fields...)
	}
}

// RunErrorw logs an error message with the Run symbol (▶)
func RunErrorw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.Run}, keysAndValues...)
		Logger.Errorw(msg, fields...)
	}
}

// PartInfow logs an info message with the Part symbol (⊞)
// Used for partition registration and rebuild operations
func PartInfow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.Part}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}

// PartDebugw logs a debug message with the Part symbol (⊞)
func PartDebugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.Part}, keysAndValues...)
		Logger.Debugw(msg, fields...)
	}
}

// ReportInfow logs an info message with the Report symbol (▤)
func ReportInfow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.Report}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}

// DBInfow logs an info message with the DB symbol (⊔)
// Used for database/storage operations
func DBInfow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.DB}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}

// DBDebugw logs a debug message with the DB symbol (⊔)
func DBDebugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.DB}, keysAndValues...)
		Logger.Debugw(msg, fields...)
	}
}

// WithSymbol returns a logger with the given symbol as a field.
// For ad-hoc symbol usage not covered by the helpers above.
//
// Example:
//
//	clockLogger := logger.WithSymbol(sym.Clock)
//	clockLogger.Debugw("Plan fired", "sim_time", t)
func WithSymbol(symbol string) *zap.SugaredLogger {
	return Logger.With(FieldSymbol, symbol)
}

// Instance logger wrappers.
// These wrap any logger with a symbol field, useful when you have an
// instance logger (e.g., r.logger) rather than the global Logger.

// AddRunSymbol wraps a logger with the Run symbol (▶)
func AddRunSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return l.With(FieldSymbol, sym.Run)
}

// AddRunEndSymbol wraps a logger with the RunEnd symbol (■)
func AddRunEndSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return l.With(FieldSymbol, sym.RunEnd)
}

// AddPartSymbol wraps a logger with the Part symbol (⊞)
func AddPartSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return l.With(FieldSymbol, sym.Part)
}

// AddDBSymbol wraps a logger with the DB symbol (⊔)
func AddDBSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return l.With(FieldSymbol, sym.DB)
}
