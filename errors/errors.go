// Package errors provides error handling for SIMYX.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Assertion errors for internal invariants
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := loadScenario(path); err != nil {
//	    return errors.Wrap(err, "failed to load scenario")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrInvalidPlanTime) {
//	    // handle rejected plan
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is     = crdb.Is
	IsAny  = crdb.IsAny
	As     = crdb.As
	Unwrap = crdb.Unwrap

	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions and panics
var (
	AssertionFailedf                 = crdb.AssertionFailedf
	NewAssertionErrorWithWrappedErrf = crdb.NewAssertionErrorWithWrappedErrf
	HasAssertionFailure              = crdb.HasAssertionFailure
)

// Sentinel errors for the simulation core. The taxonomy:
//
//   - Scheduling errors are returned to the caller and are recoverable:
//     the offending plan is simply not enqueued.
//   - Configuration errors are programmer errors (wrong registration or
//     lookup); the core panics with one of these so the run dies with a
//     diagnostic naming the offending module or partition.
//   - Index-corruption conditions use AssertionFailedf directly; they
//     indicate a bug in the engine itself and should be unreachable.
//
// Use errors.Is() for type-safe checking; wrap with errors.Wrap() or
// errors.WithDetail() to add context while preserving the type.
var (
	// ErrInvalidPlanTime indicates a plan was scheduled in the past or at a
	// non-finite time.
	ErrInvalidPlanTime = New("invalid plan time")

	// ErrModuleConflict indicates two modules registered under one name.
	ErrModuleConflict = New("module name already registered")

	// ErrPartitionRegistered indicates a partition was registered twice
	// without an intervening deregistration.
	ErrPartitionRegistered = New("partition already registered")

	// ErrPartitionNotRegistered indicates a deregistration or hook removal
	// for a partition that was never registered on this kernel.
	ErrPartitionNotRegistered = New("partition not registered")

	// ErrNoReportHandler indicates a report item was released with no
	// handler installed for its report type.
	ErrNoReportHandler = New("no report handler installed")

	// ErrUnknownGroup indicates an operation against a group id that was
	// never created.
	ErrUnknownGroup = New("unknown group")

	// ErrUnknownRegion indicates an operation against a region id that was
	// never created.
	ErrUnknownRegion = New("unknown region")
)

// IsSchedulingError checks if an error is or wraps ErrInvalidPlanTime.
func IsSchedulingError(err error) bool {
	return err != nil && Is(err, ErrInvalidPlanTime)
}

// IsConfigurationError reports whether an error belongs to the fatal
// misconfiguration class (bad registration or lookup by the caller).
func IsConfigurationError(err error) bool {
	return err != nil && IsAny(err,
		ErrModuleConflict,
		ErrPartitionRegistered,
		ErrPartitionNotRegistered,
		ErrNoReportHandler,
		ErrUnknownGroup,
		ErrUnknownRegion,
	)
}

// IsInvariantViolation reports whether an error carries an assertion
// failure, i.e. internal index corruption rather than caller misuse.
func IsInvariantViolation(err error) bool {
	return err != nil && HasAssertionFailure(err)
}

// NewInvalidPlanTime creates a scheduling rejection with a formatted message.
func NewInvalidPlanTime(format string, args ...interface{}) error {
	return Wrapf(ErrInvalidPlanTime, format, args...)
}
