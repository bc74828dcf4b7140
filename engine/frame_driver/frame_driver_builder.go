package frame_driver

import "go.uber.org/zap"

// DriverBuilderOption is a functional option used to configure a Driver during construction.
type DriverBuilderOption func(*driver)

// WithLogger sets the logger used to report frame chain start and stop events.
//
// Parameters:
//   - logger: the zap logger to use; nil keeps the no-op default
//
// Returns:
//   - DriverBuilderOption: a function that sets the driver's logger
func WithLogger(logger *zap.Logger) DriverBuilderOption {
	return func(d *driver) {
		if logger != nil {
			d.logger = logger.Named("frame_driver")
		}
	}
}
