package secondary

// Reporter is the user-facing progress channel for long runs.
type Reporter interface {
	Infof(format string, args ...interface{})
	Successf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
