package platform

import (
	"msd/internal/providers"
)

// local logger mock; testutil depends on this package.
type nopLogger struct{}

func (nopLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {}
func (nopLogger) Warnf(t providers.TypeEnum, format string, args ...interface{})  {}
func (nopLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {}
func (nopLogger) Infof(t providers.TypeEnum, format string, args ...interface{})  {}
func (nopLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {}
func (nopLogger) Close()                                                          {}
