package plugin

import (
	"github.com/iov-one/smartaccount/errors"
)

// Error codes
// x/plugin reserves 1100 ~ 1109.

var (
	ErrPluginNotFound             = errors.Register(1100, "plugin not found")
	ErrPluginAlreadyInstalled     = errors.Register(1101, "plugin already installed")
	ErrPluginInitializationFailed = errors.Register(1102, "plugin initialization failed")
	ErrPluginOnAuthFailed         = errors.Register(1103, "plugin rejected authorization")
)
