package modhost

import (
	"errors"
)

// Framework errors
var (
	// Descriptor errors
	ErrDescriptorMissing    = errors.New("package does not contain a module.json manifest")
	ErrDescriptorMalformed  = errors.New("module manifest is malformed")
	ErrDescriptorIncomplete = errors.New("module manifest is missing a required field")
	ErrInvalidScope         = errors.New("module declared an unknown preferred scope")
	ErrInvalidVersion       = errors.New("module version does not match MAJOR.MINOR.PATCH")

	// Dependency resolution errors
	ErrCyclicDependency     = errors.New("cyclic dependency detected between modules")
	ErrUnresolvedDependency = errors.New("module depends on an unknown module")
	ErrUnknownDirective     = errors.New("unknown load order directive")

	// Loader errors
	ErrInvalidMainEntry  = errors.New("main entry is not registered in the load space")
	ErrDuplicateModule   = errors.New("a module with this name is already loaded")
	ErrPackageUnreadable = errors.New("module package could not be opened")

	// Configuration errors
	ErrConfigUnreadable        = errors.New("host config file could not be read")
	ErrConfigUnsupportedFormat = errors.New("unsupported host config format")

	// Admin surface errors
	ErrAdminAlreadyRunning = errors.New("admin server is already running")
)
