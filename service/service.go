// Package service runs the long-lived parts of the meter (scheduler, audio source, display)
// through a common lifecycle in dependency order
package service

// Service defines the lifecycle of an infrastructure subsystem
//
// Lifecycle:
//  1. Construction with validated configuration
//  2. Init() - acquire resources that may fail (devices, files)
//  3. Start() - launch background goroutines
//  4. [runtime operation]
//  5. Stop() - halt goroutines, release resources; must be idempotent
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Init and Start before this one
	Dependencies() []string

	Init() error
	Start() error
	Stop() error
}
