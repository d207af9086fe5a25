// Package provider defines the abstraction over the upstream chat backend
// that the gateway delegates generation to.
package provider
