// Package registry provides a generic, type-safe registry system
// for managing candidate filters and import listeners. It supports
// automatic registration through init() functions.
package registry
