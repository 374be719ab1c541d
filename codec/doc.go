// Package codec is the public facade for ldapwire: Encode, NewDecoder,
// the five registerXxx entry points, and a CodecService builder for
// callers who want an immutable, non-global handle instead of the
// package-level convenience functions.
//
// The package-level functions (Encode, NewDecoder, RegisterRequestControl,
// ...) operate against a single process-wide control registry
// (control.Default()), matching spec.md §5's description of the
// control/extended-operation registries as "process-wide and mutable
// across the lifetime of the codec", typically populated once at
// startup before I/O begins. CodecService, built with NewBuilder, is
// the alternative spec.md §9's design notes recommend for callers
// who want several independently-configured registries in the same
// process (e.g. a test harness running multiple codec configurations
// side by side).
package codec
