// Package log defines the structured logging abstraction used across
// bankcore.
//
// Core types accept a Logger and default to NewNop, so callers that do not
// care about logging pay nothing. NewZap builds a production-ready zap-backed
// implementation.
package log
