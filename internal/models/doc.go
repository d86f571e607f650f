// Package models holds the data shared between the walker, the loggers and
// the report writers.
package models
