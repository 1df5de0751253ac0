// Package store holds the latest execution state of every step.
//
// A step with no entry has never run. An entry is either loading or settled,
// and a settled entry carries exactly one Result: an Outcome or a
// NormalizedError. Writers go through Begin/Settle so that the most recent
// invocation of a step always wins over older in-flight calls.
package store
