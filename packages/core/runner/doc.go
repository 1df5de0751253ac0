// Package runner executes catalog steps and records their outcomes.
//
// It provides functionality for:
//   - Executing a single step and settling it in the result store
//   - Running the whole catalog, or a selection of it, in catalog order
//   - Pacing consecutive steps with a fixed delay
//   - Normalizing configuration, transport and server failures
//   - Waiting for the API under test to come up
//
// Steps never abort a run: every failure is captured as a settled error.
package runner
