// Package harness runs reconciliation scenarios end to end.
//
// A scenario seeds an in-memory remote, reconciles an inline configuration
// document one or more times, and checks the outcome of every entity, the
// final remote state and the calls the engine made.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	parallelism: 1
//	remote:
//	  channels:
//	    - identifier: us
//	      fields: { currencyCode: USD }
//	failures:
//	  - op: create
//	    kind: products
//	    identifier: tee
//	    message: "permission denied"
//	document: |
//	  channels:
//	    - slug: us
//	      currencyCode: USD
//	runs:
//	  - expect:
//	      channels/us: unchanged
//	assertions:
//	  - type: remote_state
//	    kind: channels
//	    identifier: us
//	    fields: { currencyCode: USD }
//
// # Assertion Types
//
//   - outcome_order: the listed section/identifier keys appear in that order
//     in the last run
//   - remote_state: the remote entity exists and has the given fields
//     (subset match)
//   - call_count: the engine called method for kind exactly count times
//     across all runs
//   - error_code: the failed outcome carries the given error code
//   - suggestion_contains: a suggestion of the failed outcome contains text
//
// # Deterministic Testing
//
// Every scenario runs against a fresh remote with sequential remote IDs and
// a fixed run ID, so the outcome trace is identical across runs and can be
// compared against a golden file with RunWithGolden.
package harness
