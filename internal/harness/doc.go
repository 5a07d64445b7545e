// Package harness runs query scenarios end to end.
//
// A scenario names a CUE fixture, one SQL query and what the query should
// produce. The harness seeds a fresh SQLite store from the fixture, runs
// the query through the engine and compares the outcome.
//
// # Scenario Format
//
//	name: true_and_condition
//	description: "TRUE AND x simplifies to x"
//	fixture: ../fixtures/people.cue
//	query_id: q-true-and
//	sql: SELECT name FROM people WHERE TRUE AND age > 18
//	expect:
//	  condition: "age > 18"
//	  rows:
//	    - { name: ada }
//	    - { name: dee }
//	  plan: |
//	    Project name
//	      Filter age > 18
//	        TableScan people
//	assertions:
//	  - type: scan_count
//	    count: 1
//
// The fixture path is resolved relative to the scenario file. expect.rows
// is an exact, ordered match; expect.error names the QueryError code the
// query must fail with instead.
//
// # Assertion Types
//
//   - plan_contains: the plan text contains text
//   - plan_excludes: the plan text does not contain text
//   - row_contains: some result row matches row (subset match)
//   - columns: the output columns are exactly columns
//   - scan_count: the table was scanned exactly count times
//
// # Deterministic Runs
//
// Every run uses a fixed query ID (scenario.query_id, or a default) and a
// fresh store, so snapshots are byte-identical across runs. Use
// AssertGolden to compare a run against testdata/golden.
package harness
