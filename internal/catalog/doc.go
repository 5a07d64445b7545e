// Package catalog loads table fixtures written in CUE and applies them to
// a store.
//
// A fixture declares tables with their columns and rows:
//
//	tables: users: {
//		columns: [
//			{name: "id", type: "INTEGER"},
//			{name: "name", type: "TEXT"},
//			{name: "active", type: "BOOLEAN"},
//		]
//		rows: [
//			{id: 1, name: "ann", active: true},
//			{id: 2, name: "bob", active: false},
//		]
//	}
//
// CUE is evaluated through the Go API (cuelang.org/go), so fixtures may use
// CUE definitions and references to share column lists between tables.
// Row values must be concrete: null, bool, int or string. Floats are
// rejected.
package catalog
