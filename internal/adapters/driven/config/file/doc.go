// Package file provides the TOML-backed configuration store and the
// catalog import file reader.
//
// Settings live in ~/.clinicdesk/config.toml as nested tables and are
// exposed to the core as flat dot-notation keys ("search.debounce").
// Catalog import files use arrays of tables: [[categories]],
// [[services]] and [[patients]].
package file
