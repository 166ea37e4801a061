// Package io reads and writes data-tree documents and exports diagram
// descriptions.
//
// # Overview
//
// A data-tree document declares datasets, an optional root and the
// relationships between them. The same schema is accepted as JSON, TOML and
// YAML:
//
//	root: persons
//	datasets:
//	  - name: persons
//	    dims: [PERID]
//	  - name: households
//	    dims: [HHID]
//	  - name: zones
//	    dims: [zone]
//	relationships:
//	  - persons.household_id @ households.HHID
//	  - persons.home_zone -> zones.zone
//
// # Relationship Notation
//
// Each relationship is written parent_dataset.variable OP child_dataset.dimension:
//
//   - "@": label indexing (values of the variable are labels of the dimension)
//   - "->": position indexing (values are offsets into the dimension)
//
// Dataset names may contain dots; the last dot on each side splits the name.
//
// # Reading and Writing
//
//	tree, err := io.ImportTree("survey.yaml")     // format from extension
//	tree, err := io.ReadTree(r, io.FormatTOML)
//	err = io.WriteTree(tree, w, io.FormatJSON)
//
// [WriteTree] output round-trips through [ReadTree] in every format.
//
// # Description Export
//
// [WriteDescription] writes a diagram description as JSON node records
// {id, label, shape, ports} and edge records {key, from_node, from_port,
// to_node, to_port, dir, arrow_style}. The HTTP API returns the same records.
//
// # Errors
//
// Decode failures carry INVALID_INPUT, unparseable relationships
// INVALID_RELATIONSHIP and missing files FILE_NOT_FOUND (see package errors).
package io
