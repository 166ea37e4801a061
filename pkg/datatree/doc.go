// Package datatree provides the relationship graph behind a data tree.
//
// # Overview
//
// A data tree is a set of named datasets ("subspaces"), each with an ordered
// list of dimensions, joined by typed relationships. A [Relationship] says
// that a variable in a parent dataset indexes a dimension in a child dataset,
// either by label (value matching) or by position (ordinal offset).
//
// # Basic Usage
//
//	t := datatree.New()
//	t.AddSubspace("households", "HHID")
//	t.AddSubspace("persons", "PERID")
//	t.SetRoot("persons")
//	t.AddRelationship(datatree.Relationship{
//	    ParentData: "persons", ParentName: "household_id",
//	    ChildData: "households", ChildName: "HHID",
//	    Indexing: datatree.IndexLabel,
//	})
//
// Relationships can also be written in arrow notation and parsed with
// [ParseRelationship]: "persons.household_id @ households.HHID" for label
// indexing and "tours.dest_zone -> skims.dtaz" for position indexing.
//
// # Graph Membership
//
// Graph nodes are the root plus every relationship endpoint. A subspace that
// is registered but never joined does not appear in [Tree.Nodes].
//
// # Concurrency
//
// Tree instances are not safe for concurrent mutation. A tree that is no
// longer modified can be read from many goroutines, which is how the diagram
// builder consumes it.
package datatree
