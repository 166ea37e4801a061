package datatree

import (
	"fmt"
	"strings"
)

// Indexing selects how a relationship resolves the child dimension.
type Indexing string

const (
	// IndexLabel joins by matching the parent variable's values against the
	// child dimension's labels.
	IndexLabel Indexing = "label"
	// IndexPosition joins by treating the parent variable's values as
	// ordinal offsets into the child dimension.
	IndexPosition Indexing = "position"
)

// Valid reports whether i is one of the supported indexing modes.
func (i Indexing) Valid() bool { return i == IndexLabel || i == IndexPosition }

// ParseIndexing converts a string to an Indexing. Matching is case-insensitive.
func ParseIndexing(s string) (Indexing, error) {
	i := Indexing(strings.ToLower(strings.TrimSpace(s)))
	if !i.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedIndexing, s)
	}
	return i, nil
}

// Relationship links a variable in a parent dataset to a dimension in a child
// dataset.
type Relationship struct {
	ParentData string   // Dataset holding the join variable
	ParentName string   // Variable in ParentData that drives the join
	ChildData  string   // Dataset being indexed
	ChildName  string   // Dimension of ChildData being indexed
	Indexing   Indexing // label or position
}

// Operator tokens used by [Relationship.String] and [ParseRelationship].
const (
	opLabel    = "@"
	opPosition = "->"
)

// String renders the relationship in arrow notation:
//
//	persons.household_id @ households.HHID    (label)
//	tours.dest_zone -> skims.dtaz             (position)
//
// The string identifies the relationship and is used as its edge key.
// Unsupported indexing values are rendered in brackets so they stay visible.
func (r Relationship) String() string {
	var op string
	switch r.Indexing {
	case IndexLabel:
		op = opLabel
	case IndexPosition:
		op = opPosition
	default:
		op = "[" + string(r.Indexing) + "]"
	}
	return fmt.Sprintf("%s.%s %s %s.%s", r.ParentData, r.ParentName, op, r.ChildData, r.ChildName)
}

// ParseRelationship parses the notation produced by [Relationship.String].
// Dataset names may contain dots; the last dot on each side separates the
// dataset from the variable or dimension.
func ParseRelationship(s string) (Relationship, error) {
	var (
		lhs, rhs string
		idx      Indexing
	)
	if l, r, ok := strings.Cut(s, opPosition); ok {
		lhs, rhs, idx = l, r, IndexPosition
	} else if l, r, ok := strings.Cut(s, opLabel); ok {
		lhs, rhs, idx = l, r, IndexLabel
	} else {
		return Relationship{}, fmt.Errorf("%w: %q has no %q or %q operator", ErrInvalidRelationship, s, opLabel, opPosition)
	}

	parentData, parentName, err := splitQualified(lhs)
	if err != nil {
		return Relationship{}, fmt.Errorf("%w: parent of %q: %v", ErrInvalidRelationship, s, err)
	}
	childData, childName, err := splitQualified(rhs)
	if err != nil {
		return Relationship{}, fmt.Errorf("%w: child of %q: %v", ErrInvalidRelationship, s, err)
	}

	return Relationship{
		ParentData: parentData,
		ParentName: parentName,
		ChildData:  childData,
		ChildName:  childName,
		Indexing:   idx,
	}, nil
}

func splitQualified(s string) (string, string, error) {
	s = strings.TrimSpace(s)
	i := strings.LastIndex(s, ".")
	if i <= 0 || i == len(s)-1 {
		return "", "", fmt.Errorf("expected dataset.name, got %q", s)
	}
	return s[:i], s[i+1:], nil
}

func (r Relationship) validate() error {
	switch {
	case r.ParentData == "":
		return fmt.Errorf("%w: empty parent dataset", ErrInvalidRelationship)
	case r.ParentName == "":
		return fmt.Errorf("%w: empty parent variable", ErrInvalidRelationship)
	case r.ChildData == "":
		return fmt.Errorf("%w: empty child dataset", ErrInvalidRelationship)
	case r.ChildName == "":
		return fmt.Errorf("%w: empty child dimension", ErrInvalidRelationship)
	}
	return nil
}
