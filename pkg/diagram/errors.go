package diagram

import (
	stderrors "errors"
	"fmt"

	"github.com/matzehuels/treeviz/pkg/datatree"
	"github.com/matzehuels/treeviz/pkg/errors"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrMissingNode         = stderrors.New("missing node")
	ErrMissingRelationship = stderrors.New("missing relationship")
	ErrUnsupportedIndexing = stderrors.New("unsupported indexing")
)

// MissingNodeError reports a dataset without a subspace. Edge is set when the
// dataset was reached through a relationship.
type MissingNodeError struct {
	Node string
	Edge string
}

func (e *MissingNodeError) Error() string {
	if e.Edge != "" {
		return fmt.Sprintf("missing node: no subspace for dataset %q (referenced by %s)", e.Node, e.Edge)
	}
	return fmt.Sprintf("missing node: no subspace for dataset %q", e.Node)
}

func (e *MissingNodeError) Is(target error) bool { return target == ErrMissingNode }
func (e *MissingNodeError) Code() errors.Code     { return errors.ErrCodeMissingNode }

// MissingRelationshipError reports an edge reference the graph cannot resolve.
type MissingRelationshipError struct {
	Edge datatree.EdgeRef
}

func (e *MissingRelationshipError) Error() string {
	return fmt.Sprintf("missing relationship: edge %s does not resolve", e.Edge)
}

func (e *MissingRelationshipError) Is(target error) bool { return target == ErrMissingRelationship }
func (e *MissingRelationshipError) Code() errors.Code     { return errors.ErrCodeMissingRelationship }

// UnsupportedIndexingError reports an indexing mode other than label or position.
type UnsupportedIndexingError struct {
	Indexing datatree.Indexing
	Edge     string
}

func (e *UnsupportedIndexingError) Error() string {
	return fmt.Sprintf("unsupported indexing %q in %s (must be %q or %q)",
		string(e.Indexing), e.Edge, datatree.IndexLabel, datatree.IndexPosition)
}

func (e *UnsupportedIndexingError) Is(target error) bool { return target == ErrUnsupportedIndexing }
func (e *UnsupportedIndexingError) Code() errors.Code     { return errors.ErrCodeUnsupportedIndexing }
