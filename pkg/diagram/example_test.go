package diagram_test

import (
	"fmt"

	"github.com/matzehuels/treeviz/pkg/datatree"
	"github.com/matzehuels/treeviz/pkg/diagram"
)

func ExampleBuild() {
	tree := datatree.New()
	_ = tree.AddSubspace("tours", "TOURID")
	_ = tree.AddSubspace("zones", "zone")
	_ = tree.SetRoot("tours")
	_, _ = tree.AddRelationship(datatree.Relationship{
		ParentData: "tours", ParentName: "dest_zone",
		ChildData: "zones", ChildName: "zone",
		Indexing: datatree.IndexPosition,
	})

	desc, err := diagram.Build(tree)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, n := range desc.Nodes {
		fmt.Printf("%s %s dims=%v vars=%v\n", n.ID, n.Label.Layout, n.Dims, n.Vars)
	}
	for _, e := range desc.Edges {
		fmt.Printf("%s:%s -> %s:%s (%s)\n", e.From, e.FromPort, e.To, e.ToPort, e.Arrow)
	}
	// Output:
	// tours paired dims=[TOURID] vars=[dest_zone]
	// zones dims dims=[zone] vars=[]
	// tours:var:dest_zone -> zones:dim:zone (plain)
}
