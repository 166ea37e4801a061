package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/treeviz/pkg/datatree"
	"github.com/matzehuels/treeviz/pkg/diagram"
	"github.com/matzehuels/treeviz/pkg/render/nodelink"
)

func ExampleToDOT() {
	// A household survey: persons point at their household.
	tree := datatree.New()
	_ = tree.AddSubspace("persons", "PERID")
	_ = tree.AddSubspace("households", "HHID")
	_ = tree.SetRoot("persons")
	_, _ = tree.AddRelationship(datatree.Relationship{
		ParentData: "persons", ParentName: "household_id",
		ChildData: "households", ChildName: "HHID",
		Indexing: datatree.IndexLabel,
	})

	desc, _ := diagram.Build(tree)
	dot := nodelink.ToDOT(desc, nodelink.Options{})

	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "persons" -> "households" [id="persons.household_id @ households.HHID", tailport="var_household_5Fid", headport="dim_HHID", dir=forward, arrowhead=odiamond];
}

func ExamplePortID() {
	fmt.Println(nodelink.PortID("f0"))
	fmt.Println(nodelink.PortID("dim:zone_id"))
	fmt.Println(nodelink.PortID("var:orig.taz"))
	// Output:
	// f0
	// dim_zone_5Fid
	// var_orig_2Etaz
}
