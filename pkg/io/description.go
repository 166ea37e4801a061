package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/treeviz/pkg/diagram"
)

// Description is the JSON form of a diagram description.
type Description struct {
	Nodes []NodeRecord `json:"nodes"`
	Edges []EdgeRecord `json:"edges"`
}

// NodeRecord is one diagram node.
type NodeRecord struct {
	ID    string      `json:"id"`
	Label LabelRecord `json:"label"`
	Shape string      `json:"shape"`
	Ports []string    `json:"ports"`
}

// LabelRecord is the structured label of a node. Empty cells are null.
type LabelRecord struct {
	Title    string      `json:"title"`
	Layout   string      `json:"layout"`
	Captions []string    `json:"captions"`
	Rows     []RowRecord `json:"rows"`
}

// RowRecord is one attribute row.
type RowRecord struct {
	Dim *CellRecord `json:"dim"`
	Var *CellRecord `json:"var"`
}

// CellRecord is one addressable label cell.
type CellRecord struct {
	Text string `json:"text"`
	Port string `json:"port"`
}

// EdgeRecord is one diagram edge.
type EdgeRecord struct {
	Key        string `json:"key"`
	FromNode   string `json:"from_node"`
	FromPort   string `json:"from_port"`
	ToNode     string `json:"to_node"`
	ToPort     string `json:"to_port"`
	Dir        string `json:"dir"`
	ArrowStyle string `json:"arrow_style"`
}

// DescriptionOf converts a diagram description to its JSON records.
// Ports list the header first, then dimensions and variables in row order.
func DescriptionOf(desc *diagram.Description) Description {
	out := Description{
		Nodes: make([]NodeRecord, 0, len(desc.Nodes)),
		Edges: make([]EdgeRecord, 0, len(desc.Edges)),
	}
	for _, n := range desc.Nodes {
		out.Nodes = append(out.Nodes, nodeRecord(n))
	}
	for _, e := range desc.Edges {
		out.Edges = append(out.Edges, EdgeRecord{
			Key:        e.Key,
			FromNode:   e.From,
			FromPort:   e.FromPort,
			ToNode:     e.To,
			ToPort:     e.ToPort,
			Dir:        string(e.Dir),
			ArrowStyle: string(e.Arrow),
		})
	}
	return out
}

func nodeRecord(n *diagram.Node) NodeRecord {
	l := n.Label
	rec := NodeRecord{
		ID:    n.ID,
		Shape: n.Shape(),
		Label: LabelRecord{
			Title:    l.Title,
			Layout:   l.Layout.String(),
			Captions: l.Captions(),
			Rows:     make([]RowRecord, 0, len(l.Rows)),
		},
		Ports: []string{diagram.HeaderPort},
	}
	if rec.Label.Captions == nil {
		rec.Label.Captions = []string{}
	}

	var varPorts []string
	for _, r := range l.Rows {
		rec.Label.Rows = append(rec.Label.Rows, RowRecord{Dim: cellRecord(r.Dim), Var: cellRecord(r.Var)})
		if !r.Dim.IsEmpty() {
			rec.Ports = append(rec.Ports, r.Dim.Port)
		}
		if !r.Var.IsEmpty() {
			varPorts = append(varPorts, r.Var.Port)
		}
	}
	rec.Ports = append(rec.Ports, varPorts...)
	return rec
}

func cellRecord(c diagram.Cell) *CellRecord {
	if c.IsEmpty() {
		return nil
	}
	return &CellRecord{Text: c.Text, Port: c.Port}
}

// WriteDescription encodes desc as indented JSON.
func WriteDescription(desc *diagram.Description, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(DescriptionOf(desc)); err != nil {
		return fmt.Errorf("encode description: %w", err)
	}
	return nil
}
