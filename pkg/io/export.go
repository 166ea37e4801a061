package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/treeviz/pkg/datatree"
	"github.com/matzehuels/treeviz/pkg/errors"
)

type document struct {
	Root          string    `json:"root,omitempty" toml:"root,omitempty" yaml:"root,omitempty"`
	Datasets      []dataset `json:"datasets" toml:"datasets" yaml:"datasets"`
	Relationships []string  `json:"relationships,omitempty" toml:"relationships,omitempty" yaml:"relationships,omitempty"`
}

type dataset struct {
	Name string   `json:"name" toml:"name" yaml:"name"`
	Dims []string `json:"dims" toml:"dims" yaml:"dims"`
}

func documentOf(t *datatree.Tree) document {
	doc := document{Root: t.Root()}
	for _, name := range t.Subspaces() {
		sub, _ := t.Subspace(name)
		dims := sub.Dims
		if dims == nil {
			dims = []string{}
		}
		doc.Datasets = append(doc.Datasets, dataset{Name: name, Dims: dims})
	}
	for _, rel := range t.Relationships() {
		doc.Relationships = append(doc.Relationships, rel.String())
	}
	return doc
}

// WriteTree encodes t as a data-tree document. The output can be read back
// with [ReadTree] in the same format. Datasets keep their registration order
// and relationships their insertion order.
func WriteTree(t *datatree.Tree, w io.Writer, format Format) error {
	doc := documentOf(t)

	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(doc); err == nil {
			err = enc.Close()
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// ExportTree writes t to path, inferring the format from its extension.
func ExportTree(t *datatree.Tree, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTree(t, f, format)
}
