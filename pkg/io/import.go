package io

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/treeviz/pkg/datatree"
	"github.com/matzehuels/treeviz/pkg/errors"
)

// Format is a data-tree document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the document format from the file extension:
// .json, .toml, .yaml or .yml.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer document format from %q (use .json, .toml, .yaml or .yml)", path)
	}
}

// ParseFormat converts a format name ("json", "toml", "yaml", "yml").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", s)
	}
}

// ReadTree decodes a data-tree document from r.
//
// The document lists datasets with their dimensions, an optional root and
// relationships in arrow notation:
//
//	{
//	  "root": "persons",
//	  "datasets": [
//	    {"name": "persons", "dims": ["PERID"]},
//	    {"name": "households", "dims": ["HHID"]}
//	  ],
//	  "relationships": ["persons.household_id @ households.HHID"]
//	}
//
// "@" marks label indexing and "->" position indexing. Unknown fields,
// duplicate dataset names, and relationships that do not parse are errors.
// Whether every relationship endpoint has a dataset is not checked here;
// see [datatree.Tree.Validate].
//
// ReadTree does not close r.
func ReadTree(r io.Reader, format Format) (*datatree.Tree, error) {
	var doc document
	if err := decode(r, format, &doc); err != nil {
		return nil, err
	}
	return doc.tree()
}

// ImportTree reads the document at path, inferring the format from its
// extension.
func ImportTree(path string) (*datatree.Tree, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadTree(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func decode(r io.Reader, format Format, doc *document) error {
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(doc)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(doc)
	case FormatTOML:
		var md toml.MetaData
		md, err = toml.NewDecoder(r).Decode(doc)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				err = fmt.Errorf("unknown field %q", undecoded[0].String())
			}
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", format)
	}

	if stderrors.Is(err, io.EOF) {
		return errors.New(errors.ErrCodeInvalidInput, "empty %s document", format)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", format)
	}
	return nil
}

func (d *document) tree() (*datatree.Tree, error) {
	t := datatree.New()
	seen := make(map[string]bool, len(d.Datasets))
	for i, ds := range d.Datasets {
		if err := errors.ValidateName("dataset", ds.Name); err != nil {
			return nil, fmt.Errorf("dataset %d: %w", i, err)
		}
		if seen[ds.Name] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate dataset %q", ds.Name)
		}
		seen[ds.Name] = true
		for _, dim := range ds.Dims {
			if err := errors.ValidateName("dimension", dim); err != nil {
				return nil, fmt.Errorf("dataset %s: %w", ds.Name, err)
			}
		}
		if err := t.AddSubspace(ds.Name, ds.Dims...); err != nil {
			return nil, fmt.Errorf("dataset %s: %w", ds.Name, err)
		}
	}

	if d.Root != "" {
		if err := t.SetRoot(d.Root); err != nil {
			return nil, fmt.Errorf("root: %w", err)
		}
	}

	for _, s := range d.Relationships {
		rel, err := datatree.ParseRelationship(s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRelationship, err, "relationship %q", s)
		}
		if _, err := t.AddRelationship(rel); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRelationship, err, "relationship %q", s)
		}
	}
	return t, nil
}

// ReadTreeBytes is ReadTree over an in-memory document.
func ReadTreeBytes(data []byte, format Format) (*datatree.Tree, error) {
	return ReadTree(bytes.NewReader(data), format)
}
