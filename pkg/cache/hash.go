package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer derives cache keys. Keys depend only on content hashes and options,
// never on file paths, so identical inputs share entries.
type Keyer interface {
	// DescriptionKey addresses the JSON description of a data tree.
	DescriptionKey(treeHash string) string
	// ArtifactKey addresses one rendered image of a DOT document.
	ArtifactKey(dotHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render settings that change the encoded image.
// Font and rank direction are already part of the DOT text and so of its hash.
type ArtifactKeyOpts struct {
	Format  string `json:"format"`
	Engine  string `json:"engine"`
	Backend string `json:"backend"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) DescriptionKey(treeHash string) string {
	return "description:" + treeHash
}

func (DefaultKeyer) ArtifactKey(dotHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", dotHash, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
