package docstore

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/rzbill/raccoon/pkg/id"
)

var (
	sep        = byte('/')
	docPrefix  = []byte("doc/")
	metaSuffix = []byte("/m")
	revSeg     = []byte("/r/")
)

var nameRe = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// ValidateName checks document and plug-in names. They become key segments,
// so separators are not allowed.
func ValidateName(name string) error {
	if !nameRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// keyMeta builds the metadata key for a document.
func keyMeta(doc string) []byte {
	k := make([]byte, 0, len(docPrefix)+len(doc)+len(metaSuffix))
	k = append(k, docPrefix...)
	k = append(k, doc...)
	k = append(k, metaSuffix...)
	return k
}

// keyRevPrefix returns the prefix shared by all revision chunks of a document.
func keyRevPrefix(doc string) []byte {
	k := make([]byte, 0, len(docPrefix)+len(doc)+len(revSeg))
	k = append(k, docPrefix...)
	k = append(k, doc...)
	k = append(k, revSeg...)
	return k
}

// keyRevIDPrefix returns the prefix of one revision's chunks.
func keyRevIDPrefix(doc string, rev id.ID) []byte {
	k := keyRevPrefix(doc)
	k = append(k, rev[:]...)
	k = append(k, sep)
	return k
}

// keyChunk builds the key of a plug-in chunk within a revision.
func keyChunk(doc string, rev id.ID, plugin string) []byte {
	return append(keyRevIDPrefix(doc, rev), plugin...)
}

// prefixEnd returns the smallest key greater than every key with prefix p.
func prefixEnd(p []byte) []byte {
	end := append([]byte(nil), p...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// parseChunkKey splits a key found under prefix into revision and plug-in.
// The revision marker key yields an empty plug-in.
func parseChunkKey(prefix, key []byte) (id.ID, string, bool) {
	if !bytes.HasPrefix(key, prefix) {
		return id.ID{}, "", false
	}
	rest := key[len(prefix):]
	if len(rest) < id.Size+1 || rest[id.Size] != sep {
		return id.ID{}, "", false
	}
	rev, err := id.FromBytes(rest[:id.Size])
	if err != nil {
		return id.ID{}, "", false
	}
	return rev, string(rest[id.Size+1:]), true
}
