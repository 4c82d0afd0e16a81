package tree

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/yaklabco/oak/pkg/syntax"
)

const (
	tagLeaf byte = 0x4c
	tagNode byte = 0x4e
)

// fingerprint hashes a node's kind, length and children. Child nodes
// contribute their own fingerprint and leaves their metadata id, so equal
// subtrees without provenance hash equally in any arena.
func fingerprint(kind syntax.Kind, textLen uint32, children []Element) uint64 {
	var d xxhash.Digest
	d.Reset()

	var buf [17]byte
	buf[0] = tagNode
	binary.LittleEndian.PutUint16(buf[1:], uint16(kind))
	binary.LittleEndian.PutUint32(buf[3:], textLen)
	binary.LittleEndian.PutUint32(buf[7:], uint32(len(children)))
	_, _ = d.Write(buf[:11])

	for _, c := range children {
		if c.node != nil {
			buf[0] = tagNode
			binary.LittleEndian.PutUint64(buf[1:], c.node.fingerprint)
			_, _ = d.Write(buf[:9])
			continue
		}
		buf[0] = tagLeaf
		binary.LittleEndian.PutUint16(buf[1:], uint16(c.leaf.Kind))
		binary.LittleEndian.PutUint32(buf[3:], c.leaf.Length)
		binary.LittleEndian.PutUint32(buf[7:], uint32(c.leaf.Meta))
		_, _ = d.Write(buf[:11])
	}

	return d.Sum64()
}
