package docstore

import (
	"github.com/rzbill/raccoon/pkg/id"
	"github.com/ugorji/go/codec"
)

// Meta describes a stored document.
type Meta struct {
	Name        string `codec:"name" json:"name"`
	CreatedAtMs int64  `codec:"createdAtMs" json:"createdAtMs"`
	UpdatedAtMs int64  `codec:"updatedAtMs" json:"updatedAtMs"`
	// Revisions is the number of revisions currently retained.
	Revisions int    `codec:"revisions" json:"revisions"`
	Latest    []byte `codec:"latest" json:"latest"`
}

// LatestID returns the id of the newest revision.
func (m Meta) LatestID() (id.ID, error) {
	return id.FromBytes(m.Latest)
}

var msgpack codec.MsgpackHandle

func encodeMeta(m Meta) ([]byte, error) {
	var b []byte
	if err := codec.NewEncoderBytes(&b, &msgpack).Encode(m); err != nil {
		return nil, err
	}
	return b, nil
}

func decodeMeta(b []byte) (Meta, error) {
	var m Meta
	err := codec.NewDecoderBytes(b, &msgpack).Decode(&m)
	return m, err
}
