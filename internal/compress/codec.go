// Package compress provides the content codecs used to shrink form trees
// before they hit the database or the cache. The codec name is stored
// alongside the row so old rows stay readable after the default changes.
package compress

import (
	"fmt"
)

const (
	CodecNop    = "nop"
	CodecGzip   = "gzip"
	CodecBrotli = "brotli"
	CodecLz4    = "lz4"
)

type Codec interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// FromName returns the codec registered under name. An empty name means
// the row predates compression and decodes as a nop.
func FromName(name string) (Codec, error) {
	switch name {
	case "", CodecNop:
		return NewNop(), nil
	case CodecGzip:
		return NewGzip(), nil
	case CodecBrotli:
		return NewBrotli(), nil
	case CodecLz4:
		return NewLz4(), nil
	}

	return nil, fmt.Errorf("compress: unknown codec %q", name)
}

type Nop struct{}

func NewNop() Nop { return Nop{} }

func (Nop) Encode(data []byte) ([]byte, error) { return data, nil }

func (Nop) Decode(data []byte) ([]byte, error) { return data, nil }
