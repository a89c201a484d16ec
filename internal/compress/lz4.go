package compress

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4/v4"
)

type Lz4 struct{}

func NewLz4() Lz4 { return Lz4{} }

func (Lz4) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (Lz4) Decode(data []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
}
