package compress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecs_RoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat(`{"type":"paragraph","content":[]}`, 64))

	for _, name := range []string{CodecNop, CodecGzip, CodecBrotli, CodecLz4} {
		t.Run(name, func(t *testing.T) {
			codec, err := FromName(name)
			require.NoError(t, err)

			encoded, err := codec.Encode(payload)
			require.NoError(t, err)

			decoded, err := codec.Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, payload, decoded)
		})
	}
}

func TestFromName(t *testing.T) {
	// rows written before compression carry an empty codec name
	codec, err := FromName("")
	require.NoError(t, err)
	assert.IsType(t, Nop{}, codec)

	_, err = FromName("zstd")
	assert.Error(t, err)
}
