package dbn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		md   Metadata
	}{
		{
			name: "version 2",
			md: Metadata{
				Version: 2, Dataset: "GLBX.MDP3", Schema: 1,
				Start: 1_700_000_000_000_000_000, End: 1_700_000_100_000_000_000,
				Limit: 500, STypeIn: 1, STypeOut: 0, TsOut: 1,
			},
		},
		{
			name: "version 1 carries record count",
			md: Metadata{
				Version: 1, Dataset: "XNAS.ITCH", RecordCount: 42,
				Start: 1, End: 2, STypeOut: 3,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := AppendMetadata(nil, tc.md)
			got, err := ReadMetadata(buf)
			require.NoError(t, err)

			want := tc.md
			want.Present = true
			want.Length = uint32(len(buf) - MetadataPrefixSize)
			assert.Equal(t, want, got)
			assert.Equal(t, int64(len(buf)), got.RecordsOffset())
		})
	}
}

func TestReadMetadata_NoMagic(t *testing.T) {
	md, err := ReadMetadata(mboBuffer(1))
	require.NoError(t, err)
	assert.False(t, md.Present)
	assert.Equal(t, int64(0), md.RecordsOffset())
}

func TestReadMetadata_Malformed(t *testing.T) {
	full := AppendMetadata(nil, Metadata{Dataset: "OPRA.PILLAR"})

	testCases := []struct {
		name string
		data []byte
		kind ErrorKind
	}{
		{name: "prefix cut short", data: []byte("DBN\x02"), kind: TruncatedHeader},
		{name: "body cut short", data: full[:len(full)-1], kind: TruncatedHeader},
		{name: "version zero", data: []byte("DBN\x00\x00\x00\x00\x00"), kind: InvalidHeader},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadMetadata(tc.data)
			require.Error(t, err)
			assert.Equal(t, tc.kind, KindOf(err))

			_, err = NewCursor(tc.data)
			assert.Equal(t, tc.kind, KindOf(err))
		})
	}
}

func TestReadMetadata_ShortBodyKeepsPrefix(t *testing.T) {
	buf := []byte("DBN\x02\x04\x00\x00\x00abcd")
	md, err := ReadMetadata(buf)
	require.NoError(t, err)
	assert.True(t, md.Present)
	assert.Equal(t, uint32(4), md.Length)
	assert.Empty(t, md.Dataset)
	assert.Equal(t, int64(len(buf)), md.RecordsOffset())
}
