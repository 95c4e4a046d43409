package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/dbnread/pkg/dbn"
	"github.com/ssargent/dbnread/pkg/source"
)

func TestParseInBatches_InvalidBatchSize(t *testing.T) {
	for _, size := range []int{0, -1, -100} {
		it, err := ParseInBatches(source.Path("/non/existent/file.dbn"), size)
		require.Error(t, err)
		assert.Nil(t, it)
		// The argument is checked before the source is touched.
		assert.ErrorIs(t, err, dbn.ErrInvalidArgument)
	}
}

func TestParseInBatches_Completeness(t *testing.T) {
	const total = 53
	buf := testBuffer(total)

	all, err := ParseAll(source.Bytes(buf))
	require.NoError(t, err)

	for _, size := range []int{1, 7, total, total + 100} {
		it, err := ParseInBatches(source.Bytes(buf), size)
		require.NoError(t, err)

		batches, err := CollectBatches(it)
		require.NoError(t, err)

		var flat []dbn.MBOMsg
		for i, b := range batches {
			assert.NotEmpty(t, b)
			assert.LessOrEqual(t, len(b), size)
			if i < len(batches)-1 {
				assert.Len(t, b, size, "only the final batch may be short")
			}
			flat = append(flat, b...)
		}
		assert.Equal(t, all, flat, "batch size %d", size)
		assert.Equal(t, (total+size-1)/size, len(batches))
	}
}

func TestParseInBatches_EmptySource(t *testing.T) {
	it, err := ParseInBatches(source.Bytes(nil), 10)
	require.NoError(t, err)
	defer it.Close()

	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
	require.NotNil(t, it.Stats())
	assert.Equal(t, uint64(0), it.Stats().TotalRecords)
}

func TestParseInBatches_YieldedBatchesSurviveError(t *testing.T) {
	buf := testBuffer(10)
	truncated := buf[:len(buf)-1]

	it, err := ParseInBatches(source.Bytes(truncated), 4)
	require.NoError(t, err)
	defer it.Close()

	var kept [][]dbn.MBOMsg
	for it.Next() {
		kept = append(kept, it.Batch())
	}

	require.Error(t, it.Err())
	assert.ErrorIs(t, it.Err(), dbn.ErrTruncatedRecord)
	assert.Equal(t, int64(9*dbn.MBOSize), dbn.OffsetOf(it.Err()))
	assert.Nil(t, it.Stats())

	require.Len(t, kept, 2)
	assert.Equal(t, uint64(8), it.Records())
	assert.Equal(t, uint64(500), kept[0][0].OrderID)
	assert.Equal(t, uint64(507), kept[1][3].OrderID)

	// The iterator stays stopped.
	assert.False(t, it.Next())
}

func TestParseInBatches_BufferReuse(t *testing.T) {
	buf := testBuffer(9)

	it, err := ParseInBatches(source.Bytes(buf), 3, WithBufferReuse(true))
	require.NoError(t, err)
	defer it.Close()

	require.True(t, it.Next())
	first := it.Batch()
	firstOrder := first[0].OrderID

	require.True(t, it.Next())
	second := it.Batch()

	// Same backing array, refilled in place.
	assert.Same(t, &first[0], &second[0])
	assert.NotEqual(t, firstOrder, first[0].OrderID)
	assert.Equal(t, uint64(503), second[0].OrderID)
}

func TestParseInBatches_FreshBuffersByDefault(t *testing.T) {
	it, err := ParseInBatches(source.Bytes(testBuffer(6)), 3)
	require.NoError(t, err)
	defer it.Close()

	require.True(t, it.Next())
	first := it.Batch()
	require.True(t, it.Next())

	assert.Equal(t, uint64(500), first[0].OrderID)
	assert.Equal(t, uint64(503), it.Batch()[0].OrderID)
}

func TestParseInBatches_CollectCopiesReusedBuffers(t *testing.T) {
	buf := testBuffer(10)
	all, err := ParseAll(source.Bytes(buf))
	require.NoError(t, err)

	it, err := ParseInBatches(source.Bytes(buf), 4, WithBufferReuse(true))
	require.NoError(t, err)
	batches, err := CollectBatches(it)
	require.NoError(t, err)

	var flat []dbn.MBOMsg
	for _, b := range batches {
		flat = append(flat, b...)
	}
	assert.Equal(t, all, flat)
}

func TestParseInBatches_CloseEarly(t *testing.T) {
	path := writeTestFile(t, testBuffer(20))

	it, err := ParseInBatches(source.Path(path), 5)
	require.NoError(t, err)

	require.True(t, it.Next())
	require.NoError(t, it.Close())
	require.NoError(t, it.Close())

	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
	assert.Equal(t, uint64(5), it.Records())
}

func TestParseInBatches_SecondPassReopens(t *testing.T) {
	path := writeTestFile(t, testBuffer(12))

	for pass := 0; pass < 2; pass++ {
		it, err := ParseInBatches(source.Path(path), 5)
		require.NoError(t, err)
		batches, err := CollectBatches(it)
		require.NoError(t, err)
		assert.Len(t, batches, 3)
		assert.Equal(t, uint64(12), it.Records())
	}
}

func TestParseInBatches_Stats(t *testing.T) {
	obs := newRecordingObserver()
	it, err := ParseInBatches(source.Bytes(testBuffer(11)), 4, WithObserver(obs))
	require.NoError(t, err)

	_, err = CollectBatches(it)
	require.NoError(t, err)

	require.NotNil(t, it.Stats())
	assert.Equal(t, uint64(11), it.Stats().TotalRecords)
	assert.Equal(t, int64(11*dbn.MBOSize), it.Stats().BytesProcessed)
	assert.Equal(t, 11, obs.records[MethodBatch])
	assert.Equal(t, 1, obs.sessions[MethodBatch])
}

func TestParseInBatches_OpenErrors(t *testing.T) {
	_, err := ParseInBatches(source.Path("/non/existent/file.dbn"), 10)
	assert.ErrorIs(t, err, dbn.ErrSourceUnavailable)

	_, err = ParseInBatches(source.Bytes(make([]byte, 3)), 10)
	assert.ErrorIs(t, err, dbn.ErrTruncatedHeader)
}
