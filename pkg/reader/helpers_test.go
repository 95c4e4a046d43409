package reader

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssargent/dbnread/pkg/dbn"
)

func testRecord(i int) dbn.MBOMsg {
	actions := []dbn.Action{dbn.ActionAdd, dbn.ActionCancel, dbn.ActionModify, dbn.ActionTrade, dbn.ActionFill}
	sides := []dbn.Side{dbn.SideBid, dbn.SideAsk}
	return dbn.MBOMsg{
		Header: dbn.RecordHeader{
			PublisherID:  1,
			InstrumentID: 4916,
			TsEvent:      1_700_000_000_000_000_000 + uint64(i)*1000,
		},
		OrderID:   500 + uint64(i),
		Price:     101_250_000_000 + int64(i%7)*250_000_000,
		Size:      uint32(1 + i%9),
		ChannelID: 2,
		Action:    actions[i%len(actions)],
		Side:      sides[i%len(sides)],
		TsRecv:    1_700_000_000_000_000_400 + uint64(i)*1000,
		TsInDelta: 150,
		Sequence:  uint32(9000 + i),
		SymbolID:  12,
	}
}

func testBuffer(n int) []byte {
	var buf []byte
	for i := 0; i < n; i++ {
		buf = dbn.AppendMBO(buf, testRecord(i))
	}
	return buf
}

// encoded returns m as the decoder reports it.
func encoded(m dbn.MBOMsg) dbn.MBOMsg {
	m.Header.Length = dbn.MBOSize / dbn.LengthMultiplier
	m.Header.RType = dbn.RTypeMbo
	return m
}

func writeTestFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.dbn")
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

type recordingObserver struct {
	mu       sync.Mutex
	records  map[Method]int
	sessions map[Method]int
	errors   map[dbn.ErrorKind]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{
		records:  map[Method]int{},
		sessions: map[Method]int{},
		errors:   map[dbn.ErrorKind]int{},
	}
}

func (o *recordingObserver) ObserveRecords(m Method, n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records[m] += n
}

func (o *recordingObserver) ObserveSession(m Method, _ ParseStats) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sessions[m]++
}

func (o *recordingObserver) ObserveError(_ Method, kind dbn.ErrorKind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errors[kind]++
}
