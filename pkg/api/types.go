package api

import (
	"github.com/ssargent/dbnread/pkg/dbn"
	"github.com/ssargent/dbnread/pkg/reader"
	"github.com/ssargent/dbnread/pkg/source"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"`
	Offset  *int64      `json:"offset,omitempty"`
}

// ParseRequest asks the server to parse a local file
type ParseRequest struct {
	Path      string `json:"path"`
	Mode      string `json:"mode"`
	BatchSize int    `json:"batch_size,omitempty"`
}

// ParseResponse reports the outcome of a parse
type ParseResponse struct {
	Path             string            `json:"path"`
	Mode             reader.Method     `json:"mode"`
	Records          uint64            `json:"records"`
	Batches          int               `json:"batches,omitempty"`
	BytesProcessed   int64             `json:"bytes_processed"`
	ElapsedSeconds   float64           `json:"elapsed_seconds"`
	RecordsPerSecond float64           `json:"records_per_second"`
	ThroughputGBps   float64           `json:"throughput_gbps"`
	Actions          map[string]uint64 `json:"actions,omitempty"`
}

// RecordSummary is the JSON form of one MBO record
type RecordSummary struct {
	Offset       int64    `json:"offset"`
	RType        string   `json:"rtype"`
	PublisherID  uint16   `json:"publisher_id"`
	InstrumentID uint32   `json:"instrument_id"`
	TsEvent      uint64   `json:"ts_event"`
	OrderID      uint64   `json:"order_id"`
	Price        *float64 `json:"price"`
	Size         uint32   `json:"size"`
	Action       string   `json:"action"`
	Side         string   `json:"side"`
	Sequence     uint32   `json:"sequence"`
}

// InspectResponse describes the start of a file
type InspectResponse struct {
	Path     string          `json:"path"`
	Size     int             `json:"size"`
	Metadata *dbn.Metadata   `json:"metadata,omitempty"`
	Records  []RecordSummary `json:"records"`
	Skipped  int             `json:"skipped"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind string
	Port int
	// Root, when set, confines requested paths to this directory.
	Root   string
	Source source.Options
}
