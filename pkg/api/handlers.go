package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ssargent/dbnread/pkg/dbn"
	"github.com/ssargent/dbnread/pkg/metrics"
	"github.com/ssargent/dbnread/pkg/reader"
	"github.com/ssargent/dbnread/pkg/source"
)

const (
	defaultInspectLimit = 5
	maxInspectLimit     = 100
)

// Server holds the API server state
type Server struct {
	config  ServerConfig
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewServer creates a new API server
func NewServer(config ServerConfig, m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:  config,
		metrics: m,
		logger:  logger,
	}
}

func (s *Server) readerOptions() []reader.Option {
	opts := []reader.Option{reader.WithLogger(s.logger)}
	if s.metrics != nil {
		opts = append(opts, reader.WithObserver(s.metrics))
	}
	return opts
}

// handleHealth reports that the server is up.
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	APIResponse
//	@Router			/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleParse parses a local file with the requested method and returns
// the statistics of the run.
//
//	@Summary		Parse a file
//	@Description	Parse a local DBN file with the stream, direct or batch reader and return the statistics of the run
//	@Tags			parse
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ParseRequest	true	"File and reader mode"
//	@Success		200		{object}	ParseResponse
//	@Failure		400		{object}	APIResponse
//	@Failure		404		{object}	APIResponse
//	@Failure		422		{object}	APIResponse
//	@Router			/parse [post]
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		sendError(w, "path is required", http.StatusBadRequest)
		return
	}

	path, err := s.resolvePath(req.Path)
	if err != nil {
		sendDecodeError(w, err)
		return
	}
	in := source.PathWithOptions(path, s.config.Source)

	var resp *ParseResponse
	switch reader.Method(strings.ToLower(req.Mode)) {
	case reader.MethodStream, "":
		resp, err = s.parseStream(in)
	case reader.MethodDirect:
		resp, err = s.parseDirect(in)
	case reader.MethodBatch:
		size := req.BatchSize
		if size == 0 {
			size = reader.DefaultBatchSize
		}
		resp, err = s.parseBatch(in, size)
	default:
		err = dbn.NewError(dbn.InvalidArgument, -1, "unknown mode %q", req.Mode)
	}
	if err != nil {
		s.logger.Warn("parse failed", "path", req.Path, "mode", req.Mode, "error", err)
		sendDecodeError(w, err)
		return
	}

	resp.Path = req.Path
	sendSuccess(w, resp)
}

func (s *Server) parseStream(in source.Opener) (*ParseResponse, error) {
	var actions [256]uint64
	stats, err := reader.ParseWithCallback(in, func(v dbn.MBOView) error {
		actions[v.Action()]++
		return nil
	}, s.readerOptions()...)
	if err != nil {
		return nil, err
	}

	resp := statsResponse(reader.MethodStream, *stats)
	resp.Actions = make(map[string]uint64)
	for a, n := range actions {
		if n > 0 {
			resp.Actions[dbn.Action(a).String()] = n
		}
	}
	return resp, nil
}

func (s *Server) parseDirect(in source.Opener) (*ParseResponse, error) {
	var stats reader.ParseStats
	if _, err := reader.ParseAll(in, append(s.readerOptions(), reader.CaptureStats(&stats))...); err != nil {
		return nil, err
	}
	return statsResponse(reader.MethodDirect, stats), nil
}

func (s *Server) parseBatch(in source.Opener, size int) (*ParseResponse, error) {
	it, err := reader.ParseInBatches(in, size, append(s.readerOptions(), reader.WithBufferReuse(true))...)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	batches := 0
	for it.Next() {
		batches++
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	resp := statsResponse(reader.MethodBatch, *it.Stats())
	resp.Batches = batches
	return resp, nil
}

// handleInspect returns the metadata and the first records of a file.
//
//	@Summary		Inspect a file
//	@Description	Return the metadata block and the first MBO records of a local DBN file
//	@Tags			inspect
//	@Produce		json
//	@Param			path	query		string	true	"File path"
//	@Param			limit	query		int		false	"Number of records (1-100)"
//	@Success		200		{object}	InspectResponse
//	@Failure		400		{object}	APIResponse
//	@Failure		404		{object}	APIResponse
//	@Failure		422		{object}	APIResponse
//	@Router			/inspect [get]
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	rawPath := r.URL.Query().Get("path")
	if rawPath == "" {
		sendError(w, "path query parameter is required", http.StatusBadRequest)
		return
	}

	limit := defaultInspectLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			sendError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxInspectLimit)
	}

	path, err := s.resolvePath(rawPath)
	if err != nil {
		sendDecodeError(w, err)
		return
	}

	resp, err := inspect(source.PathWithOptions(path, s.config.Source), limit)
	if err != nil {
		sendDecodeError(w, err)
		return
	}
	resp.Path = rawPath
	sendSuccess(w, resp)
}

// inspect converts a reader inspection into its JSON form.
func inspect(in source.Opener, limit int) (*InspectResponse, error) {
	ins, err := reader.Inspect(in, limit)
	if err != nil {
		return nil, err
	}

	resp := &InspectResponse{Size: ins.Size, Skipped: ins.Skipped, Records: make([]RecordSummary, 0, len(ins.Records))}
	if ins.Metadata.Present {
		md := ins.Metadata
		resp.Metadata = &md
	}
	for _, r := range ins.Records {
		resp.Records = append(resp.Records, summarize(r.Offset, r.Record))
	}
	return resp, nil
}

// resolvePath applies the configured root. Paths escaping it are rejected
// as unavailable.
func (s *Server) resolvePath(p string) (string, error) {
	if s.config.Root == "" {
		return p, nil
	}
	root, err := filepath.Abs(s.config.Root)
	if err != nil {
		return "", dbn.WrapError(dbn.SourceUnavailable, -1, err)
	}
	full := p
	if !filepath.IsAbs(full) {
		full = filepath.Join(root, p)
	}
	full = filepath.Clean(full)
	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", dbn.NewError(dbn.SourceUnavailable, -1, "%s is outside the served root", p)
	}
	return full, nil
}

// summarize renders m for JSON. An undefined price becomes null.
func summarize(offset int64, m dbn.MBOMsg) RecordSummary {
	var price *float64
	if m.Price != dbn.UndefPrice {
		p := m.PriceFloat()
		price = &p
	}
	return RecordSummary{
		Offset:       offset,
		RType:        m.Header.RType.String(),
		PublisherID:  m.Header.PublisherID,
		InstrumentID: m.Header.InstrumentID,
		TsEvent:      m.Header.TsEvent,
		OrderID:      m.OrderID,
		Price:        price,
		Size:         m.Size,
		Action:       m.Action.String(),
		Side:         m.Side.String(),
		Sequence:     m.Sequence,
	}
}

func statsResponse(method reader.Method, stats reader.ParseStats) *ParseResponse {
	return &ParseResponse{
		Mode:             method,
		Records:          stats.TotalRecords,
		BytesProcessed:   stats.BytesProcessed,
		ElapsedSeconds:   stats.Elapsed.Seconds(),
		RecordsPerSecond: stats.RecordsPerSecond(),
		ThroughputGBps:   stats.ThroughputGBps(),
	}
}

// statusFor maps a decode failure to an HTTP status.
func statusFor(err error) int {
	switch dbn.KindOf(err) {
	case dbn.SourceUnavailable:
		return http.StatusNotFound
	case dbn.InvalidArgument:
		return http.StatusBadRequest
	case dbn.KindUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}

func sendDecodeError(w http.ResponseWriter, err error) {
	resp := APIResponse{
		Success: false,
		Error:   err.Error(),
		Kind:    dbn.KindOf(err).String(),
	}
	if off := dbn.OffsetOf(err); off >= 0 {
		resp.Offset = &off
	}
	writeJSON(w, statusFor(err), resp)
}
