package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kirillkom/resume-ranker/internal/config"
	"github.com/kirillkom/resume-ranker/internal/core/domain"
	"github.com/kirillkom/resume-ranker/internal/core/ports"
	"github.com/kirillkom/resume-ranker/internal/observability/metrics"
)

const (
	serviceName = "resume-ranker-api"

	// multipartMemory is the in-memory part of a parsed form; larger files spill to disk.
	multipartMemory = 8 << 20
	queueWait       = 250 * time.Millisecond
)

type Router struct {
	cfg      config.Config
	ranker   ports.ResumeRanker
	comparer ports.ResumeComparer
	metrics  *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	ranker ports.ResumeRanker,
	comparer ports.ResumeComparer,
	m *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:      cfg,
		ranker:   ranker,
		comparer: comparer,
		metrics:  m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /openapi.json", rt.openAPI)
	mux.HandleFunc("POST /v1/rank", rt.rankDocument)
	mux.HandleFunc("POST /v1/rank/text", rt.rankText)
	mux.HandleFunc("POST /v1/compare", rt.compareDocuments)
	mux.HandleFunc("POST /v1/compare/text", rt.compareText)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, queueWait)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) openAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := loadAPISpec()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) rankDocument(w http.ResponseWriter, r *http.Request) {
	if err := rt.parseMultipart(w, r); err != nil {
		rt.fail(w, r, "rank", err)
		return
	}
	resume, err := readUpload(r, "file")
	if err != nil {
		rt.fail(w, r, "rank", err)
		return
	}

	result, err := rt.ranker.RankDocument(r.Context(), r.FormValue("job_description"), resume)
	if err != nil {
		rt.fail(w, r, "rank", err)
		return
	}
	rt.recordRank("document", result)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) rankText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ResumeText     string `json:"resume_text"`
		JobDescription string `json:"job_description"`
	}
	if err := decodeJSON(w, r, rt.cfg.MaxUploadBytes, &req); err != nil {
		rt.fail(w, r, "rank", err)
		return
	}

	result, err := rt.ranker.Rank(r.Context(), req.ResumeText, req.JobDescription)
	if err != nil {
		rt.fail(w, r, "rank", err)
		return
	}
	rt.recordRank("text", result)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) compareDocuments(w http.ResponseWriter, r *http.Request) {
	if err := rt.parseMultipart(w, r); err != nil {
		rt.fail(w, r, "compare", err)
		return
	}
	first, err := readUpload(r, "file1")
	if err != nil {
		rt.fail(w, r, "compare", err)
		return
	}
	second, err := readUpload(r, "file2")
	if err != nil {
		rt.fail(w, r, "compare", err)
		return
	}

	result, err := rt.comparer.CompareDocuments(r.Context(), first, second)
	if err != nil {
		rt.fail(w, r, "compare", err)
		return
	}
	rt.recordCompare("document", result)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) compareText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text1 string `json:"text1"`
		Text2 string `json:"text2"`
	}
	if err := decodeJSON(w, r, rt.cfg.MaxUploadBytes, &req); err != nil {
		rt.fail(w, r, "compare", err)
		return
	}

	result, err := rt.comparer.Compare(r.Context(), req.Text1, req.Text2)
	if err != nil {
		rt.fail(w, r, "compare", err)
		return
	}
	rt.recordCompare("text", result)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	if rt.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return domain.WrapError(domain.ErrInvalidInput, "parse multipart form", err)
	}
	return nil
}

func readUpload(r *http.Request, field string) (domain.Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return domain.Upload{}, domain.WrapError(domain.ErrInvalidInput, "read upload", fmt.Errorf("multipart field %q is required", field))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.Upload{}, fmt.Errorf("read upload %q: %w", header.Filename, err)
	}
	return domain.Upload{Filename: header.Filename, Data: data}, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return domain.WrapError(domain.ErrInvalidInput, "decode json", err)
	}
	return nil
}

func (rt *Router) fail(w http.ResponseWriter, r *http.Request, operation string, err error) {
	if rt.metrics != nil {
		rt.metrics.RecordFailure(serviceName, operation, domain.KindOf(err))
	}
	writeError(w, r, err)
}

func (rt *Router) recordRank(source string, result *domain.RankResult) {
	if rt.metrics != nil {
		rt.metrics.RecordRank(serviceName, source, string(result.Category), result.Percentage)
	}
}

func (rt *Router) recordCompare(source string, result *domain.CompareResult) {
	if rt.metrics != nil {
		rt.metrics.RecordCompare(serviceName, source, result.Percentage)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
