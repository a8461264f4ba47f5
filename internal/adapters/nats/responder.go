// Package natsadapter exposes ranking and comparison as JSON request-reply
// handlers for the scoring worker.
package natsadapter

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/kirillkom/resume-ranker/internal/core/domain"
	"github.com/kirillkom/resume-ranker/internal/core/ports"
)

const serviceName = "resume-ranker-worker"

var errEitherBothDocuments = errors.New("document1 and document2 must be sent together")

// DocumentPayload carries an uploaded file. Data is base64 in JSON.
type DocumentPayload struct {
	Filename string `json:"filename"`
	Data     []byte `json:"data"`
}

func (p *DocumentPayload) upload() domain.Upload {
	return domain.Upload{Filename: p.Filename, Data: p.Data}
}

// RankRequest ranks Document when set, ResumeText otherwise.
type RankRequest struct {
	ResumeText     string           `json:"resume_text,omitempty"`
	Document       *DocumentPayload `json:"document,omitempty"`
	JobDescription string           `json:"job_description"`
}

// CompareRequest compares the two documents when both are set, the texts otherwise.
type CompareRequest struct {
	Text1     string           `json:"text1,omitempty"`
	Text2     string           `json:"text2,omitempty"`
	Document1 *DocumentPayload `json:"document1,omitempty"`
	Document2 *DocumentPayload `json:"document2,omitempty"`
}

type Reply[T any] struct {
	Result *T     `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

type ScoreRecorder interface {
	RecordRank(service, source, category string, percentage float64)
	RecordCompare(service, source string, percentage float64)
	RecordFailure(service, operation, kind string)
}

type Responder struct {
	ranker   ports.ResumeRanker
	comparer ports.ResumeComparer
	recorder ScoreRecorder
}

func NewResponder(ranker ports.ResumeRanker, comparer ports.ResumeComparer, recorder ScoreRecorder) *Responder {
	return &Responder{
		ranker:   ranker,
		comparer: comparer,
		recorder: recorder,
	}
}

func (r *Responder) HandleRank(ctx context.Context, data []byte) ([]byte, error) {
	var req RankRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return r.failure("rank", domain.WrapError(domain.ErrInvalidInput, "decode rank request", err))
	}

	var (
		result *domain.RankResult
		err    error
		source = "text"
	)
	if req.Document != nil {
		source = "document"
		result, err = r.ranker.RankDocument(ctx, req.JobDescription, req.Document.upload())
	} else {
		result, err = r.ranker.Rank(ctx, req.ResumeText, req.JobDescription)
	}
	if err != nil {
		return r.failure("rank", err)
	}

	if r.recorder != nil {
		r.recorder.RecordRank(serviceName, source, string(result.Category), result.Percentage)
	}
	return json.Marshal(Reply[domain.RankResult]{Result: result})
}

func (r *Responder) HandleCompare(ctx context.Context, data []byte) ([]byte, error) {
	var req CompareRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return r.failure("compare", domain.WrapError(domain.ErrInvalidInput, "decode compare request", err))
	}

	var (
		result *domain.CompareResult
		err    error
		source = "text"
	)
	switch {
	case req.Document1 != nil && req.Document2 != nil:
		source = "document"
		result, err = r.comparer.CompareDocuments(ctx, req.Document1.upload(), req.Document2.upload())
	case req.Document1 != nil || req.Document2 != nil:
		err = domain.WrapError(domain.ErrInvalidInput, "compare request", errEitherBothDocuments)
	default:
		result, err = r.comparer.Compare(ctx, req.Text1, req.Text2)
	}
	if err != nil {
		return r.failure("compare", err)
	}

	if r.recorder != nil {
		r.recorder.RecordCompare(serviceName, source, result.Percentage)
	}
	return json.Marshal(Reply[domain.CompareResult]{Result: result})
}

// failure encodes err as an error reply and also returns it for logging.
func (r *Responder) failure(operation string, err error) ([]byte, error) {
	kind := domain.KindOf(err)
	if r.recorder != nil {
		r.recorder.RecordFailure(serviceName, operation, kind)
	}
	reply, encErr := json.Marshal(Reply[struct{}]{Error: domain.UserMessage(err), Kind: kind})
	if encErr != nil {
		return nil, encErr
	}
	return reply, err
}
