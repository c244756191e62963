// Package server exposes the simulation engine over HTTP.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/rpsim/internal/calculation"
	"github.com/rgehrsitz/rpsim/internal/compare"
	"github.com/rgehrsitz/rpsim/internal/config"
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/output"
	"github.com/rgehrsitz/rpsim/internal/transform"
	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout = 60 * time.Second
	// maxBodySize bounds a plan upload.
	maxBodySize = 1 << 20
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Server routes HTTP requests to the engine.
type Server struct {
	engine  *calculation.Engine
	parser  *config.InputParser
	logger  calculation.Logger
	Timeout time.Duration
}

// New creates a server around an engine.
func New(engine *calculation.Engine, logger calculation.Logger) *Server {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Server{
		engine:  engine,
		parser:  config.NewInputParser(),
		logger:  logger,
		Timeout: defaultTimeout,
	}
}

// ListenAndServe serves requests on addr until the server fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &fasthttp.Server{
		Handler:            s.Handler,
		Name:               "rpsim",
		MaxRequestBodySize: maxBodySize,
	}
	s.logger.Infof("rpsim server listening on %s", addr)
	return srv.ListenAndServe(addr)
}

// Handler is the fasthttp request handler.
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	path := string(ctx.Path())

	switch path {
	case "/health":
		if !ctx.IsGet() {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
			break
		}
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	case "/simulate":
		s.post(ctx, s.handleSimulate)
	case "/validate":
		s.post(ctx, s.handleValidate)
	case "/compare":
		s.post(ctx, s.handleCompare)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found: "+path)
	}
	s.logger.Debugf("%s %s -> %d (%s)", ctx.Method(), path, ctx.Response.StatusCode(), time.Since(start))
}

func (s *Server) post(ctx *fasthttp.RequestCtx, h func(*fasthttp.RequestCtx, *domain.PlanInput)) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var plan domain.PlanInput
	if err := json.Unmarshal(ctx.PostBody(), &plan); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	h(ctx, &plan)
}

func (s *Server) handleValidate(ctx *fasthttp.RequestCtx, plan *domain.PlanInput) {
	if err := s.parser.ValidatePlan(plan); err != nil {
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]bool{"valid": true})
}

// handleSimulate runs a plan. The optional "format" query argument selects
// any registered report formatter; the default is the JSON result.
func (s *Server) handleSimulate(ctx *fasthttp.RequestCtx, plan *domain.PlanInput) {
	if err := s.parser.ValidatePlan(plan); err != nil {
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err.Error())
		return
	}
	format := string(ctx.QueryArgs().Peek("format"))
	if format == "" {
		format = "json"
	}
	f := output.GetFormatterByName(format)
	if f == nil {
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Sprintf("unsupported format: %s", format))
		return
	}

	runCtx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()
	result, err := s.engine.Run(runCtx, *plan)
	if err != nil {
		s.logger.Errorf("simulation failed: %v", err)
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}

	data, err := f.Format(result)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType(contentType(f.Name()))
	ctx.SetBody(data)
}

// handleCompare runs the plan under each withdrawal order, or under the
// comma-separated templates given in the "with" query argument.
func (s *Server) handleCompare(ctx *fasthttp.RequestCtx, plan *domain.PlanInput) {
	if err := s.parser.ValidatePlan(plan); err != nil {
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err.Error())
		return
	}
	opts := compare.CompareOptions{
		Templates: transform.ParseTemplateList(string(ctx.QueryArgs().Peek("with"))),
	}

	runCtx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()
	compSet, err := compare.NewCompareEngine(s.engine).Compare(runCtx, plan, opts)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, compSet)
}

func contentType(format string) string {
	switch format {
	case "json":
		return "application/json"
	case "csv", "csv-summary":
		return "text/csv; charset=utf-8"
	case "html":
		return "text/html; charset=utf-8"
	case "pdf":
		return "application/pdf"
	default:
		return "text/plain; charset=utf-8"
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(data)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	data, _ := json.Marshal(ErrorResponse{Status: status, Message: message})
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(data)
}
