// =============================================================================
// Atlassian Quote Converter - HTTP Upload Server
// =============================================================================
//
// This module provides the browser-facing front end: a multi-file upload
// form posting to /convert, which runs each document through the conversion
// pipeline and answers with either a single workbook or a ZIP bundle.
//
// RESPONSE CONTRACT:
//   - One successful conversion: the .xlsx itself, named by the configured
//     download format.
//   - Several successes: a deflate ZIP bundle of the workbooks.
//   - No successes: 422 with the per-file reports as JSON.
//   Every /convert response carries an X-Conversion-Report header with a
//   compact JSON summary of per-file outcomes, so scripted clients can act
//   on partial failures without parsing the body.
//
// RESOURCE LIMITS:
//   Requests are rate limited (token bucket), upload size is capped, and a
//   semaphore bounds how many conversions run at once.
//
// =============================================================================

package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/minhtrinh06/atlassian-quotes/internal/config"
	"github.com/minhtrinh06/atlassian-quotes/internal/converter"
	"github.com/minhtrinh06/atlassian-quotes/pkg/utils"
)

//go:embed index.html
var indexPage []byte

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const shutdownTimeout = 10 * time.Second

// Server is the HTTP upload front end around the conversion pipeline.
type Server struct {
	cfg     config.ServerConfig
	logger  *zap.Logger
	limiter *rate.Limiter
	sem     chan struct{}
}

// New creates a Server from the given configuration.
func New(cfg config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		cfg:     cfg,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		sem:     make(chan struct{}, cfg.MaxConcurrent),
	}
}

// Handler builds the routing tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(s.rateLimit)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Post("/convert", s.handleConvert)

	return r
}

// Run starts the server and blocks until the context is canceled or the
// listener fails. On cancellation, in-flight requests are drained for up to
// shutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("upload server listening", zap.String("addr", s.cfg.Addr))

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("upload server stopped")
	return nil
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexPage)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleConvert accepts one or many multipart "files" parts, converts each,
// and responds per the module contract above.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	batchID := uuid.New().String()
	maxBytes := s.cfg.MaxUploadMB << 20

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}
	defer r.MultipartForm.RemoveAll()

	uploads := r.MultipartForm.File["files"]
	if len(uploads) == 0 {
		s.writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	var (
		bundle  []utils.ZipEntry
		reports []converter.Report
	)
	for _, header := range uploads {
		data, report := s.convertUpload(header)
		reports = append(reports, report)
		if report.Status == converter.StatusSuccess {
			bundle = append(bundle, utils.ZipEntry{
				Name: utils.OutputFileName(s.cfg.DownloadNameFormat, header.Filename),
				Data: data,
			})
		}
	}

	s.logger.Info("processed upload batch",
		zap.String("batch_id", batchID),
		zap.Int("files", len(uploads)),
		zap.Int("converted", len(bundle)),
	)

	summaries := reportSummaries(reports)
	if header, err := json.Marshal(summaries); err == nil {
		w.Header().Set("X-Conversion-Report", string(header))
	}

	switch len(bundle) {
	case 0:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]interface{}{"reports": summaries})

	case 1:
		w.Header().Set("Content-Type", contentTypeXLSX)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", bundle[0].Name))
		w.Write(bundle[0].Data)

	default:
		data, err := utils.BuildZipBundle(bundle)
		if err != nil {
			s.logger.Error("failed to build bundle", zap.String("batch_id", batchID), zap.Error(err))
			s.writeError(w, http.StatusInternalServerError, "failed to build download bundle")
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.cfg.ArchiveName))
		w.Write(data)
	}
}

// convertUpload reads one uploaded file and runs it through the pipeline,
// holding a semaphore slot for the duration of the conversion.
func (s *Server) convertUpload(header *multipart.FileHeader) ([]byte, converter.Report) {
	s.sem <- struct{}{}
	defer func() { <-s.sem }()

	file, err := header.Open()
	if err != nil {
		return nil, uploadFailure(header.Filename, err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, uploadFailure(header.Filename, err)
	}

	return converter.Convert(header.Filename, content)
}

func uploadFailure(filename string, err error) converter.Report {
	return converter.Report{
		Filename: filename,
		Status:   converter.StatusError,
		Message:  fmt.Sprintf("Error processing file: %v", err),
	}
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

// reportSummary is the compact per-file outcome carried in the
// X-Conversion-Report header and in error response bodies.
type reportSummary struct {
	Filename string           `json:"filename"`
	Status   converter.Status `json:"status"`
	Message  string           `json:"message"`
}

func reportSummaries(reports []converter.Report) []reportSummary {
	summaries := make([]reportSummary, len(reports))
	for i, report := range reports {
		summaries[i] = reportSummary{
			Filename: report.Filename,
			Status:   report.Status,
			Message:  report.Message,
		}
	}
	return summaries
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
