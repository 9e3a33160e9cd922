package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/doctoc/internal/config"
	"github.com/dgallion1/doctoc/internal/parser"
	"github.com/dgallion1/doctoc/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// handleGenerate builds the table of contents for one uploaded document.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	req, format, err := s.requestFromForm(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := s.readUpload(file)
	if err != nil {
		jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	start := time.Now()
	res, err := pipeline.Generate(data, filename, req)
	if err != nil {
		s.log.Warn("generate failed", "filename", filename, "error", err)
		status := http.StatusUnprocessableEntity
		if errors.Is(err, parser.ErrInvalidSelector) {
			status = http.StatusBadRequest
		}
		jsonError(w, err.Error(), status)
		return
	}
	if latency := s.orchestrator.Latency(); latency != nil {
		latency.Record(time.Since(start))
	}

	if format == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if res.HTML == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		io.WriteString(w, res.HTML)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename": filename,
		"headings": res.Headings,
		"html":     res.HTML,
		"tree":     res.Tree,
	})
}

// handleSubmitJobs queues one asynchronous job per uploaded file.
func (s *Server) handleSubmitJobs(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	req, _, err := s.requestFromForm(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	var results []map[string]any
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)),
			})
			continue
		}

		f, err := fh.Open()
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    "failed to open file",
			})
			continue
		}
		data, err := s.readUpload(f)
		f.Close()
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    err.Error(),
			})
			continue
		}

		job := pipeline.NewJob(filename, data, req)
		if err := s.orchestrator.Submit(job); err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"job_id":   job.ID,
				"error":    err.Error(),
			})
			continue
		}

		results = append(results, map[string]any{
			"filename": filename,
			"job_id":   job.ID,
			"status":   job.Snapshot().Status,
			"poll_url": fmt.Sprintf("/api/toc/jobs/%s", job.ID),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{"jobs": results})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// requestFromForm starts from the configured defaults and applies any
// per-request overrides. It also returns the requested response format.
func (s *Server) requestFromForm(r *http.Request) (pipeline.Request, string, error) {
	req := pipeline.DefaultRequest(s.cfg.TOC)

	if vals, ok := r.Form["tags"]; ok {
		req.Extract.Tags = splitValues(vals)
	}
	if vals, ok := r.Form["ignored_headings"]; ok {
		req.Extract.IgnoredHeadings = splitValues(vals)
	}
	if vals, ok := r.Form["ignored_elements"]; ok {
		req.Extract.IgnoredElements = splitValues(vals)
	}

	ul, err := formBool(r, "ul", s.cfg.TOC.Unordered)
	if err != nil {
		return req, "", err
	}
	req.Render.Unordered = ul

	wrap, err := formBool(r, "wrap", !s.cfg.TOC.NoWrap)
	if err != nil {
		return req, "", err
	}
	navClass := s.cfg.TOC.NavClass
	if _, ok := r.Form["nav_class"]; ok {
		navClass = r.FormValue("nav_class")
	}
	req.Render.Wrapper = pipeline.Wrapper(navClass, !wrap)

	req.IncludeTree, err = formBool(r, "tree", false)
	if err != nil {
		return req, "", err
	}

	format := r.FormValue("format")
	switch format {
	case "":
		format = "json"
	case "json", "html":
	default:
		return req, "", fmt.Errorf("unknown format %q", format)
	}

	return req, format, nil
}

func (s *Server) readUpload(f multipart.File) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, errors.New("failed to read file")
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}
	return data, nil
}

func formBool(r *http.Request, key string, fallback bool) (bool, error) {
	v := r.FormValue(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}

func splitValues(vals []string) []string {
	out := []string{}
	for _, v := range vals {
		out = append(out, config.SplitList(v)...)
	}
	return out
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
