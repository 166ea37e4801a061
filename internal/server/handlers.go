package server

import (
	"context"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/matzehuels/treeviz/pkg/buildinfo"
	"github.com/matzehuels/treeviz/pkg/datatree"
	"github.com/matzehuels/treeviz/pkg/errors"
	pkgio "github.com/matzehuels/treeviz/pkg/io"
	"github.com/matzehuels/treeviz/pkg/pipeline"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	tree, ok := s.readTree(w, r)
	if !ok {
		return
	}
	data, hit, err := s.runner.DescribeJSON(r.Context(), tree, queryBool(r, "refresh"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(hit))
	w.Header().Set("Content-Type", contentTypes[pipeline.FormatJSON])
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tree, ok := s.readTree(w, r)
	if !ok {
		return
	}

	result, err := s.runner.Execute(r.Context(), tree, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	format := opts.Formats[0]
	if pipeline.IsImageFormat(format) {
		w.Header().Set("X-Cache", cacheHeader(result.CacheInfo.RenderHit()))
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[format])
}

// renderOptions merges query parameters into the server defaults.
func (s *Server) renderOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	q := r.URL.Query()

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}
	if v := q.Get("engine"); v != "" {
		opts.Engine = v
	}
	if v := q.Get("rank_dir"); v != "" {
		opts.RankDir = v
	}
	if v := q.Get("font_name"); v != "" {
		opts.FontName = v
	}
	if v := q.Get("font_size"); v != "" {
		size, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "font_size must be a number, got %q", v)
		}
		opts.FontSize = size
	}
	opts.Refresh = queryBool(r, "refresh")
	return opts, nil
}

// readTree decodes the request body. On failure it writes the error
// response and returns false.
func (s *Server) readTree(w http.ResponseWriter, r *http.Request) (*datatree.Tree, bool) {
	format, err := inputFormat(r)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE",
				"request body exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
			return nil, false
		}
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return nil, false
	}

	tree, err := pkgio.ReadTreeBytes(body, format)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return tree, true
}

// inputFormat reads the document encoding from ?input= or Content-Type.
func inputFormat(r *http.Request) (pkgio.Format, error) {
	if v := r.URL.Query().Get("input"); v != "" {
		return pkgio.ParseFormat(v)
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return pkgio.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "bad Content-Type %q", ct)
	}
	switch mt {
	case "application/json", "text/json", "text/plain":
		return pkgio.FormatJSON, nil
	case "application/toml", "text/toml":
		return pkgio.FormatTOML, nil
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return pkgio.FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported Content-Type %q (use json, toml or yaml)", mt)
	}
}

// fail maps err to a status and writes the JSON error. Internal errors are
// logged and reported without detail.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errors.GetCode(err))
	msg := errors.UserMessage(err)
	switch {
	case status == http.StatusGatewayTimeout:
		code, msg = "TIMEOUT", "request timed out"
	case status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable:
		s.logger.Error("request failed", "error", err, "request_id", RequestID(r.Context()))
		code, msg = string(errors.ErrCodeInternal), "internal server error"
	}
	writeError(w, r, status, code, msg)
}

func statusFor(err error) int {
	switch errors.ClassOf(err) {
	case errors.ClassInput:
		return http.StatusBadRequest
	case errors.ClassNotFound:
		return http.StatusNotFound
	case errors.ClassSemantic:
		return http.StatusUnprocessableEntity
	case errors.ClassUnavailable:
		return http.StatusServiceUnavailable
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func queryBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

func cacheHeader(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
