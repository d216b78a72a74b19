package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"

	"github.com/avitaltamir/prettygit/internal/filetree"
	"github.com/avitaltamir/prettygit/internal/git"
	"github.com/avitaltamir/prettygit/internal/preview"
	"github.com/avitaltamir/prettygit/internal/session"
)

var errBadRequest = errors.New("malformed request body")

type successBody struct {
	Type string `json:"type"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}

type errorBody struct {
	Type   string `json:"type"`
	Msg    string `json:"msg"`
	Code   int    `json:"code"`
	Stderr string `json:"stderr,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, successBody{Type: "success", Msg: msg})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorBody{Type: "error", Msg: err.Error(), Code: status}

	var toolErr *git.ExternalToolError
	if errors.As(err, &toolErr) {
		body.Stderr = toolErr.Diagnostic()
	}

	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.log.Debug("request rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, body)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var accessErr *filetree.DirectoryAccessError
	switch {
	case errors.As(err, &accessErr),
		errors.Is(err, errBadRequest),
		errors.Is(err, session.ErrInvalidName),
		errors.Is(err, session.ErrEmptyMessage),
		errors.Is(err, git.ErrInvalidRemote),
		errors.Is(err, git.ErrUnknownVisibility),
		errors.Is(err, preview.ErrBinary),
		errors.Is(err, preview.ErrNotRegular):
		return http.StatusBadRequest
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNotRepository),
		errors.Is(err, git.ErrAlreadyRepository):
		return http.StatusConflict
	case errors.Is(err, git.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
