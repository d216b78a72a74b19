package server

import (
	"fmt"
	"net/http"

	"github.com/avitaltamir/prettygit/internal/filetree"
	"github.com/avitaltamir/prettygit/internal/git"
	"github.com/avitaltamir/prettygit/internal/preview"
	"github.com/avitaltamir/prettygit/internal/session"
)

func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.Snapshot())
}

func (s *Server) handleListing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.Listing())
}

type statusResponse struct {
	Files     map[string]git.FileStatus `json:"files"`
	IsRepo    bool                      `json:"isRepo"`
	Clean     bool                      `json:"clean"`
	Staged    int                       `json:"staged"`
	Modified  int                       `json:"modified"`
	Untracked int                       `json:"untracked"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	st := &git.Status{Files: s.sess.StatusMap()}
	resp := statusResponse{Files: st.Files, IsRepo: s.sess.IsRepository(), Clean: st.IsClean()}
	resp.Staged, resp.Modified, resp.Untracked = st.Counts()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRepo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.IsRepository())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.Refresh(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sess.Snapshot())
}

func (s *Server) handleForward(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DirName string `json:"dirName"`
	}
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := s.sess.NavigateForward(r.Context(), req.DirName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleBackward(w http.ResponseWriter, r *http.Request) {
	moved, err := s.sess.NavigateBackward(r.Context())
	s.writeMove(w, r, moved, err)
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	moved, err := s.sess.NavigateRedo(r.Context())
	s.writeMove(w, r, moved, err)
}

func (s *Server) writeMove(w http.ResponseWriter, r *http.Request, moved bool, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap := s.sess.Snapshot()
	writeJSON(w, http.StatusOK, struct {
		Moved   bool              `json:"moved"`
		Session *session.Snapshot `json:"session"`
	}{moved, snap})
}

// mutation decodes req, runs op and writes the success envelope.
func (s *Server) mutation(w http.ResponseWriter, r *http.Request, req any, op func() (string, error)) {
	if req != nil {
		if err := decode(w, r, req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	msg, err := op()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeSuccess(w, msg)
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DirName string `json:"dirName"`
	}
	s.mutation(w, r, &req, func() (string, error) {
		return s.sess.Init(r.Context(), req.DirName)
	})
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FilePath string `json:"filePath"`
	}
	s.mutation(w, r, &req, func() (string, error) {
		return s.sess.Add(r.Context(), req.FilePath)
	})
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CommitMessage string `json:"commitMessage"`
	}
	s.mutation(w, r, &req, func() (string, error) {
		return s.sess.Commit(r.Context(), req.CommitMessage)
	})
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileName string `json:"fileName"`
	}
	staged := r.PathValue("staged") == "1"
	s.mutation(w, r, &req, func() (string, error) {
		return s.sess.Restore(r.Context(), req.FileName, staged)
	})
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileName string `json:"fileName"`
	}
	cached := r.PathValue("cached") == "1"
	s.mutation(w, r, &req, func() (string, error) {
		return s.sess.Remove(r.Context(), req.FileName, cached)
	})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldFileName string `json:"oldFileName"`
		NewFileName string `json:"newFileName"`
	}
	s.mutation(w, r, &req, func() (string, error) {
		return s.sess.Move(r.Context(), req.OldFileName, req.NewFileName)
	})
}

func (s *Server) handleBranches(w http.ResponseWriter, r *http.Request) {
	list, err := s.sess.Branches(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Type: "success", Data: list})
}

func (s *Server) handleBranch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode       string `json:"mode"`
		BranchName string `json:"branchName"`
		NewName    string `json:"newName"`
	}
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	var (
		msg string
		err error
	)
	switch req.Mode {
	case "get":
		branch, _ := s.sess.CurrentBranch()
		writeJSON(w, http.StatusOK, successBody{Type: "success", Data: branch})
		return
	case "create":
		msg, err = s.sess.CreateBranch(ctx, req.BranchName)
	case "delete":
		msg, err = s.sess.DeleteBranch(ctx, req.BranchName)
	case "rename":
		msg, err = s.sess.RenameBranch(ctx, req.BranchName, req.NewName)
	case "checkout":
		msg, err = s.sess.Checkout(ctx, req.BranchName)
	default:
		err = fmt.Errorf("%w: unknown branch mode %q", errBadRequest, req.Mode)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeSuccess(w, msg)
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetBranch string `json:"targetBranch"`
	}
	s.mutation(w, r, &req, func() (string, error) {
		return s.sess.Merge(r.Context(), req.TargetBranch)
	})
}

func (s *Server) handleClone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RemoteAddress string `json:"remoteAddress"`
		IsPrivateRepo string `json:"isPrivateRepo"`
	}
	s.mutation(w, r, &req, func() (string, error) {
		return s.sess.Clone(r.Context(), req.RemoteAddress, git.Visibility(req.IsPrivateRepo))
	})
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	diff, err := s.sess.Diff(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.preview.Diff(name, diff))
}

// handlePreview renders a file of the current directory together with the
// git status it has in the listing.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	path, err := s.sess.Resolve(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.preview.File(path)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, _ := filetree.Find(s.sess.Listing(), name)
	writeJSON(w, http.StatusOK, struct {
		*preview.Result
		Status     git.Category `json:"status,omitempty"`
		ChangeType string       `json:"changeType,omitempty"`
	}{res, entry.Status, entry.ChangeType})
}
