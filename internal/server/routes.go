package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/codescope-ai/codescope/internal/config"
	"github.com/codescope-ai/codescope/internal/indexer"
	"github.com/codescope-ai/codescope/internal/llm"
	"github.com/codescope-ai/codescope/internal/retriever"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func handleHealth(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":     "ok",
			"collection": cfg.Collection,
			"store":      string(cfg.Store),
		})
	}
}

type indexRequest struct {
	Path  string `json:"path"`
	Force bool   `json:"force"`
}

func handleIndexStart(svc *indexer.Service, cfg *config.Config, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req indexRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Path == "" {
			req.Path = cfg.Workspace
		}
		if req.Path == "" {
			writeError(w, http.StatusBadRequest, "path is required")
			return
		}

		err := svc.Start(req.Path, req.Force)
		switch {
		case errors.Is(err, indexer.ErrBusy):
			writeError(w, http.StatusConflict, "indexing already in progress")
		case errors.Is(err, indexer.ErrRootNotFound):
			writeError(w, http.StatusBadRequest, "root directory not found")
		case err != nil:
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			logger.Info("indexing accepted", zap.String("path", req.Path))
			writeJSON(w, http.StatusAccepted, map[string]string{
				"status": "accepted",
				"path":   req.Path,
			})
		}
	}
}

func handleIndexStatus(svc *indexer.Service, cfg *config.Config) http.HandlerFunc {
	type statusResponse struct {
		indexer.CollectionStatus
		Run indexer.Status `json:"run"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Query().Get("path")
		if path == "" {
			path = cfg.Workspace
		}
		if path == "" {
			writeError(w, http.StatusBadRequest, "path query parameter is required")
			return
		}

		cs, err := svc.CollectionStatus(r.Context(), path)
		switch {
		case errors.Is(err, indexer.ErrRootNotFound):
			writeError(w, http.StatusBadRequest, "root directory not found")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, statusResponse{CollectionStatus: cs, Run: svc.Status(path)})
	}
}

func handleIndexClear(svc *indexer.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		logger.Info("index cleared")
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	}
}

type searchRequest struct {
	Query        string `json:"query"`
	Limit        int    `json:"limit"`
	ProjectScope string `json:"project_scope"`
}

func handleSearch(ret *retriever.Retriever) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Query == "" {
			writeError(w, http.StatusBadRequest, "query is required")
			return
		}

		chunks, err := ret.Search(r.Context(), retriever.Request{
			Query:        req.Query,
			Limit:        req.Limit,
			ProjectScope: req.ProjectScope,
		})
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"results": chunks,
			"count":   len(chunks),
		})
	}
}

type chatRequest struct {
	Question     string `json:"question"`
	Limit        int    `json:"limit"`
	ProjectScope string `json:"project_scope"`
}

const chatSystemPrompt = "You are a code assistant. Answer using only the provided code context. " +
	"Cite files and line ranges from the context. If the context does not contain the answer, say so."

func handleChat(ret *retriever.Retriever, chat llm.Provider, model string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if chat == nil {
			writeError(w, http.StatusServiceUnavailable, "no chat model configured")
			return
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Question == "" {
			writeError(w, http.StatusBadRequest, "question is required")
			return
		}

		chunks, err := ret.Search(r.Context(), retriever.Request{
			Query:        req.Question,
			Limit:        req.Limit,
			ProjectScope: req.ProjectScope,
		})
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}

		resp, err := chat.Complete(r.Context(), llm.CompletionRequest{
			Model: model,
			Messages: []llm.Message{
				{Role: llm.RoleSystem, Content: chatSystemPrompt},
				{Role: llm.RoleUser, Content: "Context:\n" + retriever.BuildContext(chunks) + "\n\nQuestion: " + req.Question},
			},
		})
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"answer":       resp.Content,
			"sources":      chunks,
			"context_used": len(chunks) > 0,
		})
	}
}
