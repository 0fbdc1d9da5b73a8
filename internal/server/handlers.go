package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/nicktperez/resume-tailor/internal/diff"
	"github.com/nicktperez/resume-tailor/internal/server/middleware"
	"github.com/nicktperez/resume-tailor/internal/types"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 50
)

// handleMe returns the authenticated user's profile.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	dbUser, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if dbUser == nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	s.jsonResponse(w, http.StatusOK, convertDBUserToTypesUser(dbUser))
}

// handleGenerate runs the tailoring pipeline for the authenticated user.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	dbUser, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if dbUser == nil {
		// Token outlived the account.
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	user := convertDBUserToTypesUser(dbUser)

	// A posting URL substitutes for pasted text, never overrides it.
	if req.JobDescriptionURL != "" && strings.TrimSpace(req.JobDescription) == "" {
		text, err := s.fetchJobText(r.Context(), req.JobDescriptionURL)
		if err != nil {
			log.Printf("[generate] job posting fetch failed: %v", err)
			s.errorResponse(w, http.StatusBadRequest, "Could not read the job posting URL. Paste the description instead.")
			return
		}
		req.JobDescription = text
	}

	resp, fromCache, err := s.generator.Generate(r.Context(), user, &req)
	if err != nil {
		status := HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			log.Printf("[generate] pipeline error for user %s: %v", userID, err)
		}
		s.errorResponse(w, status, SafeMessage(err))
		return
	}

	if fromCache {
		w.Header().Set("X-Cache", "HIT")
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleListGenerations returns the user's most recent generations.
func (s *Server) handleListGenerations(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		if parsed > maxHistoryLimit {
			parsed = maxHistoryLimit
		}
		limit = parsed
	}

	records, err := s.store.ListGenerations(r.Context(), userID, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if records == nil {
		records = []types.GenerationRecord{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"generations": records})
}

// handleGetGeneration returns one generation owned by the user.
func (s *Server) handleGetGeneration(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	generationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid generation ID format")
		return
	}

	record, err := s.store.GetGeneration(r.Context(), userID, generationID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if record == nil {
		s.errorResponse(w, http.StatusNotFound, "Generation not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

// handleDiff computes a line diff, either between two inline documents or
// between the original and generated resumes of a stored generation.
func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	var req types.DiffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	before, after := req.Before, req.After
	if req.GenerationID != "" {
		userID, err := middleware.GetUserID(r)
		if err != nil {
			s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		generationID, err := uuid.Parse(req.GenerationID)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid generation ID format")
			return
		}

		record, err := s.store.GetGeneration(r.Context(), userID, generationID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if record == nil {
			s.errorResponse(w, http.StatusNotFound, "Generation not found")
			return
		}
		before, after = record.OriginalResume, record.GeneratedResume
	}

	segments := diff.ComputeLineDiff(before, after)
	s.jsonResponse(w, http.StatusOK, map[string]any{"segments": segments})
}
