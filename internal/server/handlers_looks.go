package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jonathan/look-composer/internal/catalog"
	"github.com/jonathan/look-composer/internal/jobstore"
	"github.com/jonathan/look-composer/internal/schemas"
)

// maxPlanBytes bounds the request body for plan submissions.
const maxPlanBytes = 1 << 20

// lookStatusResponse is the GET /api/looks/{id} payload.
type lookStatusResponse struct {
	LookID   string                           `json:"look_id"`
	Status   string                           `json:"status"`
	Progress map[string]jobstore.SlotProgress `json:"progress"`
	Errors   []jobstore.JobError              `json:"errors,omitempty"`
	Result   *catalog.LookResponse            `json:"result,omitempty"`
}

func statusFromJob(job *jobstore.Job) lookStatusResponse {
	return lookStatusResponse{
		LookID:   job.LookID,
		Status:   job.Status,
		Progress: job.Progress,
		Errors:   job.Errors,
		Result:   job.Result,
	}
}

// handleCreateLook accepts a style plan, validates it, and starts assembly
// in the background. The client polls or subscribes for the outcome.
func (s *Server) handleCreateLook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPlanBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if s.schemaPath != "" {
		if err := schemas.ValidateBytes(s.schemaPath, body); err != nil {
			if validationErr, ok := err.(*schemas.ValidationError); ok {
				s.validationResponse(w, validationErr)
				return
			}
			s.logger.Error().Err(err).Msg("schema check unavailable")
			s.errorResponse(w, http.StatusInternalServerError, "plan validation unavailable")
			return
		}
	}

	var plan catalog.StylePlan
	if err := json.Unmarshal(body, &plan); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "malformed plan JSON: "+err.Error())
		return
	}
	if err := plan.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// Assembly outlives the request; it carries its own deadlines
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := s.assembler.Assemble(ctx, &plan); err != nil {
			s.logger.Error().Err(err).Str("look_id", plan.LookID).Msg("assembly failed to start")
		}
	}()

	s.jsonResponse(w, http.StatusAccepted, map[string]string{
		"look_id": plan.LookID,
		"status":  catalog.StatusQueued,
	})
}

// handleGetLook returns the current state of a look's assembly job.
func (s *Server) handleGetLook(w http.ResponseWriter, r *http.Request) {
	lookID := chi.URLParam(r, "look_id")

	job, err := s.store.GetByLookID(r.Context(), lookID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "look not found: "+lookID)
		return
	}

	s.jsonResponse(w, http.StatusOK, statusFromJob(job))
}

// handleLookEvents streams job state changes over SSE until the job reaches
// a terminal status or the client disconnects.
func (s *Server) handleLookEvents(w http.ResponseWriter, r *http.Request) {
	lookID := chi.URLParam(r, "look_id")

	job, err := s.store.GetByLookID(r.Context(), lookID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "look not found: "+lookID)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := sse.WriteEvent("status", statusFromJob(job)); err != nil {
		return
	}
	if job.Terminal() {
		sse.WriteComplete(job.LookID, job.Status)
		return
	}

	lastStatus := job.Status
	lastUpdated := job.UpdatedAt

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		job, err := s.store.GetByLookID(r.Context(), lookID)
		if err != nil || job == nil {
			sse.WriteError("look state unavailable")
			return
		}

		if job.Status != lastStatus || job.UpdatedAt.After(lastUpdated) {
			lastStatus = job.Status
			lastUpdated = job.UpdatedAt
			if err := sse.WriteEvent("status", statusFromJob(job)); err != nil {
				return
			}
		}

		if job.Terminal() {
			sse.WriteComplete(job.LookID, job.Status)
			return
		}
	}
}

// validationResponse writes a structured 400 with per-field errors.
func (s *Server) validationResponse(w http.ResponseWriter, validationErr *schemas.ValidationError) {
	fields := make([]map[string]string, 0, len(validationErr.Errors))
	for _, fe := range validationErr.Errors {
		fields = append(fields, map[string]string{
			"field":   fe.Field,
			"message": fe.Message,
		})
	}
	s.jsonResponse(w, http.StatusBadRequest, map[string]any{
		"error":  "plan validation failed",
		"fields": fields,
	})
}
