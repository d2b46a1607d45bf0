package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/noskrien/results-service/internal/compare"
	"github.com/noskrien/results-service/internal/domain"
	"github.com/noskrien/results-service/internal/reconcile"
)

const (
	minQueryLength = 2
	searchLimit    = 10
)

type searchRequest struct {
	Name     string
	Distance string `validate:"omitempty,oneof=Tautas Sporta"`
}

// searchParticipants handles GET /api/v1/results?name=&distance=.
// Queries shorter than two characters return an empty list rather than an
// error, so the UI can fire on every keystroke. An empty distance searches
// both categories; spell-identical rows collapse to one hit.
func (s *Server) searchParticipants(w http.ResponseWriter, r *http.Request) {
	req := searchRequest{
		Name:     r.URL.Query().Get("name"),
		Distance: r.URL.Query().Get("distance"),
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "distance must be Tautas or Sporta")
		return
	}
	if len([]rune(req.Name)) < minQueryLength {
		writeJSON(w, http.StatusOK, []domain.Participant{})
		return
	}

	participants, err := s.repo.Search(r.Context(), req.Name, domain.Distance(req.Distance), searchLimit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if participants == nil {
		participants = []domain.Participant{}
	}
	writeJSON(w, http.StatusOK, participants)
}

type historyRequest struct {
	Name     string `validate:"required,min=2"`
	Distance string `validate:"omitempty,oneof=Tautas Sporta"`
}

// participantHistory handles GET /api/v1/history?name=&distance=.
func (s *Server) participantHistory(w http.ResponseWriter, r *http.Request) {
	req := historyRequest{
		Name:     r.URL.Query().Get("name"),
		Distance: r.URL.Query().Get("distance"),
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required and distance must be Tautas or Sporta")
		return
	}
	distance := domain.Distance(req.Distance)
	if distance == "" {
		distance = domain.DistanceTautas
	}

	history, err := s.repo.History(r.Context(), req.Name, distance)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// getParticipant handles GET /api/v1/participants/{participantID}.
func (s *Server) getParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "participantID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "participant id must be an integer")
		return
	}

	participant, err := s.repo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	races, err := s.repo.Races(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, participantResponse{
		Participant: *participant,
		Races:       races,
	})
}

type participantResponse struct {
	domain.Participant
	Races []domain.RaceResult `json:"races"`
}

type compareRequest struct {
	P1       string `validate:"required,min=2"`
	P2       string `validate:"required,min=2"`
	Distance string `validate:"omitempty,oneof=Tautas Sporta"`
}

type compareResponse struct {
	First   string                 `json:"first"`
	Second  string                 `json:"second"`
	Swapped bool                   `json:"swapped"`
	Rows    []domain.ComparisonRow `json:"rows"`
}

// compareParticipants handles GET /api/v1/compare?p1=&p2=&category=&distance=.
// Two participants with no shared races yield an empty row list, not an error.
func (s *Server) compareParticipants(w http.ResponseWriter, r *http.Request) {
	req := compareRequest{
		P1:       r.URL.Query().Get("p1"),
		P2:       r.URL.Query().Get("p2"),
		Distance: r.URL.Query().Get("distance"),
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "p1 and p2 are required")
		return
	}
	distance := domain.Distance(req.Distance)
	if distance == "" {
		distance = domain.DistanceTautas
	}

	first, err := s.repo.History(r.Context(), req.P1, distance)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	second, err := s.repo.History(r.Context(), req.P2, distance)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	rows := s.comparator.Compare(first.Races, second.Races, r.URL.Query().Get("category"))
	oriented := compare.Orient(rows, first.Name, second.Name)
	if oriented.Rows == nil {
		oriented.Rows = []domain.ComparisonRow{}
	}

	if s.metrics != nil {
		s.metrics.RecordComparison(len(oriented.Rows))
	}

	writeJSON(w, http.StatusOK, compareResponse{
		First:   oriented.First,
		Second:  oriented.Second,
		Swapped: oriented.Swapped,
		Rows:    oriented.Rows,
	})
}

type mergeResponse struct {
	Preview             bool                 `json:"preview"`
	TotalMerges         int                  `json:"total_merges"`
	UniqueKeepers       int                  `json:"unique_keepers"`
	Actions             []domain.MergeAction `json:"actions"`
	ActionsApplied      int                  `json:"actions_applied,omitempty"`
	RacesReassigned     int64                `json:"races_reassigned,omitempty"`
	ParticipantsDeleted int                  `json:"participants_deleted,omitempty"`
	Error               string               `json:"error,omitempty"`
}

// mergeDuplicates handles POST /api/v1/admin/merge-duplicates?preview=true|false.
// Preview mode (the default) returns the plan without touching storage.
func (s *Server) mergeDuplicates(w http.ResponseWriter, r *http.Request) {
	preview := true
	if v := r.URL.Query().Get("preview"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "preview must be a boolean")
			return
		}
		preview = parsed
	}

	participants, err := s.repo.ListAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	plan := reconcile.PlanMerges(participants)

	resp := mergeResponse{
		Preview:       preview,
		TotalMerges:   plan.TotalMerges,
		UniqueKeepers: plan.UniqueKeepers,
		Actions:       plan.Actions,
	}
	if resp.Actions == nil {
		resp.Actions = []domain.MergeAction{}
	}
	if preview {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	start := time.Now()
	executor := reconcile.NewExecutor(s.repo, s.logger)
	report, execErr := executor.Execute(r.Context(), plan)

	resp.ActionsApplied = report.ActionsApplied
	resp.RacesReassigned = report.RacesReassigned
	resp.ParticipantsDeleted = report.ParticipantsDeleted

	if s.metrics != nil {
		s.metrics.RecordMergeRun("http", time.Since(start).Seconds())
		s.metrics.RecordMergeApplied(report.ActionsApplied, report.RacesReassigned, report.ParticipantsDeleted)
	}

	if execErr != nil {
		// Applied actions stay applied; re-running the merge picks up the rest.
		resp.Error = execErr.Error()
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeDomainError maps domain errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrInvalidInput):
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
		} else {
			writeError(w, http.StatusBadRequest, "invalid input")
		}
	case errors.Is(err, domain.ErrMergeFailed):
		writeError(w, http.StatusConflict, "merge failed")
	case errors.Is(err, domain.ErrServiceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
