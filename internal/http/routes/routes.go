package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	scs "github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/learnscout/learnscout/internal/history"
	appmw "github.com/learnscout/learnscout/internal/http/middleware"
	"github.com/learnscout/learnscout/internal/identity"
	"github.com/learnscout/learnscout/internal/jobs"
	"github.com/learnscout/learnscout/internal/recommend"
	"github.com/learnscout/learnscout/internal/search"
)

// Searcher is the gateway surface the handlers need.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.Response, error)
	Status(ctx context.Context, id identity.Identity) (bool, int)
}

// QuotaAdmin resets a guest counter when a guest converts to an account.
type QuotaAdmin interface {
	Reset(ctx context.Context, sessionID string)
}

// HistoryLister reads a user's recorded searches.
type HistoryLister interface {
	List(ctx context.Context, userID string, limit, offset int) ([]history.Entry, error)
	CountForUser(ctx context.Context, userID string) (int, error)
}

// Enqueuer queues background jobs. Satisfied by *asynq.Client.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Server struct {
	Router  *chi.Mux
	Sess    *scs.SessionManager
	Gateway Searcher
	Quota   QuotaAdmin
	History HistoryLister
	Jobs    Enqueuer
	Log     zerolog.Logger
}

type ServerOptions struct {
	Sess     *scs.SessionManager
	Gateway  Searcher
	Quota    QuotaAdmin
	History  HistoryLister
	Jobs     Enqueuer
	Verifier appmw.TokenVerifier
	Throttle *appmw.ThrottleStore
	Log      zerolog.Logger
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if opts.Verifier != nil {
		r.Use(appmw.OptionalAuth(opts.Verifier))
	}

	s := &Server{
		Router:  r,
		Sess:    opts.Sess,
		Gateway: opts.Gateway,
		Quota:   opts.Quota,
		History: opts.History,
		Jobs:    opts.Jobs,
		Log:     opts.Log,
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			s.Log.Error().Err(err).Msg("write health check response")
		}
	})

	r.Route("/api/search", func(sr chi.Router) {
		if opts.Throttle != nil {
			sr.Use(appmw.Throttle(opts.Throttle))
		}
		sr.Post("/", s.handleSearch)
		sr.Get("/rate-limit/status", s.handleRateLimitStatus)

		sr.Group(func(pr chi.Router) {
			pr.Use(appmw.RequireAuth)
			pr.Get("/history", s.handleHistory)
			pr.Post("/quota/reset", s.handleQuotaReset)
		})
	})

	return s
}

type searchBody struct {
	Query     string            `json:"query"`
	Filters   recommend.Filters `json:"filters"`
	SessionID string            `json:"session_id"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var body searchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "search query is required")
		return
	}
	if body.Query == "" {
		s.writeError(w, http.StatusBadRequest, "search query cannot be empty")
		return
	}

	resp, err := s.Gateway.Search(r.Context(), search.Request{
		Query:    body.Query,
		Filters:  body.Filters,
		Identity: s.identityFor(r, body.SessionID),
	})
	if err != nil {
		if errors.Is(err, search.ErrQuotaExceeded) {
			s.writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"error":              "Search limit exceeded. Please sign up to continue searching.",
				"code":               "RATE_LIMIT_EXCEEDED",
				"remaining_searches": 0,
			})
			return
		}
		s.Log.Error().Err(err).Str("query", body.Query).Msg("search failed")
		s.writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	if userID := appmw.UserID(r.Context()); userID != "" {
		s.recordHistory(userID, body, len(resp.Results))
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"results":            resp.Results,
		"remaining_searches": resp.Remaining,
		"cache_hit":          resp.CacheHit,
		"execution_time":     time.Since(start).Seconds(),
	})
}

func (s *Server) handleRateLimitStatus(w http.ResponseWriter, r *http.Request) {
	id := s.identityFor(r, r.URL.Query().Get("session_id"))
	canSearch, remaining := s.Gateway.Status(r.Context(), id)

	s.writeJSON(w, http.StatusOK, map[string]any{
		"can_search":         canSearch,
		"remaining_searches": remaining,
		"is_authenticated":   id.IsAuthenticated(),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.History == nil {
		s.writeError(w, http.StatusNotFound, "search history not available")
		return
	}

	userID := appmw.UserID(r.Context())
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 50 {
		perPage = 50
	}

	entries, err := s.History.List(r.Context(), userID, perPage, (page-1)*perPage)
	if err != nil {
		s.Log.Error().Err(err).Str("user", userID).Msg("list search history failed")
		s.writeError(w, http.StatusInternalServerError, "failed to fetch search history")
		return
	}
	total, err := s.History.CountForUser(r.Context(), userID)
	if err != nil {
		s.Log.Error().Err(err).Str("user", userID).Msg("count search history failed")
		s.writeError(w, http.StatusInternalServerError, "failed to fetch search history")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"searches": entries,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// handleQuotaReset clears a guest counter after the guest registered, so
// the new account does not inherit an exhausted free tier.
func (s *Server) handleQuotaReset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.SessionID == "" {
		s.writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	s.Quota.Reset(r.Context(), body.SessionID)
	s.writeJSON(w, http.StatusOK, map[string]any{"message": "quota reset"})
}

// guestSessionKey is the session key holding a browser guest's quota id.
const guestSessionKey = "guest_session_id"

// identityFor resolves the caller: bearer token wins, then the explicit
// session id, then a server-minted id held in the scs session for browser
// guests that did not send one. Minting writes to the session, which is
// what makes scs commit it and set the cookie; the id is then stable for
// the life of the session. A guest that still resolves to nothing gets
// denied downstream.
func (s *Server) identityFor(r *http.Request, sessionID string) identity.Identity {
	if userID := appmw.UserID(r.Context()); userID != "" {
		return identity.Authenticated(userID)
	}
	if sessionID == "" && s.Sess != nil {
		sessionID = s.Sess.GetString(r.Context(), guestSessionKey)
		if sessionID == "" {
			sessionID = uuid.NewString()
			s.Sess.Put(r.Context(), guestSessionKey, sessionID)
		}
	}
	return identity.Anonymous(sessionID)
}

func (s *Server) recordHistory(userID string, body searchBody, resultCount int) {
	if s.Jobs == nil {
		return
	}

	// No filters means no filters column, not an empty object.
	var filters json.RawMessage
	if !body.Filters.IsZero() {
		filters, _ = json.Marshal(body.Filters)
	}
	payload, err := json.Marshal(jobs.RecordSearchPayload{
		UserID:      userID,
		Query:       body.Query,
		Filters:     filters,
		ResultCount: resultCount,
	})
	if err != nil {
		s.Log.Error().Err(err).Msg("marshal history payload")
		return
	}

	task := asynq.NewTask(jobs.TaskRecordSearch, payload)
	if _, err := s.Jobs.Enqueue(task, asynq.Queue("history"), asynq.MaxRetry(3)); err != nil {
		s.Log.Error().Err(err).Str("user", userID).Msg("enqueue history job failed")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.Error().Err(err).Msg("write json response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]any{"error": msg})
}
