package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gymbuddy/gymbuddy/internal/models"
	"github.com/gymbuddy/gymbuddy/internal/services/identity"
	"github.com/gymbuddy/gymbuddy/internal/services/scheduling"
)

// Handler exposes the scheduling and identity services as a JSON API
type Handler struct {
	schedulingService scheduling.Service
	identityService   identity.Service
	logger            zerolog.Logger
}

// Config holds the configuration for the API handler
type Config struct {
	// Scheduling service
	SchedulingService scheduling.Service

	// Identity service
	IdentityService identity.Service

	// Logger for request logging
	Logger zerolog.Logger
}

// New creates a new API handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.SchedulingService == nil {
		return nil, errors.New("scheduling service cannot be nil")
	}

	if cfg.IdentityService == nil {
		return nil, errors.New("identity service cannot be nil")
	}

	return &Handler{
		schedulingService: cfg.SchedulingService,
		identityService:   cfg.IdentityService,
		logger:            cfg.Logger,
	}, nil
}

// Routes builds the route table
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", h.handleLogout)
	mux.HandleFunc("GET /api/auth/me", h.requireUser(h.handleMe))

	mux.HandleFunc("GET /api/sessions", h.handleListSessions)
	mux.HandleFunc("POST /api/sessions", h.requireUser(h.handleCreateSession))
	mux.HandleFunc("GET /api/sessions/{id}", h.handleGetSession)
	mux.HandleFunc("POST /api/sessions/{id}/requests", h.requireUser(h.handleRequestToJoin))
	mux.HandleFunc("POST /api/sessions/{id}/requests/{userID}/accept", h.requireUser(h.handleAcceptRequest))
	mux.HandleFunc("POST /api/sessions/{id}/requests/{userID}/reject", h.requireUser(h.handleRejectRequest))
	mux.HandleFunc("POST /api/sessions/{id}/ratings", h.requireUser(h.handleRateSession))

	return h.logRequests(mux)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	output, err := h.identityService.Register(r.Context(), &identity.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		ProfilePic: req.ProfilePic,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, renderUser(output.User))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	output, err := h.identityService.Login(r.Context(), &identity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token: output.Token,
		User:  renderUser(output.User),
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	if err := h.identityService.Logout(r.Context(), &identity.LogoutInput{Token: token}); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request, user *models.User) {
	writeJSON(w, http.StatusOK, renderUser(user))
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	viewer := h.optionalUser(r)

	output, err := h.schedulingService.ListSessions(r.Context(), &scheduling.ListSessionsInput{
		WorkoutType: r.URL.Query().Get("type"),
		Query:       r.URL.Query().Get("q"),
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	viewerID := ""
	if viewer != nil {
		viewerID = viewer.ID
	}

	views := make([]sessionView, 0, len(output.Sessions))
	for _, sess := range output.Sessions {
		views = append(views, renderSession(sess, viewerID))
	}

	writeJSON(w, http.StatusOK, listSessionsResponse{Sessions: views})
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	output, err := h.schedulingService.CreateSession(r.Context(), &scheduling.CreateSessionInput{
		Title:       req.Title,
		WorkoutType: req.WorkoutType,
		Location:    req.Location,
		StartsAt:    req.Datetime,
		Details:     req.Details,
		Actor:       user,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, renderSession(output.Session, user.ID))
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	viewer := h.optionalUser(r)

	viewerID := ""
	if viewer != nil {
		viewerID = viewer.ID
	}

	output, err := h.schedulingService.GetSession(r.Context(), &scheduling.GetSessionInput{
		SessionID: r.PathValue("id"),
		ViewerID:  viewerID,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	view := renderSession(output.Session, viewerID)
	view.CanRate = output.CanRate

	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleRequestToJoin(w http.ResponseWriter, r *http.Request, user *models.User) {
	output, err := h.schedulingService.RequestToJoin(r.Context(), &scheduling.RequestToJoinInput{
		SessionID: r.PathValue("id"),
		Actor:     user,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, renderSession(output.Session, user.ID))
}

func (h *Handler) handleAcceptRequest(w http.ResponseWriter, r *http.Request, user *models.User) {
	output, err := h.schedulingService.AcceptRequest(r.Context(), &scheduling.AcceptRequestInput{
		SessionID:    r.PathValue("id"),
		TargetUserID: r.PathValue("userID"),
		Actor:        user,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, renderSession(output.Session, user.ID))
}

func (h *Handler) handleRejectRequest(w http.ResponseWriter, r *http.Request, user *models.User) {
	output, err := h.schedulingService.RejectRequest(r.Context(), &scheduling.RejectRequestInput{
		SessionID:    r.PathValue("id"),
		TargetUserID: r.PathValue("userID"),
		Actor:        user,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, renderSession(output.Session, user.ID))
}

func (h *Handler) handleRateSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req rateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	output, err := h.schedulingService.RateSession(r.Context(), &scheduling.RateSessionInput{
		SessionID: r.PathValue("id"),
		Rating:    req.Rating,
		Actor:     user,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, renderSession(output.Session, user.ID))
}

// bearerToken pulls the token out of the Authorization header
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(auth, prefix))
}
