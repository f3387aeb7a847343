package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hirevox/hirevox/internal/config"
	"github.com/hirevox/hirevox/internal/db"
	"github.com/hirevox/hirevox/internal/repository/sqlite"
	"github.com/hirevox/hirevox/internal/service"
	"github.com/hirevox/hirevox/internal/session"
	"github.com/hirevox/hirevox/pkg/speech"
)

// SetupRoutes wires the full HTTP surface. The returned cleanup closes the
// live candidate sessions and must run on shutdown.
func SetupRoutes(cfg *config.Config, version, buildTime string, conn *db.DB, engine QuestionEngine) (*mux.Router, func()) {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository and service
	repo := sqlite.New(conn, logger)
	svc := service.New(service.Repos{
		Companies:  repo,
		Profiles:   repo,
		Jobs:       repo,
		Candidates: repo,
		Interviews: repo,
		Responses:  repo,
		Kits:       repo,
	}, logger)

	// One session manager per candidate surface; the ceilings differ. The
	// server carries no speech bindings, so responses fall back to the
	// duration placeholder unless a deployment wires real capabilities.
	caps := speech.Capabilities{}
	currentMgr := session.NewManager(svc, caps, session.Config{
		MaxRecording: cfg.Session.MaxRecording,
		SpeakDelay:   cfg.Session.SpeakDelay,
	}, logger)
	legacyMgr := session.NewManager(svc, caps, session.Config{
		MaxRecording: cfg.Session.LegacyMaxRecording,
		SpeakDelay:   cfg.Session.SpeakDelay,
	}, logger)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, repo, nil, cfg.JWTSecret, cfg.TokenDuration)
	jobsHandler := NewJobsHandler(svc)
	candidatesHandler := NewCandidatesHandler(svc)
	interviewsHandler := NewInterviewsHandler(svc)
	kitsHandler := NewKitsHandler(svc, engine)
	currentSession := NewSessionHandler(svc, currentMgr)
	legacySession := NewSessionHandler(svc, legacyMgr)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")
	r.HandleFunc("/v1/auth/reset-password", authHandler.ResetPassword).Methods("POST")
	r.HandleFunc("/v1/auth/reset-password/confirm", authHandler.ResetPasswordConfirm).Methods("POST")

	// Candidate-facing token surfaces, no JWT: the token is the credential
	registerSessionRoutes(r.PathPrefix("/v1/interviews/token/{token}").Subrouter(), currentSession)
	registerSessionRoutes(r.PathPrefix("/v1/portal/{token}").Subrouter(), legacySession)

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	// Jobs endpoints
	apiV1.HandleFunc("/jobs", jobsHandler.CreateJob).Methods("POST")
	apiV1.HandleFunc("/jobs", jobsHandler.ListJobs).Methods("GET")
	apiV1.HandleFunc("/jobs/{id}", jobsHandler.GetJob).Methods("GET")
	apiV1.HandleFunc("/jobs/{id}/candidates", jobsHandler.ListJobCandidates).Methods("GET")
	apiV1.HandleFunc("/jobs/{id}/candidates", candidatesHandler.CreateCandidate).Methods("POST")

	// Candidates endpoints
	apiV1.HandleFunc("/candidates/{id}/status", candidatesHandler.UpdateStatus).Methods("PATCH")
	apiV1.HandleFunc("/candidates/{id}/invite", candidatesHandler.Invite).Methods("POST")

	// Interview analytics
	apiV1.HandleFunc("/interviews", interviewsHandler.ListCompleted).Methods("GET")
	apiV1.HandleFunc("/interviews/{id}/responses", interviewsHandler.ListResponses).Methods("GET")

	// Interview kits
	apiV1.HandleFunc("/kits", kitsHandler.CreateKit).Methods("POST")
	apiV1.HandleFunc("/kits", kitsHandler.ListKits).Methods("GET")
	apiV1.HandleFunc("/kits/generate", kitsHandler.GenerateKit).Methods("POST")
	apiV1.HandleFunc("/kits/{id}", kitsHandler.UpdateKit).Methods("PUT")
	apiV1.HandleFunc("/kits/{id}", kitsHandler.DeleteKit).Methods("DELETE")

	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	cleanup := func() {
		currentMgr.Shutdown()
		legacyMgr.Shutdown()
	}
	return r, cleanup
}

func registerSessionRoutes(sr *mux.Router, h *SessionHandler) {
	sr.HandleFunc("", h.GetInterview).Methods("GET")
	sr.HandleFunc("/session", h.GetSession).Methods("GET")
	sr.HandleFunc("/session/start", h.Start).Methods("POST")
	sr.HandleFunc("/session/recording", h.StartRecording).Methods("POST")
	sr.HandleFunc("/session/recording", h.StopRecording).Methods("DELETE")
	sr.HandleFunc("/session/redo", h.Redo).Methods("POST")
	sr.HandleFunc("/session/confirm", h.Confirm).Methods("POST")
}
