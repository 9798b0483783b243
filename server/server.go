package server

import (
	"crypto/tls"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/urfave/negroni"
	"golang.org/x/crypto/acme/autocert"

	"docqa/handlers"
	"docqa/jobs"
	"docqa/metrics"
	"docqa/middleware"
)

const (
	uploadRatePerMinute = 10
	queryRatePerMinute  = 5
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Jobs      *jobs.Store
	Pool      handlers.Enqueuer
	Validator handlers.Validator
	Engine    handlers.Answerer
	Metrics   *metrics.Store
	Index     handlers.IndexProbe
	UploadDir string
	Logger    *slog.Logger
}

func SetupRoutes(deps Deps) *mux.Router {
	r := mux.NewRouter()

	uploadLimiter := middleware.NewRateLimiter(uploadRatePerMinute, deps.Logger)
	queryLimiter := middleware.NewRateLimiter(queryRatePerMinute, deps.Logger)

	uploadHandler := handlers.NewUploadHandler(deps.Jobs, deps.Pool, deps.Validator, deps.UploadDir, deps.Logger)
	r.Handle("/upload", uploadLimiter.Wrap(uploadHandler)).Methods("POST")

	r.Handle("/job/{job_id}", handlers.NewJobHandler(deps.Jobs, deps.Logger)).Methods("GET")

	queryHandler := handlers.NewQueryHandler(deps.Engine, deps.Logger)
	r.Handle("/query", queryLimiter.Wrap(queryHandler)).Methods("POST")

	r.Handle("/metrics", handlers.NewMetricsHandler(deps.Metrics)).Methods("GET")
	r.Handle("/health", handlers.NewHealthHandler(deps.Index)).Methods("GET")
	r.HandleFunc("/", handlers.RootHandler).Methods("GET")

	return r
}

// ServeProduction starts the server when we operate in a production environment.
func ServeProduction(n *negroni.Negroni, domains []string, certCacheDir string) {
	autocertManager := autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domains...),
		Cache:      autocert.DirCache(certCacheDir),
	}

	// Listen for HTTP requests on port 80 in a new goroutine. Use
	// autocertManager.HTTPHandler(nil) as the handler. This will send ACME
	// "http-01" challenge responses as necessary, and 302 redirect all other
	// requests to HTTPS.
	go func() {
		srv := &http.Server{
			Addr:         ":80",
			Handler:      autocertManager.HTTPHandler(nil),
			IdleTimeout:  time.Minute,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}

		err := srv.ListenAndServe()
		log.Fatal(err)
	}()

	tlsConfig := &tls.Config{
		GetCertificate:           autocertManager.GetCertificate,
		PreferServerCipherSuites: true,
		CurvePreferences:         []tls.CurveID{tls.X25519, tls.CurveP256},
	}

	srv := &http.Server{
		Addr:         ":443",
		Handler:      n,
		TLSConfig:    tlsConfig,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	err := srv.ListenAndServeTLS("", "") // Key and cert provided automatically by autocert.
	log.Fatal(err)
}

// ServeDevelopment starts the server when we operate in a dev environment.
func ServeDevelopment(s *http.Server) {
	log.Fatal(s.ListenAndServe())
}
