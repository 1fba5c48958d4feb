package main

import (
	"fmt"
	"html/template"
	"net/http"
	"os"

	"tratativas/internal/handlers"
	"tratativas/internal/logger"
	"tratativas/internal/version"
	"tratativas/internal/vocab"
	"tratativas/web"
)

func main() {
	// Handle --version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("Tratativas %s (built %s, commit %s)\n",
			version.Version, version.BuildTime, version.GitCommit)
		os.Exit(0)
	}

	// Initialize logger first
	logger.Init()
	log := logger.Default()

	// Get port from env or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Vocabularies: embedded defaults, optionally overridden from a
	// user-edited file.
	v := vocab.Default()
	if path := os.Getenv("VOCAB_PATH"); path != "" {
		loaded, err := vocab.Load(path)
		if err != nil {
			log.Error("vocab_load_failed", "path", path, "error", err.Error())
			os.Exit(1)
		}
		v = loaded
		log.Info("vocab_loaded", "path", path)
	}

	// Parse templates
	tmpl, err := template.ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		log.Error("template_parse_failed", "error", err.Error())
		os.Exit(1)
	}

	// Initialize handlers
	h := handlers.New(tmpl, v)

	// Setup routes
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("POST /reconcile", h.Reconcile)
	mux.HandleFunc("GET /api/version", h.APIVersion)

	// Wrap with request logging
	handler := logger.HTTPMiddleware(mux)

	log.Info("server_starting", "port", port, "address", "http://localhost:"+port, "version", version.Version)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Error("server_failed", "error", err.Error())
		os.Exit(1)
	}
}
