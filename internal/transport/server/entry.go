package server

import (
	"context"
	"net/http"
	"runtime/debug"

	"diderot/internal/application"
	"diderot/internal/logging"
)

// CreateHandler builds the application and its router. The returned
// cleanup releases the stores and producers the wiring opened.
func CreateHandler(ctx context.Context) (http.Handler, func(), error) {
	app, err := application.New(ctx)
	if err != nil {
		logging.Log.WithField("error", err.Error()).Error("creating application failed")
		return nil, nil, err
	}

	router := NewRouter(app.Handler, Options{
		AuthToken:      app.Config.APIAuthToken,
		RateLimitRPS:   5,
		RateLimitBurst: 10,
	})

	cleanup := func() {
		app.Close()
	}
	return router, cleanup, nil
}

// HandleRequest serves a single HTTP request, the Cloud Functions
// model: build, serve, tear down.
func HandleRequest(w http.ResponseWriter, r *http.Request) {
	handler, cleanup, err := CreateHandler(r.Context())
	if err != nil {
		logging.Log.WithField("error", err.Error()).
			WithField("stack", string(debug.Stack())).
			Error("failed to create handler")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer cleanup()

	handler.ServeHTTP(w, r)
}
