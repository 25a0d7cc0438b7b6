package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"middleware-guard/identity"
	anomalyapp "middleware-guard/middleware/anomaly/application"
	anomalyinfra "middleware-guard/middleware/anomaly/infra"
	"middleware-guard/middleware/audit"
	"middleware-guard/middleware/csrf"
	csrfapp "middleware-guard/middleware/csrf/application"
	csrfinfra "middleware-guard/middleware/csrf/infra"
	"middleware-guard/middleware/payload"
	"middleware-guard/middleware/pipeline"
	"middleware-guard/middleware/ratelimit"
	rateapp "middleware-guard/middleware/ratelimit/application"
	rateinfra "middleware-guard/middleware/ratelimit/infra"
	"middleware-guard/middleware/validate"
)

func main() {
	// Exemplo: injetando a pipeline diretamente no seu webserver (sem proxy)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tokenStore := csrfinfra.NewMemoryStore()
	tokenStore.StartJanitor(ctx, 5*time.Minute, csrfapp.DefaultTTL)
	tokens := csrfapp.Service{Store: tokenStore}

	windows := rateinfra.NewMemoryWindowStore()
	windows.StartJanitor(ctx)
	limiter := rateapp.Service{Store: windows}

	history := anomalyinfra.NewMemoryHistoryStore()
	history.StartJanitor(ctx, 24*time.Hour)
	anomalies := anomalyapp.Service{Store: history}

	sink := audit.NewMemorySink()

	pl := pipeline.Pipeline{Tokens: tokens, Anomaly: anomalies, Audit: sink}

	herdSchema := validate.MustCompile(validate.Schema{
		"name":     {Required: true, Type: validate.TypeString, MinLength: intp(2), MaxLength: intp(80)},
		"quantity": {Type: validate.TypeNumber, Min: floatp(1)},
		"status":   {Type: validate.TypeString, Enum: []any{"open", "closed"}},
	})

	mux := http.NewServeMux()
	mux.Handle("POST /csrf/token", csrf.IssueHandler(tokens))
	mux.Handle("/herds", pl.Handler(herdSchema, http.HandlerFunc(createHerd)))
	mux.HandleFunc("GET /audit", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(sink.Entries())
	})

	h := http.Handler(mux)
	h = ratelimit.Middleware(ratelimit.Options{
		Service:             limiter,
		Stats:               rateinfra.NewMemoryStatsStore(),
		AddRateLimitHeaders: true,
	})(h)
	h = identity.Middleware(identity.Options{TrustXForwardedFor: true})(h)

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("example server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func createHerd(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("[]\n"))
		return
	}

	body, _ := payload.FromContext(r.Context())
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"created": body,
	})
}

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }
