package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"middleware-guard/identity"
	anomalyapp "middleware-guard/middleware/anomaly/application"
	anomalyinfra "middleware-guard/middleware/anomaly/infra"
	"middleware-guard/middleware/audit"
	"middleware-guard/middleware/csrf"
	csrfapp "middleware-guard/middleware/csrf/application"
	csrfdomain "middleware-guard/middleware/csrf/domain"
	csrfinfra "middleware-guard/middleware/csrf/infra"
	"middleware-guard/middleware/pipeline"
	"middleware-guard/middleware/ratelimit"
	rateapp "middleware-guard/middleware/ratelimit/application"
	ratedomain "middleware-guard/middleware/ratelimit/domain"
	rateinfra "middleware-guard/middleware/ratelimit/infra"
	"middleware-guard/middleware/validate"
)

func main() {
	cfg, err := readConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	target, err := url.Parse(cfg.upstreamURL)
	if err != nil {
		log.Fatalf("invalid UPSTREAM_URL: %v", err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("proxy error: %v", err)
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var rdb *redis.Client
	if cfg.redisEnabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.redisAddr,
			Password: cfg.redisPassword,
			DB:       cfg.redisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		pingCancel()
		if err != nil {
			log.Fatalf("redis ping error: %v", err)
		}
	}

	// --- tokens anti-forgery ---
	var tokenStore csrfdomain.Store
	if rdb != nil {
		tokenStore = csrfinfra.NewRedisStore(rdb, csrfinfra.WithTokenTTL(cfg.csrfTTL))
	} else {
		memTokens := csrfinfra.NewMemoryStore()
		memTokens.StartJanitor(ctx, cfg.csrfSweepEvery, cfg.csrfTTL)
		tokenStore = memTokens
	}
	tokens := csrfapp.Service{Store: tokenStore, TTL: cfg.csrfTTL}

	// --- rate limit por identidade ---
	var windowStore ratedomain.WindowStore
	if rdb != nil {
		windowStore = rateinfra.NewRedisWindowStore(rdb)
	} else {
		memWindows := rateinfra.NewMemoryWindowStore()
		memWindows.StartJanitor(ctx)
		windowStore = memWindows
	}
	limiter := rateapp.Service{
		Store:     windowStore,
		PerMinute: cfg.ratePerMinute,
		PerHour:   cfg.ratePerHour,
	}

	var statsStore ratedomain.StatsStore
	if cfg.rateStatsEnabled && rdb != nil {
		statsStore = rateinfra.NewRedisStatsStore(
			rdb,
			rateinfra.WithStatsTTL(cfg.rateStatsTTL),
			rateinfra.WithStatsBucket(cfg.rateStatsBucket),
			rateinfra.WithStatsTrackKeys(cfg.rateStatsTrackKeys),
		)
	} else if cfg.rateStatsEnabled {
		statsStore = rateinfra.NewMemoryStatsStore()
	}

	// --- histórico de mutações ---
	history := anomalyinfra.NewMemoryHistoryStore()
	history.StartJanitor(ctx, cfg.anomalyRetention)
	anomalies := anomalyapp.Service{
		Store:            history,
		Retention:        cfg.anomalyRetention,
		DeleteBurstLimit: cfg.anomalyDeleteLimit,
	}

	// --- auditoria ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	sink := audit.NewSlogSink(logger)

	var schemas map[string]*validate.CompiledSchema
	if cfg.schemasFile != "" {
		schemas, err = validate.LoadFile(cfg.schemasFile)
		if err != nil {
			log.Fatalf("schemas error: %v", err)
		}
	}

	pl := pipeline.Pipeline{Tokens: tokens, Anomaly: anomalies, Audit: sink}

	mux := http.NewServeMux()
	mux.Handle("POST "+cfg.csrfIssuePath, csrf.IssueHandler(tokens))
	for route, schema := range schemas {
		mux.Handle(route, pl.Handler(schema, proxy))
	}
	if _, ok := schemas["/"]; !ok {
		mux.Handle("/", pl.Handler(nil, proxy))
	}

	h := http.Handler(mux)
	if cfg.rateEnabled {
		h = ratelimit.Middleware(ratelimit.Options{
			Service:             limiter,
			Stats:               statsStore,
			AddRateLimitHeaders: cfg.addHeaders,
		})(h)
	}
	if cfg.bucketEnabled {
		bucket := rateinfra.NewBucketStore(cfg.bucketRPS, cfg.bucketBurst)
		bucket.StartJanitor(ctx)
		h = ratelimit.BucketMiddleware(ratelimit.BucketOptions{
			Store:               bucket,
			RetryAfter:          cfg.retryAfter,
			AddRateLimitHeaders: cfg.addHeaders,
		})(h)
	}
	h = identity.Middleware(identity.Options{
		UserHeader:         cfg.userHeader,
		RoleHeader:         cfg.roleHeader,
		TrustXForwardedFor: cfg.trustXFF,
	})(h)

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("gateway listening on %s -> %s", cfg.listenAddr, target)
	log.Printf("csrf: ttl=%s issuePath=%q redis=%v", cfg.csrfTTL, cfg.csrfIssuePath, rdb != nil)
	log.Printf("rate: enabled=%v perMinute=%d perHour=%d stats=%v redis=%v", cfg.rateEnabled, cfg.ratePerMinute, cfg.ratePerHour, cfg.rateStatsEnabled, rdb != nil)
	log.Printf("bucket: enabled=%v rps=%.3f burst=%d", cfg.bucketEnabled, cfg.bucketRPS, cfg.bucketBurst)
	log.Printf("anomaly: deleteLimit=%d retention=%s", cfg.anomalyDeleteLimit, cfg.anomalyRetention)
	log.Printf("schemas: file=%q routes=%d", cfg.schemasFile, len(schemas))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

type config struct {
	listenAddr  string
	upstreamURL string
	userHeader  string
	roleHeader  string
	trustXFF    bool
	schemasFile string

	csrfTTL        time.Duration
	csrfSweepEvery time.Duration
	csrfIssuePath  string

	rateEnabled   bool
	ratePerMinute int
	ratePerHour   int
	addHeaders    bool

	bucketEnabled bool
	bucketRPS     float64
	bucketBurst   int
	retryAfter    time.Duration

	anomalyDeleteLimit int
	anomalyRetention   time.Duration

	redisEnabled  bool
	redisAddr     string
	redisPassword string
	redisDB       int

	rateStatsEnabled   bool
	rateStatsTTL       time.Duration
	rateStatsBucket    string
	rateStatsTrackKeys bool
}

func readConfig() (config, error) {
	cfg := config{}
	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":8080")
	cfg.upstreamURL = os.Getenv("UPSTREAM_URL")
	cfg.userHeader = getenvDefault("USER_HEADER", "X-User-Id")
	cfg.roleHeader = getenvDefault("ROLE_HEADER", "X-User-Role")
	cfg.trustXFF = getenvBoolDefault("TRUST_XFF", false)
	cfg.schemasFile = os.Getenv("SCHEMAS_FILE")

	cfg.csrfTTL = getenvDurationDefault("CSRF_TTL", time.Hour)
	cfg.csrfSweepEvery = getenvDurationDefault("CSRF_SWEEP_EVERY", 5*time.Minute)
	cfg.csrfIssuePath = getenvDefault("CSRF_ISSUE_PATH", "/csrf/token")

	cfg.rateEnabled = getenvBoolDefault("RATE_ENABLED", true)
	cfg.ratePerMinute = getenvIntDefault("RATE_PER_MINUTE", 100)
	cfg.ratePerHour = getenvIntDefault("RATE_PER_HOUR", 1000)
	cfg.addHeaders = getenvBoolDefault("ADD_RATELIMIT_HEADERS", false)

	cfg.bucketEnabled = getenvBoolDefault("BUCKET_ENABLED", false)
	cfg.bucketRPS = getenvFloatDefault("BUCKET_RPS", 50)
	cfg.bucketBurst = getenvIntDefault("BUCKET_BURST", 100)
	cfg.retryAfter = getenvDurationDefault("RETRY_AFTER", 1*time.Second)

	cfg.anomalyDeleteLimit = getenvIntDefault("ANOMALY_DELETE_LIMIT", 10)
	cfg.anomalyRetention = getenvDurationDefault("ANOMALY_RETENTION", 24*time.Hour)

	cfg.redisEnabled = getenvBoolDefault("REDIS_ENABLED", false)
	cfg.redisAddr = getenvDefault("REDIS_ADDR", "")
	cfg.redisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.redisDB = getenvIntDefault("REDIS_DB", 0)

	cfg.rateStatsEnabled = getenvBoolDefault("RATE_STATS_ENABLED", false)
	cfg.rateStatsTTL = getenvDurationDefault("RATE_STATS_TTL", 24*time.Hour)
	cfg.rateStatsBucket = getenvDefault("RATE_STATS_BUCKET", "minute")
	cfg.rateStatsTrackKeys = getenvBoolDefault("RATE_STATS_TRACK_KEYS", false)

	if cfg.upstreamURL == "" {
		return config{}, errors.New("UPSTREAM_URL is required")
	}
	if cfg.redisEnabled && strings.TrimSpace(cfg.redisAddr) == "" {
		return config{}, errors.New("REDIS_ADDR is required when REDIS_ENABLED=true")
	}
	if cfg.ratePerMinute <= 0 || cfg.ratePerHour <= 0 {
		return config{}, errors.New("RATE_PER_MINUTE and RATE_PER_HOUR must be > 0")
	}
	if cfg.bucketEnabled && (cfg.bucketRPS <= 0 || cfg.bucketBurst <= 0) {
		return config{}, errors.New("BUCKET_RPS and BUCKET_BURST must be > 0 when BUCKET_ENABLED=true")
	}
	if cfg.anomalyDeleteLimit <= 0 {
		return config{}, errors.New("ANOMALY_DELETE_LIMIT must be > 0")
	}
	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
