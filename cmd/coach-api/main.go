package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ajitesh123/tough-tongue-starter/internal/api"
	"github.com/ajitesh123/tough-tongue-starter/internal/app"
	"github.com/ajitesh123/tough-tongue-starter/internal/config"
	"github.com/ajitesh123/tough-tongue-starter/internal/infra/repos/courses"
	"github.com/ajitesh123/tough-tongue-starter/internal/infra/repos/runs"
	"github.com/ajitesh123/tough-tongue-starter/internal/infra/repos/status"
	"github.com/ajitesh123/tough-tongue-starter/internal/llm"
	"github.com/ajitesh123/tough-tongue-starter/internal/logging"
	"github.com/ajitesh123/tough-tongue-starter/internal/provision"
	"github.com/ajitesh123/tough-tongue-starter/internal/suggest"
	"github.com/ajitesh123/tough-tongue-starter/internal/timeutil"
	"github.com/ajitesh123/tough-tongue-starter/internal/toughtongue"
	"github.com/ajitesh123/tough-tongue-starter/internal/web"
)

func main() {
	cfg := config.Load()

	bindAddr := flag.String("bind", cfg.BindAddr, "Bind address")
	coachDB := flag.String("db", cfg.CoachDBDSN, "Courses database DSN (PostgreSQL)")
	coursesDB := flag.String("courses-db", cfg.CoursesDBPath, "Courses database path (SQLite fallback)")
	redisAddr := flag.String("redis", cfg.RedisAddr, "Redis address for the status store")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level")
	gracePeriod := flag.String("grace-period", cfg.GracePeriod, "How long the completed status stays visible")
	flag.Parse()

	logger := logging.NewLogger(*logLevel).WithComponent("api_main")

	grace, err := timeutil.ParseDuration(*gracePeriod)
	if err != nil {
		logger.Errorw("startup.failed", map[string]any{"error": err.Error(), "stage": "parse_grace_period"})
		os.Exit(1)
	}

	var courseRepo courses.Repository
	var runRepo runs.Repository
	if *coachDB != "" {
		pg := courses.NewPostgresRepository(*coachDB)
		if err := pg.Init(); err != nil {
			logger.Errorw("startup.failed", map[string]any{"error": err.Error(), "stage": "init_course_repo"})
			os.Exit(1)
		}
		pgRuns := runs.NewPostgresRepositoryWithDB(pg.DB())
		if err := pgRuns.Init(); err != nil {
			logger.Errorw("startup.failed", map[string]any{"error": err.Error(), "stage": "init_run_repo"})
			os.Exit(1)
		}
		courseRepo, runRepo = pg, pgRuns
	} else {
		lite := courses.NewSQLiteRepository(*coursesDB)
		if err := lite.Init(); err != nil {
			logger.Errorw("startup.failed", map[string]any{"error": err.Error(), "stage": "init_course_repo"})
			os.Exit(1)
		}
		liteRuns := runs.NewSQLiteRepositoryWithDB(lite.DB())
		if err := liteRuns.Init(); err != nil {
			logger.Errorw("startup.failed", map[string]any{"error": err.Error(), "stage": "init_run_repo"})
			os.Exit(1)
		}
		courseRepo, runRepo = lite, liteRuns
	}

	var statusStore status.Store = status.NewMemoryStore()
	if *redisAddr != "" {
		statusStore = status.NewRedisStore(redis.NewClient(&redis.Options{Addr: *redisAddr}))
	}

	llmClient := llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
	ttClient := toughtongue.NewClient(cfg.ToughTongueBaseURL, cfg.ToughTongueAPIKey)

	provisioner := provision.NewProvisioner(llmClient, ttClient, logger)
	pipeline := app.NewPipelineService(courseRepo, statusStore, runRepo, provisioner, grace, logger)
	suggestions := suggest.NewService(llmClient, logger)

	handler := api.NewHandler(courseRepo, suggestions, pipeline)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /", web.IndexHandler)
	mux.HandleFunc("GET /player", web.PlayerHandler)

	mux.HandleFunc("POST /api/v1/suggestions", handler.CreateSuggestions)

	mux.HandleFunc("GET /api/v1/courses", handler.ListCourses)
	mux.HandleFunc("PUT /api/v1/courses", handler.ReplaceCourses)
	mux.HandleFunc("PATCH /api/v1/courses/{id}", handler.PatchCourse)
	mux.HandleFunc("DELETE /api/v1/courses", handler.ClearCourses)

	mux.HandleFunc("POST /api/v1/pipeline", handler.StartPipeline)
	mux.HandleFunc("GET /api/v1/pipeline/status", handler.PipelineStatus)
	mux.HandleFunc("GET /api/v1/pipeline/events", handler.PipelineEvents)

	mux.HandleFunc("GET /api/v1/runs", handler.ListRuns)
	mux.HandleFunc("GET /api/v1/runs/{id}", handler.GetRun)

	mux.HandleFunc("GET /api/v1/lessons", handler.GetLessons)

	logger.Infow("startup.listening", map[string]any{"bind": *bindAddr})
	if err := http.ListenAndServe(*bindAddr, loggingMiddleware(logger.WithComponent("http"), mux)); err != nil {
		logger.Errorw("startup.failed", map[string]any{"error": err.Error(), "stage": "listen"})
		os.Exit(1)
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		fields := map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      sw.status,
			"duration_ms": time.Since(started).Milliseconds(),
			"remote":      r.RemoteAddr,
		}
		if sw.status >= 500 {
			logger.Errorw("request.completed", fields)
			return
		}
		if sw.status >= 400 {
			logger.Warnw("request.completed", fields)
			return
		}
		logger.Infow("request.completed", fields)
	})
}
