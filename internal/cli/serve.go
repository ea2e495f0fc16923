package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"eitango-quiz-service/internal/app"
	"eitango-quiz-service/internal/config"
	"eitango-quiz-service/internal/domain"
	"eitango-quiz-service/internal/infra/memory"
	pgloader "eitango-quiz-service/internal/infra/postgres"
	rediscache "eitango-quiz-service/internal/infra/redis"
	"eitango-quiz-service/internal/report"
	"eitango-quiz-service/internal/source"
	transport "eitango-quiz-service/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var words memory.WordSource
	var roster memory.RosterSource
	if pool != nil {
		loader := pgloader.NewCatalogLoader(pool)
		words, roster = loader, loader
	} else if cfg.Quiz.WordsFile != "" {
		items, err := loadWordsFile(cfg.Quiz.WordsFile, cfg.Quiz.WordsHeader)
		if err != nil {
			return err
		}
		static := memory.NewStaticCatalog(items, sampleRoster())
		words, roster = static, static
		log.Printf("serving %d words from %s", len(items), cfg.Quiz.WordsFile)
	} else {
		static := memory.NewStaticCatalog(sampleWords(), sampleRoster())
		words, roster = static, static
		log.Printf("postgres not configured, serving compiled-in sample data")
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var catalog interface {
		app.CatalogRepository
		app.RosterRepository
	}
	if redisClient != nil {
		catalog = rediscache.NewCatalog(redisClient, words, roster, catalogTTL)
	} else {
		catalog = memory.NewCachedCatalog(words, roster, catalogTTL)
	}

	var registry transport.SessionRegistry
	var activeCount func() int
	if redisClient != nil {
		r := rediscache.NewSessionRegistry(redisClient, redisTTL)
		registry, activeCount = r, r.Active
	} else {
		r := memory.NewSessionRegistry()
		registry, activeCount = r, r.Active
	}

	var reporter app.Reporter
	if cfg.Report.URL != "" {
		reporter = report.New(cfg.Report.URL)
	}

	service := app.NewQuizService(catalog, catalog, reporter, app.Options{
		QuestionCount:      cfg.Quiz.QuestionCount,
		SessionSeconds:     cfg.Quiz.SessionSeconds,
		SessionTimer:       config.EnabledOr(cfg.Quiz.SessionTimer, true),
		PerQuestionSeconds: cfg.Quiz.PerQuestionSeconds,
		PerQuestionTimer:   config.EnabledOr(cfg.Quiz.PerQuestionTimer, true),
		AutoReport:         cfg.Report.Auto,
	})
	wsHandler := transport.NewWSHandler(service, registry)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "ok active=%d", activeCount())
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func loadWordsFile(path string, header bool) ([]domain.WordItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return source.WordsFromCSV(f, header)
}

// sampleWords is a compiled-in slice of the vocabulary set, enough to run the
// quiz without a database.
func sampleWords() []domain.WordItem {
	return source.WordsFromRecords([][]string{
		{"1", "agree", "同意する／どういする", "入門編"},
		{"2", "angry", "怒った／おこった", "入門編"},
		{"3", "arrive", "到着する／とうちゃくする", "入門編"},
		{"4", "borrow", "借りる／かりる", "入門編"},
		{"5", "breakfast", "朝食／ちょうしょく", "入門編"},
		{"6", "carry", "運ぶ／はこぶ", "入門編"},
		{"7", "dictionary", "辞書／じしょ", "入門編"},
		{"8", "famous", "有名な／ゆうめいな", "入門編"},
		{"9", "library", "図書館／としょかん", "入門編"},
		{"10", "weather", "天気／てんき", "入門編"},
		{"11", "although", "〜だけれども", "基本編"},
		{"12", "decide", "決める／きめる", "基本編"},
		{"13", "environment", "環境／かんきょう", "基本編"},
		{"14", "experience", "経験／けいけん", "基本編"},
		{"15", "foreign", "外国の／がいこくの", "基本編"},
		{"16", "improve", "改善する／かいぜんする", "基本編"},
		{"17", "necessary", "必要な／ひつような", "基本編"},
		{"18", "prepare", "準備する／じゅんびする", "基本編"},
		{"19", "receive", "受け取る／うけとる", "基本編"},
		{"20", "suggest", "提案する／ていあんする", "基本編"},
		{"21", "achievement", "達成／たっせい", "標準編"},
		{"22", "atmosphere", "雰囲気／ふんいき", "標準編"},
		{"23", "circumstance", "状況／じょうきょう", "標準編"},
		{"24", "efficient", "効率的な／こうりつてきな", "標準編"},
		{"25", "obvious", "明らかな／あきらかな", "標準編"},
		{"26", "participate", "参加する／さんかする", "標準編"},
		{"27", "recognize", "認識する／にんしきする", "標準編"},
		{"28", "sufficient", "十分な／じゅうぶんな", "標準編"},
	}, false)
}

func sampleRoster() domain.Roster {
	return source.RosterFromRecords([][]string{
		{"learner_id", "display_name"},
		{"20230001", "山田"},
		{"20230002", "佐藤"},
		{"20230003", "鈴木"},
		{"demo", ""},
	})
}
