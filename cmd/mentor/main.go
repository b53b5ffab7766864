package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/edupath/mentor/internal/profile"
	"github.com/edupath/mentor/plugin/llm"
	"github.com/edupath/mentor/plugin/markdown"
	"github.com/edupath/mentor/plugin/textextract"
	"github.com/edupath/mentor/server"
	"github.com/edupath/mentor/server/ratelimit"
	"github.com/edupath/mentor/server/service/chat"
	"github.com/edupath/mentor/server/service/quiz"
	"github.com/edupath/mentor/store"
	"github.com/edupath/mentor/store/db"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "mentor",
	Short: "Career mentor chat backend",
	RunE: func(_ *cobra.Command, _ []string) error {
		return run()
	},
}

func run() error {
	prof, err := profile.FromEnv(version)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbDriver, err := db.NewDBDriver(prof)
	if err != nil {
		return err
	}
	if err := dbDriver.Migrate(ctx); err != nil {
		return err
	}
	storeInstance := store.New(dbDriver, prof)
	defer storeInstance.Close()

	llmService, err := llm.NewService(&llm.Config{
		APIKey:      prof.LLMAPIKey,
		BaseURL:     prof.LLMBaseURL,
		Model:       prof.LLMModel,
		MaxTokens:   prof.LLMMaxTokens,
		Temperature: prof.LLMTemperature,
	})
	if err != nil {
		return err
	}

	extractor := textextract.Disabled()
	if prof.TikaURL != "" {
		extractor = textextract.New(&textextract.Config{
			TikaURL: prof.TikaURL,
			Timeout: prof.TikaTimeout,
		})
	}

	limiterConfig := ratelimit.Config{
		Limit:  prof.ChatRateLimit,
		Window: prof.ChatRateWindow,
	}
	var limiter ratelimit.Limiter
	var memoryLimiter *ratelimit.MemoryLimiter
	switch prof.RateLimitBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: prof.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to reach redis at %s: %w", prof.RedisAddr, err)
		}
		defer client.Close()
		limiter = ratelimit.NewRedisLimiter(client, limiterConfig)
	default:
		memoryLimiter = ratelimit.NewMemoryLimiter(limiterConfig)
		limiter = memoryLimiter
	}

	chatService := chat.NewService(
		storeInstance,
		llmService,
		extractor,
		markdown.NewService(),
		chat.WithSerializePerUser(prof.ChatSerializePerUser),
	)
	quizService := quiz.NewService(llmService)

	srv := server.NewServer(prof, chatService, quizService, limiter)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		return srv.Shutdown(context.Background())
	})

	if memoryLimiter != nil {
		memoryLimiter.StartSweep(ctx, prof.RateLimitSweep)
		defer memoryLimiter.StopSweep()
	}

	if prof.ConversationRetention > 0 {
		vacuum := store.NewVacuumJob(storeInstance, prof.ConversationRetention, time.Hour)
		vacuum.Start(ctx)
		defer vacuum.Stop()
	}

	g.Go(func() error {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				srv.Guard().Evict()
			}
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("mentor stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}
