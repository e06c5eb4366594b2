package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/inquiry-dashboard/internal/api"
	"github.com/ignite/inquiry-dashboard/internal/config"
	"github.com/ignite/inquiry-dashboard/internal/dashboard"
	"github.com/ignite/inquiry-dashboard/internal/inquiry"
	"github.com/ignite/inquiry-dashboard/internal/monitoring"
	"github.com/ignite/inquiry-dashboard/internal/pkg/distlock"
	"github.com/ignite/inquiry-dashboard/internal/pkg/logger"
	"github.com/ignite/inquiry-dashboard/internal/repository/postgres"
	"github.com/ignite/inquiry-dashboard/internal/source"
)

const refreshLockKey = "inquiry-dashboard:refresh"

// checkPortAvailable fails fast when a stale process still holds the port.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func extractHost(dsn string) string {
	at := strings.Index(dsn, "@")
	if at < 0 {
		return "(unknown)"
	}
	rest := dsn[at+1:]
	if slash := strings.Index(rest, "/"); slash >= 0 {
		rest = rest[:slash]
	}
	return rest
}

func openRedis(ctx context.Context, url string) *redis.Client {
	if url == "" {
		log.Println("[redis] not configured, using in-process cache")
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		opts = &redis.Options{Addr: url}
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("[redis] connection failed (%s): %v, using in-process cache", opts.Addr, err)
		client.Close()
		return nil
	}
	log.Printf("[redis] connected: %s", opts.Addr)
	return client
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) *sql.DB {
	if !cfg.Enabled {
		log.Println("[db] refresh history disabled")
		return nil
	}
	dsn := cfg.URL
	if !strings.Contains(dsn, "connect_timeout") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "connect_timeout=5"
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Printf("[db] open failed: %v", err)
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Printf("[db] ping failed (%s): %v, refresh history disabled", extractHost(dsn), err)
		db.Close()
		return nil
	}
	db.SetMaxOpenConns(5)
	log.Printf("[db] connected: ...@%s/...", extractHost(dsn))
	return db
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config")
	flag.Parse()

	log.Println("[server] inquiry dashboard starting")

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	logger.SetRedactPII(cfg.Logging.ShouldRedact())

	host, port := cfg.Server.GetHost(), cfg.Server.Port
	if err := checkPortAvailable(host, port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, err := source.New(ctx, cfg.Source)
	if err != nil {
		log.Fatalf("Failed to initialize row source: %v", err)
	}
	log.Printf("[source] %s", src.Name())

	redisClient := openRedis(ctx, cfg.Redis.URL)
	db := openDatabase(ctx, cfg.Database)

	var cache dashboard.Cache = dashboard.NewMemoryCache(cfg.Refresh.CacheTTL())
	if redisClient != nil {
		cache = dashboard.NewRedisCache(redisClient, "", cfg.Refresh.CacheTTL())
	}

	var history dashboard.HistoryStore
	if db != nil {
		history = postgres.NewSnapshotRepo(db)
	}

	classifier := inquiry.NewMediaClassifier(cfg.Media.Tables())
	log.Printf("[media] taxonomy version %s", classifier.Version())

	lockTTL := cfg.Refresh.LockTTL()
	refresher := dashboard.NewRefresher(dashboard.Options{
		Source:     src,
		Cache:      cache,
		Classifier: classifier,
		NewLock: func() distlock.DistLock {
			return distlock.NewLock(redisClient, db, refreshLockKey, lockTTL)
		},
		History:  history,
		Interval: cfg.Refresh.Interval(),
	})

	monitoring.Init()
	server := api.NewServer(cfg.Server, refresher)

	refresher.Start()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := cfg.Server.Addr()
		log.Printf("[server] listening on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("[server] shutting down...")

	refresher.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if redisClient != nil {
		redisClient.Close()
	}
	if db != nil {
		db.Close()
	}
	log.Println("[server] stopped")
}
