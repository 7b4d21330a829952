package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/playerlink/playerlink/internal/database"
	"github.com/playerlink/playerlink/internal/media"
	"github.com/playerlink/playerlink/internal/players"
	"github.com/playerlink/playerlink/internal/server"
	"github.com/playerlink/playerlink/internal/storage"
)

func main() {
	port := getEnv("PORT", "8080")
	baseURL := getEnv("BASE_URL", "http://localhost:"+port)
	linkExpiry := getEnvDuration("LINK_EXPIRY", 4*time.Hour)

	encoding, err := players.ParseLinkEncoding(getEnv("DIRECT_LINK_ENCODING", "single"))
	if err != nil {
		log.Fatalf("invalid DIRECT_LINK_ENCODING: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := server.Config{
		BaseURL:               baseURL,
		AssetBase:             os.Getenv("ASSET_BASE"),
		AllowedFrameAncestors: os.Getenv("ALLOWED_FRAME_ANCESTORS"),
	}

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := database.Connect(ctx, databaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer db.Close()

		if err := db.Migrate(databaseURL); err != nil {
			log.Fatalf("database migration failed: %v", err)
		}
		log.Println("database migrations applied, preferences stored in postgres")
		cfg.DB = db.Pool
		cfg.Pinger = db
	} else {
		log.Println("no DATABASE_URL, preferences stored in cookies")
	}

	if root := os.Getenv("MEDIA_ROOT"); root != "" {
		local, err := media.NewLocal(media.LocalConfig{
			Root:       root,
			BaseURL:    baseURL,
			LinkSecret: os.Getenv("LINK_SECRET"),
			LinkExpiry: linkExpiry,
			Encoding:   encoding,
		})
		if err != nil {
			log.Fatalf("media root initialization failed: %v", err)
		}
		cfg.Source = local
		log.Printf("serving media from %s", root)
	} else {
		store, err := storage.New(ctx, storage.Config{
			Endpoint:       getEnv("S3_ENDPOINT", "http://localhost:3900"),
			PublicEndpoint: os.Getenv("S3_PUBLIC_ENDPOINT"),
			Bucket:         getEnv("S3_BUCKET", "media"),
			AccessKey:      os.Getenv("S3_ACCESS_KEY"),
			SecretKey:      os.Getenv("S3_SECRET_KEY"),
			Region:         getEnv("S3_REGION", "eu-central-1"),
			LinkExpiry:     linkExpiry,
		})
		if err != nil {
			log.Fatalf("storage initialization failed: %v", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			log.Fatalf("storage bucket check failed: %v", err)
		}
		log.Println("storage bucket ready")

		cfg.Source = store
		cfg.StorageEndpoint = getEnv("S3_PUBLIC_ENDPOINT", getEnv("S3_ENDPOINT", "http://localhost:3900"))
	}

	var assetsFS fs.FS
	if dir := os.Getenv("ASSETS_DIR"); dir != "" {
		assetsFS = os.DirFS(dir)
		log.Printf("serving player icons from %s", dir)
	}
	cfg.AssetsFS = assetsFS

	srv := server.New(cfg)

	// Direct links stream whole videos, so writes are unbounded unless
	// WRITE_TIMEOUT_SECONDS says otherwise.
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      time.Duration(getEnvInt64("WRITE_TIMEOUT_SECONDS", 0)) * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("playerlink listening on :%s", port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-shutdownCh
	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}
	log.Println("shutdown complete")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
