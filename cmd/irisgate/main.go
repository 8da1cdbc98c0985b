// cmd/irisgate/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"irisgate/internal/gateway"
	"irisgate/pkg/config"
	"irisgate/pkg/db"
	"irisgate/pkg/logger"
	"irisgate/pkg/secrets"
	"irisgate/pkg/store"
	"irisgate/pkg/token"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	var prov secrets.Provider
	switch {
	case cfg.RedisURL != "":
		prov = secrets.NewRedisProvider(db.MustRedis(cfg, log), log)
	case cfg.DatabaseURL != "":
		pool := db.MustConnect(cfg, log)
		if err := secrets.EnsureSchema(context.Background(), pool); err != nil {
			log.Fatalw("schema", "err", err)
		}
		if err := secrets.SeedFromEnv(context.Background(), pool, os.Getenv("TENANT_SEED_JSON")); err != nil {
			log.Warnw("seed", "err", err)
		}
		prov = secrets.NewPostgresProvider(pool, log)
	default:
		prov = secrets.NewMemoryProviderFromEnv(log)
	}

	var st store.Store
	if cfg.S3Bucket != "" {
		var err error
		st, err = store.NewS3Store(store.S3Options{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Secure:    cfg.S3Secure,
		}, log)
		if err != nil {
			log.Fatalw("s3 init", "err", err)
		}
	} else {
		st = store.NewFSStore(cfg.MediaRoot)
	}

	g := gateway.New(prov, st, token.NewHS256(cfg.TokenTTL), cfg.SiteApex, log)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: g.Handler()}
	go func() {
		log.Infow("irisgate listening", "addr", cfg.HTTPAddr, "apex", cfg.SiteApex)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("ListenAndServe", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	fmt.Println("irisgate stopped")
}
