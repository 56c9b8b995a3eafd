package main

import (
	"context"
	"time"

	"github.com/MatsalakO/social-meda-api/config"
	"github.com/MatsalakO/social-meda-api/routes"
	"github.com/MatsalakO/social-meda-api/storage"
	"github.com/MatsalakO/social-meda-api/store"
	"github.com/MatsalakO/social-meda-api/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	var st store.Store
	if cfg.DBDriver == "memory" {
		utils.Sugar.Warn("using in-memory store, data is lost on exit")
		st = store.NewMemory()
	} else {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			utils.Sugar.Fatalf("database init failed: %v", err)
		}
		st = store.NewGormStore(db)
	}

	var images storage.ImageStore
	switch cfg.StorageDriver {
	case "local":
		images = storage.NewLocalStore(cfg.StorageDir, cfg.StorageURLPrefix)
	case "s3":
		s3, err := storage.NewS3Store(context.Background(), cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey)
		if err != nil {
			utils.Sugar.Fatalf("s3 storage init failed: %v", err)
		}
		images = s3
	default:
		utils.Sugar.Info("image uploads disabled")
	}

	rc := utils.NewRedis(cfg)
	if rc != nil {
		defer func() { _ = rc.Close() }()
	}

	r := routes.SetupRouter(cfg, routes.Deps{
		Store:     st,
		Images:    images,
		Cache:     utils.NewCache(rc, time.Duration(cfg.CacheTTLSeconds)*time.Second),
		Blacklist: utils.NewTokenBlacklist(rc),
	})

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
