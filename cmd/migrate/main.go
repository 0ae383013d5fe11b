package main

import (
	"context"
	"fmt"
	"os"

	"github.com/floreria/catalog/internal/migrations"
	"github.com/floreria/catalog/pkg/config"
	"github.com/floreria/catalog/pkg/database"
	"github.com/floreria/catalog/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.OpenPostgres(context.Background(), cfg.DatabaseURL, database.Options{Verbose: true, MaxOpenConns: 2})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := migrations.Run(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	fmt.Fprintln(os.Stdout, "migrations completed")
}
