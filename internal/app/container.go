// Package app wires the application's components together. Construction is
// explicit so each entrypoint (local server, Lambda) builds the same graph.
package app

import (
	"context"
	"fmt"

	"studytrack-backend/internal/cache"
	"studytrack-backend/internal/config"
	httpiface "studytrack-backend/internal/interfaces/http"
	"studytrack-backend/internal/repository/ddb"
	"studytrack-backend/internal/service/study"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-chi/chi/v5"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

// Container holds the constructed application graph.
type Container struct {
	Config  config.Config
	Logger  *zap.Logger
	Cache   *cache.Cache
	Service study.Service
	Router  *chi.Mux
}

// NewContainer builds the full application: config, logger, DynamoDB
// repository, cache, study service and router.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	dbClient := dynamodb.NewFromConfig(awsCfg)
	repo := ddb.NewRepository(dbClient, cfg.TableName, cfg.IndexName, logger)

	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	verifier := httpiface.NewSupabaseVerifier(supabaseClient)

	c := cache.New(logger)
	svc := study.NewService(repo, c, logger)
	router := httpiface.NewRouter(cfg, svc, verifier, c, logger)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Cache:   c,
		Service: svc,
		Router:  router,
	}, nil
}
