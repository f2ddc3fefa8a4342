package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/fieqah-faisal/rescuties/internal/adapter/bedrock"
	"github.com/fieqah-faisal/rescuties/internal/adapter/comprehend"
	"github.com/fieqah-faisal/rescuties/internal/adapter/googlemaps"
	httpadapter "github.com/fieqah-faisal/rescuties/internal/adapter/http"
	kafkaadapter "github.com/fieqah-faisal/rescuties/internal/adapter/kafka"
	"github.com/fieqah-faisal/rescuties/internal/adapter/openweather"
	s3adapter "github.com/fieqah-faisal/rescuties/internal/adapter/s3"
	snsadapter "github.com/fieqah-faisal/rescuties/internal/adapter/sns"
	"github.com/fieqah-faisal/rescuties/internal/config"
	"github.com/fieqah-faisal/rescuties/internal/domain"
	"github.com/fieqah-faisal/rescuties/internal/observability"
	"github.com/fieqah-faisal/rescuties/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	detector := comprehend.NewClient(awsCfg, logger, metrics)

	var summarizer domain.Summarizer
	switch cfg.ModelProvider {
	case config.ModelBedrock:
		summarizer = bedrock.NewSummarizer(awsCfg, cfg.BedrockModelID, logger, metrics)
		logger.Info("bedrock summarization enabled", "model_id", cfg.BedrockModelID)
	default:
		summarizer = bedrock.TruncationSummarizer{}
		logger.Info("no model configured, summaries fall back to truncation")
	}

	var publisher domain.AlertPublisher
	switch cfg.NotificationChannel {
	case config.ChannelSNS:
		publisher = snsadapter.NewPublisher(awsCfg, cfg.SNSTopicARN, logger, metrics)
		logger.Info("sns publishing enabled", "topic_arn", cfg.SNSTopicARN)
	default:
		publisher = snsadapter.NewLogPublisher(logger)
		logger.Info("no topic configured, alerts go to the service log")
	}

	geocoderClient := googlemaps.NewClient(cfg.GoogleMapsAPIKey, cfg.ExternalTimeout, logger, metrics)
	geocoder := googlemaps.NewCachedGeocoder(geocoderClient, cfg.GeocodeCacheSize, metrics)
	weather := openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.ExternalTimeout, logger, metrics)

	var blob *s3adapter.Store
	var archiver pipeline.Archiver
	if cfg.ArchiveBucket != "" {
		blob = s3adapter.NewStore(awsCfg, cfg.ArchiveBucket, logger, metrics)
		archiver = s3adapter.NewArchiver(blob)
		logger.Info("raw record archival enabled", "bucket", cfg.ArchiveBucket)
	}

	reader := kafkaadapter.NewReader(cfg, blobStore(blob), logger)

	processor := pipeline.NewProcessor(pipeline.Deps{
		Entities:   detector,
		Geocoder:   geocoder,
		Weather:    weather,
		Summarizer: summarizer,
		Publisher:  publisher,
		Archiver:   archiver,
	}, logger, metrics, cfg.ExternalTimeout, cfg.Workers)

	p := pipeline.New(reader, processor, logger, metrics, cfg.BatchSize, cfg.PublishFailureMode == config.PublishAbort)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start alerting pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}

	logger.Info("shutdown complete")
}

// blobStore avoids handing the reader a typed nil when archival is disabled.
func blobStore(s *s3adapter.Store) domain.BlobStore {
	if s == nil {
		return nil
	}
	return s
}
