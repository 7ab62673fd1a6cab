package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/Textora/internal/config"
	"github.com/markdave123-py/Textora/internal/core"
	"github.com/markdave123-py/Textora/internal/core/export"
	"github.com/markdave123-py/Textora/internal/core/ingestion_engine"
	"github.com/markdave123-py/Textora/internal/core/llm"
	objectclient "github.com/markdave123-py/Textora/internal/core/object-client"
	"github.com/markdave123-py/Textora/internal/core/session"
	"github.com/markdave123-py/Textora/internal/services"
)

const shutdownGrace = 15 * time.Second

type App struct {
	Sessions *session.Store
	Service  *services.SessionService
	Server   *Server

	cfg *config.Config
	log zerolog.Logger
}

func NewApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	extractor := newExtractor(cfg, log)

	var archiver export.Archiver
	if cfg.ArchiveEnabled() {
		obj, err := objectclient.NewS3Client(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("couldn't initialize the export archive, %w", err)
		}
		archiver = export.NewObjectArchiver(obj, cfg.BucketName)
	}

	store := session.NewStore(extractor, log)
	svc := services.NewSessionService(store, archiver, cfg.SessionSecret, log)
	server := NewServer(cfg, svc, log)

	return &App{Sessions: store, Service: svc, Server: server, cfg: cfg, log: log}, nil
}

func newExtractor(cfg *config.Config, log zerolog.Logger) core.TextExtractor {
	if cfg.Extractor == config.ExtractorDocconv {
		log.Info().Msg("using local docconv extractor")
		return ingestion_engine.NewDocconvExtractor(log)
	}
	log.Info().Str("model", cfg.GenModel).Msg("using gemini extractor")
	return llm.NewGeminiExtractor(cfg.GenModel, log)
}

// Run serves HTTP and sweeps idle sessions until ctx is cancelled or the
// server fails.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(a.Server.Start)

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return a.Server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return a.Sessions.RunJanitor(gctx, janitorInterval(a.cfg.SessionTTL), a.cfg.SessionTTL)
	})

	return g.Wait()
}

func janitorInterval(ttl time.Duration) time.Duration {
	if iv := ttl / 4; iv > time.Second {
		return iv
	}
	return time.Second
}
