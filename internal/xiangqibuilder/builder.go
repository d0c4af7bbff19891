package xiangqibuilder

import (
	"fmt"

	"github.com/park285/Cheese-Xiangqi/internal/adapter/xiangqipresenter"
	"github.com/park285/Cheese-Xiangqi/internal/config"
	"github.com/park285/Cheese-Xiangqi/internal/msgcat"
	svcxiangqi "github.com/park285/Cheese-Xiangqi/internal/service/xiangqi"
	"go.uber.org/zap"
)

type Deps struct {
	Service   *svcxiangqi.Service
	Renderer  svcxiangqi.BoardRenderer
	Catalog   *msgcat.Catalog
	Formatter *xiangqipresenter.Formatter
}

func New(cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	renderer := svcxiangqi.NewSVGBoardRenderer(cfg.ImageCell)
	service, err := svcxiangqi.NewService(renderer, svcxiangqi.Config{
		SessionTTL:   cfg.SessionTTL,
		MaxSessions:  cfg.MaxSessions,
		RenderImages: cfg.RenderImages,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init xiangqi service: %w", err)
	}

	logger.Info("xiangqi_deps_ready",
		zap.Int("max_sessions", cfg.MaxSessions),
		zap.Duration("session_ttl", cfg.SessionTTL),
		zap.Bool("render_images", cfg.RenderImages),
		zap.Int("image_cell", cfg.ImageCell),
	)

	return &Deps{
		Service:   service,
		Renderer:  renderer,
		Catalog:   catalog,
		Formatter: xiangqipresenter.NewFormatter(catalog),
	}, nil
}

// Close releases the service.
func (d *Deps) Close() error {
	if d == nil || d.Service == nil {
		return nil
	}
	return d.Service.Close()
}
