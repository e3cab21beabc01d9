package scanner

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// Valores por defecto del barrido periódico.
const (
	DefaultInterval          = 5 * time.Second
	DefaultLowStockThreshold = 3
	DefaultExpiryHorizonDays = 7
)

// Notifier puerto hacia el almacén de notificaciones (upserts idempotentes).
type Notifier interface {
	NotifyLowStock(ctx context.Context, article *entity.Article) error
	NotifyNearExpiry(ctx context.Context, article *entity.Article) error
}

// Config parámetros del scanner. El intervalo es operativo, no de protocolo:
// se ajusta por despliegue.
type Config struct {
	Interval          time.Duration
	LowStockThreshold int // pasada proactiva; independiente del umbral reactivo del motor
	ExpiryHorizonDays int
}

// Scanner tarea periódica que convierte el estado del libro en notificaciones:
// una pasada de stock bajo y una de vencimiento próximo. Solo lee artículos;
// nunca muta lotes ni agregados. Single-flight: un disparo que solapa una pasada
// en curso se descarta, jamás se encola ni corre en paralelo consigo mismo.
type Scanner struct {
	articles repository.ArticleRepository
	notifier Notifier
	cfg      Config
	log      *logger.Logger

	mu sync.Mutex // garantiza el single-flight entre disparos
}

// New construye el scanner aplicando defaults a los campos en cero.
func New(articles repository.ArticleRepository, notifier Notifier, cfg Config, log *logger.Logger) *Scanner {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = DefaultLowStockThreshold
	}
	if cfg.ExpiryHorizonDays <= 0 {
		cfg.ExpiryHorizonDays = DefaultExpiryHorizonDays
	}
	return &Scanner{articles: articles, notifier: notifier, cfg: cfg, log: log}
}

// Start corre el bucle de timer hasta que ctx se cancele. Pensado para lanzarse
// como goroutine desde main; nadie espera sus resultados.
func (s *Scanner) Start(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.log.Info().
		Dur("interval", s.cfg.Interval).
		Int("low_stock_threshold", s.cfg.LowStockThreshold).
		Int("expiry_horizon_days", s.cfg.ExpiryHorizonDays).
		Msg("scanner de umbrales iniciado")

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("scanner de umbrales detenido")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce ejecuta una pasada completa si no hay otra en curso. Devuelve false si el
// disparo se descartó por solapamiento.
func (s *Scanner) RunOnce(ctx context.Context) bool {
	if !s.mu.TryLock() {
		s.log.Debug().Msg("pasada anterior aún en curso; disparo descartado")
		return false
	}
	defer s.mu.Unlock()

	started := time.Now()
	low := s.lowStockPass(ctx)
	exp := s.expiryPass(ctx)

	s.log.Debug().
		Int("low_stock_articles", low).
		Int("near_expiry_articles", exp).
		Dur("elapsed", time.Since(started)).
		Msg("pasada de scanner completada")
	return true
}

// lowStockPass upsert de stock bajo para cada artículo en o bajo el umbral.
// Un fallo por artículo se registra y la pasada continúa con el resto.
func (s *Scanner) lowStockPass(ctx context.Context) int {
	articles, err := s.articles.FindBelowStock(ctx, s.cfg.LowStockThreshold)
	if err != nil {
		s.log.Error().Err(err).Msg("consulta de artículos con stock bajo")
		return 0
	}
	for _, a := range articles {
		if err := s.notifier.NotifyLowStock(ctx, a); err != nil {
			s.log.Warn().Err(err).Str("article_id", a.ID).Msg("upsert de notificación de stock bajo")
		}
	}
	return len(articles)
}

// expiryPass upsert de vencimiento próximo para artículos que vencen dentro del
// horizonte, incluyendo hoy y excluyendo los ya vencidos.
func (s *Scanner) expiryPass(ctx context.Context) int {
	articles, err := s.articles.FindNearingExpiry(ctx, s.cfg.ExpiryHorizonDays)
	if err != nil {
		s.log.Error().Err(err).Msg("consulta de artículos por vencer")
		return 0
	}
	for _, a := range articles {
		if err := s.notifier.NotifyNearExpiry(ctx, a); err != nil {
			s.log.Warn().Err(err).Str("article_id", a.ID).Msg("upsert de notificación de vencimiento")
		}
	}
	return len(articles)
}
