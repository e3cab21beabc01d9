package scanner_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/scanner"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// stubArticleRepo fake de solo lectura: aplica los mismos predicados que las
// consultas reales (available_stock <= umbral; vencimiento dentro de [hoy,
// hoy+horizonte] excluyendo vencidos).
type stubArticleRepo struct {
	articles []*entity.Article
}

var _ repository.ArticleRepository = (*stubArticleRepo)(nil)

func (r *stubArticleRepo) FindBelowStock(_ context.Context, threshold int) ([]*entity.Article, error) {
	var out []*entity.Article
	for _, a := range r.articles {
		if a.AvailableStock <= threshold {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubArticleRepo) FindNearingExpiry(_ context.Context, horizonDays int) ([]*entity.Article, error) {
	today := time.Now().Truncate(24 * time.Hour)
	limit := today.AddDate(0, 0, horizonDays)
	var out []*entity.Article
	for _, a := range r.articles {
		if a.ExpiryDate == nil {
			continue
		}
		d := a.ExpiryDate.Truncate(24 * time.Hour)
		if !d.Before(today) && !d.After(limit) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubArticleRepo) Create(context.Context, *entity.Article) error { return nil }
func (r *stubArticleRepo) GetByID(context.Context, string) (*entity.Article, error) {
	return nil, nil
}
func (r *stubArticleRepo) GetForUpdate(context.Context, string) (*entity.Article, error) {
	return nil, nil
}
func (r *stubArticleRepo) FindByName(context.Context, string) (*entity.Article, error) {
	return nil, nil
}
func (r *stubArticleRepo) Update(context.Context, *entity.Article) error { return nil }
func (r *stubArticleRepo) UpdateAvailableStock(context.Context, string, int) error {
	return nil
}
func (r *stubArticleRepo) List(context.Context, string, string, int, int) ([]*entity.Article, int, error) {
	return nil, 0, nil
}

// stubNotifier registra upserts; failOn hace fallar artículos concretos y
// blockCh (si no es nil) retiene la pasada para probar el single-flight.
type stubNotifier struct {
	mu      sync.Mutex
	low     []string
	expiry  []string
	failOn  map[string]bool
	entered chan struct{}
	blockCh chan struct{}
}

func (n *stubNotifier) NotifyLowStock(_ context.Context, a *entity.Article) error {
	if n.entered != nil {
		n.entered <- struct{}{}
	}
	if n.blockCh != nil {
		<-n.blockCh
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failOn[a.ID] {
		return errors.New("upsert fallido")
	}
	n.low = append(n.low, a.ID)
	return nil
}

func (n *stubNotifier) NotifyNearExpiry(_ context.Context, a *entity.Article) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failOn[a.ID] {
		return errors.New("upsert fallido")
	}
	n.expiry = append(n.expiry, a.ID)
	return nil
}

func (n *stubNotifier) lowIDs() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.low...)
}

func (n *stubNotifier) expiryIDs() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.expiry...)
}

func daysFromNow(d int) *time.Time {
	t := time.Now().AddDate(0, 0, d)
	return &t
}

// ── Umbral de stock bajo ──────────────────────────────────────────────────────

// El umbral del scanner (3) es inclusivo: 3 entra, 4 queda fuera.
func TestRunOnce_UmbralStockBajoInclusivo(t *testing.T) {
	repo := &stubArticleRepo{articles: []*entity.Article{
		{ID: "a-cero", AvailableStock: 0},
		{ID: "a-tres", AvailableStock: 3},
		{ID: "a-cuatro", AvailableStock: 4},
		{ID: "a-sobrado", AvailableStock: 50},
	}}
	notifier := &stubNotifier{}
	s := scanner.New(repo, notifier, scanner.Config{}, logger.Nop())

	require.True(t, s.RunOnce(context.Background()))

	ids := notifier.lowIDs()
	assert.ElementsMatch(t, []string{"a-cero", "a-tres"}, ids,
		"stock 3 está en el umbral; stock 4 no")
}

// ── Horizonte de vencimiento ──────────────────────────────────────────────────

// El horizonte de 7 días incluye hoy y el día 7; el día 8 y lo ya vencido quedan fuera.
func TestRunOnce_HorizonteDeVencimiento(t *testing.T) {
	repo := &stubArticleRepo{articles: []*entity.Article{
		{ID: "e-hoy", AvailableStock: 99, ExpiryDate: daysFromNow(0)},
		{ID: "e-siete", AvailableStock: 99, ExpiryDate: daysFromNow(7)},
		{ID: "e-ocho", AvailableStock: 99, ExpiryDate: daysFromNow(8)},
		{ID: "e-vencido", AvailableStock: 99, ExpiryDate: daysFromNow(-1)},
		{ID: "e-sin-fecha", AvailableStock: 99},
	}}
	notifier := &stubNotifier{}
	s := scanner.New(repo, notifier, scanner.Config{}, logger.Nop())

	require.True(t, s.RunOnce(context.Background()))

	ids := notifier.expiryIDs()
	assert.ElementsMatch(t, []string{"e-hoy", "e-siete"}, ids,
		"el horizonte incluye hoy y el día 7; excluye el día 8 y lo vencido")
}

// ── Fallos parciales ──────────────────────────────────────────────────────────

func TestRunOnce_FalloPorArticuloNoDetieneLaPasada(t *testing.T) {
	repo := &stubArticleRepo{articles: []*entity.Article{
		{ID: "ok-1", AvailableStock: 1},
		{ID: "falla", AvailableStock: 1},
		{ID: "ok-2", AvailableStock: 2},
	}}
	notifier := &stubNotifier{failOn: map[string]bool{"falla": true}}
	s := scanner.New(repo, notifier, scanner.Config{}, logger.Nop())

	require.True(t, s.RunOnce(context.Background()))
	assert.ElementsMatch(t, []string{"ok-1", "ok-2"}, notifier.lowIDs(),
		"un upsert fallido no corta el resto de la pasada")
}

// ── Single-flight ─────────────────────────────────────────────────────────────

// Un disparo que solapa una pasada en curso se descarta, nunca se encola.
func TestRunOnce_SingleFlightDescartaSolape(t *testing.T) {
	repo := &stubArticleRepo{articles: []*entity.Article{
		{ID: "a-1", AvailableStock: 1},
	}}
	notifier := &stubNotifier{
		entered: make(chan struct{}, 1),
		blockCh: make(chan struct{}),
	}
	s := scanner.New(repo, notifier, scanner.Config{}, logger.Nop())

	done := make(chan bool)
	go func() { done <- s.RunOnce(context.Background()) }()

	<-notifier.entered // la primera pasada está dentro del notifier, bloqueada

	assert.False(t, s.RunOnce(context.Background()),
		"el disparo solapado debe descartarse de inmediato")

	close(notifier.blockCh)
	assert.True(t, <-done, "la pasada original termina con normalidad")

	// Con la pasada liberada, un disparo nuevo vuelve a correr.
	notifier.entered = nil
	notifier.blockCh = nil
	assert.True(t, s.RunOnce(context.Background()))
}

// ── Defaults ──────────────────────────────────────────────────────────────────

func TestNew_AplicaDefaults(t *testing.T) {
	repo := &stubArticleRepo{articles: []*entity.Article{
		{ID: "a-tres", AvailableStock: 3},
		{ID: "a-cuatro", AvailableStock: 4},
	}}
	notifier := &stubNotifier{}

	// Config en cero: umbral 3, horizonte 7, intervalo 5s.
	s := scanner.New(repo, notifier, scanner.Config{}, logger.Nop())
	require.True(t, s.RunOnce(context.Background()))
	assert.Equal(t, []string{"a-tres"}, notifier.lowIDs())
}

// ── Start/stop ────────────────────────────────────────────────────────────────

func TestStart_SeDetieneConElContexto(t *testing.T) {
	repo := &stubArticleRepo{}
	notifier := &stubNotifier{}
	s := scanner.New(repo, notifier, scanner.Config{Interval: 10 * time.Millisecond}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(stopped)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("el scanner no se detuvo tras cancelar el contexto")
	}
}
