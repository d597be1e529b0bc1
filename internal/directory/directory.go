package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/mentors_bot/internal/model"
	"github.com/Freeeeeet/mentors_bot/internal/parser"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrSourceRead источник строк не смог прочитать входные данные
var ErrSourceRead = errors.New("read row source")

// RowSource поставщик строк таблицы (все листы, без заголовков)
type RowSource interface {
	Name() string
	ReadRows(ctx context.Context) ([]model.SheetRow, error)
}

// Version описание текущего содержимого справочника
type Version struct {
	RunID    uuid.UUID `json:"run_id"`
	LoadedAt time.Time `json:"loaded_at"`
	Mentors  int       `json:"mentors"`
}

// Directory потокобезопасный справочник менторов.
// Новый набор собирается в стороне и публикуется одной короткой заменой под mu.
type Directory struct {
	ingestMu sync.Mutex // одна загрузка за раз

	mu      sync.RWMutex
	mentors []model.Mentor // порядок вставки, без структурных дубликатов
	version Version

	workers int
	now     func() time.Time
	logger  *zap.Logger
}

// Option настройка справочника
type Option func(*Directory)

// WithWorkers число горутин для разбора строк
func WithWorkers(n int) Option {
	return func(d *Directory) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(d *Directory) {
		d.now = now
	}
}

// New создаёт пустой справочник
func New(logger *zap.Logger, opts ...Option) *Directory {
	d := &Directory{
		workers: 1,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Ingest полностью заменяет содержимое справочника строками из источника.
// Ошибка чтения источника возвращается и оставляет прежнее содержимое.
func (d *Directory) Ingest(ctx context.Context, src RowSource) (*model.IngestionReport, error) {
	started := d.now()

	rows, err := src.ReadRows(ctx)
	if err != nil {
		d.logger.Error("Failed to read row source",
			zap.String("source", src.Name()),
			zap.Error(err))
		return nil, fmt.Errorf("%w %s: %w", ErrSourceRead, src.Name(), err)
	}

	return d.ingest(ctx, src.Name(), started, rows)
}

// IngestRows то же, что Ingest, для уже прочитанных строк
func (d *Directory) IngestRows(ctx context.Context, source string, rows []model.SheetRow) (*model.IngestionReport, error) {
	return d.ingest(ctx, source, d.now(), rows)
}

func (d *Directory) ingest(ctx context.Context, source string, started time.Time, rows []model.SheetRow) (*model.IngestionReport, error) {
	d.ingestMu.Lock()
	defer d.ingestMu.Unlock()

	report := &model.IngestionReport{
		RunID:     uuid.New(),
		Source:    source,
		StartedAt: started,
		RowsTotal: len(rows),
	}

	results, err := d.normalize(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("normalize rows: %w", err)
	}

	mentors := make([]model.Mentor, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for i, res := range results {
		if res.err != nil {
			failure := model.RowFailure{
				Sheet:  rows[i].Sheet,
				Row:    rows[i].Index,
				Reason: res.err.Error(),
			}
			report.Failures = append(report.Failures, failure)
			d.logger.Warn("Skipping malformed row",
				zap.String("source", source),
				zap.String("sheet", failure.Sheet),
				zap.Int("row", failure.Row),
				zap.String("reason", failure.Reason))
			continue
		}

		report.RowsOK++
		key := res.mentor.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		mentors = append(mentors, res.mentor)
	}
	report.RowsFailed = len(report.Failures)
	report.Mentors = len(mentors)

	// Отмена до публикации оставляет старый набор
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.FinishedAt = d.now()

	d.mu.Lock()
	d.mentors = mentors
	d.version = Version{
		RunID:    report.RunID,
		LoadedAt: report.FinishedAt,
		Mentors:  len(mentors),
	}
	d.mu.Unlock()

	d.logger.Info("Mentor directory replaced",
		zap.String("run_id", report.RunID.String()),
		zap.String("source", source),
		zap.Int("rows_total", report.RowsTotal),
		zap.Int("rows_ok", report.RowsOK),
		zap.Int("rows_failed", report.RowsFailed),
		zap.Int("mentors", report.Mentors))

	return report, nil
}

type rowResult struct {
	mentor model.Mentor
	err    error
}

// normalize разбирает строки параллельно, результат по индексу строки
func (d *Directory) normalize(ctx context.Context, rows []model.SheetRow) ([]rowResult, error) {
	results := make([]rowResult, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for i := range rows {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := parser.NormalizeRow(rows[i].Cells)
			results[i] = rowResult{mentor: m, err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// All копия текущего набора в порядке загрузки
func (d *Directory) All() []model.Mentor {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]model.Mentor, len(d.mentors))
	for i, m := range d.mentors {
		out[i] = m.Clone()
	}
	return out
}

// BySkill менторы, у которых хотя бы один навык содержит запрос (без учёта регистра)
func (d *Directory) BySkill(query string) []model.Mentor {
	var out []model.Mentor
	for _, m := range d.All() {
		if m.HasSkill(query) {
			out = append(out, m)
		}
	}
	return out
}

// ByEmail все записи с указанным email; email не уникален
func (d *Directory) ByEmail(email string) []model.Mentor {
	email = strings.TrimSpace(email)

	var out []model.Mentor
	for _, m := range d.All() {
		if strings.EqualFold(strings.TrimSpace(m.Email), email) {
			out = append(out, m)
		}
	}
	return out
}

// Len число записей
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.mentors)
}

// Version версия текущего набора
func (d *Directory) Version() Version {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}
