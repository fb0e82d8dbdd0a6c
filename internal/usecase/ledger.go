package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/fabvote/fabvote-gateway"
	"github.com/fabvote/fabvote-gateway/internal/domain"
)

var tracer = otel.Tracer("ledger")

// LedgerUsecase is the single shared entry point to the bound contract.
// Cache, transaction log and publisher are optional.
type LedgerUsecase struct {
	contract  Contract
	cache     QueryCache
	txlog     TransactionLogRepository
	publisher EventPublisher
	now       clock
}

type LedgerOption func(*LedgerUsecase)

func WithQueryCache(cache QueryCache) LedgerOption {
	return func(uc *LedgerUsecase) { uc.cache = cache }
}

func WithTransactionLog(repo TransactionLogRepository) LedgerOption {
	return func(uc *LedgerUsecase) { uc.txlog = repo }
}

func WithEventPublisher(publisher EventPublisher) LedgerOption {
	return func(uc *LedgerUsecase) { uc.publisher = publisher }
}

func NewLedgerUsecase(contract Contract, opts ...LedgerOption) *LedgerUsecase {
	uc := &LedgerUsecase{
		contract: contract,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Evaluate runs a read-only transaction. cacheable results are served from
// and stored into the query cache when one is configured.
func (uc *LedgerUsecase) Evaluate(ctx context.Context, cacheable bool, name string, args ...string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Ledger.Usecase.Evaluate")
	defer span.End()
	span.SetAttributes(attribute.String("transaction", name))

	if cacheable && uc.cache != nil {
		if cached, ok := uc.cache.Get(ctx, name, args); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached, nil
		}
	}

	start := uc.now()
	result, err := uc.contract.Evaluate(ctx, name, args...)
	uc.record(ctx, domain.InvocationEvaluate, name, args, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if cacheable && uc.cache != nil {
		uc.cache.Set(ctx, name, args, result)
	}
	return result, nil
}

// Submit runs a state-changing transaction, flushes the query cache and
// publishes event when it commits. A nil event publishes nothing.
func (uc *LedgerUsecase) Submit(ctx context.Context, event *fabvote.Event, name string, args ...string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Ledger.Usecase.Submit")
	defer span.End()
	span.SetAttributes(attribute.String("transaction", name))

	start := uc.now()
	result, err := uc.contract.Submit(ctx, name, args...)
	uc.record(ctx, domain.InvocationSubmit, name, args, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.Flush(ctx)
	}

	if event != nil && uc.publisher != nil {
		event.Transaction = name
		event.Timestamp = uc.now().UTC()
		err := uc.publisher.Publish(ctx, *event)
		if err != nil {
			slog.WarnContext(
				ctx, "failed to publish event",
				slog.String("type", event.Type),
				slog.String("error", err.Error()),
				slog.String("module", "ledger"),
			)
		}
	}

	return result, nil
}

func (uc *LedgerUsecase) record(ctx context.Context, kind domain.InvocationKind, name string, args []string, start time.Time, err error) {
	elapsed := uc.now().Sub(start)
	redacted := domain.Redact(name, args)

	attrs := []any{
		slog.String("kind", string(kind)),
		slog.String("transaction", name),
		slog.Any("args", redacted),
		slog.Duration("elapsed", elapsed),
		slog.String("module", "ledger"),
	}
	if err != nil {
		attrs = append(attrs, slog.String("errorKind", domain.KindOf(err).String()), slog.String("error", err.Error()))
		slog.InfoContext(ctx, "ledger invocation failed", attrs...)
	} else {
		slog.DebugContext(ctx, "ledger invocation", attrs...)
	}

	if uc.txlog == nil {
		return
	}

	entry := fabvote.TransactionLog{
		ID:          uuid.NewString(),
		Kind:        string(kind),
		Transaction: name,
		Args:        redacted,
		Success:     err == nil,
		DurationMs:  elapsed.Milliseconds(),
		CDate:       start.UTC(),
	}
	if err != nil {
		entry.ErrorKind = domain.KindOf(err).String()
		entry.Error = err.Error()
	}

	// audit failures are logged, never returned
	if logErr := uc.txlog.Create(ctx, entry); logErr != nil {
		slog.ErrorContext(
			ctx, "failed to write transaction log",
			slog.String("error", logErr.Error()),
			slog.String("module", "ledger"),
		)
	}
}

func (uc *LedgerUsecase) GetTransaction(ctx context.Context, id string) (fabvote.TransactionLog, error) {
	if uc.txlog == nil {
		return fabvote.TransactionLog{}, domain.NotFoundError{Resource: "transaction log"}
	}
	return uc.txlog.Get(ctx, id)
}

func (uc *LedgerUsecase) ListTransactions(ctx context.Context, limit int) ([]fabvote.TransactionLog, error) {
	if uc.txlog == nil {
		return nil, domain.NotFoundError{Resource: "transaction log"}
	}
	return uc.txlog.List(ctx, limit)
}

func (uc *LedgerUsecase) HasTransactionLog() bool {
	return uc.txlog != nil
}
