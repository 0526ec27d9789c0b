package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sjperalta/fintera-schedule/internal/cache"
	"github.com/sjperalta/fintera-schedule/internal/metrics"
	"github.com/sjperalta/fintera-schedule/internal/models"
	"github.com/sjperalta/fintera-schedule/internal/repository"
	"github.com/sjperalta/fintera-schedule/internal/schedule"
	"github.com/sjperalta/fintera-schedule/internal/statemachine"
	"github.com/sjperalta/fintera-schedule/internal/tracing"
	"github.com/sjperalta/fintera-schedule/pkg/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// Build sources, used as metric labels.
const (
	sourceContract = "contract"
	sourcePreview  = "preview"
	sourceScan     = "scan"
)

// ContractSchedule is a reconciled schedule together with the contract it was
// built from. Schedule slots point into Records.
type ContractSchedule struct {
	Contract *models.Contract
	Records  []schedule.PaymentRecord
	Schedule *schedule.Schedule
	Today    time.Time
}

// Output encodes the schedule with slot status labels.
func (cs *ContractSchedule) Output() schedule.Output {
	return schedule.Encode(cs.Schedule, statemachine.SlotStatus)
}

// ScheduleService computes installment schedules for stored contracts and for
// ad-hoc previews.
type ScheduleService struct {
	contractRepo repository.ContractRepository
	paymentRepo  repository.PaymentRepository
	cache        cache.Cache
	cacheTTL     time.Duration
	location     *time.Location
	now          func() time.Time
}

func NewScheduleService(
	contractRepo repository.ContractRepository,
	paymentRepo repository.PaymentRepository,
	c cache.Cache,
	cacheTTL time.Duration,
	location *time.Location,
) *ScheduleService {
	if location == nil {
		location = time.UTC
	}
	return &ScheduleService{
		contractRepo: contractRepo,
		paymentRepo:  paymentRepo,
		cache:        c,
		cacheTTL:     cacheTTL,
		location:     location,
		now:          time.Now,
	}
}

// Today is the current calendar day in the business timezone.
func (s *ScheduleService) Today() time.Time {
	return schedule.DateOnly(s.now().In(s.location))
}

// Compute loads the contract with its payments and reconciles them.
func (s *ScheduleService) Compute(ctx context.Context, contractID uint) (*ContractSchedule, error) {
	ctx, span := tracing.Tracer().Start(ctx, "ScheduleService.Compute",
		trace.WithAttributes(attribute.Int64("contract.id", int64(contractID))))
	defer span.End()

	contract, err := s.contractRepo.FindByIDWithPayments(ctx, contractID)
	if err != nil {
		err = lookupError(err, "contract", contractID)
		recordSpanError(span, err)
		return nil, err
	}

	return s.build(ctx, contract, contract.Payments, sourceContract), nil
}

// ContractSchedule returns the encoded schedule for a stored contract. Results
// are cached under a fingerprint of the contract, its payment history and the
// current day, so any change to the inputs produces a fresh computation.
func (s *ScheduleService) ContractSchedule(ctx context.Context, contractID uint) (*schedule.Output, error) {
	ctx, span := tracing.Tracer().Start(ctx, "ScheduleService.ContractSchedule",
		trace.WithAttributes(attribute.Int64("contract.id", int64(contractID))))
	defer span.End()

	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		err = lookupError(err, "contract", contractID)
		recordSpanError(span, err)
		return nil, err
	}

	marker, err := s.paymentRepo.ChangeMarker(ctx, contractID)
	if err != nil {
		err = fmt.Errorf("failed to read payment history of contract %d: %w", contractID, err)
		recordSpanError(span, err)
		return nil, err
	}

	today := s.Today()
	key := contractCacheKey(contract, marker, today)
	if out, ok := s.cached(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return out, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	payments, err := s.paymentRepo.FindByContract(ctx, contractID)
	if err != nil {
		err = fmt.Errorf("failed to load payments of contract %d: %w", contractID, err)
		recordSpanError(span, err)
		return nil, err
	}

	cs := s.build(ctx, contract, payments, sourceContract)
	out := cs.Output()
	s.store(ctx, key, &out)
	return &out, nil
}

// Preview reconciles a contract and payment history supplied in the
// collaborator wire format, without touching the database.
func (s *ScheduleService) Preview(ctx context.Context, contractJSON, paymentsJSON []byte) (*schedule.Output, error) {
	ctx, span := tracing.Tracer().Start(ctx, "ScheduleService.Preview")
	defer span.End()

	today := s.Today()
	key := cache.Key("preview", contractJSON, paymentsJSON, []byte(today.Format(time.DateOnly)))
	if out, ok := s.cached(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return out, nil
	}

	terms, contractDiags, err := schedule.DecodeContract(contractJSON)
	if err != nil {
		metrics.ScheduleBuilds.WithLabelValues(sourcePreview, "rejected").Inc()
		err = fmt.Errorf("%w: %v", ErrInvalidInput, err)
		recordSpanError(span, err)
		return nil, err
	}

	records, paymentDiags, err := schedule.DecodePayments(paymentsJSON)
	if err != nil {
		metrics.ScheduleBuilds.WithLabelValues(sourcePreview, "rejected").Inc()
		err = fmt.Errorf("%w: %v", ErrInvalidInput, err)
		recordSpanError(span, err)
		return nil, err
	}

	start := time.Now()
	result := schedule.Build(terms, records, today)
	metrics.ScheduleBuildDuration.WithLabelValues(sourcePreview).Observe(time.Since(start).Seconds())
	metrics.ScheduleBuilds.WithLabelValues(sourcePreview, "ok").Inc()

	diags := append(append(contractDiags, paymentDiags...), result.Diagnostics...)
	s.reportDiagnostics(ctx, "preview", diags)
	span.SetAttributes(
		attribute.Int("schedule.slots", len(result.Slots)),
		attribute.Int("schedule.diagnostics", len(diags)),
	)

	out := schedule.Encode(result, statemachine.SlotStatus)
	s.store(ctx, key, &out)
	return &out, nil
}

func (s *ScheduleService) build(ctx context.Context, contract *models.Contract, payments []models.Payment, source string) *ContractSchedule {
	_, span := tracing.Tracer().Start(ctx, "schedule.Build")
	defer span.End()

	today := s.Today()
	records := models.ToRecords(payments)

	start := time.Now()
	result := schedule.Build(contract.ToTerms(), records, today)
	metrics.ScheduleBuildDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	metrics.ScheduleBuilds.WithLabelValues(source, "ok").Inc()

	span.SetAttributes(
		attribute.Int("schedule.slots", len(result.Slots)),
		attribute.Int("schedule.overdue", result.OverdueSlots()),
		attribute.Int("schedule.diagnostics", len(result.Diagnostics)),
	)
	s.reportDiagnostics(ctx, strconv.FormatUint(uint64(contract.ID), 10), result.Diagnostics)

	return &ContractSchedule{
		Contract: contract,
		Records:  records,
		Schedule: result,
		Today:    today,
	}
}

// reportDiagnostics logs input anomalies and leaves a breadcrumb on the
// request's Sentry hub. They are never returned to API clients.
func (s *ScheduleService) reportDiagnostics(ctx context.Context, contractRef string, diags []schedule.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	log := logger.Ctx(ctx)
	hub := sentry.GetHubFromContext(ctx)
	for _, d := range diags {
		metrics.ScheduleDiagnostics.WithLabelValues(string(d.Kind)).Inc()
		log.Warn("Schedule input anomaly",
			slog.String("contract_id", contractRef),
			slog.String("kind", string(d.Kind)),
			slog.String("record_id", d.RecordID),
			slog.String("field", d.Field),
			slog.String("detail", d.Message),
		)
		if hub != nil {
			hub.AddBreadcrumb(&sentry.Breadcrumb{
				Category: "schedule",
				Message:  d.String(),
				Level:    sentry.LevelWarning,
				Data:     map[string]interface{}{"contract_id": contractRef},
			}, nil)
		}
	}
}

func (s *ScheduleService) cached(ctx context.Context, key string) (*schedule.Output, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		logger.Ctx(ctx).Warn("Schedule cache read failed", slog.Any("error", err))
		return nil, false
	}
	if !ok {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	var out schedule.Output
	if err := json.Unmarshal(data, &out); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return &out, true
}

func (s *ScheduleService) store(ctx context.Context, key string, out *schedule.Output) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		logger.Ctx(ctx).Warn("Schedule cache write failed", slog.Any("error", err))
	}
}

func contractCacheKey(c *models.Contract, m *repository.PaymentChangeMarker, today time.Time) string {
	lastPayment := ""
	if m.LastUpdated != nil {
		lastPayment = m.LastUpdated.UTC().Format(time.RFC3339Nano)
	}
	return cache.Key("schedule",
		[]byte(strconv.FormatUint(uint64(c.ID), 10)),
		[]byte(c.UpdatedAt.UTC().Format(time.RFC3339Nano)),
		[]byte(strconv.FormatInt(m.Count, 10)),
		[]byte(lastPayment),
		[]byte(today.Format(time.DateOnly)),
	)
}

func lookupError(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return fmt.Errorf("failed to load %s %d: %w", entity, id, err)
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
