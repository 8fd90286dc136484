package monthly

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"time"

	"github.com/ishiyama1989/koutuhi/internal/attendance"
	"github.com/ishiyama1989/koutuhi/internal/events"
	"github.com/ishiyama1989/koutuhi/internal/messaging/kafka"
	monthlyerrors "github.com/ishiyama1989/koutuhi/internal/monthly/errors"
	"github.com/ishiyama1989/koutuhi/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// PreviewSource is satisfied by attendance.Service.
type PreviewSource interface {
	Get(ctx context.Context, id string) (*attendance.Preview, error)
}

type Service interface {
	Save(ctx context.Context, req SaveRequest) (SaveResponse, error)
	List(ctx context.Context) ([]MonthEntry, error)
	Get(ctx context.Context, month string) (Record, error)
	Delete(ctx context.Context, month string) error
}

type service struct {
	repo     Repository
	previews PreviewSource
	outbox   kafka.OutboxRepository
	now      func() time.Time
	logger   *zap.Logger
}

// NewService builds the monthly snapshot service. outbox may be nil, in which
// case saves publish no event.
func NewService(repo Repository, previews PreviewSource, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("monthly.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("monthly.service")
	}
	return &service{
		repo:     repo,
		previews: previews,
		outbox:   outbox,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func validMonth(month string) bool {
	if !monthPattern.MatchString(month) {
		return false
	}
	_, err := time.Parse("2006-01", month)
	return err == nil
}

// monthOf picks the month of the first dated fact.
func monthOf(facts []attendance.Fact) string {
	for _, f := range facts {
		if len(f.Date) >= 7 && validMonth(f.Date[:7]) {
			return f.Date[:7]
		}
	}
	return ""
}

func (s *service) Save(ctx context.Context, req SaveRequest) (SaveResponse, error) {
	log := s.log(ctx)
	log.Debug("save monthly snapshot requested",
		zap.String("preview_id", req.PreviewID),
		zap.String("month", req.Month),
	)

	p, err := s.previews.Get(ctx, req.PreviewID)
	if err != nil {
		return SaveResponse{}, err
	}

	month := req.Month
	if month == "" {
		month = monthOf(p.Facts)
		if month == "" {
			return SaveResponse{}, monthlyerrors.ErrMonthRequired
		}
	}
	if !validMonth(month) {
		return SaveResponse{}, monthlyerrors.ErrInvalidMonth
	}

	rec := Record{
		Month:        month,
		Data:         p.Facts,
		SavedAt:      s.now(),
		TotalRecords: len(p.Facts),
		Summary:      summaryOf(p.Facts),
	}
	replaced, err := s.repo.Save(ctx, rec)
	if err != nil {
		log.Error("save monthly snapshot persist failed", zap.String("month", month), zap.Error(err))
		return SaveResponse{}, err
	}

	s.enqueueSaved(ctx, rec, replaced)

	log.Info("save monthly snapshot success",
		zap.String("month", month),
		zap.Int("records", rec.TotalRecords),
		zap.Bool("replaced", replaced),
	)
	return SaveResponse{
		Month:        month,
		TotalRecords: rec.TotalRecords,
		TotalCost:    rec.Summary.TotalCost,
		SavedAt:      rec.SavedAt,
		Replaced:     replaced,
	}, nil
}

// enqueueSaved records the saved event in the outbox. The snapshot is already
// stored, so a failure here is logged and not returned.
func (s *service) enqueueSaved(ctx context.Context, rec Record, replaced bool) {
	if s.outbox == nil {
		return
	}
	payload, err := json.Marshal(events.MonthlySnapshotSavedEvent{
		EventType:         events.MonthlySnapshotSavedType,
		Month:             rec.Month,
		TotalRecords:      rec.TotalRecords,
		RegisteredCount:   rec.Summary.RegisteredCount,
		UnregisteredCount: rec.Summary.UnregisteredCount,
		TotalCost:         rec.Summary.TotalCost,
		Replaced:          replaced,
		OccurredAt:        rec.SavedAt,
	})
	if err != nil {
		s.log(ctx).Error("encode monthly snapshot event failed", zap.Error(err))
		return
	}

	err = s.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: events.MonthlySnapshotAggregate,
		AggregateID:   rec.Month,
		EventType:     events.MonthlySnapshotSavedType,
		Topic:         events.MonthlySnapshotSavedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
		CreatedAt:     rec.SavedAt,
	})
	if err != nil {
		s.log(ctx).Error("enqueue monthly snapshot event failed", zap.String("month", rec.Month), zap.Error(err))
	}
}

func (s *service) List(ctx context.Context) ([]MonthEntry, error) {
	months, err := s.repo.Months(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MonthEntry, 0, len(months))
	for _, m := range months {
		rec, err := s.repo.Get(ctx, m)
		if errors.Is(err, ErrRecordNotFound) {
			s.log(ctx).Warn("indexed month has no record", zap.String("month", m))
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, MonthEntry{
			Month:        rec.Month,
			SavedAt:      rec.SavedAt,
			TotalRecords: rec.TotalRecords,
			TotalCost:    rec.Summary.TotalCost,
		})
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, month string) (Record, error) {
	if !validMonth(month) {
		return Record{}, monthlyerrors.ErrInvalidMonth
	}
	rec, err := s.repo.Get(ctx, month)
	if errors.Is(err, ErrRecordNotFound) {
		return Record{}, monthlyerrors.ErrMonthNotFound
	}
	return rec, err
}

func (s *service) Delete(ctx context.Context, month string) error {
	if !validMonth(month) {
		return monthlyerrors.ErrInvalidMonth
	}
	err := s.repo.Delete(ctx, month)
	if errors.Is(err, ErrRecordNotFound) {
		return monthlyerrors.ErrMonthNotFound
	}
	if err != nil {
		s.log(ctx).Error("delete monthly snapshot failed", zap.String("month", month), zap.Error(err))
		return err
	}
	s.log(ctx).Info("delete monthly snapshot success", zap.String("month", month))
	return nil
}
