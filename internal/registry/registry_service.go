package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	registryerrors "github.com/ishiyama1989/koutuhi/internal/registry/errors"
	"github.com/ishiyama1989/koutuhi/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Service interface {
	Snapshot(ctx context.Context) (Snapshot, error)

	ListPeople(ctx context.Context) ([]Person, error)
	GetPerson(ctx context.Context, id string) (Person, error)
	CreatePerson(ctx context.Context, req PersonRequest) (Person, error)
	UpdatePerson(ctx context.Context, id string, req PersonRequest) (Person, error)
	DeletePerson(ctx context.Context, id string) error

	ListPatterns(ctx context.Context) ([]WorkPattern, error)
	GetPattern(ctx context.Context, id string) (WorkPattern, error)
	CreatePattern(ctx context.Context, req PatternRequest) (WorkPattern, error)
	UpdatePattern(ctx context.Context, id string, req PatternRequest) (WorkPattern, error)
	DeletePattern(ctx context.Context, id string) error

	GetSettings(ctx context.Context) (Settings, error)
	UpdateSettings(ctx context.Context, req SettingsRequest) (Settings, error)

	Export(ctx context.Context) (Document, error)
	Import(ctx context.Context, data []byte) (ImportResult, error)
	Clear(ctx context.Context) error
}

// service keeps the registry in memory behind a RWMutex. Every mutation
// builds the next state, persists it, and only then swaps it in, so a failed
// validation or write leaves the registry untouched.
type service struct {
	repo   Repository
	mu     sync.RWMutex
	state  Snapshot
	loaded bool
	sf     singleflight.Group
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("registry.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("registry.service")
	}
	return &service{
		repo:   repo,
		now:    func() time.Time { return time.Now().UTC() },
		logger: l,
	}
}

func (s *service) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	// Concurrent first requests share one load.
	_, err, _ := s.sf.Do("registry", func() (interface{}, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.loaded {
			return nil, nil
		}
		snap, err := s.repo.Load(ctx)
		if err != nil {
			return nil, err
		}
		ensureUniqueIDs(snap.People, snap.Patterns)
		s.state = snap
		s.loaded = true
		s.logger.Info("registry loaded",
			zap.Int("people", len(snap.People)),
			zap.Int("patterns", len(snap.Patterns)),
		)
		return nil, nil
	})
	if err != nil {
		s.logger.Error("registry load failed", zap.Error(err))
	}
	return err
}

func (s *service) Snapshot(ctx context.Context) (Snapshot, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone(), nil
}

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, registryerrors.ErrInvalidID
	}
	return uid, nil
}

func (s *service) ListPeople(ctx context.Context) ([]Person, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.People, nil
}

func (s *service) GetPerson(ctx context.Context, id string) (Person, error) {
	uid, err := parseID(id)
	if err != nil {
		return Person{}, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Person{}, err
	}
	for _, p := range snap.People {
		if p.ID == uid {
			return p, nil
		}
	}
	return Person{}, registryerrors.ErrPersonNotFound
}

func personFromRequest(id uuid.UUID, req PersonRequest) Person {
	return normalizePerson(Person{
		ID:                     id,
		Name:                   req.Name,
		JobTypes:               append([]string(nil), req.JobTypes...),
		NearestStation:         req.NearestStation,
		NearestStationDistance: req.NearestStationDistance,
		HasPrivateCar:          req.HasPrivateCar,
		Distances:              canonicalDistances(req.Distances),
	})
}

func (s *service) CreatePerson(ctx context.Context, req PersonRequest) (Person, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create person requested",
		zap.String("request_id", rid),
		zap.String("name", req.Name),
	)
	if err := s.ensureLoaded(ctx); err != nil {
		return Person{}, err
	}

	p := personFromRequest(uuid.New(), req)
	if err := validatePerson(p); err != nil {
		s.logger.Warn("create person validation failed", zap.String("request_id", rid), zap.Error(err))
		return Person{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkPersonUnique(s.state.People, p); err != nil {
		return Person{}, err
	}

	next := append(append(make([]Person, 0, len(s.state.People)+1), s.state.People...), p)
	if err := s.repo.SavePeople(ctx, next); err != nil {
		s.logger.Error("create person persist failed", zap.String("request_id", rid), zap.Error(err))
		return Person{}, err
	}
	s.state.People = next

	s.logger.Info("create person success",
		zap.String("request_id", rid),
		zap.String("person_id", p.ID.String()),
	)
	return p.Clone(), nil
}

func (s *service) UpdatePerson(ctx context.Context, id string, req PersonRequest) (Person, error) {
	s.logger.Debug("update person requested", zap.String("person_id", id))
	uid, err := parseID(id)
	if err != nil {
		return Person{}, err
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return Person{}, err
	}

	p := personFromRequest(uid, req)
	if err := validatePerson(p); err != nil {
		s.logger.Warn("update person validation failed", zap.String("person_id", id), zap.Error(err))
		return Person{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, existing := range s.state.People {
		if existing.ID == uid {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Person{}, registryerrors.ErrPersonNotFound
	}
	if err := checkPersonUnique(s.state.People, p); err != nil {
		return Person{}, err
	}

	next := append([]Person(nil), s.state.People...)
	next[idx] = p
	if err := s.repo.SavePeople(ctx, next); err != nil {
		s.logger.Error("update person persist failed", zap.String("person_id", id), zap.Error(err))
		return Person{}, err
	}
	s.state.People = next

	s.logger.Info("update person success", zap.String("person_id", id))
	return p.Clone(), nil
}

func (s *service) DeletePerson(ctx context.Context, id string) error {
	s.logger.Debug("delete person requested", zap.String("person_id", id))
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]Person, 0, len(s.state.People))
	for _, p := range s.state.People {
		if p.ID != uid {
			next = append(next, p)
		}
	}
	if len(next) == len(s.state.People) {
		return registryerrors.ErrPersonNotFound
	}
	if err := s.repo.SavePeople(ctx, next); err != nil {
		s.logger.Error("delete person persist failed", zap.String("person_id", id), zap.Error(err))
		return err
	}
	s.state.People = next

	s.logger.Info("delete person success", zap.String("person_id", id))
	return nil
}

func (s *service) ListPatterns(ctx context.Context) ([]WorkPattern, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Patterns, nil
}

func (s *service) GetPattern(ctx context.Context, id string) (WorkPattern, error) {
	uid, err := parseID(id)
	if err != nil {
		return WorkPattern{}, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return WorkPattern{}, err
	}
	for _, p := range snap.Patterns {
		if p.ID == uid {
			return p, nil
		}
	}
	return WorkPattern{}, registryerrors.ErrPatternNotFound
}

func (s *service) CreatePattern(ctx context.Context, req PatternRequest) (WorkPattern, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create pattern requested",
		zap.String("request_id", rid),
		zap.String("name", req.Name),
		zap.String("work_location", req.WorkLocation),
	)
	if err := s.ensureLoaded(ctx); err != nil {
		return WorkPattern{}, err
	}

	p := normalizePattern(WorkPattern{
		ID:           uuid.New(),
		Name:         req.Name,
		WorkLocation: req.WorkLocation,
		TrainCommute: req.TrainCommute,
		TripType:     req.TripType,
		CreatedAt:    s.now(),
	})
	if err := validatePattern(p); err != nil {
		s.logger.Warn("create pattern validation failed", zap.String("request_id", rid), zap.Error(err))
		return WorkPattern{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkPatternUnique(s.state.Patterns, p); err != nil {
		return WorkPattern{}, err
	}

	next := append(append(make([]WorkPattern, 0, len(s.state.Patterns)+1), s.state.Patterns...), p)
	if err := s.repo.SavePatterns(ctx, next); err != nil {
		s.logger.Error("create pattern persist failed", zap.String("request_id", rid), zap.Error(err))
		return WorkPattern{}, err
	}
	s.state.Patterns = next

	s.logger.Info("create pattern success",
		zap.String("request_id", rid),
		zap.String("pattern_id", p.ID.String()),
	)
	return p, nil
}

func (s *service) UpdatePattern(ctx context.Context, id string, req PatternRequest) (WorkPattern, error) {
	s.logger.Debug("update pattern requested", zap.String("pattern_id", id))
	uid, err := parseID(id)
	if err != nil {
		return WorkPattern{}, err
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return WorkPattern{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, existing := range s.state.Patterns {
		if existing.ID == uid {
			idx = i
			break
		}
	}
	if idx < 0 {
		return WorkPattern{}, registryerrors.ErrPatternNotFound
	}

	p := normalizePattern(WorkPattern{
		ID:           uid,
		Name:         req.Name,
		WorkLocation: req.WorkLocation,
		TrainCommute: req.TrainCommute,
		TripType:     req.TripType,
		CreatedAt:    s.state.Patterns[idx].CreatedAt,
	})
	if err := validatePattern(p); err != nil {
		s.logger.Warn("update pattern validation failed", zap.String("pattern_id", id), zap.Error(err))
		return WorkPattern{}, err
	}
	if err := checkPatternUnique(s.state.Patterns, p); err != nil {
		return WorkPattern{}, err
	}

	next := append([]WorkPattern(nil), s.state.Patterns...)
	next[idx] = p
	if err := s.repo.SavePatterns(ctx, next); err != nil {
		s.logger.Error("update pattern persist failed", zap.String("pattern_id", id), zap.Error(err))
		return WorkPattern{}, err
	}
	s.state.Patterns = next

	s.logger.Info("update pattern success", zap.String("pattern_id", id))
	return p, nil
}

func (s *service) DeletePattern(ctx context.Context, id string) error {
	s.logger.Debug("delete pattern requested", zap.String("pattern_id", id))
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]WorkPattern, 0, len(s.state.Patterns))
	for _, p := range s.state.Patterns {
		if p.ID != uid {
			next = append(next, p)
		}
	}
	if len(next) == len(s.state.Patterns) {
		return registryerrors.ErrPatternNotFound
	}
	if err := s.repo.SavePatterns(ctx, next); err != nil {
		s.logger.Error("delete pattern persist failed", zap.String("pattern_id", id), zap.Error(err))
		return err
	}
	s.state.Patterns = next

	s.logger.Info("delete pattern success", zap.String("pattern_id", id))
	return nil
}

func (s *service) GetSettings(ctx context.Context) (Settings, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Settings{}, err
	}
	return snap.Settings, nil
}

func (s *service) UpdateSettings(ctx context.Context, req SettingsRequest) (Settings, error) {
	if req.UnitRate == nil {
		return Settings{}, registryerrors.ErrMissingRequiredFields
	}
	settings := Settings{UnitRate: *req.UnitRate}
	if err := validateSettings(settings); err != nil {
		return Settings{}, err
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return Settings{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		s.logger.Error("update settings persist failed", zap.Error(err))
		return Settings{}, err
	}
	s.state.Settings = settings

	s.logger.Info("update settings success", zap.Float64("unit_rate", settings.UnitRate))
	return settings, nil
}

func (s *service) Export(ctx context.Context) (Document, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Document{}, err
	}
	return Document{People: snap.People, Patterns: snap.Patterns, Settings: snap.Settings}, nil
}

// Import replaces each section present in data. Nothing is written unless
// every record of every section is valid.
func (s *service) Import(ctx context.Context, data []byte) (ImportResult, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("import registry requested", zap.String("request_id", rid), zap.Int("bytes", len(data)))
	if err := s.ensureLoaded(ctx); err != nil {
		return ImportResult{}, err
	}

	var doc importDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("import registry decode failed", zap.String("request_id", rid), zap.Error(err))
		return ImportResult{}, fmt.Errorf("%w: %v", registryerrors.ErrInvalidImport, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state.clone()
	people, patterns, settings := prev.People, prev.Patterns, prev.Settings
	var result ImportResult
	var err error
	if isPresent(doc.People) {
		if people, err = decodePeople(doc.People); err != nil {
			return ImportResult{}, fmt.Errorf("%w: people: %v", registryerrors.ErrInvalidImport, err)
		}
		result.People = len(people)
	}
	if isPresent(doc.Patterns) {
		if patterns, err = decodePatterns(doc.Patterns); err != nil {
			return ImportResult{}, fmt.Errorf("%w: patterns: %v", registryerrors.ErrInvalidImport, err)
		}
		for i := range patterns {
			if patterns[i].CreatedAt.IsZero() {
				patterns[i].CreatedAt = s.now()
			}
		}
		result.Patterns = len(patterns)
	}
	if isPresent(doc.Settings) {
		if settings, err = decodeSettings(doc.Settings); err != nil {
			return ImportResult{}, fmt.Errorf("%w: settings: %v", registryerrors.ErrInvalidImport, err)
		}
		if err := validateSettings(settings); err != nil {
			return ImportResult{}, err
		}
		result.Settings = true
	}

	ensureUniqueIDs(people, patterns)
	if err := validateAll(people, patterns); err != nil {
		s.logger.Warn("import registry validation failed", zap.String("request_id", rid), zap.Error(err))
		return ImportResult{}, err
	}

	next := Snapshot{People: people, Patterns: patterns, Settings: settings}
	if err := s.persistImport(ctx, prev, next, isPresent(doc.People), isPresent(doc.Patterns), result.Settings); err != nil {
		s.logger.Error("import registry persist failed", zap.String("request_id", rid), zap.Error(err))
		return ImportResult{}, err
	}
	s.state = next

	s.logger.Info("import registry success",
		zap.String("request_id", rid),
		zap.Int("people", result.People),
		zap.Int("patterns", result.Patterns),
	)
	return result, nil
}

// persistImport writes the selected sections of next. When a write fails,
// the sections already written are restored from prev.
func (s *service) persistImport(ctx context.Context, prev, next Snapshot, people, patterns, settings bool) error {
	var undo []func() error
	rollback := func() {
		for i := len(undo) - 1; i >= 0; i-- {
			if err := undo[i](); err != nil {
				s.logger.Error("import registry rollback failed", zap.Error(err))
			}
		}
	}

	if people {
		if err := s.repo.SavePeople(ctx, next.People); err != nil {
			return err
		}
		undo = append(undo, func() error { return s.repo.SavePeople(ctx, prev.People) })
	}
	if patterns {
		if err := s.repo.SavePatterns(ctx, next.Patterns); err != nil {
			rollback()
			return err
		}
		undo = append(undo, func() error { return s.repo.SavePatterns(ctx, prev.Patterns) })
	}
	if settings {
		if err := s.repo.SaveSettings(ctx, next.Settings); err != nil {
			rollback()
			return err
		}
	}
	return nil
}

func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func (s *service) Clear(ctx context.Context) error {
	s.logger.Debug("clear registry requested")
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Clear(ctx); err != nil {
		s.logger.Error("clear registry failed", zap.Error(err))
		return err
	}
	s.state = Snapshot{People: []Person{}, Patterns: []WorkPattern{}, Settings: DefaultSettings()}
	s.loaded = true
	s.logger.Info("clear registry success")
	return nil
}
