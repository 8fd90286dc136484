package attendance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	attendanceerrors "github.com/ishiyama1989/koutuhi/internal/attendance/errors"
	"github.com/ishiyama1989/koutuhi/internal/cost"
	"github.com/ishiyama1989/koutuhi/internal/dateresolve"
	"github.com/ishiyama1989/koutuhi/internal/export"
	"github.com/ishiyama1989/koutuhi/internal/matcher"
	"github.com/ishiyama1989/koutuhi/internal/normalize"
	"github.com/ishiyama1989/koutuhi/internal/patternmatch"
	"github.com/ishiyama1989/koutuhi/internal/registry"
	"github.com/ishiyama1989/koutuhi/internal/sheet"
	"github.com/ishiyama1989/koutuhi/internal/shared/contextutil"
	"github.com/ishiyama1989/koutuhi/internal/workbook"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// minSelectableColumns keeps sparse header rows selectable up to AF.
const minSelectableColumns = 32

// SnapshotSource is the part of the registry a pipeline pass needs.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (registry.Snapshot, error)
}

type Service interface {
	ListSheets(ctx context.Context, up Upload) (SheetsResponse, error)
	Preview(ctx context.Context, up Upload, sheetName string, m sheet.Mapping) (*Preview, error)
	Get(ctx context.Context, id string) (*Preview, error)
	Facts(ctx context.Context, id string, f FactFilter) ([]IndexedFact, error)
	People(ctx context.Context, id string) ([]PersonCount, error)
	CorrectName(ctx context.Context, id string, index int, name string) (IndexedFact, error)
	ResetName(ctx context.Context, id string, index int) (IndexedFact, error)
	Summary(ctx context.Context, id string) (Summary, error)
	Analysis(ctx context.Context, id string) (AnalysisResponse, error)
	PatternMatches(ctx context.Context, id string) (PatternMatchResponse, error)
	ExportCSV(ctx context.Context, id string) ([]byte, error)
	ExportDetailCSV(ctx context.Context, id string) ([]byte, error)
	ExportXLSX(ctx context.Context, id string) ([]byte, error)
	ExportPatternCSV(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	registry SnapshotSource
	repo     Repository
	dates    *dateresolve.Resolver
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(snapshots SnapshotSource, repo Repository, dates *dateresolve.Resolver, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if dates == nil {
		dates = dateresolve.New()
	}
	return &service{
		registry: snapshots,
		repo:     repo,
		dates:    dates,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func (s *service) ListSheets(ctx context.Context, up Upload) (SheetsResponse, error) {
	r, err := workbook.Open(up.Data, up.FileName)
	if err != nil {
		return SheetsResponse{}, err
	}
	defer r.Close()

	resp := SheetsResponse{FileName: up.FileName, Sheets: []SheetInfo{}}
	for _, name := range r.ListSheets() {
		g, err := r.ReadGrid(name)
		if err != nil {
			return SheetsResponse{}, err
		}
		resp.Sheets = append(resp.Sheets, SheetInfo{
			Name:    name,
			Rows:    len(g),
			Columns: sheet.Columns(g, minSelectableColumns),
		})
	}
	return resp, nil
}

func (s *service) Preview(ctx context.Context, up Upload, sheetName string, m sheet.Mapping) (*Preview, error) {
	log := s.log(ctx)
	log.Debug("build preview", zap.String("file", up.FileName), zap.String("sheet", sheetName), zap.String("layout", string(m.Layout)))

	if err := m.Validate(); err != nil {
		return nil, err
	}
	r, err := workbook.Open(up.Data, up.FileName)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	name, g, err := workbook.ReadFirstOr(r, sheetName)
	if err != nil {
		return nil, err
	}

	snap, err := s.registry.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	drafts, err := sheet.NewExtractor(snap, s.dates).Extract(g, m)
	if err != nil {
		return nil, err
	}

	facts := make([]Fact, len(drafts))
	for i, d := range drafts {
		facts[i] = buildFact(snap, d)
	}

	now := s.now()
	p := &Preview{
		ID:         uuid.New(),
		FileName:   up.FileName,
		Sheet:      name,
		Mapping:    m,
		Facts:      facts,
		Baseline:   cloneFacts(facts),
		Snapshot:   snap,
		CreatedAt:  now,
		AccessedAt: now,
	}
	if err := s.repo.Save(ctx, p); err != nil {
		log.Error("failed to store preview", zap.Error(err))
		return nil, err
	}

	log.Info("preview built",
		zap.String("preview_id", p.ID.String()),
		zap.String("sheet", name),
		zap.Int("facts", len(facts)),
	)
	return p, nil
}

// buildFact matches the draft's raw name and prices the day. The draft
// location is already final, including any train-commute redirect.
func buildFact(snap registry.Snapshot, d sheet.Draft) Fact {
	f := Fact{
		Name:         d.Name,
		OriginalName: d.OriginalName,
		Date:         d.Date,
		DayOfWeek:    d.DayOfWeek,
		Location:     d.Location,
		OriginalCell: d.OriginalCell,
		SourceRow:    d.SourceRow,
	}
	rematch(snap, &f, d.OriginalName)
	return f
}

func rematch(snap registry.Snapshot, f *Fact, name string) {
	f.Person = nil
	if p := matcher.FindPerson(snap, name); p != nil {
		cp := p.Clone()
		f.Person = &cp
	}
	f.Status = matcher.StatusOf(f.Person)

	wp := matcher.FindWorkPattern(snap, f.Location, f.OriginalCell)
	b := cost.NewResolver(snap.Settings).Resolve(f.Person, f.Location, wp)
	f.Cost = b.Amount
	f.Method = b.Method()
}

func (s *service) load(ctx context.Context, id string) (*Preview, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidPreviewID
	}
	return s.repo.Get(ctx, uid)
}

func (s *service) Get(ctx context.Context, id string) (*Preview, error) {
	return s.load(ctx, id)
}

func (s *service) Facts(ctx context.Context, id string, f FactFilter) ([]IndexedFact, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return filterFacts(p.Facts, f), nil
}

// filterFacts keeps the original indexes so callers can address a fact for
// correction from a filtered page.
func filterFacts(facts []Fact, f FactFilter) []IndexedFact {
	out := make([]IndexedFact, 0, len(facts))
	for i, fact := range facts {
		if f.Person != "" && fact.Name != f.Person {
			continue
		}
		if f.Status != "" && fact.Status != f.Status {
			continue
		}
		out = append(out, IndexedFact{Index: i, Fact: fact})
	}
	return out
}

func (s *service) People(ctx context.Context, id string) ([]PersonCount, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	out := []PersonCount{}
	pos := map[string]int{}
	for _, f := range p.Facts {
		i, ok := pos[f.Name]
		if !ok {
			i = len(out)
			pos[f.Name] = i
			out = append(out, PersonCount{Name: f.Name, Status: f.Status})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CorrectName renames one fact and re-runs matching for it against the
// current registry. Other facts are left as they were.
func (s *service) CorrectName(ctx context.Context, id string, index int, name string) (IndexedFact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return IndexedFact{}, attendanceerrors.ErrEmptyName
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return IndexedFact{}, attendanceerrors.ErrInvalidPreviewID
	}
	snap, err := s.registry.Snapshot(ctx)
	if err != nil {
		return IndexedFact{}, err
	}

	var out IndexedFact
	_, err = s.repo.Update(ctx, uid, func(p *Preview) error {
		if index < 0 || index >= len(p.Facts) {
			return fmt.Errorf("%w: index %d", attendanceerrors.ErrFactNotFound, index)
		}
		f := &p.Facts[index]
		f.Name = normalize.Name(name)
		f.NameModified = f.Name != p.Baseline[index].Name
		rematch(snap, f, name)
		out = IndexedFact{Index: index, Fact: *f}
		return nil
	})
	if err != nil {
		return IndexedFact{}, err
	}

	s.log(ctx).Info("fact name corrected",
		zap.String("preview_id", id),
		zap.Int("index", index),
		zap.String("status", string(out.Status)),
	)
	return out, nil
}

func (s *service) ResetName(ctx context.Context, id string, index int) (IndexedFact, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return IndexedFact{}, attendanceerrors.ErrInvalidPreviewID
	}

	var out IndexedFact
	_, err = s.repo.Update(ctx, uid, func(p *Preview) error {
		if index < 0 || index >= len(p.Facts) {
			return fmt.Errorf("%w: index %d", attendanceerrors.ErrFactNotFound, index)
		}
		p.Facts[index] = cloneFacts(p.Baseline[index : index+1])[0]
		out = IndexedFact{Index: index, Fact: p.Facts[index]}
		return nil
	})
	if err != nil {
		return IndexedFact{}, err
	}
	return out, nil
}

func (s *service) Summary(ctx context.Context, id string) (Summary, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(p.Facts), nil
}

func (s *service) Analysis(ctx context.Context, id string) (AnalysisResponse, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return AnalysisResponse{}, err
	}
	return Analyze(p.Snapshot, p.Facts), nil
}

func (s *service) PatternMatches(ctx context.Context, id string) (PatternMatchResponse, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return PatternMatchResponse{}, err
	}
	results := MatchPatterns(p.Snapshot, p.Facts)
	return PatternMatchResponse{Summary: patternmatch.Summarize(results), Results: results}, nil
}

func (s *service) ExportCSV(ctx context.Context, id string) ([]byte, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return export.SummaryCSV(summaryRows(p.Facts))
}

func (s *service) ExportDetailCSV(ctx context.Context, id string) ([]byte, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return export.DetailCSV(detailRows(p.Facts))
}

func (s *service) ExportXLSX(ctx context.Context, id string) ([]byte, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	sum := Summarize(p.Facts)
	locations := make([]export.LocationRow, len(sum.Locations))
	for i, l := range sum.Locations {
		locations[i] = export.LocationRow{Location: l.Key, Count: l.Count}
	}
	return export.Workbook(summaryRows(p.Facts), detailRows(p.Facts), locations)
}

func (s *service) ExportPatternCSV(ctx context.Context, id string) ([]byte, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return export.PatternCSV(MatchPatterns(p.Snapshot, p.Facts)), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return attendanceerrors.ErrInvalidPreviewID
	}
	if err := s.repo.Delete(ctx, uid); err != nil {
		return err
	}
	s.log(ctx).Info("preview deleted", zap.String("preview_id", id))
	return nil
}

func summaryRows(facts []Fact) []export.SummaryRow {
	totals := personTotals(facts)
	out := make([]export.SummaryRow, len(totals))
	for i, t := range totals {
		out[i] = export.SummaryRow{Name: t.Name, TotalCost: t.TotalCost, WorkDays: t.WorkDays}
	}
	return out
}

func detailRows(facts []Fact) []export.DetailRow {
	out := make([]export.DetailRow, len(facts))
	for i, f := range facts {
		out[i] = export.DetailRow{
			Name:         f.Name,
			OriginalName: f.OriginalName,
			Date:         f.Date,
			DayOfWeek:    f.DayOfWeek,
			Location:     f.Location,
			OriginalCell: f.OriginalCell,
			Status:       string(f.Status),
			Method:       f.Method,
			Cost:         f.Cost,
			SourceRow:    f.SourceRow,
			NameModified: f.NameModified,
		}
	}
	return out
}
