package scoreboard

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aojudge/ranklist/internal/database"
	"github.com/aojudge/ranklist/internal/database/models"
	"github.com/aojudge/ranklist/internal/pubsub"
	"github.com/aojudge/ranklist/internal/rank"
	"github.com/aojudge/ranklist/internal/roster"
)

// Topic is the broker topic scoreboard snapshots are published on.
const Topic = "scoreboard"

var (
	ErrCeremonyRunning = errors.New("an award ceremony is already running")
	ErrNoCeremony      = errors.New("no award ceremony is running")
)

type ceremony struct {
	id         string
	controller *rank.RevealController
	lastStep   *rank.Step
	startedAt  time.Time
}

// Service owns the live scoreboard for one contest. All mutation and all
// reads go through one mutex: a ranking pass rewrites team ranks, so even
// queries need the writer lock. The sqlite run log is the source of truth;
// the engine is a replayable cache over it.
type Service struct {
	mu       sync.Mutex
	db       *gorm.DB
	broker   *pubsub.Broker
	contest  *roster.Contest
	engine   *rank.Engine
	ceremony *ceremony
}

// New replays the persisted run log into a fresh engine and publishes the
// first snapshot.
func New(db *gorm.DB, broker *pubsub.Broker, contest *roster.Contest) (*Service, error) {
	s := &Service{
		db:      db,
		broker:  broker,
		contest: contest,
		engine:  contest.NewEngine(),
	}
	runs, err := s.loadRuns()
	if err != nil {
		return nil, err
	}
	for _, r := range runs {
		if err := s.engine.AddRun(r); err != nil {
			zap.S().Warnf("replay skipping run %d: %v", r.ID, err)
		}
	}
	zap.S().Infof("scoreboard for contest %s ready, replayed %d runs", contest.ID, len(runs))

	s.mu.Lock()
	s.publishLocked(s.viewLocked())
	s.mu.Unlock()
	return s, nil
}

// Contest returns the loaded roster. It is immutable after load.
func (s *Service) Contest() *roster.Contest { return s.contest }

// RunCount reports the size of the persisted run log.
func (s *Service) RunCount() (int64, error) {
	return database.CountRuns(s.db)
}

// Ingest logs one graded run and applies it to the live board. The log's
// primary key absorbs redeliveries, so the engine only ever sees a run
// once. During an award ceremony new runs still reach the live board but
// not the frozen ceremony one.
func (s *Service) Ingest(r rank.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := models.FromRun(r)
	fresh, err := database.AppendRun(s.db, &rec)
	if err != nil {
		return fmt.Errorf("failed to log run %d: %w", r.ID, err)
	}
	if !fresh {
		zap.S().Debugf("run %d already logged, skipping", r.ID)
		return nil
	}
	if err := s.engine.AddRun(r); err != nil {
		return err
	}
	s.publishLocked(s.viewLocked())
	return nil
}

// Scoreboard returns the current public view.
func (s *Service) Scoreboard() *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Ceremony returns the running ceremony's state, if any.
func (s *Service) Ceremony() (*CeremonyView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ceremony == nil {
		return nil, false
	}
	return s.ceremonyViewLocked(), true
}

// StartCeremony freezes the board at freezeTime and enters award mode. A
// non-positive freezeTime falls back to the roster's freeze_time. The
// ceremony replays the full run log into its own engine, so a restart
// always reproduces the same frozen board.
func (s *Service) StartCeremony(freezeTime int64) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ceremony != nil {
		return nil, ErrCeremonyRunning
	}
	if freezeTime <= 0 {
		freezeTime = s.contest.FreezeTime
	}

	runs, err := s.loadRuns()
	if err != nil {
		return nil, err
	}
	controller := rank.NewRevealController(s.contest.NewEngine(), runs, freezeTime)
	s.ceremony = &ceremony{
		id:         uuid.NewString(),
		controller: controller,
		startedAt:  time.Now(),
	}
	zap.S().Infof("award ceremony %s started, freeze time %d, %d hidden cells",
		s.ceremony.id, freezeTime, len(controller.HiddenCells()))

	view := s.viewLocked()
	s.publishLocked(view)
	return view, nil
}

// AdvanceCeremony performs one ceremony step and broadcasts the result.
func (s *Service) AdvanceCeremony() (rank.Step, *View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ceremony == nil {
		return rank.Step{}, nil, ErrNoCeremony
	}
	step := s.ceremony.controller.Advance()
	s.ceremony.lastStep = &step

	view := s.viewLocked()
	s.publishLocked(view)
	return step, view, nil
}

// StopCeremony leaves award mode and returns to the live board, which kept
// absorbing runs while the ceremony ran.
func (s *Service) StopCeremony() (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ceremony == nil {
		return nil, ErrNoCeremony
	}
	zap.S().Infof("award ceremony %s stopped", s.ceremony.id)
	s.ceremony = nil

	view := s.viewLocked()
	s.publishLocked(view)
	return view, nil
}

// Rebuild discards the live engine and replays the whole run log into a
// fresh one. Replay yields an identical board by construction; this is the
// operator escape hatch for suspected drift.
func (s *Service) Rebuild() (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.loadRuns()
	if err != nil {
		return nil, err
	}
	engine := s.contest.NewEngine()
	for _, r := range runs {
		if err := engine.AddRun(r); err != nil {
			zap.S().Warnf("rebuild skipping run %d: %v", r.ID, err)
		}
	}
	s.engine = engine
	zap.S().Infof("scoreboard rebuilt from %d logged runs", len(runs))

	view := s.viewLocked()
	s.publishLocked(view)
	return view, nil
}

// Close tears down the broadcast topic.
func (s *Service) Close() {
	s.broker.CloseTopic(Topic)
}

func (s *Service) loadRuns() ([]rank.Run, error) {
	recs, err := database.ListRuns(s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to load run log: %w", err)
	}
	runs := make([]rank.Run, 0, len(recs))
	for _, rec := range recs {
		runs = append(runs, rec.Run())
	}
	return runs, nil
}

func (s *Service) viewLocked() *View {
	engine := s.engine
	var cere *CeremonyView
	if s.ceremony != nil {
		engine = s.ceremony.controller.Engine()
		cere = s.ceremonyViewLocked()
	}

	rows := engine.RankedTeams()
	if cere != nil {
		markHidden(rows, cere.HiddenCells)
	}

	mode := "icpc"
	if engine.ScoreMode() {
		mode = "score"
	}
	return &View{
		ContestID:   s.contest.ID,
		ContestName: s.contest.Name,
		Mode:        mode,
		Frozen:      cere != nil && !cere.Done,
		Problems:    engine.Problems(),
		Teams:       rows,
		Ceremony:    cere,
		GeneratedAt: time.Now(),
	}
}

func (s *Service) ceremonyViewLocked() *CeremonyView {
	c := s.ceremony
	focus, _ := c.controller.Focused()
	return &CeremonyView{
		ID:             c.id,
		FreezeTime:     c.controller.FreezeTime(),
		FocusedTeamID:  focus,
		FinalizedTeams: c.controller.FinalizedTeams(),
		HiddenCells:    c.controller.HiddenCells(),
		Done:           c.controller.Done(),
		LastStep:       c.lastStep,
		StartedAt:      c.startedAt,
	}
}

func (s *Service) publishLocked(view *View) {
	s.broker.Publish(Topic, pubsub.FormatMessage("scoreboard", view))
}
