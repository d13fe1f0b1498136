package scheduler

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"msd/internal/models"
	"msd/internal/platform"
	"msd/internal/providers"
	"msd/internal/services"
	"msd/internal/store"
	"msd/internal/structures"
)

type Status string

const (
	StatusStopped Status = "stopped"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
	StatusError   Status = "error"
)

type StatusInfo struct {
	Status   Status    `json:"status"`
	Spec     string    `json:"spec"`
	NextFire time.Time `json:"next_fire,omitempty"`
	LastErr  string    `json:"last_error,omitempty"`
}

type SchedulerInterface interface {
	Start() error
	Stop()
	Pause() error
	Resume() error
	Status() StatusInfo
	PushNow(groupID string) error
	Reload() error
}

var hhmmRe = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

var ErrNotRunning = errors.New("scheduler is not running")

// NextFireTime resolves a schedule spec to the next time it fires after now.
// Five-field cron expressions are tried first; otherwise the spec must be a
// daily HH:MM time, which rolls over to tomorrow when already passed.
func NextFireTime(spec string, now time.Time) (time.Time, error) {
	if sched, err := cron.ParseStandard(spec); err == nil {
		return sched.Next(now), nil
	}
	m := hhmmRe.FindStringSubmatch(spec)
	if m == nil {
		return time.Time{}, fmt.Errorf("invalid schedule spec %q: want cron expression or HH:MM", spec)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next, nil
}

// Scheduler drives periodic leaderboard pushes. A coarse poll ticker checks
// whether the resolved fire time has passed; the push cycle itself reloads
// settings so edits take effect without a restart.
type Scheduler struct {
	conf     *structures.Config
	stats    services.StatsServiceInterface
	settings store.SettingsStoreInterface
	routes   *platform.RouteBook
	renderer platform.Renderer
	delivery platform.Delivery
	metrics  providers.MetricsProviderInterface
	logger   providers.Logger
	now      func() time.Time

	mu       sync.Mutex
	status   Status
	spec     string
	nextFire time.Time
	lastErr  string
	cancel   context.CancelFunc
	done     chan struct{}

	cycleMu sync.Mutex
}

func NewScheduler(conf *structures.Config, stats services.StatsServiceInterface, settings store.SettingsStoreInterface, routes *platform.RouteBook, renderer platform.Renderer, delivery platform.Delivery, metrics providers.MetricsProviderInterface, logger providers.Logger) SchedulerInterface {
	return &Scheduler{
		conf:     conf,
		stats:    stats,
		settings: settings,
		routes:   routes,
		renderer: renderer,
		delivery: delivery,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
		status:   StatusStopped,
	}
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusStopped {
		return fmt.Errorf("scheduler already started, status %s", s.status)
	}
	settings, err := s.settings.Load()
	if err != nil {
		return err
	}
	next, err := NextFireTime(settings.PushSpec, s.now())
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.spec = settings.PushSpec
	s.nextFire = next
	s.status = StatusRunning
	s.lastErr = ""
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx)
	s.logger.Infof(providers.TypeApp, "Scheduler started, next fire at %s", next.Format(time.RFC3339))
	return nil
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.status == StatusStopped {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	<-done

	s.mu.Lock()
	s.status = StatusStopped
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()
	s.logger.Infof(providers.TypeApp, "Scheduler stopped")
}

func (s *Scheduler) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusRunning {
		return fmt.Errorf("cannot pause scheduler in status %s", s.status)
	}
	s.status = StatusPaused
	return nil
}

func (s *Scheduler) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusPaused {
		return fmt.Errorf("cannot resume scheduler in status %s", s.status)
	}
	next, err := NextFireTime(s.spec, s.now())
	if err != nil {
		return err
	}
	s.nextFire = next
	s.status = StatusRunning
	return nil
}

func (s *Scheduler) Status() StatusInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	info := StatusInfo{Status: s.status, Spec: s.spec, LastErr: s.lastErr}
	if s.status == StatusRunning {
		info.NextFire = s.nextFire
	}
	return info
}

// Reload re-reads the schedule spec from settings and recomputes the next
// fire time. Callers use it after a settings change.
func (s *Scheduler) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusRunning && s.status != StatusPaused {
		return ErrNotRunning
	}
	settings, err := s.settings.Load()
	if err != nil {
		return err
	}
	next, err := NextFireTime(settings.PushSpec, s.now())
	if err != nil {
		return err
	}
	s.spec = settings.PushSpec
	s.nextFire = next
	return nil
}

// PushNow runs a push immediately, regardless of scheduler state. An empty
// groupID pushes to every target group, otherwise only the named one.
func (s *Scheduler) PushNow(groupID string) error {
	if groupID == "" {
		return s.pushCycle()
	}

	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	settings, err := s.settings.Load()
	if err != nil {
		return err
	}
	if err := s.pushGroup(groupID, settings.PushRankType(), settings.DisplayLimit); err != nil {
		s.metrics.IncPushDeliveries(false)
		return err
	}
	s.metrics.IncPushDeliveries(true)
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.conf.Scheduler.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		if s.status != StatusRunning {
			s.mu.Unlock()
			continue
		}
		due := !s.now().Before(s.nextFire)
		s.mu.Unlock()
		if !due {
			continue
		}

		s.fire(ctx)
	}
}

// fire executes one scheduled push with panic isolation. A panic parks the
// scheduler in error state for the backoff period, then resumes.
func (s *Scheduler) fire(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.status = StatusError
			s.lastErr = fmt.Sprintf("panic in push cycle: %v", r)
			s.mu.Unlock()
			s.logger.Errorf(providers.TypeApp, "Push cycle panicked: %v", r)

			select {
			case <-ctx.Done():
				return
			case <-time.After(s.conf.Scheduler.ErrorBackoff):
			}

			s.mu.Lock()
			if s.status == StatusError {
				s.status = StatusRunning
				if next, err := NextFireTime(s.spec, s.now()); err == nil {
					s.nextFire = next
				}
			}
			s.mu.Unlock()
		}
	}()

	if err := s.pushCycle(); err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		s.mu.Unlock()
		s.logger.Errorf(providers.TypeApp, "Push cycle failed: %s", err)
	} else {
		s.mu.Lock()
		s.lastErr = ""
		s.mu.Unlock()
	}

	s.mu.Lock()
	if next, err := NextFireTime(s.spec, s.now()); err == nil {
		s.nextFire = next
	}
	s.mu.Unlock()
}

// pushCycle renders and delivers the leaderboard to every target group. The
// cycle succeeds when at least one group received its push.
func (s *Scheduler) pushCycle() error {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	settings, err := s.settings.Load()
	if err != nil {
		s.metrics.IncPushCycles(false)
		return err
	}
	targets := settings.PushTargets
	if len(targets) == 0 {
		groups, err := s.stats.Groups()
		if err != nil {
			s.metrics.IncPushCycles(false)
			return err
		}
		targets = groups
	}
	if len(targets) == 0 {
		s.metrics.IncPushCycles(false)
		return errors.New("no groups to push to")
	}

	rankType := settings.PushRankType()
	delivered := 0
	for _, groupID := range targets {
		if err := s.pushGroup(groupID, rankType, settings.DisplayLimit); err != nil {
			s.metrics.IncPushDeliveries(false)
			s.logger.Warnf(providers.TypeApp, "Push to group %s failed: %s", groupID, err)
			continue
		}
		s.metrics.IncPushDeliveries(true)
		delivered++
	}
	if delivered == 0 {
		s.metrics.IncPushCycles(false)
		return fmt.Errorf("push delivered to none of %d groups", len(targets))
	}
	s.metrics.IncPushCycles(true)
	s.logger.Infof(providers.TypeApp, "Push delivered to %d of %d groups", delivered, len(targets))
	return nil
}

func (s *Scheduler) pushGroup(groupID string, rankType models.RankType, limit int) error {
	route, ok := s.routes.Route(groupID)
	if !ok {
		return fmt.Errorf("no delivery route known for group %s", groupID)
	}
	rank, err := s.stats.Rank(groupID, rankType, limit)
	if err != nil {
		return err
	}
	artifact, err := s.renderer.Render(rank, "")
	if err != nil {
		return err
	}
	return s.delivery.Send(route, artifact)
}
