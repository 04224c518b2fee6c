package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/praktis/backend/internal/infrastructure/config"
)

// Job is one unit of scheduled maintenance work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobFunc adapts a function to the Job interface.
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

func (j JobFunc) Name() string                  { return j.JobName }
func (j JobFunc) Run(ctx context.Context) error { return j.Fn(ctx) }

// DailyScheduler runs its registered jobs once per day at the
// configured hour. It polls every minute and tracks the last run date,
// so a restart within the run hour does not repeat the work twice in
// one day, and a missed tick is picked up on the next poll within the
// hour.
type DailyScheduler struct {
	cfg           config.SchedulerConfig
	logger        *zap.Logger
	checkInterval time.Duration
	now           func() time.Time

	mu          sync.Mutex
	jobs        []Job
	running     bool
	lastRunDate string
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

func NewDailyScheduler(cfg config.SchedulerConfig, logger *zap.Logger) *DailyScheduler {
	return &DailyScheduler{
		cfg:           cfg,
		logger:        logger,
		checkInterval: time.Minute,
		now:           time.Now,
	}
}

// Register adds a job to the daily run. Jobs run sequentially in
// registration order.
func (s *DailyScheduler) Register(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
}

func (s *DailyScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("scheduler started",
		zap.Int("run_hour", s.cfg.RunHour),
		zap.Duration("check_interval", s.checkInterval),
	)
	return nil
}

func (s *DailyScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *DailyScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkAndRun(ctx)
		}
	}
}

func (s *DailyScheduler) checkAndRun(ctx context.Context) {
	now := s.now()
	currentDate := now.Format("2006-01-02")

	s.mu.Lock()
	alreadyRan := s.lastRunDate == currentDate
	s.mu.Unlock()

	if alreadyRan || now.Hour() != s.cfg.RunHour {
		return
	}

	s.mu.Lock()
	s.lastRunDate = currentDate
	s.mu.Unlock()

	s.RunNow(ctx)
}

// RunNow executes every registered job immediately. A failing job is
// logged and does not stop the rest.
func (s *DailyScheduler) RunNow(ctx context.Context) {
	s.mu.Lock()
	jobs := make([]Job, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.Unlock()

	for _, job := range jobs {
		start := s.now()
		if err := job.Run(ctx); err != nil {
			s.logger.Error("scheduled job failed",
				zap.String("job", job.Name()),
				zap.Error(err),
			)
			continue
		}
		s.logger.Info("scheduled job finished",
			zap.String("job", job.Name()),
			zap.Duration("elapsed", s.now().Sub(start)),
		)
	}
}
