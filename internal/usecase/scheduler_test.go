package usecase

import (
	"context"
	"testing"
	"time"
)

type manualDriver struct {
	job     func(time.Time)
	stopped bool
}

func (d *manualDriver) Start(_ context.Context, job func(time.Time)) error {
	d.job = job
	return nil
}

func (d *manualDriver) Stop(context.Context) error {
	d.stopped = true
	return nil
}

func TestSchedulerTriggersRefresh(t *testing.T) {
	t.Parallel()

	notifier := &recordingNotifier{}
	runner := newTestRunner(sampleSource(), nil, notifier)
	driver := &manualDriver{}
	s := NewScheduler(driver, runner, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if driver.job == nil {
		t.Fatal("expected job registration")
	}
	driver.job(fixedNow)
	if len(notifier.digests) != 1 {
		t.Fatalf("expected digest after trigger, got %d", len(notifier.digests))
	}

	if err := s.Stop(context.Background()); err != nil || !driver.stopped {
		t.Fatalf("stop: err=%v stopped=%v", err, driver.stopped)
	}
}

func TestSchedulerWithoutDriver(t *testing.T) {
	t.Parallel()

	s := NewScheduler(nil, nil, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
