package scheduler

import (
	"context"
	"time"

	"fundserver/src/services"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type ScheduledTask struct {
	cronID cron.EntryID
	cron   *cron.Cron
	cancel chan struct{}
}

func NewScheduledTask(cronSpec string, taskFunc func()) (*ScheduledTask, error) {
	c := cron.New()
	cancel := make(chan struct{})
	task := &ScheduledTask{
		cron:   c,
		cancel: cancel,
	}

	id, err := c.AddFunc(cronSpec, func() {
		select {
		case <-cancel:
			return
		default:
			taskFunc()
		}
	})
	if err != nil {
		return nil, err
	}

	task.cronID = id
	c.Start()
	return task, nil
}

func (s *ScheduledTask) Cancel() {
	s.cron.Remove(s.cronID)
	close(s.cancel)
}

// NewReconcileTask schedules the periodic portfolio totals reconciliation.
// The job recomputes the materialized aggregate and logs any drift.
func NewReconcileTask(cronSpec string, portfolio services.PortfolioServiceI, logger *logrus.Logger) (*ScheduledTask, error) {
	return NewScheduledTask(cronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := portfolio.Reconcile(ctx); err != nil {
			logger.WithError(err).Error("portfolio reconciliation failed")
		}
	})
}
