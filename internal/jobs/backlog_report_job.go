package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/pkg/errs"
)

const backlogReportTimeout = 10 * time.Second

type BacklogQueryHandler interface {
	Handle(ctx context.Context, query queries.GetOrderBacklogQuery) (queries.GetOrderBacklogQueryResponse, error)
}

// BacklogReportJob logs how many orders wait for a courier and how many are on
// the way. It only reads.
type BacklogReportJob struct {
	handler  BacklogQueryHandler
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewBacklogReportJob takes a six-field cron expression (seconds first) or a
// descriptor such as "@every 1m".
func NewBacklogReportJob(handler BacklogQueryHandler, schedule string, logger *zap.Logger) (*BacklogReportJob, error) {
	if handler == nil {
		return nil, errs.NewValueIsRequiredError("handler")
	}
	if schedule == "" {
		return nil, errs.NewValueIsRequiredError("schedule")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &BacklogReportJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With(zap.String("component", "backlog_report_job")),
	}, nil
}

func (j *BacklogReportJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("schedule", err)
	}

	j.cron.Start()
	j.logger.Info("backlog report job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop waits for a running report to finish.
func (j *BacklogReportJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("backlog report job stopped")
}

// Run produces a single report.
func (j *BacklogReportJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), backlogReportTimeout)
	defer cancel()

	backlog, err := j.handler.Handle(ctx, queries.NewGetOrderBacklogQuery())
	if err != nil {
		j.logger.Error("backlog report failed", zap.Error(err))
		return
	}

	j.logger.Info("order backlog",
		zap.Int64("unassigned", backlog.Unassigned),
		zap.Int64("active", backlog.Active),
		zap.Int64("completed", backlog.Completed),
	)
}
