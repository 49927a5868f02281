// Package jobs runs scheduled background tasks on github.com/robfig/cron/v3.
//
// Jobs never change state: courier and order transitions happen only in
// response to API calls. The only job today is BacklogReportJob, which logs
// order counts.
//
//	manager := jobs.NewJobManager()
//	report, err := jobs.NewBacklogReportJob(backlogHandler, "0 * * * * *", logger)
//	if err != nil {
//		return err
//	}
//	manager.Register("backlog_report", report)
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
package jobs
