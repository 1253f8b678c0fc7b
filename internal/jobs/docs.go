// Package jobs provides scheduled background tasks for the marketplace.
//
// Jobs are cron-based (github.com/robfig/cron/v3, seconds field enabled)
// and each one takes its schedule as a cron spec.
//
// # Available Jobs
//
// 1. OrderDispatchJob - hands every Processing order over to delivery
// 2. SnapshotJob - saves the store through a snapshot repository
// 3. EventRelayJob - drains the store's outbox into an event publisher
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewOrderDispatchJob(st, "*/5 * * * * *", logger),
//		jobs.NewSnapshotJob(st, repo, "0 * * * * *", logger),
//	)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Failed runs are logged and retried on the next tick. The relay job puts
// undelivered events back into the outbox so nothing is lost between ticks.
// A job that fails to start stops every job started before it.
package jobs
