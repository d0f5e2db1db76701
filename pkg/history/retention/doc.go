// Package retention prunes evaluation history.
//
// Records older than RetentionDays are deleted first, then the oldest
// records above MaxRecords. Pruning runs on demand through Prune or on a
// cron schedule:
//
//	pruner := retention.NewPruner(store, retention.ConfigFrom(&cfg.History.Retention), collector)
//	if err := pruner.Start(ctx); err != nil {
//	    return err
//	}
//	defer pruner.Stop()
package retention
