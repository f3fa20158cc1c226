// Package watch triggers revalidation when configuration files change or on
// a cron schedule.
//
// FileWatcher wraps fsnotify. Files are watched through their parent
// directories and bursts of events are collapsed by a Debouncer, so an
// editor save produces one callback. Directories are watched recursively
// and filtered by extension; dot files are skipped.
//
//	fw, err := watch.NewFileWatcher(watch.ConfigFromWatch(cfg.Watch, paths), logger)
//	if err != nil {
//	    return err
//	}
//	defer fw.Stop()
//	go fw.Watch(ctx, func(ev watch.Event) { runner.ValidateFiles(ctx, paths) })
//
// Scheduler runs the same revalidation on watch.schedule using
// robfig/cron standard expressions.
package watch
