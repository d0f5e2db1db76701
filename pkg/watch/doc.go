// Package watch reports file changes with fsnotify, debounced so that one
// save produces one callback.
//
//	fw, err := watch.NewFileWatcher(&watch.Config{Path: "exprs.txt"}, logger)
//	if err != nil {
//	    return err
//	}
//	return fw.Watch(ctx, func(path string) error {
//	    return reevaluate(path)
//	})
package watch
