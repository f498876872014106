// Package watcher reports changes to a set of files.
//
// Files are watched through their parent directories so that editors that
// save by renaming a temporary file over the original are still seen.
// Events for the same path arriving within the debounce window are merged
// into one, and attribute-only changes are dropped.
//
// Basic usage:
//
//	w, err := watcher.New(watcher.WithDebounce(100 * time.Millisecond))
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//
//	if err := w.Watch("scenario.yaml"); err != nil {
//		return err
//	}
//	for ev := range w.Events() {
//		fmt.Println(ev.Path, ev.Op)
//	}
package watcher
