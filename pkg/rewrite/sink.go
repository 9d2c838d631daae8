package rewrite

// Sink receives progress notifications. Calls are synchronous, on the
// goroutine running the walk, and nil fields are skipped. A slow callback
// slows the walk; nothing is buffered.
type Sink struct {
	OnScan   func(path string)
	OnModify func(path string)
	OnRename func(oldPath, newPath string)
}

func (s Sink) scan(path string) {
	if s.OnScan != nil {
		s.OnScan(path)
	}
}

func (s Sink) modify(path string) {
	if s.OnModify != nil {
		s.OnModify(path)
	}
}

func (s Sink) rename(oldPath, newPath string) {
	if s.OnRename != nil {
		s.OnRename(oldPath, newPath)
	}
}
