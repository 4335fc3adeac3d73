package rainbow

import "github.com/cwbudde/algo-rainbow/dsp/wavetable"

// loadResult is one completed asynchronous table load.
type loadResult struct {
	index int
	table *wavetable.Table
	err   error
}

// RequestLoad starts an asynchronous load of the loader's table at index,
// clamped to the loader's range. It reports whether the request was accepted;
// requests are refused only when no loader is configured or the loader is
// empty. A request arriving while a load is in flight is queued and started
// when the in-flight load completes, so the latest request always wins.
//
// The load runs on its own goroutine. Its result is published through a
// single-slot mailbox that Process consumes at the start of the next block,
// which is the only point where the new table becomes visible to the render
// path.
func (e *Effect) RequestLoad(index int) bool {
	if e.loader == nil {
		return false
	}

	n := e.loader.NumTables()
	if n == 0 {
		return false
	}

	if index < 0 {
		index = 0
	}

	if index > n-1 {
		index = n - 1
	}

	if e.loading {
		e.queued = index
		e.hasQueued = true

		return true
	}

	e.startLoad(index)

	return true
}

// LoadPending reports whether a load is in flight or queued.
func (e *Effect) LoadPending() bool {
	return e.loading || e.hasQueued
}

func (e *Effect) startLoad(index int) {
	e.loading = true
	loader := e.loader

	go func() {
		t, err := loader.Load(index)

		// Replace-on-full: a stale, never-consumed result is superseded.
		select {
		case <-e.mailbox:
		default:
		}

		e.mailbox <- loadResult{index: index, table: t, err: err}
	}()
}

// drainLoad consumes a completed load, if any. Success installs the table
// wholesale and rebuilds the kernels (immediately on a first load, through a
// crossfade when one was already active). Failure reverts the effect to
// bypass so no kernel built from vanished data stays live. Either way a
// queued follow-up request starts next.
func (e *Effect) drainLoad() {
	select {
	case res := <-e.mailbox:
		e.loading = false

		if res.err != nil {
			e.loadErr = res.err
			e.table = nil
			e.tableIndex = -1
			e.fade.Reset()

			for _, eng := range e.engines {
				eng.Reset()
			}
		} else {
			e.loadErr = nil
			e.table = res.table
			e.tableIndex = res.index
			e.rebuildKernels()
		}

		if e.hasQueued {
			idx := e.queued
			e.hasQueued = false
			e.startLoad(idx)
		}
	default:
	}
}
