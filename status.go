package rainbow

// Status is a display-layer snapshot of the effect's state. It exposes what a
// UI needs to render without touching internal buffers.
type Status struct {
	// TableName is the installed wavetable's name, or "" when none is loaded.
	TableName string

	// TableIndex is the loader index of the installed table, -1 when none.
	TableIndex int

	// NumWaves is the installed table's wave count.
	NumWaves int

	// MultiRes reports whether the table carries more than one resolution.
	MultiRes bool

	// KernelSize is the tap count of the active kernel, 0 in bypass.
	KernelSize int

	// Channels is the configured channel count.
	Channels int

	// Loaded reports whether a wavetable is installed.
	Loaded bool

	// LoadPending reports whether a load is in flight or queued.
	LoadPending bool

	// Crossfading reports whether a kernel crossfade is in progress.
	Crossfading bool

	// Position is the current wavetable read position in [0, 1].
	Position float64

	// Err is the most recent load or kernel-build failure, nil when healthy.
	Err error
}

// Status returns a snapshot of the effect's state.
func (e *Effect) Status() Status {
	s := Status{
		TableIndex:  e.tableIndex,
		KernelSize:  e.engines[0].KernelSize(),
		Channels:    e.channels,
		Loaded:      e.table != nil,
		LoadPending: e.LoadPending(),
		Crossfading: e.fade.Active(),
		Position:    e.position,
		Err:         e.loadErr,
	}

	if e.buildErr != nil {
		s.Err = e.buildErr
	}

	if e.table != nil {
		s.TableName = e.table.Name()
		s.NumWaves = e.table.NumWaves()
		s.MultiRes = e.table.MultiRes()
	}

	return s
}
