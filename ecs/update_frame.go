package ecs

import "time"

// UpdateFrame is passed to every system during one scheduler pass.
type UpdateFrame struct {
	DeltaTime float64
	// Frame counts scheduler passes, starting at 1.
	Frame uint64
	// Elapsed is the sum of all delta times so far, this frame included.
	Elapsed  time.Duration
	Commands *Commands
	Storage  *Storage
}

func newUpdateFrame(dt float64, frame uint64, elapsed time.Duration, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Frame:     frame,
		Elapsed:   elapsed,
		Commands:  newCommands(),
		Storage:   storage,
	}
}
