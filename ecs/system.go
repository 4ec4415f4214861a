package ecs

// System represents a behavior that operates on entities with specific components.
// User-defined systems should implement this interface and can include Query fields
// for accessing entities, as well as custom state fields that persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// Conditional is implemented by systems that can decide to sit a frame
// out. ShouldRun is called with the frame's queries already executed; when
// it returns false Execute is not called and the skip is counted in the
// scheduler stats.
type Conditional interface {
	ShouldRun(frame *UpdateFrame) bool
}
