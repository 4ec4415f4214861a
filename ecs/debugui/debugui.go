// Package debugui draws debug windows with Dear ImGui from inside the ECS
// schedule. A window is an entity carrying an ImguiItem; ImguiSystem defers
// the render functions so they run after every other system of the frame.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/perfui/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
type ImguiItem struct {
	Render func()
}

// ImguiState is a singleton shared with the host loop. Hidden suppresses
// every window; the capture flags mirror imgui's IO so game input can back
// off while a window has focus.
type ImguiState struct {
	Hidden              bool
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// RegisterComponents registers ImguiItem. ImguiState is a singleton and
// needs no registration.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
}

// ImguiSystem queues the render function of every ImguiItem.
type ImguiSystem struct {
	Items ecs.Query[struct{ *ImguiItem }]
	State ecs.Singleton[ImguiState]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	state := i.State.Get()
	if state != nil && state.Hidden {
		state.WantCaptureMouse, state.WantCaptureKeyboard = false, false
		return
	}
	if state != nil {
		io := imgui.CurrentIO()
		state.WantCaptureMouse = io.WantCaptureMouse()
		state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	for item := range i.Items.Values() {
		frame.Commands.Defer(item.Render)
	}
}
