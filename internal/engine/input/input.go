// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
	EventDropFile
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	// DX and DY carry relative motion for EventMouseMove and scroll amount
	// for EventMouseWheel.
	DX     float32
	DY     float32
	Button uint8
	// File is the dropped path for EventDropFile.
	File string
}

// Input handles all input processing.
type Input struct {
	events  []Event
	buttons map[uint8]bool
	keys    map[sdl.Scancode]bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		buttons: make(map[uint8]bool),
		keys:    make(map[sdl.Scancode]bool),
	}
}

// Update polls SDL events and converts them to viewer events.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if i.handle(event) {
			return true
		}
	}

	return false
}

func (i *Input) handle(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.push(Event{Type: EventQuit})
		return true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			i.push(Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			})
		}

	case *sdl.KeyboardEvent:
		switch e.Type {
		case sdl.KEYDOWN:
			if e.Repeat == 0 {
				i.keys[e.Keysym.Scancode] = true
			}
			i.push(Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
		case sdl.KEYUP:
			delete(i.keys, e.Keysym.Scancode)
			i.push(Event{Type: EventKeyUp, Key: e.Keysym.Scancode})
		}

	case *sdl.MouseMotionEvent:
		i.push(Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DX:     float32(e.XRel),
			DY:     float32(e.YRel),
		})

	case *sdl.MouseButtonEvent:
		ev := Event{
			MouseX: int(e.X),
			MouseY: int(e.Y),
			Button: e.Button,
		}
		switch e.Type {
		case sdl.MOUSEBUTTONDOWN:
			i.buttons[e.Button] = true
			ev.Type = EventMouseDown
		case sdl.MOUSEBUTTONUP:
			delete(i.buttons, e.Button)
			ev.Type = EventMouseUp
		default:
			return false
		}
		i.push(ev)

	case *sdl.MouseWheelEvent:
		dy := float32(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			dy = -dy
		}
		i.push(Event{Type: EventMouseWheel, DX: float32(e.X), DY: dy})

	case *sdl.DropEvent:
		if e.Type == sdl.DROPFILE {
			i.push(Event{Type: EventDropFile, File: e.File})
		}
	}
	return false
}

func (i *Input) push(e Event) {
	i.events = append(i.events, e)
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsKeyDown reports whether a key is currently held.
func (i *Input) IsKeyDown(scancode sdl.Scancode) bool {
	return i.keys[scancode]
}

// IsButtonDown reports whether a mouse button is currently held.
func (i *Input) IsButtonDown(button uint8) bool {
	return i.buttons[button]
}

// Drag returns the summed relative mouse motion of this frame.
func (i *Input) Drag() (dx, dy float32) {
	for _, e := range i.events {
		if e.Type == EventMouseMove {
			dx += e.DX
			dy += e.DY
		}
	}
	return dx, dy
}

// Wheel returns the summed vertical scroll of this frame.
func (i *Input) Wheel() float32 {
	var dy float32
	for _, e := range i.events {
		if e.Type == EventMouseWheel {
			dy += e.DY
		}
	}
	return dy
}
