package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"
)

func TestHandleDragAndWheel(t *testing.T) {
	in := New()

	in.handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 10, Y: 20})
	in.handle(&sdl.MouseMotionEvent{X: 12, Y: 21, XRel: 2, YRel: 1})
	in.handle(&sdl.MouseMotionEvent{X: 15, Y: 19, XRel: 3, YRel: -2})
	in.handle(&sdl.MouseWheelEvent{Y: 1})
	in.handle(&sdl.MouseWheelEvent{Y: 2, Direction: sdl.MOUSEWHEEL_FLIPPED})

	dx, dy := in.Drag()
	assert.Equal(t, float32(5), dx)
	assert.Equal(t, float32(-1), dy)
	assert.Equal(t, float32(-1), in.Wheel())
	assert.True(t, in.IsButtonDown(sdl.BUTTON_LEFT))
	assert.False(t, in.IsButtonDown(sdl.BUTTON_RIGHT))

	in.handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_LEFT})
	assert.False(t, in.IsButtonDown(sdl.BUTTON_LEFT))
	assert.Len(t, in.Events(), 6)
}

func TestHandleKeys(t *testing.T) {
	in := New()

	down := &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_SPACE}}
	in.handle(down)
	assert.True(t, in.IsKeyPressed(sdl.SCANCODE_SPACE))
	assert.True(t, in.IsKeyDown(sdl.SCANCODE_SPACE))
	assert.False(t, in.IsKeyPressed(sdl.SCANCODE_ESCAPE))

	in.handle(&sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_SPACE}})
	assert.False(t, in.IsKeyDown(sdl.SCANCODE_SPACE))
}

func TestHandleQuitAndResize(t *testing.T) {
	in := New()

	assert.False(t, in.handle(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED, Data1: 800, Data2: 600}))
	assert.True(t, in.handle(&sdl.QuitEvent{}))

	events := in.Events()
	if assert.Len(t, events, 2) {
		assert.Equal(t, EventWindowResize, events[0].Type)
		assert.Equal(t, 800, events[0].Width)
		assert.Equal(t, 600, events[0].Height)
		assert.Equal(t, EventQuit, events[1].Type)
	}
}

func TestHandleDropFile(t *testing.T) {
	in := New()
	in.handle(&sdl.DropEvent{Type: sdl.DROPFILE, File: "robot.g3dj"})

	events := in.Events()
	if assert.Len(t, events, 1) {
		assert.Equal(t, EventDropFile, events[0].Type)
		assert.Equal(t, "robot.g3dj", events[0].File)
	}
}
