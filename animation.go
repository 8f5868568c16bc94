package g2d

import "time"

// AnimationState is the playback state of an Animation.
type AnimationState uint8

const (
	// AnimationPlaying advances with every Step.
	AnimationPlaying AnimationState = iota
	// AnimationPaused keeps the elapsed time but ignores Step.
	AnimationPaused
	// AnimationStopped resets to the first frame.
	AnimationStopped
)

// String returns the state name.
func (s AnimationState) String() string {
	switch s {
	case AnimationPlaying:
		return "Playing"
	case AnimationPaused:
		return "Paused"
	case AnimationStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Animation cycles through a sequence of frames at a fixed delay.
// Frames are typically source rectangles of a sprite sheet.
type Animation[T any] struct {
	Delay  time.Duration
	Frames []T

	state   AnimationState
	cursor  uint64
	elapsed time.Duration
}

// NewAnimation creates a playing animation over a copy of frames.
func NewAnimation[T any](frames []T, delay time.Duration) *Animation[T] {
	return &Animation[T]{
		Delay:  delay,
		Frames: append([]T(nil), frames...),
		state:  AnimationPlaying,
	}
}

// State returns the playback state.
func (a *Animation[T]) State() AnimationState { return a.state }

// Step advances a playing animation by dt. Negative steps are ignored.
func (a *Animation[T]) Step(dt time.Duration) {
	if a.state != AnimationPlaying || dt < 0 {
		return
	}
	a.elapsed += dt
	if a.Delay > 0 {
		a.cursor = uint64(a.elapsed / a.Delay)
	}
}

// Pause freezes a playing animation.
func (a *Animation[T]) Pause() {
	if a.state == AnimationPlaying {
		a.state = AnimationPaused
	}
}

// Play resumes a paused animation or restarts a stopped one.
func (a *Animation[T]) Play() {
	switch a.state {
	case AnimationPaused:
		a.state = AnimationPlaying
	case AnimationStopped:
		a.state = AnimationPlaying
		a.elapsed = 0
		a.cursor = 0
	}
}

// Stop halts playback and rewinds to the first frame.
func (a *Animation[T]) Stop() {
	a.state = AnimationStopped
	a.elapsed = 0
	a.cursor = 0
}

// IsPlaying reports whether the animation is advancing.
func (a *Animation[T]) IsPlaying() bool { return a.state == AnimationPlaying }

// Elapsed returns the playback time accumulated so far.
func (a *Animation[T]) Elapsed() time.Duration { return a.elapsed }

// Len returns the number of frames.
func (a *Animation[T]) Len() int { return len(a.Frames) }

// Cursor returns the index of the current frame. It panics if the
// animation has no frames.
func (a *Animation[T]) Cursor() int {
	if len(a.Frames) == 0 {
		panic("g2d: animation has no frames")
	}
	return int(a.cursor % uint64(len(a.Frames)))
}

// Val returns the current frame.
func (a *Animation[T]) Val() T {
	return a.Frames[a.Cursor()]
}

// PushFrame appends a frame.
func (a *Animation[T]) PushFrame(f T) {
	a.Frames = append(a.Frames, f)
}

// PopFrame removes and returns the last frame.
func (a *Animation[T]) PopFrame() (T, bool) {
	var zero T
	if len(a.Frames) == 0 {
		return zero, false
	}
	f := a.Frames[len(a.Frames)-1]
	a.Frames = a.Frames[:len(a.Frames)-1]
	return f, true
}
