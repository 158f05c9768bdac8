package agent

import "sync"

const DefaultStepsPerFrame = 10

// Driver adapts a Bug to a frame-polled host such as a game engine. The
// host calls Frame once per rendered frame and reads the accessors for
// display. Coordinate remapping is left to the host.
type Driver struct {
	mu sync.Mutex

	params        Params
	env           Environment
	stepsPerFrame int

	bug         *Bug
	running     bool
	outOfBounds bool
}

func NewDriver(params Params, env Environment, stepsPerFrame int) *Driver {
	if stepsPerFrame <= 0 {
		stepsPerFrame = DefaultStepsPerFrame
	}
	return &Driver{params: params, env: env, stepsPerFrame: stepsPerFrame}
}

// Rebuild discards the current bug and constructs a fresh one.
func (d *Driver) Rebuild() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rebuildLocked()
}

func (d *Driver) rebuildLocked() error {
	bug, err := New(d.params)
	if err != nil {
		return err
	}
	d.bug = bug
	d.outOfBounds = false
	return nil
}

// Start begins stepping, building a bug first if none exists or the last
// one left the environment.
func (d *Driver) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bug == nil || d.outOfBounds {
		if err := d.rebuildLocked(); err != nil {
			return err
		}
	}
	d.running = true
	return nil
}

func (d *Driver) Stop() {
	d.mu.Lock()
	d.running = false
	d.mu.Unlock()
}

// Frame advances the bug by delta seconds split into equal sub-steps. It
// returns the number of sub-steps taken.
func (d *Driver) Frame(delta float64) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running || d.bug == nil || delta <= 0 {
		return 0
	}
	dt := delta / float64(d.stepsPerFrame)
	for i := 0; i < d.stepsPerFrame; i++ {
		if !d.bug.Step(dt, d.env) {
			d.running = false
			d.outOfBounds = true
			return i + 1
		}
	}
	return d.stepsPerFrame
}

func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

func (d *Driver) OutOfBounds() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.outOfBounds
}

// Bug returns the current bug, or nil before the first Start or Rebuild.
func (d *Driver) Bug() *Bug {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bug
}

func (d *Driver) X() float64 {
	return d.read(func(b *Bug) float64 { return b.X() }, d.params.X0)
}

func (d *Driver) Y() float64 {
	return d.read(func(b *Bug) float64 { return b.Y() }, d.params.Y0)
}

func (d *Driver) Heading() float64 {
	return d.read(func(b *Bug) float64 { return b.Heading() }, 0)
}

func (d *Driver) GoalHeading() float64 { return d.params.GoalHeading }

func (d *Driver) Speed() float64 { return d.params.Speed }

func (d *Driver) read(get func(*Bug) float64, fallback float64) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bug == nil {
		return fallback
	}
	return get(d.bug)
}
