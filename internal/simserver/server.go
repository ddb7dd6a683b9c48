// Package simserver owns a voxel.World and advances it on a background
// goroutine, exposing the lock/snapshot contract mutators and renderers need.
package simserver

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"thermworld/internal/core"
	"thermworld/internal/voxel"
)

// Server owns the World and runs its tick loop. Compute happens without
// holding the world lock; publish acquires it only for the O(chunks) buffer
// swap. A single background goroutine plays the role of the sim worker; the
// caller's goroutine(s) play mutator and renderer.
type Server struct {
	World *voxel.World

	mu sync.Mutex // world_mutex: guards structural/cell state and Chunks map membership

	running atomic.Bool
	paused  atomic.Bool

	dtBits      atomic.Uint32 // float32 bits, seconds per tick
	sleepMillis atomic.Int32

	framesSimulated atomic.Uint64

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New constructs a Server around an existing world, not yet running.
func New(w *voxel.World, dtSeconds float32, sleepMillis int) *Server {
	s := &Server{World: w, stopCh: make(chan struct{})}
	s.dtBits.Store(math.Float32bits(dtSeconds))
	s.sleepMillis.Store(int32(sleepMillis))
	return s
}

// DT returns the current per-tick time step, in seconds.
func (s *Server) DT() float32 {
	return math.Float32frombits(s.dtBits.Load())
}

// SetDT changes the per-tick time step. Safe to call from any goroutine.
func (s *Server) SetDT(dt float32) {
	s.dtBits.Store(math.Float32bits(dt))
}

// SleepMillis returns the current micro-pause applied after each tick.
func (s *Server) SleepMillis() int {
	return int(s.sleepMillis.Load())
}

// SetSleepMillis changes the micro-pause applied after each tick.
func (s *Server) SetSleepMillis(ms int) {
	s.sleepMillis.Store(int32(ms))
}

// FramesSimulated reports the number of ticks published so far.
func (s *Server) FramesSimulated() uint64 {
	return s.framesSimulated.Load()
}

// IsPaused reports whether the sim worker is currently idling.
func (s *Server) IsPaused() bool {
	return s.paused.Load()
}

// SetPaused pauses or resumes the sim worker. Resuming takes effect within
// the worker's 5 ms bounded wait.
func (s *Server) SetPaused(p bool) {
	s.paused.Store(p)
}

// Start launches the background tick loop. A no-op if already running.
func (s *Server) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	s.wg.Add(1)
	go s.runLoop()
}

// Stop signals the tick loop to exit after its current tick. Does not block;
// call Join to wait for the worker to exit.
func (s *Server) Stop() {
	s.running.Store(false)
}

// Join blocks until the tick loop has exited.
func (s *Server) Join() {
	s.wg.Wait()
}

func (s *Server) runLoop() {
	defer s.wg.Done()
	for s.running.Load() {
		if s.paused.Load() {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		s.StepOnce()

		if ms := s.sleepMillis.Load(); ms > 0 {
			time.Sleep(time.Duration(ms) * time.Millisecond)
		}
	}
}

// StepOnce runs exactly one compute+publish cycle, regardless of the paused
// flag. Safe to call directly for headless single-step driving and tests.
func (s *Server) StepOnce() {
	chunks := s.snapshotChunks()

	for _, c := range chunks {
		c.LastChunkMs = 0
		c.LastSectionMs = [voxel.SectionsY]float64{}
		for sy := 0; sy < voxel.SectionsY; sy++ {
			if !c.SectionLoaded[sy] {
				continue
			}
			start := time.Now()
			voxel.SimulateSection(s.World, c, sy, s.DT())
			ms := float64(time.Since(start)) / float64(time.Millisecond)
			c.LastSectionMs[sy] = ms
			c.LastChunkMs += ms
		}
	}

	s.mu.Lock()
	for _, c := range chunks {
		c.SwapBuffers()
	}
	s.mu.Unlock()

	s.framesSimulated.Add(1)
}

// snapshotChunks takes a brief lock to copy the current chunk list so the
// unlocked compute phase never ranges over the live map concurrently with a
// mutator inserting a new chunk. The copy is O(chunks), the same order as
// the publish swap, and does not touch any chunk's buffers.
func (s *Server) snapshotChunks() []*voxel.Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*voxel.Chunk, 0, len(s.World.Chunks))
	for _, c := range s.World.Chunks {
		out = append(out, c)
	}
	return out
}

// WithWorldLocked runs fn with the world lock held, for mutators (paint,
// growth) that must dual-write front and back buffers and update
// section_loaded.
func (s *Server) WithWorldLocked(fn func(w *voxel.World)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.World)
}

// TrySnapshot attempts to acquire the world lock for a non-blocking
// renderer read of fn's choosing. It reports whether the lock was acquired;
// a false result means the caller should draw a prior frame or placeholder,
// never a partial read.
func (s *Server) TrySnapshot(fn func(w *voxel.World)) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()
	fn(s.World)
	return true
}

// Parameters reports the server's tunables for HUD/telemetry consumers.
func (s *Server) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{
		Groups: []core.ParameterGroup{
			{
				Name: "Server",
				Params: []core.Parameter{
					floatParam("dt", "Tick interval (s)", float64(s.DT())),
					intParam("sleep_ms", "Post-tick sleep (ms)", s.SleepMillis()),
					uint64Param("frames_simulated", "Frames simulated", s.FramesSimulated()),
					boolParam("paused", "Paused", s.IsPaused()),
				},
			},
		},
	}
}

// ParameterControls exposes dt and sleep_ms as HUD-adjustable controls.
func (s *Server) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "dt", Label: "Tick interval (s)", Type: core.ParamTypeFloat, Step: 0.05, Min: 0.05, HasMin: true, Max: 10, HasMax: true},
		{Key: "sleep_ms", Label: "Post-tick sleep (ms)", Type: core.ParamTypeInt, Step: 1, Min: 0, HasMin: true, Max: 1000, HasMax: true},
	}
}

// SetFloatParameter implements core.FloatParameterSetter.
func (s *Server) SetFloatParameter(key string, value float64) bool {
	if key != "dt" {
		return false
	}
	s.SetDT(float32(value))
	return true
}

// SetIntParameter implements core.IntParameterSetter.
func (s *Server) SetIntParameter(key string, value int) bool {
	if key != "sleep_ms" {
		return false
	}
	s.SetSleepMillis(value)
	return true
}
