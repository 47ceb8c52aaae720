// Copyright 2024-2026 Vladimir Janus. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package processor paces an emulated M68xx CPU against a wall-clock rate
// on a background goroutine. External commands reach the CPU through a
// coalescing action queue, and machine-state snapshots flow back to the
// caller at a fixed cadence. While a run is active the worker goroutine is
// the only writer of CPU state; the caller mutates it through actions.
package processor

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/VladimirJanus/go68xx/asm"
	"github.com/VladimirJanus/go68xx/cpu"
)

// Snapshots are emitted at this cadence regardless of the requested rate.
const snapshotHz = 250

// BreakKind selects which machine quantity a breakpoint matches.
type BreakKind int

// Breakpoint kinds.
const (
	BreakNone     BreakKind = iota // no breakpoint installed
	BreakLine                      // source line number, via the source map
	BreakPC                        // program counter value
	BreakSP                        // stack pointer value
	BreakX                         // active index register value
	BreakA                         // accumulator A value
	BreakB                         // accumulator B value
	BreakFlag                      // one condition code bit
	BreakMemory                    // value of one memory cell
)

// A Breakpoint stops a paced run when its condition holds after an
// instruction completes. Bookmarked addresses break independently of the
// installed breakpoint.
type Breakpoint struct {
	Kind  BreakKind
	Addr  uint16 // memory cell address for BreakMemory
	Value uint16 // match value; line number for BreakLine; CC bit for BreakFlag
	On    bool   // desired flag state for BreakFlag
}

func (b *Breakpoint) matches(c *cpu.CPU, smap *asm.SourceMap) bool {
	switch b.Kind {
	case BreakLine:
		if smap == nil {
			return false
		}
		line, ok := smap.FindLine(int(c.Reg.PC))
		return ok && line == int(b.Value)
	case BreakPC:
		return c.Reg.PC == b.Value
	case BreakSP:
		return c.Reg.SP == b.Value
	case BreakX:
		return c.Reg.X() == b.Value
	case BreakA:
		return uint16(c.Reg.A) == b.Value
	case BreakB:
		return uint16(c.Reg.B) == b.Value
	case BreakFlag:
		return (c.Reg.SaveCC()&byte(b.Value) != 0) == b.On
	case BreakMemory:
		return uint16(c.Mem.LoadByte(b.Addr)) == b.Value
	}
	return false
}

// A Snapshot captures the machine state between instructions. The driver
// emits one per batch, never mid-instruction.
type Snapshot struct {
	Memory    []byte // copy of the full 64KB image
	Cycles    uint64 // executed CPU cycles
	CC        byte   // packed condition codes
	PC        uint16
	SP        uint16
	A         byte
	B         byte
	X         uint16 // active index register
	CycleMode bool   // cycle-accurate pacing active
	TotalOps  uint64 // ticks executed since the last reset
}

// StopReason tells the listener why a paced run ended.
type StopReason int

// Reasons reported through OnRunStopped.
const (
	StopRequested  StopReason = iota // Stop was called
	StopBreakpoint                   // breakpoint or bookmark hit
	StopHalted                       // CPU halted on an invalid opcode
)

func (r StopReason) String() string {
	switch r {
	case StopRequested:
		return "stop requested"
	case StopBreakpoint:
		return "breakpoint hit"
	case StopHalted:
		return "processor halted"
	}
	return "unknown"
}

// A Listener receives notifications from a paced run. Calls arrive on the
// worker goroutine.
type Listener interface {
	OnSnapshot(s *Snapshot)
	OnRunStopped(r StopReason)
}

// A Processor wraps a CPU with a command queue and a paced execution
// driver. Its direct accessors must not be used to mutate machine state
// while a run is active; actions exist for that.
type Processor struct {
	cpu      *cpu.CPU
	listener Listener
	queue    actionQueue

	cycleMode  bool
	breakpoint Breakpoint
	bookmarks  map[uint16]bool
	smap       *asm.SourceMap
	totalOps   uint64

	running atomic.Bool
	stop    atomic.Bool
	wg      sync.WaitGroup
}

// New creates a processor around a fresh CPU and zeroed memory.
func New(arch cpu.Arch, listener Listener) *Processor {
	return &Processor{
		cpu:      cpu.NewCPU(arch, cpu.NewMemory()),
		listener: listener,
	}
}

// CPU exposes the wrapped CPU for inspection and for direct manipulation
// while no run is active.
func (p *Processor) CPU() *cpu.CPU {
	return p.cpu
}

// Running reports whether a paced run is active.
func (p *Processor) Running() bool {
	return p.running.Load()
}

// CycleMode reports whether cycle-accurate pacing is selected.
func (p *Processor) CycleMode() bool {
	return p.cycleMode
}

// Reset returns the CPU to its power-on state and restores memory to the
// last committed image. It must not be called during a run.
func (p *Processor) Reset() {
	p.cpu.Reset()
	p.cpu.Mem.Revert()
	p.totalOps = 0
}

// SwitchArch stops any active run and replaces the CPU with one of the
// requested architecture. Memory is preserved; registers reset.
func (p *Processor) SwitchArch(arch cpu.Arch) {
	p.Stop()
	inc := p.cpu.IncrementOnInvalid
	p.cpu = cpu.NewCPU(arch, p.cpu.Mem)
	p.cpu.IncrementOnInvalid = inc
	p.totalOps = 0
}

// Step executes a single instruction-per-step tick synchronously. It does
// nothing while a paced run is active.
func (p *Processor) Step() error {
	if p.running.Load() {
		return nil
	}
	err := p.cpu.Step()
	if err == nil {
		p.totalOps++
	}
	return err
}

// AddAction hands a command to the processor. While a run is active it is
// queued and applied at the start of the next batch; otherwise it takes
// effect immediately.
func (p *Processor) AddAction(a Action) {
	if p.running.Load() {
		p.queue.add(a)
		return
	}
	p.apply(a)
}

func (p *Processor) apply(a Action) {
	switch a.Type {
	case ActionSetBreakpoint:
		p.breakpoint = a.Break
	case ActionRaiseRST:
		p.cpu.Raise(cpu.IntRST)
	case ActionRaiseNMI:
		p.cpu.Raise(cpu.IntNMI)
	case ActionRaiseIRQ:
		p.cpu.Raise(cpu.IntIRQ)
	case ActionSetMemory:
		p.cpu.Mem.StoreByte(a.Addr, byte(a.Value))
	case ActionKeyInput:
		p.cpu.Mem.StoreByte(cpu.KeyInputAddr, byte(a.Value))
	case ActionMouseInput:
		p.cpu.Mem.StoreByte(cpu.MouseInputAddr, byte(a.Value))
	case ActionCycleMode:
		p.cycleMode = a.On
	case ActionIncrementOnInvalid:
		p.cpu.IncrementOnInvalid = a.On
	case ActionIndexRegister:
		p.cpu.Reg.CurIndReg = int(a.Value) & 1
	case ActionSetBookmarks:
		p.bookmarks = makeAddrSet(a.Bookmarks)
	}
}

func makeAddrSet(addrs []uint16) map[uint16]bool {
	if len(addrs) == 0 {
		return nil
	}
	set := make(map[uint16]bool, len(addrs))
	for _, a := range addrs {
		set[a] = true
	}
	return set
}

// Start launches a paced run on a background goroutine. rate is the target
// number of ticks per second. The source map resolves line breakpoints and
// may be nil; bookmarks break the run whenever PC lands on one. Progress
// and termination reach the listener on the worker goroutine.
func (p *Processor) Start(rate int, smap *asm.SourceMap, bookmarks []uint16) error {
	if rate <= 0 {
		return errors.New("rate must be positive")
	}
	if p.running.Load() {
		return errors.New("execution already running")
	}

	p.smap = smap
	p.bookmarks = makeAddrSet(bookmarks)
	p.stop.Store(false)
	p.running.Store(true)
	p.wg.Add(1)
	go p.run(rate)
	return nil
}

// Stop requests the end of a paced run and blocks until the worker
// goroutine has exited. No worker activity survives the call.
func (p *Processor) Stop() {
	p.stop.Store(true)
	p.wg.Wait()
}

// run is the driver loop. Batch size keeps snapshot emission near the
// fixed cadence: one tick per batch below it, rate/cadence ticks above.
func (p *Processor) run(rate int) {
	defer p.wg.Done()

	batch := 1
	if rate >= snapshotHz {
		batch = rate / snapshotHz
	}
	interval := time.Second * time.Duration(batch) / time.Duration(rate)

	reason := StopRequested
	deadline := time.Now()

loop:
	for !p.stop.Load() {
		for _, a := range p.queue.drain() {
			p.apply(a)
		}

		for i := 0; i < batch; i++ {
			if p.stop.Load() {
				break loop
			}
			if err := p.tick(); err != nil {
				reason = StopHalted
				break loop
			}
			p.totalOps++
			if p.atBreakpoint() {
				reason = StopBreakpoint
				break loop
			}
		}

		p.emitSnapshot()
		deadline = deadline.Add(interval)
		p.pace(deadline)
	}

	// Final snapshot so the listener sees the state the run ended on.
	p.emitSnapshot()
	p.running.Store(false)
	if p.listener != nil {
		p.listener.OnRunStopped(reason)
	}
}

func (p *Processor) tick() error {
	if p.cycleMode {
		return p.cpu.Tick()
	}
	return p.cpu.Step()
}

func (p *Processor) atBreakpoint() bool {
	if p.bookmarks[p.cpu.Reg.PC] {
		return true
	}
	if p.breakpoint.Kind == BreakNone {
		return false
	}
	return p.breakpoint.matches(p.cpu, p.smap)
}

func (p *Processor) emitSnapshot() {
	if p.listener == nil {
		return
	}
	r := &p.cpu.Reg
	p.listener.OnSnapshot(&Snapshot{
		Memory:    p.cpu.Mem.Snapshot(),
		Cycles:    p.cpu.Cycles,
		CC:        r.SaveCC(),
		PC:        r.PC,
		SP:        r.SP,
		A:         r.A,
		B:         r.B,
		X:         r.X(),
		CycleMode: p.cycleMode,
		TotalOps:  p.totalOps,
	})
}

// pace sleeps until the batch deadline in short slices, waking early when
// a stop is requested.
func (p *Processor) pace(deadline time.Time) {
	for !p.stop.Load() {
		d := time.Until(deadline)
		if d <= 0 {
			return
		}
		if d > time.Millisecond {
			d = time.Millisecond
		}
		time.Sleep(d)
	}
}
