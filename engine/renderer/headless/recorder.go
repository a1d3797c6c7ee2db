package headless

import (
	"fmt"

	"github.com/emberengine/ember/engine/renderer/frame"
)

// CommandKind discriminates recorded commands.
type CommandKind int

const (
	CommandBindObjectData CommandKind = iota
	CommandBindPassData
	CommandDrawIndexed
)

// Command is one recorded instruction. BindingIndex is set for the bind
// kinds, the draw fields for CommandDrawIndexed.
type Command struct {
	Kind         CommandKind
	BindingIndex uint32
	IndexCount   uint32
	StartIndex   uint32
	BaseVertex   int32
}

// Recorder captures commands in memory with the same lifecycle a real
// command buffer has. Recording outside Begin/End is a programming error
// and panics.
type Recorder struct {
	state    frame.RecorderState
	commands []Command
	resets   int
}

func NewRecorder() *Recorder {
	return &Recorder{state: frame.RecorderReady}
}

func (r *Recorder) Reset() error {
	r.state = frame.RecorderReady
	r.commands = r.commands[:0]
	r.resets++
	return nil
}

func (r *Recorder) Begin() error {
	if r.state != frame.RecorderReady {
		return fmt.Errorf("headless: begin of a recorder in state %s", r.state)
	}
	r.state = frame.RecorderRecording
	return nil
}

func (r *Recorder) End() error {
	if r.state != frame.RecorderRecording {
		return fmt.Errorf("headless: end of a recorder in state %s", r.state)
	}
	r.state = frame.RecorderRecordingEnded
	return nil
}

func (r *Recorder) UpdateSubmitted() {
	r.state = frame.RecorderSubmitted
}

func (r *Recorder) State() frame.RecorderState {
	return r.state
}

func (r *Recorder) BindObjectData(index uint32) {
	r.record(Command{Kind: CommandBindObjectData, BindingIndex: index})
}

func (r *Recorder) BindPassData(index uint32) {
	r.record(Command{Kind: CommandBindPassData, BindingIndex: index})
}

func (r *Recorder) DrawIndexed(indexCount, startIndex uint32, baseVertex int32) {
	r.record(Command{
		Kind:       CommandDrawIndexed,
		IndexCount: indexCount,
		StartIndex: startIndex,
		BaseVertex: baseVertex,
	})
}

// Commands returns the instructions recorded since the last Reset.
func (r *Recorder) Commands() []Command {
	return r.commands
}

// ResetCount reports how many times the recorder was recycled.
func (r *Recorder) ResetCount() int {
	return r.resets
}

func (r *Recorder) record(cmd Command) {
	if r.state != frame.RecorderRecording {
		panic(fmt.Sprintf("headless: command recorded in state %s", r.state))
	}
	r.commands = append(r.commands, cmd)
}
