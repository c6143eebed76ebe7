// Package grant implements the grant/authentication orchestrator
// (§4.6): a state machine that spawns the grant-1 helper, drives its
// line-oriented protocol (§4.5), and delivers exactly one on_done
// callback per conversation.
//
// The spec models this atop a host event loop registering raw
// fd/child watches; this rewrite expresses the same cooperative,
// single-dispatch-at-a-time semantics with one goroutine per
// conversation draining the helper's stdout and a channel used to
// make Cancel synchronous, rather than exposing add_io_watch /
// add_child_watch to a caller-supplied reactor. The state transitions,
// idempotent cancellation and single on_done delivery are unchanged.
package grant

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/ubuntu/authorityd/internal/action"
	"github.com/ubuntu/authorityd/internal/grantproto"
	"github.com/ubuntu/authorityd/internal/helper"
)

// State is one of the orchestrator's four states.
type State int

const (
	// StateIdle means no conversation is in progress.
	StateIdle State = iota
	// StateRunning means the helper is spawned and the conversation is live.
	StateRunning
	// StateCanceled is a terminal-transient state; it becomes StateIdle once cleanup finishes.
	StateCanceled
	// StateDone is terminal: the final result has been delivered.
	StateDone
)

// Callbacks are the host application's hooks into the conversation
// (§4.6). All must be set before Initiate; add_io_watch/add_child_watch
// have no Go analogue here (see package doc) and are not part of this
// surface.
type Callbacks struct {
	OnType              func(implicitAuthKind string)
	OnSelectAdminUser   func(users []string) string
	OnPromptEchoOff     func(prompt string) string
	OnPromptEchoOn      func(prompt string) string
	OnErrorMessage      func(text string)
	OnTextInfo          func(text string)
	OnOverrideGrantType func(implicitAuthKind string) (override string, ok bool)
	OnDone              func(success, bogus bool)
}

// Orchestrator is the §4.6 state machine. The zero value is not
// usable; build one with New.
type Orchestrator struct {
	helperPath string
	cb         Callbacks

	mu      sync.Mutex
	state   State
	current *conversation
}

// conversation is the live state of one Initiate..on_done cycle.
type conversation struct {
	piped     *helper.Piped
	doneCh    chan struct{}
	canceled  int32 // atomic bool
	finishOne sync.Once
}

// New builds an Orchestrator that will spawn helperPath and deliver
// callbacks to cb.
func New(helperPath string, cb Callbacks) *Orchestrator {
	return &Orchestrator{helperPath: helperPath, cb: cb, state: StateIdle}
}

// State returns the orchestrator's current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Initiate spawns the grant-1 helper for (pid, actionID) and begins
// draining its protocol on a background goroutine. It fails if a
// conversation is already in progress.
func (o *Orchestrator) Initiate(ctx context.Context, pid int32, actionID action.Action) error {
	o.mu.Lock()
	if o.state != StateIdle {
		o.mu.Unlock()
		return fmt.Errorf("grant: conversation already in progress")
	}
	o.mu.Unlock()

	piped, err := helper.SpawnWithPipes([]string{o.helperPath, strconv.Itoa(int(pid)), actionID.String()})
	if err != nil {
		return err
	}

	conv := &conversation{piped: piped, doneCh: make(chan struct{})}

	o.mu.Lock()
	o.state = StateRunning
	o.current = conv
	o.mu.Unlock()

	go o.drain(conv)
	return nil
}

// drain reads complete lines from the helper's stdout until EOF,
// dispatching each by prefix and writing any reply before the next
// line is read, then reaps the child and delivers on_done exactly
// once.
func (o *Orchestrator) drain(conv *conversation) {
	scanner := bufio.NewScanner(conv.piped.Stdout)
	for scanner.Scan() {
		o.dispatch(conv, scanner.Text())
	}

	code, crashed, _ := conv.piped.Wait()
	_ = conv.piped.Stdin.Close()

	var success, bogus bool
	canceled := atomic.LoadInt32(&conv.canceled) == 1
	switch {
	case canceled:
		success, bogus = false, false
	case crashed:
		success, bogus = false, false
	default:
		success = code == 0
		bogus = code >= 2
	}

	o.mu.Lock()
	if canceled {
		o.state = StateIdle
	} else {
		o.state = StateDone
	}
	o.current = nil
	o.mu.Unlock()

	conv.finishOne.Do(func() {
		if o.cb.OnDone != nil {
			o.cb.OnDone(success, bogus)
		}
	})
	close(conv.doneCh)
}

// dispatch handles one helper line per §4.5's prefix table.
func (o *Orchestrator) dispatch(conv *conversation, line string) {
	msg := grantproto.Parse(line)
	switch msg.Kind {
	case grantproto.KindPromptEchoOff:
		if o.cb.OnPromptEchoOff == nil {
			return
		}
		reply := o.cb.OnPromptEchoOff(msg.Payload)
		o.reply(conv, grantproto.FormatReply(reply))
	case grantproto.KindPromptEchoOn:
		if o.cb.OnPromptEchoOn == nil {
			return
		}
		reply := o.cb.OnPromptEchoOn(msg.Payload)
		o.reply(conv, grantproto.FormatReply(reply))
	case grantproto.KindErrorMessage:
		if o.cb.OnErrorMessage != nil {
			o.cb.OnErrorMessage(msg.Payload)
		}
	case grantproto.KindTextInfo:
		if o.cb.OnTextInfo != nil {
			o.cb.OnTextInfo(msg.Payload)
		}
	case grantproto.KindTellType:
		if o.cb.OnType != nil {
			o.cb.OnType(msg.Payload)
		}
	case grantproto.KindTellAdminUsers:
		if o.cb.OnSelectAdminUser == nil {
			return
		}
		chosen := o.cb.OnSelectAdminUser(grantproto.AdminUsers(msg.Payload))
		o.reply(conv, grantproto.FormatSelectAdminUser(chosen))
	case grantproto.KindAskOverrideGrantType:
		if o.cb.OnOverrideGrantType == nil {
			return
		}
		override, ok := o.cb.OnOverrideGrantType(msg.Payload)
		if !ok {
			return
		}
		o.reply(conv, grantproto.FormatPassOverrideGrantType(override))
	default:
		// Unknown lines are ignored for forward compatibility.
	}
}

func (o *Orchestrator) reply(conv *conversation, line string) {
	_, _ = conv.piped.Stdin.Write([]byte(line))
}

// Cancel sends SIGTERM to the helper and blocks until it has been
// reaped and on_done(false, false) delivered. It is idempotent: a
// Cancel on an Orchestrator with no live conversation is a no-op.
func (o *Orchestrator) Cancel() error {
	o.mu.Lock()
	conv := o.current
	if o.state != StateRunning || conv == nil {
		o.mu.Unlock()
		return nil
	}
	o.state = StateCanceled
	o.mu.Unlock()

	atomic.StoreInt32(&conv.canceled, 1)
	if err := conv.piped.Signal(syscall.SIGTERM); err != nil {
		return err
	}
	<-conv.doneCh
	return nil
}

// Destroy releases the orchestrator: if a conversation is live, it is
// canceled (SIGTERM + synchronous reap) exactly as Cancel does. Safe
// to call from within on_done.
func (o *Orchestrator) Destroy() error {
	return o.Cancel()
}
