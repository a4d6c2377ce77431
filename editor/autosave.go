package editor

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tashrifatdiu/mcsc-client/errors"
	"github.com/tashrifatdiu/mcsc-client/log"
)

// DebounceDelay is the trailing quiet period before a dirty session is
// persisted.
const DebounceDelay = 3 * time.Second

// A Saver persists assembled payloads. Create is called exactly once per
// session; every later flush goes through Update with the identity Create
// returned.
type Saver interface {
	Create(ctx context.Context, p Payload) (id string, err error)
	Update(ctx context.Context, id string, p Payload) error
}

type saveState int

const (
	stateClean saveState = iota
	stateDirty
	stateSaving
)

// Autosave debounces session mutations into draft saves. A burst of edits
// collapses into a single flush DebounceDelay after the last one. Failed
// flushes keep the session dirty, so the next edit or SaveNow retries.
type Autosave struct {
	session *Session
	saver   Saver
	logger  log.Logger
	delay   time.Duration

	mu      sync.Mutex
	cond    *sync.Cond
	state   saveState
	rev     uint64
	id      string
	timer   *time.Timer
	stopped bool
}

// NewAutosave attaches a controller to the session. The controller owns the
// dirty lifecycle from then on; callers interact through SaveNow, Publish and
// Stop.
func NewAutosave(session *Session, saver Saver, logger log.Logger) *Autosave {
	a := &Autosave{
		session: session,
		saver:   saver,
		logger:  logger,
		delay:   DebounceDelay,
	}
	a.cond = sync.NewCond(&a.mu)
	session.OnDirty(a.notify)
	return a
}

// SetDelay overrides the debounce delay. Mostly for tests.
func (a *Autosave) SetDelay(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.delay = d
}

// ID returns the persisted identity, empty until the first successful flush.
func (a *Autosave) ID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.id
}

// Dirty reports whether edits are waiting to be flushed.
func (a *Autosave) Dirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state != stateClean
}

// notify is the mutation hook: bump the revision, mark dirty and restart the
// trailing timer. A mutation arriving while a save is on the wire keeps the
// saving state; the revision bump makes that save settle back into dirty.
func (a *Autosave) notify() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}

	a.rev++
	if a.state == stateClean {
		a.state = stateDirty
	}
	a.schedule()
}

// schedule restarts the trailing debounce timer. Callers hold mu.
func (a *Autosave) schedule() {
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() { a.flush(context.Background()) })
}

// flush persists the current snapshot as a draft. Only one save is on the
// wire at a time: a flush arriving while one is in flight no-ops, and any
// revision recorded meanwhile lands the session back in dirty when the
// in-flight save settles.
func (a *Autosave) flush(ctx context.Context) {
	a.mu.Lock()
	if a.stopped || a.state != stateDirty {
		a.mu.Unlock()
		return
	}
	a.state = stateSaving
	id := a.id
	rev := a.rev
	a.mu.Unlock()

	p := a.session.Assemble(true)
	if p.Blank() {
		// Nothing worth persisting yet.
		a.settle(rev, "", nil)
		return
	}

	var err error
	if id == "" {
		id, err = a.saver.Create(ctx, p)
	} else {
		err = a.saver.Update(ctx, id, p)
	}
	if err != nil && a.logger != nil {
		a.logger.Errorf("draft save failed (code %d): %v", errors.Code(err), err)
	}
	a.settle(rev, id, err)
}

// settle records the outcome of a save that was on the wire. A failed save
// leaves the session dirty for the next edit or SaveNow. A successful save of
// revision rev is clean only if no edit arrived meanwhile; otherwise the
// session goes back to dirty and the timer is restarted so the missed edits
// get their own flush.
func (a *Autosave) settle(rev uint64, id string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer a.cond.Broadcast()

	if err != nil {
		a.state = stateDirty
		return
	}

	if id != "" {
		a.id = id
	}
	if a.rev == rev {
		a.state = stateClean
		return
	}
	a.state = stateDirty
	if !a.stopped {
		a.schedule()
	}
}

// restore puts the state back after a publish that never settled an outcome.
func (a *Autosave) restore(state saveState) {
	a.mu.Lock()
	a.state = state
	a.cond.Broadcast()
	a.mu.Unlock()
}

// SaveNow forces an immediate flush, bypassing the debounce. A clean session
// is a no-op.
func (a *Autosave) SaveNow(ctx context.Context) error {
	a.mu.Lock()
	if a.stopped || a.state == stateClean {
		a.mu.Unlock()
		return nil
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()

	a.flush(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != stateClean {
		return errors.New("draft save failed")
	}
	return nil
}

// Publish validates the session and persists it with isDraft false. It waits
// out any in-flight flush first, so the identity is settled and a draft
// create on the wire can never race a publish create for the same document.
// Validation failures surface to the caller before any network call is made.
func (a *Autosave) Publish(ctx context.Context) (string, error) {
	a.mu.Lock()
	for a.state == stateSaving {
		a.cond.Wait()
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	prev := a.state
	a.state = stateSaving
	id := a.id
	rev := a.rev
	a.mu.Unlock()

	p := a.session.Assemble(false)
	if strings.TrimSpace(p.Title) == "" {
		a.restore(prev)
		return "", errors.New("a title is required to publish", errors.BadRequest())
	}
	if !hasVisibleText(p.BodyHTML) {
		a.restore(prev)
		return "", errors.New("cannot publish an empty journal", errors.BadRequest())
	}

	var err error
	if id == "" {
		id, err = a.saver.Create(ctx, p)
	} else {
		err = a.saver.Update(ctx, id, p)
	}
	if err != nil {
		a.restore(prev)
		return "", err
	}

	a.settle(rev, id, nil)
	return id, nil
}

// Stop cancels any pending flush. Edits after Stop are not persisted.
func (a *Autosave) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.cond.Broadcast()
}
