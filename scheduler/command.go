package scheduler

import (
	"time"

	"github.com/FelixKiunke/joq/job"
	"github.com/FelixKiunke/joq/worker"
)

// signalKind is what the scheduler sends back to a waiting caller.
type signalKind int

const (
	signalAdmit signalKind = iota
	signalDrop
)

// schedCmd is the sum of messages the scheduler's run loop accepts.
// Only the run loop goroutine ever inspects or mutates scheduling
// state; every other goroutine communicates by sending one of these.
type schedCmd interface{}

// requestRunCmd asks the scheduler to admit job for worker w, either
// immediately (runAt is zero) or no earlier than runAt.
type requestRunCmd struct {
	job   *job.Job
	w     *worker.Type
	runAt time.Time
	reply chan signalKind
}

// confirmDoneCmd reports that an admitted job finished executing and
// its running slot should be released.
type confirmDoneCmd struct {
	worker string
	job    *job.Job
}

// timerFireCmd is sent by the timer goroutine when the earliest
// delayed entry's runAt may have arrived. The run loop re-checks
// which entries are actually due; early/spurious fires are harmless.
type timerFireCmd struct{}
