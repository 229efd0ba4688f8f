package session

import "time"

// TaskKind names a deferred follow-up of a pick.
type TaskKind int

const (
	// TaskShakeClear ends the wrong-pick shake and clears the selection.
	TaskShakeClear TaskKind = iota
	// TaskCelebrate starts the confetti and the level-complete fanfare.
	TaskCelebrate
	// TaskAutoAdvance moves on to the next level.
	TaskAutoAdvance
)

func (k TaskKind) String() string {
	switch k {
	case TaskShakeClear:
		return "shake-clear"
	case TaskCelebrate:
		return "celebrate"
	case TaskAutoAdvance:
		return "auto-advance"
	default:
		return "unknown"
	}
}

// Task is a deferred action. The caller waits Delay and passes the task
// back to Fire. Tasks carry the generation they were issued in; Reset and
// Enter start a new generation, which makes older tasks stale.
type Task struct {
	Kind       TaskKind
	Delay      time.Duration
	Generation uint64
}

func (s *Session) task(kind TaskKind, delay time.Duration) Task {
	return Task{Kind: kind, Delay: delay, Generation: s.generation}
}

// Fire runs a task and reports whether it applied. Stale tasks are dropped.
// For TaskCelebrate and TaskAutoAdvance the caller does the visible part:
// confetti and loading the next level.
func (s *Session) Fire(t Task) bool {
	if t.Generation != s.generation {
		return false
	}

	switch t.Kind {
	case TaskShakeClear:
		s.shaking = false
		s.selected = ""
	case TaskCelebrate:
		if !s.complete {
			return false
		}
		if s.sounds != nil {
			s.sounds.PlayLevelComplete()
		}
	case TaskAutoAdvance:
		if !s.complete {
			return false
		}
	default:
		return false
	}
	return true
}
