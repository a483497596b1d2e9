package lesson

// ===============================
// Lesson Status
// ===============================

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinished   Status = "FINISHED"
)

var Statuses = []Status{StatusPending, StatusInProgress, StatusFinished}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusFinished:
		return true
	}
	return false
}

// IsTerminal reports whether the lesson took place. Any status can still
// be set afterwards; no transition is rejected.
func (s Status) IsTerminal() bool {
	return s == StatusFinished
}

func InitialStatus() Status {
	return StatusPending
}
