package grading

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// RegradeBatch reports a class-wide regrade: the letter stored for every student that succeeded
// and the error of every student that did not.
type RegradeBatch struct {
	ID      uuid.UUID
	ClassID int
	Letters map[string]Letter
	Failed  map[string]error

	mu sync.Mutex
}

func newRegradeBatch(classID int) *RegradeBatch {
	return &RegradeBatch{
		ID:      uuid.New(),
		ClassID: classID,
		Letters: make(map[string]Letter),
		Failed:  make(map[string]error),
	}
}

func (b *RegradeBatch) succeed(studentID string, letter Letter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Letters[studentID] = letter
}

func (b *RegradeBatch) fail(studentID string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Failed[studentID] = err
}

// FailedStudents returns the sorted ids of the students to retry.
func (b *RegradeBatch) FailedStudents() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]string, 0, len(b.Failed))
	for id := range b.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Err is nil if every student was regraded.
func (b *RegradeBatch) Err() error {
	failed := b.FailedStudents()
	if len(failed) == 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return errors.Wrapf(b.Failed[failed[0]], "regrade batch %s: %d of %d students failed, first",
		b.ID, len(failed), len(failed)+len(b.Letters))
}
