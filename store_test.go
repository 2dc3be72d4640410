package algopay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/usheguard/algopay/schema"
)

func newTestStore(t *testing.T) *Store {
	s, err := NewBoltStore(t.TempDir())
	assert.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPendingTaskIdPool(t *testing.T) {
	s := newTestStore(t)

	assert.NoError(t, s.PutPendingTaskId("vid-1"))
	assert.NoError(t, s.PutPendingTaskId("vid-2"))

	ids, err := s.LoadAllPendingTaskIds()
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"vid-1", "vid-2"}, ids)

	assert.NoError(t, s.DelPendingTaskId("vid-1"))
	ids, err = s.LoadAllPendingTaskIds()
	assert.NoError(t, err)
	assert.Equal(t, []string{"vid-2"}, ids)
}

func TestSaveLoadTask(t *testing.T) {
	s := newTestStore(t)

	tk := schema.VideoTask{
		TaskId:    "vid-1",
		Kind:      schema.TaskKindVideo,
		Status:    schema.TaskStatusReady,
		ResultUrl: "https://cdn.example.org/vid-1.mp4",
		Attempts:  4,
		Timestamp: time.Now().Unix(),
	}
	assert.NoError(t, s.SaveTask(tk.TaskId, tk))

	got, err := s.LoadTask("vid-1")
	assert.NoError(t, err)
	assert.Equal(t, tk, *got)

	_, err = s.LoadTask("missing")
	assert.Equal(t, schema.ErrNotExist, err)
}

func TestCleanExpiredTasks(t *testing.T) {
	s := newTestStore(t)

	old := schema.VideoTask{TaskId: "old", Status: schema.TaskStatusTimedOut, Timestamp: time.Now().Add(-48 * time.Hour).Unix()}
	fresh := schema.VideoTask{TaskId: "fresh", Status: schema.TaskStatusReady, Timestamp: time.Now().Unix()}
	assert.NoError(t, s.SaveTask(old.TaskId, old))
	assert.NoError(t, s.SaveTask(fresh.TaskId, fresh))

	assert.NoError(t, s.CleanExpiredTasks(time.Now().Add(-24*time.Hour).Unix()))

	_, err := s.LoadTask("old")
	assert.Equal(t, schema.ErrNotExist, err)
	got, err := s.LoadTask("fresh")
	assert.NoError(t, err)
	assert.Equal(t, fresh, *got)
}
