package repository

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nyayasetu-web/models"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func exchange(q string) models.Exchange {
	return models.Exchange{
		ID:    uuid.New(),
		Query: q,
		Response: models.ParsedResponse{
			LegalAnswer: "answer to " + q,
			Statutes:    []string{"IPC 378"},
			Precedents:  []models.Precedent{},
		},
	}
}

func TestConversation_AppendInOrder(t *testing.T) {
	r := NewConversationRepository()
	sid := uuid.New()

	for _, q := range []string{"first", "second", "third"} {
		gen := r.Begin(sid)
		require.NoError(t, r.Append(sid, gen, exchange(q)))
	}

	c := r.Get(sid)
	require.Len(t, c.Exchanges, 3)
	assert.Equal(t, "first", c.Exchanges[0].Query)
	assert.Equal(t, "third", c.Exchanges[2].Query)
}

func TestConversation_GetReturnsEmptyForNewSession(t *testing.T) {
	r := NewConversationRepository()
	c := r.Get(uuid.New())
	assert.NotNil(t, c.Exchanges)
	assert.Empty(t, c.Exchanges)
}

func TestConversation_ResetMakesInFlightStale(t *testing.T) {
	r := NewConversationRepository()
	sid := uuid.New()

	gen := r.Begin(sid)
	r.Reset(sid)

	err := r.Append(sid, gen, exchange("late"))
	assert.ErrorIs(t, err, ErrStaleGeneration)
	assert.Empty(t, r.Get(sid).Exchanges)
}

func TestConversation_NewerRequestSupersedesOlder(t *testing.T) {
	r := NewConversationRepository()
	sid := uuid.New()

	old := r.Begin(sid)
	cur := r.Begin(sid)

	assert.ErrorIs(t, r.Append(sid, old, exchange("old")), ErrStaleGeneration)
	assert.NoError(t, r.Append(sid, cur, exchange("new")))
}

func TestConversation_AppendUnknownSession(t *testing.T) {
	r := NewConversationRepository()
	assert.ErrorIs(t, r.Append(uuid.New(), 1, exchange("q")), ErrNotFound)
}

func TestConversation_GetReturnsCopy(t *testing.T) {
	r := NewConversationRepository()
	sid := uuid.New()
	gen := r.Begin(sid)
	require.NoError(t, r.Append(sid, gen, exchange("q")))

	c := r.Get(sid)
	c.Exchanges[0].Response.Statutes[0] = "mutated"
	c.Exchanges = append(c.Exchanges, exchange("extra"))

	again := r.Get(sid)
	require.Len(t, again.Exchanges, 1)
	assert.Equal(t, "IPC 378", again.Exchanges[0].Response.Statutes[0])
}

func TestConversation_Delete(t *testing.T) {
	r := NewConversationRepository()
	sid := uuid.New()
	gen := r.Begin(sid)
	r.Delete(sid)
	assert.ErrorIs(t, r.Append(sid, gen, exchange("q")), ErrNotFound)
}

func TestSession_TouchAndExpire(t *testing.T) {
	clock := newFakeClock()
	r := NewSessionRepository()
	r.now = clock.Now

	idle := r.Create()
	active := r.Create()
	assert.NotEqual(t, idle.DocumentSetID, active.DocumentSetID)

	clock.Advance(time.Hour)
	_, err := r.Touch(active.ID)
	require.NoError(t, err)

	expired := r.Expire(clock.Now().Add(-30 * time.Minute))
	assert.Equal(t, []uuid.UUID{idle.ID}, expired)
	assert.Equal(t, 1, r.Count())

	_, err = r.Touch(idle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func stagedFiles(names ...string) []models.StagedFile {
	out := make([]models.StagedFile, len(names))
	for i, n := range names {
		out[i] = models.StagedFile{ID: uuid.New(), Filename: n}
	}
	return out
}

func TestUploadJob_Lifecycle(t *testing.T) {
	r := NewUploadJobRepository()
	sid, set := uuid.New(), uuid.New()

	job := r.Create(sid, set, stagedFiles("a.pdf", "b.txt"), true)
	assert.Equal(t, models.UploadPending, job.Status)
	require.Len(t, job.Steps, 2)

	require.NoError(t, r.UpdateStep(job.ID, 0, models.UploadStep{
		File: job.Steps[0].File, Status: models.UploadCompleted, Chunks: 4,
	}))
	got, err := r.GetByID(sid, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UploadInProgress, got.Status)
	done, total := got.Progress()
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, total)

	require.NoError(t, r.UpdateStep(job.ID, 1, models.UploadStep{
		File: job.Steps[1].File, Status: models.UploadFailed, Error: "bad file",
	}))
	final, err := r.Finish(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UploadCompleted, final.Status, "one success is enough")
	assert.True(t, final.Done())
	assert.NotNil(t, final.CompletedAt)
}

func TestUploadJob_AllFailed(t *testing.T) {
	r := NewUploadJobRepository()
	job := r.Create(uuid.New(), uuid.New(), stagedFiles("a.pdf"), false)
	require.NoError(t, r.UpdateStep(job.ID, 0, models.UploadStep{Status: models.UploadFailed}))

	final, err := r.Finish(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UploadFailed, final.Status)
}

func TestUploadJob_OtherSessionCannotSee(t *testing.T) {
	r := NewUploadJobRepository()
	job := r.Create(uuid.New(), uuid.New(), stagedFiles("a.pdf"), false)

	_, err := r.GetByID(uuid.New(), job.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadJob_UpdateStepOutOfRange(t *testing.T) {
	r := NewUploadJobRepository()
	job := r.Create(uuid.New(), uuid.New(), stagedFiles("a.pdf"), false)
	assert.ErrorIs(t, r.UpdateStep(job.ID, 5, models.UploadStep{}), ErrNotFound)
	assert.ErrorIs(t, r.UpdateStep(uuid.New(), 0, models.UploadStep{}), ErrNotFound)
}

func TestUploadJob_ListAndDeleteBySession(t *testing.T) {
	clock := newFakeClock()
	r := NewUploadJobRepository()
	r.now = clock.Now
	sid := uuid.New()

	first := r.Create(sid, uuid.New(), stagedFiles("a.pdf"), false)
	clock.Advance(time.Minute)
	second := r.Create(sid, uuid.New(), stagedFiles("b.pdf"), false)
	r.Create(uuid.New(), uuid.New(), stagedFiles("c.pdf"), false)

	jobs := r.ListBySession(sid)
	require.Len(t, jobs, 2)
	assert.Equal(t, first.ID, jobs[0].ID)
	assert.Equal(t, second.ID, jobs[1].ID)

	r.DeleteBySession(sid)
	assert.Empty(t, r.ListBySession(sid))
}
