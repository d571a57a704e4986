package timetable

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akulishov/timegrid/core/diff"
	"github.com/akulishov/timegrid/core/index"
	"github.com/akulishov/timegrid/core/schedule"
	"github.com/akulishov/timegrid/pkg/export"
)

type fakeProvider struct {
	snap    *schedule.Snapshot
	batch   diff.Batch
	batchOK bool
	history []diff.Batch
}

func (f *fakeProvider) CurrentSnapshot() *schedule.Snapshot { return f.snap }

func (f *fakeProvider) ChangesSince(time.Time) (diff.Batch, bool) { return f.batch, f.batchOK }

func (f *fakeProvider) SubjectIndex() index.Index {
	if f.snap == nil {
		return nil
	}
	return index.Build(f.snap, index.BySubject)
}

func (f *fakeProvider) RoomIndex() index.Index {
	if f.snap == nil {
		return nil
	}
	return index.Build(f.snap, index.ByRoom)
}

func (f *fakeProvider) History() []diff.Batch { return f.history }

func testSnapshot() *schedule.Snapshot {
	snap := &schedule.Snapshot{
		Classes: map[string]schedule.ClassWeek{
			"5a": {
				0: schedule.DaySchedule{
					{Subject: "math", Rooms: []string{"204"}},
					{Subject: "physics", Rooms: []string{"101"}},
				},
			},
			"5b": {
				0: schedule.DaySchedule{
					{Subject: "math", Rooms: []string{"305"}},
				},
			},
		},
		CapturedAt: time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC),
	}
	snap.Fingerprint = schedule.ComputeFingerprint(snap.Classes)
	return snap
}

func TestScheduleHandler_FullSnapshot(t *testing.T) {
	srv := httptest.NewServer(NewMux(&fakeProvider{snap: testSnapshot()}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/schedule")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc export.SnapshotDoc
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Len(t, doc.Classes, 2)
	require.Contains(t, doc.Classes, "5a")
	assert.Equal(t, "math", doc.Classes["5a"][0][0].Subject)
}

func TestScheduleHandler_ClassFilterNormalizesName(t *testing.T) {
	srv := httptest.NewServer(NewMux(&fakeProvider{snap: testSnapshot()}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/schedule?class=5A.")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc export.SnapshotDoc
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Len(t, doc.Classes, 1)
	assert.Contains(t, doc.Classes, "5a")
}

func TestScheduleHandler_UnknownClass(t *testing.T) {
	srv := httptest.NewServer(NewMux(&fakeProvider{snap: testSnapshot()}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/schedule?class=9z")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestScheduleHandler_NoSnapshotYet(t *testing.T) {
	srv := httptest.NewServer(NewMux(&fakeProvider{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/schedule")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestScheduleHandler_MethodNotAllowed(t *testing.T) {
	srv := httptest.NewServer(NewMux(&fakeProvider{snap: testSnapshot()}))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/schedule", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestChangesHandler_ReturnsBatch(t *testing.T) {
	start := time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)
	batch := diff.Batch{Start: start, End: start.Add(time.Hour)}
	batch.Days[0] = map[string]diff.ChangeRow{
		"5a": {0: &diff.ChangeCell{
			Prev: schedule.Lesson{Subject: "math", Rooms: []string{"204"}},
			Next: schedule.Lesson{Subject: "math", Rooms: []string{"305"}},
		}},
	}
	srv := httptest.NewServer(NewMux(&fakeProvider{batch: batch, batchOK: true}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/changes?since=" + start.Format(time.RFC3339))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc export.BatchDoc
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	require.Len(t, doc.Changes, 1)
	assert.Equal(t, "5a", doc.Changes[0].Class)
	assert.Equal(t, []string{"305"}, doc.Changes[0].Next.Rooms)
}

func TestChangesHandler_EmptyLogSuffix(t *testing.T) {
	srv := httptest.NewServer(NewMux(&fakeProvider{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/changes")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc export.BatchDoc
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Empty(t, doc.Changes)
}

func TestChangesHandler_BadSince(t *testing.T) {
	srv := httptest.NewServer(NewMux(&fakeProvider{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/changes?since=yesterday")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLookupHandler_BySubject(t *testing.T) {
	srv := httptest.NewServer(NewMux(&fakeProvider{snap: testSnapshot()}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/lookup?subject=MATH")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []occurrence
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 2)
	assert.Equal(t, "204", out[0].Against)
	assert.Equal(t, "5a", out[0].Class)
	assert.Equal(t, []int{0}, out[0].Slots)
	assert.Equal(t, "305", out[1].Against)
	assert.Equal(t, "5b", out[1].Class)
}

func TestLookupHandler_ByRoom(t *testing.T) {
	srv := httptest.NewServer(NewMux(&fakeProvider{snap: testSnapshot()}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/lookup?room=101")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []occurrence
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 1)
	assert.Equal(t, "physics", out[0].Against)
	assert.Equal(t, []int{1}, out[0].Slots)
}

func TestLookupHandler_NoMatch(t *testing.T) {
	srv := httptest.NewServer(NewMux(&fakeProvider{snap: testSnapshot()}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/lookup?subject=latin")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []occurrence
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Empty(t, out)
}

func TestLookupHandler_ParamValidation(t *testing.T) {
	srv := httptest.NewServer(NewMux(&fakeProvider{snap: testSnapshot()}))
	defer srv.Close()

	for _, q := range []string{"", "?subject=math&room=204"} {
		resp, err := http.Get(srv.URL + "/api/lookup" + q)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "query %q", q)
	}
}

func TestKPIHandler(t *testing.T) {
	start := time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)
	b1 := diff.Batch{Start: start, End: start.Add(time.Hour)}
	b1.Days[0] = map[string]diff.ChangeRow{
		"5a": {0: &diff.ChangeCell{Next: schedule.Lesson{Subject: "art", Rooms: []string{"12"}}}},
	}
	srv := httptest.NewServer(NewMux(&fakeProvider{history: []diff.Batch{b1}}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/kpi")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.EqualValues(t, 1, out["batches"])
	assert.EqualValues(t, 1, out["total_cells"])
}
