package faculty

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"rpsadmin/internal/listctl"
	"rpsadmin/internal/querycache"
	"rpsadmin/internal/rest"
	"rpsadmin/internal/validate"
)

// fakeAPI is an in-memory /faculties backend.
type fakeAPI struct {
	mu       sync.Mutex
	rows     []map[string]any
	nextID   int
	inUse    map[string]bool
	requests atomic.Int32
}

func newFakeAPI(names ...string) *fakeAPI {
	f := &fakeAPI{inUse: map[string]bool{}}
	for _, n := range names {
		f.nextID++
		f.rows = append(f.rows, map[string]any{
			"id":          f.nextID,
			"name":        n,
			"description": n + " faculty description",
			"departments": []map[string]any{{"id": f.nextID * 10, "name": n + " Dept"}},
		})
	}
	return f
}

func writeEnvelope(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/faculties", func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		search := strings.ToLower(q.Get("search"))

		f.mu.Lock()
		var match []map[string]any
		for _, row := range f.rows {
			if strings.Contains(strings.ToLower(row["name"].(string)), search) {
				match = append(match, row)
			}
		}
		f.mu.Unlock()

		start := min((page-1)*limit, len(match))
		end := min(start+limit, len(match))
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success":  true,
			"message":  "ok",
			"data":     match[start:end],
			"total":    len(match),
			"page":     page,
			"limit":    limit,
			"lastPage": listctl.PageCount(len(match), limit),
		})
	})
	mux.HandleFunc("POST /api/v1/faculties", func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		var in Input
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeEnvelope(w, http.StatusBadRequest, map[string]any{"success": false, "message": "bad body"})
			return
		}
		f.mu.Lock()
		f.nextID++
		f.rows = append(f.rows, map[string]any{"id": f.nextID, "name": in.Name, "description": in.Description})
		f.mu.Unlock()
		writeEnvelope(w, http.StatusCreated, map[string]any{"success": true, "message": "Faculty created"})
	})
	mux.HandleFunc("PATCH /api/v1/faculties/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		var in Input
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, row := range f.rows {
			if strconv.Itoa(row["id"].(int)) == r.PathValue("id") {
				row["name"] = in.Name
				row["description"] = in.Description
				writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "message": "Faculty updated"})
				return
			}
		}
		writeEnvelope(w, http.StatusNotFound, map[string]any{"success": false, "message": "Faculty not found"})
	})
	mux.HandleFunc("DELETE /api/v1/faculties/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		id := r.PathValue("id")
		if f.inUse[id] {
			writeEnvelope(w, http.StatusOK, map[string]any{"success": false, "message": "in use"})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, row := range f.rows {
			if strconv.Itoa(row["id"].(int)) == id {
				f.rows = append(f.rows[:i], f.rows[i+1:]...)
				writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "message": "Faculty deleted"})
				return
			}
		}
		writeEnvelope(w, http.StatusNotFound, map[string]any{"success": false, "message": "Faculty not found"})
	})
	return mux
}

func newTestService(t *testing.T, api *fakeAPI) *Service {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	log := zaptest.NewLogger(t)
	client, err := rest.NewClient(srv.URL+"/api/v1", rest.WithLogger(log))
	require.NoError(t, err)
	return NewService(client, querycache.New(querycache.WithLogger(log)), log)
}

func waitFor[T any](t *testing.T, c *listctl.Controller[T], cond func(listctl.State[T]) bool) listctl.State[T] {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s := c.State(); cond(s) {
			return s
		}
		time.Sleep(5 * time.Millisecond)
	}
	s := c.State()
	t.Fatalf("condition not met; phase=%s items=%d", s.Phase, len(s.Items))
	return s
}

func TestService_ListDecodesPage(t *testing.T) {
	api := newFakeAPI("Science", "Arts", "Law")
	svc := newTestService(t, api)

	page, err := svc.List(context.Background(), listctl.Query{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.LastPage)
	require.Len(t, page.Items, 2)
	assert.Equal(t, ID("1"), page.Items[0].ID)
	assert.Equal(t, "Science Dept", page.Items[0].DepartmentNames())
}

func TestService_ListIsCached(t *testing.T) {
	api := newFakeAPI("Science", "Arts")
	svc := newTestService(t, api)
	q := listctl.Query{Search: "sci", Page: 1, Limit: 10}

	_, err := svc.List(context.Background(), q)
	require.NoError(t, err)
	_, err = svc.List(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int32(1), api.requests.Load())

	_, err = svc.List(context.Background(), listctl.Query{Search: "art", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int32(2), api.requests.Load())
}

func TestService_CreateRefetchIncludesNewRecord(t *testing.T) {
	api := newFakeAPI("Science")
	svc := newTestService(t, api)

	ctrl := listctl.New[Faculty](svc, listctl.WithLogger(zaptest.NewLogger(t)))
	unsub := svc.Watch(ctrl.Refresh)
	t.Cleanup(func() {
		unsub()
		ctrl.Close()
		ctrl.Wait()
	})
	ctrl.Start()
	waitFor(t, ctrl, func(s listctl.State[Faculty]) bool { return s.Phase == listctl.PhasePopulated })

	msg, err := svc.Create(context.Background(), Input{Name: " Engineering ", Description: "Civil, mechanical and electrical"})
	require.NoError(t, err)
	assert.Equal(t, "Faculty created", msg)

	s := waitFor(t, ctrl, func(s listctl.State[Faculty]) bool {
		return s.Phase == listctl.PhasePopulated && s.Total == 2
	})
	require.Len(t, s.Items, 2)
	assert.Equal(t, "Engineering", s.Items[1].Name, "sent trimmed")
}

func TestService_ShortDescriptionSendsNothing(t *testing.T) {
	api := newFakeAPI()
	svc := newTestService(t, api)

	_, err := svc.Create(context.Background(), Input{Name: "Science", Description: "short"})
	var verr *validate.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Description must be at least 10 characters", verr.For("Description"))

	_, err = svc.Update(context.Background(), "1", Input{Name: "Science", Description: "short"})
	require.True(t, errors.As(err, &verr))

	assert.Equal(t, int32(0), api.requests.Load())
}

func TestService_DeleteRejected(t *testing.T) {
	api := newFakeAPI("A1", "A2", "A3", "A4", "A5")
	api.inUse["5"] = true
	svc := newTestService(t, api)

	_, err := svc.List(context.Background(), listctl.Query{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, svc.Cache().Len())

	_, err = svc.Delete(context.Background(), "5")
	require.Error(t, err)
	assert.ErrorIs(t, err, rest.ErrRejected)
	assert.Equal(t, "in use", rest.UserMessage(err))
	assert.Equal(t, 1, svc.Cache().Len(), "failed mutation keeps cache")
}

func TestService_UpdateAndDeleteInvalidate(t *testing.T) {
	api := newFakeAPI("Science", "Arts")
	svc := newTestService(t, api)
	ctx := context.Background()
	q := listctl.Query{Page: 1, Limit: 10}

	_, err := svc.List(ctx, q)
	require.NoError(t, err)

	msg, err := svc.Update(ctx, "2", Input{Name: "Fine Arts", Description: "Painting, sculpture and music"})
	require.NoError(t, err)
	assert.Equal(t, "Faculty updated", msg)
	assert.Zero(t, svc.Cache().Len())

	page, err := svc.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, "Fine Arts", page.Items[1].Name)

	msg, err = svc.Delete(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Faculty deleted", msg)

	page, err = svc.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestService_EmptyResult(t *testing.T) {
	api := newFakeAPI("Science")
	svc := newTestService(t, api)

	page, err := svc.List(context.Background(), listctl.Query{Search: "nothing", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Items)
}
