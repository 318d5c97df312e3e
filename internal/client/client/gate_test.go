package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/client/notify"
	"github.com/dmitrijs2005/petadopt/internal/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func staticToken(tok string) TokenSource {
	return func(context.Context) (string, error) { return tok, nil }
}

func newTestClient(t *testing.T, h http.Handler, tokens TokenSource) (*Client, *notify.Recorder) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	rec := &notify.Recorder{}
	c, err := New(srv.URL, Options{Tokens: tokens, Notifier: rec})
	require.NoError(t, err)
	return c, rec
}

func TestNew_Validation(t *testing.T) {
	_, err := New("", Options{})
	require.Error(t, err)

	_, err = New("not a url", Options{})
	require.Error(t, err)

	c, err := New("http://localhost:8080/api", Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
}

func TestGate_AttachesTokenAndRequestID(t *testing.T) {
	var gotToken, gotAuth, gotID string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("token")
		gotAuth = r.Header.Get("Authorization")
		gotID = r.Header.Get(common.RequestIDHeaderName)
		writeJSON(w, 200, map[string]any{"message": "ok", "data": map[string]any{"pets": []any{}, "totalCount": 0}})
	}), staticToken("abc.def.ghi"))

	_, err := c.GetAllPets(context.Background(), models.PetQuery{})
	require.NoError(t, err)

	assert.Equal(t, "abc.def.ghi", gotToken)
	assert.Empty(t, gotAuth)
	_, perr := uuid.Parse(gotID)
	assert.NoError(t, perr)
}

func TestGate_NoTokenNoHeader(t *testing.T) {
	var present bool
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header["Token"]
		writeJSON(w, 200, map[string]any{"message": "registered"})
	}), staticToken(""))

	msg, err := c.Register(context.Background(), models.RegisterRequest{Email: "a@b.c"})
	require.NoError(t, err)
	assert.Equal(t, "registered", msg)
	assert.False(t, present)
}

func TestGate_TokenStoreFailureAbortsRequest(t *testing.T) {
	var hits atomic.Int32
	c, rec := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}), func(context.Context) (string, error) { return "", common.ErrStorage })

	_, err := c.FetchUserDetails(context.Background())
	require.ErrorIs(t, err, common.ErrStorage)
	assert.Zero(t, hits.Load())
	assert.Empty(t, rec.Entries())
}

func TestGate_StatusHandling(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     any
		wantMsg  string
		wantKind Kind
		sentinel error
	}{
		{"400 with server message", 400, map[string]any{"message": "Invalid breed"}, "Invalid breed", KindClient, nil},
		{"400 without body", 400, nil, common.MsgFallback, KindClient, nil},
		{"403", 403, map[string]any{"message": "admins only"}, common.MsgForbidden, KindForbidden, ErrForbidden},
		{"500", 500, map[string]any{"message": "db down"}, common.MsgServerError, KindServer, ErrServer},
		{"503", 503, nil, common.MsgServerError, KindServer, ErrServer},
		{"404 with message", 404, map[string]any{"message": "Pet not found"}, "Pet not found", KindClient, nil},
		{"409 without message", 409, map[string]any{}, common.MsgFallback, KindClient, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.body == nil {
					w.WriteHeader(tt.status)
					return
				}
				writeJSON(w, tt.status, tt.body)
			}), staticToken("t"))

			invalidated := false
			c.OnSessionInvalidated(func(context.Context) { invalidated = true })

			_, err := c.CreatePet(context.Background(), models.PetInput{Name: "Rex", Breed: "Dog"})
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			assert.Equal(t, "CreatePet", apiErr.Op)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
			assert.NotErrorIs(t, err, ErrUnauthorized)

			assert.Equal(t, []notify.Entry{{Level: notify.LevelError, Message: tt.wantMsg}}, rec.Entries())
			assert.False(t, invalidated)
		})
	}
}

func TestGate_Unauthorized_InvalidatesOnce(t *testing.T) {
	c, rec := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]any{"message": "jwt expired"})
	}), staticToken("stale"))

	var calls atomic.Int32
	c.OnSessionInvalidated(func(context.Context) { calls.Add(1) })

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.GetUsersAdoptionApplications(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.ErrorIs(t, err, ErrUnauthorized)
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, []notify.Entry{{Level: notify.LevelError, Message: common.MsgSessionExpired}}, rec.Entries())
}

func TestGate_Unauthorized_NewTokenFiresAgain(t *testing.T) {
	tok := "first"
	var mu sync.Mutex
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
	}), func(context.Context) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		return tok, nil
	})

	calls := 0
	c.OnSessionInvalidated(func(context.Context) { calls++ })

	_, _ = c.FetchUserDetails(context.Background())
	_, _ = c.FetchUserDetails(context.Background())
	assert.Equal(t, 1, calls)

	mu.Lock()
	tok = "second"
	mu.Unlock()
	_, _ = c.FetchUserDetails(context.Background())
	assert.Equal(t, 2, calls)
}

func TestGate_LoginUnauthorized_DoesNotInvalidate(t *testing.T) {
	c, rec := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]any{"message": "Invalid credentials"})
	}), staticToken(""))

	invalidated := false
	c.OnSessionInvalidated(func(context.Context) { invalidated = true })

	_, err := c.Login(context.Background(), "a@b.c", "nope")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, invalidated)
	assert.Equal(t, []notify.Entry{{Level: notify.LevelError, Message: "Invalid credentials"}}, rec.Entries())
}

func TestGate_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	rec := &notify.Recorder{}
	c, err := New(base, Options{Notifier: rec, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.GetAllPets(context.Background(), models.PetQuery{})
	require.ErrorIs(t, err, ErrUnavailable)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindTransport, apiErr.Kind)
	assert.Zero(t, apiErr.Status)
	assert.Equal(t, []notify.Entry{{Level: notify.LevelError, Message: common.MsgFallback}}, rec.Entries())
}

func TestGate_CanceledRequestIsSilent(t *testing.T) {
	c, rec := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}), staticToken(""))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetAllPets(ctx, models.PetQuery{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, rec.Entries())
}

func TestGate_BadSuccessBody(t *testing.T) {
	c, rec := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_, _ = io.WriteString(w, "<html>")
	}), staticToken(""))

	_, err := c.GetPetDetails(context.Background(), "p1")
	require.ErrorIs(t, err, ErrBadResponse)
	assert.Empty(t, rec.Entries())
}

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "Op: status 400: bad", (&APIError{Op: "Op", Status: 400, Message: "bad"}).Error())
	assert.Equal(t, "Op: status 500", (&APIError{Op: "Op", Status: 500}).Error())
	assert.Equal(t, "Op: boom", (&APIError{Op: "Op", Kind: KindTransport, Err: errors.New("boom")}).Error())
	var nilErr *APIError
	assert.Equal(t, "api error", nilErr.Error())
}

func TestGate_SuccessfulLoginRearmsInvalidation(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			writeJSON(w, 200, map[string]any{"data": map[string]any{"token": "same", "user": map[string]any{"_id": "u1"}}})
			return
		}
		w.WriteHeader(401)
	}), staticToken("same"))

	calls := 0
	c.OnSessionInvalidated(func(context.Context) { calls++ })

	_, _ = c.GetAllAdoptionApplications(context.Background())
	_, err := c.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	_, _ = c.GetAllAdoptionApplications(context.Background())

	assert.Equal(t, 2, calls)
}

func TestGate_UnauthorizedForReplacedToken_KeepsNewSession(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	c, rec := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/login":
			writeJSON(w, 200, map[string]any{"data": map[string]any{"token": "Y", "user": map[string]any{"_id": "u1"}}})
		case r.Header.Get("token") == "X":
			close(started)
			<-release
			w.WriteHeader(401)
		default:
			w.WriteHeader(401)
		}
	}), nil)

	var mu sync.Mutex
	tok := "X"
	c.tokens = func(context.Context) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		return tok, nil
	}

	var calls atomic.Int32
	c.OnSessionInvalidated(func(context.Context) { calls.Add(1) })

	errCh := make(chan error, 1)
	go func() {
		_, err := c.FetchUserDetails(context.Background())
		errCh <- err
	}()
	<-started

	resp, err := c.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	mu.Lock()
	tok = resp.Token
	mu.Unlock()

	close(release)
	require.ErrorIs(t, <-errCh, ErrUnauthorized)
	assert.Zero(t, calls.Load())
	assert.Empty(t, rec.Entries())

	_, err = c.FetchUserDetails(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), calls.Load())
}
