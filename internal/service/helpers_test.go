package service

import (
	"context"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Mohd-umair/repmeup-frontend/internal/apiclient"
	"github.com/Mohd-umair/repmeup-frontend/internal/model"
	"github.com/Mohd-umair/repmeup-frontend/internal/pkg/logger"
	"github.com/Mohd-umair/repmeup-frontend/internal/realtime"
	"github.com/Mohd-umair/repmeup-frontend/internal/storage"
	"github.com/Mohd-umair/repmeup-frontend/internal/testutil"
)

type recordingNavigator struct {
	mu      sync.Mutex
	toLogin int
}

func (n *recordingNavigator) ToLogin() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toLogin++
}

func (n *recordingNavigator) loginCalls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.toLogin
}

// testEnv assembles the same wiring the composition root does, against the
// in-process backend.
type testEnv struct {
	backend   *testutil.Backend
	socketURL string
	store     storage.Store
	log       logger.ILogger
	api       *apiclient.Client
	navigator *recordingNavigator

	auth IAuthService
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	backend := testutil.NewBackend()
	baseURL, socketURL, err := backend.Start()
	require.NoError(t, err)
	t.Cleanup(backend.Shutdown)

	env := &testEnv{
		backend:   backend,
		socketURL: socketURL,
		store:     storage.NewFileStore(filepath.Join(t.TempDir(), "session.json")),
		log:       logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "client.log")),
		navigator: &recordingNavigator{},
	}

	transport := apiclient.Chain(http.DefaultTransport,
		apiclient.AuthInterceptor(env.store, func() {
			if env.auth != nil {
				env.auth.HandleUnauthorized()
			}
		}),
	)
	env.api = apiclient.New(baseURL, 10*time.Second, transport)
	env.auth = NewAuthService(env.api, env.store, env.navigator, env.log)
	return env
}

// signIn seeds an account and authenticates through the real login path.
func (env *testEnv) signIn(t *testing.T) model.User {
	t.Helper()
	user := env.backend.SeedUser("agent@example.com", "password1")
	_, err := env.auth.Login(context.Background(), user.Email, "password1")
	require.NoError(t, err)
	return user
}

func (env *testEnv) newRealtime(t *testing.T) *realtime.Client {
	t.Helper()
	rtLog := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "realtime.log"))
	client := realtime.New(env.socketURL, env.store, rtLog)
	t.Cleanup(client.Disconnect)
	return client
}

func seedInteraction(backend *testutil.Backend, id string, platform model.Platform, status model.InteractionStatus) model.Interaction {
	interaction := model.Interaction{
		Id:        id,
		Platform:  platform,
		Type:      model.InteractionTypeComment,
		Content:   "content of " + id,
		Author:    model.Author{Name: "Visitor"},
		Sentiment: model.SentimentNeutral,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	backend.SeedInteraction(interaction)
	return interaction
}
