package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/riceguard/apiserver/internal/auth"
	"github.com/riceguard/apiserver/internal/classifier"
	"github.com/riceguard/apiserver/internal/services"
	"github.com/riceguard/apiserver/internal/storage"
	"github.com/riceguard/apiserver/internal/store"
	"github.com/riceguard/apiserver/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]types.User)}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[strings.ToLower(email)]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, exists := r.users[key]; exists {
		return types.User{}, store.ErrDuplicateEmail
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	r.users[key] = user
	return user, nil
}

type fakeScanRepo struct {
	mu     sync.Mutex
	nextID int64
	scans  []types.Scan
}

func (r *fakeScanRepo) Create(ctx context.Context, scan types.Scan) (types.Scan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	scan.ID = r.nextID
	r.scans = append(r.scans, scan)
	return scan, nil
}

func (r *fakeScanRepo) ListByOwner(ctx context.Context, userID int) ([]types.Scan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := make([]types.Scan, 0)
	for _, scan := range r.scans {
		if scan.UserID == userID {
			owned = append(owned, scan)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})
	return owned, nil
}

type fakeRecoRepo struct {
	entries map[types.DiseaseLabel]types.RecommendationEntry
}

func newFakeRecoRepo() *fakeRecoRepo {
	return &fakeRecoRepo{entries: make(map[types.DiseaseLabel]types.RecommendationEntry)}
}

func (r *fakeRecoRepo) Get(ctx context.Context, key types.DiseaseLabel) (types.RecommendationEntry, error) {
	entry, ok := r.entries[key]
	if !ok {
		return types.RecommendationEntry{}, store.ErrNotFound
	}
	return entry, nil
}

func (r *fakeRecoRepo) InsertIfAbsent(ctx context.Context, entry types.RecommendationEntry) (bool, error) {
	if _, exists := r.entries[entry.DiseaseKey]; exists {
		return false, nil
	}
	entry.UpdatedAt = time.Now().UTC()
	r.entries[entry.DiseaseKey] = entry
	return true, nil
}

type fixedBackend struct {
	label      string
	confidence float64
}

func (f *fixedBackend) Classify(ctx context.Context, image io.Reader) (string, float64, error) {
	return f.label, f.confidence, nil
}

type testEnv struct {
	router http.Handler
	tokens *auth.TokenIssuer
}

// newTestEnv wires the full API surface over in-memory repositories, with
// the same routing shape the server uses.
func newTestEnv(t *testing.T, backend classifier.Classifier) *testEnv {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	hasher := auth.NewPasswordHasher(6)

	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	accounts := services.NewAccountService(newFakeUserRepo(), hasher, tokens)
	scans := services.NewScanService(&fakeScanRepo{}, storage.NewUploadStore(local), classifier.NewGateway(backend), nil, log, "1.0")
	catalog := services.NewCatalogService(newFakeRecoRepo(), log)
	_, err = catalog.Seed(context.Background())
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			AuthRouter(r, accounts)
		})
		r.Route("/scans", func(r chi.Router) {
			ScanRouter(r, scans, RequireAuth(tokens))
		})
		r.Route("/recommendations", func(r chi.Router) {
			RecommendationRouter(r, catalog)
		})
	})

	return &testEnv{router: r, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return e.do(t, req)
}

func (e *testEnv) register(t *testing.T, name, email, password string) *httptest.ResponseRecorder {
	t.Helper()

	return e.postJSON(t, "/api/v1/auth/register", RegisterRequest{Name: name, Email: email, Password: password})
}

func (e *testEnv) loginToken(t *testing.T, email, password string) string {
	t.Helper()

	rec := e.postJSON(t, "/api/v1/auth/login", LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func scanRequest(t *testing.T, filename string, data []byte, notes string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	if notes != "" {
		require.NoError(t, form.WriteField("notes", notes))
	}
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scans/", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	return req
}

func withBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
