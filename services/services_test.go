package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"

	"github.com/kendall-kelly/fixnow-api/auth"
	"github.com/kendall-kelly/fixnow-api/models"
	"github.com/kendall-kelly/fixnow-api/repository"
	"github.com/kendall-kelly/fixnow-api/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), []byte("fake png body")...)

type recordedEvent struct {
	Type string
	Key  string
	Data any
}

// recordingPublisher keeps every published event in memory
type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, eventType, key string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Type: eventType, Key: key, Data: data})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func (p *recordingPublisher) last() recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

// fixture wires every service to a fresh in-memory database
type fixture struct {
	db           *gorm.DB
	events       *recordingPublisher
	images       *LocalImageService
	users        *UserService
	auth         *AuthService
	appointments *AppointmentService
	categories   *CategoryService
	reviews      *ReviewService
}

func newFixture(t *testing.T, policy models.TransitionPolicy) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	events := &recordingPublisher{}
	images := NewLocalImageService(t.TempDir())
	hasher := auth.NewPasswordHasher()

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	return &fixture{
		db:     db,
		events: events,
		images: images,
		users:  NewUserService(userRepo, hasher, images, events),
		auth:   NewAuthService(userRepo, hasher, testutil.TokenService()),
		appointments: NewAppointmentService(
			repository.NewAppointmentRepository(db),
			userRepo,
			categoryRepo,
			models.NewLifecycle(policy),
			events,
		),
		categories: NewCategoryService(categoryRepo),
		reviews:    NewReviewService(repository.NewReviewRepository(db), userRepo),
	}
}

func identityOf(user *models.User) auth.Identity {
	return auth.Identity{ID: user.ID, Email: user.Email, Role: user.Role}
}

func requireKind(t *testing.T, err error, kind ErrorKind, code string) {
	t.Helper()

	require.Error(t, err)
	se, ok := AsError(err)
	require.True(t, ok, "expected a service error, got %v", err)
	require.Equal(t, kind, se.Kind, "kind of %v", err)
	require.Equal(t, code, se.Code)
}

func imageHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/octet-stream")
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["image"][0]
}
