package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/gateway"
	"inkwell/internal/mailer"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testKeySecret = "test_razorpay_secret"

type mailerStub struct {
	sent []mailer.Message
	err  error
}

func (m *mailerStub) Send(msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type uploaderStub struct {
	url   string
	err   error
	paths []string
}

func (u *uploaderStub) Upload(_ context.Context, filePath string) (string, error) {
	u.paths = append(u.paths, filePath)
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}

type gatewayStub struct {
	createOrderFn func(ctx context.Context, spec gateway.OrderSpec) (*gateway.Order, error)
}

func (g *gatewayStub) CreateOrder(ctx context.Context, spec gateway.OrderSpec) (*gateway.Order, error) {
	if g.createOrderFn != nil {
		return g.createOrderFn(ctx, spec)
	}
	return &gateway.Order{ID: "order_stub", Amount: spec.Amount, Currency: spec.Currency, Status: "created"}, nil
}

type testEnv struct {
	server   *Server
	db       *gorm.DB
	mailer   *mailerStub
	uploader *uploaderStub
	gateway  *gatewayStub
}

// newTestServer builds a Server backed by an in-memory database and
// miniredis, with the outbound clients replaced by stubs. Metrics middleware
// is left unset so tests do not register duplicate Prometheus collectors.
func newTestServer(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(redisClient)
	t.Cleanup(func() { cache.SetClient(nil) })

	cfg := &config.Config{
		JWTSecret:         "test_secret_for_handler_tests_only",
		Port:              "0",
		BaseURL:           "http://localhost:8480",
		Env:               "test",
		RazorpayKeyID:     "rzp_test_key",
		RazorpayKeySecret: testKeySecret,
		AvatarUploadDir:   t.TempDir(),
	}
	middleware.InitMiddleware(cfg, redisClient)

	ms := &mailerStub{}
	us := &uploaderStub{url: "https://images.example.com/avatar.png"}
	gs := &gatewayStub{}

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	s := &Server{
		config:      cfg,
		db:          db,
		redis:       redisClient,
		userRepo:    userRepo,
		followRepo:  followRepo,
		blogRepo:    blogRepo,
		commentRepo: commentRepo,
		paymentRepo: paymentRepo,
		gateway:     gs,
		uploader:    us,
		mailer:      ms,
	}
	s.ledgerService = service.NewLedgerService(userRepo)
	s.userService = service.NewUserService(userRepo, followRepo)
	s.blogService = service.NewBlogService(blogRepo, userRepo, s.ledgerService)
	s.commentService = service.NewCommentService(commentRepo, blogRepo, userRepo, s.ledgerService)
	s.paymentService = service.NewPaymentService(paymentRepo, userRepo, gs, cfg.RazorpayKeySecret)

	return &testEnv{server: s, db: db, mailer: ms, uploader: us, gateway: gs}
}

// newTestApp wires all routes onto a fresh Fiber app.
func (e *testEnv) newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	e.server.SetupRoutes(app)
	return app
}

// createUser persists a user with a bcrypt-hashed password and returns the
// user together with a valid token.
func (e *testEnv) createUser(t *testing.T, username, password string) (*models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:       username,
		Email:          username + "@example.com",
		Password:       string(hashed),
		Name:           username,
		Gender:         models.GenderOther,
		AvatarURL:      models.DefaultAvatarURL,
		Rewards:        models.DefaultRewards,
		TotalAiCredits: models.DefaultAiCredits,
	}
	require.NoError(t, e.db.Create(user).Error)

	token, err := e.server.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return user, token
}

// doJSON issues a JSON request against the app, optionally authenticated.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// decodeJSONList unmarshals a response body into a slice destination.
func decodeJSONList(resp *http.Response, dest any) error {
	return json.NewDecoder(resp.Body).Decode(dest)
}

// itoa renders a record ID for use in request paths.
func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// decodeBody unmarshals a response body into a map.
func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
