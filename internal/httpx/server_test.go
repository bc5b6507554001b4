package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/upload"
)

type fakeUsers struct {
	mu sync.Mutex
	m  map[string]auth.User
}

func (f *fakeUsers) Create(_ context.Context, u auth.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.m[u.Username]; ok {
		return auth.ErrUsernameTaken
	}
	f.m[u.Username] = u
	return nil
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (auth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.m[username]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) TouchLastLogin(context.Context, uuid.UUID, time.Time) error { return nil }

type fakeSessions struct {
	mu sync.Mutex
	m  map[string]auth.Session
}

func (f *fakeSessions) Put(_ context.Context, s auth.Session, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[s.Token] = s
	return nil
}

func (f *fakeSessions) Get(_ context.Context, token string) (auth.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.m[token]
	if !ok {
		return auth.Session{}, auth.ErrUnauthenticated
	}
	return s, nil
}

func (f *fakeSessions) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.m, token)
	return nil
}

type nopPublisher struct{ n int }

func (p *nopPublisher) Publish([]byte, []byte, ...kafkago.Header) bool { p.n++; return true }

type ServerTestSuite struct {
	suite.Suite
	store      *catalog.MemStore
	publisher  *nopPublisher
	router     *chi.Mux
	authSvc    *auth.Service
	adminToken string
	userToken  string
	uploadDir  string
}

func (s *ServerTestSuite) SetupTest() {
	log := zerolog.Nop()
	s.store = catalog.NewMemStore(catalog.Product{
		ID: "KC-1", Title: "Linen Shirt", ShortDescription: "Light", Category: catalog.CategoryMen,
		Price: decimal.NewFromInt(60), Currency: catalog.CurrencyCedi, InStock: true, IsActive: true,
		Images: []string{"/uploads/a.jpg"}, CreatedAt: time.Now(),
	})
	s.publisher = &nopPublisher{}
	s.uploadDir = s.T().TempDir()
	uploads, err := upload.NewStore(s.uploadDir)
	s.Require().NoError(err)

	s.authSvc = &auth.Service{
		Users:      &fakeUsers{m: map[string]auth.User{}},
		Sessions:   &fakeSessions{m: map[string]auth.Session{}},
		Log:        log,
		BcryptCost: bcrypt.MinCost,
	}
	in := auth.RegisterInput{Username: "boss", Email: "boss@example.com", Password: "secret1", ConfirmPassword: "secret1"}
	_, err = s.authSvc.CreateUser(context.Background(), in, auth.RoleAdmin)
	s.Require().NoError(err)
	sess, err := s.authSvc.Login(context.Background(), "boss", "secret1")
	s.Require().NoError(err)
	s.adminToken = sess.Token
	sess, err = s.authSvc.Register(context.Background(), auth.RegisterInput{
		Username: "shopper", Email: "s@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	s.Require().NoError(err)
	s.userToken = sess.Token

	rs := Responder{Log: log}
	s.router = NewRouter(log, []string{"*"})
	API{
		Catalog:   &CatalogHandler{Responder: rs, Query: catalog.NewQueryService(s.store, "https://shop.example.com")},
		Orders:    &OrdersHandler{Intake: &orders.Intake{Publisher: s.publisher, Log: log}},
		Admin:     &AdminHandler{Responder: rs, Admin: catalog.NewAdminService(s.store, log), Uploads: uploads},
		Auth:      &AuthHandler{Responder: rs, Auth: s.authSvc},
		UploadDir: s.uploadDir,
	}.Mount(s.router)
}

func (s *ServerTestSuite) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func productForm(s *ServerTestSuite, fieldsIn map[string]string, images int) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fieldsIn {
		s.Require().NoError(mw.WriteField(k, v))
	}
	for i := 0; i < images; i++ {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="images"; filename="p.png"`)
		h.Set("Content-Type", "image/png")
		w, err := mw.CreatePart(h)
		s.Require().NoError(err)
		_, _ = w.Write([]byte("png"))
	}
	s.Require().NoError(mw.Close())
	return &buf, mw.FormDataContentType()
}

func (s *ServerTestSuite) TestPublicProducts() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/products?category=Men", nil), "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var ps []map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &ps))
	s.Require().Len(ps, 1)
	s.Equal("infinite", ps[0]["stock"])
	s.Equal([]any{"https://shop.example.com/uploads/a.jpg"}, ps[0]["images"])

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/products?category=Women", nil), "")
	s.JSONEq(`[]`, rec.Body.String())

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/products/nope", nil), "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.JSONEq(`{"error":"Product not found"}`, rec.Body.String())
}

func (s *ServerTestSuite) TestOrderIntake() {
	rec := s.do(httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{nope`)), "")
	s.Equal(http.StatusBadRequest, rec.Code)

	body := `{"order_id":"1","customer":{"name":"Ama","phone":"1","address":"Accra"},"items":[{"product_id":"KC-1","price":60,"quantity":1}],"total":60}`
	rec = s.do(httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body)), "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var ack orders.Ack
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &ack))
	s.True(ack.Success)
	s.Equal(orders.AckMessage, ack.Message)
	s.Equal(1, s.publisher.n)
}

func (s *ServerTestSuite) TestAdminRequiresAdminSession() {
	s.Equal(http.StatusUnauthorized, s.do(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil), "").Code)
	s.Equal(http.StatusForbidden, s.do(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil), s.userToken).Code)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil), s.adminToken)
	s.Require().Equal(http.StatusOK, rec.Code)
	var st catalog.Stats
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &st))
	s.Equal(1, st.TotalProducts)
}

func (s *ServerTestSuite) TestAdminProductLifecycle() {
	fieldsIn := map[string]string{
		"id": "KC-2", "title": "Wrap Dress", "shortDescription": "Flowy",
		"price": "80", "category": "Women", "tags": "summer, silk",
	}
	body, ct := productForm(s, fieldsIn, 2)
	req := httptest.NewRequest(http.MethodPost, "/admin/products", body)
	req.Header.Set("Content-Type", ct)
	rec := s.do(req, s.adminToken)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var out catalog.Outcome
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	s.Require().Len(out.Product.Images, 2)
	img := out.Product.Images[0]
	s.True(strings.HasPrefix(img, "/uploads/images-"))

	rec = s.do(httptest.NewRequest(http.MethodGet, img, nil), "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("png", rec.Body.String())

	body, ct = productForm(s, fieldsIn, 0)
	req = httptest.NewRequest(http.MethodPost, "/admin/products", body)
	req.Header.Set("Content-Type", ct)
	s.Equal(http.StatusConflict, s.do(req, s.adminToken).Code)

	body, ct = productForm(s, map[string]string{"id": "KC-3", "price": "x"}, 0)
	req = httptest.NewRequest(http.MethodPost, "/admin/products", body)
	req.Header.Set("Content-Type", ct)
	rec = s.do(req, s.adminToken)
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Contains(rec.Body.String(), "Title is required")

	upd := map[string]string{"title": "Wrap Dress II", "shortDescription": "Flowy", "price": "75", "category": "Women"}
	body, ct = productForm(s, upd, 0)
	req = httptest.NewRequest(http.MethodPut, "/admin/products/KC-2", body)
	req.Header.Set("Content-Type", ct)
	rec = s.do(req, s.adminToken)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	s.Equal(img, out.Product.Images[0])

	body, ct = productForm(s, upd, 0)
	req = httptest.NewRequest(http.MethodPut, "/admin/products/missing", body)
	req.Header.Set("Content-Type", ct)
	s.Equal(http.StatusNotFound, s.do(req, s.adminToken).Code)

	s.Equal(http.StatusOK, s.do(httptest.NewRequest(http.MethodDelete, "/admin/products/KC-2", nil), s.adminToken).Code)
	s.Equal(http.StatusOK, s.do(httptest.NewRequest(http.MethodDelete, "/admin/products/KC-2", nil), s.adminToken).Code)
	s.Equal(http.StatusNotFound, s.do(httptest.NewRequest(http.MethodDelete, "/admin/products/missing", nil), s.adminToken).Code)
	s.Equal(http.StatusNotFound, s.do(httptest.NewRequest(http.MethodGet, "/api/products/KC-2", nil), "").Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/admin/products/KC-2", nil), s.adminToken)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *ServerTestSuite) TestAdminRejectsNonImageUpload() {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("id", "KC-9")
	w, _ := mw.CreateFormFile("images", "notes.txt")
	_, _ = w.Write([]byte("hello"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/products", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := s.do(req, s.adminToken)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.JSONEq(`{"error":"Only image files are allowed"}`, rec.Body.String())
}

func (s *ServerTestSuite) TestAuthFlow() {
	rec := s.do(httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"boss","password":"bad"}`)), "")
	s.Equal(http.StatusBadRequest, rec.Code, "missing content type falls back to form parsing")

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"boss","password":"bad"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = s.do(req, "")
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.JSONEq(`{"error":"Invalid username or password"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("username=boss&password=secret1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = s.do(req, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	s.Require().NotEmpty(cookies)
	s.Equal(auth.CookieName, cookies[0].Name)

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(cookies[0])
	rec = s.do(req, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"role":"admin"`)

	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(cookies[0])
	s.Equal(http.StatusOK, s.do(req, "").Code)

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(cookies[0])
	s.Equal(http.StatusUnauthorized, s.do(req, "").Code)

	req = httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"username":"boss","email":"x@example.com","password":"secret1","confirmPassword":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	s.Equal(http.StatusConflict, s.do(req, "").Code)
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func TestLoggerRecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	h := Logger(zerolog.New(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), `"status":500`)
}

func TestResponderDetailOnlyInDevelopment(t *testing.T) {
	cause := errors.New("pool exhausted")
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rec := httptest.NewRecorder()
	Responder{Log: zerolog.Nop()}.internal(rec, req, "Failed to load products", cause)
	assert.JSONEq(t, `{"error":"Failed to load products"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Responder{Log: zerolog.Nop(), Dev: true}.internal(rec, req, "Failed to load products", cause)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to load products","detail":"pool exhausted"}`, rec.Body.String())
}
