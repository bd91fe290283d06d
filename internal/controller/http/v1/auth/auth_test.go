package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"vms/backend/foundation/web"
	"vms/backend/internal/auth"
	"vms/backend/internal/entity"
	"vms/backend/internal/repository/postgres/user"
	"vms/backend/internal/service/otp"
)

type memoryUsers struct {
	users      map[string]*entity.User
	notFound   int
	registered []user.RegisterRequest
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (entity.User, error) {
	u, ok := m.users[strings.ToLower(email)]
	if !ok {
		status := http.StatusUnauthorized
		if m.notFound != 0 {
			status = m.notFound
		}
		return entity.User{}, web.NewRequestError(errors.New("user not found"), status)
	}
	return *u, nil
}

func (m *memoryUsers) Register(_ context.Context, request user.RegisterRequest) (user.RegisterResponse, error) {
	m.registered = append(m.registered, request)
	return user.RegisterResponse{UserID: 2, VendorID: 1, Email: request.Email, Status: string(entity.StatusPending)}, nil
}

func (m *memoryUsers) UpdatePassword(_ context.Context, email, hashedPassword string) error {
	m.users[email].Password = hashedPassword
	return nil
}

type memoryOTP struct {
	codes    map[string]string
	verified map[string]bool
}

func (m *memoryOTP) Save(_ context.Context, purpose, identifier, code string, _ time.Duration) error {
	m.codes[purpose+":"+identifier] = code
	return nil
}

func (m *memoryOTP) Verify(_ context.Context, purpose, identifier, code string, _ time.Duration) (bool, error) {
	key := purpose + ":" + identifier
	if stored, ok := m.codes[key]; !ok || stored != code {
		return false, nil
	}
	delete(m.codes, key)
	m.verified[key] = true
	return true, nil
}

func (m *memoryOTP) ConsumeVerified(_ context.Context, purpose, identifier string) (bool, error) {
	key := purpose + ":" + identifier
	ok := m.verified[key]
	delete(m.verified, key)
	return ok, nil
}

type captureSender struct {
	last string
}

func (s *captureSender) Send(_ context.Context, _, _, code string) error {
	s.last = code
	return nil
}

type AuthControllerSuite struct {
	suite.Suite
	users  *memoryUsers
	otp    *memoryOTP
	sender *captureSender
	auth   *auth.Auth
	app    *web.App
}

func TestAuthControllerSuite(t *testing.T) {
	suite.Run(t, new(AuthControllerSuite))
}

func (s *AuthControllerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	s.Require().NoError(err)

	s.users = &memoryUsers{users: map[string]*entity.User{
		"jane@acme.test":   {BasicEntity: entity.BasicEntity{ID: 2}, Email: "jane@acme.test", Password: string(hash), Role: auth.RoleVendor, IsActive: true},
		"frozen@acme.test": {BasicEntity: entity.BasicEntity{ID: 3}, Email: "frozen@acme.test", Password: string(hash), Role: auth.RoleVendor},
	}}
	s.otp = &memoryOTP{codes: map[string]string{}, verified: map[string]bool{}}
	s.sender = &captureSender{}
	s.auth, err = auth.New("test-secret", time.Minute, time.Hour)
	s.Require().NoError(err)

	s.app = s.newApp(NewController(s.users, s.otp, s.sender, s.auth))
}

func (s *AuthControllerSuite) newApp(uc *Controller) *web.App {
	app := web.NewApp()
	app.Post("/sign-in", uc.SignIn)
	app.Post("/refresh-token", uc.RefreshToken)
	app.Post("/register", uc.Register)
	app.Post("/otp/request", uc.RequestOTP)
	app.Post("/otp/verify", uc.VerifyOTP)
	app.Post("/reset-password", uc.ResetPassword)
	return app
}

func (s *AuthControllerSuite) post(app *web.App, path, body string) (int, map[string]interface{}) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)

	var out map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out))
	return w.Code, out
}

func (s *AuthControllerSuite) TestSignIn() {
	code, body := s.post(s.app, "/sign-in", `{"email":"jane@acme.test","password":"secret1"}`)
	s.Equal(http.StatusOK, code)
	data := body["data"].(map[string]interface{})
	s.Equal(auth.RoleVendor, data["role"])

	claims, err := s.auth.ValidateToken(data["access_token"].(string))
	s.Require().NoError(err)
	s.Equal(2, claims.UserId)

	code, body = s.post(s.app, "/refresh-token", `{"refresh_token":"`+data["refresh_token"].(string)+`"}`)
	s.Equal(http.StatusOK, code)
	s.NotEmpty(body["data"].(map[string]interface{})["access_token"])

	code, _ = s.post(s.app, "/refresh-token", `{"refresh_token":"`+data["access_token"].(string)+`"}`)
	s.Equal(http.StatusUnauthorized, code)
}

func (s *AuthControllerSuite) TestSignInRejects() {
	code, wrongPassword := s.post(s.app, "/sign-in", `{"email":"jane@acme.test","password":"wrong"}`)
	s.Equal(http.StatusUnauthorized, code)

	code, unknownEmail := s.post(s.app, "/sign-in", `{"email":"nobody@acme.test","password":"secret1"}`)
	s.Equal(http.StatusUnauthorized, code)
	s.Equal(wrongPassword["error"], unknownEmail["error"])

	s.users.notFound = http.StatusNotFound
	code, missing := s.post(s.app, "/sign-in", `{"email":"nobody@acme.test","password":"secret1"}`)
	s.Equal(http.StatusUnauthorized, code)
	s.Equal(wrongPassword["error"], missing["error"])
	s.users.notFound = 0

	code, _ = s.post(s.app, "/sign-in", `{"email":"frozen@acme.test","password":"secret1"}`)
	s.Equal(http.StatusForbidden, code)

	code, _ = s.post(s.app, "/sign-in", `{"email":"jane@acme.test"}`)
	s.Equal(http.StatusBadRequest, code)
}

func (s *AuthControllerSuite) TestRegister() {
	code, _ := s.post(s.app, "/register", `{"email":"new@acme.test","password":"123","full_name":"New"}`)
	s.Equal(http.StatusBadRequest, code)

	code, _ = s.post(s.app, "/register", `{"email":"not-an-email","password":"123456","full_name":"New"}`)
	s.Equal(http.StatusBadRequest, code)

	code, body := s.post(s.app, "/register", `{"email":"new@acme.test","password":"123456","full_name":"New"}`)
	s.Equal(http.StatusCreated, code)
	s.Equal(string(entity.StatusPending), body["data"].(map[string]interface{})["verification_status"])

	s.Require().Len(s.users.registered, 1)
	stored := s.users.registered[0]
	s.NoError(bcrypt.CompareHashAndPassword([]byte(stored.HashedPassword), []byte("123456")))
}

func (s *AuthControllerSuite) TestPasswordReset() {
	code, _ := s.post(s.app, "/reset-password", `{"email":"jane@acme.test","password":"newpass"}`)
	s.Equal(http.StatusForbidden, code)

	code, body := s.post(s.app, "/otp/request", `{"email":" Jane@Acme.test ","purpose":"reset"}`)
	s.Equal(http.StatusOK, code)
	s.Equal(float64(otp.TTL/time.Second), body["data"].(map[string]interface{})["expires_in"])
	s.Len(s.sender.last, 4)

	code, _ = s.post(s.app, "/otp/verify", `{"email":"jane@acme.test","purpose":"reset","code":"xxxx"}`)
	s.Equal(http.StatusBadRequest, code)

	code, _ = s.post(s.app, "/otp/verify", `{"email":"jane@acme.test","purpose":"reset","code":"`+s.sender.last+`"}`)
	s.Equal(http.StatusOK, code)

	code, _ = s.post(s.app, "/reset-password", `{"email":"jane@acme.test","password":"newpass"}`)
	s.Equal(http.StatusOK, code)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(s.users.users["jane@acme.test"].Password), []byte("newpass")))

	// the verification is single use
	code, _ = s.post(s.app, "/reset-password", `{"email":"jane@acme.test","password":"another"}`)
	s.Equal(http.StatusForbidden, code)
}

func (s *AuthControllerSuite) TestRequestOTPValidation() {
	code, _ := s.post(s.app, "/otp/request", `{"email":"jane@acme.test","purpose":"login"}`)
	s.Equal(http.StatusBadRequest, code)

	code, _ = s.post(s.app, "/otp/request", `{"email":"nobody@acme.test","purpose":"reset"}`)
	s.Equal(http.StatusUnauthorized, code)
}

func (s *AuthControllerSuite) TestOTPWithoutStore() {
	app := s.newApp(NewController(s.users, nil, s.sender, s.auth))

	code, _ := s.post(app, "/otp/request", `{"email":"jane@acme.test","purpose":"register"}`)
	s.Equal(http.StatusServiceUnavailable, code)

	code, _ = s.post(app, "/reset-password", `{"email":"jane@acme.test","password":"newpass"}`)
	s.Equal(http.StatusServiceUnavailable, code)
}
