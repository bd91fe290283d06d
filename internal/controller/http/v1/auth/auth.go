package auth

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"vms/backend/foundation/web"
	"vms/backend/internal/auth"
	"vms/backend/internal/repository/postgres/user"
	"vms/backend/internal/service/otp"
)

const minPasswordLength = 6

var (
	errOTPUnavailable     = errors.New("one-time passwords are unavailable")
	errInvalidCredentials = errors.New("invalid email or password")
)

type Controller struct {
	user   User
	otp    OTPStore
	sender Sender
	auth   *auth.Auth
}

// NewController wires the auth endpoints. otp may be nil, in which case the
// OTP endpoints answer 503.
func NewController(user User, otp OTPStore, sender Sender, a *auth.Auth) *Controller {
	return &Controller{user: user, otp: otp, sender: sender, auth: a}
}

func (uc Controller) SignIn(c *web.Context) error {
	var data user.SignInRequest

	if err := c.BindFunc(&data, "Email", "Password"); err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.user.GetByEmail(c.Ctx, data.Email)
	if err != nil {
		if status := web.StatusOf(err); status == http.StatusNotFound || status == http.StatusUnauthorized {
			return c.RespondError(web.NewRequestError(errInvalidCredentials, http.StatusUnauthorized))
		}
		return c.RespondError(err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(detail.Password), []byte(data.Password)); err != nil {
		return c.RespondError(web.NewRequestError(errInvalidCredentials, http.StatusUnauthorized))
	}
	if !detail.IsActive {
		return c.RespondError(web.NewRequestError(errors.New("account is disabled"), http.StatusForbidden))
	}

	accessToken, refreshToken, err := uc.auth.GenToken(detail.ID, detail.Role)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data": map[string]string{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
			"role":          detail.Role,
		},
	}, http.StatusOK)
}

func (uc Controller) RefreshToken(c *web.Context) error {
	var data user.RefreshTokenRequest

	if err := c.BindFunc(&data, "RefreshToken"); err != nil {
		return c.RespondError(err)
	}

	claims, err := uc.auth.ValidateRefreshToken(data.RefreshToken)
	if err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
	}

	accessToken, refreshToken, err := uc.auth.GenToken(claims.UserId, claims.Role)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "generating new tokens"), http.StatusInternalServerError))
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data": map[string]string{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		},
	}, http.StatusOK)
}

func (uc Controller) Register(c *web.Context) error {
	var data user.RegisterRequest

	if err := c.BindFunc(&data, "Email", "Password", "FullName"); err != nil {
		return c.RespondError(err)
	}
	if !strings.Contains(data.Email, "@") {
		return c.RespondError(web.NewRequestError(errors.New("invalid email"), http.StatusBadRequest))
	}
	if len(data.Password) < minPasswordLength {
		return c.RespondError(web.NewRequestError(errors.Errorf("password must be at least %d characters", minPasswordLength), http.StatusBadRequest))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError))
	}
	data.HashedPassword = string(hash)

	response, err := uc.user.Register(c.Ctx, data)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusCreated)
}

func (uc Controller) RequestOTP(c *web.Context) error {
	var data user.OTPRequest

	if err := c.BindFunc(&data, "Email", "Purpose"); err != nil {
		return c.RespondError(err)
	}
	if uc.otp == nil {
		return c.RespondError(web.NewRequestError(errOTPUnavailable, http.StatusServiceUnavailable))
	}
	if !otp.ValidPurpose(data.Purpose) {
		return c.RespondError(web.NewRequestError(errors.Errorf("invalid purpose %q", data.Purpose), http.StatusBadRequest))
	}

	email := normalizeEmail(data.Email)
	if data.Purpose == otp.PurposeReset {
		if _, err := uc.user.GetByEmail(c.Ctx, email); err != nil {
			return c.RespondError(err)
		}
	}

	code, err := otp.Code()
	if err != nil {
		return c.RespondError(err)
	}
	if err := uc.otp.Save(c.Ctx, data.Purpose, email, code, otp.TTL); err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusServiceUnavailable))
	}
	if err := uc.sender.Send(c.Ctx, email, data.Purpose, code); err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "sending otp"), http.StatusServiceUnavailable))
	}

	return c.Respond(map[string]interface{}{
		"data":   map[string]interface{}{"expires_in": int(otp.TTL.Seconds())},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) VerifyOTP(c *web.Context) error {
	var data user.OTPVerifyRequest

	if err := c.BindFunc(&data, "Email", "Purpose", "Code"); err != nil {
		return c.RespondError(err)
	}
	if uc.otp == nil {
		return c.RespondError(web.NewRequestError(errOTPUnavailable, http.StatusServiceUnavailable))
	}

	ok, err := uc.otp.Verify(c.Ctx, data.Purpose, normalizeEmail(data.Email), strings.TrimSpace(data.Code), otp.TTL)
	if err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusServiceUnavailable))
	}
	if !ok {
		return c.RespondError(web.NewRequestError(errors.New("invalid or expired code"), http.StatusBadRequest))
	}

	return c.Respond(map[string]interface{}{
		"data":   map[string]bool{"verified": true},
		"status": true,
	}, http.StatusOK)
}

// ResetPassword sets a new password for an email that passed VerifyOTP with
// the reset purpose.
func (uc Controller) ResetPassword(c *web.Context) error {
	var data user.ResetPasswordRequest

	if err := c.BindFunc(&data, "Email", "Password"); err != nil {
		return c.RespondError(err)
	}
	if uc.otp == nil {
		return c.RespondError(web.NewRequestError(errOTPUnavailable, http.StatusServiceUnavailable))
	}
	if len(data.Password) < minPasswordLength {
		return c.RespondError(web.NewRequestError(errors.Errorf("password must be at least %d characters", minPasswordLength), http.StatusBadRequest))
	}

	email := normalizeEmail(data.Email)
	verified, err := uc.otp.ConsumeVerified(c.Ctx, otp.PurposeReset, email)
	if err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusServiceUnavailable))
	}
	if !verified {
		return c.RespondError(web.NewRequestError(errors.New("email is not verified"), http.StatusForbidden))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError))
	}
	if err := uc.user.UpdatePassword(c.Ctx, email, string(hash)); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
	}, http.StatusOK)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
