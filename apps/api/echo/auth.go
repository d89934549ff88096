package echoapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/user"
)

const (
	contextTokenKey = "userToken"
	contextUserKey  = "user"
	authScheme      = "Bearer"
)

var signingMethod = jwt.SigningMethodHS256

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Email        string `json:"email,omitempty"`
	Name         string `json:"nome,omitempty"`
	Rank         string `json:"patente,omitempty"`
}

func (c Claims) userID() (int, error) {
	return strconv.Atoi(c.Subject)
}

type authenticator struct {
	appName      string
	key          []byte
	expiry       time.Duration
	refreshLimit time.Duration
	now          func() time.Time
}

func newAuthenticator(conf *core.Config) *authenticator {
	return &authenticator{
		appName:      conf.AppName,
		key:          []byte(conf.SecretKey),
		expiry:       conf.Server.JWTExpirationDelta,
		refreshLimit: conf.Server.JWTRefreshExpirationDelta,
		now:          time.Now,
	}
}

// claims builds the claims of usr; origIat is kept across refreshes.
func (a *authenticator) claims(usr user.User, origIat ...int64) *Claims {
	now := a.now()

	oriat := now.Unix()
	if len(origIat) > 0 {
		oriat = origIat[0]
	}
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.appName,
			Subject:   strconv.Itoa(usr.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		OrigIssuedAt: oriat,
		Email:        usr.Email,
		Name:         usr.Name,
		Rank:         usr.Rank,
	}
}

// generateToken generates a signed JWT token string representing the user Claims.
func (a *authenticator) generateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(signingMethod, claims)
	ss, err := token.SignedString(a.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (a *authenticator) parseToken(raw string) (*jwt.Token, error) {
	keyFunc := func(*jwt.Token) (interface{}, error) { return a.key, nil }
	return jwt.ParseWithClaims(raw, new(Claims), keyFunc, jwt.WithValidMethods([]string{signingMethod.Alg()}))
}

// middleware requires a valid "Authorization: Bearer <token>" header.
func (a *authenticator) middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if len(header) <= len(authScheme)+1 || !strings.EqualFold(header[:len(authScheme)], authScheme) {
				return errUnauthorized
			}
			token, err := a.parseToken(strings.TrimSpace(header[len(authScheme)+1:]))
			if err != nil || !token.Valid {
				return errInvalidToken
			}
			ctx.Set(contextTokenKey, token)
			return next(ctx)
		}
	}
}

func (a *authenticator) contextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func (a *authenticator) contextUser(ctx echo.Context, svc *user.Service, claims Claims) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	id, err := claims.userID()
	if err != nil {
		return user.User{}, errInvalidToken
	}
	usr, err := svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, errInvalidToken
		}
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}

// refreshToken issues a new token as long as the first one was issued less than refreshLimit ago.
func (a *authenticator) refreshToken(ctx echo.Context, svc *user.Service) (string, error) {
	claims, err := a.contextClaims(ctx)
	if err != nil {
		return "", err
	}
	usr, err := a.contextUser(ctx, svc, claims)
	if err != nil {
		return "", err
	}

	// check if user is still active
	if !usr.IsActive {
		return "", errAccountInactive
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(a.refreshLimit)
	if a.now().After(expTime) {
		return "", errRefreshExpired
	}

	token, err := a.generateToken(a.claims(usr, claims.OrigIssuedAt))
	return token, errors.Wrap(err, "generating token")
}

type authApi struct {
	auth     *authenticator
	svc      *user.Service
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, auth *authenticator, deps Deps) {
	api := authApi{auth: auth, svc: deps.UserSvc, validate: deps.Validate}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/token-refresh", api.refreshToken, auth.middleware())
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := api.auth.generateToken(api.auth.claims(usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: &usr})
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	token, err := api.auth.refreshToken(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"senha" validate:"required"`
	}

	LoginResponse struct {
		Token string     `json:"token"`
		User  *user.User `json:"usuario,omitempty"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}
