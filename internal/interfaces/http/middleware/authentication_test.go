package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/adminauth/internal/domain/models"
	"github.com/turtacn/adminauth/internal/domain/service"
	"github.com/turtacn/adminauth/internal/domain/service/mocks"
	"github.com/turtacn/adminauth/internal/infrastructure/crypto"
	"github.com/turtacn/adminauth/internal/infrastructure/monitoring"
	"github.com/turtacn/adminauth/pkg/constants"
	"github.com/turtacn/adminauth/pkg/errors"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeAdmins struct {
	mu      sync.Mutex
	records map[string]models.Principal
	err     error
	panics  bool
}

func (f *fakeAdmins) FindByIdentifier(_ context.Context, identifier string) (*models.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics {
		panic("store exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.records[identifier]
	if !ok {
		return nil, errors.ErrPrincipalNotFound
	}
	return &p, nil
}

func (f *fakeAdmins) Save(_ context.Context, p *models.Principal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[p.Identifier] = *p
	return nil
}

func (f *fakeAdmins) Exists(_ context.Context, identifier string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.records[identifier]
	return ok, nil
}

type outcomeRecorder struct {
	service.NoopMetrics
	mu        sync.Mutex
	outcomes  []string
	rejection []string
}

func (o *outcomeRecorder) RecordAuthentication(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *outcomeRecorder) RecordTokenRejected(code string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rejection = append(o.rejection, code)
}

type pipelineFixture struct {
	now     time.Time
	codec   *crypto.TokenCodec
	admins  *fakeAdmins
	metrics *outcomeRecorder
	logs    *observer.ObservedLogs
	engine  *gin.Engine
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &pipelineFixture{
		now:     time.Unix(1_700_000_000, 0),
		admins:  &fakeAdmins{records: map[string]models.Principal{}},
		metrics: &outcomeRecorder{},
	}
	clock := func() time.Time { return f.now }

	core, logs := observer.New(zapcore.DebugLevel)
	f.logs = logs
	log := monitoring.NewZapLoggerFromCore(core)

	codec, err := crypto.NewTokenCodec(testSecret, time.Hour, log, crypto.WithClock(clock))
	require.NoError(t, err)
	f.codec = codec

	auth := NewAuthenticator(codec, f.admins, service.NewTokenValidator(codec, clock), f.metrics, log)
	f.engine = gin.New()
	f.engine.Use(auth.Authenticate())
	f.engine.GET("/whoami", whoami)
	return f
}

func whoami(c *gin.Context) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"anonymous": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"identifier": identity.Identifier(), "authorities": identity.Authorities})
}

func (f *pipelineFixture) issue(t *testing.T, identifier string) string {
	t.Helper()
	token, err := f.codec.Issue(context.Background(), identifier)
	require.NoError(t, err)
	return token
}

func (f *pipelineFixture) get(header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set(constants.HeaderAuthorization, header)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *pipelineFixture) assertTokenNeverLogged(t *testing.T, token string) {
	t.Helper()
	for _, entry := range f.logs.All() {
		assert.NotContains(t, entry.Message, token)
		for _, v := range entry.ContextMap() {
			if s, ok := v.(string); ok {
				assert.NotContains(t, s, token)
			}
		}
	}
}

func TestAuthenticate_NoToken(t *testing.T) {
	f := newPipelineFixture(t)

	for _, header := range []string{"", "Basic dXNlcjpwYXNz", "bearer lowercase", "Bearer "} {
		w := f.get(header)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"anonymous":true}`, w.Body.String(), "header %q", header)
	}
	assert.Equal(t, []string{OutcomeNoToken, OutcomeNoToken, OutcomeNoToken, OutcomeNoToken}, f.metrics.outcomes)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	f := newPipelineFixture(t)
	f.admins.records["9999999999"] = models.Principal{Identifier: "9999999999", PasswordHash: "h", Role: "admin"}

	w := f.get("Bearer " + f.issue(t, "9999999999"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"identifier":"9999999999","authorities":["ROLE_ADMIN"]}`, w.Body.String())
	assert.Equal(t, []string{OutcomeAuthenticated}, f.metrics.outcomes)
}

func TestAuthenticate_RoleFallbackIsLogged(t *testing.T) {
	f := newPipelineFixture(t)
	f.admins.records["9999999999"] = models.Principal{Identifier: "9999999999", PasswordHash: "h"}

	w := f.get("Bearer " + f.issue(t, "9999999999"))
	assert.JSONEq(t, `{"identifier":"9999999999","authorities":["ROLE_ADMIN"]}`, w.Body.String())
	assert.Equal(t, 1, f.logs.FilterMessage("Admin record has no role, granting default authority").Len())
}

func TestAuthenticate_RejectedTokensStayAnonymous(t *testing.T) {
	f := newPipelineFixture(t)
	f.admins.records["9999999999"] = models.Principal{Identifier: "9999999999", Role: "ADMIN"}
	token := f.issue(t, "9999999999")

	other, err := crypto.NewTokenCodec("another-secret-another-secret-xx", time.Hour, nil, crypto.WithClock(func() time.Time { return f.now }))
	require.NoError(t, err)
	forged, err := other.Issue(context.Background(), "9999999999")
	require.NoError(t, err)

	w := f.get("Bearer " + forged)
	assert.JSONEq(t, `{"anonymous":true}`, w.Body.String())

	w = f.get("Bearer not-a-jwt")
	assert.JSONEq(t, `{"anonymous":true}`, w.Body.String())

	f.now = f.now.Add(time.Hour)
	w = f.get("Bearer " + token)
	assert.JSONEq(t, `{"anonymous":true}`, w.Body.String())

	assert.Equal(t, []string{OutcomeRejected, OutcomeRejected, OutcomeRejected}, f.metrics.outcomes)
	assert.Equal(t, []string{
		string(errors.CodeInvalidSignature),
		string(errors.CodeMalformedToken),
		string(errors.CodeExpiredToken),
	}, f.metrics.rejection)

	warnings := f.logs.FilterMessage("Bearer token rejected").All()
	require.Len(t, warnings, 3)
	assert.Equal(t, "/whoami", warnings[0].ContextMap()["path"])
	assert.Equal(t, string(errors.CodeInvalidSignature), warnings[0].ContextMap()["reason"])
	f.assertTokenNeverLogged(t, token)
	f.assertTokenNeverLogged(t, forged)
}

func TestAuthenticate_UnknownPrincipal(t *testing.T) {
	f := newPipelineFixture(t)

	w := f.get("Bearer " + f.issue(t, "1111111111"))
	assert.JSONEq(t, `{"anonymous":true}`, w.Body.String())
	assert.Equal(t, []string{string(errors.CodePrincipalNotFound)}, f.metrics.rejection)
}

func TestAuthenticate_StoreFailureAndPanicStayAnonymous(t *testing.T) {
	f := newPipelineFixture(t)
	token := f.issue(t, "9999999999")

	f.admins.err = errors.ErrDatabaseConnection
	w := f.get("Bearer " + token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"anonymous":true}`, w.Body.String())

	f.admins.err = nil
	f.admins.panics = true
	w = f.get("Bearer " + token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"anonymous":true}`, w.Body.String())

	assert.Equal(t, []string{OutcomeRejected, OutcomeRejected}, f.metrics.outcomes)
}

func TestAuthenticate_ExistingIdentityIsKept(t *testing.T) {
	gin.SetMode(gin.TestMode)
	codec := new(mocks.MockTokenCodec)
	auth := NewAuthenticator(codec, &fakeAdmins{records: map[string]models.Principal{}}, service.NewTokenValidator(codec, nil), nil, nil)

	existing := models.NewAuthenticatedIdentity(models.Principal{Identifier: "preset", Role: "AUDITOR"}, time.Now().Add(time.Hour))
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(models.WithIdentity(c.Request.Context(), existing))
		c.Next()
	})
	engine.Use(auth.Authenticate())
	engine.GET("/whoami", whoami)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(constants.HeaderAuthorization, "Bearer something")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.JSONEq(t, `{"identifier":"preset","authorities":["ROLE_AUDITOR"]}`, w.Body.String())
	codec.AssertNotCalled(t, "Parse", mock.Anything, mock.Anything)
}
