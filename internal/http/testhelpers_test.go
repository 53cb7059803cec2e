package httpx

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/predictlab/forecast-ui-api/config"
	"github.com/predictlab/forecast-ui-api/internal/adapters/authroles"
	domainauth "github.com/predictlab/forecast-ui-api/internal/domain/auth"
	"github.com/predictlab/forecast-ui-api/internal/mocks"
	mockauth "github.com/predictlab/forecast-ui-api/internal/mocks/auth"
	"github.com/predictlab/forecast-ui-api/internal/policy"
	"github.com/predictlab/forecast-ui-api/internal/service"
	"github.com/predictlab/forecast-ui-api/internal/session"
)

// routerFixture wires a full router over in-memory stores and mock
// repositories.
type routerFixture struct {
	handler  http.Handler
	provider *mockauth.MockIdentityProvider
	feed     *mockauth.IdentityFeed
	sessions *mockauth.MemorySessionStore
	roles    *mockauth.MemoryRoleStore

	predictionRepo *mocks.MockPredictionRepository
	sourceFileRepo *mocks.MockSourceFileRepository
	subscriptions  *mocks.MockSubscriptionRepository
}

func newRouterFixture(t *testing.T, adminEmails ...string) *routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &routerFixture{
		provider:       mockauth.NewMockIdentityProvider(),
		feed:           mockauth.NewIdentityFeed(),
		sessions:       mockauth.NewMemorySessionStore(),
		roles:          mockauth.NewMemoryRoleStore(),
		predictionRepo: mocks.NewMockPredictionRepository(ctrl),
		sourceFileRepo: mocks.NewMockSourceFileRepository(ctrl),
		subscriptions:  mocks.NewMockSubscriptionRepository(ctrl),
	}

	resolver := service.NewRoleResolverService(service.RoleResolverOptions{
		Store:  f.roles,
		Config: service.RoleResolverConfig{CacheSize: 16, CacheTTL: time.Minute},
	})

	manager, err := session.NewManager(session.ManagerOptions{
		Providers: session.Providers{
			Identity:  f.provider,
			Events:    f.feed,
			Federated: mockauth.NewMockFederatedProvider(),
		},
		Stores: session.Stores{Sessions: f.sessions, Roles: f.roles},
		Roles: session.RoleOptions{
			Assigner: authroles.AllowlistRoleMapper{AdminEmails: adminEmails},
			Resolver: resolver,
		},
	})
	require.NoError(t, err)

	engine, err := policy.NewEngine(policy.EngineOptions{
		Resolver:         resolver,
		ServiceAccountID: "svc-ingest",
	})
	require.NoError(t, err)

	httpCfg := config.HTTPConfig{}
	httpCfg.Sanitize()

	f.handler = NewRouter(RouterServices{
		Manager:       manager,
		Sessions:      f.sessions,
		Roles:         f.roles,
		Policy:        engine,
		Predictions:   service.NewPredictionService(service.PredictionServiceOptions{Repo: f.predictionRepo, SourceFiles: f.sourceFileRepo}),
		SourceFiles:   service.NewSourceFileService(service.SourceFileServiceOptions{Repo: f.sourceFileRepo}),
		Subscriptions: service.NewSubscriptionService(service.SubscriptionServiceOptions{Repo: f.subscriptions}),
		HTTP:          httpCfg,
	})
	return f
}

func timeInFuture() time.Time {
	return time.Now().Add(time.Hour)
}

// addSession seeds a session record and a matching role document, returning
// the cookie a signed-in client would carry.
func (f *routerFixture) addSession(t *testing.T, userID string, role domainauth.Role) *http.Cookie {
	t.Helper()
	token := "tok-" + userID
	err := f.sessions.Save(context.Background(), domainauth.Session{
		Token:     token,
		UserID:    userID,
		Email:     userID + "@example.com",
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, f.roles.CreateDocument(context.Background(), domainauth.RoleDocument{
		UserID: userID,
		Email:  userID + "@example.com",
		Role:   role,
	}))
	return &http.Cookie{Name: domainauth.SessionCookieName, Value: token}
}
