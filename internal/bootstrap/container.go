package bootstrap

import (
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/Mohd-umair/repmeup-frontend/internal/apiclient"
	"github.com/Mohd-umair/repmeup-frontend/internal/config"
	"github.com/Mohd-umair/repmeup-frontend/internal/pkg/logger"
	"github.com/Mohd-umair/repmeup-frontend/internal/realtime"
	"github.com/Mohd-umair/repmeup-frontend/internal/service"
	"github.com/Mohd-umair/repmeup-frontend/internal/storage"
)

// Container owns every process-wide singleton: store, API client, realtime
// channel and the orchestrator services. Construction order is explicit;
// there is no hidden registry.
type Container struct {
	Logger logger.ILogger
	Store  storage.Store
	API    *apiclient.Client

	Realtime *realtime.Client

	AuthService          service.IAuthService
	InboxService         service.IInboxService
	KnowledgeBaseService service.IKnowledgeBaseService
	ConsumerService      service.IConsumerService
}

func NewContainer(cfg *config.Config, navigator service.Navigator) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	store := storage.NewFileStore(cfg.App.SessionPath)

	// The 401 hook is late-bound: the auth service needs the API client,
	// whose transport needs the hook.
	var authService service.IAuthService
	transport := apiclient.Chain(http.DefaultTransport,
		apiclient.TracingInterceptor(),
		apiclient.LoggingInterceptor(sysLogger),
		apiclient.AuthInterceptor(store, func() {
			if authService != nil {
				authService.HandleUnauthorized()
			}
		}),
	)

	api := apiclient.New(
		cfg.App.APIBaseURL,
		time.Duration(cfg.App.RequestTimeout)*time.Second,
		transport,
	)

	rtLogger := logger.NewIsolatedLogger("logs/realtime.log")
	channel := realtime.New(cfg.App.SocketURL, store, rtLogger)

	authService = service.NewAuthService(api, store, navigator, sysLogger)
	inboxService := service.NewInboxService(api, sysLogger)
	kbService := service.NewKnowledgeBaseService(api)

	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	consumerService := service.NewConsumerService(pubSub, channel, inboxService, sysLogger)

	return &Container{
		Logger:               sysLogger,
		Store:                store,
		API:                  api,
		Realtime:             channel,
		AuthService:          authService,
		InboxService:         inboxService,
		KnowledgeBaseService: kbService,
		ConsumerService:      consumerService,
	}
}
