package main

import (
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"remindshare/api"
	"remindshare/constants"
	"remindshare/migrations"
	"remindshare/notifications"
	"remindshare/routes/auth"
	"remindshare/routes/diagnostics"
	notifroutes "remindshare/routes/notifications"
	"remindshare/routes/reminders"
	"remindshare/routes/shares"
	"remindshare/sharing"
	"remindshare/state"
	"remindshare/store"

	"github.com/cloudflare/tableflip"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/zapchi"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type apiRouter interface {
	Routes(r *chi.Mux)
	Tag() (string, string)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// limit body to 10mb
		r.Body = http.MaxBytesReader(w, r.Body, 10*1024*1024)

		if strings.HasPrefix(r.Header.Get("Origin"), "localhost:") || r.Header.Get("Origin") == state.Config.Sites.Frontend {
			w.Header().Set("Access-Control-Allow-Origin", r.Header.Get("Origin"))
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE")

		if r.Method == "OPTIONS" {
			w.Write([]byte{})
			return
		}

		w.Header().Set("Content-Type", "application/json")

		next.ServeHTTP(w, r)
	})
}

func main() {
	state.Setup()

	err := migrations.Migrate(state.Context, state.Pool)

	if err != nil {
		panic(err)
	}

	api.Setup()

	sharing.Setup(sharing.State{
		Store:    store.NewPostgres(state.Pool),
		Notifier: notifications.Notifier{},
		Logger:   state.Logger,
	})

	notifications.Setup()

	docs.DocsSetupData = &docs.SetupData{
		URL:         state.Config.Sites.API.Parse(),
		ErrorStruct: api.DefaultResponder{}.New("", nil),
		Info: docs.Info{
			Title:       "Remindshare API",
			Version:     "1.0",
			Description: "Reminder sharing API. For questions or issues, open a ticket on our site.",
			TermsOfService: "https://remindshare.app/terms",
			Contact: docs.Contact{
				Name:  "Remindshare",
				URL:   state.Config.Sites.Frontend,
				Email: state.Config.Notifications.Subscriber,
			},
			License: docs.License{
				Name: "AGPL3",
				URL:  "https://opensource.org/licenses/AGPL3",
			},
		},
	}

	docs.Setup()
	docs.AddSecuritySchema("User", "Authorization", "Requires a user token. Must be prefixed with `User `")

	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer,
		middleware.RealIP,
		middleware.CleanPath,
		corsMiddleware,
		zapchi.Logger(state.Logger, "api"),
		middleware.Timeout(30*time.Second),
	)

	routers := []apiRouter{
		// Use same order as routes folder
		auth.Router{},
		diagnostics.Router{},
		notifroutes.Router{},
		reminders.Router{},
		shares.Router{},
	}

	for _, router := range routers {
		name, desc := router.Tag()
		if name != "" {
			docs.AddTag(name, desc)
		} else {
			panic("Router tag name cannot be empty")
		}

		router.Routes(r)
	}

	// Load openapi here to avoid large marshalling in every request
	openapi, err := json.Marshal(docs.GetSchema())

	if err != nil {
		panic(err)
	}

	r.Get("/openapi", func(w http.ResponseWriter, r *http.Request) {
		w.Write(openapi)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(constants.NotFoundPage))
	})

	// Graceful restarts without dropping connections
	upg, err := tableflip.New(tableflip.Options{})

	if err != nil {
		panic(err)
	}

	defer upg.Stop()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGHUP)
		for range sig {
			state.Logger.Info("Received SIGHUP, upgrading")
			err := upg.Upgrade()

			if err != nil {
				state.Logger.Error("Upgrade failed", zap.Error(err))
			}
		}
	}()

	ln, err := upg.Listen("tcp", state.Config.Meta.Port.Parse())

	if err != nil {
		state.Logger.Fatal("Error binding to socket", zap.Error(err))
	}

	defer ln.Close()

	server := http.Server{
		ReadTimeout: 30 * time.Second,
		Handler:     r,
	}

	go func() {
		err := server.Serve(ln)

		if err != http.ErrServerClosed {
			state.Logger.Error("Server failed", zap.Error(err))
		}
	}()

	if err := upg.Ready(); err != nil {
		panic(err)
	}

	<-upg.Exit()
}
