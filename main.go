package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"obiabedidi/auth"
	"obiabedidi/catalog"
	"obiabedidi/config"
	"obiabedidi/db"
	"obiabedidi/imagehost"
	"obiabedidi/live"
	"obiabedidi/logging"
	"obiabedidi/metrics"
	"obiabedidi/middleware"
	"obiabedidi/rdx"
	"obiabedidi/recipes"
	"obiabedidi/routes"
	"obiabedidi/storage"
	"obiabedidi/video"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"github.com/thejerf/suture/v4"
)

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found; using system environment")
	}

	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped cleanly")
}

func run(ctx context.Context, cfg *config.Config) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(reg)

	supervisor := suture.New("obiabedidi", suture.Spec{
		EventHook: func(e suture.Event) {
			log.Warn().Str("event", e.String()).Msg("supervisor")
		},
		Timeout: cfg.Server.ShutdownTimeout,
	})

	var (
		store db.RecipeStore
		users db.UserStore
	)
	if cfg.Mongo.URI != "" {
		mongo, err := db.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mongo.Close(closeCtx); err != nil {
				log.Warn().Err(err).Msg("closing mongo")
			}
		}()
		store = db.NewMongoStore(mongo.RecipesCollection)
		users = db.NewMongoUserStore(mongo.UsersCollection)
	} else {
		log.Warn().Msg("MONGODB_URI not set; recipes are kept in memory")
		store = db.NewMemoryStore()
		users = db.NewMemoryUserStore()
	}

	hub := live.NewHub()
	supervisor.Add(hub)

	opts := []recipes.Option{recipes.WithMetrics(recorder), recipes.WithPublisher(hub)}
	var revoker auth.Revoker = auth.NewMemoryRevoker()
	if cfg.Redis.Addr != "" {
		conn, err := rdx.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer conn.Close()
		views := rdx.NewViewBuffer(conn, store, cfg.Redis.FlushInterval)
		supervisor.Add(views)
		opts = append(opts, recipes.WithViewCounter(views))
		revoker = rdx.NewRevocations(conn)
	}

	objects, uploadDir, err := objectStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	opts = append(opts, recipes.WithObjectStore(objects))

	var uploader imagehost.Uploader
	if cfg.Cloudinary.CloudName != "" {
		c, err := imagehost.New(imagehost.Config{
			CloudName:    cfg.Cloudinary.CloudName,
			UploadPreset: cfg.Cloudinary.UploadPreset,
			APIKey:       cfg.Cloudinary.APIKey,
			Timeout:      cfg.Cloudinary.Timeout,
		})
		if err != nil {
			return err
		}
		uploader = c
	}

	issuer := auth.NewIssuer([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	google := auth.NewGoogleProvider(auth.GoogleConfig{
		ClientID:     cfg.Auth.GoogleClientID,
		ClientSecret: cfg.Auth.GoogleClientSecret,
		RedirectURL:  cfg.Auth.GoogleRedirectURL,
	})

	router := httprouter.New()
	routes.RoutesWrapper(router, routes.Deps{
		Guard:     middleware.NewAuth(issuer, revoker),
		Recipes:   recipes.NewHandler(recipes.NewService(store, opts...), cfg.Server.SiteURL),
		Catalog:   catalog.NewHandler(catalog.New(time.Now())),
		Auth:      auth.NewHandler(google, users, issuer, revoker, cfg.Auth.CookieSecure),
		Uploads:   imagehost.NewHandler(uploader, recorder),
		Videos:    video.NewResolver(),
		Hub:       hub,
		Gatherer:  reg,
		UploadDir: uploadDir,
		Origins:   cfg.Server.CORSOrigins,
	})

	// apply middleware: request id → logging/metrics → security headers → CORS → router
	corsHandler := cors.New(corsOptions(cfg.Server.CORSOrigins)).Handler(router)
	handler := middleware.RequestID(middleware.Observe(router, recorder)(middleware.SecurityHeaders(corsHandler)))

	supervisor.Add(&httpService{
		server: &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           handler,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
			ReadHeaderTimeout: 2 * time.Second,
		},
		addr:            cfg.Server.Addr(),
		shutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	err = supervisor.Serve(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// objectStore picks the photo backend. The returned directory is served under
// /static/uploads when photos are kept on local disk.
func objectStore(ctx context.Context, cfg config.StorageConfig) (storage.ObjectStore, string, error) {
	if cfg.Backend == "s3" {
		s3, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			Endpoint:     cfg.S3Endpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			PublicURL:    cfg.S3PublicURL,
			UsePathStyle: cfg.S3PathStyle,
		})
		return s3, "", err
	}
	return storage.NewLocalStore(cfg.LocalDir, cfg.LocalBaseURL), cfg.LocalDir, nil
}
