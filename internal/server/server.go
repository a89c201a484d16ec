package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/formdoc/formdoc/internal/cache"
	"github.com/formdoc/formdoc/internal/config"
	"github.com/formdoc/formdoc/internal/jobs"
	"github.com/formdoc/formdoc/internal/queue"
	"github.com/formdoc/formdoc/internal/service"
	"github.com/formdoc/formdoc/internal/store"
)

// Server represents the server
type Server struct {
	httpPort string
}

// NewServer creates a new server
func NewServer(httpPort string) *Server {
	return &Server{
		httpPort: httpPort,
	}
}

// Start starts the server
func (s *Server) Start() {
	if err := Start(s.httpPort); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// Start wires the stores, caches and services and serves HTTP until
// interrupted.
func Start(httpPort string) error {
	httpPort = ":" + httpPort

	raiseFileLimit()

	cnf := config.Load()

	db, err := config.OpenDB(cnf)
	if err != nil {
		return err
	}

	formStore := store.NewGormStore(db)
	if err := formStore.Migrate(); err != nil {
		return err
	}

	var formCache cache.FormCache
	if cnf.RedisAddr != "" {
		formCache = cache.NewRedisFormCache(cache.NewRedisClient(cnf.RedisAddr, cnf.RedisPassword, cnf.RedisDB))
	} else {
		formCache = cache.NewMemoryFormCache()
	}

	var publisher queue.Publisher = queue.NewNopPublisher()
	if cnf.KafkaBrokers != "" {
		kp, err := queue.NewKafkaPublisher(cnf.KafkaBrokers, cnf.KafkaTopic)
		if err != nil {
			return err
		}
		publisher = kp
	}
	defer publisher.Close()

	forms := service.NewFormService(cnf.Compression, formStore, formCache, publisher)
	subs := service.NewSubmissionService(formStore, formCache, publisher)

	runner := jobs.NewRunner(formStore, formCache)
	if err := runner.Start(); err != nil {
		return err
	}
	defer runner.Stop()

	api := NewAPI(forms, subs, cnf.JWTSecret)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "PUT"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	httpServer := &http.Server{
		Addr:    httpPort,
		Handler: c.Handler(api.Router()),
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Info("starting http server on: ", httpPort)
		logrus.Info("click on the following link to view the API documentation: http://localhost", httpPort, "/v1/docs/")
		if err := httpServer.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
				return
			}
		}
		errCh <- nil
	}()

	logrus.Infof("Press Ctrl+C to stop the server")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT, unix.SIGTSTP)

	select {
	case err := <-errCh:
		return err
	case <-sigs:
		// clean Ctrl+C output
		fmt.Println()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logrus.Errorf("error stopping http server: %v", err)
	}

	logrus.Infof("http server stopped")

	return nil
}

// raiseFileLimit bumps the open file soft limit to the hard limit.
func raiseFileLimit() {
	var limit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &limit); err != nil {
		logrus.Warnf("error reading file limit: %v", err)
		return
	}

	limit.Cur = limit.Max
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &limit); err != nil {
		logrus.Warnf("error raising file limit: %v", err)
	}
}
