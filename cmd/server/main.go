package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"

	"github.com/cojovi/chat-relay/auth"
	"github.com/cojovi/chat-relay/internal/config"
	"github.com/cojovi/chat-relay/openwebui"
	"github.com/cojovi/chat-relay/relay"
	"github.com/cojovi/chat-relay/server"
	"github.com/cojovi/chat-relay/sessions"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	if err := config.Validate(c); err != nil {
		return fmt.Errorf("config.Validate: %w", err)
	}
	displayAppname(c.GetAppName())

	relayServer, err := buildServer(context.Background(), c)
	if err != nil {
		return fmt.Errorf("buildServer: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: relayServer}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func buildServer(ctx context.Context, c config.Config) (*server.Server, error) {
	verifier, err := auth.NewChatVerifier(ctx, c.GetJWKSURL(), c.GetChatIssuer(), c.GetProjectNumber())
	if err != nil {
		return nil, fmt.Errorf("auth.NewChatVerifier: %w", err)
	}

	backend, err := openwebui.New(c.GetBackendBaseURL(), c.GetBackendAPIKey(), openwebui.WithTimeout(c.GetBackendTimeout()))
	if err != nil {
		return nil, fmt.Errorf("openwebui.New: %w", err)
	}

	relayService, err := relay.NewService(backend, sessions.NewInMemoryRepo())
	if err != nil {
		return nil, fmt.Errorf("relay.NewService: %w", err)
	}

	return server.New(c, verifier, relayService)
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
