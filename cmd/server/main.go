package main

import (
	"context"
	"flag"
	"log"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/Tyrowin/roomchat/internal/server"
)

func main() {
	config := server.NewConfigFromEnv()
	addr := flag.String("addr", config.Port, "TCP address to listen on (overrides SERVER_PORT; default allowed origin follows it unless ALLOWED_ORIGINS is set)")
	flag.Parse()
	config.SetPort(*addr)

	log.Println("Starting roomchat server...")

	hub := server.NewHub(*config)
	server.StartHub(hub)

	httpServer := server.CreateServer(config.Port, server.SetupRoutes(hub))

	go func() {
		if err := server.StartServer(httpServer); err != nil {
			log.Fatalf("Server stopped with error: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		config.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				return server.ShutdownServer(ctx, httpServer)
			},
			"hub": func(_ context.Context) error {
				return hub.Shutdown(config.ShutdownTimeout)
			},
		},
	)

	exitCode := <-wait
	log.Printf("roomchat exited with code: %d", exitCode)
	os.Exit(exitCode)
}
