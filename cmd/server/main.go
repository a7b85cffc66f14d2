package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Tyrowin/lobby-server/internal/server"
)

func main() {
	config := server.NewConfigFromEnv()
	port := flag.String("port", config.Port, "port or address to listen on")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	logger.Println("Starting lobby server...")

	srv := server.NewServer(config, logger)
	if err := srv.Start(*port); err != nil {
		logger.Fatal(err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Printf("Received %s", sig)

	srv.Stop()
}
