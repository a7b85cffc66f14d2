package main

import (
	"flag"
	"log"

	"github.com/Tyrowin/lobby-server/internal/console"
	"github.com/Tyrowin/lobby-server/internal/server"
)

func main() {
	config := server.NewConfigFromEnv()
	port := flag.String("port", config.Port, "port or address to listen on")
	autoStart := flag.Bool("autostart", true, "start the server when the console opens")
	flag.Parse()

	ui, err := console.New(*port)
	if err != nil {
		log.Fatal(err)
	}
	defer ui.Close()

	srv := server.NewServer(config, ui.Logger())
	if err := ui.Run(srv, *autoStart); err != nil {
		log.Panicln(err)
	}
}
