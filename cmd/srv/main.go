package main

import (
	"context"
	"log"
	"os"
)

var server srv

func main() {
	server.ctx = context.Background()
	server.loadApp()

	err := server.app.Run(os.Args)
	server.syncLogger()
	if err != nil {
		log.Fatalln(err)
	}
}
