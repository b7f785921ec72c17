package main

import (
	"context"
	"log"
	"os"

	"dropzone/internal/app"
)

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)
	if err := app.Run(context.Background(), app.Config{Logger: logger}); err != nil {
		log.Fatalf("%v", err)
	}
}
