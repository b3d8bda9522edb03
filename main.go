package main

import (
	"os"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
