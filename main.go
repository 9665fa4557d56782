package main

import (
	"log"

	"github.com/hrsuite/ats-scanner/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
