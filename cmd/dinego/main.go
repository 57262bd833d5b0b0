package main

import (
	"fmt"
	"os"

	_ "github.com/kirinyoku/dinego/docs"
)

// @title DineGo API
// @version 1.0
// @description Restaurant reservations and table ordering.
// @host localhost:8080
// @BasePath /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
