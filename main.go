package main

import (
	"os"

	"github.com/staffdesk/staffdesk/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
