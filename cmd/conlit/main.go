package main

import "github.com/conlit/backend/internal/cli"

func main() {
	cli.Execute()
}
