package main

import "github.com/i474232898/location-weather/internal/cli"

func main() {
	cli.Execute()
}
