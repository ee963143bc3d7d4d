package main

import "quyca-monitor/internal/cli"

func main() {
	cli.Execute()
}
