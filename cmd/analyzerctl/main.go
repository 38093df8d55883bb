package main

import "github.com/localnerve/excel-analyzer/internal/cli"

func main() {
	cli.Execute()
}
