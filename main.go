package main

import "github.com/rizkypratama/maintenance-portal/cmd"

func main() {
	cmd.Execute()
}
