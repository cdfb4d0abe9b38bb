package main

import "fuel-dashboard/cmd"

func main() {
	cmd.Execute()
}
