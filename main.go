package main

import "github.com/jimzijun/shechill-order-summary/cmd"

func main() {
	cmd.Execute()
}
