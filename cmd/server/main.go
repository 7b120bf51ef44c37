package main

import "taxease/internal/app/server"

func main() {
	server.Run()
}
