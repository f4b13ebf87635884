package main

import "dukaan_backend/internal/app"

func main() {
	app.Run()
}
