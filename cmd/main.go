package main

import (
	"github.com/amrelsaid4/Restaurant/internal/app"
	"github.com/amrelsaid4/Restaurant/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
