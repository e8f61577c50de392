package main

import (
	"github.com/overwatch-coder/souppp-ecom/internal/app"
	"github.com/overwatch-coder/souppp-ecom/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
