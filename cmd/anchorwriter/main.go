package main

import (
	"anchorwriter/cmd/handlers"
	"anchorwriter/internal/logger"
)

func main() {
	logger.Init()
	handlers.Execute()
}
