package main

import (
	"github.com/joho/godotenv"
	"github.com/rkhn-textiles/pos-backend/internal/app"
)

func main() {
	// .env опционален: в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	app.Run()
}
