package main

import "github.com/nickspeelman/reflect/internal/app"

func main() {
	err := app.NewReflectApp().Run()
	if err != nil {
		panic(err)
	}
}
