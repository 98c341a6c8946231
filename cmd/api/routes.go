package main

import (
	"net/http"
)

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	api := func(next http.Handler) http.Handler {
		return app.recoverPanic(app.logAndTraceRequest(next))
	}

	mux.Handle("POST /api/days/{date}/generate", api(http.HandlerFunc(app.generateDayPOST)))
	mux.Handle("GET /api/days/{date}", api(http.HandlerFunc(app.dayGET)))
	mux.Handle("GET /api/days", api(http.HandlerFunc(app.daysGET)))

	mux.Handle("POST /api/weeks/generate", api(http.HandlerFunc(app.generateWeekPOST)))
	mux.Handle("GET /api/weeks/current", api(http.HandlerFunc(app.currentWeekGET)))

	mux.Handle("GET /api/exercises", api(http.HandlerFunc(app.exercisesGET)))
	mux.Handle("GET /api/healthy", api(http.HandlerFunc(app.healthy)))

	return mux
}
