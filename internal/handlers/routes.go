package handlers

import "net/http"

// Routes registers every endpoint on a new mux
func (ctx *Context) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", ctx.HandleIndex)
	mux.HandleFunc("POST /create", ctx.HandleCreate)
	mux.HandleFunc("POST /join", ctx.HandleJoin)
	mux.HandleFunc("GET /room/{code}", ctx.HandleRoom)
	mux.HandleFunc("GET /room/{code}/results", ctx.HandleResults)
	mux.HandleFunc("POST /room/{code}/{action}", ctx.HandleAction)
	mux.HandleFunc("GET /sse/{code}", ctx.HandleSSE)
	mux.HandleFunc("GET /ws/{code}", ctx.HandleWS)
	mux.HandleFunc("GET /qr/{code}", ctx.HandleQR)
	return mux
}
