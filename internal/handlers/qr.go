package handlers

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// HandleQR serves a PNG QR code that opens the room on another device
func (ctx *Context) HandleQR(w http.ResponseWriter, r *http.Request) {
	roomCode := normalizeCode(r.PathValue("code"))
	if !ctx.Rooms.Exists(roomCode) {
		http.NotFound(w, r)
		return
	}

	png, err := qrcode.Encode(ctx.publicURL(r)+"/room/"+roomCode, qrcode.Medium, qrSize)
	if err != nil {
		log.WithError(err).Error("encode qr")
		http.Error(w, "Could not create QR code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}
