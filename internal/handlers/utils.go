package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/aaronzipp/minequiz/internal/game"
	"github.com/aaronzipp/minequiz/internal/models"
	"github.com/aaronzipp/minequiz/internal/quiz"
)

const (
	memberCookie = "member_id"
	maxUpload    = 1 << 20
)

// getRoomAndMember validates membership using session cookie
func (ctx *Context) getRoomAndMember(r *http.Request, roomCode string) (*models.Room, string, error) {
	room, err := ctx.Rooms.Lookup(roomCode)
	if err != nil {
		return nil, "", err
	}
	cookie, err := r.Cookie(memberCookie)
	if err != nil {
		return nil, "", fmt.Errorf("no session")
	}
	memberID := cookie.Value
	room.RLock()
	_, member := room.Members[memberID]
	room.RUnlock()
	if !member {
		return nil, "", fmt.Errorf("not a member")
	}
	return room, memberID, nil
}

// ensureMember joins the caller to room, issuing a cookie when needed
func ensureMember(w http.ResponseWriter, r *http.Request, room *models.Room) string {
	memberID := ""
	if cookie, err := r.Cookie(memberCookie); err == nil {
		if _, err := uuid.Parse(cookie.Value); err == nil {
			memberID = cookie.Value
		}
	}
	if memberID == "" {
		memberID = uuid.New().String()
		setMemberCookie(w, memberID)
	}
	room.Lock()
	room.Join(memberID)
	room.Unlock()
	return memberID
}

func setMemberCookie(w http.ResponseWriter, memberID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     memberCookie,
		Value:    memberID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		// Secure: true, // enable when serving over HTTPS
	})
}

func normalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// formInt reads a non-negative integer form value
func formInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(r.FormValue(name)))
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}

// uploadedBank parses the "questions" file or the "questions_text" field.
// Both empty yields nil without error.
func uploadedBank(r *http.Request) ([]quiz.Question, string, error) {
	file, header, err := r.FormFile("questions")
	if err == nil {
		defer file.Close()
		bank, err := quiz.Parse(file)
		if err != nil {
			return nil, "", fmt.Errorf("could not read %s: %w", header.Filename, err)
		}
		return bank, header.Filename, nil
	}
	if text := strings.TrimSpace(r.FormValue("questions_text")); text != "" {
		bank, err := quiz.ParseString(text)
		if err != nil {
			return nil, "", fmt.Errorf("could not read questions: %w", err)
		}
		return bank, "pasted text", nil
	}
	return nil, "", nil
}

// writeOutcome answers an action. Rejected actions are conflicts; everything
// else is reported through the push stream.
func writeOutcome(w http.ResponseWriter, out game.Outcome) {
	if out == game.OutcomeRejected {
		http.Error(w, "Not allowed right now", http.StatusConflict)
		return
	}
	w.Header().Set("X-Outcome", string(out))
	w.WriteHeader(http.StatusNoContent)
}

// publicURL is the base other devices use to reach this server
func (ctx *Context) publicURL(r *http.Request) string {
	if ctx.Config.PublicURL != "" {
		return strings.TrimRight(ctx.Config.PublicURL, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
