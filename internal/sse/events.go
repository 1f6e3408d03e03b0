package sse

// SSE event type constants
const (
	EventNavRedirect    = "nav-redirect"
	EventBoardUpdate    = "board-update"
	EventScoreUpdate    = "score-update"
	EventStatusUpdate   = "status-update"
	EventQuizUpdate     = "quiz-update"
	EventEffectUpdate   = "effect-update"
	EventWheelSpin      = "wheel-spin"
	EventNotice         = "notice"
	EventControlsUpdate = "controls-update"
)
