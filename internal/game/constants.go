package game

import "time"

const (
	// DefaultBoardSize is the side length of the grid
	DefaultBoardSize = 16

	// DefaultMineCount is the number of mines per board
	DefaultMineCount = 40

	// DefaultDefuseTime is how long a team has to answer a quiz
	DefaultDefuseTime = 30 * time.Second

	// DefaultResetDelay is the pause before a detonated board is regenerated
	DefaultResetDelay = 150 * time.Millisecond

	// DefaultEffectRate is the chance of a bonus effect at each trigger point
	DefaultEffectRate = 0.30

	// DefaultRevealCount is how many safe cells the reveal effect opens
	DefaultRevealCount = 3

	// MinTeams is the minimum number of teams in a game
	MinTeams = 2

	// SSEBufferSize is the buffer size for SSE message channels
	SSEBufferSize = 16

	// SSETimeoutSeconds is the timeout for sending messages to SSE clients
	SSETimeoutSeconds = 1

	// RoomCodeLength is the length of generated room codes
	RoomCodeLength = 6

	// RoomCodeChars are the characters used for generating room codes (excluding ambiguous chars)
	RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// DefaultTeams is the roster used when a room does not name its teams
var DefaultTeams = []string{"Group 1", "Group 2", "Group 3", "Group 4", "Group 6"}
