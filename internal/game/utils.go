package game

import (
	crand "crypto/rand"
	"math/big"
	"math/rand"
	"strings"
)

// GenerateRoomCode creates a random room code
func GenerateRoomCode() string {
	code := make([]byte, RoomCodeLength)
	for i := range RoomCodeLength {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(RoomCodeChars))))
		if err != nil {
			// fallback to math/rand if crypto fails
			code[i] = RoomCodeChars[rand.Intn(len(RoomCodeChars))]
			continue
		}
		code[i] = RoomCodeChars[n.Int64()]
	}
	return string(code)
}

// UniqueRoomCode generates a room code for which exists reports false
func UniqueRoomCode(exists func(code string) bool) string {
	for {
		code := GenerateRoomCode()
		if !exists(code) {
			return code
		}
	}
}

// ParseTeams splits a comma or newline separated list of team names,
// dropping blanks. Fewer than MinTeams names yields DefaultTeams.
func ParseTeams(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '\n' })
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if name := strings.TrimSpace(f); name != "" {
			names = append(names, name)
		}
	}
	if len(names) < MinTeams {
		out := make([]string, len(DefaultTeams))
		copy(out, DefaultTeams)
		return out
	}
	return names
}
