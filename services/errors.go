package services

import "errors"

var (
	ErrSessionNotFound   = errors.New("game session not found")
	ErrNotWon            = errors.New("game has not been won")
	ErrScoreAlreadyKept  = errors.New("score already kept for this game")
	ErrRecordNotFound    = errors.New("score record not found")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
)
