package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Mark is the content of a single board cell.
type Mark string

const (
	MarkEmpty Mark = ""
	MarkX     Mark = "X"
	MarkO     Mark = "O"
)

const BoardSize = 3

type Mode string

const (
	ModePvP Mode = "pvp"
	ModePvC Mode = "pvc"
)

type Difficulty string

const (
	DifficultyEasy         Difficulty = "easy"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyHard         Difficulty = "hard"
)

// State is the lifecycle stage of a game.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateOver       State = "over"
)

var (
	ErrUnknownMark       = errors.New("unknown mark")
	ErrUnknownMode       = errors.New("unknown mode")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// Move addresses a cell by row and column, both in [0, BoardSize).
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Move) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

func (that Mark) IsPlayable() bool {
	return that == MarkX || that == MarkO
}

// Opponent returns the other playable mark. Empty stays empty.
func (that Mark) Opponent() Mark {
	switch that {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return MarkEmpty
	}
}

func ParseMark(value string) (Mark, error) {
	switch mark := Mark(strings.ToUpper(strings.TrimSpace(value))); mark {
	case MarkX, MarkO:
		return mark, nil
	default:
		return MarkEmpty, fmt.Errorf("%w: %q", ErrUnknownMark, value)
	}
}

func ParseMode(value string) (Mode, error) {
	switch mode := Mode(strings.ToLower(strings.TrimSpace(value))); mode {
	case ModePvP, ModePvC:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, value)
	}
}

func ParseDifficulty(value string) (Difficulty, error) {
	switch level := Difficulty(strings.ToLower(strings.TrimSpace(value))); level {
	case DifficultyEasy, DifficultyIntermediate, DifficultyHard:
		return level, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, value)
	}
}
