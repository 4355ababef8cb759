package entity

import "fmt"

// ResultKind tags the variants of Result.
type ResultKind string

const (
	KindStart  ResultKind = "start"
	KindTurn   ResultKind = "turn"
	KindWinner ResultKind = "winner"
	KindDraw   ResultKind = "draw"
	KindError  ResultKind = "error"
)

const (
	messageGameOver    = "The game is over. Reset to play again!"
	messageCellTaken   = "Cell taken. Choose another!"
	messageDraw        = "It's a Draw! No more possible moves!"
	messageNotStarted  = "The game has not started yet."
	messageNotYourTurn = "It's the computer's turn."
	messageNoComputer  = "The computer is not due to move."
)

// Result is returned by every state-changing call of the game.
// The set of variants is closed: StartResult, TurnResult, WinnerResult,
// DrawResult and ErrorResult.
type Result interface {
	Kind() ResultKind
	Message() string

	sealed()
}

type StartResult struct {
	Player Player
}

type TurnResult struct {
	Player Player
}

type WinnerResult struct {
	Winner Mark
	Player Player
}

type DrawResult struct{}

// ErrorResult reports a rejected call. Err is one of the apperror values.
type ErrorResult struct {
	Err  error
	Text string
}

func (StartResult) Kind() ResultKind  { return KindStart }
func (TurnResult) Kind() ResultKind   { return KindTurn }
func (WinnerResult) Kind() ResultKind { return KindWinner }
func (DrawResult) Kind() ResultKind   { return KindDraw }
func (ErrorResult) Kind() ResultKind  { return KindError }

func (that StartResult) Message() string {
	return "Game started - Turn: " + that.Player.Name
}

func (that TurnResult) Message() string {
	return "Turn: " + that.Player.Name
}

func (that WinnerResult) Message() string {
	return fmt.Sprintf("%s Wins!", that.Player.Name)
}

func (DrawResult) Message() string {
	return messageDraw
}

func (that ErrorResult) Message() string {
	return that.Text
}

func (StartResult) sealed()  {}
func (TurnResult) sealed()   {}
func (WinnerResult) sealed() {}
func (DrawResult) sealed()   {}
func (ErrorResult) sealed()  {}

func GameOverResult(err error) ErrorResult {
	return ErrorResult{Err: err, Text: messageGameOver}
}

func CellTakenResult(err error) ErrorResult {
	return ErrorResult{Err: err, Text: messageCellTaken}
}

func NotStartedResult(err error) ErrorResult {
	return ErrorResult{Err: err, Text: messageNotStarted}
}

func NotYourTurnResult(err error) ErrorResult {
	return ErrorResult{Err: err, Text: messageNotYourTurn}
}

func NoComputerMoveResult(err error) ErrorResult {
	return ErrorResult{Err: err, Text: messageNoComputer}
}
