package services

import "errors"

var (
	ErrNotAuthor         = errors.New("only the author can do this")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidParent     = errors.New("reply parent must be a top-level comment of the same publication")
	ErrInvalidReaction   = errors.New("unknown reaction type")
	ErrInvalidInput      = errors.New("invalid input")

	ErrUnknownAction      = errors.New("unknown gamification action")
	ErrUnknownLeaderboard = errors.New("unknown leaderboard type")
	ErrDailyLoginClaimed  = errors.New("daily login already rewarded today")

	ErrMissionNotFound       = errors.New("mission not found")
	ErrMissionAlreadyClaimed = errors.New("mission already claimed")
	ErrMissionIncomplete     = errors.New("mission target not reached")
	ErrMissionExpired        = errors.New("mission expired")

	ErrUnknownPrediction   = errors.New("unknown prediction type")
	ErrUnknownExportFormat = errors.New("unknown export format")
	ErrPDFNotImplemented   = errors.New("pdf export is not implemented")

	ErrEmailTaken      = errors.New("email already registered")
	ErrMalformedImport = errors.New("malformed settings file")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrNotParticipant  = errors.New("not a participant of this conversation")
)
