package request

import "github.com/kixfc/kix-server/internal/reject"

// Validation rejections surfaced by the request aggregate.
var (
	ErrTooManyOpen       = reject.New("too_many_open_requests", "too many open match requests")
	ErrRequestClosed     = reject.New("request_closed", "the request is expired or no longer open")
	ErrCreatorInterest   = reject.New("creator_interest", "the creator is already counted as the first player")
	ErrNotCreator        = reject.New("not_creator", "only the creator can convert a request")
	ErrNotEnoughInterest = reject.New("not_enough_interest", "not enough interested players to convert")
)
