package roster

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/kixfc/kix-server/internal/events"
	"github.com/kixfc/kix-server/internal/match"
	"github.com/kixfc/kix-server/internal/request"
)

// CreateRequest opens a "looking for a match" post, enforcing the per-creator
// open request limit.
func (c *Coordinator) CreateRequest(ctx context.Context, creatorID string, p request.CreateParams) (*request.Request, error) {
	now := c.now()
	open, err := c.requests.CountOpenForCreator(ctx, creatorID, now)
	if err != nil {
		return nil, err
	}
	if open >= request.MaxOpenPerCreator {
		return nil, request.ErrTooManyOpen
	}
	r, err := request.New(creatorID, p, now)
	if err != nil {
		return nil, err
	}
	if err := c.requests.Create(ctx, r); err != nil {
		return nil, err
	}
	c.metrics.IncRosterOp("create_request")
	c.publish(events.EventRequestCreated, events.RequestEvent{
		RequestID: r.ID,
		CreatorID: creatorID,
	})
	return r, nil
}

// GetRequest returns the request with lazy expiry folded into its status.
func (c *Coordinator) GetRequest(ctx context.Context, id string) (*request.Request, error) {
	r, _, err := c.requests.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Status = r.EffectiveStatus(c.now())
	return r, nil
}

// ListRequests returns every request with lazy expiry applied.
func (c *Coordinator) ListRequests(ctx context.Context) ([]*request.Request, error) {
	rs, err := c.requests.List(ctx)
	if err != nil {
		return nil, err
	}
	now := c.now()
	for _, r := range rs {
		r.Status = r.EffectiveStatus(now)
	}
	return rs, nil
}

// ToggleInterest flips the user's interest in an open request. The returned
// bool is true when interest was added, false when withdrawn.
func (c *Coordinator) ToggleInterest(ctx context.Context, requestID, userID string) (bool, *request.Request, error) {
	var added bool
	var r *request.Request
	err := c.retryCAS(func() error {
		var version int64
		var err error
		r, version, err = c.requests.Get(ctx, requestID)
		if err != nil {
			return err
		}
		added, err = r.ToggleInterest(userID, c.now())
		if err != nil {
			return err
		}
		return c.requests.Update(ctx, requestID, version, r)
	})
	if err != nil {
		return false, nil, err
	}
	c.metrics.IncRosterOp("toggle_interest")
	return added, r, nil
}

// ConvertRequest turns a request with enough interest into a real match. The
// creator hosts; interested players fill the roster in sign-up order, with
// overflow going to the waitlist. The request is marked converted only after
// the match exists, so a failed creation leaves the request open.
func (c *Coordinator) ConvertRequest(ctx context.Context, requestID, userID string) (*match.Match, *request.Request, error) {
	r, version, err := c.requests.Get(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if err := r.CanConvert(userID, c.now()); err != nil {
		return nil, nil, err
	}

	m, err := match.New(r.CreatorID, r.MatchParams(), c.now())
	if err != nil {
		return nil, nil, err
	}
	for _, id := range r.Interested {
		if _, err := m.Join(id); err != nil {
			log.Error("Failed to seat interested player", "error", err, "requestID", r.ID, "playerID", id)
		}
	}
	if err := c.matches.Create(ctx, m); err != nil {
		return nil, nil, err
	}

	err = c.retryCAS(func() error {
		r, version, err = c.requests.Get(ctx, requestID)
		if err != nil {
			return err
		}
		if err := r.CanConvert(userID, c.now()); err != nil {
			return err
		}
		r.MarkConverted(m.ID)
		return c.requests.Update(ctx, requestID, version, r)
	})
	if err != nil {
		return nil, nil, err
	}

	c.metrics.IncRosterOp("convert_request")
	c.publish(events.EventRequestConverted, events.RequestEvent{
		RequestID:  r.ID,
		CreatorID:  r.CreatorID,
		MatchID:    m.ID,
		Interested: len(r.Interested),
	})
	c.publish(events.EventMatchCreated, events.RosterChanged{
		MatchID:   m.ID,
		PlayerID:  r.CreatorID,
		SpotsLeft: m.SpotsLeft(),
		Waitlist:  len(m.Waitlist),
	})
	return m, r, nil
}

// ExpireRequests flips stored status on requests whose lifetime has passed.
// Listings are correct without it; this keeps the stored rows tidy.
func (c *Coordinator) ExpireRequests(ctx context.Context) (int64, error) {
	return c.requests.ExpireDue(ctx, c.now())
}
