package enreach

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// apiTimeLayout is the timestamp format the call history endpoints expect,
// always in UTC.
const apiTimeLayout = "2006-01-02 15:04:05"

// maxCallWindow is the longest time range the call history endpoints accept.
const maxCallWindow = 31 * 24 * time.Hour

// CallFilter narrows a call history query. Exactly one of the following
// must be provided: a StartTime/EndTime pair, a ModifiedAfter/ModifiedBefore
// pair, or (for user calls only) a CallID.
type CallFilter struct {
	StartTime      time.Time
	EndTime        time.Time
	ModifiedAfter  time.Time
	ModifiedBefore time.Time
	CallID         string
}

// query validates the filter and converts it to URL query parameters.
// When allowCallID is false, a CallID-only filter is rejected.
func (f CallFilter) query(allowCallID bool) (url.Values, error) {
	values := url.Values{}

	switch {
	case !f.StartTime.IsZero() && !f.EndTime.IsZero():
		if f.EndTime.Sub(f.StartTime) > maxCallWindow {
			return nil, fmt.Errorf("time range cannot be more than 31 days")
		}
		values.Set("StartTime", f.StartTime.UTC().Format(apiTimeLayout))
		values.Set("EndTime", f.EndTime.UTC().Format(apiTimeLayout))

	case !f.ModifiedAfter.IsZero() && !f.ModifiedBefore.IsZero():
		if f.ModifiedBefore.Sub(f.ModifiedAfter) > maxCallWindow {
			return nil, fmt.Errorf("time range cannot be more than 31 days")
		}
		values.Set("ModifiedAfter", f.ModifiedAfter.UTC().Format(apiTimeLayout))
		values.Set("ModifiedBefore", f.ModifiedBefore.UTC().Format(apiTimeLayout))

	case f.CallID != "":
		if !allowCallID {
			return nil, fmt.Errorf("must have StartTime and EndTime or ModifiedAfter and ModifiedBefore")
		}
		values.Set("CallId", f.CallID)

	default:
		if allowCallID {
			return nil, fmt.Errorf("must have StartTime and EndTime, ModifiedAfter and ModifiedBefore, or CallId")
		}
		return nil, fmt.Errorf("must have StartTime and EndTime or ModifiedAfter and ModifiedBefore")
	}

	return values, nil
}

// UserCalls returns user call events from GET /calls matching the filter.
// The same call ID can appear in multiple call events. The response is
// passed through verbatim.
func (c *Client) UserCalls(ctx context.Context, filter CallFilter) (json.RawMessage, error) {
	query, err := filter.query(true)
	if err != nil {
		return nil, err
	}
	return c.invokeRaw(ctx, http.MethodGet, "/calls", query, nil)
}

// QueueCalls returns inbound queue calls (service calls) from
// GET /servicecall matching the filter. The response is passed through
// verbatim.
func (c *Client) QueueCalls(ctx context.Context, filter CallFilter) (json.RawMessage, error) {
	query, err := filter.query(false)
	if err != nil {
		return nil, err
	}
	return c.invokeRaw(ctx, http.MethodGet, "/servicecall", query, nil)
}
