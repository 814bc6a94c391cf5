// Package browse owns the fetch lifecycle of the movie list: it decides which
// catalog request to issue for each trigger, whether a response replaces or
// extends the list, and drops responses that belong to a superseded query.
//
// The Orchestrator performs no I/O. Callers execute the Requests it hands
// out and feed the outcome back through Apply. All methods must be called
// from a single goroutine (the bubbletea Update loop).
package browse

import (
	"github.com/pders01/marquee/internal/catalog"
	"github.com/pders01/marquee/internal/debuglog"
	"github.com/pders01/marquee/internal/query"
)

// State is the orchestrator's fetch lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateLoadingReplace
	StateLoadingAppend
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingReplace:
		return "loading-replace"
	case StateLoadingAppend:
		return "loading-append"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Kind says whether a response replaces the list or extends it.
type Kind int

const (
	KindReplace Kind = iota
	KindAppend
)

func (k Kind) String() string {
	if k == KindAppend {
		return "append"
	}
	return "replace"
}

// Request is one catalog fetch, tagged with the epoch it was issued under.
type Request struct {
	Epoch      uint64
	Kind       Kind
	Descriptor query.Descriptor
}

func (r Request) same(o Request) bool {
	return r.Epoch == o.Epoch && r.Kind == o.Kind && r.Descriptor.Page == o.Descriptor.Page
}

// Response carries the result of executing a Request.
type Response struct {
	Request Request
	Page    catalog.Page
	Err     error
}

// Notify asks the trending collaborator to count a search.
type Notify struct {
	Term string
	Top  catalog.Movie
}

// Outcome reports what Apply did with a response.
type Outcome struct {
	Applied bool
	Stale   bool
	Notify  *Notify
}

// Orchestrator turns triggers into catalog requests and reconciles their responses.
type Orchestrator struct {
	state       State
	epoch       uint64
	identity    query.Identity
	initialized bool
	results     Results
	inFlight    *Request
	lastFailed  *Request
}

// New returns an orchestrator that has not issued its initial load yet.
func New() *Orchestrator {
	return &Orchestrator{}
}

func (o *Orchestrator) State() State { return o.state }

// Epoch identifies the current query identity.
func (o *Orchestrator) Epoch() uint64 { return o.epoch }

// Identity is the term and filters the list currently belongs to.
func (o *Orchestrator) Identity() query.Identity { return o.identity }

// Results returns a copy of the result state. Items must be treated as read-only.
func (o *Orchestrator) Results() Results { return o.results }

// Fetching reports whether a fetch for the current epoch is outstanding.
// The scroll sentinel reads this to avoid re-raising while a page loads.
func (o *Orchestrator) Fetching() bool { return o.inFlight != nil }

// SetIdentity is the trigger for committed-term and filter changes. The
// first call is the initial load. It returns a replace request for page 1
// when the identity changed.
func (o *Orchestrator) SetIdentity(term string, filters query.FilterSet) (Request, bool) {
	next := query.Identity{Term: term, Filters: filters.Clone()}
	if o.initialized && next.Equal(o.identity) {
		return Request{}, false
	}
	o.initialized = true
	o.identity = next
	return o.startReplace(), true
}

// Reload re-issues page 1 for the current identity under a new epoch.
func (o *Orchestrator) Reload() Request {
	o.initialized = true
	return o.startReplace()
}

func (o *Orchestrator) startReplace() Request {
	o.epoch++
	o.results.reset()
	o.results.IsLoading = true
	o.state = StateLoadingReplace
	o.lastFailed = nil

	req := Request{
		Epoch:      o.epoch,
		Kind:       KindReplace,
		Descriptor: query.Build(o.identity.Term, o.identity.Filters, 1),
	}
	o.inFlight = &req
	debuglog.WithFields(map[string]interface{}{"epoch": req.Epoch, "mode": req.Descriptor.Mode}).Debugf("replace fetch")
	return req
}

// ScrollBottom is the trigger raised by the scroll sentinel. It admits an
// append fetch only when nothing is in flight and more pages exist. After a
// failed append, scrolling to the bottom again is the retry path.
func (o *Orchestrator) ScrollBottom() (Request, bool) {
	if o.inFlight != nil || !o.results.HasMore {
		return Request{}, false
	}
	switch o.state {
	case StateIdle:
	case StateError:
		if o.lastFailed == nil || o.lastFailed.Kind != KindAppend {
			return Request{}, false
		}
	default:
		return Request{}, false
	}
	return o.startAppend(o.results.CurrentPage + 1), true
}

func (o *Orchestrator) startAppend(page int) Request {
	o.state = StateLoadingAppend
	o.results.IsLoadingMore = true
	o.results.ErrorMessage = ""
	o.lastFailed = nil

	req := Request{
		Epoch:      o.epoch,
		Kind:       KindAppend,
		Descriptor: query.Build(o.identity.Term, o.identity.Filters, page),
	}
	o.inFlight = &req
	debuglog.WithFields(map[string]interface{}{"epoch": req.Epoch, "page": page}).Debugf("append fetch")
	return req
}

// Retry re-issues the last failed request. A failed replace restarts the
// query under a fresh epoch; a failed append asks for the same page again.
func (o *Orchestrator) Retry() (Request, bool) {
	if o.state != StateError || o.lastFailed == nil || o.inFlight != nil {
		return Request{}, false
	}
	if o.lastFailed.Kind == KindReplace {
		return o.startReplace(), true
	}
	return o.startAppend(o.lastFailed.Descriptor.Page), true
}

// Apply reconciles a response into the result state. Responses from a
// superseded epoch, or that do not match the outstanding request, are
// dropped without touching any state.
func (o *Orchestrator) Apply(resp Response) Outcome {
	req := resp.Request
	if req.Epoch != o.epoch || o.inFlight == nil || !o.inFlight.same(req) {
		debuglog.WithFields(map[string]interface{}{
			"epoch":   req.Epoch,
			"current": o.epoch,
			"kind":    req.Kind,
		}).Debugf("dropping stale response")
		return Outcome{Stale: true}
	}
	o.inFlight = nil

	if resp.Err != nil {
		o.fail(req, resp.Err)
		return Outcome{Applied: true}
	}

	if req.Kind == KindReplace {
		o.results.replace(resp.Page.Items, req.Descriptor.Page, resp.Page.TotalPages)
	} else {
		o.results.appendPage(resp.Page.Items, req.Descriptor.Page, resp.Page.TotalPages)
	}
	o.state = StateIdle

	out := Outcome{Applied: true}
	if req.Descriptor.Mode == query.ModeSearch && len(resp.Page.Items) > 0 {
		out.Notify = &Notify{Term: req.Descriptor.Term, Top: resp.Page.Items[0]}
	}
	return out
}

func (o *Orchestrator) fail(req Request, err error) {
	debuglog.WithFields(map[string]interface{}{
		"epoch": req.Epoch,
		"kind":  req.Kind,
		"page":  req.Descriptor.Page,
	}).Warnf("catalog fetch failed: %v", err)

	if req.Kind == KindReplace {
		// a failed replace never leaves the previous query's items on screen
		o.results.reset()
	}
	o.results.IsLoading = false
	o.results.IsLoadingMore = false
	o.results.ErrorMessage = catalog.UserMessage(err)
	o.state = StateError
	failed := req
	o.lastFailed = &failed
}
