// Package ws exposes the command layer over persistent websocket
// connections. One operation is bound per connection at open time; every
// JSON text frame on that connection is dispatched to the same handler.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/olmmcc/union/internal/errs"
	"github.com/olmmcc/union/internal/service"
)

// Op is the closed set of command namespaces a connection can bind.
// Resolved once at connection setup, dispatched via exhaustive switch;
// a runtime string miss can only ever produce OpUnknown.
type Op int

const (
	OpUnknown Op = iota
	OpSignup
	OpLogin
	OpCreateGallery
)

// ParseOp maps the connection's namespace path segment to an Op.
func ParseOp(name string) Op {
	switch name {
	case "signup":
		return OpSignup
	case "login":
		return OpLogin
	case "creategallery":
		return OpCreateGallery
	default:
		return OpUnknown
	}
}

// String returns the wire name of the operation.
func (op Op) String() string {
	switch op {
	case OpSignup:
		return "signup"
	case OpLogin:
		return "login"
	case OpCreateGallery:
		return "creategallery"
	default:
		return "unknown"
	}
}

// Response is the single reply shape for all command operations.
type Response struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createGalleryRequest struct {
	GalleryName string `json:"gallery_name"`
	ID          string `json:"id"`
}

// ErrProtocol marks an undecodable message: fatal for the connection that
// sent it, never for the process.
var ErrProtocol = errors.New("protocol violation")

// Dispatcher routes messages of one connection to its bound handler.
// It holds no per-connection state besides the Op and is transport-agnostic.
type Dispatcher struct {
	op        Op
	auth      service.AuthService
	galleries service.GalleryService
	remoteIP  string
}

// NewDispatcher binds an operation for a connection's lifetime.
// remoteIP feeds login rate limiting.
func NewDispatcher(op Op, auth service.AuthService, galleries service.GalleryService, remoteIP string) *Dispatcher {
	return &Dispatcher{op: op, auth: auth, galleries: galleries, remoteIP: remoteIP}
}

// Op returns the bound operation.
func (d *Dispatcher) Op() Op { return d.op }

// Handle processes one inbound message and produces exactly one response.
// Input and auth failures become {success:false}; a non-nil error is
// either ErrProtocol or an infrastructure fault, and the caller must stop
// serving the connection.
func (d *Dispatcher) Handle(ctx context.Context, raw []byte) (Response, error) {
	switch d.op {
	case OpSignup:
		var req signupRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return Response{}, fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		return d.result(d.auth.SignUp(ctx, req.Email, req.Password, req.Username))
	case OpLogin:
		var req loginRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return Response{}, fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		token, err := d.auth.LoginWithIP(ctx, req.Email, req.Password, d.remoteIP)
		if err != nil {
			return d.result(err)
		}
		return Response{Success: true, ID: token}, nil
	case OpCreateGallery:
		var req createGalleryRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return Response{}, fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		owner, err := d.auth.Authenticate(ctx, req.ID)
		if err != nil {
			return d.result(err)
		}
		return d.result(d.galleries.CreateGallery(ctx, owner, req.GalleryName))
	default:
		return Response{Success: false, Message: "operation not found"}, nil
	}
}

// result folds an operation outcome into the wire response. Rejections are
// uniform {success:false}; which check failed must not leak to the caller.
func (d *Dispatcher) result(err error) (Response, error) {
	switch {
	case err == nil:
		return Response{Success: true}, nil
	case errors.Is(err, errs.ErrInvalidInput),
		errors.Is(err, errs.ErrUnauthorized),
		errors.Is(err, errs.ErrRateLimited),
		errors.Is(err, errs.ErrAlreadyExists),
		errors.Is(err, errs.ErrNotFound):
		return Response{Success: false}, nil
	default:
		return Response{}, err
	}
}
