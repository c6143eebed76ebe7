package rpc

import (
	"context"
	"fmt"

	"github.com/ubuntu/authorityd/internal/action"
	"github.com/ubuntu/authorityd/internal/authdb"
	"github.com/ubuntu/authorityd/internal/catalog"
	"github.com/ubuntu/authorityd/internal/decision"
	"github.com/ubuntu/authorityd/internal/i18n"
	"github.com/ubuntu/authorityd/internal/implicitauth"
	"github.com/ubuntu/authorityd/internal/log"
	"github.com/ubuntu/authorityd/internal/record"
	"github.com/ubuntu/authorityd/internal/rpcauth"
	"github.com/ubuntu/authorityd/internal/session"
	"github.com/ubuntu/authorityd/internal/subject"
	"github.com/ubuntu/authorityd/internal/sysinfo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server implements AuthorityServer, composing the decision engine's
// {authorized, negative} result with the catalog's ImplicitAuthorization
// default per §4.4: "The engine does not encode that composition; it
// provides the two booleans only" — this is the higher caller the
// section refers to.
type Server struct {
	Engine   decision.Engine
	DB       *authdb.DB
	Catalog  *catalog.Catalog
	Sessions session.Service
	Proc     sysinfo.ProcessInfo
}

// CheckAuthorization implements AuthorityServer.
func (s *Server) CheckAuthorization(ctx context.Context, in *CheckAuthorizationRequest) (*CheckAuthorizationResponse, error) {
	actionID, err := action.Parse(in.ActionID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	subj, err := subject.Parse(in.Subject)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	caller, err := s.resolveCaller(ctx, subj)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	result, err := s.Engine.CheckCaller(ctx, actionID, caller, in.RevokeIfOneShot)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if result.Authorized {
		return &CheckAuthorizationResponse{IsAuthorized: true}, nil
	}
	if result.Negative {
		return &CheckAuthorizationResponse{Detail: i18n.G("explicitly denied")}, nil
	}

	def, ok := s.Catalog.ImplicitDefault(ctx, actionID)
	if !ok {
		log.Debugf(ctx, i18n.G("no catalog entry for action %q, defaulting to not authorized"), actionID)
		return &CheckAuthorizationResponse{}, nil
	}

	outcome := def.For(caller.HasSession, caller.HasSession && caller.Session.IsActive)
	switch {
	case outcome == implicitauth.Yes:
		return &CheckAuthorizationResponse{IsAuthorized: true}, nil
	case outcome == implicitauth.No:
		return &CheckAuthorizationResponse{}, nil
	case outcome.RequiresAuthentication() && in.AllowInteractive:
		return &CheckAuthorizationResponse{IsChallenge: true, Detail: outcome.String()}, nil
	default:
		return &CheckAuthorizationResponse{Dismissed: true, Detail: outcome.String()}, nil
	}
}

// EnumerateActions implements AuthorityServer.
func (s *Server) EnumerateActions(ctx context.Context, in *EnumerateActionsRequest) (*EnumerateActionsResponse, error) {
	return &EnumerateActionsResponse{ActionIDs: s.Catalog.EnumerateActions(ctx)}, nil
}

// Revoke implements AuthorityServer.
func (s *Server) Revoke(ctx context.Context, in *RevokeRequest) (*RevokeResponse, error) {
	var malformed error
	recs := record.DecodeStream(in.RawLine, in.UID, func(line string, err error) { malformed = err })
	if malformed != nil || len(recs) != 1 {
		return nil, status.Error(codes.InvalidArgument, i18n.G("malformed authorization record"))
	}
	if err := s.DB.Revoke(ctx, recs[0]); err != nil {
		return nil, status.Error(codes.PermissionDenied, err.Error())
	}
	return &RevokeResponse{}, nil
}

// Invalidate implements AuthorityServer.
func (s *Server) Invalidate(ctx context.Context, in *InvalidateRequest) (*InvalidateResponse, error) {
	s.DB.Invalidate()
	return &InvalidateResponse{}, nil
}

// TemporaryAuthorizations implements AuthorityServer.
func (s *Server) TemporaryAuthorizations(ctx context.Context, in *TemporaryAuthorizationsRequest) (*TemporaryAuthorizationsResponse, error) {
	recs, err := s.DB.TemporaryAuthorizations(ctx, in.UID)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out := make([]TemporaryAuthorization, 0, len(recs))
	for _, r := range recs {
		out = append(out, TemporaryAuthorization{
			ActionID:    r.ActionID.ID(),
			Scope:       r.Scope.String(),
			WhenGranted: r.WhenGranted,
		})
	}
	return &TemporaryAuthorizationsResponse{Authorizations: out}, nil
}

// resolveCaller turns a wire subject into the decision.Caller the
// engine needs: a unix-process subject never carries its own uid
// (§3), so it is filled in from the connection's SO_PEERCRED
// credentials (internal/rpcauth) when they match the claimed pid,
// matching the transport-trust model of servercreds.go. Its session,
// when one exists, is then looked up for REQUIRE-LOCAL/ACTIVE and
// session-scope matching. ResolveExePath and SELinuxContext are bound
// to internal/sysinfo so REQUIRE-EXE and REQUIRE-SELINUX-CONTEXT
// constraints can be matched lazily, only when a record actually
// requires them.
func (s *Server) resolveCaller(ctx context.Context, subj subject.Subject) (decision.Caller, error) {
	if subj.Kind() == subject.KindUnixProcess {
		if _, hasUID := subj.UID(); !hasUID {
			if pc, ok := rpcauth.FromContext(ctx); ok && pc.PID == subj.PID() {
				subj = subject.NewUnixProcessWithUID(subj.PID(), subj.StartTime(), pc.UID)
			}
		}
	}

	caller := decision.Caller{Subject: subj}
	if subj.Kind() != subject.KindUnixProcess {
		return caller, nil
	}

	if s.Proc != nil {
		pid := subj.PID()
		caller.ResolveExePath = func(ctx context.Context) (string, bool) { return s.Proc.ExePath(ctx, pid) }
		caller.SELinuxContext = func(ctx context.Context) (string, bool) { return s.Proc.SELinuxContext(ctx, pid) }
		if start, err := s.Proc.StartTime(ctx, pid); err == nil && start != subj.StartTime() {
			log.Debugf(ctx, i18n.G("pid %d start time %d doesn't match claimed %d, pid has been recycled"), pid, start, subj.StartTime())
			return decision.Caller{}, fmt.Errorf(i18n.G("process %d is no longer the one that made the request"), pid)
		}
	}

	if s.Sessions == nil {
		return caller, nil
	}
	sess, ok, err := s.Sessions.SessionOf(ctx, subj.PID())
	if err != nil {
		return decision.Caller{}, fmt.Errorf(i18n.G("resolving session for pid %d: %w"), subj.PID(), err)
	}
	if ok {
		caller.Session = sess
		caller.HasSession = true
	}
	return caller, nil
}
