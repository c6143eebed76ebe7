// Package daemon wires the authority's components (decision engine,
// authorization database, policy catalog, session service) into a
// running server: a grpc.Server over a unix socket carrying
// internal/rpc's admin control-plane surface, plus, best-effort, the
// D-Bus Authority export of internal/dbusauthority.
package daemon

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/activation"
	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/ubuntu/authorityd/internal/authdb"
	"github.com/ubuntu/authorityd/internal/catalog"
	"github.com/ubuntu/authorityd/internal/config"
	"github.com/ubuntu/authorityd/internal/dbusauthority"
	"github.com/ubuntu/authorityd/internal/decision"
	"github.com/ubuntu/authorityd/internal/i18n"
	"github.com/ubuntu/authorityd/internal/log"
	"github.com/ubuntu/authorityd/internal/rpc"
	"github.com/ubuntu/authorityd/internal/rpcauth"
	"github.com/ubuntu/authorityd/internal/session"
	"github.com/ubuntu/authorityd/internal/sysinfo"
	"google.golang.org/grpc"
)

// Server is the running authority daemon.
type Server struct {
	// RWRequest serializes callers that need exclusive access to a
	// shared resource across the lifetime of a request (none of the
	// core's own operations need it, but it is kept available for
	// handlers layered on top, following the teacher's convention).
	RWRequest sync.RWMutex

	socket     string
	lis        net.Listener
	grpcserver *grpc.Server
	rpcServer  *rpc.Server

	authority *dbusauthority.Authority

	idlerTimeout idler
}

// IdleTimeout changes server default idle timeout.
func IdleTimeout(timeout time.Duration) func(s *Server) error {
	return func(s *Server) error {
		s.idlerTimeout = newIdler(timeout)
		return nil
	}
}

// WithDBusExport attempts to export the D-Bus Authority object
// alongside the gRPC surface. Failure to own the bus name is logged,
// not fatal: a system without a functioning system bus (containers,
// tests) still gets a working gRPC admin surface.
func WithDBusExport() func(s *Server) error {
	return func(s *Server) error {
		a, err := dbusauthority.Export(s.rpcServer)
		if err != nil {
			log.Warningf(context.Background(), i18n.G("D-Bus Authority export unavailable: %v"), err)
			return nil
		}
		s.authority = a
		return nil
	}
}

// New returns a new, initialized daemon server, which handles systemd
// socket activation; socket is ignored when socket-activated.
func New(ctx context.Context, socket string, cfg config.Config, options ...func(s *Server) error) (*Server, error) {
	listeners, err := activation.Listeners()
	if err != nil {
		return nil, fmt.Errorf(i18n.G("cannot retrieve systemd listeners: %v"), err)
	}

	var lis net.Listener
	switch len(listeners) {
	case 0:
		l, err := net.Listen("unix", socket)
		if err != nil {
			return nil, fmt.Errorf(i18n.G("failed to listen on %q: %w"), socket, err)
		}
		os.Chmod(socket, 0666)
		lis = l
	case 1:
		socket = ""
		lis = listeners[0]
	default:
		return nil, fmt.Errorf(i18n.G("unexpected number of systemd socket activation (%d != 1)"), len(listeners))
	}

	db := authdb.New(authdb.HelperPaths{
		ReadAuthorizations:  cfg.Helpers.ReadAuthorizations,
		RevokeAuthorization: cfg.Helpers.RevokeAuthorization,
	})
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf(i18n.G("couldn't load policy catalog: %v"), err)
	}
	var sessions session.Service
	if ls, err := session.NewLogindService(); err != nil {
		log.Warningf(ctx, i18n.G("logind session service unavailable, session-scoped queries will be rejected: %v"), err)
	} else {
		sessions = ls
	}

	rpcServer := &rpc.Server{
		Engine:   decision.New(db),
		DB:       db,
		Catalog:  cat,
		Sessions: sessions,
		Proc:     sysinfo.ProcAdapter{ResolveExePath: cfg.Helpers.ResolveExe},
	}

	s := &Server{
		socket: socket,
		lis:    lis,

		rpcServer: rpcServer,

		idlerTimeout: newIdler(config.DefaultServerIdleTimeout),
	}

	grpcserver := grpc.NewServer(rpcauth.WithUnixPeerCreds(), grpc.UnaryInterceptor(s.trackRequestInterceptor))
	rpc.RegisterAuthorityServer(grpcserver, rpcServer)
	s.grpcserver = grpcserver

	for _, option := range options {
		if err := option(s); err != nil {
			log.Warningf(ctx, i18n.G("Couldn't apply option to server: %v"), err)
		}
	}

	go s.idlerTimeout.start(s)

	return s, nil
}

// Listen serves on its unix socket path. It handles systemd activation
// notification. When the server stops listening, the socket is
// removed automatically.
func (s *Server) Listen() error {
	log.Infof(context.Background(), i18n.G("Serving on %s"), s.lis.Addr().String())

	if sent, err := daemon.SdNotify(false, "READY=1"); err != nil {
		return fmt.Errorf(i18n.G("couldn't send ready notification to systemd while supported: %v"), err)
	} else if sent {
		log.Debug(context.Background(), i18n.G("Ready state sent to systemd"))
	}

	return s.grpcserver.Serve(s.lis)
}

// Stop gracefully stops the grpc server and releases the D-Bus name, if owned.
func (s *Server) Stop() {
	log.Debug(context.Background(), i18n.G("Stopping daemon requested. Wait for active requests to close"))
	s.grpcserver.GracefulStop()
	if s.authority != nil {
		if err := s.authority.Close(); err != nil {
			log.Debugf(context.Background(), i18n.G("closing D-Bus Authority export: %v"), err)
		}
	}
	log.Debug(context.Background(), i18n.G("All connections closed"))
}

// TrackRequest prevents the idling timeout from firing and returns the function to reset it.
func (s *Server) TrackRequest() func() {
	s.idlerTimeout.addRequest()
	return func() {
		log.Debugf(context.Background(), i18n.G("Reset idle timeout to %s"), s.idlerTimeout.timeout)
		s.idlerTimeout.endRequest()
	}
}

// trackRequestInterceptor wraps every unary RPC with TrackRequest,
// replacing the teacher's per-handler "defer s.TrackRequest()()" with
// a single grpc.UnaryServerInterceptor now that handlers live in
// internal/rpc rather than being generated directly on Server.
func (s *Server) trackRequestInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	done := s.TrackRequest()
	defer done()
	return handler(ctx, req)
}
