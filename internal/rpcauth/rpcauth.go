// Package rpcauth extracts the uid and pid of the peer connecting to
// the admin control-plane unix socket via SO_PEERCRED, and attaches
// them to the grpc context as credentials.AuthInfo so internal/rpc can
// resolve the calling Subject without trusting the uid the client
// claims about itself.
package rpcauth

import (
	"context"
	"fmt"
	"net"

	"golang.org/x/sys/unix"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/peer"
)

// WithUnixPeerCreds returns the grpc.ServerOption wiring up SO_PEERCRED
// based transport credentials for a unix-domain listener.
func WithUnixPeerCreds() grpc.ServerOption {
	return grpc.Creds(serverPeerCreds{})
}

// serverPeerCreds is a credentials.TransportCredentials which reads
// uid/pid off the kernel's socket credential, rather than anything
// presented over the wire.
type serverPeerCreds struct{}

func (serverPeerCreds) ServerHandshake(conn net.Conn) (net.Conn, credentials.AuthInfo, error) {
	uc, ok := conn.(*net.UnixConn)
	if !ok {
		return conn, nil, fmt.Errorf("rpcauth: not a unix socket connection")
	}

	raw, err := uc.SyscallConn()
	if err != nil {
		return conn, nil, fmt.Errorf("rpcauth: opening raw connection: %w", err)
	}

	var cred *unix.Ucred
	var credErr error
	if ctrlErr := raw.Control(func(fd uintptr) {
		cred, credErr = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	}); ctrlErr != nil {
		return conn, nil, fmt.Errorf("rpcauth: Control(): %w", ctrlErr)
	}
	if credErr != nil {
		return conn, nil, fmt.Errorf("rpcauth: GetsockoptUcred(): %w", credErr)
	}

	return conn, PeerCreds{UID: cred.Uid, PID: cred.Pid}, nil
}

func (serverPeerCreds) ClientHandshake(ctx context.Context, authority string, conn net.Conn) (net.Conn, credentials.AuthInfo, error) {
	return conn, nil, nil
}
func (serverPeerCreds) Info() credentials.ProtocolInfo           { return credentials.ProtocolInfo{} }
func (serverPeerCreds) Clone() credentials.TransportCredentials  { return nil }
func (serverPeerCreds) OverrideServerName(s string) error        { return nil }

// PeerCreds is the credentials.AuthInfo carrying the caller's kernel
// socket credentials.
type PeerCreds struct {
	UID uint32
	PID int32
}

// AuthType implements credentials.AuthInfo.
func (p PeerCreds) AuthType() string {
	return fmt.Sprintf("uid=%d,pid=%d", p.UID, p.PID)
}

// FromContext extracts the PeerCreds attached to a grpc request
// context by the unix-socket listener, reporting false if the context
// carries no grpc peer or was not authenticated via WithUnixPeerCreds.
func FromContext(ctx context.Context) (PeerCreds, bool) {
	p, ok := peer.FromContext(ctx)
	if !ok {
		return PeerCreds{}, false
	}
	pc, ok := p.AuthInfo.(PeerCreds)
	return pc, ok
}
