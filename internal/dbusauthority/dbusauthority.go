// Package dbusauthority exports the authority's decision surface as a
// D-Bus object shaped like org.freedesktop.PolicyKit1.Authority, the
// well-known interface polkit clients (pkexec, desktop session
// managers) already speak, so existing D-Bus callers need no changes
// to use this core.
package dbusauthority

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/ubuntu/authorityd/internal/i18n"
	"github.com/ubuntu/authorityd/internal/log"
	"github.com/ubuntu/authorityd/internal/rpc"
	"github.com/ubuntu/authorityd/internal/subject"
)

const (
	busName    = "org.freedesktop.PolicyKit1"
	objectPath = "/org/freedesktop/PolicyKit1/Authority"
	ifaceName  = "org.freedesktop.PolicyKit1.Authority"
)

// wireSubject mirrors polkit's (sa{sv}) Subject struct: a kind tag
// ("unix-process", "unix-session", "system-bus-name") plus a details
// map whose keys depend on the kind.
type wireSubject struct {
	Kind    string
	Details map[string]dbus.Variant
}

// wireResult mirrors polkit's (bba{ss}) AuthorizationResult struct.
type wireResult struct {
	IsAuthorized bool
	IsChallenge  bool
	Details      map[string]string
}

func (w wireSubject) toSubject(senderName dbus.Sender) (subject.Subject, error) {
	switch w.Kind {
	case "unix-process":
		pid, _ := w.Details["pid"].Value().(uint32)
		startTime, _ := w.Details["start-time"].Value().(uint64)
		return subject.NewUnixProcess(int32(pid), startTime), nil
	case "unix-session":
		id, _ := w.Details["session-id"].Value().(string)
		return subject.NewUnixSession(id), nil
	case "system-bus-name":
		name, _ := w.Details["name"].Value().(string)
		if name == "" {
			// Polkit's own convention: an empty bus name means "the caller
			// that sent this very message".
			name = string(senderName)
		}
		return subject.NewSystemBusName(name), nil
	default:
		return subject.Subject{}, fmt.Errorf(i18n.G("unknown D-Bus subject kind %q"), w.Kind)
	}
}

// Authority is the exported object. It delegates every call to the
// same composition logic as the admin gRPC surface (internal/rpc), so
// a D-Bus caller and a gRPC caller see identical decisions.
type Authority struct {
	conn   *dbus.Conn
	server *rpc.Server
}

// Export connects to the system bus, exports Authority at the
// well-known polkit path/interface and requests the well-known name.
// It returns the object so the caller can close its connection on
// shutdown.
func Export(server *rpc.Server) (*Authority, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf(i18n.G("couldn't connect to system bus: %w"), err)
	}

	a := &Authority{conn: conn, server: server}
	if err := conn.Export(a, objectPath, ifaceName); err != nil {
		conn.Close()
		return nil, fmt.Errorf(i18n.G("couldn't export %s: %w"), ifaceName, err)
	}

	reply, err := conn.RequestName(busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf(i18n.G("couldn't request bus name %s: %w"), busName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return nil, fmt.Errorf(i18n.G("bus name %s is already owned"), busName)
	}

	return a, nil
}

// Close releases the well-known name and closes the bus connection.
func (a *Authority) Close() error {
	if _, err := a.conn.ReleaseName(busName); err != nil {
		log.Debugf(context.Background(), i18n.G("releasing bus name %s: %v"), busName, err)
	}
	return a.conn.Close()
}

// CheckAuthorization implements org.freedesktop.PolicyKit1.Authority.CheckAuthorization.
func (a *Authority) CheckAuthorization(subj wireSubject, actionID string, details map[string]string, flags uint32, cancellationID string, sender dbus.Sender) (wireResult, *dbus.Error) {
	ctx := context.Background()

	s, err := subj.toSubject(sender)
	if err != nil {
		return wireResult{}, dbus.MakeFailedError(err)
	}

	const allowUserInteractionFlag = 0x1
	resp, err := a.server.CheckAuthorization(ctx, &rpc.CheckAuthorizationRequest{
		ActionID:         actionID,
		Subject:          s.String(),
		AllowInteractive: flags&allowUserInteractionFlag != 0,
	})
	if err != nil {
		return wireResult{}, dbus.MakeFailedError(err)
	}

	result := wireResult{IsAuthorized: resp.IsAuthorized, IsChallenge: resp.IsChallenge, Details: map[string]string{}}
	if resp.Detail != "" {
		result.Details["detail"] = resp.Detail
	}
	return result, nil
}

// EnumerateActions implements org.freedesktop.PolicyKit1.Authority.EnumerateActions.
func (a *Authority) EnumerateActions(localeTag string) ([]string, *dbus.Error) {
	resp, err := a.server.EnumerateActions(context.Background(), &rpc.EnumerateActionsRequest{})
	if err != nil {
		return nil, dbus.MakeFailedError(err)
	}
	return resp.ActionIDs, nil
}

// RegisterAuthenticationAgent implements the matching polkit call. A
// native agent registration (as opposed to the line-oriented
// grant-helper conversation of §4.5) is not modeled by this core;
// calls succeed as a no-op so existing agents don't fail to start.
func (a *Authority) RegisterAuthenticationAgent(subj wireSubject, locale, objectPath string) *dbus.Error {
	return nil
}
