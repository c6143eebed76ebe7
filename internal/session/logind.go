package session

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/ubuntu/authorityd/internal/i18n"
	"github.com/ubuntu/authorityd/internal/log"
)

const (
	logindDest       = "org.freedesktop.login1"
	logindObjectPath = "/org/freedesktop/login1"
	logindManagerIfc = "org.freedesktop.login1.Manager"
	logindSessionIfc = "org.freedesktop.login1.Session"
)

// caller is the subset of *dbus.Conn the adapter needs, abstracted so
// tests can substitute a fake bus connection.
type caller interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
}

// LogindService is the production Service backed by systemd-logind.
type LogindService struct {
	bus caller
}

// NewLogindService connects to the system bus and returns a Service
// backed by logind.
func NewLogindService() (*LogindService, error) {
	bus, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf(i18n.G("couldn't connect to system bus: %w"), err)
	}
	return &LogindService{bus: bus}, nil
}

// WithCaller overrides the D-Bus connection, for tests.
func WithCaller(c caller) func(*LogindService) {
	return func(s *LogindService) { s.bus = c }
}

// NewLogindServiceWith builds a LogindService against an arbitrary caller.
func NewLogindServiceWith(opts ...func(*LogindService)) *LogindService {
	s := &LogindService{}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SessionOf implements Service.
func (s *LogindService) SessionOf(ctx context.Context, pid int32) (Session, bool, error) {
	manager := s.bus.Object(logindDest, logindObjectPath)
	var path dbus.ObjectPath
	if err := manager.CallWithContext(ctx, logindManagerIfc+".GetSessionByPID", 0, uint32(pid)).Store(&path); err != nil {
		log.Debugf(ctx, i18n.G("logind: no session for pid %d: %v"), pid, err)
		return Session{}, false, nil
	}
	sess, err := s.sessionFromPath(ctx, path)
	if err != nil {
		return Session{}, false, err
	}
	return sess, true, nil
}

// BySessionID implements Service.
func (s *LogindService) BySessionID(ctx context.Context, id string) (Session, bool, error) {
	manager := s.bus.Object(logindDest, logindObjectPath)
	var path dbus.ObjectPath
	if err := manager.CallWithContext(ctx, logindManagerIfc+".GetSession", 0, id).Store(&path); err != nil {
		return Session{}, false, nil
	}
	sess, err := s.sessionFromPath(ctx, path)
	if err != nil {
		return Session{}, false, err
	}
	return sess, true, nil
}

func (s *LogindService) sessionFromPath(ctx context.Context, path dbus.ObjectPath) (Session, error) {
	obj := s.bus.Object(logindDest, path)

	id, err := getStringProp(ctx, obj, logindSessionIfc, "Id")
	if err != nil {
		return Session{}, err
	}
	active, err := getBoolProp(ctx, obj, logindSessionIfc, "Active")
	if err != nil {
		return Session{}, err
	}
	remote, err := getBoolProp(ctx, obj, logindSessionIfc, "Remote")
	if err != nil {
		return Session{}, err
	}
	remoteHost := ""
	if remote {
		remoteHost, _ = getStringProp(ctx, obj, logindSessionIfc, "RemoteHost")
	}

	var seat Seat
	if seatID, err := getSeatID(ctx, obj); err == nil && seatID != "" {
		seat, _ = ParseSeat(seatID)
	}

	uid, err := getUint32UserProp(ctx, obj)
	if err != nil {
		return Session{}, err
	}

	return Session{
		ID:         id,
		UID:        uid,
		Seat:       seat,
		IsLocal:    !remote,
		IsActive:   active,
		RemoteHost: remoteHost,
	}, nil
}

func getProp(ctx context.Context, obj dbus.BusObject, ifc, prop string) (dbus.Variant, error) {
	var v dbus.Variant
	err := obj.CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0, ifc, prop).Store(&v)
	return v, err
}

func getStringProp(ctx context.Context, obj dbus.BusObject, ifc, prop string) (string, error) {
	v, err := getProp(ctx, obj, ifc, prop)
	if err != nil {
		return "", err
	}
	s, _ := v.Value().(string)
	return s, nil
}

func getBoolProp(ctx context.Context, obj dbus.BusObject, ifc, prop string) (bool, error) {
	v, err := getProp(ctx, obj, ifc, prop)
	if err != nil {
		return false, err
	}
	b, _ := v.Value().(bool)
	return b, nil
}

// getSeatID reads the (id, path) Seat property, tolerating an absent seat.
func getSeatID(ctx context.Context, obj dbus.BusObject) (string, error) {
	v, err := getProp(ctx, obj, logindSessionIfc, "Seat")
	if err != nil {
		return "", err
	}
	pair, ok := v.Value().([]interface{})
	if !ok || len(pair) == 0 {
		return "", nil
	}
	id, _ := pair[0].(string)
	return id, nil
}

// getUint32UserProp reads the (uid, path) User property.
func getUint32UserProp(ctx context.Context, obj dbus.BusObject) (uint32, error) {
	v, err := getProp(ctx, obj, logindSessionIfc, "User")
	if err != nil {
		return 0, err
	}
	pair, ok := v.Value().([]interface{})
	if !ok || len(pair) == 0 {
		return 0, nil
	}
	uid, _ := pair[0].(uint32)
	return uid, nil
}
