package session_test

import (
	"context"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ubuntu/authorityd/internal/session"
)

// fakeBusObject implements dbus.BusObject, routing method calls and
// property gets to scripted responses.
type fakeBusObject struct {
	path      dbus.ObjectPath
	onCall    func(method string, args []interface{}) ([]interface{}, error)
}

func (f *fakeBusObject) call(method string, args []interface{}) *dbus.Call {
	ret, err := f.onCall(method, args)
	return &dbus.Call{Err: err, Body: ret}
}

func (f *fakeBusObject) Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	return f.call(method, args)
}
func (f *fakeBusObject) CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	return f.call(method, args)
}
func (f *fakeBusObject) Go(method string, flags dbus.Flags, ch chan *dbus.Call, args ...interface{}) *dbus.Call {
	return f.call(method, args)
}
func (f *fakeBusObject) GoWithContext(ctx context.Context, method string, flags dbus.Flags, ch chan *dbus.Call, args ...interface{}) *dbus.Call {
	return f.call(method, args)
}
func (f *fakeBusObject) AddMatchSignal(iface, member string, options ...dbus.MatchOption) *dbus.Call {
	return &dbus.Call{}
}
func (f *fakeBusObject) RemoveMatchSignal(iface, member string, options ...dbus.MatchOption) *dbus.Call {
	return &dbus.Call{}
}
func (f *fakeBusObject) GetProperty(p string) (dbus.Variant, error) { return dbus.Variant{}, nil }
func (f *fakeBusObject) StoreProperty(p string, value interface{}) error { return nil }
func (f *fakeBusObject) Destination() string                            { return "" }
func (f *fakeBusObject) Path() dbus.ObjectPath                          { return f.path }

// fakeBus implements the session.caller interface used by LogindService.
type fakeBus struct {
	manager *fakeBusObject
	session *fakeBusObject
}

func (b *fakeBus) Object(dest string, path dbus.ObjectPath) dbus.BusObject {
	if path == "/org/freedesktop/login1" {
		return b.manager
	}
	return b.session
}

func TestSessionOf(t *testing.T) {
	t.Parallel()

	sessionObj := &fakeBusObject{
		path: "/org/freedesktop/login1/session/_31",
		onCall: func(method string, args []interface{}) ([]interface{}, error) {
			require.Equal(t, "org.freedesktop.DBus.Properties.Get", method)
			iface := args[0].(string)
			prop := args[1].(string)
			require.Equal(t, "org.freedesktop.login1.Session", iface)
			switch prop {
			case "Id":
				return []interface{}{dbus.MakeVariant("1")}, nil
			case "Active":
				return []interface{}{dbus.MakeVariant(true)}, nil
			case "Remote":
				return []interface{}{dbus.MakeVariant(false)}, nil
			case "Seat":
				return []interface{}{dbus.MakeVariant([]interface{}{"seat0", dbus.ObjectPath("/org/freedesktop/login1/seat/seat0")})}, nil
			case "User":
				return []interface{}{dbus.MakeVariant([]interface{}{uint32(1000), dbus.ObjectPath("/org/freedesktop/login1/user/_1000")})}, nil
			}
			return nil, nil
		},
	}
	managerObj := &fakeBusObject{
		path: "/org/freedesktop/login1",
		onCall: func(method string, args []interface{}) ([]interface{}, error) {
			require.Equal(t, "org.freedesktop.login1.Manager.GetSessionByPID", method)
			return []interface{}{dbus.ObjectPath("/org/freedesktop/login1/session/_31")}, nil
		},
	}

	svc := session.NewLogindServiceWith(session.WithCaller(&fakeBus{manager: managerObj, session: sessionObj}))

	s, ok, err := svc.SessionOf(context.Background(), 4242)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", s.ID)
	assert.True(t, s.IsActive)
	assert.True(t, s.IsLocal)
	assert.Equal(t, uint32(1000), s.UID)
	assert.Equal(t, "seat0", s.Seat.ID())
}
