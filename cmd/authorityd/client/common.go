package client

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ubuntu/authorityd/internal/config"
	"github.com/ubuntu/authorityd/internal/i18n"
	"github.com/ubuntu/authorityd/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// newClient dials the authority daemon over its unix socket and
// returns a thin rpc.Client plus a closer for the underlying
// connection.
func newClient() (*rpc.Client, func() error, error) {
	socket := config.DefaultSocket
	conn, err := grpc.Dial(socket,
		grpc.WithInsecure(),
		grpc.WithContextDialer(func(ctx context.Context, addr string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socket)
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf(i18n.G("couldn't connect to authority daemon: %v"), err)
	}
	return rpc.NewClient(conn), conn.Close, nil
}

// checkConn unwraps an rpc error into a user-facing message, flagging
// an unreachable daemon distinctly.
func checkConn(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	if st.Code() == codes.Unavailable {
		return fmt.Errorf(i18n.G("couldn't connect to authority daemon: %v"), st.Message())
	}
	return errors.New(st.Message())
}

func clientContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.DefaultClientTimeout)
}
