// Package rpc implements the admin control-plane RPC surface: a
// hand-registered grpc.ServiceDesc (§6, "transport layer to remote
// callers ... out of scope; the core receives an already-resolved
// subject") served over the unix-domain socket, authenticated by
// internal/rpcauth's SO_PEERCRED credentials and encoded with the
// JSON codec in codec.go rather than generated protobuf stubs.
package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const serviceName = "authority.v1.Authority"

// AuthorityServer is implemented by the daemon side.
type AuthorityServer interface {
	CheckAuthorization(context.Context, *CheckAuthorizationRequest) (*CheckAuthorizationResponse, error)
	EnumerateActions(context.Context, *EnumerateActionsRequest) (*EnumerateActionsResponse, error)
	Revoke(context.Context, *RevokeRequest) (*RevokeResponse, error)
	Invalidate(context.Context, *InvalidateRequest) (*InvalidateResponse, error)
	TemporaryAuthorizations(context.Context, *TemporaryAuthorizationsRequest) (*TemporaryAuthorizationsResponse, error)
}

func decodeInto(dec func(interface{}) error, v interface{}) error {
	return dec(v)
}

func _Authority_CheckAuthorization_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CheckAuthorizationRequest)
	if err := decodeInto(dec, in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuthorityServer).CheckAuthorization(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/CheckAuthorization"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AuthorityServer).CheckAuthorization(ctx, req.(*CheckAuthorizationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Authority_EnumerateActions_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(EnumerateActionsRequest)
	if err := decodeInto(dec, in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuthorityServer).EnumerateActions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/EnumerateActions"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AuthorityServer).EnumerateActions(ctx, req.(*EnumerateActionsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Authority_Revoke_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RevokeRequest)
	if err := decodeInto(dec, in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuthorityServer).Revoke(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Revoke"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AuthorityServer).Revoke(ctx, req.(*RevokeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Authority_Invalidate_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(InvalidateRequest)
	if err := decodeInto(dec, in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuthorityServer).Invalidate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Invalidate"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AuthorityServer).Invalidate(ctx, req.(*InvalidateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Authority_TemporaryAuthorizations_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(TemporaryAuthorizationsRequest)
	if err := decodeInto(dec, in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuthorityServer).TemporaryAuthorizations(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/TemporaryAuthorizations"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AuthorityServer).TemporaryAuthorizations(ctx, req.(*TemporaryAuthorizationsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc is the hand-registered grpc service descriptor standing
// in for protoc-generated code.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*AuthorityServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CheckAuthorization", Handler: _Authority_CheckAuthorization_Handler},
		{MethodName: "EnumerateActions", Handler: _Authority_EnumerateActions_Handler},
		{MethodName: "Revoke", Handler: _Authority_Revoke_Handler},
		{MethodName: "Invalidate", Handler: _Authority_Invalidate_Handler},
		{MethodName: "TemporaryAuthorizations", Handler: _Authority_TemporaryAuthorizations_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "authority.proto",
}

// RegisterAuthorityServer registers srv on s under ServiceDesc.
func RegisterAuthorityServer(s *grpc.Server, srv AuthorityServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client is a thin hand-written stub over grpc.ClientConn, calling
// with the "json" content-subtype so the server's jsonCodec decodes
// it (see codec.go).
type Client struct {
	cc *grpc.ClientConn
}

// NewClient wraps an established connection.
func NewClient(cc *grpc.ClientConn) *Client {
	return &Client{cc: cc}
}

func (c *Client) opts() []grpc.CallOption {
	return []grpc.CallOption{grpc.CallContentSubtype(jsonCodec{}.Name())}
}

// CheckAuthorization calls the CheckAuthorization RPC.
func (c *Client) CheckAuthorization(ctx context.Context, in *CheckAuthorizationRequest) (*CheckAuthorizationResponse, error) {
	out := new(CheckAuthorizationResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/CheckAuthorization", in, out, c.opts()...); err != nil {
		return nil, err
	}
	return out, nil
}

// EnumerateActions calls the EnumerateActions RPC.
func (c *Client) EnumerateActions(ctx context.Context, in *EnumerateActionsRequest) (*EnumerateActionsResponse, error) {
	out := new(EnumerateActionsResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/EnumerateActions", in, out, c.opts()...); err != nil {
		return nil, err
	}
	return out, nil
}

// Revoke calls the Revoke RPC.
func (c *Client) Revoke(ctx context.Context, in *RevokeRequest) (*RevokeResponse, error) {
	out := new(RevokeResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Revoke", in, out, c.opts()...); err != nil {
		return nil, err
	}
	return out, nil
}

// Invalidate calls the Invalidate RPC.
func (c *Client) Invalidate(ctx context.Context, in *InvalidateRequest) (*InvalidateResponse, error) {
	out := new(InvalidateResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Invalidate", in, out, c.opts()...); err != nil {
		return nil, err
	}
	return out, nil
}

// TemporaryAuthorizations calls the TemporaryAuthorizations RPC.
func (c *Client) TemporaryAuthorizations(ctx context.Context, in *TemporaryAuthorizationsRequest) (*TemporaryAuthorizationsResponse, error) {
	out := new(TemporaryAuthorizationsResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/TemporaryAuthorizations", in, out, c.opts()...); err != nil {
		return nil, err
	}
	return out, nil
}
