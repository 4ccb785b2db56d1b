package tron

import (
	"context"

	"github.com/ybbus/jsonrpc/v3"
)

type MockRPCClient struct {
	CallFunc    func(ctx context.Context, method string, params ...interface{}) (*jsonrpc.RPCResponse, error)
	CallForFunc func(ctx context.Context, out interface{}, method string, params ...interface{}) error
}

func (m *MockRPCClient) Call(ctx context.Context, method string, params ...interface{}) (*jsonrpc.RPCResponse, error) {
	if m.CallFunc != nil {
		return m.CallFunc(ctx, method, params...)
	}

	return &jsonrpc.RPCResponse{}, nil
}

func (m *MockRPCClient) CallRaw(ctx context.Context, request *jsonrpc.RPCRequest) (*jsonrpc.RPCResponse, error) {
	return &jsonrpc.RPCResponse{}, nil
}

func (m *MockRPCClient) CallFor(ctx context.Context, out interface{}, method string, params ...interface{}) error {
	if m.CallForFunc != nil {
		return m.CallForFunc(ctx, out, method, params...)
	}

	return nil
}

func (m *MockRPCClient) CallBatch(ctx context.Context, requests jsonrpc.RPCRequests) (jsonrpc.RPCResponses, error) {
	return nil, nil
}

func (m *MockRPCClient) CallBatchRaw(ctx context.Context, requests jsonrpc.RPCRequests) (jsonrpc.RPCResponses, error) {
	return nil, nil
}
