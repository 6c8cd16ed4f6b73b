package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

const SplitServiceName = "splitledger.v1.SplitService"

var (
	SplitServiceCreateEqualSplitsProcedure      = procedure(SplitServiceName, "CreateEqualSplits")
	SplitServiceCreatePercentageSplitsProcedure = procedure(SplitServiceName, "CreatePercentageSplits")
	SplitServiceCreateManualSplitsProcedure     = procedure(SplitServiceName, "CreateManualSplits")
	SplitServiceMarkSplitPaidProcedure          = procedure(SplitServiceName, "MarkSplitPaid")
	SplitServiceMarkSplitUnpaidProcedure        = procedure(SplitServiceName, "MarkSplitUnpaid")
	SplitServiceGetBalanceProcedure             = procedure(SplitServiceName, "GetBalance")
	SplitServiceGetMyBalanceProcedure           = procedure(SplitServiceName, "GetMyBalance")
	SplitServiceListUnpaidSplitsProcedure       = procedure(SplitServiceName, "ListUnpaidSplits")
	SplitServiceGetGroupBalancesProcedure       = procedure(SplitServiceName, "GetGroupBalances")
)

// SplitServiceHandler computes splits, records payments and reports balances.
type SplitServiceHandler interface {
	CreateEqualSplits(context.Context, *connect.Request[api.CreateEqualSplitsRequest]) (*connect.Response[api.EntryResponse], error)
	CreatePercentageSplits(context.Context, *connect.Request[api.CreatePercentageSplitsRequest]) (*connect.Response[api.EntryResponse], error)
	CreateManualSplits(context.Context, *connect.Request[api.CreateManualSplitsRequest]) (*connect.Response[api.EntryResponse], error)
	MarkSplitPaid(context.Context, *connect.Request[api.MarkSplitPaidRequest]) (*connect.Response[api.EntryResponse], error)
	MarkSplitUnpaid(context.Context, *connect.Request[api.MarkSplitUnpaidRequest]) (*connect.Response[api.EntryResponse], error)
	GetBalance(context.Context, *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error)
	GetMyBalance(context.Context, *connect.Request[api.GetMyBalanceRequest]) (*connect.Response[api.GetMyBalanceResponse], error)
	ListUnpaidSplits(context.Context, *connect.Request[api.ListUnpaidSplitsRequest]) (*connect.Response[api.ListUnpaidSplitsResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
}

// NewSplitServiceHandler returns the path prefix and handler to mount on a mux.
func NewSplitServiceHandler(svc SplitServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(SplitServiceCreateEqualSplitsProcedure, connect.NewUnaryHandler(SplitServiceCreateEqualSplitsProcedure, svc.CreateEqualSplits, opts...))
	mux.Handle(SplitServiceCreatePercentageSplitsProcedure, connect.NewUnaryHandler(SplitServiceCreatePercentageSplitsProcedure, svc.CreatePercentageSplits, opts...))
	mux.Handle(SplitServiceCreateManualSplitsProcedure, connect.NewUnaryHandler(SplitServiceCreateManualSplitsProcedure, svc.CreateManualSplits, opts...))
	mux.Handle(SplitServiceMarkSplitPaidProcedure, connect.NewUnaryHandler(SplitServiceMarkSplitPaidProcedure, svc.MarkSplitPaid, opts...))
	mux.Handle(SplitServiceMarkSplitUnpaidProcedure, connect.NewUnaryHandler(SplitServiceMarkSplitUnpaidProcedure, svc.MarkSplitUnpaid, opts...))
	mux.Handle(SplitServiceGetBalanceProcedure, connect.NewUnaryHandler(SplitServiceGetBalanceProcedure, svc.GetBalance, opts...))
	mux.Handle(SplitServiceGetMyBalanceProcedure, connect.NewUnaryHandler(SplitServiceGetMyBalanceProcedure, svc.GetMyBalance, opts...))
	mux.Handle(SplitServiceListUnpaidSplitsProcedure, connect.NewUnaryHandler(SplitServiceListUnpaidSplitsProcedure, svc.ListUnpaidSplits, opts...))
	mux.Handle(SplitServiceGetGroupBalancesProcedure, connect.NewUnaryHandler(SplitServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts...))
	return "/" + SplitServiceName + "/", mux
}

// SplitServiceClient is a client for the split service.
type SplitServiceClient interface {
	CreateEqualSplits(context.Context, *connect.Request[api.CreateEqualSplitsRequest]) (*connect.Response[api.EntryResponse], error)
	CreatePercentageSplits(context.Context, *connect.Request[api.CreatePercentageSplitsRequest]) (*connect.Response[api.EntryResponse], error)
	CreateManualSplits(context.Context, *connect.Request[api.CreateManualSplitsRequest]) (*connect.Response[api.EntryResponse], error)
	MarkSplitPaid(context.Context, *connect.Request[api.MarkSplitPaidRequest]) (*connect.Response[api.EntryResponse], error)
	MarkSplitUnpaid(context.Context, *connect.Request[api.MarkSplitUnpaidRequest]) (*connect.Response[api.EntryResponse], error)
	GetBalance(context.Context, *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error)
	GetMyBalance(context.Context, *connect.Request[api.GetMyBalanceRequest]) (*connect.Response[api.GetMyBalanceResponse], error)
	ListUnpaidSplits(context.Context, *connect.Request[api.ListUnpaidSplitsRequest]) (*connect.Response[api.ListUnpaidSplitsResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
}

// NewSplitServiceClient constructs a client for the split service at baseURL.
func NewSplitServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SplitServiceClient {
	baseURL = trimBaseURL(baseURL)
	opts = clientOptions(opts)
	return &splitServiceClient{
		createEqualSplits:      connect.NewClient[api.CreateEqualSplitsRequest, api.EntryResponse](httpClient, baseURL+SplitServiceCreateEqualSplitsProcedure, opts...),
		createPercentageSplits: connect.NewClient[api.CreatePercentageSplitsRequest, api.EntryResponse](httpClient, baseURL+SplitServiceCreatePercentageSplitsProcedure, opts...),
		createManualSplits:     connect.NewClient[api.CreateManualSplitsRequest, api.EntryResponse](httpClient, baseURL+SplitServiceCreateManualSplitsProcedure, opts...),
		markSplitPaid:          connect.NewClient[api.MarkSplitPaidRequest, api.EntryResponse](httpClient, baseURL+SplitServiceMarkSplitPaidProcedure, opts...),
		markSplitUnpaid:        connect.NewClient[api.MarkSplitUnpaidRequest, api.EntryResponse](httpClient, baseURL+SplitServiceMarkSplitUnpaidProcedure, opts...),
		getBalance:             connect.NewClient[api.GetBalanceRequest, api.GetBalanceResponse](httpClient, baseURL+SplitServiceGetBalanceProcedure, opts...),
		getMyBalance:           connect.NewClient[api.GetMyBalanceRequest, api.GetMyBalanceResponse](httpClient, baseURL+SplitServiceGetMyBalanceProcedure, opts...),
		listUnpaidSplits:       connect.NewClient[api.ListUnpaidSplitsRequest, api.ListUnpaidSplitsResponse](httpClient, baseURL+SplitServiceListUnpaidSplitsProcedure, opts...),
		getGroupBalances:       connect.NewClient[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse](httpClient, baseURL+SplitServiceGetGroupBalancesProcedure, opts...),
	}
}

type splitServiceClient struct {
	createEqualSplits      *connect.Client[api.CreateEqualSplitsRequest, api.EntryResponse]
	createPercentageSplits *connect.Client[api.CreatePercentageSplitsRequest, api.EntryResponse]
	createManualSplits     *connect.Client[api.CreateManualSplitsRequest, api.EntryResponse]
	markSplitPaid          *connect.Client[api.MarkSplitPaidRequest, api.EntryResponse]
	markSplitUnpaid        *connect.Client[api.MarkSplitUnpaidRequest, api.EntryResponse]
	getBalance             *connect.Client[api.GetBalanceRequest, api.GetBalanceResponse]
	getMyBalance           *connect.Client[api.GetMyBalanceRequest, api.GetMyBalanceResponse]
	listUnpaidSplits       *connect.Client[api.ListUnpaidSplitsRequest, api.ListUnpaidSplitsResponse]
	getGroupBalances       *connect.Client[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse]
}

func (c *splitServiceClient) CreateEqualSplits(ctx context.Context, req *connect.Request[api.CreateEqualSplitsRequest]) (*connect.Response[api.EntryResponse], error) {
	return c.createEqualSplits.CallUnary(ctx, req)
}

func (c *splitServiceClient) CreatePercentageSplits(ctx context.Context, req *connect.Request[api.CreatePercentageSplitsRequest]) (*connect.Response[api.EntryResponse], error) {
	return c.createPercentageSplits.CallUnary(ctx, req)
}

func (c *splitServiceClient) CreateManualSplits(ctx context.Context, req *connect.Request[api.CreateManualSplitsRequest]) (*connect.Response[api.EntryResponse], error) {
	return c.createManualSplits.CallUnary(ctx, req)
}

func (c *splitServiceClient) MarkSplitPaid(ctx context.Context, req *connect.Request[api.MarkSplitPaidRequest]) (*connect.Response[api.EntryResponse], error) {
	return c.markSplitPaid.CallUnary(ctx, req)
}

func (c *splitServiceClient) MarkSplitUnpaid(ctx context.Context, req *connect.Request[api.MarkSplitUnpaidRequest]) (*connect.Response[api.EntryResponse], error) {
	return c.markSplitUnpaid.CallUnary(ctx, req)
}

func (c *splitServiceClient) GetBalance(ctx context.Context, req *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error) {
	return c.getBalance.CallUnary(ctx, req)
}

func (c *splitServiceClient) GetMyBalance(ctx context.Context, req *connect.Request[api.GetMyBalanceRequest]) (*connect.Response[api.GetMyBalanceResponse], error) {
	return c.getMyBalance.CallUnary(ctx, req)
}

func (c *splitServiceClient) ListUnpaidSplits(ctx context.Context, req *connect.Request[api.ListUnpaidSplitsRequest]) (*connect.Response[api.ListUnpaidSplitsResponse], error) {
	return c.listUnpaidSplits.CallUnary(ctx, req)
}

func (c *splitServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}
