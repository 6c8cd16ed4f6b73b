package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

const EntryServiceName = "splitledger.v1.EntryService"

var (
	EntryServiceCreateEntryProcedure = procedure(EntryServiceName, "CreateEntry")
	EntryServiceGetEntryProcedure    = procedure(EntryServiceName, "GetEntry")
	EntryServiceListEntriesProcedure = procedure(EntryServiceName, "ListEntries")
	EntryServiceUpdateEntryProcedure = procedure(EntryServiceName, "UpdateEntry")
	EntryServiceDeleteEntryProcedure = procedure(EntryServiceName, "DeleteEntry")
)

// EntryServiceHandler manages the expenses recorded in a group.
type EntryServiceHandler interface {
	CreateEntry(context.Context, *connect.Request[api.CreateEntryRequest]) (*connect.Response[api.EntryResponse], error)
	GetEntry(context.Context, *connect.Request[api.GetEntryRequest]) (*connect.Response[api.EntryResponse], error)
	ListEntries(context.Context, *connect.Request[api.ListEntriesRequest]) (*connect.Response[api.ListEntriesResponse], error)
	UpdateEntry(context.Context, *connect.Request[api.UpdateEntryRequest]) (*connect.Response[api.EntryResponse], error)
	DeleteEntry(context.Context, *connect.Request[api.DeleteEntryRequest]) (*connect.Response[api.Empty], error)
}

func NewEntryServiceHandler(svc EntryServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(EntryServiceCreateEntryProcedure, connect.NewUnaryHandler(EntryServiceCreateEntryProcedure, svc.CreateEntry, opts...))
	mux.Handle(EntryServiceGetEntryProcedure, connect.NewUnaryHandler(EntryServiceGetEntryProcedure, svc.GetEntry, opts...))
	mux.Handle(EntryServiceListEntriesProcedure, connect.NewUnaryHandler(EntryServiceListEntriesProcedure, svc.ListEntries, opts...))
	mux.Handle(EntryServiceUpdateEntryProcedure, connect.NewUnaryHandler(EntryServiceUpdateEntryProcedure, svc.UpdateEntry, opts...))
	mux.Handle(EntryServiceDeleteEntryProcedure, connect.NewUnaryHandler(EntryServiceDeleteEntryProcedure, svc.DeleteEntry, opts...))
	return "/" + EntryServiceName + "/", mux
}

type EntryServiceClient interface {
	CreateEntry(context.Context, *connect.Request[api.CreateEntryRequest]) (*connect.Response[api.EntryResponse], error)
	GetEntry(context.Context, *connect.Request[api.GetEntryRequest]) (*connect.Response[api.EntryResponse], error)
	ListEntries(context.Context, *connect.Request[api.ListEntriesRequest]) (*connect.Response[api.ListEntriesResponse], error)
	UpdateEntry(context.Context, *connect.Request[api.UpdateEntryRequest]) (*connect.Response[api.EntryResponse], error)
	DeleteEntry(context.Context, *connect.Request[api.DeleteEntryRequest]) (*connect.Response[api.Empty], error)
}

func NewEntryServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) EntryServiceClient {
	baseURL = trimBaseURL(baseURL)
	opts = clientOptions(opts)
	return &entryServiceClient{
		createEntry: connect.NewClient[api.CreateEntryRequest, api.EntryResponse](httpClient, baseURL+EntryServiceCreateEntryProcedure, opts...),
		getEntry:    connect.NewClient[api.GetEntryRequest, api.EntryResponse](httpClient, baseURL+EntryServiceGetEntryProcedure, opts...),
		listEntries: connect.NewClient[api.ListEntriesRequest, api.ListEntriesResponse](httpClient, baseURL+EntryServiceListEntriesProcedure, opts...),
		updateEntry: connect.NewClient[api.UpdateEntryRequest, api.EntryResponse](httpClient, baseURL+EntryServiceUpdateEntryProcedure, opts...),
		deleteEntry: connect.NewClient[api.DeleteEntryRequest, api.Empty](httpClient, baseURL+EntryServiceDeleteEntryProcedure, opts...),
	}
}

type entryServiceClient struct {
	createEntry *connect.Client[api.CreateEntryRequest, api.EntryResponse]
	getEntry    *connect.Client[api.GetEntryRequest, api.EntryResponse]
	listEntries *connect.Client[api.ListEntriesRequest, api.ListEntriesResponse]
	updateEntry *connect.Client[api.UpdateEntryRequest, api.EntryResponse]
	deleteEntry *connect.Client[api.DeleteEntryRequest, api.Empty]
}

func (c *entryServiceClient) CreateEntry(ctx context.Context, req *connect.Request[api.CreateEntryRequest]) (*connect.Response[api.EntryResponse], error) {
	return c.createEntry.CallUnary(ctx, req)
}

func (c *entryServiceClient) GetEntry(ctx context.Context, req *connect.Request[api.GetEntryRequest]) (*connect.Response[api.EntryResponse], error) {
	return c.getEntry.CallUnary(ctx, req)
}

func (c *entryServiceClient) ListEntries(ctx context.Context, req *connect.Request[api.ListEntriesRequest]) (*connect.Response[api.ListEntriesResponse], error) {
	return c.listEntries.CallUnary(ctx, req)
}

func (c *entryServiceClient) UpdateEntry(ctx context.Context, req *connect.Request[api.UpdateEntryRequest]) (*connect.Response[api.EntryResponse], error) {
	return c.updateEntry.CallUnary(ctx, req)
}

func (c *entryServiceClient) DeleteEntry(ctx context.Context, req *connect.Request[api.DeleteEntryRequest]) (*connect.Response[api.Empty], error) {
	return c.deleteEntry.CallUnary(ctx, req)
}
