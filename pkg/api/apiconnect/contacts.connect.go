package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	api "github.com/naveen-gthb/khatabook/pkg/api"
)

// ContactServiceName is the fully-qualified name of the ContactService service.
const ContactServiceName = "khatabook.v1.ContactService"

const (
	ContactServiceCreateContactProcedure  = "/khatabook.v1.ContactService/CreateContact"
	ContactServiceGetContactProcedure     = "/khatabook.v1.ContactService/GetContact"
	ContactServiceListContactsProcedure   = "/khatabook.v1.ContactService/ListContacts"
	ContactServiceSearchContactsProcedure = "/khatabook.v1.ContactService/SearchContacts"
	ContactServiceUpdateContactProcedure  = "/khatabook.v1.ContactService/UpdateContact"
	ContactServiceDeleteContactProcedure  = "/khatabook.v1.ContactService/DeleteContact"
)

// ContactServiceClient is a client for the khatabook.v1.ContactService service.
type ContactServiceClient interface {
	CreateContact(context.Context, *connect.Request[api.CreateContactRequest]) (*connect.Response[api.CreateContactResponse], error)
	GetContact(context.Context, *connect.Request[api.GetContactRequest]) (*connect.Response[api.GetContactResponse], error)
	ListContacts(context.Context, *connect.Request[api.ListContactsRequest]) (*connect.Response[api.ListContactsResponse], error)
	SearchContacts(context.Context, *connect.Request[api.SearchContactsRequest]) (*connect.Response[api.SearchContactsResponse], error)
	UpdateContact(context.Context, *connect.Request[api.UpdateContactRequest]) (*connect.Response[api.UpdateContactResponse], error)
	DeleteContact(context.Context, *connect.Request[api.DeleteContactRequest]) (*connect.Response[api.DeleteContactResponse], error)
}

// NewContactServiceClient constructs a client for the khatabook.v1.ContactService service.
func NewContactServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ContactServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &contactServiceClient{
		createContact:  connect.NewClient[api.CreateContactRequest, api.CreateContactResponse](httpClient, baseURL+ContactServiceCreateContactProcedure, opts...),
		getContact:     connect.NewClient[api.GetContactRequest, api.GetContactResponse](httpClient, baseURL+ContactServiceGetContactProcedure, opts...),
		listContacts:   connect.NewClient[api.ListContactsRequest, api.ListContactsResponse](httpClient, baseURL+ContactServiceListContactsProcedure, opts...),
		searchContacts: connect.NewClient[api.SearchContactsRequest, api.SearchContactsResponse](httpClient, baseURL+ContactServiceSearchContactsProcedure, opts...),
		updateContact:  connect.NewClient[api.UpdateContactRequest, api.UpdateContactResponse](httpClient, baseURL+ContactServiceUpdateContactProcedure, opts...),
		deleteContact:  connect.NewClient[api.DeleteContactRequest, api.DeleteContactResponse](httpClient, baseURL+ContactServiceDeleteContactProcedure, opts...),
	}
}

type contactServiceClient struct {
	createContact  *connect.Client[api.CreateContactRequest, api.CreateContactResponse]
	getContact     *connect.Client[api.GetContactRequest, api.GetContactResponse]
	listContacts   *connect.Client[api.ListContactsRequest, api.ListContactsResponse]
	searchContacts *connect.Client[api.SearchContactsRequest, api.SearchContactsResponse]
	updateContact  *connect.Client[api.UpdateContactRequest, api.UpdateContactResponse]
	deleteContact  *connect.Client[api.DeleteContactRequest, api.DeleteContactResponse]
}

func (c *contactServiceClient) CreateContact(ctx context.Context, req *connect.Request[api.CreateContactRequest]) (*connect.Response[api.CreateContactResponse], error) {
	return c.createContact.CallUnary(ctx, req)
}

func (c *contactServiceClient) GetContact(ctx context.Context, req *connect.Request[api.GetContactRequest]) (*connect.Response[api.GetContactResponse], error) {
	return c.getContact.CallUnary(ctx, req)
}

func (c *contactServiceClient) ListContacts(ctx context.Context, req *connect.Request[api.ListContactsRequest]) (*connect.Response[api.ListContactsResponse], error) {
	return c.listContacts.CallUnary(ctx, req)
}

func (c *contactServiceClient) SearchContacts(ctx context.Context, req *connect.Request[api.SearchContactsRequest]) (*connect.Response[api.SearchContactsResponse], error) {
	return c.searchContacts.CallUnary(ctx, req)
}

func (c *contactServiceClient) UpdateContact(ctx context.Context, req *connect.Request[api.UpdateContactRequest]) (*connect.Response[api.UpdateContactResponse], error) {
	return c.updateContact.CallUnary(ctx, req)
}

func (c *contactServiceClient) DeleteContact(ctx context.Context, req *connect.Request[api.DeleteContactRequest]) (*connect.Response[api.DeleteContactResponse], error) {
	return c.deleteContact.CallUnary(ctx, req)
}

// ContactServiceHandler is an implementation of the khatabook.v1.ContactService service.
type ContactServiceHandler interface {
	CreateContact(context.Context, *connect.Request[api.CreateContactRequest]) (*connect.Response[api.CreateContactResponse], error)
	GetContact(context.Context, *connect.Request[api.GetContactRequest]) (*connect.Response[api.GetContactResponse], error)
	ListContacts(context.Context, *connect.Request[api.ListContactsRequest]) (*connect.Response[api.ListContactsResponse], error)
	SearchContacts(context.Context, *connect.Request[api.SearchContactsRequest]) (*connect.Response[api.SearchContactsResponse], error)
	UpdateContact(context.Context, *connect.Request[api.UpdateContactRequest]) (*connect.Response[api.UpdateContactResponse], error)
	DeleteContact(context.Context, *connect.Request[api.DeleteContactRequest]) (*connect.Response[api.DeleteContactResponse], error)
}

// NewContactServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewContactServiceHandler(svc ContactServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createContactHandler := connect.NewUnaryHandler(ContactServiceCreateContactProcedure, svc.CreateContact, opts...)
	getContactHandler := connect.NewUnaryHandler(ContactServiceGetContactProcedure, svc.GetContact, opts...)
	listContactsHandler := connect.NewUnaryHandler(ContactServiceListContactsProcedure, svc.ListContacts, opts...)
	searchContactsHandler := connect.NewUnaryHandler(ContactServiceSearchContactsProcedure, svc.SearchContacts, opts...)
	updateContactHandler := connect.NewUnaryHandler(ContactServiceUpdateContactProcedure, svc.UpdateContact, opts...)
	deleteContactHandler := connect.NewUnaryHandler(ContactServiceDeleteContactProcedure, svc.DeleteContact, opts...)
	return "/" + ContactServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ContactServiceCreateContactProcedure:
			createContactHandler.ServeHTTP(w, r)
		case ContactServiceGetContactProcedure:
			getContactHandler.ServeHTTP(w, r)
		case ContactServiceListContactsProcedure:
			listContactsHandler.ServeHTTP(w, r)
		case ContactServiceSearchContactsProcedure:
			searchContactsHandler.ServeHTTP(w, r)
		case ContactServiceUpdateContactProcedure:
			updateContactHandler.ServeHTTP(w, r)
		case ContactServiceDeleteContactProcedure:
			deleteContactHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedContactServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedContactServiceHandler struct{}

func (UnimplementedContactServiceHandler) CreateContact(context.Context, *connect.Request[api.CreateContactRequest]) (*connect.Response[api.CreateContactResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.ContactService.CreateContact is not implemented"))
}

func (UnimplementedContactServiceHandler) GetContact(context.Context, *connect.Request[api.GetContactRequest]) (*connect.Response[api.GetContactResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.ContactService.GetContact is not implemented"))
}

func (UnimplementedContactServiceHandler) ListContacts(context.Context, *connect.Request[api.ListContactsRequest]) (*connect.Response[api.ListContactsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.ContactService.ListContacts is not implemented"))
}

func (UnimplementedContactServiceHandler) SearchContacts(context.Context, *connect.Request[api.SearchContactsRequest]) (*connect.Response[api.SearchContactsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.ContactService.SearchContacts is not implemented"))
}

func (UnimplementedContactServiceHandler) UpdateContact(context.Context, *connect.Request[api.UpdateContactRequest]) (*connect.Response[api.UpdateContactResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.ContactService.UpdateContact is not implemented"))
}

func (UnimplementedContactServiceHandler) DeleteContact(context.Context, *connect.Request[api.DeleteContactRequest]) (*connect.Response[api.DeleteContactResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.ContactService.DeleteContact is not implemented"))
}
