package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/naveen-gthb/khatabook/internal/ledger"
	api "github.com/naveen-gthb/khatabook/pkg/api"
	"github.com/naveen-gthb/khatabook/pkg/api/apiconnect"
)

// ContactService implements the Connect ContactService.
type ContactService struct {
	apiconnect.UnimplementedContactServiceHandler
	ledger *ledger.Service
}

// NewContactService creates a ContactService backed by the ledger.
func NewContactService(l *ledger.Service) *ContactService {
	return &ContactService{ledger: l}
}

func (s *ContactService) CreateContact(ctx context.Context, req *connect.Request[api.CreateContactRequest]) (*connect.Response[api.CreateContactResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	contact, err := s.ledger.CreateContact(ctx, userID, ledger.ContactInput{
		Name:  req.Msg.Name,
		Phone: req.Msg.Phone,
		Email: req.Msg.Email,
		Notes: req.Msg.Notes,
	})
	if err != nil {
		return nil, fail("CreateContact", err, "user_id", userID)
	}

	slog.Info("Contact created", "contact_id", contact.ID, "user_id", userID)
	return connect.NewResponse(&api.CreateContactResponse{Contact: toAPIContact(contact)}), nil
}

func (s *ContactService) GetContact(ctx context.Context, req *connect.Request[api.GetContactRequest]) (*connect.Response[api.GetContactResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	contact, err := s.ledger.GetContact(ctx, userID, req.Msg.ContactId)
	if err != nil {
		return nil, fail("GetContact", err, "contact_id", req.Msg.ContactId)
	}
	return connect.NewResponse(&api.GetContactResponse{Contact: toAPIContact(contact)}), nil
}

func (s *ContactService) ListContacts(ctx context.Context, req *connect.Request[api.ListContactsRequest]) (*connect.Response[api.ListContactsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	contacts, err := s.ledger.ListContacts(ctx, userID)
	if err != nil {
		return nil, fail("ListContacts", err, "user_id", userID)
	}
	return connect.NewResponse(&api.ListContactsResponse{Contacts: toAPIContacts(contacts)}), nil
}

func (s *ContactService) SearchContacts(ctx context.Context, req *connect.Request[api.SearchContactsRequest]) (*connect.Response[api.SearchContactsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	contacts, err := s.ledger.SearchContacts(ctx, userID, req.Msg.Query)
	if err != nil {
		return nil, fail("SearchContacts", err, "user_id", userID)
	}
	return connect.NewResponse(&api.SearchContactsResponse{Contacts: toAPIContacts(contacts)}), nil
}

func (s *ContactService) UpdateContact(ctx context.Context, req *connect.Request[api.UpdateContactRequest]) (*connect.Response[api.UpdateContactResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	contact, err := s.ledger.UpdateContact(ctx, userID, req.Msg.ContactId, ledger.ContactInput{
		Name:  req.Msg.Name,
		Phone: req.Msg.Phone,
		Email: req.Msg.Email,
		Notes: req.Msg.Notes,
	})
	if err != nil {
		return nil, fail("UpdateContact", err, "contact_id", req.Msg.ContactId)
	}
	return connect.NewResponse(&api.UpdateContactResponse{Contact: toAPIContact(contact)}), nil
}

func (s *ContactService) DeleteContact(ctx context.Context, req *connect.Request[api.DeleteContactRequest]) (*connect.Response[api.DeleteContactResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.DeleteContact(ctx, userID, req.Msg.ContactId); err != nil {
		return nil, fail("DeleteContact", err, "contact_id", req.Msg.ContactId)
	}

	slog.Info("Contact deleted", "contact_id", req.Msg.ContactId, "user_id", userID)
	return connect.NewResponse(&api.DeleteContactResponse{}), nil
}
