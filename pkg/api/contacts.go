package api

type Contact struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

type CreateContactRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type CreateContactResponse struct {
	Contact *Contact `json:"contact"`
}

type GetContactRequest struct {
	ContactId string `json:"contactId"`
}

type GetContactResponse struct {
	Contact *Contact `json:"contact"`
}

type ListContactsRequest struct{}

type ListContactsResponse struct {
	Contacts []*Contact `json:"contacts"`
}

// SearchContactsRequest matches Query against name, email and phone.
type SearchContactsRequest struct {
	Query string `json:"query"`
}

type SearchContactsResponse struct {
	Contacts []*Contact `json:"contacts"`
}

type UpdateContactRequest struct {
	ContactId string `json:"contactId"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type UpdateContactResponse struct {
	Contact *Contact `json:"contact"`
}

type DeleteContactRequest struct {
	ContactId string `json:"contactId"`
}

type DeleteContactResponse struct{}
