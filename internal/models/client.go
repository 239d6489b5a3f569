package models

// Targeting carries the caller-supplied job identity that flows through to
// the Verdict untouched.
type Targeting struct {
	ID string
}

// Client holds the contact/company fields used to fill a form. Field names
// follow the source record's vocabulary so internal/values can address them
// directly without a translation table.
type Client struct {
	CompanyName string

	LastName  string
	FirstName string

	LastNameKana  string
	FirstNameKana string

	LastNameHiragana  string
	FirstNameHiragana string

	Email1 string

	Phone1, Phone2, Phone3 string

	PostalCode1, PostalCode2 string

	Address1, Address2, Address3, Address4, Address5 string

	Position string
	Gender   string

	Subject string
	Message string
}

// ClientRecord is the decoded shape described in SPEC_FULL.md §3. The
// nested {client, targeting} shape and a flattened shape are both accepted
// by internal/clientsource; this is the normalized in-memory form.
type ClientRecord struct {
	Client    Client
	Targeting Targeting
}
