package directory

import "context"

// Directory resolves participant identifiers to display names via the member
// directory service.
type Directory interface {
	ResolveNames(ctx context.Context, groupID string) (map[string]string, error)
}

// Member is one directory entry as the service reports it.
type Member struct {
	UserID     string `json:"userId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Username   string `json:"username"`
	Identifier string `json:"identifier"`
}
