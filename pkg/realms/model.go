package realms

// AccountManagementApp is the application whose presence (and enabled flag)
// turns on the account sub-resource of a realm.
const AccountManagementApp = "account"

// WildcardOrigin allows any origin when listed in a client's web origins.
const WildcardOrigin = "*"

type ClientKind string

const (
	KindApplication ClientKind = "application"
	KindOAuth       ClientKind = "oauth"
)

// Realm is an isolated identity domain. Values handed out by a Provider are
// shared between requests and must be treated as read-only.
type Realm struct {
	Name         string
	PublicKeyPEM string // realm signing key (PKIX PEM), verifies identity cookies
	Clients      map[string]*Client
}

// Client is an application or oauth client registered within one realm.
type Client struct {
	ClientID     string
	Kind         ClientKind
	Enabled      bool
	WebOrigins   []string // exact origins or "*"
	RedirectURIs []string // absolute, or relative to the server base when starting with "/"
}

// NewRealm builds a realm and normalizes its clients.
func NewRealm(name, publicKeyPEM string, clients ...*Client) *Realm {
	r := &Realm{Name: name, PublicKeyPEM: publicKeyPEM, Clients: make(map[string]*Client, len(clients))}
	for _, c := range clients {
		r.Clients[c.ClientID] = c.normalize()
	}
	return r
}

func (c *Client) normalize() *Client {
	if c.WebOrigins == nil {
		c.WebOrigins = []string{}
	}
	if c.RedirectURIs == nil {
		c.RedirectURIs = []string{}
	}
	if c.Kind == "" {
		c.Kind = KindApplication
	}
	return c
}

// FindClient returns the client registered under clientID, or nil.
func (r *Realm) FindClient(clientID string) *Client {
	if r == nil || clientID == "" {
		return nil
	}
	return r.Clients[clientID]
}

// AccountApplication returns the account management application when it is
// registered as an application and enabled.
func (r *Realm) AccountApplication() *Client {
	c := r.FindClient(AccountManagementApp)
	if c == nil || c.Kind != KindApplication || !c.Enabled {
		return nil
	}
	return c
}
