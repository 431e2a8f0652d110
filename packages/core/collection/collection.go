// Package collection defines the canonical shape of a Hoppscotch
// collection document. Every source a collection is loaded from, local
// file or remote workspace, yields this same shape.
package collection

// KeyValue is one header or query parameter entry. Entries with an empty
// key or Active set to false are ignored during resolution.
type KeyValue struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Active bool   `json:"active"`
}

// Auth describes how a request authenticates. Type is one of "none",
// "inherit", "basic", "bearer" or "api-key"; with "inherit" the enclosing
// folder's auth applies.
type Auth struct {
	Type     string `json:"authType"`
	Active   bool   `json:"authActive"`
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Key      string `json:"key,omitempty"`
	Value    string `json:"value,omitempty"`
	AddTo    string `json:"addTo,omitempty"`
}

// AddTo values for api-key auth.
const (
	AddToHeaders     = "HEADERS"
	AddToQueryParams = "QUERY_PARAMS"
)

// Body is a request payload with its declared content type.
type Body struct {
	ContentType string `json:"contentType,omitempty"`
	Body        string `json:"body,omitempty"`
}

// Request is one templated request inside a collection.
type Request struct {
	V        string     `json:"v,omitempty"`
	Name     string     `json:"name"`
	Method   string     `json:"method"`
	Endpoint string     `json:"endpoint"`
	Params   []KeyValue `json:"params,omitempty"`
	Headers  []KeyValue `json:"headers,omitempty"`
	Auth     Auth       `json:"auth,omitempty"`
	Body     Body       `json:"body,omitempty"`
}

// Collection is a named tree of folders and requests. Folders reuse the
// Collection shape.
type Collection struct {
	V        int           `json:"v,omitempty"`
	ID       string        `json:"id,omitempty"`
	Name     string        `json:"name"`
	Folders  []*Collection `json:"folders"`
	Requests []*Request    `json:"requests"`
	Auth     Auth          `json:"auth,omitempty"`
	Headers  []KeyValue    `json:"headers,omitempty"`
}
