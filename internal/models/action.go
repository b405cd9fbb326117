package models

// MintRequest describes one license asset to create inside a collection.
type MintRequest struct {
	Recipient  Identity
	Collection string
	Name       string
	URI        string
}

// MintResult carries a partially signed transaction, base64 encoded, that the
// recipient still has to sign and submit.
type MintResult struct {
	Transaction string
	Asset       string
}

// ActionDescriptor is the GET document of the action protocol.
type ActionDescriptor struct {
	Icon        string       `json:"icon"`
	Title       string       `json:"title"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
	Disabled    bool         `json:"disabled,omitempty"`
	Links       *ActionLinks `json:"links,omitempty"`
}

type ActionLinks struct {
	Actions []LinkedAction `json:"actions"`
}

type LinkedAction struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// ActionPostRequest is the body a wallet sends to build a transaction.
type ActionPostRequest struct {
	Account string `json:"account"`
}

type ActionPostResponse struct {
	Transaction string `json:"transaction"`
	Message     string `json:"message,omitempty"`
}

// ActionError is the error body of the action protocol.
type ActionError struct {
	Message string `json:"message"`
}

// ActionRules is served at /actions.json and maps site paths to action APIs.
type ActionRules struct {
	Rules []ActionRule `json:"rules"`
}

type ActionRule struct {
	PathPattern string `json:"pathPattern"`
	APIPath     string `json:"apiPath"`
}
