package core

// CredentialUpdate is a credential the caller should store after this
// response, such as a refreshed access token.
type CredentialUpdate struct {
	Name  string
	Value string
	// Expose also sends the value as a response header of the same name,
	// for clients that cannot read cookies.
	Expose bool
}

// ResponseBuilder collects response metadata produced while authenticating.
// Transport adapters apply it before the downstream handler runs, so the
// updates always precede the response body. The zero value is ready to use;
// it is not safe for concurrent use.
type ResponseBuilder struct {
	updates []CredentialUpdate
}

// SetCredential records a credential update, replacing an earlier one with
// the same name.
func (b *ResponseBuilder) SetCredential(name, value string, expose bool) {
	for i := range b.updates {
		if b.updates[i].Name == name {
			b.updates[i] = CredentialUpdate{Name: name, Value: value, Expose: expose}
			return
		}
	}
	b.updates = append(b.updates, CredentialUpdate{Name: name, Value: value, Expose: expose})
}

// Updates returns the recorded updates in insertion order.
func (b *ResponseBuilder) Updates() []CredentialUpdate {
	return b.updates
}
