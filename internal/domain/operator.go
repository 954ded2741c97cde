package domain

// Operator is the authenticated actor managing parking areas and attendants.
//
// Username is the operator identity known to the backend (the operator's
// phone number). AccessToken is the backend bearer token issued at sign-in;
// it is attached to every backend call made on the operator's behalf.
type Operator struct {
	Username    string
	AccessToken string
}

// AuthorizationHeader returns the value for the backend Authorization header.
func (o *Operator) AuthorizationHeader() string {
	if o == nil || o.AccessToken == "" {
		return ""
	}
	return "Bearer " + o.AccessToken
}
